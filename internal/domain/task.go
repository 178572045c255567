package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is one unit of delivery work: a record and its image attachment.
type Task struct {
	// ID is a random identifier used for log correlation
	ID string

	// Record is the structured part of the shot
	Record Record

	// Blob is the image, sent as-is
	Blob []byte

	// EnqueuedAt is when the producer handed the task over
	EnqueuedAt time.Time
}

// NewTask builds a Task that owns rec and blob.
// The detections slice is copied; blob is taken over without copying, so the
// caller must not modify it after the call.
func NewTask(rec Record, blob []byte) Task {
	return Task{
		ID:         uuid.New().String(),
		Record:     rec.clone(),
		Blob:       blob,
		EnqueuedAt: time.Now(),
	}
}

// Age returns how long the task has waited since it was enqueued.
func (t Task) Age(now time.Time) time.Duration {
	if t.EnqueuedAt.IsZero() {
		return 0
	}
	return now.Sub(t.EnqueuedAt)
}

// Size returns the number of blob bytes carried by the task.
func (t Task) Size() int {
	return len(t.Blob)
}
