package queue

import (
	"fmt"
	"sync"

	"github.com/bft-labs/shotship/internal/domain"
)

// Queue is a bounded FIFO of delivery tasks with drop-oldest overflow.
// It is safe for many producers and one consumer.
type Queue struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond

	// ring buffer; head is the oldest entry
	buf   []domain.Task
	head  int
	count int

	closed    bool
	evictions uint64
}

// New creates a queue that holds at most capacity tasks.
func New(capacity int) (*Queue, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: queue capacity must be at least 1, got %d", domain.ErrInvalidConfig, capacity)
	}
	q := &Queue{buf: make([]domain.Task, capacity)}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q, nil
}

// Enqueue appends t without blocking.
// If the queue is full, the oldest task is removed first and returned as
// evicted. If the queue is closed, t is discarded and ErrRejected is returned.
func (q *Queue) Enqueue(t domain.Task) (evicted *domain.Task, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, domain.ErrRejected
	}

	if q.count == len(q.buf) {
		old := q.popLocked()
		evicted = &old
		q.evictions++
	}

	q.buf[(q.head+q.count)%len(q.buf)] = t
	q.count++
	q.nonEmpty.Signal()

	return evicted, nil
}

// Dequeue removes and returns the oldest task, blocking while the queue is
// empty. It returns false once the queue is closed and has no tasks left.
func (q *Queue) Dequeue() (domain.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.nonEmpty.Wait()
	}

	if q.count == 0 {
		return domain.Task{}, false
	}
	return q.popLocked(), true
}

// TryDequeue removes and returns the oldest task without blocking.
func (q *Queue) TryDequeue() (domain.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return domain.Task{}, false
	}
	return q.popLocked(), true
}

// Close stops the queue from accepting new tasks and wakes every waiting
// consumer. Tasks already queued can still be dequeued. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.nonEmpty.Broadcast()
}

// Discard removes every resident task and returns them oldest first.
func (q *Queue) Discard() []domain.Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]domain.Task, 0, q.count)
	for q.count > 0 {
		out = append(out, q.popLocked())
	}
	return out
}

// Snapshot returns a copy of the resident tasks, oldest first.
func (q *Queue) Snapshot() []domain.Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]domain.Task, q.count)
	for i := 0; i < q.count; i++ {
		out[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	return out
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Evictions returns how many tasks have been dropped due to overflow.
func (q *Queue) Evictions() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.evictions
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// popLocked removes the head entry. Caller holds q.mu and q.count > 0.
func (q *Queue) popLocked() domain.Task {
	t := q.buf[q.head]
	// release the blob so the ring does not pin it
	q.buf[q.head] = domain.Task{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return t
}
