package shotship

import (
	"time"

	"github.com/bft-labs/shotship/internal/app"
	"github.com/bft-labs/shotship/internal/domain"
)

// EventHandler receives notifications about shots and state changes.
// Calls are synchronous: Post-side events run on the producer's goroutine,
// delivery events on the worker goroutine.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnAccepted(event ShotEvent)
	OnEvicted(event ShotEvent)
	OnRejected(event ShotEvent)
	OnDelivered(event DeliveryEvent)
	OnDeliveryFailed(event DeliveryEvent)
}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// ShotEvent describes a shot entering or leaving the queue without delivery.
type ShotEvent struct {
	ShotID string
	Bytes  int

	// Age is how long the shot had been queued; zero for accepted/rejected.
	Age time.Duration

	// QueueLen is the queue length right after the event.
	QueueLen int
}

// DeliveryEvent describes one delivery attempt.
type DeliveryEvent struct {
	ShotID   string
	Bytes    int
	Objects  int
	Duration time.Duration

	// Err is set for failed deliveries.
	Err error
}

// BaseEventHandler implements EventHandler with no-ops.
// Embed it to handle only the events you need.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}
func (BaseEventHandler) OnAccepted(ShotEvent)           {}
func (BaseEventHandler) OnEvicted(ShotEvent)            {}
func (BaseEventHandler) OnRejected(ShotEvent)           {}
func (BaseEventHandler) OnDelivered(DeliveryEvent)      {}
func (BaseEventHandler) OnDeliveryFailed(DeliveryEvent) {}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: previous,
		Current:  current,
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnDelivered(task domain.Task, duration time.Duration) {
	if e.handler == nil {
		return
	}
	e.handler.OnDelivered(deliveryEvent(task, duration, nil))
}

func (e *eventEmitterWrapper) OnDeliveryFailed(task domain.Task, err error, duration time.Duration) {
	if e.handler == nil {
		return
	}
	e.handler.OnDeliveryFailed(deliveryEvent(task, duration, err))
}

func (e *eventEmitterWrapper) accepted(task domain.Task, queueLen int) {
	if e.handler == nil {
		return
	}
	e.handler.OnAccepted(ShotEvent{ShotID: task.ID, Bytes: task.Size(), QueueLen: queueLen})
}

func (e *eventEmitterWrapper) evicted(task domain.Task, queueLen int) {
	if e.handler == nil {
		return
	}
	e.handler.OnEvicted(ShotEvent{
		ShotID:   task.ID,
		Bytes:    task.Size(),
		Age:      task.Age(time.Now()),
		QueueLen: queueLen,
	})
}

func (e *eventEmitterWrapper) rejected(task domain.Task, queueLen int) {
	if e.handler == nil {
		return
	}
	e.handler.OnRejected(ShotEvent{ShotID: task.ID, Bytes: task.Size(), QueueLen: queueLen})
}

func deliveryEvent(task domain.Task, duration time.Duration, err error) DeliveryEvent {
	return DeliveryEvent{
		ShotID:   task.ID,
		Bytes:    task.Size(),
		Objects:  len(task.Record.Objects),
		Duration: duration,
		Err:      err,
	}
}
