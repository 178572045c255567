package app

import (
	"context"
	"errors"
	"sync"

	"github.com/bft-labs/shotship/pkg/log"
)

// ErrInvalidTransition is returned when a lifecycle transition is not allowed.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// State represents the lifecycle state of a sender.
type State int

const (
	StateRunning State = iota
	StateStopping
	StateStopped
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Lifecycle manages the Running -> Stopping -> Stopped state machine.
// A sender is Running from construction; Stopped is terminal.
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	wg           sync.WaitGroup
	logger       log.Logger
	eventEmitter EventEmitter
}

// NewLifecycle creates a lifecycle in StateRunning.
func NewLifecycle(logger log.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateRunning,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Accepting reports whether new shots may be enqueued.
func (l *Lifecycle) Accepting() bool {
	return l.State() == StateRunning
}

// TransitionTo attempts to transition to a new state.
// Only Running -> Stopping and Stopping -> Stopped are valid.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	valid := (oldState == StateRunning && newState == StateStopping) ||
		(oldState == StateStopping && newState == StateStopped)
	if !valid {
		l.mu.Unlock()
		return ErrInvalidTransition
	}

	l.state = newState
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Info("state transition",
		log.String("from", oldState.String()),
		log.String("to", newState.String()),
		log.String("reason", reason),
	)

	return nil
}

// AddWorker increments the worker count.
func (l *Lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *Lifecycle) WorkerDone() {
	l.wg.Done()
}

// Wait blocks until every worker has finished or ctx is done.
// It returns ctx.Err() if the context ends first.
func (l *Lifecycle) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
