package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/bft-labs/shotship/internal/domain"
	"github.com/bft-labs/shotship/internal/ports"
	"github.com/bft-labs/shotship/internal/queue"
	"github.com/bft-labs/shotship/pkg/log"
)

// Worker is the single consumer of the delivery queue.
// It delivers one shot at a time and never retries.
type Worker struct {
	queue     *queue.Queue
	transport ports.Transport
	logger    log.Logger
	emitter   ports.DeliveryEmitter
	stats     *Stats
}

// NewWorker creates a worker draining q through transport.
// emitter may be nil.
func NewWorker(
	q *queue.Queue,
	transport ports.Transport,
	logger log.Logger,
	emitter ports.DeliveryEmitter,
	stats *Stats,
) *Worker {
	return &Worker{
		queue:     q,
		transport: transport,
		logger:    logger,
		emitter:   emitter,
		stats:     stats,
	}
}

// Run delivers queued shots until the queue is closed and empty.
// ctx bounds each delivery; cancelling it aborts the in-flight request but
// does not by itself stop the loop.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Debug("delivery worker started")
	for {
		task, ok := w.queue.Dequeue()
		if !ok {
			break
		}
		w.deliver(ctx, task)
	}
	w.logger.Info("delivery worker stopped")
}

// deliver makes one attempt. Errors and panics stop here.
func (w *Worker) deliver(ctx context.Context, task domain.Task) {
	start := time.Now()
	queued := task.Age(start)

	err := w.send(ctx, task)
	duration := time.Since(start)

	if err != nil {
		w.stats.Failed.Inc()
		w.logger.Error("delivery failed, shot dropped",
			log.ShotID(task.ID),
			log.Err(err),
			log.Int("bytes", task.Size()),
			log.Duration("queued", queued),
			log.Duration("duration", duration),
		)
		w.notify(task, func(e ports.DeliveryEmitter) { e.OnDeliveryFailed(task, err, duration) })
		return
	}

	w.stats.Delivered.Inc()
	w.logger.Info("shot delivered",
		log.ShotID(task.ID),
		log.Int("objects", len(task.Record.Objects)),
		log.Int("bytes", task.Size()),
		log.Duration("queued", queued),
		log.Duration("duration", duration),
	)
	w.notify(task, func(e ports.DeliveryEmitter) { e.OnDelivered(task, duration) })
}

// notify runs an emitter callback; a panicking handler must not kill the loop.
func (w *Worker) notify(task domain.Task, fn func(ports.DeliveryEmitter)) {
	if w.emitter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("event handler panic recovered",
				log.ShotID(task.ID),
				log.Any("panic", r),
			)
		}
	}()
	fn(w.emitter)
}

// send calls the transport and converts a panic into an error.
func (w *Worker) send(ctx context.Context, task domain.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("transport panic recovered",
				log.ShotID(task.ID),
				log.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("transport panic: %v", r)
		}
	}()
	return w.transport.Send(ctx, task)
}
