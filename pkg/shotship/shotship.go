package shotship

import (
	"context"
	"fmt"
	"sync"

	httpAdapter "github.com/bft-labs/shotship/internal/adapters/http"
	"github.com/bft-labs/shotship/internal/app"
	"github.com/bft-labs/shotship/internal/domain"
	"github.com/bft-labs/shotship/internal/queue"
	"github.com/bft-labs/shotship/pkg/log"
)

// Record describes where a shot was taken and what was detected in it.
type Record = domain.Record

// Detection is one detected object, with coordinates normalised to the image.
type Detection = domain.Detection

// Task is a queued shot as seen by a Transport.
type Task = domain.Task

// State is the lifecycle state of a Sender.
type State = app.State

const (
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateStopped  = app.StateStopped
)

// Stats is a point-in-time copy of a Sender's counters.
type Stats = app.StatsSnapshot

// Errors returned by the public API. Check them with errors.Is.
var (
	ErrRejected        = domain.ErrRejected
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrShutdownTimeout = domain.ErrShutdownTimeout
)

// StatusError is the delivery failure reported for a non-2xx response.
type StatusError = domain.StatusError

// Sender owns the delivery queue and its worker.
// All methods are safe for concurrent use.
type Sender struct {
	config    Config
	queue     *queue.Queue
	worker    *app.Worker
	lifecycle *app.Lifecycle
	stats     *app.Stats
	logger    log.Logger
	events    *eventEmitterWrapper

	// cancel aborts the in-flight delivery
	cancel context.CancelFunc

	stopOnce sync.Once
	stopErr  error
}

// New creates a Sender and starts its delivery worker.
// Returns an error wrapping ErrInvalidConfig if cfg is invalid.
func New(cfg Config, opts ...Option) (*Sender, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	q, err := queue.New(cfg.Capacity)
	if err != nil {
		return nil, err
	}

	transport := o.transport
	if transport == nil {
		client := o.httpClient
		if client == nil {
			client = httpAdapter.NewHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout, cfg.HTTPTimeout)
		}
		transport = httpAdapter.NewShotTransport(client, cfg.ServiceURL, o.logger)
	}

	events := &eventEmitterWrapper{handler: o.eventHandler}
	stats := &app.Stats{}

	s := &Sender{
		config:    cfg,
		queue:     q,
		worker:    app.NewWorker(q, transport, o.logger, events, stats),
		lifecycle: app.NewLifecycle(o.logger, events),
		stats:     stats,
		logger:    o.logger,
		events:    events,
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.lifecycle.AddWorker()
	go func() {
		defer s.lifecycle.WorkerDone()
		s.worker.Run(runCtx)
	}()

	s.logger.Info("sender started",
		log.Int("capacity", cfg.Capacity),
		log.String("service_url", cfg.ServiceURL),
	)

	return s, nil
}

// Post hands a shot to the sender and returns immediately.
// blob is owned by the sender afterwards and must not be modified.
// Returns ErrRejected once Stop has been called; the shot is dropped.
// A nil error means the shot was queued, not that it was delivered.
func (s *Sender) Post(rec Record, blob []byte) error {
	task := domain.NewTask(rec, blob)

	if !s.lifecycle.Accepting() {
		return s.reject(task)
	}

	evicted, err := s.queue.Enqueue(task)
	if err != nil {
		return s.reject(task)
	}

	s.stats.Accepted.Inc()
	queueLen := s.queue.Len()

	if evicted != nil {
		s.stats.Evicted.Inc()
		s.logger.Warn("queue full, oldest shot dropped",
			log.ShotID(evicted.ID),
			log.Duration("age", evicted.Age(task.EnqueuedAt)),
			log.Int("capacity", s.queue.Cap()),
		)
		s.events.evicted(*evicted, queueLen)
	}

	s.logger.Debug("shot queued",
		log.ShotID(task.ID),
		log.Int("bytes", task.Size()),
		log.Int("queue_len", queueLen),
	)
	s.events.accepted(task, queueLen)

	return nil
}

func (s *Sender) reject(task domain.Task) error {
	s.stats.Rejected.Inc()
	s.logger.Warn("sender is stopped, shot rejected",
		log.ShotID(task.ID),
		log.String("state", s.lifecycle.State().String()),
	)
	s.events.rejected(task, s.queue.Len())
	return domain.ErrRejected
}

// Stop shuts the sender down, waiting up to Config.ShutdownTimeout for
// queued shots to be delivered. See StopContext.
func (s *Sender) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.StopContext(ctx)
}

// StopContext stops accepting shots and waits for the worker to deliver what
// is queued. If ctx ends first, the remaining shots are discarded, the
// in-flight request is cancelled, and ErrShutdownTimeout is returned.
//
// The worker has exited by the time StopContext returns, so no request is
// started afterwards. StopContext is idempotent: only the first call runs the
// shutdown; concurrent and later calls wait for it and return its result.
func (s *Sender) StopContext(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.stopErr = s.shutdown(ctx)
	})
	return s.stopErr
}

func (s *Sender) shutdown(ctx context.Context) error {
	if err := s.lifecycle.TransitionTo(app.StateStopping, "stop requested"); err != nil {
		return err
	}

	s.queue.Close()

	var result error
	if err := s.lifecycle.Wait(ctx); err != nil {
		dropped := s.queue.Discard()
		s.stats.Discarded.Add(uint64(len(dropped)))
		s.logger.Warn("shutdown deadline reached, abandoning queued shots",
			log.Int("discarded", len(dropped)),
			log.Err(err),
		)

		s.cancel()
		_ = s.lifecycle.Wait(context.Background())
		result = fmt.Errorf("%w: %d queued shots discarded", domain.ErrShutdownTimeout, len(dropped))
	}
	s.cancel()

	reason := "queue drained"
	if result != nil {
		reason = "shutdown deadline reached"
	}
	_ = s.lifecycle.TransitionTo(app.StateStopped, reason)

	st := s.stats.Snapshot()
	s.logger.Info("sender stopped",
		log.Uint64("accepted", st.Accepted),
		log.Uint64("evicted", st.Evicted),
		log.Uint64("delivered", st.Delivered),
		log.Uint64("failed", st.Failed),
		log.Uint64("discarded", st.Discarded),
	)

	return result
}

// Status returns the current lifecycle state.
func (s *Sender) Status() State {
	return s.lifecycle.State()
}

// Stats returns the current counters.
func (s *Sender) Stats() Stats {
	return s.stats.Snapshot()
}

// QueueLen returns the number of shots waiting for delivery.
func (s *Sender) QueueLen() int {
	return s.queue.Len()
}

// Capacity returns the queue capacity.
func (s *Sender) Capacity() int {
	return s.queue.Cap()
}

// Config returns the effective configuration.
func (s *Sender) Config() Config {
	return s.config
}
