package ports

import (
	"context"
	"net/http"
	"time"

	"github.com/bft-labs/shotship/internal/domain"
)

// Transport performs one outbound delivery of a shot.
// Each call is independent: a failure must not leave state behind that
// affects the next call.
type Transport interface {
	// Send uploads the task and returns nil only when the service accepted it.
	// Implementations must honor ctx cancellation.
	Send(ctx context.Context, task domain.Task) error
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, task domain.Task) error

// Send calls f(ctx, task).
func (f TransportFunc) Send(ctx context.Context, task domain.Task) error {
	return f(ctx, task)
}

// DeliveryEmitter is notified after every delivery attempt.
// Calls are made synchronously from the delivery worker.
type DeliveryEmitter interface {
	OnDelivered(task domain.Task, duration time.Duration)
	OnDeliveryFailed(task domain.Task, err error, duration time.Duration)
}

// HTTPClient abstracts HTTP request execution so tests and embedders can
// supply their own client. *http.Client satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
