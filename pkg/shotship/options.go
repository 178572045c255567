package shotship

import (
	"github.com/bft-labs/shotship/internal/ports"
	"github.com/bft-labs/shotship/pkg/log"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Transport delivers one shot. Supply one with WithTransport to replace the
// built-in multipart HTTP upload.
type Transport = ports.Transport

// TransportFunc adapts a function to Transport.
type TransportFunc = ports.TransportFunc

// Logger is the interface for structured logging.
type Logger = log.Logger

// Option configures optional behavior of a Sender.
type Option func(*options)

// options holds the optional configuration for a Sender.
type options struct {
	httpClient   ports.HTTPClient
	transport    ports.Transport
	logger       log.Logger
	eventHandler EventHandler
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithHTTPClient sets the HTTP client used by the built-in transport.
// If not provided, a client honoring the configured timeouts is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTransport replaces the built-in HTTP transport entirely.
// WithHTTPClient has no effect when a transport is supplied.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for shot and lifecycle events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}
