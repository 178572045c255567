package shotship

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/multierr"

	"github.com/bft-labs/shotship/internal/domain"
)

const (
	// DefaultCapacity is the queue size used by Registry.Get callers that do
	// not care and by DefaultConfig.
	DefaultCapacity = 1000

	// DefaultServiceURL is the base URL of the ingestion service.
	DefaultServiceURL = "http://localhost:8080"

	DefaultConnectTimeout  = 5 * time.Second
	DefaultReadTimeout     = 5 * time.Second
	DefaultHTTPTimeout     = 15 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Config holds the configuration for a Sender.
type Config struct {
	// Capacity is the maximum number of queued shots. Must be at least 1.
	Capacity int

	// ServiceURL is the base URL of the ingestion service.
	ServiceURL string

	// ConnectTimeout bounds establishing the TCP connection.
	ConnectTimeout time.Duration

	// ReadTimeout bounds waiting for the response headers once the request
	// has been written.
	ReadTimeout time.Duration

	// HTTPTimeout bounds one whole delivery, upload included.
	HTTPTimeout time.Duration

	// ShutdownTimeout bounds how long Stop waits for the queue to drain.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Capacity:        DefaultCapacity,
		ServiceURL:      DefaultServiceURL,
		ConnectTimeout:  DefaultConnectTimeout,
		ReadTimeout:     DefaultReadTimeout,
		HTTPTimeout:     DefaultHTTPTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// SetDefaults fills unset optional fields. Capacity is left alone: a zero
// capacity is a configuration error, not a request for the default.
func (c *Config) SetDefaults() {
	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate reports every problem with the configuration at once.
// The returned error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	var err error

	if c.Capacity < 1 {
		err = multierr.Append(err, fmt.Errorf("capacity must be at least 1, got %d", c.Capacity))
	}

	if u, perr := url.Parse(c.ServiceURL); perr != nil {
		err = multierr.Append(err, fmt.Errorf("service url: %w", perr))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		err = multierr.Append(err, fmt.Errorf("service url must be an absolute http(s) URL, got %q", c.ServiceURL))
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"connect timeout", c.ConnectTimeout},
		{"read timeout", c.ReadTimeout},
		{"http timeout", c.HTTPTimeout},
		{"shutdown timeout", c.ShutdownTimeout},
	} {
		if d.value <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s must be positive", d.name))
		}
	}

	if err != nil {
		return &ValidationError{problems: err}
	}
	return nil
}

// ValidationError lists every problem found by Config.Validate.
// It matches ErrInvalidConfig with errors.Is.
type ValidationError struct {
	problems error
}

// Error implements error.
func (e *ValidationError) Error() string {
	return domain.ErrInvalidConfig.Error() + ": " + e.problems.Error()
}

// Unwrap returns ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidConfig
}

// Problems returns the individual validation failures.
func (e *ValidationError) Problems() []error {
	return multierr.Errors(e.problems)
}
