package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultServiceURL is the default ingestion endpoint base URL.
const DefaultServiceURL = "http://localhost:8080"

// Config holds CLI configuration for shotship.
type Config struct {
	ServiceURL string
	QueueSize  int

	HTTPTimeout     time.Duration
	ConnectTimeout  time.Duration
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration

	// MetricsAddr enables the Prometheus endpoint when non-empty.
	MetricsAddr string

	// SpoolDir switches the CLI from the demo driver to watching a directory.
	SpoolDir string

	DemoCount      int
	DemoInterval   time.Duration
	DemoImageBytes int
	Settle         time.Duration

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ServiceURL:      DefaultServiceURL,
		QueueSize:       100,
		HTTPTimeout:     15 * time.Second,
		ConnectTimeout:  5 * time.Second,
		ReadTimeout:     5 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		DemoCount:       5,
		DemoInterval:    100 * time.Millisecond,
		DemoImageBytes:  512 << 10, // 512KB
		Settle:          3 * time.Second,
		LogLevel:        "info",
	}
}

// SpoolMode reports whether the CLI should watch SpoolDir instead of
// running the demo driver.
func (c *Config) SpoolMode() bool {
	return c.SpoolDir != ""
}

// Validate checks the configuration for errors and normalises values.
func (c *Config) Validate() error {
	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}

	// Ensure no trailing slash
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")

	if c.QueueSize < 1 {
		return fmt.Errorf("queue size must be at least 1, got %d", c.QueueSize)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if !c.SpoolMode() {
		if c.DemoCount < 0 {
			return fmt.Errorf("demo count must not be negative")
		}
		if c.DemoImageBytes <= 0 {
			return fmt.Errorf("demo image size must be positive")
		}
		if c.DemoInterval < 0 || c.Settle < 0 {
			return fmt.Errorf("demo interval and settle must not be negative")
		}
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
