// Package shotship is the entry point for embedding the shot sender.
//
// Example usage:
//
//	s, err := shotship.GetInstance(100)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
//
//	if err := s.Post(rec, jpeg); err != nil {
//	    // the sender is shutting down
//	}
//
// The full API lives in github.com/bft-labs/shotship/pkg/shotship.
package shotship

import (
	sender "github.com/bft-labs/shotship/pkg/shotship"
)

// Sender queues shots and uploads them in the background.
type Sender = sender.Sender

// Config holds the configuration for a Sender.
type Config = sender.Config

// Record is the structured part of a shot.
type Record = sender.Record

// Detection is one detected object in a shot.
type Detection = sender.Detection

// Option configures optional behavior of a Sender.
type Option = sender.Option

var defaultRegistry sender.Registry

// GetInstance returns the process-wide Sender, creating it with the given
// queue capacity on first use. Later calls return the same Sender and ignore
// capacity. A failed first call is not remembered.
func GetInstance(capacity int, opts ...Option) (*Sender, error) {
	return defaultRegistry.Get(capacity, opts...)
}

// GetInstanceConfig is like GetInstance but takes a full Config.
func GetInstanceConfig(cfg Config, opts ...Option) (*Sender, error) {
	return defaultRegistry.GetConfig(cfg, opts...)
}

// New creates a Sender that is not shared through GetInstance.
func New(cfg Config, opts ...Option) (*Sender, error) {
	return sender.New(cfg, opts...)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return sender.DefaultConfig()
}
