package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (SHOTSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("service-url", os.Getenv("SHOTSHIP_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("metrics-addr", os.Getenv("SHOTSHIP_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("spool-dir", os.Getenv("SHOTSHIP_SPOOL_DIR"), &cfg.SpoolDir)
	s.setString("log-level", os.Getenv("SHOTSHIP_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv("SHOTSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", os.Getenv("SHOTSHIP_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", os.Getenv("SHOTSHIP_READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv("SHOTSHIP_SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}
	if err := s.setDuration("demo-interval", os.Getenv("SHOTSHIP_DEMO_INTERVAL"), &cfg.DemoInterval); err != nil {
		return err
	}
	if err := s.setDuration("settle", os.Getenv("SHOTSHIP_SETTLE"), &cfg.Settle); err != nil {
		return err
	}

	if err := s.setIntFromString("queue-size", os.Getenv("SHOTSHIP_QUEUE_SIZE"), &cfg.QueueSize); err != nil {
		return err
	}
	if err := s.setIntFromString("demo", os.Getenv("SHOTSHIP_DEMO_COUNT"), &cfg.DemoCount); err != nil {
		return err
	}
	if err := s.setIntFromString("demo-image-bytes", os.Getenv("SHOTSHIP_DEMO_IMAGE_BYTES"), &cfg.DemoImageBytes); err != nil {
		return err
	}

	return nil
}
