package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ServiceURL      string `toml:"service_url"`
	QueueSize       int    `toml:"queue_size"`
	HTTPTimeout     string `toml:"http_timeout"`
	ConnectTimeout  string `toml:"connect_timeout"`
	ReadTimeout     string `toml:"read_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	MetricsAddr     string `toml:"metrics_addr"`
	SpoolDir        string `toml:"spool_dir"`
	DemoCount       int    `toml:"demo_count"`
	DemoInterval    string `toml:"demo_interval"`
	DemoImageBytes  int    `toml:"demo_image_bytes"`
	Settle          string `toml:"settle"`
	LogLevel        string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.shotship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".shotship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("spool-dir", fc.SpoolDir, &cfg.SpoolDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}
	if err := s.setDuration("demo-interval", fc.DemoInterval, &cfg.DemoInterval); err != nil {
		return err
	}
	if err := s.setDuration("settle", fc.Settle, &cfg.Settle); err != nil {
		return err
	}

	s.setInt("queue-size", fc.QueueSize, &cfg.QueueSize)
	s.setInt("demo", fc.DemoCount, &cfg.DemoCount)
	s.setInt("demo-image-bytes", fc.DemoImageBytes, &cfg.DemoImageBytes)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
