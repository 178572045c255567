package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"SHOTSHIP_SERVICE_URL":      "http://env.local",
				"SHOTSHIP_QUEUE_SIZE":       "250",
				"SHOTSHIP_HTTP_TIMEOUT":     "20s",
				"SHOTSHIP_CONNECT_TIMEOUT":  "2s",
				"SHOTSHIP_READ_TIMEOUT":     "3s",
				"SHOTSHIP_SHUTDOWN_TIMEOUT": "1m",
				"SHOTSHIP_METRICS_ADDR":     ":9100",
				"SHOTSHIP_SPOOL_DIR":        "/spool",
				"SHOTSHIP_DEMO_COUNT":       "12",
				"SHOTSHIP_DEMO_INTERVAL":    "250ms",
				"SHOTSHIP_DEMO_IMAGE_BYTES": "2048",
				"SHOTSHIP_SETTLE":           "1s",
				"SHOTSHIP_LOG_LEVEL":        "debug",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				ServiceURL:      "http://env.local",
				QueueSize:       250,
				HTTPTimeout:     20 * time.Second,
				ConnectTimeout:  2 * time.Second,
				ReadTimeout:     3 * time.Second,
				ShutdownTimeout: time.Minute,
				MetricsAddr:     ":9100",
				SpoolDir:        "/spool",
				DemoCount:       12,
				DemoInterval:    250 * time.Millisecond,
				DemoImageBytes:  2048,
				Settle:          time.Second,
				LogLevel:        "debug",
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"SHOTSHIP_SERVICE_URL": "http://env.local",
				"SHOTSHIP_QUEUE_SIZE":  "250",
			},
			changed: map[string]bool{"service-url": true},
			initial: Config{
				ServiceURL: "http://flag.local",
			},
			expected: Config{
				ServiceURL: "http://flag.local",
				QueueSize:  250,
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"SHOTSHIP_READ_TIMEOUT": "not-a-duration",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"SHOTSHIP_QUEUE_SIZE": "lots",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
		{
			name: "ignores non-positive int",
			envVars: map[string]string{
				"SHOTSHIP_QUEUE_SIZE": "0",
			},
			changed:  map[string]bool{},
			initial:  Config{QueueSize: 100},
			expected: Config{QueueSize: 100},
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	fileConf := FileConfig{
		ServiceURL: "http://file.local",
		QueueSize:  10,
		LogLevel:   "warn",
	}

	t.Setenv("SHOTSHIP_SERVICE_URL", "http://env.local")
	t.Setenv("SHOTSHIP_QUEUE_SIZE", "20")

	// Simulate CLI flags
	changed := map[string]bool{
		"service-url": true,
	}

	cfg := DefaultConfig()
	cfg.ServiceURL = "http://cli.local"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.ServiceURL != "http://cli.local" {
		t.Errorf("ServiceURL = %v, want http://cli.local (CLI should win)", cfg.ServiceURL)
	}
	if cfg.QueueSize != 20 {
		t.Errorf("QueueSize = %v, want 20 (env should override file)", cfg.QueueSize)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %v, want warn (file should set)", cfg.LogLevel)
	}
}
