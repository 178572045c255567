package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				ServiceURL:      "http://file.local",
				QueueSize:       64,
				HTTPTimeout:     "30s",
				ConnectTimeout:  "1s",
				ReadTimeout:     "2s",
				ShutdownTimeout: "45s",
				MetricsAddr:     "127.0.0.1:9100",
				SpoolDir:        "/spool",
				DemoCount:       3,
				DemoInterval:    "1s",
				DemoImageBytes:  1024,
				Settle:          "5s",
				LogLevel:        "error",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				ServiceURL:      "http://file.local",
				QueueSize:       64,
				HTTPTimeout:     30 * time.Second,
				ConnectTimeout:  time.Second,
				ReadTimeout:     2 * time.Second,
				ShutdownTimeout: 45 * time.Second,
				MetricsAddr:     "127.0.0.1:9100",
				SpoolDir:        "/spool",
				DemoCount:       3,
				DemoInterval:    time.Second,
				DemoImageBytes:  1024,
				Settle:          5 * time.Second,
				LogLevel:        "error",
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				QueueSize: 64,
				SpoolDir:  "/file/spool",
			},
			changed: map[string]bool{"queue-size": true},
			initial: Config{
				QueueSize: 8,
			},
			expected: Config{
				QueueSize: 8, // unchanged because flag was set
				SpoolDir:  "/file/spool",
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			fileConfig: FileConfig{
				Settle: "soon",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
		{
			name:       "empty file leaves config alone",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyFileConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
service_url = "http://ingest.local:8080"
queue_size = 500
read_timeout = "2s"
spool_dir = "/var/spool/shots"
demo_image_bytes = 4096
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.ServiceURL != "http://ingest.local:8080" {
		t.Errorf("ServiceURL = %v, want http://ingest.local:8080", fc.ServiceURL)
	}
	if fc.QueueSize != 500 {
		t.Errorf("QueueSize = %v, want 500", fc.QueueSize)
	}
	if fc.ReadTimeout != "2s" {
		t.Errorf("ReadTimeout = %v, want 2s", fc.ReadTimeout)
	}
	if fc.SpoolDir != "/var/spool/shots" {
		t.Errorf("SpoolDir = %v, want /var/spool/shots", fc.SpoolDir)
	}
	if fc.DemoImageBytes != 4096 {
		t.Errorf("DemoImageBytes = %v, want 4096", fc.DemoImageBytes)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
queue_size = 10
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".shotship") {
		t.Errorf("DefaultConfigPath() = %v, should contain .shotship", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
