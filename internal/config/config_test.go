package config

import (
	"os"
	"testing"
	"time"

	"log/slog"
)

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Errorf("expected default port %q, got %q", defaultPort, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout %v, got %v", defaultReadTimeout, cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != defaultWriteTimeout {
		t.Errorf("expected default write timeout %v, got %v", defaultWriteTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Server.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("expected default shutdown timeout %v, got %v", defaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != slog.LevelInfo {
		t.Errorf("expected default log level %v, got %v", slog.LevelInfo, cfg.Logging.Level)
	}
	if cfg.Logging.Format != defaultLogFormat {
		t.Errorf("expected default log format %q, got %q", defaultLogFormat, cfg.Logging.Format)
	}
	if cfg.Models.ServerURL != "" {
		t.Errorf("expected empty model server URL, got %q", cfg.Models.ServerURL)
	}
	if cfg.Models.Timeout != defaultModelTimeout {
		t.Errorf("expected default model timeout %v, got %v", defaultModelTimeout, cfg.Models.Timeout)
	}
	if cfg.Data.EventsFile != defaultEventsFile {
		t.Errorf("expected default events file %q, got %q", defaultEventsFile, cfg.Data.EventsFile)
	}
	if cfg.Data.MetadataFile != defaultMetadataFile {
		t.Errorf("expected default metadata file %q, got %q", defaultMetadataFile, cfg.Data.MetadataFile)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL, got %q", cfg.Database.URL)
	}
	if cfg.Database.MigrationsDir != defaultMigrationsDir {
		t.Errorf("expected default migrations dir %q, got %q", defaultMigrationsDir, cfg.Database.MigrationsDir)
	}
}

func TestLoadCloudRunPortWins(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9001")
	t.Setenv("SERVER_PORT", "9002")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != "9001" {
		t.Errorf("expected PORT to win, got %q", cfg.Server.Port)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	clearConfigEnv(t)

	overrides := map[string]string{
		"SERVER_PORT":                     "9090",
		"SERVER_READ_TIMEOUT_SECONDS":     "30",
		"SERVER_WRITE_TIMEOUT_SECONDS":    "45",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS": "15",
		"LOG_LEVEL":                       "debug",
		"LOG_FORMAT":                      "text",
		"MODEL_SERVER_URL":                "http://models:9000",
		"MODEL_SERVER_TIMEOUT_SECONDS":    "20",
		"EVENTS_FILE":                     "/data/events.json",
		"BASELINES_FILE":                  "/data/baselines.json",
		"MODEL_METADATA_FILE":             "/data/metadata.json",
		"DATABASE_URL":                    "postgres://audit",
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != overrides["SERVER_PORT"] {
		t.Errorf("expected overridden port %q, got %q", overrides["SERVER_PORT"], cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout %v, got %v", 30*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 45*time.Second {
		t.Errorf("expected write timeout %v, got %v", 45*time.Second, cfg.Server.WriteTimeout)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("expected shutdown timeout %v, got %v", 15*time.Second, cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != slog.LevelDebug {
		t.Errorf("expected log level %v, got %v", slog.LevelDebug, cfg.Logging.Level)
	}
	if cfg.Logging.Format != overrides["LOG_FORMAT"] {
		t.Errorf("expected log format %q, got %q", overrides["LOG_FORMAT"], cfg.Logging.Format)
	}
	if cfg.Models.ServerURL != overrides["MODEL_SERVER_URL"] {
		t.Errorf("expected model server URL %q, got %q", overrides["MODEL_SERVER_URL"], cfg.Models.ServerURL)
	}
	if cfg.Models.Timeout != 20*time.Second {
		t.Errorf("expected model timeout %v, got %v", 20*time.Second, cfg.Models.Timeout)
	}
	if cfg.Data.EventsFile != overrides["EVENTS_FILE"] {
		t.Errorf("expected events file %q, got %q", overrides["EVENTS_FILE"], cfg.Data.EventsFile)
	}
	if cfg.Data.BaselinesFile != overrides["BASELINES_FILE"] {
		t.Errorf("expected baselines file %q, got %q", overrides["BASELINES_FILE"], cfg.Data.BaselinesFile)
	}
	if cfg.Database.URL != overrides["DATABASE_URL"] {
		t.Errorf("expected database URL %q, got %q", overrides["DATABASE_URL"], cfg.Database.URL)
	}
}

func TestLoadPartialOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected overridden read timeout %v, got %v", 5*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != defaultWriteTimeout {
		t.Errorf("expected default write timeout %v, got %v", defaultWriteTimeout, cfg.Server.WriteTimeout)
	}
}

func TestLoadWithInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SERVER_READ_TIMEOUT_SECONDS":     "-1",
		"SERVER_WRITE_TIMEOUT_SECONDS":    "abc",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS": "3.5",
		"MODEL_SERVER_TIMEOUT_SECONDS":    "later",
		"LOG_LEVEL":                       "verbose",
		"LOG_FORMAT":                      "xml",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error when %s=%q", key, value)
			}
		})
	}
}

func TestParseLogLevelAliases(t *testing.T) {
	tests := map[string]slog.Level{
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
	}

	for input, expected := range tests {
		level, err := parseLogLevel(input)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) returned error: %v", input, err)
		}

		if level != expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, level, expected)
		}
	}
}

func TestParseSecondsRejectsInvalidInput(t *testing.T) {
	cases := []string{"-1", "abc"}

	for _, input := range cases {
		if _, err := parseSeconds(input); err == nil {
			t.Fatalf("expected error for input %q", input)
		}
	}
}

func TestLoadDoesNotPersistEnvBetweenRuns(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("SERVER_READ_TIMEOUT_SECONDS", "5")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Unsetenv("SERVER_READ_TIMEOUT_SECONDS"); err != nil {
		t.Fatalf("failed to unset env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout after reset, got %v", cfg.Server.ReadTimeout)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT",
		"SERVER_PORT",
		"SERVER_READ_TIMEOUT_SECONDS",
		"SERVER_WRITE_TIMEOUT_SECONDS",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"MODEL_SERVER_URL",
		"MODEL_SERVER_TIMEOUT_SECONDS",
		"EVENTS_FILE",
		"BASELINES_FILE",
		"MODEL_METADATA_FILE",
		"DATABASE_URL",
		"MIGRATIONS_DIR",
	}

	for _, key := range keys {
		t.Setenv(key, "")
	}
}
