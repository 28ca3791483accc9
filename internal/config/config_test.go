package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/booxtream/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingDefaultConfigUsesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvUsername, "")
	t.Setenv(config.EnvAPIKey, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "booxtream", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}

	def := config.Default()
	if diff := cmp.Diff(def.Service, cfg.Service); diff != "" {
		t.Fatalf("service defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Timeout() != 300*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout())
	}
	if cfg.Logging.Format != "text" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if err := cfg.ValidateCredentials(); err == nil {
		t.Fatal("expected missing credentials to be reported")
	}
}

func TestLoadParsesFileAndEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvUsername, "")
	t.Setenv(config.EnvAPIKey, "env-key")

	path := writeConfig(t, `
[service]
base_url = "https://staging.booxtream.test/"
username = "shop"
api_key = "file-key"
timeout_seconds = 60
requests_per_second = 2
burst = 0

[options]
LanguageCode = 1043
exlibris = true
exlibrisfont = "serif"

[logging]
level = "DEBUG"
format = "json"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to exist, got %q (exists=%t)", path, resolved, exists)
	}

	want := config.Service{
		BaseURL:           "https://staging.booxtream.test",
		Username:          "shop",
		APIKey:            "env-key",
		TimeoutSeconds:    60,
		UserAgent:         "booxtream-go",
		RequestsPerSecond: 2,
		Burst:             1,
	}
	if diff := cmp.Diff(want, cfg.Service); diff != "" {
		t.Fatalf("service mismatch (-want +got):\n%s", diff)
	}

	wantOptions := map[string]any{"languagecode": int64(1043), "exlibris": true, "exlibrisfont": "serif"}
	if diff := cmp.Diff(wantOptions, cfg.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		t.Fatalf("expected credentials, got: %v", err)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv(config.EnvUsername, "")
	t.Setenv(config.EnvAPIKey, "")

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "relative base url", content: "[service]\nbase_url = \"/api\"\n", wantErr: "service.base_url"},
		{name: "negative timeout", content: "[service]\ntimeout_seconds = -1\n", wantErr: "service.timeout_seconds"},
		{name: "negative rps", content: "[service]\nrequests_per_second = -2\n", wantErr: "service.requests_per_second"},
		{name: "unknown option", content: "[options]\nwatermark = true\n", wantErr: "options.watermark"},
		{name: "bad log format", content: "[logging]\nformat = \"console\"\n", wantErr: "logging.format"},
		{name: "bad log level", content: "[logging]\nlevel = \"trace\"\n", wantErr: "logging.level"},
		{name: "unknown section", content: "[paths]\nstaging_dir = \"/tmp\"\n", wantErr: "parse config"},
		{name: "malformed toml", content: "[service\n", wantErr: "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadRejectsDirectory(t *testing.T) {
	if _, _, _, err := config.Load(t.TempDir()); err == nil {
		t.Fatal("expected error for directory path")
	}
}
