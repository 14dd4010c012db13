package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/scbrown/habits/internal/config"
)

func TestConfigCmdShowEmpty(t *testing.T) {
	setupCLI(t)

	output := mustRun(t, "config")
	if !strings.Contains(output, "KEY") || !strings.Contains(output, "VALUE") {
		t.Errorf("expected table headers, got: %s", output)
	}
	for _, key := range config.ValidKeys() {
		if !strings.Contains(output, key) {
			t.Errorf("expected %s key, got: %s", key, output)
		}
	}
	if !strings.Contains(output, "(not set)") {
		t.Errorf("expected (not set) for empty values, got: %s", output)
	}
}

func TestConfigCmdGet(t *testing.T) {
	setupCLI(t)

	cfg := &config.Config{RedisAddr: "cache:6380"}
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatal(err)
	}

	output := mustRun(t, "config", "redis_addr")
	if strings.TrimSpace(output) != "cache:6380" {
		t.Errorf("got %q, want %q", strings.TrimSpace(output), "cache:6380")
	}
}

func TestConfigCmdSet(t *testing.T) {
	setupCLI(t)

	output := mustRun(t, "config", "default_format", "yaml")
	if !strings.Contains(output, "default_format = yaml") {
		t.Errorf("expected confirmation, got: %s", output)
	}

	loaded, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.DefaultFormat != "yaml" {
		t.Errorf("DefaultFormat = %q, want %q", loaded.DefaultFormat, "yaml")
	}
}

func TestConfigCmdSetInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "bogus_key", "value"}},
		{"bad backend", []string{"config", "backend", "etcd"}},
		{"bad redis db", []string{"config", "redis_db", "-1"}},
		{"bad log level", []string{"config", "log_level", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestConfigCmdJSON(t *testing.T) {
	setupCLI(t)

	cfg := &config.Config{Backend: "redis", RedisDB: 2, StorageKey: "mine"}
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatal(err)
	}

	output := mustRun(t, "config", "--json")
	var got config.Config
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, output)
	}
	if got.Backend != "redis" || got.RedisDB != 2 || got.StorageKey != "mine" {
		t.Errorf("got %+v", got)
	}
}

func TestConfigOverridesFlagDefaults(t *testing.T) {
	setupCLI(t)
	if err := (&config.Config{DefaultFormat: "json"}).SaveTo(configPath); err != nil {
		t.Fatal(err)
	}

	// Explicit --format beats the configured default.
	output := mustRun(t, "list", "--format", "table")
	if !strings.Contains(output, "No habits found.") {
		t.Errorf("expected table output, got: %s", output)
	}

	output = mustRun(t, "list")
	if strings.TrimSpace(output) != "[]" {
		t.Errorf("expected configured json output, got: %q", output)
	}
}
