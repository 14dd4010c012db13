package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsZero() {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "config.toml")
	cfg := &Config{
		Backend:       "redis",
		DBPath:        "/custom/habits.db",
		RedisAddr:     "localhost:6380",
		RedisDB:       3,
		StorageKey:    "my_habits",
		DefaultFormat: "yaml",
		LogLevel:      "debug",
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestLoadJSONByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"db_path":"/j.db","default_format":"json"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DBPath != "/j.db" || cfg.DefaultFormat != "json" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"bad.json": "{invalid",
		"bad.toml": "db_path = [unterminated",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Errorf("%s: expected parse error", name)
		}
	}
}

func TestLoadMigratesLegacyJSON(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "config.toml")
	legacyPath := filepath.Join(dir, "config.json")

	data, _ := json.Marshal(Config{DBPath: "/legacy.db", StorageKey: "old_key"})
	if err := os.WriteFile(legacyPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(tomlPath, legacyPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/legacy.db" || cfg.StorageKey != "old_key" {
		t.Errorf("got %+v", cfg)
	}
	if _, err := os.Stat(legacyPath); !os.IsNotExist(err) {
		t.Error("legacy JSON config should be removed after migration")
	}
	migrated, err := LoadFrom(tomlPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if *migrated != *cfg {
		t.Errorf("TOML config = %+v, want %+v", migrated, cfg)
	}
}

func TestLoadPrefersExistingTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "config.toml")
	legacyPath := filepath.Join(dir, "config.json")

	// An existing but empty TOML file wins over the legacy JSON file.
	if err := os.WriteFile(tomlPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(legacyPath, []byte(`{"db_path":"/legacy.db"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := load(tomlPath, legacyPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsZero() {
		t.Errorf("expected empty config, got %+v", cfg)
	}
	if _, err := os.Stat(legacyPath); err != nil {
		t.Error("legacy JSON config should be left alone")
	}
}

func TestGetSet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"backend sqlite", "backend", "sqlite", "sqlite"},
		{"backend redis", "backend", "redis", "redis"},
		{"db_path", "db_path", "/tmp/test.db", "/tmp/test.db"},
		{"redis_addr", "redis_addr", "localhost:6379", "localhost:6379"},
		{"redis_db", "redis_db", "2", "2"},
		{"redis_db empty", "redis_db", "", ""},
		{"storage_key", "storage_key", "k", "k"},
		{"default_format table", "default_format", "table", "table"},
		{"default_format json", "default_format", "json", "json"},
		{"default_format yaml", "default_format", "yaml", "yaml"},
		{"log_level", "log_level", "info", "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"backend", "postgres"},
		{"redis_db", "-1"},
		{"redis_db", "two"},
		{"default_format", "xml"},
		{"log_level", "chatty"},
		{"nonexistent", "value"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			if err := cfg.Set(tt.key, tt.value); err == nil {
				t.Fatalf("expected error setting %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestGetUnknownKey(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.Get("nonexistent"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	if len(keys) != len(validKeys) {
		t.Fatalf("expected %d keys, got %d", len(validKeys), len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] < keys[i-1] {
			t.Errorf("keys not sorted: %q before %q", keys[i-1], keys[i])
		}
	}
	for _, k := range keys {
		if !validKeys[k] {
			t.Errorf("ValidKeys lists unknown key %q", k)
		}
	}
}

func TestPath(t *testing.T) {
	p := Path()
	if filepath.Base(p) != "config.toml" {
		t.Errorf("Path() = %q, want basename config.toml", p)
	}
	if filepath.Base(filepath.Dir(p)) != ".habits" {
		t.Errorf("Path() = %q, want it inside .habits", p)
	}
}

func TestLoadFromReadError(t *testing.T) {
	// Try to read a directory as a file.
	dir := t.TempDir()
	if _, err := LoadFrom(dir); err == nil {
		t.Fatal("expected error when reading directory as file")
	}
}
