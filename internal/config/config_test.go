package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefault verifies the compiled defaults.
func TestDefault(t *testing.T) {
	cfg := Default("/tmp/todos.db")
	if cfg.Database.Path != "/tmp/todos.db" {
		t.Fatalf("Database.Path = %q, want /tmp/todos.db", cfg.Database.Path)
	}
	if cfg.Server.Bind != "127.0.0.1:8080" {
		t.Fatalf("Server.Bind = %q, want 127.0.0.1:8080", cfg.Server.Bind)
	}
	if cfg.Server.Env != "dev" || cfg.Server.SeedOnStart {
		t.Fatalf("Server = %+v, want env dev and seeding off", cfg.Server)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

// TestLoadMissingFileKeepsDefaults verifies a nonexistent path is not an error.
func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	defaults := Default("/tmp/todos.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != defaults {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, defaults)
	}
}

// TestLoadOverridesDefaults verifies TOML values win over defaults.
func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "http://example.test:9000"

[server]
bind = "0.0.0.0:9000"
env = "prod"
seed_on_start = true

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/todos.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://example.test:9000" {
		t.Fatalf("BaseURL = %q, want overridden value", cfg.API.BaseURL)
	}
	if cfg.Server.Bind != "0.0.0.0:9000" || cfg.Server.Env != "prod" || !cfg.Server.SeedOnStart {
		t.Fatalf("Server = %+v, want overridden values", cfg.Server)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Database.Path != "/tmp/todos.db" {
		t.Fatalf("Database.Path = %q, want the default carried through", cfg.Database.Path)
	}
}

// TestLoadRejectsBadTOML verifies decode failures surface.
func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path, Default("/tmp/todos.db")); err == nil {
		t.Fatal("Load() error = nil, want decode failure")
	}
}

// TestValidate verifies each rejection rule.
func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantOK: true},
		{name: "empty db path", mutate: func(c *Config) { c.Database.Path = " " }},
		{name: "empty bind", mutate: func(c *Config) { c.Server.Bind = "" }},
		{name: "non-http base url", mutate: func(c *Config) { c.API.BaseURL = "ftp://example.test" }},
		{name: "blank base url ok", mutate: func(c *Config) { c.API.BaseURL = "  " }, wantOK: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "chatty" }},
		{name: "uppercase log level ok", mutate: func(c *Config) { c.Logging.Level = "DEBUG" }, wantOK: true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/tmp/todos.db")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantOK && err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if !tt.wantOK && err == nil {
				t.Fatal("Validate() error = nil, want rejection")
			}
		})
	}
}

// TestEnsureConfigDir verifies parent directory creation.
func TestEnsureConfigDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "config.toml")
	if err := EnsureConfigDir(path); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.IsDir() {
		t.Fatal("config parent is not a directory")
	}
}
