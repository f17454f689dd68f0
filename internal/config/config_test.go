package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Path: "catalog.yaml"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }},
		{"no index source", func(c *Config) { c.Catalog.Path = "" }},
		{"read-only without path", func(c *Config) { c.Index.ReadOnly = true }},
		{"negative cache ttl", func(c *Config) { c.Reviews.CacheTTLSec = -1 }},
		{"huge default limit", func(c *Config) { c.Search.DefaultLimit = 20000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Index.BatchSize != 500 {
		t.Errorf("expected BatchSize=500, got %d", cfg.Index.BatchSize)
	}
	if cfg.Reviews.KeyPrefix != "appdex:" {
		t.Errorf("expected KeyPrefix='appdex:', got %q", cfg.Reviews.KeyPrefix)
	}
	if cfg.Reviews.Enabled() {
		t.Error("reviews enabled without addrs")
	}
	if cfg.Distro.Name != "ubuntu" || len(cfg.Distro.Origins) != 1 || len(cfg.Distro.Components) != 2 {
		t.Errorf("distro defaults = %+v", cfg.Distro)
	}
	if cfg.Distro.RequireTrusted == nil || !*cfg.Distro.RequireTrusted {
		t.Error("expected require_trusted default true")
	}
	if cfg.Search.Locale != "en" || cfg.Search.MaxPartialLength != 64 || cfg.Search.DefaultLimit != 50 {
		t.Errorf("search defaults = %+v", cfg.Search)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	trusted := false
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Reviews: ReviewsConfig{KeyPrefix: "custom:", ChunkSize: 7},
		Distro:  DistroConfig{Name: "debian", Origins: []string{"Debian"}, RequireTrusted: &trusted},
		Search:  SearchConfig{Locale: "de", PageSize: 10},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Reviews.KeyPrefix != "custom:" || cfg.Reviews.ChunkSize != 7 {
		t.Errorf("reviews = %+v", cfg.Reviews)
	}
	if len(cfg.Distro.Components) != 0 {
		t.Errorf("components defaulted for custom origins: %v", cfg.Distro.Components)
	}
	if *cfg.Distro.RequireTrusted {
		t.Error("require_trusted overridden")
	}
	if cfg.Search.Locale != "de" || cfg.Search.PageSize != 10 {
		t.Errorf("search = %+v", cfg.Search)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("APPDEX_TEST_PORT", "9090")
	got := string(expandEnvVars([]byte("port: ${APPDEX_TEST_PORT}\nhost: ${APPDEX_TEST_MISSING:-localhost}\n")))
	want := "port: 9090\nhost: localhost\n"
	if got != want {
		t.Errorf("expandEnvVars() = %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := "http:\n  port: ${APPDEX_TEST_HTTP_PORT:-8081}\ncatalog:\n  path: data/catalog.yaml\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Search.Locale != "en" {
		t.Error("defaults not applied")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("APPDEX_TEST_DOTENV=from-file\nAPPDEX_TEST_PRESET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APPDEX_TEST_PRESET", "from-env")
	t.Setenv("APPDEX_TEST_DOTENV", "")
	os.Unsetenv("APPDEX_TEST_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("APPDEX_TEST_DOTENV"); got != "from-file" {
		t.Errorf("APPDEX_TEST_DOTENV = %q, want from-file", got)
	}
	if got := os.Getenv("APPDEX_TEST_PRESET"); got != "from-env" {
		t.Errorf("APPDEX_TEST_PRESET = %q, existing variables must win", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing file must not be an error: %v", err)
	}
}
