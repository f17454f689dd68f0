package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the appdex service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Index    IndexConfig    `yaml:"index"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Packages PackagesConfig `yaml:"packages"`
	Reviews  ReviewsConfig  `yaml:"reviews"`
	Distro   DistroConfig   `yaml:"distro"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// IndexConfig holds catalog index settings.
type IndexConfig struct {
	Path      string `yaml:"path"` // empty = in-memory, built from catalog.path at startup
	ReadOnly  bool   `yaml:"read_only"`
	BatchSize int    `yaml:"batch_size"`
}

// CatalogConfig points at the catalog export and the category menu.
type CatalogConfig struct {
	Path       string `yaml:"path"`
	Categories string `yaml:"categories"`
}

// PackagesConfig holds the package-cache snapshot location.
type PackagesConfig struct {
	Snapshot string `yaml:"snapshot"`
}

// ReviewsConfig holds the review-statistics store settings. Empty addrs disables it.
type ReviewsConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	CacheTTLSec      int      `yaml:"cache_ttl_sec"` // client-side cache, 0 = disabled
	ChunkSize        int      `yaml:"chunk_size"`
}

// Enabled reports whether a review store is configured.
func (r ReviewsConfig) Enabled() bool { return len(r.Addrs) > 0 }

// DistroConfig describes the origins the distribution supports.
type DistroConfig struct {
	Name           string   `yaml:"name"`
	Origins        []string `yaml:"origins"`
	Components     []string `yaml:"components"`
	RequireTrusted *bool    `yaml:"require_trusted"`
}

// SearchConfig holds query and enquire settings.
type SearchConfig struct {
	Locale           string   `yaml:"locale"`
	Greylist         []string `yaml:"greylist"` // empty = built-in list
	MaxPartialLength int      `yaml:"max_partial_length"`
	PageSize         int      `yaml:"page_size"`
	DefaultLimit     int      `yaml:"default_limit"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Index.BatchSize <= 0 {
		c.Index.BatchSize = 500
	}
	if c.Reviews.KeyPrefix == "" {
		c.Reviews.KeyPrefix = "appdex:"
	}
	if c.Reviews.ReadinessTimeout <= 0 {
		c.Reviews.ReadinessTimeout = 10
	}
	if c.Reviews.ChunkSize <= 0 {
		c.Reviews.ChunkSize = 100
	}
	if c.Distro.Name == "" {
		c.Distro.Name = "ubuntu"
	}
	if len(c.Distro.Origins) == 0 {
		c.Distro.Origins = []string{"Ubuntu"}
		if len(c.Distro.Components) == 0 {
			c.Distro.Components = []string{"main", "restricted"}
		}
	}
	if c.Distro.RequireTrusted == nil {
		trusted := true
		c.Distro.RequireTrusted = &trusted
	}
	if c.Search.Locale == "" {
		c.Search.Locale = "en"
	}
	if c.Search.MaxPartialLength <= 0 {
		c.Search.MaxPartialLength = 64
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 200
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 50
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Index.Path == "" && c.Catalog.Path == "" {
		return fmt.Errorf("index.path or catalog.path is required")
	}
	if c.Index.ReadOnly && c.Index.Path == "" {
		return fmt.Errorf("index.read_only requires index.path")
	}
	if c.Reviews.CacheTTLSec < 0 {
		return fmt.Errorf("reviews.cache_ttl_sec must not be negative, got %d", c.Reviews.CacheTTLSec)
	}
	if c.Search.DefaultLimit > 10000 {
		return fmt.Errorf("search.default_limit must not exceed 10000, got %d", c.Search.DefaultLimit)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
