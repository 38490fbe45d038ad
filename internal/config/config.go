package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/gravitrone/oophub/internal/api"
	"github.com/gravitrone/oophub/internal/search"
)

// EnvPrefix prefixes every environment override (OOPHUB_API_URL, ...).
const EnvPrefix = "OOPHUB_"

// LegacyAPIURLEnv is honoured as an alias for OOPHUB_API_URL.
const LegacyAPIURLEnv = "NEXT_PUBLIC_API_URL"

// Config holds settings stored at ~/.oophub/config.yaml.
type Config struct {
	APIURL         string        `koanf:"api_url" yaml:"api_url"`
	APIVersion     string        `koanf:"api_version" yaml:"api_version"`
	Timeout        time.Duration `koanf:"timeout" yaml:"timeout"`
	SearchMode     search.Mode   `koanf:"search_mode" yaml:"search_mode"`
	SearchDebounce time.Duration `koanf:"search_debounce" yaml:"search_debounce"`
	SearchLimit    int           `koanf:"search_limit" yaml:"search_limit"`
	RateLimit      float64       `koanf:"rate_limit" yaml:"rate_limit"`
	ProxyListen    string        `koanf:"proxy_listen" yaml:"proxy_listen"`
	LogFile        string        `koanf:"log_file" yaml:"log_file,omitempty"`
	LogLevel       string        `koanf:"log_level" yaml:"log_level"`
	Theme          string        `koanf:"theme" yaml:"theme,omitempty"`
	VimKeys        bool          `koanf:"vim_keys" yaml:"vim_keys"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		APIURL:         api.DefaultBaseURL,
		APIVersion:     api.DefaultAPIVersion,
		Timeout:        api.DefaultTimeout,
		SearchMode:     search.ModeRemote,
		SearchDebounce: search.DefaultDebounce,
		SearchLimit:    api.DefaultSearchLimit,
		ProxyListen:    ":3000",
		LogLevel:       "info",
	}
}

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".oophub", "config.yaml")
}

// Load builds the config from defaults, the YAML file at path (Path() when
// empty, skipped when missing), a .env file in the working directory and
// OOPHUB_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("access config %s: %w", path, err)
	}

	if legacy := strings.TrimSpace(os.Getenv(LegacyAPIURLEnv)); legacy != "" {
		if err := k.Set("api_url", legacy); err != nil {
			return nil, fmt.Errorf("apply %s: %w", LegacyAPIURLEnv, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is required")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid api_url %q: must start with http:// or https://", c.APIURL)
	}
	if c.SearchMode != search.ModeRemote && c.SearchMode != search.ModeLocal {
		return fmt.Errorf("invalid search_mode %q: must be one of remote, local", c.SearchMode)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive")
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("search_debounce must be non-negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must be non-negative")
	}
	return nil
}

// Endpoint returns the versioned API root the client talks to.
func (c *Config) Endpoint() string {
	base := strings.TrimRight(c.APIURL, "/")
	version := "/" + strings.Trim(c.APIVersion, "/")
	if version == "/" || strings.HasSuffix(base, version) {
		return base
	}
	return base + version
}

// Save writes the config to path (Path() when empty) with secure permissions.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(path, 0600)
}
