package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/vidyasagar/treesurf/internal/browser"
)

const (
	appName = "treesurf"

	// EnvPrefix marks environment variables that override the config file,
	// e.g. TREESURF_HOMEPAGE.
	EnvPrefix = "TREESURF_"

	DefaultHomepage = "https://lite.duckduckgo.com/lite/"
)

// Config holds user configuration, stored as config.yml.
type Config struct {
	Theme         string `yaml:"theme" koanf:"theme"`
	Homepage      string `yaml:"homepage" koanf:"homepage"`
	SearchURL     string `yaml:"search_url" koanf:"search_url"`
	PageCacheSize int    `yaml:"page_cache_size" koanf:"page_cache_size"`
	LogFile       string `yaml:"log_file" koanf:"log_file"`
	LogLevel      string `yaml:"log_level" koanf:"log_level"`
	LogFormat     string `yaml:"log_format" koanf:"log_format"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	return &Config{
		Theme:         "default",
		Homepage:      DefaultHomepage,
		SearchURL:     browser.DefaultSearchURL,
		PageCacheSize: 50,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// LoadConfig reads path over the defaults, then applies TREESURF_*
// environment overrides. A missing file is created with the defaults.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	switch _, err := os.Stat(path); {
	case err == nil:
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the browser cannot work with.
func (c *Config) Validate() error {
	if c.SearchURL != "" && !strings.Contains(c.SearchURL, "%s") {
		return fmt.Errorf("search_url %q must contain %%s", c.SearchURL)
	}
	if c.PageCacheSize < 0 {
		return fmt.Errorf("page_cache_size must be non-negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	return nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// ConfigPath returns the default location of config.yml.
func ConfigPath() (string, error) {
	dir, err := userDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// DataDir returns the directory for the database and logs.
func DataDir() (string, error) {
	return userDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func userDir(xdgVar, fallback string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "."+appName), nil
	}

	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	return filepath.Join(home, fallback, appName), nil
}
