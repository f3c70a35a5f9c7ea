package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/citenet/config.yml.
type GlobalConfig struct {
	LibraryPath     string        `yaml:"library_path,omitempty"`
	S2APIKey        string        `yaml:"s2_api_key,omitempty"`
	ScanInterval    time.Duration `yaml:"scan_interval,omitempty"`
	RequestInterval time.Duration `yaml:"request_interval,omitempty"`
	RequestTimeout  time.Duration `yaml:"request_timeout,omitempty"`
	HTTPAddr        string        `yaml:"http_addr,omitempty"`
	LogLevel        string        `yaml:"log_level,omitempty"`
	Extensions      []string      `yaml:"extensions,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "citenet"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	DefaultScanInterval    = 10 * time.Second
	DefaultRequestInterval = time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultHTTPAddr        = "127.0.0.1:8765"
	DefaultLogLevel        = "info"
)

// DefaultExtensions are the file patterns treated as documents.
var DefaultExtensions = []string{"*.pdf"}

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/citenet/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.LibraryPath != "" {
		cfg.LibraryPath = ExpandPath(cfg.LibraryPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Save writes the config to the global config path, creating the directory.
func (c *GlobalConfig) Save() error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = c
	return nil
}

// GetConfigValue returns the environment variable if set, otherwise the
// config value.
func GetConfigValue(envKey, cfgValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return cfgValue
}

// S2Key returns the Semantic Scholar API key, S2_API_KEY taking priority.
func (c *GlobalConfig) S2Key() string {
	return GetConfigValue("S2_API_KEY", c.S2APIKey)
}

// ScanIntervalOrDefault returns the scan interval, or 10s when unset.
func (c *GlobalConfig) ScanIntervalOrDefault() time.Duration {
	return durationOr(c.ScanInterval, DefaultScanInterval)
}

// RequestIntervalOrDefault returns the request spacing, or 1s when unset.
func (c *GlobalConfig) RequestIntervalOrDefault() time.Duration {
	return durationOr(c.RequestInterval, DefaultRequestInterval)
}

// RequestTimeoutOrDefault returns the per-request timeout, or 10s when unset.
func (c *GlobalConfig) RequestTimeoutOrDefault() time.Duration {
	return durationOr(c.RequestTimeout, DefaultRequestTimeout)
}

// HTTPAddrOrDefault returns the read API listen address.
func (c *GlobalConfig) HTTPAddrOrDefault() string {
	if c.HTTPAddr == "" {
		return DefaultHTTPAddr
	}
	return c.HTTPAddr
}

// LogLevelOrDefault returns the log level.
func (c *GlobalConfig) LogLevelOrDefault() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// ExtensionsOrDefault returns the document file patterns.
func (c *GlobalConfig) ExtensionsOrDefault() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	return c.Extensions
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Keys lists the settable config keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(c *GlobalConfig, v string) error{
	"library_path": func(c *GlobalConfig, v string) error {
		if err := ValidateLibraryPath(v); err != nil {
			return err
		}
		abs, err := filepath.Abs(ExpandPath(v))
		if err != nil {
			return err
		}
		c.LibraryPath = abs
		return nil
	},
	"s2_api_key":       func(c *GlobalConfig, v string) error { c.S2APIKey = v; return nil },
	"scan_interval":    durationSetter(func(c *GlobalConfig) *time.Duration { return &c.ScanInterval }),
	"request_interval": durationSetter(func(c *GlobalConfig) *time.Duration { return &c.RequestInterval }),
	"request_timeout":  durationSetter(func(c *GlobalConfig) *time.Duration { return &c.RequestTimeout }),
	"http_addr":        func(c *GlobalConfig, v string) error { c.HTTPAddr = v; return nil },
	"log_level":        func(c *GlobalConfig, v string) error { c.LogLevel = v; return nil },
	"extensions": func(c *GlobalConfig, v string) error {
		var exts []string
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, e)
			}
		}
		if len(exts) == 0 {
			return fmt.Errorf("extensions: at least one pattern required")
		}
		c.Extensions = exts
		return nil
	},
}

func durationSetter(field func(*GlobalConfig) *time.Duration) func(*GlobalConfig, string) error {
	return func(c *GlobalConfig, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		if d < 0 {
			return fmt.Errorf("duration must not be negative: %s", v)
		}
		*field(c) = d
		return nil
	}
}

// Set assigns a config key from its string form.
func (c *GlobalConfig) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, value)
}

// Get returns the effective value of a config key as a string.
func (c *GlobalConfig) Get(key string) (string, error) {
	switch key {
	case "library_path":
		return c.LibraryPath, nil
	case "s2_api_key":
		return c.S2APIKey, nil
	case "scan_interval":
		return c.ScanIntervalOrDefault().String(), nil
	case "request_interval":
		return c.RequestIntervalOrDefault().String(), nil
	case "request_timeout":
		return c.RequestTimeoutOrDefault().String(), nil
	case "http_addr":
		return c.HTTPAddrOrDefault(), nil
	case "log_level":
		return c.LogLevelOrDefault(), nil
	case "extensions":
		return strings.Join(c.ExtensionsOrDefault(), ","), nil
	}
	return "", fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
}
