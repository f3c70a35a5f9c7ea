package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/citenet/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := GlobalConfigPath(), filepath.Join(home, ".config", "citenet", "config.yml"); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.LibraryPath != "" {
		t.Errorf("LibraryPath = %q, want empty", cfg.LibraryPath)
	}

	// Defaults apply to an empty config.
	if cfg.ScanIntervalOrDefault() != 10*time.Second {
		t.Errorf("scan interval = %v", cfg.ScanIntervalOrDefault())
	}
	if cfg.RequestIntervalOrDefault() != time.Second {
		t.Errorf("request interval = %v", cfg.RequestIntervalOrDefault())
	}
	if cfg.RequestTimeoutOrDefault() != 10*time.Second {
		t.Errorf("request timeout = %v", cfg.RequestTimeoutOrDefault())
	}
	if cfg.HTTPAddrOrDefault() != DefaultHTTPAddr {
		t.Errorf("http addr = %q", cfg.HTTPAddrOrDefault())
	}
	if cfg.LogLevelOrDefault() != "info" {
		t.Errorf("log level = %q", cfg.LogLevelOrDefault())
	}
	if !slices.Equal(cfg.ExtensionsOrDefault(), []string{"*.pdf"}) {
		t.Errorf("extensions = %v", cfg.ExtensionsOrDefault())
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "citenet")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `library_path: /data/papers
s2_api_key: secret
scan_interval: 30s
request_interval: 1500ms
request_timeout: 5s
http_addr: ":9000"
log_level: debug
extensions:
  - "*.pdf"
  - "*.PDF"
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.LibraryPath != "/data/papers" {
		t.Errorf("LibraryPath = %q", cfg.LibraryPath)
	}
	if cfg.ScanInterval != 30*time.Second {
		t.Errorf("ScanInterval = %v", cfg.ScanInterval)
	}
	if cfg.RequestInterval != 1500*time.Millisecond {
		t.Errorf("RequestInterval = %v", cfg.RequestInterval)
	}
	if cfg.RequestTimeoutOrDefault() != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.HTTPAddrOrDefault() != ":9000" || cfg.LogLevelOrDefault() != "debug" {
		t.Errorf("addr/level = %q/%q", cfg.HTTPAddr, cfg.LogLevel)
	}
	if len(cfg.Extensions) != 2 {
		t.Errorf("Extensions = %v", cfg.Extensions)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configDir := filepath.Join(tmpDir, "citenet")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yml"), []byte("scan_interval: [oops"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestGlobalConfig_SaveAndLoad(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &GlobalConfig{S2APIKey: "k", ScanInterval: 45 * time.Second, Extensions: []string{"*.pdf"}}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(GlobalConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "scan_interval: 45s") {
		t.Errorf("durations should be written as strings:\n%s", data)
	}

	ResetGlobalConfigCache()
	loaded, err := LoadGlobalConfig()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.S2APIKey != "k" || loaded.ScanInterval != 45*time.Second {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-env" {
		t.Errorf("GetConfigValue() = %q, want from-env", got)
	}

	t.Setenv("TEST_CONFIG_KEY", "")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-config" {
		t.Errorf("GetConfigValue() = %q, want from-config", got)
	}
}

func TestS2Key(t *testing.T) {
	cfg := &GlobalConfig{S2APIKey: "from-config"}

	t.Setenv("S2_API_KEY", "")
	if got := cfg.S2Key(); got != "from-config" {
		t.Errorf("S2Key() = %q", got)
	}
	t.Setenv("S2_API_KEY", "from-env")
	if got := cfg.S2Key(); got != "from-env" {
		t.Errorf("S2Key() = %q", got)
	}
}

func TestSetAndGet(t *testing.T) {
	lib := t.TempDir()
	cfg := &GlobalConfig{}

	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"library_path", lib, lib, false},
		{"library_path", filepath.Join(lib, "missing"), "", true},
		{"scan_interval", "1m", "1m0s", false},
		{"scan_interval", "soon", "", true},
		{"request_interval", "-1s", "", true},
		{"request_timeout", "3s", "3s", false},
		{"http_addr", ":8080", ":8080", false},
		{"log_level", "warn", "warn", false},
		{"extensions", "*.pdf, *.djvu", "*.pdf,*.djvu", false},
		{"extensions", " , ", "", true},
		{"s2_api_key", "abc", "abc", false},
		{"no_such_key", "x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if !slices.IsSorted(keys) {
		t.Errorf("Keys() not sorted: %v", keys)
	}
	cfg := &GlobalConfig{}
	for _, k := range keys {
		if _, err := cfg.Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
}

func TestGlobalConfigCache(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := (&GlobalConfig{LogLevel: "debug"}).Save(); err != nil {
		t.Fatal(err)
	}
	ResetGlobalConfigCache()

	cfg1, err := LoadGlobalConfig()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(GlobalConfigPath(), []byte("log_level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg2, _ := LoadGlobalConfig()
	if cfg1 != cfg2 || cfg2.LogLevel != "debug" {
		t.Errorf("second load should hit the cache, got %+v", cfg2)
	}

	ResetGlobalConfigCache()
	cfg3, _ := LoadGlobalConfig()
	if cfg3.LogLevel != "error" {
		t.Errorf("after reset LogLevel = %q, want error", cfg3.LogLevel)
	}
}
