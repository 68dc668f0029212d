package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Addr != defaultAddr {
		t.Errorf("Server.Addr = %s, want %s", cfg.Server.Addr, defaultAddr)
	}
	if cfg.Database.Path == "" {
		t.Error("Database.Path should not be empty")
	}
	if cfg.Alerts.Language != "en" {
		t.Errorf("Alerts.Language = %s, want en", cfg.Alerts.Language)
	}
	if cfg.Server.ShutdownTimeout.Duration() != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 10s", cfg.Server.ShutdownTimeout.Duration())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvDB, "")
	t.Setenv(EnvSeed, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
server:
  addr: "127.0.0.1:9000"
  cors_origins: ["http://localhost:5173"]
  shutdown_timeout: 30s
database:
  path: /var/lib/metromaps/map.db
map:
  seed: ./barcelona.yaml
  watch: true
alerts:
  agency_id: TMB
  language: ca
  active_hours: 48
`)

	cfg, got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if got != path {
		t.Errorf("path = %s, want %s", got, path)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %s", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Server.ShutdownTimeout.Duration() != 30*time.Second {
		t.Errorf("ShutdownTimeout = %s", cfg.Server.ShutdownTimeout.Duration())
	}
	if cfg.Database.Path != "/var/lib/metromaps/map.db" {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
	if cfg.Map.Seed != "./barcelona.yaml" || !cfg.Map.Watch {
		t.Errorf("Map = %+v", cfg.Map)
	}
	if cfg.Alerts.AgencyID != "TMB" || cfg.Alerts.Language != "ca" {
		t.Errorf("Alerts = %+v", cfg.Alerts)
	}
	if cfg.Alerts.ActiveFor() != 48*time.Hour {
		t.Errorf("ActiveFor() = %s, want 48h", cfg.Alerts.ActiveFor())
	}
}

func TestLoadFromPathDefaults(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvDB, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "alerts:\n  agency_id: FGC\n")

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.Addr != defaultAddr {
		t.Errorf("Server.Addr = %s, want default", cfg.Server.Addr)
	}
	if cfg.Database.Path != defaultDBPath {
		t.Errorf("Database.Path = %s, want default", cfg.Database.Path)
	}
	if cfg.Alerts.Language != defaultLanguage {
		t.Errorf("Alerts.Language = %s, want default", cfg.Alerts.Language)
	}
}

func TestLoadFromPathInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "server: [\n"},
		{"negative active hours", "alerts:\n  active_hours: -1\n"},
		{"bad language tag", "alerts:\n  language: \"not a tag!\"\n"},
		{"empty cors origin", "server:\n  cors_origins: [\"\"]\n"},
		{"bad duration", "server:\n  shutdown_timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.content)

			if _, _, err := LoadFromPath(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	_, _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAddr, ":8081")
	t.Setenv(EnvDB, "/tmp/override.db")
	t.Setenv(EnvSeed, "seed.json")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Server.Addr != ":8081" {
		t.Errorf("Server.Addr = %s, want :8081", cfg.Server.Addr)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
	if cfg.Map.Seed != "seed.json" {
		t.Errorf("Map.Seed = %s", cfg.Map.Seed)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "METROMAPS_DB=/from/dotenv.db\nMETROMAPS_ADDR=:7000\n")

	// already set variables win over the file
	t.Setenv(EnvAddr, ":6000")
	t.Setenv(EnvDB, "")
	os.Unsetenv(EnvDB)

	if err := LoadDotEnv(filepath.Join(dir, ".env.local"), envFile); err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}

	if got := os.Getenv(EnvDB); got != "/from/dotenv.db" {
		t.Errorf("%s = %q, want /from/dotenv.db", EnvDB, got)
	}
	if got := os.Getenv(EnvAddr); got != ":6000" {
		t.Errorf("%s = %q, want :6000", EnvAddr, got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvDB, "")
	t.Setenv(EnvSeed, "")

	// Create temp directory
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	// Create and save config
	cfg := DefaultConfig()
	cfg.Server.Addr = ":4000"
	cfg.Alerts.AgencyID = "RENFE"
	cfg.Map.Seed = "rodalies.yaml"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if loaded.Server.Addr != ":4000" {
		t.Errorf("Server.Addr = %s, want :4000", loaded.Server.Addr)
	}
	if loaded.Alerts.AgencyID != "RENFE" {
		t.Errorf("Alerts.AgencyID = %s, want RENFE", loaded.Alerts.AgencyID)
	}
	if loaded.Map.Seed != "rodalies.yaml" {
		t.Errorf("Map.Seed = %s, want rodalies.yaml", loaded.Map.Seed)
	}
	if loaded.Server.ShutdownTimeout != cfg.Server.ShutdownTimeout {
		t.Errorf("ShutdownTimeout = %s, want %s", loaded.Server.ShutdownTimeout.Duration(), cfg.Server.ShutdownTimeout.Duration())
	}
}

func TestFindConfigPath(t *testing.T) {
	// Create temp directory with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Set working directory to temp
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	// Should find config in working directory
	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	found = FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	// Explicit path that exists wins
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found = FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("xdg config home", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		want := filepath.Join(xdg, ConfigDirName, "config.yaml")
		if got := DefaultConfigPath(); got != want {
			t.Errorf("DefaultConfigPath() = %s, want %s", got, want)
		}
	})

	t.Run("home directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		want := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if got := DefaultConfigPath(); got != want {
			t.Errorf("DefaultConfigPath() = %s, want %s", got, want)
		}
	})

	t.Run("no home falls back to working directory", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "")
		if got := DefaultConfigPath(); got != ConfigFileName {
			t.Errorf("DefaultConfigPath() = %s, want %s", got, ConfigFileName)
		}
	})

	t.Run("saved config is found again", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		t.Setenv(EnvConfigPath, "")
		oldWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Getwd() error: %v", err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatalf("Chdir() error: %v", err)
		}
		t.Cleanup(func() { _ = os.Chdir(oldWd) })

		path := DefaultConfigPath()
		if err := DefaultConfig().Save(path); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		if found := FindConfigPath(); found != path {
			t.Errorf("FindConfigPath() = %s, want %s", found, path)
		}
	})
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	// Test YAML marshaling
	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
