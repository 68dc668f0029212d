package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit map editor config file
	EnvConfigPath = "METROMAPS_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "metromaps.yaml"
	// ConfigDirName is the per-user and system-wide directory name
	ConfigDirName = "metromaps"

	userConfigFile = "config.yaml"
)

// FindConfigPath returns the first existing metromaps config file, or ""
// when the server should run on defaults. METROMAPS_CONFIG wins over a
// metromaps.yaml next to the binary, which wins over the per-user and
// /etc locations.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	for _, path := range configCandidates() {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// configCandidates lists the per-user then system-wide config locations
func configCandidates() []string {
	var paths []string
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, userConfigFile))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, userConfigFile))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, userConfigFile))
}

// DefaultConfigPath is where -write-config puts a fresh config: the first
// per-user location, or metromaps.yaml when no home directory is known.
func DefaultConfigPath() string {
	if candidates := configCandidates(); len(candidates) > 1 {
		return candidates[0]
	}
	return ConfigFileName
}

// EnsureConfigDir creates the directory holding configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DotEnvPaths returns the .env files read at startup, lowest priority last:
// a variable already set by an earlier file or the shell is kept.
func DotEnvPaths() []string {
	return []string{".env.local", ".env"}
}
