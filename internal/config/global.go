package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppDir is the directory name under the XDG config and data homes.
	AppDir = "citefeed"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	CitationsFile = "citation_data.nt"
	FacultyFile   = "faculty_data.csv"
	BundleDir     = "citations"
	IndexFile     = "index.db"
	HistoryFile   = "runs.jsonl"
)

// GlobalConfigPath returns the default config file location.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/citefeed/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppDir, ConfigFile)
}

// DefaultDataDir returns the data directory used when data_dir is unset.
func DefaultDataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, AppDir)
	}
	return filepath.Join(xdg.DataHome, AppDir)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
