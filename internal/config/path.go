// Package config provides the typed fanplan configuration and path helpers.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDatabasePath is where the database lives when none is configured:
// $XDG_DATA_HOME/fanplan/fanplan.db, falling back to ~/.local/share.
func DefaultDatabasePath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "fanplan", "fanplan.db")
	}
	return filepath.Join("~", ".local", "share", "fanplan", "fanplan.db")
}

// DefaultConfigDir is where the config file is searched for.
func DefaultConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "fanplan")
	}
	return ExpandPath("~/.config/fanplan")
}
