package config

import (
	"os"
	"path/filepath"
)

// DirName is the per-user directory holding the settings store.
const DirName = ".vibecode-agent"

// UserConfigDir returns the directory settings.json lives in, creating it
// if necessary.
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultWorkingDirectory returns the user's home directory, falling back
// to the process's current directory per spec (§3 AgentSettings defaults).
func DefaultWorkingDirectory() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
