package utils

import (
	"os"
	"os/user"
	"path/filepath"
)

// BaseDir returns the user's home directory which is the root of the default
// wallet and database locations.
func BaseDir() string {
	if v := os.Getenv("HOME"); v != "" {
		return v
	}
	currentUser, err := user.Current()
	if err != nil {
		panic(err)
	}
	return currentUser.HomeDir
}

// DefaultDataDir is the directory for the agent's bolt files if nothing else
// is configured.
func DefaultDataDir() string {
	return filepath.Join(BaseDir(), ".findy", "a2a")
}
