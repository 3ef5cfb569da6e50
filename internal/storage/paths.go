package storage

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	return homedir.Expand(path)
}

// DefaultConfigDir returns ~/.config/folio.
func DefaultConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "folio"), nil
}

// DefaultCachePath returns the default dimension cache path: ~/.config/folio/dimensions.db
func DefaultCachePath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dimensions.db"), nil
}
