package storage

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/folio/internal/model"
)

// CacheEntry is one remembered probe result.
type CacheEntry struct {
	Source     string
	Dimensions model.Dimensions
	ProbedAt   time.Time
}

// DimensionCache remembers natural media dimensions between runs so the
// preloader can skip sources it has already probed. Implementations are safe
// for concurrent use.
type DimensionCache interface {
	Lookup(src string) (model.Dimensions, bool, error)
	Store(src string, d model.Dimensions) error
	Entries() ([]CacheEntry, error)
	Prune(before time.Time) (int, error)
	Path() string
	Close() error
}

// OpenCache opens the dimension cache at path. A .json path selects the JSON
// file cache; anything else is a SQLite database.
func OpenCache(path string) (DimensionCache, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(expanded), ".json") {
		return NewJSONCache(expanded)
	}
	return NewSQLiteCache(expanded)
}
