package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/nikbrunner/folio/internal/model"
)

type jsonCacheEntry struct {
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	ProbedAt time.Time `json:"probedAt"`
}

// JSONCache implements DimensionCache with a JSON file. Changes are held in
// memory and written on Close.
type JSONCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]jsonCacheEntry
	dirty   bool
}

// NewJSONCache loads the cache file at path. A missing file is an empty cache.
func NewJSONCache(path string) (*JSONCache, error) {
	c := &JSONCache{
		path:    path,
		entries: map[string]jsonCacheEntry{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, err
	}
	if c.entries == nil {
		c.entries = map[string]jsonCacheEntry{}
	}
	return c, nil
}

// Path returns the cache file path.
func (c *JSONCache) Path() string {
	return c.path
}

// Lookup returns the cached dimensions for src.
func (c *JSONCache) Lookup(src string) (model.Dimensions, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[src]
	if !ok {
		return model.Dimensions{}, false, nil
	}
	return model.Dimensions{Width: e.Width, Height: e.Height}, true, nil
}

// Store records the dimensions for src.
func (c *JSONCache) Store(src string, d model.Dimensions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[src] = jsonCacheEntry{Width: d.Width, Height: d.Height, ProbedAt: time.Now().UTC()}
	c.dirty = true
	return nil
}

// Entries returns every cached entry ordered by source.
func (c *JSONCache) Entries() ([]CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]CacheEntry, 0, len(c.entries))
	for src, e := range c.entries {
		entries = append(entries, CacheEntry{
			Source:     src,
			Dimensions: model.Dimensions{Width: e.Width, Height: e.Height},
			ProbedAt:   e.ProbedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Source < entries[j].Source
	})
	return entries, nil
}

// Prune deletes entries probed before the given time.
func (c *JSONCache) Prune(before time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for src, e := range c.entries {
		if e.ProbedAt.Before(before) {
			delete(c.entries, src)
			n++
		}
	}
	if n > 0 {
		c.dirty = true
	}
	return n, nil
}

// Close writes pending changes to disk.
func (c *JSONCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}
