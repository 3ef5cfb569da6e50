package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/storage"
)

func TestJSONCache_WritesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "dimensions.json")

	c, err := storage.NewJSONCache(path)
	assert.NilError(t, err)

	assert.NilError(t, c.Store("a.jpg", model.Dimensions{Width: 3, Height: 4}))
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected nothing written before Close")
	}
	assert.NilError(t, c.Close())

	reopened, err := storage.NewJSONCache(path)
	assert.NilError(t, err)

	d, ok, err := reopened.Lookup("a.jpg")
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, d, model.Dimensions{Width: 3, Height: 4})
}

func TestJSONCache_CloseWithoutChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dimensions.json")

	c, err := storage.NewJSONCache(path)
	assert.NilError(t, err)
	assert.NilError(t, c.Close())

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file for an untouched cache")
	}
}

func TestJSONCache_EntriesAndPrune(t *testing.T) {
	c, err := storage.NewJSONCache(filepath.Join(t.TempDir(), "dimensions.json"))
	assert.NilError(t, err)

	assert.NilError(t, c.Store("b", model.Dimensions{Width: 2, Height: 2}))
	assert.NilError(t, c.Store("a", model.Dimensions{Width: 1, Height: 1}))

	entries, err := c.Entries()
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 2)
	assert.Equal(t, entries[0].Source, "a")
	assert.Equal(t, entries[1].Source, "b")

	n, err := c.Prune(time.Now().Add(time.Minute))
	assert.NilError(t, err)
	assert.Equal(t, n, 2)
}

func TestJSONCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dimensions.json")
	assert.NilError(t, os.WriteFile(path, []byte("{broken"), 0644))

	if _, err := storage.NewJSONCache(path); err == nil {
		t.Error("expected error for corrupt cache file")
	}
}

func TestOpenCache(t *testing.T) {
	dir := t.TempDir()

	c, err := storage.OpenCache(filepath.Join(dir, "dims.JSON"))
	assert.NilError(t, err)
	if _, ok := c.(*storage.JSONCache); !ok {
		t.Errorf("expected *JSONCache, got %T", c)
	}
	assert.NilError(t, c.Close())

	c, err = storage.OpenCache(filepath.Join(dir, "dims.db"))
	assert.NilError(t, err)
	if _, ok := c.(*storage.SQLiteCache); !ok {
		t.Errorf("expected *SQLiteCache, got %T", c)
	}
	assert.NilError(t, c.Close())
}
