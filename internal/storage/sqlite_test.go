package storage_test

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	_ "modernc.org/sqlite"

	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/storage"
)

func TestSQLiteCache_StoreAndLookup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dimensions.db")

	c, err := storage.NewSQLiteCache(dbPath)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Lookup("a.jpg"); err != nil || ok {
		t.Fatalf("expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	if err := c.Store("a.jpg", model.Dimensions{Width: 600, Height: 400}); err != nil {
		t.Fatalf("failed to store: %v", err)
	}
	// Re-probing overwrites.
	if err := c.Store("a.jpg", model.Dimensions{Width: 1200, Height: 800}); err != nil {
		t.Fatalf("failed to store: %v", err)
	}

	d, ok, err := c.Lookup("a.jpg")
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, d, model.Dimensions{Width: 1200, Height: 800})

	version, err := c.SchemaVersion()
	assert.NilError(t, err)
	assert.Equal(t, version, 2)
}

func TestSQLiteCache_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dimensions.db")

	c, err := storage.NewSQLiteCache(dbPath)
	assert.NilError(t, err)
	assert.NilError(t, c.Store("Duck Video.MOV", model.Dimensions{Width: 1080, Height: 1920}))
	assert.NilError(t, c.Close())

	c, err = storage.NewSQLiteCache(dbPath)
	assert.NilError(t, err)
	defer c.Close()

	entries, err := c.Entries()
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 1)
	assert.Equal(t, entries[0].Source, "Duck Video.MOV")
	assert.Equal(t, entries[0].Dimensions, model.Dimensions{Width: 1080, Height: 1920})
	if time.Since(entries[0].ProbedAt) > time.Minute {
		t.Errorf("unexpected probe time %v", entries[0].ProbedAt)
	}
}

func TestSQLiteCache_Prune(t *testing.T) {
	c, err := storage.NewSQLiteCache(filepath.Join(t.TempDir(), "dimensions.db"))
	assert.NilError(t, err)
	defer c.Close()

	assert.NilError(t, c.Store("a", model.Dimensions{Width: 1, Height: 1}))
	assert.NilError(t, c.Store("b", model.Dimensions{Width: 2, Height: 2}))

	n, err := c.Prune(time.Now().Add(-time.Hour))
	assert.NilError(t, err)
	assert.Equal(t, n, 0)

	n, err = c.Prune(time.Now().Add(time.Hour))
	assert.NilError(t, err)
	assert.Equal(t, n, 2)

	entries, err := c.Entries()
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 0)
}

func TestSQLiteCache_MigratesV1(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dimensions.db")

	db, err := sql.Open("sqlite", dbPath)
	assert.NilError(t, err)
	_, err = db.Exec(`
		CREATE TABLE schema_version (version INTEGER PRIMARY KEY);
		CREATE TABLE dimensions (
			src TEXT PRIMARY KEY NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL
		);
		INSERT INTO schema_version (version) VALUES (1);
		INSERT INTO dimensions (src, width, height) VALUES ('old.png', 10, 20);
	`)
	assert.NilError(t, err)
	assert.NilError(t, db.Close())

	c, err := storage.NewSQLiteCache(dbPath)
	if err != nil {
		t.Fatalf("failed to open v1 database: %v", err)
	}
	defer c.Close()

	version, err := c.SchemaVersion()
	assert.NilError(t, err)
	assert.Equal(t, version, 2)

	d, ok, err := c.Lookup("old.png")
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, d, model.Dimensions{Width: 10, Height: 20})

	// v1 rows have no probe time and are always stale.
	n, err := c.Prune(time.Now().Add(-24 * time.Hour))
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
}

func TestSQLiteCache_ConcurrentStores(t *testing.T) {
	c, err := storage.NewSQLiteCache(filepath.Join(t.TempDir(), "dimensions.db"))
	assert.NilError(t, err)
	defer c.Close()

	srcs := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Store(src, model.Dimensions{Width: i + 1, Height: i + 1}); err != nil {
				t.Errorf("store %s: %v", src, err)
			}
		}()
	}
	wg.Wait()

	entries, err := c.Entries()
	assert.NilError(t, err)
	assert.Equal(t, len(entries), len(srcs))
}

func TestSQLiteCache_ConcurrentStoresAcrossHandles(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dimensions.db")

	first, err := storage.NewSQLiteCache(dbPath)
	assert.NilError(t, err)
	defer first.Close()
	second, err := storage.NewSQLiteCache(dbPath)
	assert.NilError(t, err)
	defer second.Close()

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for w := range workers {
		cache := first
		if w%2 == 1 {
			cache = second
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				src := fmt.Sprintf("w%d-%d.jpg", w, i)
				if err := cache.Store(src, model.Dimensions{Width: i + 1, Height: w + 1}); err != nil {
					t.Errorf("store %s: %v", src, err)
					return
				}
				if _, _, err := cache.Lookup(src); err != nil {
					t.Errorf("lookup %s: %v", src, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	entries, err := first.Entries()
	assert.NilError(t, err)
	assert.Equal(t, len(entries), workers*perWorker)
}
