package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/folio/internal/model"
)

const currentSchemaVersion = 2

// SQLiteCache implements DimensionCache using a SQLite database.
type SQLiteCache struct {
	db   *sql.DB
	path string
}

// NewSQLiteCache opens or creates the cache database at path.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}

	c := &SQLiteCache{db: db, path: path}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return c, nil
}

func sqliteDSN(path string) string {
	return "file:" + path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)"
}

// Path returns the database file path.
func (c *SQLiteCache) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// SchemaVersion returns the applied schema version.
func (c *SQLiteCache) SchemaVersion() (int, error) {
	var version int
	err := c.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

// migrate runs database migrations.
func (c *SQLiteCache) migrate() error {
	version, err := c.SchemaVersion()
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}
	if version >= currentSchemaVersion {
		return nil
	}

	if version < 1 {
		if err := c.migrateV1(); err != nil {
			return err
		}
	}

	if version < 2 {
		if err := c.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (c *SQLiteCache) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS dimensions (
			src TEXT PRIMARY KEY NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := c.db.Exec(schema)
	return err
}

// migrateV2 records when each source was probed so stale entries can be pruned.
func (c *SQLiteCache) migrateV2() error {
	migration := `
		ALTER TABLE dimensions ADD COLUMN probed_at TEXT NOT NULL DEFAULT '';
		CREATE INDEX IF NOT EXISTS idx_dimensions_probed_at ON dimensions(probed_at);
		UPDATE schema_version SET version = 2;
	`
	_, err := c.db.Exec(migration)
	return err
}

// Lookup returns the cached dimensions for src.
func (c *SQLiteCache) Lookup(src string) (model.Dimensions, bool, error) {
	var d model.Dimensions
	err := c.db.QueryRow(
		"SELECT width, height FROM dimensions WHERE src = ?", src,
	).Scan(&d.Width, &d.Height)
	if err == sql.ErrNoRows {
		return model.Dimensions{}, false, nil
	}
	if err != nil {
		return model.Dimensions{}, false, err
	}
	return d, true, nil
}

// Store upserts the dimensions for src.
func (c *SQLiteCache) Store(src string, d model.Dimensions) error {
	_, err := c.db.Exec(`
		INSERT INTO dimensions (src, width, height, probed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(src) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			probed_at = excluded.probed_at
	`, src, d.Width, d.Height, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Entries returns every cached entry ordered by source.
func (c *SQLiteCache) Entries() ([]CacheEntry, error) {
	rows, err := c.db.Query(`
		SELECT src, width, height, probed_at
		FROM dimensions
		ORDER BY src
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []CacheEntry{}
	for rows.Next() {
		var e CacheEntry
		var probedAt string
		if err := rows.Scan(&e.Source, &e.Dimensions.Width, &e.Dimensions.Height, &probedAt); err != nil {
			return nil, err
		}
		e.ProbedAt, _ = time.Parse(time.RFC3339, probedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Prune deletes entries probed before the given time and returns how many
// were removed. Rows carried over from schema v1 have no probe time and are
// always pruned.
func (c *SQLiteCache) Prune(before time.Time) (int, error) {
	res, err := c.db.Exec(
		"DELETE FROM dimensions WHERE probed_at < ?",
		before.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
