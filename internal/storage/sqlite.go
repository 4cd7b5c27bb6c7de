package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/MASHINC1/LinkMan/internal/model"
)

// SQLiteStorage implements Storage using a SQLite database.
// Each collection keeps an explicit position column so order survives.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS categories (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS links (
			position INTEGER NOT NULL,
			id TEXT PRIMARY KEY NOT NULL,
			url TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_links_position ON links(position);
		CREATE INDEX IF NOT EXISTS idx_links_url ON links(url);

		CREATE TABLE IF NOT EXISTS group_order (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the snapshot from the SQLite database and repairs it.
func (s *SQLiteStorage) Load() (*model.Store, error) {
	store := model.NewStore()

	categories, err := s.loadNames("SELECT name FROM categories ORDER BY position")
	if err != nil {
		return nil, err
	}
	store.Categories = categories

	order, err := s.loadNames("SELECT name FROM group_order ORDER BY position")
	if err != nil {
		return nil, err
	}
	store.GroupOrder = order

	rows, err := s.db.Query(`
		SELECT id, url, name, category, image, icon
		FROM links
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l model.Link
		if err := rows.Scan(&l.ID, &l.URL, &l.Name, &l.Category, &l.Image, &l.Icon); err != nil {
			return nil, err
		}
		store.Links = append(store.Links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	store.Repair()
	return store, nil
}

func (s *SQLiteStorage) loadNames(query string) ([]string, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Save writes the snapshot to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(store *model.Store) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"links", "categories", "group_order"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	if err := insertNames(tx, "INSERT INTO categories (position, name) VALUES (?, ?)", store.Categories); err != nil {
		return err
	}
	if err := insertNames(tx, "INSERT INTO group_order (position, name) VALUES (?, ?)", store.GroupOrder); err != nil {
		return err
	}

	linkStmt, err := tx.Prepare(`
		INSERT INTO links (position, id, url, name, category, image, icon)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer linkStmt.Close()

	for i, l := range store.Links {
		if _, err := linkStmt.Exec(i, l.ID, l.URL, l.Name, l.Category, l.Image, l.Icon); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertNames(tx *sql.Tx, query string, names []string) error {
	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, name := range names {
		if _, err := stmt.Exec(i, name); err != nil {
			return err
		}
	}
	return nil
}
