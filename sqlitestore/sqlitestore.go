package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hypergopher/inkwell"
)

// SQLiteStore implements inkwell.KVStore on a single SQLite table.
type SQLiteStore struct {
	db        *sql.DB
	dbPath    string
	tableName string
}

// NewSQLiteStore returns a store that keeps its values in tableName of db. Call Init before use.
func NewSQLiteStore(db *sql.DB, dbPath, tableName string) *SQLiteStore {
	return &SQLiteStore{db: db, dbPath: dbPath, tableName: tableName}
}

// NewDB opens the SQLite database at dbPath with the pragmas the store expects.
func NewDB(dbPath string) (*sql.DB, error) {
	// Note: the busy_timeout pragma must be first because
	// the connection needs to be set to block on busy before WAL mode
	// is set in case it hasn't been already set by another connection.
	pragmas := "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dbPath+pragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}

// DBPath returns the path of the database file
func (s *SQLiteStore) DBPath() string {
	return s.dbPath
}

// Init initializes the SQLiteStore, creating the storage table if it does not exist.
func (s *SQLiteStore) Init() error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + s.tableName + ` (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Get returns the value stored under key, or inkwell.ErrKeyNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	query := `SELECT value FROM ` + s.tableName + ` WHERE key = ?`
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, inkwell.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", key, err)
	}
	return value, nil
}

// Set inserts or replaces the value stored under key.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO ` + s.tableName + ` (key, value, updated) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated = excluded.updated
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upserting %s: %w", key, err)
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM ` + s.tableName + ` WHERE key = ?`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
