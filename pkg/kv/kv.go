// Package kv persists opaque values under string keys in a local SQLite
// database. It is the storage adapter behind the journal entry store: the
// store hands it JSON blobs and never sees SQL.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

const (
	saveStatement = `
	INSERT INTO kv_records (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()
	`

	loadStatement = `
	SELECT value FROM kv_records WHERE key = ?
	`

	deleteStatement = `
	DELETE FROM kv_records WHERE key = ?
	`

	listKeysStatement = `
	SELECT key FROM kv_records ORDER BY key
	`
)

// Store is a key-value store on a single SQLite database.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at path, creating or migrating the
// schema as needed. enableWAL sets journal_mode to WAL; syncPragma sets the
// synchronous pragma and must be one of OFF, NORMAL, FULL, EXTRA (empty
// leaves the driver default).
func Open(path string, enableWAL bool, syncPragma string) (*Store, error) {
	db, err := connect(path, enableWAL, syncPragma)
	if err != nil {
		return nil, err
	}

	if err := Upgrade(db, TargetSchemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema for %q: %w", path, err)
	}

	return &Store{db: db}, nil
}

func connect(path string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	params := url.Values{}
	if enableWAL {
		params.Add("_journal_mode", "WAL")
	}
	if syncPragma != "" {
		mode := strings.ToUpper(syncPragma)
		if !validSyncModes[mode] {
			return nil, fmt.Errorf("invalid sync pragma value %q: must be one of OFF, NORMAL, FULL, EXTRA", syncPragma)
		}
		params.Add("_synchronous", mode)
	}

	dsn := path
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		dsn += sep + params.Encode()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", dsn, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %q: %w", dsn, err)
	}

	return db, nil
}

// Save stores value under key, overwriting any previous value.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, saveStatement, key, value); err != nil {
		return fmt.Errorf("failed to save key %q: %w", key, err)
	}
	return nil
}

// Load retrieves the value stored under key. The second return is false
// when the key has never been written.
func (s *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, loadStatement, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load key %q: %w", key, err)
	}
	return value, true, nil
}

// Delete removes the value stored under key, if any.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteStatement, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, listKeysStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// DB exposes the underlying connection, mainly for migrations and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close checkpoints the WAL back into the main database file and closes the
// connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: WAL checkpoint failed during close: %v\n", err)
	}
	return s.db.Close()
}
