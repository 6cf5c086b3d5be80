package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const (
	// TargetSchemaVersion is the highest schema version this build supports
	// for the journal key-value component.
	TargetSchemaVersion int64 = 1

	// JournalKVComponent names the key-value component in the versions table.
	JournalKVComponent = "journalkv"
)

// ComponentSchemaVersion returns the schema version recorded for a component.
// A missing component, an empty versions table, or a database where the
// versions table does not exist yet all report version 0.
func ComponentSchemaVersion(db *sql.DB, component string) (int64, error) {
	row := db.QueryRow(`SELECT version FROM daybook_versions WHERE component = ?;`, component)

	var version int64
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "daybook_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component %q: %w", component, err)
	}
	return version, nil
}

// InitializeSchema creates all tables and records the given schema version
// for the journal key-value component.
func InitializeSchema(db *sql.DB, version int64) error {
	if _, err := db.Exec(SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	setVersionSQL := `
INSERT INTO daybook_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := db.Exec(setVersionSQL, JournalKVComponent, version); err != nil {
		return fmt.Errorf("failed to record schema version %d for component %s: %w", version, JournalKVComponent, err)
	}
	return nil
}

// Upgrade brings the journal key-value component up to target. A database at
// version 0 is initialized from scratch; a database already at target is left
// alone; a database newer than this build refuses to downgrade.
func Upgrade(db *sql.DB, target int64) error {
	current, err := ComponentSchemaVersion(db, JournalKVComponent)
	if err != nil {
		return err
	}

	switch {
	case current == 0:
		return InitializeSchema(db, target)
	case current == target:
		return nil
	case current > target:
		return fmt.Errorf("database schema version %d for component %s is newer than supported version %d", current, JournalKVComponent, target)
	default:
		// No incremental migrations exist yet below TargetSchemaVersion.
		return fmt.Errorf("no migration path from schema version %d to %d for component %s", current, target, JournalKVComponent)
	}
}
