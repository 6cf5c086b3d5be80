package kv

const (
	// SchemaV1 defines version 1 of the journal key-value schema: one table
	// of opaque blobs plus the component version bookkeeping table.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS daybook_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS kv_records (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
