package kv

import (
	"testing"
)

func TestUpgradeInitializesSchema(t *testing.T) {
	db, err := connect(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	defer db.Close()

	// A brand-new database reports version 0 even before the versions table exists.
	version, err := ComponentSchemaVersion(db, JournalKVComponent)
	if err != nil {
		t.Fatalf("ComponentSchemaVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("Expected version 0 for a fresh database, got %d", version)
	}

	if err := Upgrade(db, TargetSchemaVersion); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}

	version, err = ComponentSchemaVersion(db, JournalKVComponent)
	if err != nil {
		t.Fatalf("ComponentSchemaVersion failed after upgrade: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected version %d after upgrade, got %d", TargetSchemaVersion, version)
	}
}

func TestUpgradeIsIdempotent(t *testing.T) {
	db, err := connect(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	defer db.Close()

	if err := Upgrade(db, TargetSchemaVersion); err != nil {
		t.Fatalf("First upgrade failed: %v", err)
	}
	if err := Upgrade(db, TargetSchemaVersion); err != nil {
		t.Errorf("Second upgrade on an up-to-date database failed: %v", err)
	}
}

func TestUpgradeRefusesDowngrade(t *testing.T) {
	db, err := connect(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	defer db.Close()

	if err := InitializeSchema(db, TargetSchemaVersion+1); err != nil {
		t.Fatalf("InitializeSchema failed: %v", err)
	}
	if err := Upgrade(db, TargetSchemaVersion); err == nil {
		t.Error("Expected error when the database schema is newer than this build")
	}
}
