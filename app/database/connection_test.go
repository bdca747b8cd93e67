package database

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestNewConnectionInvalidPath(t *testing.T) {
	_, err := NewConnection(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	if err == nil {
		t.Error("Expected error for a database in a missing directory")
	}
}

func TestRunMigrations(t *testing.T) {
	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatal(err)
	}
	if version != 2 {
		t.Errorf("Expected migration version 2, got %d", version)
	}
	if dirty {
		t.Error("Expected clean migration state")
	}

	// A second run is a no-op
	version, _, err = RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected repeated migrations to succeed, got %v", err)
	}
	if version != 2 {
		t.Errorf("Expected migration version 2 after rerun, got %d", version)
	}

	var foreignKeys int
	if err := db.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatal(err)
	}
	if foreignKeys != 1 {
		t.Errorf("Expected foreign keys to be enabled, got %d", foreignKeys)
	}
}
