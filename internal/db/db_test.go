package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM notifications").Scan(&count); err != nil {
		t.Errorf("table notifications: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty table, got %d rows", count)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenDirCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	d, err := OpenDir(dir)
	if err != nil {
		t.Fatalf("OpenDir() error: %v", err)
	}
	defer d.Close()

	if want := filepath.Join(dir, FileName); d.Path() != want {
		t.Errorf("Path() = %q, want %q", d.Path(), want)
	}
	if _, err := d.Exec(`INSERT INTO notifications (id, level) VALUES ('a', 'info')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO notifications (id, level) VALUES ('b', 'loud')`); err == nil {
		t.Error("expected level check constraint to reject unknown level")
	}
}
