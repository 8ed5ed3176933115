package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTrackingMigrationCoversEngineTables(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_tracking_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no tracking migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sql := string(data)

	for _, want := range []string{
		"CREATE TABLE shipments",
		"CREATE TABLE tracking_events",
		"CREATE TABLE automation_events",
		"CREATE TABLE outbox_events",
		"ux_shipments_order",
		"ux_automation_events_open_delay",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("migration missing %q", want)
		}
	}
}
