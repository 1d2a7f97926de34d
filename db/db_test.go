package db

import (
	"path/filepath"
	"testing"
)

func TestMigrateSqlite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "battleship.db")
	conn := MustConnectToDb(DriverSqlite, dbPath)
	defer conn.Close()

	for _, table := range []string{"game_snapshots", "game_server_analytics"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = '" + table + "'").Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	// Running again is a no-op.
	if err := Migrate(conn, DriverSqlite); err != nil {
		t.Fatal(err)
	}
}

func TestMigrateUnknownDriver(t *testing.T) {
	if err := Migrate(nil, "mysql"); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}
