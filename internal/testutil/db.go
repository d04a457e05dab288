package testutil

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/db"
	"github.com/kanban-dev/kanban/internal/config"
	"gorm.io/gorm"
)

// NewTestDB opens a private in-memory SQLite database with the schema
// migrated. It is closed automatically when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:kanban_%s?mode=memory&cache=shared", uuid.NewString())

	conn, err := db.ConnectDatabase(db.Options{
		Driver:   config.DriverSQLite,
		DSN:      dsn,
		LogLevel: slog.LevelError,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.MigrateDatabase(conn); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(conn); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	return conn
}
