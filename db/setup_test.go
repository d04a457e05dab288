package db_test

import (
	"testing"

	"github.com/kanban-dev/kanban/db"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDatabase_UnsupportedDriver(t *testing.T) {
	_, err := db.ConnectDatabase(db.Options{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestMigrateDatabase_CreatesTables(t *testing.T) {
	conn := testutil.NewTestDB(t)

	migrator := conn.Migrator()
	for _, model := range []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.ProjectMembership{},
	} {
		assert.True(t, migrator.HasTable(model))
	}

	// re-running is a no-op
	require.NoError(t, db.MigrateDatabase(conn))
}

func TestForeignKeysEnforced(t *testing.T) {
	conn := testutil.NewTestDB(t)

	task := models.Task{ProjectID: 9999, Title: "orphan", Status: models.TaskStatusPending}
	err := conn.Create(&task).Error

	assert.Error(t, err, "a task must not reference a missing project")
}
