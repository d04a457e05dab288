package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestMigrateCommand_CreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kanban.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", dbPath)
	t.Setenv("JWT_SECRET", "migrate-command-secret")
	t.Setenv("LOG_LEVEL", "error")

	root := NewRootCommand()
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	conn, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	for _, table := range []string{"users", "projects", "tasks", "project_users"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestMigrateCommand_RequiresSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "kanban.db"))
	t.Setenv("JWT_SECRET", "")

	root := NewRootCommand()
	root.SetArgs([]string{"migrate"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
