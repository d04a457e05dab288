package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kanban-dev/kanban/internal/config"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options controls how a connection is opened.
type Options struct {
	Driver   string
	DSN      string
	LogLevel slog.Level
}

// OptionsFromConfig derives connection options from the process config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseURL,
		LogLevel: cfg.SlogLevel(),
	}
}

// ConnectDatabase opens a gorm handle for the configured driver. The caller
// owns the handle and closes it through Close.
func ConnectDatabase(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("acquiring connection pool: %w", err)
	}

	if opts.Driver == config.DriverSQLite {
		// SQLite only supports one writer at a time; a single connection
		// also keeps shared in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", opts.Driver, err)
	}

	return db, nil
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(sqliteDSN(opts.DSN)), nil
	case config.DriverPostgres:
		return postgres.Open(opts.DSN), nil
	case config.DriverMySQL:
		return mysql.Open(mysqlDSN(opts.DSN)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}
}

// sqliteDSN turns on foreign keys and a busy timeout for every connection.
func sqliteDSN(dsn string) string {
	params := []string{}
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(dsn, "_busy_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// mysqlDSN makes sure time columns scan into time.Time.
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true"
}

func newLogger(level slog.Level) logger.Interface {
	gormLevel, bridgeLevel := logger.Warn, slog.LevelWarn
	switch {
	case level <= slog.LevelDebug:
		gormLevel, bridgeLevel = logger.Info, slog.LevelDebug
	case level >= slog.LevelError:
		gormLevel, bridgeLevel = logger.Error, slog.LevelError
	}

	return logger.New(
		slog.NewLogLogger(slog.Default().Handler(), bridgeLevel),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// MigrateDatabase creates or updates the schema for every model.
func MigrateDatabase(db *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.ProjectMembership{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
