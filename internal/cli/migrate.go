package cli

import (
	"github.com/kanban-dev/kanban/db"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			conn, err := db.ConnectDatabase(db.OptionsFromConfig(cfg))
			if err != nil {
				return err
			}
			defer db.Close(conn)

			if err := db.MigrateDatabase(conn); err != nil {
				return err
			}

			logger.Info("schema migrated", "driver", cfg.DatabaseDriver)
			return nil
		},
	}
}
