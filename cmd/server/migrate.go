package main

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.NewLogger("golden-glimpses-migrate")
			cfg, err := loadConfig(cmd, log)
			if err != nil {
				return err
			}

			return store.Migrate(cmd.Context(), cfg.Storage, log)
		},
	}
}
