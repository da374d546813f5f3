package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := database.Open(conf, log)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("migrations applied", zap.String("database", conf.DBName))
		return nil
	},
}
