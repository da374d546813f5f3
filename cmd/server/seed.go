package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/database"
)

var errSeedProduction = errors.New("refusing to seed a production database without --force")

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the demo users, employees and tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if conf.IsProduction() {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return errSeedProduction
			}
		}

		db, err := database.Open(conf, log)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := database.Seed(cmd.Context(), db, conf.BcryptCost); err != nil {
			return err
		}
		log.Info("database seeded",
			zap.String("admin", database.SeedAdminEmail),
			zap.String("employee", database.SeedEmployeeEmail),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("force", false, "allow seeding when APP_ENV=production")
}
