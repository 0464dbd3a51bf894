package main

import (
	"fmt"

	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the sqlite or postgres storage drivers",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a := &app{cfg: cfg, logger: logger}
	db, _, err := a.openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.RunMigrations(cmd.Context(), db, logger); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", len(migration.Migrations()))
	return nil
}
