package main

import (
	"fmt"

	"github.com/JonnyWalker81/formcraft/backend/internal/config"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	logger.SetDefault(log)

	db, err := openDatabase(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(cmd.Context(), db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	log.Info("schema is up to date")
	return nil
}
