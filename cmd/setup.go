package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/shared"
)

// Setup creates the config file when missing, initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config, err := r.loadOrCreateConfig(configPath)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database)

	pending, err := shared.PendingMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}

	r.logger.Info("running database migrations", "pending", len(pending))
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	r.writePlain("✓ Config: %s\n", configPath)
	r.writePlain("✓ Database: %s (%d migrations applied)\n", config.Database.Path, len(pending))
	r.writePlainln("Next steps:")
	r.writePlain("1. Start the ytmusicapi proxy at %s\n", config.Catalog.ProxyURL)
	r.writePlain("2. Run 'plimport import \"Artist - Title\"' to test matching\n")
	return nil
}

// loadOrCreateConfig loads path, writing the default config there first when it does not exist.
func (r *Runner) loadOrCreateConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			return nil, err
		}
		r.logger.Info("config file created", "path", path)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	r.config = config
	return config, nil
}
