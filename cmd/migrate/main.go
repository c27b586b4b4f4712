package main

import (
	"fmt"
	"os"
	"strconv"

	"moneyflow/internal/config"
	"moneyflow/internal/database"
	"moneyflow/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"), "migrate")
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: migrate <up|down|version> [N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	source := database.DefaultMigrationsPath
	if dir := os.Getenv("MIGRATIONS_PATH"); dir != "" {
		source = dir
	}

	switch command := args[0]; command {
	case "up":
		return dbManager.RunMigrations(source)

	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
		}
		return dbManager.RollbackMigrations(source, steps)

	case "version":
		version, dirty, err := dbManager.MigrationVersion(source)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, or version)", command)
	}

	return nil
}
