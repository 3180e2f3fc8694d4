package main

// Create the profile and document tables for the postgres stores:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"orgdocs-backend/internal/shared/config"
	"orgdocs-backend/internal/shared/storage/db"
	"orgdocs-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFor(db.RuntimeMigrate, cfg.DBPool))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	names, _ := db.MigrationNames()
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"migrations": names})
}
