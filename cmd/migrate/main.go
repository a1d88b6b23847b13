package main

import (
	"context"
	"time"

	mongoMigration "salonhub/internal/migrations/mongo"
	"salonhub/pkg/config"
)

const (
	ServiceName      = "mongo-migration"
	MigrationTimeout = 120 * time.Second
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), MigrationTimeout)
	defer cancel()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Running MongoDB migration", "database", cfg.MongoDatabaseName)

	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	cfg.Log.Info("Migration completed")
}
