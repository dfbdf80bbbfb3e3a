package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gdcards/bot/gdbot"
	"github.com/gdcards/bot/gdbot/database"
	"github.com/gdcards/bot/gdbot/logger"
	"github.com/gdcards/bot/gdbot/migration"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	configPath := flag.String("config", "config.toml", "path to config")
	dataDir := flag.String("data-dir", "data", "directory with users.bson and cards.bson dumps")
	mongoURI := flag.String("mongo-uri", "", "read from a live Mongo database instead of dumps")
	mongoName := flag.String("mongo-db", "gdcards", "Mongo database name")
	batchSize := flag.Int("batch-size", 1000, "insert batch size")
	useCopy := flag.Bool("use-copy", false, "use pgx COPY FROM for card inserts")
	flag.Parse()

	ctx := context.Background()

	cfg, err := gdbot.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		os.Exit(1)
	}

	migrator := migration.NewMigrator(db.BunDB(), *dataDir)
	migrator.SetBatchSize(*batchSize)
	if *useCopy {
		migrator.SetUseCopy(true)
		migrator.UsePool(db.GetPool())
	}

	if *mongoURI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
		if err != nil {
			slog.Error("Failed to connect to Mongo", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Disconnect(ctx)
		migrator.UseMongo(client, *mongoName)
	}

	if err := migrator.MigrateAll(ctx); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Migration completed successfully!")
}
