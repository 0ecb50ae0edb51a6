package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finance-ledger-go/internal/config"
	"finance-ledger-go/internal/database"
	httpserver "finance-ledger-go/internal/http"
	"finance-ledger-go/internal/ledger"
	"finance-ledger-go/internal/store"
)

func main() {
	_ = godotenv.Load(".env")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	svc := ledger.NewService(store.NewGorm(db),
		ledger.WithDefaultCurrency(cfg.DefaultCurrency),
		ledger.WithLogger(logger),
	)
	if err := svc.SeedDefaultCategories(context.Background()); err != nil {
		logger.Error("category seeding failed", "error", err)
		os.Exit(1)
	}

	r := httpserver.NewServer(cfg, svc, logger)
	logger.Info("listening", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
