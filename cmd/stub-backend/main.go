package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dadikeladdu/storefront/internal/config"
	"github.com/dadikeladdu/storefront/internal/stub"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Pick cart storage: Postgres when configured, memory otherwise
	repo := stub.NewMemoryRepository()
	if cfg.Stub.Database.Enabled() {
		db, err := stub.NewConnection(cfg.Stub.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := stub.EnsureSchema(context.Background(), db); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to prepare schema: %v\n", err)
			os.Exit(1)
		}
		repo = stub.NewPostgresRepository(db, logger)
		logger.Info("using postgres cart storage", zap.String("host", cfg.Stub.Database.Host))
	} else {
		logger.Info("using in-memory cart storage")
	}

	tokens := stub.NewTokenStore()
	if cfg.Stub.TokenUser != "" && cfg.Stub.TokenHash != "" {
		tokens.Provision(cfg.Stub.TokenUser, cfg.Stub.TokenHash)
		logger.Info("provisioned session token", zap.String("user_id", cfg.Stub.TokenUser))
	} else {
		logger.Warn("no session token provisioned; all requests will be rejected (run grant-session)")
	}

	backend := stub.NewBackend(repo, stub.DefaultCatalog(), stub.DefaultCoupons(), logger)
	router := stub.NewRouter(backend, tokens, cfg.Environment, logger)

	addr := ":" + cfg.Stub.Port
	logger.Info("stub backend listening", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
