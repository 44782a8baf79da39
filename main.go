package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/basedosdados/catalog-engine/pkg/config"
	"github.com/basedosdados/catalog-engine/pkg/database"
	"github.com/basedosdados/catalog-engine/pkg/handlers"
	"github.com/basedosdados/catalog-engine/pkg/logging"
	"github.com/basedosdados/catalog-engine/pkg/middleware"
	"github.com/basedosdados/catalog-engine/pkg/repositories"
	"github.com/basedosdados/catalog-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", cfg.Database.Database),
		zap.Int("neighbor_workers", cfg.Neighbors.Workers))

	// Run migrations on a dedicated database/sql handle.
	sqlDB, err := database.OpenSQL(cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	catalogRepo := repositories.NewCatalogRepository(db)
	neighborRepo := repositories.NewTableNeighborRepository(db)

	neighborService := services.NewNeighborService(catalogRepo, neighborRepo, cfg.Neighbors, logger)
	coverageService := services.NewCoverageService(catalogRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewTableHandler(neighborService, coverageService, logger).RegisterRoutes(mux)
	handlers.NewAdminHandler(neighborService, logger).RegisterRoutes(mux)

	scheduler := services.NewRefreshScheduler(neighborService, cfg.Neighbors.RefreshInterval(), logger)
	go scheduler.Run(ctx)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting catalog-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
