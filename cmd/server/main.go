// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"university_portal_backend/internal/catalog"
	"university_portal_backend/internal/catalog/esexport"
	"university_portal_backend/internal/config"
	"university_portal_backend/internal/platform/database"
	platformElasticsearch "university_portal_backend/internal/platform/elasticsearch"
	"university_portal_backend/internal/platform/logger"
	"university_portal_backend/internal/seed"

	"go.uber.org/zap"
)

func main() {
	// Define CLI flags
	syncCatalogCmd := flag.NewFlagSet("sync-catalog", flag.ExitOnError)
	batchSize := syncCatalogCmd.Int("batch-size", 100, "Batch size for syncing catalog entries")
	esRefresh := syncCatalogCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-catalog" {
		if err := syncCatalogCmd.Parse(os.Args[2:]); err != nil {
			log.Fatalf("FATAL: Invalid sync-catalog flags: %v", err)
		}
		runCatalogSync(*batchSize, *esRefresh)
		return
	}

	// Default: Start server
	startServer()
}

// runCatalogSync seeds the catalog tables and copies them into the Elasticsearch index.
func runCatalogSync(batchSize int, esRefresh string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.NewGORM(cfg)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
	}
	defer database.CloseGORMDB(db)

	ctx := context.Background()
	data, err := seed.Load()
	if err != nil {
		appLogger.Fatal("FATAL: Failed to load seed data", zap.Error(err))
	}
	catalogRepo := catalog.NewGORMRepository(db)
	if err := catalog.NewService(catalogRepo, appLogger).Seed(ctx, data); err != nil {
		appLogger.Fatal("FATAL: Failed to seed catalog", zap.Error(err))
	}

	esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
	}

	// Ensure index exists before syncing
	if err := platformElasticsearch.CreateCatalogIndexIfNotExists(ctx, esClient, cfg.CatalogIndexName, appLogger); err != nil {
		appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
	}

	report, err := esexport.Sync(ctx, catalogRepo, esClient, esexport.Options{
		Index:     cfg.CatalogIndexName,
		BatchSize: batchSize,
		Refresh:   esRefresh,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("FATAL: Catalog synchronization failed", zap.Error(err), zap.Int("synced", report.Synced))
	}
	appLogger.Info("Catalog synchronization completed successfully.", zap.Int("synced", report.Synced))
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}
