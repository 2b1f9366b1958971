package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/newslinemedia/technews/api"
	"github.com/newslinemedia/technews/config"
	"github.com/newslinemedia/technews/datastore"
	"github.com/newslinemedia/technews/ingestion"
	rh "github.com/newslinemedia/technews/route-handlers"
	"github.com/newslinemedia/technews/scheduler"
)

const (
	dbPingTimeout     = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 25
	dbConnMaxLifetime = 5 * time.Minute
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Configuration load failed: %v", err)
	}
	if cfg.ImportSecret == "" {
		log.Warn("IMPORT_SECRET not set; import trigger endpoints are disabled")
	}

	db, err := setupDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	if err := datastore.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	articleRepo := datastore.NewArticleRepository(db)
	feedSourceRepo := datastore.NewFeedSourceRepository(db)
	rotationRepo := datastore.NewRotationRepository(db)

	registry := ingestion.NewFeedRegistry(feedSourceRepo)
	fetcher := ingestion.NewFeedFetcher(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
	importer := ingestion.NewImporter(fetcher, articleRepo, ingestion.NewNormalizer())
	rotator := scheduler.NewRotator(rotationRepo)
	sched := scheduler.New(registry, importer, rotator, cfg.ArticlesPerFeed)

	feedSourceHandler := rh.NewFeedSourceHandler(registry)
	importHandler := rh.NewImportHandler(importer)
	articleHandler := rh.NewArticleHandler(articleRepo)

	router := api.SetupRoutes(feedSourceHandler, importHandler, articleHandler, sched, cfg.ImportSecret)

	startServer(cfg.Port, router)
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection successful")
	return db, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal
	log.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}

	log.Info("Server gracefully stopped")
}
