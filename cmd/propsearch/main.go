package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openbrik/propsearch/internal/config"
	dbRedis "github.com/openbrik/propsearch/internal/db/redis"
	logpkg "github.com/openbrik/propsearch/internal/logger"
	"github.com/openbrik/propsearch/internal/metrics"
	cacherepo "github.com/openbrik/propsearch/internal/repository/cache"
	indexrepo "github.com/openbrik/propsearch/internal/repository/index"
	recordrepo "github.com/openbrik/propsearch/internal/repository/record"
	chiTransport "github.com/openbrik/propsearch/internal/transport/chi"
	healthuc "github.com/openbrik/propsearch/internal/usecase/health"
	searchuc "github.com/openbrik/propsearch/internal/usecase/search"
	syncuc "github.com/openbrik/propsearch/internal/usecase/sync"
	"github.com/openbrik/propsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting propsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Search store (Redis with the search module loaded)
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create search store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search store not ready", zap.Error(err))
	}
	logger.Info("Connected to search store")

	// System of record (Postgres)
	gdb, err := recordrepo.Open(cfg.Record.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to system of record", zap.Error(err))
	}
	records := recordrepo.New(gdb)

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Repositories
	indexRepo := indexrepo.New(
		store,
		time.Duration(cfg.Search.DocumentTTLHours)*time.Hour,
		cfg.Sync.ResyncConcurrency,
	)
	cacheRepo := cacherepo.New(store, time.Duration(cfg.Search.CacheTTLSec)*time.Second)

	// Use case services
	searchSvc := searchuc.New(indexRepo, cacheRepo, searchuc.Config{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
		AutocompleteMax: cfg.Search.AutocompleteMax,
	})
	syncSvc := syncuc.New(records, indexRepo, cacheRepo, logger, syncuc.Config{
		QueueSize: cfg.Sync.QueueSize,
		OpTimeout: time.Duration(cfg.Sync.OpTimeoutSec) * time.Second,
	})
	healthSvc := healthuc.New(store, recordPinger{db: gdb})

	// The index must exist before the first query or sync job lands.
	if err := indexRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	syncSvc.Start()
	defer syncSvc.Stop()

	schedulerCtx, stopScheduler := context.WithCancel(logpkg.ContextWithLogger(ctx, logger))
	defer stopScheduler()
	go syncSvc.RunScheduler(schedulerCtx, time.Duration(cfg.Sync.ResyncIntervalMin)*time.Minute)

	// HTTP server
	server := chiTransport.NewServer(searchSvc, syncSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// recordPinger adapts the gorm handle to the health service contract.
type recordPinger struct {
	db *gorm.DB
}

func (p recordPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
