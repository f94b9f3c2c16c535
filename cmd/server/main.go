package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fede1082/BudgetFlow/internal/application/service"
	"github.com/Fede1082/BudgetFlow/internal/config"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/cache"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/db"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/handler"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/logger"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/middleware"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	log := logger.NewJSONLogger(os.Stdout, cfg.LogLevel)
	logger.SetDefaultLogger(log)

	log.Info("Starting BudgetFlow server", map[string]interface{}{
		"port":    cfg.Port,
		"db_path": cfg.DBPath,
	})

	if err := os.MkdirAll(cfg.DBPath, 0755); err != nil {
		log.Fatal("Failed to create database directory", map[string]interface{}{
			"path":  cfg.DBPath,
			"error": err.Error(),
		})
	}

	badgerOpts := badger.DefaultOptions(cfg.DBPath)
	badgerOpts.Logger = nil // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{
			"path":  cfg.DBPath,
			"error": err.Error(),
		})
	}

	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Repositories
	accountRepo := db.NewBadgerAccountRepository(badgerDB)
	txRepo := db.NewBadgerTransactionRepository(badgerDB)

	// Stats cache, cleared on every transaction write
	statsCache := cache.NewStatsCache(cfg.StatsCacheTTL)

	// Services
	accountService := service.NewAccountService(accountRepo, log)
	txService := service.NewTransactionService(txRepo, accountRepo, statsCache, log)
	statsService := service.NewStatsService(txRepo, statsCache, log)

	// Handlers
	accountHandler := handler.NewAccountHandler(accountService, log)
	txHandler := handler.NewTransactionHandler(txService, log)
	statsHandler := handler.NewStatsHandler(statsService, log)

	// Router: every resource lives under the /api prefix
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	accountHandler.RegisterRoutes(api)
	txHandler.RegisterRoutes(api)
	statsHandler.RegisterRoutes(api)

	var root http.Handler = router
	root = middleware.LoggingMiddleware(log)(root)
	root = middleware.CORSMiddleware(cfg.CORSOrigins)(root)
	root = middleware.RequestIDMiddleware(root)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: root,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": cfg.Addr(),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
