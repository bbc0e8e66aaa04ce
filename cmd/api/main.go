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

	"github.com/Dan9191/apartment-model/internal/config"
	"github.com/Dan9191/apartment-model/internal/handler"
	"github.com/Dan9191/apartment-model/internal/integrations/cbr"
	"github.com/Dan9191/apartment-model/internal/middleware"
	"github.com/Dan9191/apartment-model/internal/repository"
	"github.com/Dan9191/apartment-model/internal/service"
	"github.com/Dan9191/apartment-model/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	assumptions, err := config.LoadAssumptions(cfg.AssumptionsFile)
	if err != nil {
		logger.Fatalf("Failed to load assumptions: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Result cache: Redis when configured, in-process otherwise
	var cache repository.CacheRepository
	if cfg.RedisAddr != "" {
		redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		defer redisCache.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisCache.Ping(ctx)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to ping redis: %v", err)
		}
		cache = redisCache
		logger.Infof("Using redis cache at %s", cfg.RedisAddr)
	} else {
		cache = repository.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxEntries)
		logger.Info("REDIS_ADDR not set, using in-memory cache")
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	cbrClient := cbr.NewCBRClient(cfg.CBRURL, cfg.BankMargin, logger)
	sender := email.NewSender(cfg, logger)
	svc := service.NewService(repo, cache, cbrClient, sender, logger, cfg, assumptions)
	h := handler.NewHandler(svc, logger)

	scheduler, err := svc.StartRefresh(cfg.RefreshSchedule)
	if err != nil {
		logger.Fatalf("Failed to start refresh job: %v", err)
	}

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/assumptions/defaults", h.DefaultAssumptions).Methods("GET")
	r.HandleFunc("/models/run", h.RunModel).Methods("POST")
	r.HandleFunc("/models/sweep", h.Sweep).Methods("POST")
	r.HandleFunc("/key-rate", h.KeyRate).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/scenarios").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	authRouter.HandleFunc("", h.SaveScenario).Methods("POST")
	authRouter.HandleFunc("", h.ListScenarios).Methods("GET")
	authRouter.HandleFunc("/{id:[0-9]+}", h.GetScenario).Methods("GET")
	authRouter.HandleFunc("/{id:[0-9]+}", h.DeleteScenario).Methods("DELETE")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	<-scheduler.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
