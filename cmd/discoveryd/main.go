package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/makersmarket/discovery/internal/cache"
	"github.com/makersmarket/discovery/internal/config"
	dbRedis "github.com/makersmarket/discovery/internal/db/redis"
	logpkg "github.com/makersmarket/discovery/internal/logger"
	"github.com/makersmarket/discovery/internal/metrics"
	analyticsrepo "github.com/makersmarket/discovery/internal/repository/analytics"
	catalogrepo "github.com/makersmarket/discovery/internal/repository/catalog"
	interactionrepo "github.com/makersmarket/discovery/internal/repository/interaction"
	suggestrepo "github.com/makersmarket/discovery/internal/repository/suggest"
	chiTransport "github.com/makersmarket/discovery/internal/transport/chi"
	healthuc "github.com/makersmarket/discovery/internal/usecase/health"
	profileuc "github.com/makersmarket/discovery/internal/usecase/profile"
	queryuc "github.com/makersmarket/discovery/internal/usecase/query"
	"github.com/makersmarket/discovery/internal/usecase/rank"
	recommenduc "github.com/makersmarket/discovery/internal/usecase/recommend"
	searchuc "github.com/makersmarket/discovery/internal/usecase/search"
	"github.com/makersmarket/discovery/internal/version"
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

	logger.Info("Starting discovery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// Repositories
	catalogRepo := catalogrepo.New(store)
	interactionRepo := interactionrepo.New(store)
	analyticsWriter := analyticsrepo.NewWriter(store, logger)
	suggestionSource := suggestrepo.New(interactionRepo, catalogRepo)

	// Engine services — composition root
	resultCache := cache.NewResults(
		cfg.Search.CacheCapacity,
		time.Duration(cfg.Search.CacheTTLSec)*time.Second,
		metrics.ResultCacheCounter(),
	)
	profiles := profileuc.New(interactionRepo, catalogRepo, profileuc.Config{
		TTL:                time.Duration(cfg.Recommend.ProfileTTLSec) * time.Second,
		Capacity:           cfg.Recommend.ProfileCapacity,
		InteractionLimit:   cfg.Recommend.InteractionLimit,
		SearchHistoryLimit: cfg.Recommend.SearchHistoryLimit,
	}, metrics.ProfileCacheCounter(), logger)

	searchSvc := searchuc.New(
		queryuc.New(), rank.New(),
		catalogRepo, resultCache, suggestionSource, interactionRepo, analyticsWriter,
		searchuc.Config{
			MaxCandidates:   cfg.Search.MaxCandidates,
			SuggestionLimit: cfg.Search.SuggestionLimit,
		},
		logger,
	)
	recommender := recommenduc.New(
		catalogRepo, profiles, interactionRepo, analyticsWriter,
		recommenduc.Config{AddOnMaxPrice: cfg.Recommend.AddOnMaxPrice},
		logger,
	)
	healthSvc := healthuc.New(store)

	server := chiTransport.NewServer(
		searchSvc, recommender, interactionRepo, profiles,
		healthSvc, cfg.Search.MaxPageSize, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer recovers panics and answers with a JSON error body.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
