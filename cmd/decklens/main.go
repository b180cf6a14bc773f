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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/decklens/decklens/internal/config"
	"github.com/decklens/decklens/internal/db"
	dbRedis "github.com/decklens/decklens/internal/db/redis"
	"github.com/decklens/decklens/internal/domain"
	logpkg "github.com/decklens/decklens/internal/logger"
	"github.com/decklens/decklens/internal/metrics"
	budgetrepo "github.com/decklens/decklens/internal/repository/budget"
	"github.com/decklens/decklens/internal/repository/embcache"
	"github.com/decklens/decklens/internal/retry"
	chiTransport "github.com/decklens/decklens/internal/transport/chi"
	geminiGen "github.com/decklens/decklens/internal/transport/gemini"
	openaiEmb "github.com/decklens/decklens/internal/transport/openai"
	embeddinguc "github.com/decklens/decklens/internal/usecase/embedding"
	extractionuc "github.com/decklens/decklens/internal/usecase/extraction"
	generationuc "github.com/decklens/decklens/internal/usecase/generation"
	healthuc "github.com/decklens/decklens/internal/usecase/health"
	promptuc "github.com/decklens/decklens/internal/usecase/prompt"
	retrievaluc "github.com/decklens/decklens/internal/usecase/retrieval"
	usageuc "github.com/decklens/decklens/internal/usecase/usage"
	"github.com/decklens/decklens/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting decklens API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("generation_model", cfg.Generation.Model),
	)

	ctx := context.Background()

	// Cache store is optional: without it the embedder chain runs uncached
	// and budget counters stay in-memory only.
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Single BudgetTracker shared between the embedder chain and usage service.
	var budget *embeddinguc.BudgetTracker
	budgetCfg := cfg.Embedding.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := embeddinguc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = embeddinguc.BudgetActionReject
		}
		budget = embeddinguc.NewBudgetTracker(
			cfg.Embedding.Provider, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
		if store != nil {
			// Connect persistence store: loads current counters from cache.
			budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
		}
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker embeddinguc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	embedder, embedderHealth := buildEmbedder(cfg, store, budgetChecker, logger)

	policy := retry.Policy{
		MaxAttempts: cfg.Pipeline.RetryAttempts,
		InitialWait: time.Duration(cfg.Pipeline.RetryInitialMs) * time.Millisecond,
		Multiplier:  2,
	}

	batch := embeddinguc.NewBatch(
		embedder, cfg.Embedding.Dimensions, cfg.Pipeline.EmbedConcurrency, policy, logger,
	)

	generator, err := geminiGen.NewGenerator(ctx, &geminiGen.Config{
		APIKey: cfg.Generation.APIKey,
		Model:  cfg.Generation.Model,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Failed to create generation client", zap.Error(err))
	}
	logger.Info("Capability clients created",
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.String("generation_provider", cfg.Generation.Provider),
	)

	// Pipeline services
	retriever := retrievaluc.New(batch, logger)
	prompts := promptuc.New(cfg.Pipeline.ContextBudget)
	genSvc := generationuc.New(generator, policy, logger)

	extractSvc := extractionuc.New(batch, retriever, prompts, genSvc, extractionuc.Config{
		ChunkSize:        cfg.Pipeline.ChunkSize,
		TopK:             cfg.Pipeline.TopK,
		MinContentLength: cfg.Pipeline.MinContentLength,
		Timeout:          cfg.Pipeline.TimeoutSec,
	}, logger)

	// Usage service reads from the shared BudgetTracker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}
	usageSvc := usageuc.New(budgetReader)

	// Health service; cache can be nil
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, embedderHealth, generator)

	server := chiTransport.NewServer(extractSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", server.GetHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/extractions", server.CreateExtraction)
		r.Get("/usage", server.GetUsage)
	})

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

// buildEmbedder assembles the decorator chain:
// OpenAI -> Cached -> Instrumented -> Instruction (optional, outermost so
// cache keys include the instruction prefix). The second return value is the
// base provider's health check.
func buildEmbedder(
	cfg config.Config,
	store db.Store,
	budget embeddinguc.BudgetChecker,
	logger *zap.Logger,
) (domain.Embedder, healthuc.CapabilityChecker) {
	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	// Cached
	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(embedder, store, metrics.EmbeddingCacheTotal, logger)
	}

	// Instrumented (budget + logging)
	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Provider, cfg.Embedding.Model, budget, logger,
	)

	if cfg.Embedding.Instruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, cfg.Embedding.Instruction)
	}

	return embedder, base
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
