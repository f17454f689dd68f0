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

	"github.com/kailas-cloud/appdex/internal/collation"
	"github.com/kailas-cloud/appdex/internal/config"
	"github.com/kailas-cloud/appdex/internal/db/bleveindex"
	dbRedis "github.com/kailas-cloud/appdex/internal/db/redis"
	"github.com/kailas-cloud/appdex/internal/domain/batch"
	domcat "github.com/kailas-cloud/appdex/internal/domain/category"
	"github.com/kailas-cloud/appdex/internal/domain/distro"
	logpkg "github.com/kailas-cloud/appdex/internal/logger"
	"github.com/kailas-cloud/appdex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/appdex/internal/repository/catalog"
	categoryrepo "github.com/kailas-cloud/appdex/internal/repository/category"
	"github.com/kailas-cloud/appdex/internal/repository/pkgcache"
	reviewsrepo "github.com/kailas-cloud/appdex/internal/repository/reviews"
	searchrepo "github.com/kailas-cloud/appdex/internal/repository/search"
	chiTransport "github.com/kailas-cloud/appdex/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/appdex/internal/usecase/catalog"
	"github.com/kailas-cloud/appdex/internal/usecase/compiler"
	healthuc "github.com/kailas-cloud/appdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/appdex/internal/usecase/search"
	"github.com/kailas-cloud/appdex/internal/version"
)

func main() {
	if err := config.LoadDotEnv(""); err != nil {
		panic("failed to load .env: " + err.Error())
	}

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

	logger.Info("Starting appdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_path", cfg.Index.Path),
		zap.Bool("reviews", cfg.Reviews.Enabled()),
	)

	metrics.RegisterSearchMetrics()
	metrics.RegisterHTTPMetrics()
	ctx := context.Background()

	collator, err := collation.New(cfg.Search.Locale)
	if err != nil {
		logger.Fatal("Invalid search locale", zap.Error(err))
	}

	index, err := bleveindex.Open(bleveindex.Config{
		Path:       cfg.Index.Path,
		ReadOnly:   cfg.Index.ReadOnly,
		TermsField: searchrepo.ColumnTerms,
		TextField:  searchrepo.ColumnText,
		BatchSize:  cfg.Index.BatchSize,
	}, searchrepo.Definition())
	if err != nil {
		logger.Fatal("Failed to open catalog index", zap.Error(err))
	}
	defer func() { _ = index.Close() }()

	searchRepo := searchrepo.New(index).WithSortKey(collator.Key)

	// Review store is optional: without it top-rated falls back to relevance.
	var reviewStore *dbRedis.Store
	var reviewRepo *reviewsrepo.Repo
	if cfg.Reviews.Enabled() {
		reviewStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Reviews.Addrs,
			Password: cfg.Reviews.Password,
			CacheTTL: time.Duration(cfg.Reviews.CacheTTLSec) * time.Second,
		})
		if err != nil {
			logger.Fatal("Failed to create review store", zap.Error(err))
		}
		defer reviewStore.Close()

		timeout := time.Duration(cfg.Reviews.ReadinessTimeout) * time.Second
		if err := reviewStore.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Review store not ready", zap.Error(err))
		}
		reviewRepo = reviewsrepo.New(reviewStore, cfg.Reviews.KeyPrefix, cfg.Reviews.ChunkSize,
			metrics.ReviewLookupsTotal, logger)
		logger.Info("Connected to review store")
	}

	// An in-memory index is built from the catalog export at startup.
	if cfg.Index.Path == "" {
		// Pass nil interface (not typed nil pointer!) when reviews are disabled.
		var reviewWriter cataloguc.ReviewWriter
		if reviewRepo != nil {
			reviewWriter = reviewRepo
		}
		importer := cataloguc.New(searchRepo, reviewWriter, logger).WithChunkSize(cfg.Index.BatchSize)
		if err := importCatalog(ctx, importer, cfg.Catalog.Path, logger); err != nil {
			logger.Fatal("Failed to build catalog index", zap.Error(err))
		}
	}

	packages := pkgcache.New(nil)
	if cfg.Packages.Snapshot != "" {
		packages, err = pkgcache.Load(cfg.Packages.Snapshot)
		if err != nil {
			logger.Fatal("Failed to load package snapshot", zap.Error(err))
		}
	}
	metrics.PackageCacheEntries.Set(float64(packages.Len()))
	logger.Info("Package cache loaded", zap.Int("packages", packages.Len()))

	policy, err := distro.NewPolicy(cfg.Distro.Name, cfg.Distro.Origins, cfg.Distro.Components, *cfg.Distro.RequireTrusted)
	if err != nil {
		logger.Fatal("Invalid distro policy", zap.Error(err))
	}

	var categories domcat.Tree
	if cfg.Catalog.Categories != "" {
		categories, err = categoryrepo.Load(cfg.Catalog.Categories)
		if err != nil {
			logger.Fatal("Failed to load categories", zap.Error(err))
		}
	}

	compilerOpts := []compiler.Option{compiler.WithMaxPartialLength(cfg.Search.MaxPartialLength)}
	if len(cfg.Search.Greylist) > 0 {
		compilerOpts = append(compilerOpts, compiler.WithGreylist(cfg.Search.Greylist))
	}
	comp := compiler.New(compilerOpts...)

	searchOpts := []searchuc.Option{
		searchuc.WithPolicy(policy),
		searchuc.WithCollator(collator),
		searchuc.WithLogger(logger),
		searchuc.WithPageSize(cfg.Search.PageSize),
	}
	if reviewRepo != nil {
		searchOpts = append(searchOpts, searchuc.WithReviews(reviewRepo))
	}
	searchSvc := searchuc.New(searchRepo, packages, searchOpts...)

	var reviewPinger healthuc.Pinger
	if reviewStore != nil {
		reviewPinger = reviewStore
	}
	healthSvc := healthuc.New(index, reviewPinger)

	server := chiTransport.NewServer(searchSvc, comp, categories, healthSvc, cfg.Search.DefaultLimit, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.NewAPIKeys(cfg.Auth.APIKeys).Middleware)
	r.Use(metrics.Middleware())
	chiTransport.Handler(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.WriteBindError,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// SIGHUP re-reads the package snapshot
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go reloadPackages(reload, packages, cfg.Packages.Snapshot, logger)

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
	signal.Stop(reload)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// importCatalog loads the catalog export and writes it through importer.
func importCatalog(ctx context.Context, importer *cataloguc.Service, path string, logger *zap.Logger) error {
	c, err := catalogrepo.Load(path)
	if err != nil {
		return err
	}
	for _, r := range c.Rejected {
		logger.Warn("catalog row rejected", zap.String("id", r.ID()), zap.Error(r.Err()))
	}

	sum := batch.Summarize(importer.Import(ctx, c.Documents))
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed to index", sum.Failed, len(c.Documents))
	}
	if err := importer.ImportReviews(ctx, c.Reviews); err != nil {
		return err
	}
	logger.Info("Catalog index built",
		zap.Int("indexed", sum.Indexed),
		zap.Int("rejected", len(c.Rejected)),
		zap.Int("reviews", len(c.Reviews)),
	)
	return nil
}

func reloadPackages(sig <-chan os.Signal, packages *pkgcache.Cache, path string, logger *zap.Logger) {
	for range sig {
		if path == "" {
			logger.Info("No package snapshot configured, dropping memoized states")
			packages.Reset()
			continue
		}
		if err := packages.Reload(path); err != nil {
			logger.Error("Package snapshot reload failed, keeping previous data", zap.Error(err))
			continue
		}
		metrics.PackageCacheEntries.Set(float64(packages.Len()))
		logger.Info("Package cache reloaded", zap.Int("packages", packages.Len()))
	}
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line: one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.Query().Get("q")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
