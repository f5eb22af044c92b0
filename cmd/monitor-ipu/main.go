package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jefferson-ssantos/monitor-ipu/internal/auth"
	"github.com/jefferson-ssantos/monitor-ipu/internal/config"
	"github.com/jefferson-ssantos/monitor-ipu/internal/container"
	"github.com/jefferson-ssantos/monitor-ipu/internal/correlation"
	"github.com/jefferson-ssantos/monitor-ipu/internal/handler"
	"github.com/jefferson-ssantos/monitor-ipu/internal/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))

	// Initialize dependency container
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctr, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(correlation.Middleware)
	r.Use(requestLogger(logger))
	r.Use(metrics.Middleware)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", correlation.HeaderName},
		ExposedHeaders:   []string{"Content-Disposition", correlation.HeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (unauthenticated)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := ctr.DB().PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Prometheus metrics (unauthenticated)
	r.Handle("/metrics", metrics.Handler())

	// Initialize handlers
	authHandler := auth.NewHandler(ctr.JWTManager(), ctr.UserRepository())
	seriesHandler := handler.NewSeriesHandler(ctr.Dashboard())
	analysisHandler := handler.NewAnalysisHandler(ctr.Dashboard())
	dashboardHandler := handler.NewDashboardHandler(ctr.Dashboard())
	exportHandler := handler.NewExportHandler(ctr.Dashboard())

	requireAuth := auth.Middleware(ctr.JWTManager())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", authHandler.Me)

			r.Get("/cycles", seriesHandler.GetCycles)
			r.Get("/series", seriesHandler.GetSeries)

			r.Get("/analysis/trend", analysisHandler.GetTrend)
			r.Get("/analysis/forecast", analysisHandler.GetForecast)

			r.Get("/dashboard/kpis", dashboardHandler.GetKPIs)

			r.Get("/export/csv", exportHandler.ExportCSV)
		})
	})

	// Start background jobs
	if err := ctr.Start(ctx); err != nil {
		logger.Error("failed to start background jobs", "error", err)
	}

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := ctr.Stop(shutdownCtx); err != nil {
			logger.Error("container shutdown error", "error", err)
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	// Start server
	logger.Info("monitor-ipu API server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// requestLogger logs one line per request, tagged with the correlation id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"correlation_id", correlation.GetID(r.Context()),
			)
		})
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
