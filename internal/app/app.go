package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wqgrid/internal/config"
	apierrors "wqgrid/internal/errors"
	"wqgrid/internal/infrastructure"
	customMiddleware "wqgrid/internal/middleware"
	"wqgrid/internal/services"
	handlers "wqgrid/internal/transport/http"
)

const (
	// Version is the application version
	Version = "1.0.0"
	// AppName is the human-readable application name
	AppName = "WQ Grid - Water Quality Report Validator"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	UploadService *services.UploadService
	HealthService *services.HealthService
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	// The range table is built explicitly here at startup, never as a
	// hidden side effect of referencing a type.
	a.UploadService = services.NewUploadService(
		a.Config.Paths.RangesFile,
		a.Config.Upload.NATokens,
		a.Logger,
	)
	a.HealthService = services.NewHealthService(Version, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)

		uploadHandler := handlers.NewUploadHandler(
			a.UploadService,
			a.Logger,
			errorHandler,
			a.Config.Upload.MaxFiles,
			a.Config.Upload.MaxFileSize,
			a.Config.Paths.ExportName,
		)
		r.Mount("/", uploadHandler.Routes())

		rangesHandler := handlers.NewRangesHandler(a.UploadService, a.Logger)
		r.Mount("/ranges", rangesHandler.Routes())
	})

	// Prometheus metrics endpoint outside the API group
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server
func (a *Application) Start(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "server listening",
		slog.String("addr", a.Server.Addr))

	if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- a.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	}

	return a.Stop(ctx)
}
