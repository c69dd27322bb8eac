package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"epipulse/internal/config"
	"epipulse/internal/dataset"
	apierrors "epipulse/internal/errors"
	"epipulse/internal/infrastructure"
	appmiddleware "epipulse/internal/middleware"
	"epipulse/internal/services"
	handlers "epipulse/internal/transport/http"
	"epipulse/pkg/contracts"
)

const (
	browserReadyRetries  = 10
	browserReadyInterval = 200 * time.Millisecond
)

// Application holds the wired dashboard server components.
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Metrics   *infrastructure.Metrics
	Pipeline  *dataset.Pipeline
	Dashboard *services.DashboardService
	Router    *chi.Mux
	Server    *http.Server

	dataFile     string
	errorHandler *apierrors.ErrorHandler
}

// NewApplication wires the dashboard server. The caller owns configuration
// loading and logger construction; dataFile is the dataset file the
// background load will read once the server is up.
func NewApplication(cfg *config.Config, paths *config.Paths, logger *slog.Logger, dataFile string) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if paths == nil {
		return nil, fmt.Errorf("paths are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	metrics := infrastructure.NewMetrics()
	errorHandler := apierrors.NewErrorHandler(logger, cfg.Logging.Level == "debug")
	validation := appmiddleware.NewValidationMiddleware(logger, errorHandler)

	app := &Application{
		Config:       cfg,
		Paths:        paths,
		Logger:       logger,
		Metrics:      metrics,
		Pipeline:     dataset.NewPipeline(logger, metrics),
		Dashboard:    services.NewDashboardService(logger),
		dataFile:     dataFile,
		errorHandler: errorHandler,
	}

	dashboardHandler := handlers.NewDashboardHandler(app.Dashboard, logger, errorHandler, validation)
	webHandler, err := handlers.NewWebHandler(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize web handler: %w", err)
	}

	app.setupRouter(dashboardHandler, webHandler)
	app.createServer()

	return app, nil
}

// setupRouter configures the router and middleware chain.
func (a *Application) setupRouter(dashboard *handlers.DashboardHandler, web *handlers.WebHandler) {
	r := chi.NewRouter()

	r.Use(appmiddleware.RequestID)
	r.Use(appmiddleware.RealIP)

	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.StructuredLogger(a.Logger))
		r.Use(appmiddleware.Recoverer(a.errorHandler))
		r.Use(appmiddleware.Metrics(a.Metrics))
		r.Use(appmiddleware.SecurityHeaders)
		r.Use(appmiddleware.Compress(5))

		if a.Config.Server.RateLimit.Enabled {
			limiter := appmiddleware.NewRateLimiter(
				a.Config.Server.RateLimit.RPS,
				a.Config.Server.RateLimit.Burst,
				a.Logger,
			)
			r.Use(limiter.Handler)
		}

		r.Route(config.APIBasePath, func(r chi.Router) {
			r.Use(appmiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))
			r.Mount("/", dashboard.Routes())
		})

		r.Get("/", web.ServeIndex)
	})

	// Prometheus scrapes bypass logging, rate limiting and request metrics.
	r.Handle(config.MetricsEndpoint, a.Metrics.Handler())

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.Router = r
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start brings up the HTTP server and loads the dataset concurrently. It
// blocks until ctx is cancelled or a component fails, then drains the server
// within the configured shutdown timeout. A dataset that fails to load is
// fatal; the dashboard answers 503 only while the load is still in flight.
func (a *Application) Start(ctx context.Context) error {
	ctx = infrastructure.EnsureTraceID(ctx)

	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))
	a.Paths.LogPathResolution(a.Logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "http server listening",
			slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.loadDataset(ctx)
	})

	if a.Config.Server.OpenBrowser {
		g.Go(func() error {
			a.waitAndOpenBrowser(ctx)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		// The signal context is already cancelled here, so the shutdown
		// deadline needs a fresh parent.
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Start(ctx)
}

// Stop gracefully stops the HTTP server.
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

// loadDataset runs the pipeline and publishes the result to the dashboard
// service.
func (a *Application) loadDataset(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "loading dataset", slog.String("path", a.dataFile))

	result, err := a.Pipeline.Run(ctx, a.dataFile)
	if err != nil {
		a.Logger.ErrorContext(ctx, "dataset load failed",
			slog.String("path", a.dataFile),
			slog.String("error", err.Error()))
		return err
	}

	a.Dashboard.SetResult(result)
	a.Logger.InfoContext(ctx, "dashboard data ready",
		slog.Int("rows", result.Clean.Len()),
		slog.Int("countries", result.Snapshot.Len()))
	return nil
}

// waitAndOpenBrowser polls the health endpoint until the server answers,
// then opens the default browser at the dashboard root.
func (a *Application) waitAndOpenBrowser(ctx context.Context) {
	base := fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)
	healthURL := base + config.HealthEndpoint

	for attempt := 0; attempt < browserReadyRetries; attempt++ {
		resp, err := http.Get(healthURL)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				a.Logger.InfoContext(ctx, "server ready, opening browser",
					slog.String("url", base),
					slog.Int("attempts", attempt+1))

				if err := OpenBrowser(a.Logger, base); err != nil {
					a.Logger.WarnContext(ctx, "failed to open browser",
						slog.String("url", base),
						slog.String("error", err.Error()))
					fmt.Fprintf(os.Stderr, "\nEpiPulse is running. Open your browser at %s\n\n", base)
				}
				return
			}
		}

		select {
		case <-ctx.Done():
			a.Logger.InfoContext(ctx, "browser opening cancelled, application shutting down")
			return
		case <-time.After(browserReadyInterval):
		}
	}

	a.Logger.WarnContext(ctx, "server did not become ready for browser opening",
		slog.String("url", base),
		slog.Int("max_retries", browserReadyRetries))
}

// browserMethod is one way of asking the OS to open a URL.
type browserMethod struct {
	name string
	cmd  string
	args []string
}

// getBrowserOpenMethods returns platform-specific browser opening methods.
func getBrowserOpenMethods(url string) []browserMethod {
	switch runtime.GOOS {
	case "windows":
		return []browserMethod{
			{name: "start_command", cmd: "cmd", args: []string{"/c", "start", "", url}},
			{name: "rundll32", cmd: "rundll32", args: []string{"url.dll,FileProtocolHandler", url}},
		}
	case "darwin":
		return []browserMethod{
			{name: "open", cmd: "open", args: []string{url}},
		}
	default:
		return []browserMethod{
			{name: "xdg-open", cmd: "xdg-open", args: []string{url}},
			{name: "sensible-browser", cmd: "sensible-browser", args: []string{url}},
		}
	}
}

// OpenBrowser opens the default browser at url, trying each platform method
// in order. The chart mode reuses it for the rendered report file.
func OpenBrowser(logger *slog.Logger, url string) error {
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for _, method := range getBrowserOpenMethods(url) {
		cmd := exec.Command(method.cmd, method.args...)
		if err := cmd.Start(); err != nil {
			lastErr = err
			logger.Warn("browser open method failed",
				slog.String("method", method.name),
				slog.String("error", err.Error()))
			continue
		}

		// Reap the launcher process once it exits.
		go func() { _ = cmd.Wait() }()

		logger.Info("browser opened",
			slog.String("method", method.name),
			slog.String("url", url))
		return nil
	}

	return fmt.Errorf("failed to open browser after all attempts: %w", lastErr)
}
