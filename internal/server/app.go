package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/toptracks/internal/services"
	"github.com/desertthunder/toptracks/internal/shared"
)

const (
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// App is the toptracks web service: a [BasicRouter] with the auth, top items, health and metrics routes.
type App struct {
	router  *BasicRouter
	metrics *Metrics
	cookies *CookieManager
	config  shared.ServerConfig
	logger  *log.Logger
}

// NewApp wires the routes. The cookie Secure flag follows [shared.ServerConfig.IsProduction].
//
// metrics may be nil, in which case a fresh registry is created. Pass the same [Metrics] used to
// instrument the provider's HTTP client so both show up on /metrics.
func NewApp(config shared.ServerConfig, provider services.Provider, metrics *Metrics, logger *log.Logger) *App {
	if metrics == nil {
		metrics = NewMetrics()
	}

	app := &App{
		router:  NewBasicRouter(),
		metrics: metrics,
		cookies: NewCookieManager(config.IsProduction()),
		config:  config,
		logger:  shared.WithLogger(logger, "component", "server"),
	}

	app.router.Use(RequestID(), Logging(app.logger), Recover(app.logger), metrics.Middleware())

	app.router.Handler(NewAuthHandler(provider, app.cookies, logger))
	app.router.Handler(NewTopHandler(provider, app.cookies, logger))
	app.router.Handle(http.MethodGet, HealthPath, http.HandlerFunc(health))
	app.router.Handle(http.MethodGet, MetricsPath, metrics.Handler())

	return app
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.config.Addr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           a,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Infof("listening on http://%s", ln.Addr())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
