package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"equipbook/pkg/config"
	"equipbook/pkg/contracts"
	"equipbook/pkg/middleware"
)

// Application owns the HTTP server lifecycle: middleware assembly, serving,
// and graceful shutdown of the server plus any registered background pieces.
type Application struct {
	cfg         *config.Config
	server      *http.Server
	rateLimiter *middleware.ClientRateLimiter
	onShutdown  []func()

	healthHandler http.Handler
	streamHandler http.Handler
	appHandler    http.Handler
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// OnShutdown registers a hook run during graceful shutdown, before the
// server stops. Hooks run in registration order.
func (a *Application) OnShutdown(fn func()) {
	a.onShutdown = append(a.onShutdown, fn)
}

// SetApp wires the three route groups. Health endpoints get a minimal
// chain; the live snapshot stream must not sit behind the request timeout,
// so it gets its own chain; everything else gets the full stack.
func (a *Application) SetApp(appHandler, streamHandler, healthHandler contracts.Handler) {
	a.setHealthHandler(healthHandler)
	a.setStreamHandler(streamHandler)
	a.setAppHandler(appHandler)
	a.setServer()
}

func (a *Application) setHealthHandler(h contracts.Handler) {
	router := httprouter.New()
	h.RegisterRoutes(router)

	var handler http.Handler = router
	handler = middleware.RequestLogging(a.cfg.Log)(handler)
	handler = middleware.Recovery(a.cfg.Log)(handler)
	a.healthHandler = handler
}

func (a *Application) setStreamHandler(h contracts.Handler) {
	router := httprouter.New()
	h.RegisterRoutes(router)

	var handler http.Handler = router
	handler = middleware.RequestLogging(a.cfg.Log)(handler)
	handler = middleware.Recovery(a.cfg.Log)(handler)
	a.streamHandler = handler
}

func (a *Application) setAppHandler(h contracts.Handler) {
	router := httprouter.New()
	h.RegisterRoutes(router)

	a.rateLimiter = middleware.NewClientRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		middleware.RemoteAddrExtractor,
		a.cfg.Log,
	)

	var handler http.Handler = router
	handler = middleware.RequestTimeout(a.cfg.RequestTimeout)(handler)
	handler = middleware.ClientRateLimit(a.rateLimiter)(handler)
	handler = middleware.ContentTypeValidation(a.cfg.Log)(handler)
	handler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(handler)
	handler = middleware.RequestLogging(a.cfg.Log)(handler)
	handler = middleware.Recovery(a.cfg.Log)(handler)
	a.appHandler = handler
}

func (a *Application) setServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/api/v1/bookings/watch", a.streamHandler)
	mux.Handle("/", a.appHandler)

	a.server = &http.Server{
		Addr:        ":" + a.cfg.Port,
		Handler:     mux,
		ReadTimeout: a.cfg.ServerReadTimeout,
		// No server-wide write timeout: it would sever long-lived event
		// streams. Regular routes are bounded by the request timeout
		// middleware instead.
		WriteTimeout: 0,
		IdleTimeout:  a.cfg.ServerIdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	a.rateLimiter.Stop()
	for _, fn := range a.onShutdown {
		fn()
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Server stopped gracefully")
}
