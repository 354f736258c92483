package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/beavernet-backend/internal/adapter/payment"
	"github.com/heartmarshall/beavernet-backend/internal/auth"
	"github.com/heartmarshall/beavernet-backend/internal/config"
	authsvc "github.com/heartmarshall/beavernet-backend/internal/service/auth"
	"github.com/heartmarshall/beavernet-backend/internal/service/billing"
	"github.com/heartmarshall/beavernet-backend/internal/service/dispatch"
	"github.com/heartmarshall/beavernet-backend/internal/service/notary"
	"github.com/heartmarshall/beavernet-backend/internal/service/user"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
	"github.com/heartmarshall/beavernet-backend/internal/transport/middleware"
	"github.com/heartmarshall/beavernet-backend/internal/transport/rest"
)

// limiterCleanupInterval is how often idle public rate-limit entries are swept.
const limiterCleanupInterval = time.Minute

// Run is the application entry point. It loads configuration, opens the
// configured store, ensures the bootstrap admin and serves HTTP until
// SIGINT or SIGTERM.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.DriverName()),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close store", slog.String("error", err.Error()))
		}
	}()

	a := New(cfg, store, logger)
	defer a.Close()

	if err := a.Bootstrap(ctx); err != nil {
		return err
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	return a.Serve(ctx, ln)
}

// App holds the assembled services and HTTP handler.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	users   *user.Service
	limiter *middleware.RateLimiter
	handler http.Handler
}

// New wires services and the router on top of store.
func New(cfg *config.Config, store *storage.Store, logger *slog.Logger) *App {
	tokens := auth.NewDocumentTokenManager(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer)
	users := user.NewService(logger, store.Users)

	var billingSvc *billing.Service
	if cfg.Payment.Enabled() {
		billingSvc = billing.NewService(logger, store, payment.NewGateway(cfg.Payment, logger))
	} else {
		logger.Info("payment gateway not configured; order endpoints will answer 503")
		billingSvc = billing.NewService(logger, store, nil)
	}

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.NewMetrics()
	}

	limiter := middleware.NewRateLimiter(cfg.Public.RateLimitRPS, cfg.Public.RateLimitBurst, limiterCleanupInterval)

	handler := rest.NewRouter(rest.Deps{
		Logger:        logger,
		Store:         store,
		Version:       BuildVersion(),
		Auth:          authsvc.NewService(logger, store.Users),
		Users:         users,
		Dispatch:      dispatch.NewService(logger, store),
		Notary:        notary.NewService(logger, store.Documents, tokens),
		Billing:       billingSvc,
		Realm:         cfg.Auth.Realm,
		CORS:          cfg.CORS,
		PublicLimiter: limiter,
		Metrics:       metrics,
		MetricsPath:   cfg.Metrics.Path,
	})

	return &App{
		cfg:     cfg,
		log:     logger,
		users:   users,
		limiter: limiter,
		handler: handler,
	}
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Bootstrap creates the configured initial admin account if it is missing.
func (a *App) Bootstrap(ctx context.Context) error {
	if !a.cfg.Auth.HasBootstrapAdmin() {
		return nil
	}

	created, err := a.users.EnsureBootstrapAdmin(ctx, a.cfg.Auth.BootstrapUsername, a.cfg.Auth.BootstrapPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		a.log.Info("bootstrap admin created", slog.String("username", a.cfg.Auth.BootstrapUsername))
	}
	return nil
}

// Serve runs the HTTP server on ln until ctx is cancelled, then shuts it
// down gracefully within the configured timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      a.handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(a.log.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("http server listening", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close releases background resources owned by the app.
func (a *App) Close() {
	a.limiter.Stop()
}
