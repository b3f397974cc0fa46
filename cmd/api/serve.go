package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/neillmakeup/studio-api/internal/audit"
	"github.com/neillmakeup/studio-api/internal/config"
	dbpkg "github.com/neillmakeup/studio-api/internal/db"
	"github.com/neillmakeup/studio-api/internal/logger"
	"github.com/neillmakeup/studio-api/internal/metrics"
	"github.com/neillmakeup/studio-api/internal/notify"
	"github.com/neillmakeup/studio-api/internal/payments"
	"github.com/neillmakeup/studio-api/internal/routes"
	"github.com/neillmakeup/studio-api/internal/session"
	"github.com/neillmakeup/studio-api/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if cfg.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ======================================================
	// INFRA
	// ======================================================
	db, err := dbpkg.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = dbpkg.Close(db) }()

	sessionStore, closeStore, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	store, err := storage.New(cfg.Uploads, cfg.S3)
	if err != nil {
		return err
	}

	gateway, err := openPayments(cfg)
	if err != nil {
		return err
	}

	notifier := notify.NewQueue(openNotifier(ctx, cfg, log), log)
	defer notifier.Close()

	dispatcher := audit.NewDispatcher(audit.New(db), log)
	defer dispatcher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// ======================================================
	// HTTP
	// ======================================================
	router, err := routes.New(routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Metrics:  metrics.New(reg),
		Sessions: session.NewManager(sessionStore, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
		Audit:    dispatcher,
		Notifier: notifier,
		Store:    store,
		Payments: gateway,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, fmt.Sprintf("server running on %s", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openSessionStore uses Redis when configured and falls back to memory,
// which only suits a single instance.
func openSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (session.Store, func(), error) {
	if cfg.Redis.URL == "" {
		log.Warn(ctx, "STUDIO_REDIS_URL not set, sessions kept in memory")
		return session.NewMemoryStore(), func() {}, nil
	}
	rs, err := session.NewRedisStore(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() { _ = rs.Close() }, nil
}

func openNotifier(ctx context.Context, cfg *config.Config, log *logger.Logger) notify.Notifier {
	if !cfg.Telegram.Enabled() {
		return notify.Noop{}
	}
	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID)
	if err != nil {
		log.Error(ctx, "telegram disabled", err)
		return notify.Noop{}
	}
	return tg
}

// openPayments returns a nil gateway when no access token is configured.
func openPayments(cfg *config.Config) (payments.Gateway, error) {
	if !cfg.Payments.Enabled() {
		return nil, nil
	}
	mp, err := payments.NewMercadoPago(cfg.Payments.MercadoPagoToken)
	if err != nil {
		return nil, err
	}
	return mp, nil
}
