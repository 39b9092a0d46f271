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

	"footfit/internal/api"
	"footfit/internal/common/aws"
	"footfit/internal/common/config"
	"footfit/internal/common/database"
	"footfit/internal/common/logger"
	"footfit/internal/common/metrics"
	"footfit/internal/common/observability"
	"footfit/internal/engine"
	"footfit/internal/export"
	"footfit/internal/session"
	"footfit/internal/store"
	"footfit/internal/wizard"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wizard HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg, "footfit-api")
	log.Info("starting footfit api", map[string]interface{}{
		"environment": cfg.App.Environment,
		"store":       cfg.Session.Store,
		"address":     cfg.Server.Address,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("observability disabled", map[string]interface{}{"error": err})
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	st, closeStore, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	wopts, err := wizard.ParseOptions(cfg.Wizard.MissingFields, cfg.Wizard.Recompute)
	if err != nil {
		return err
	}

	svc, err := session.NewService(session.Options{
		Store:         st,
		Recommender:   engine.NewSeeded(cfg.Engine.Seed),
		Wizard:        wopts,
		Logger:        log,
		Observability: obs,
	})
	if err != nil {
		return err
	}

	mailer, err := buildMailer(ctx, cfg)
	if err != nil {
		return err
	}
	texter, err := buildTexter(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewRouter(api.NewHandler(svc, mailer, log).WithTexter(texter)),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{"address": srv.Addr})
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
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown signal received", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("footfit api stopped", nil)
	return nil
}

// buildStore selects the session store backend. The returned func releases
// its connections.
func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, func(), error) {
	ttl := config.GetDuration(cfg.Session.TTL)
	switch cfg.Session.Store {
	case "redis":
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			_ = rc.Close()
			return nil, nil, err
		}
		log.Info("redis session store connected", map[string]interface{}{"address": cfg.Database.Redis.Address})
		return store.NewRedisStore(rc, ttl), func() { _ = rc.Close() }, nil
	default:
		ms := store.NewMemoryStore(ttl)
		if err := metrics.TrackStoredSessions("memory", ms.Len); err != nil {
			log.Warn("stored sessions gauge not registered", map[string]interface{}{"error": err.Error()})
		}
		return ms, func() {}, nil
	}
}

// buildMailer returns a disabled mailer unless SES is enabled in config.
func buildMailer(ctx context.Context, cfg *config.Config) (*export.Mailer, error) {
	sesCfg := cfg.Integrations.AWS.SES
	if !sesCfg.Enabled {
		return export.NewMailer(nil, "", false), nil
	}
	client, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		return nil, err
	}
	return export.NewMailer(client, sesCfg.FromEmail, true), nil
}

// buildTexter returns a disabled SMS sender unless SNS is enabled in config.
func buildTexter(ctx context.Context, cfg *config.Config) (*export.Texter, error) {
	snsCfg := cfg.Integrations.AWS.SNS
	if !snsCfg.Enabled {
		return export.NewTexter(nil, "", false), nil
	}
	client, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		return nil, err
	}
	return export.NewTexter(client, snsCfg.SenderID, true), nil
}
