// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"footfit/internal/common/camunda"
	"footfit/internal/common/config"
	"footfit/internal/common/logger"
	"footfit/internal/common/observability"
	"footfit/internal/engine"
	"footfit/pkg/registry"

	cr "footfit/internal/workers/recommendation/compute-recommendation"
	vp "footfit/internal/workers/recommendation/validate-profile"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	log := logger.NewFromConfig(cfg.Logging, "worker-manager")

	reg, err := registry.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err), zap.String("path", cfg.RegistryPath))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	obs, err := observability.New("worker-manager")
	if err != nil {
		log.Warn("observability disabled", map[string]interface{}{"error": err})
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe client (retries until the broker answers) ---
	client, err := camunda.Connect(ctx, camunda.ConfigFromApp(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer client.Close()
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// One engine serves every compute job; it serialises its random source.
	eng := engine.NewSeeded(cfg.Engine.Seed)

	computeHandler, err := cr.NewHandler(cr.HandlerOptions{
		AppConfig:     cfg,
		Engine:        eng,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create compute-recommendation handler", zap.Error(err))
	}

	validateHandler, err := vp.NewHandler(vp.HandlerOptions{
		AppConfig:     cfg,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create validate-profile handler", zap.Error(err))
	}

	manager := camunda.NewManager(client.Zeebe(), cfg.App.Name+"-worker-manager", log)
	for _, r := range []struct {
		taskType string
		handler  camunda.JobHandler
	}{
		{cr.TaskType, computeHandler},
		{vp.TaskType, validateHandler},
	} {
		if !config.IsWorkerEnabled(cfg, r.taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": r.taskType})
			continue
		}
		startWorker(manager, reg, cfg, r.taskType, r.handler, log)
	}
	log.Info("workers registered", map[string]interface{}{"taskTypes": manager.Running()})

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := client.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "zeebe unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Server.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	manager.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err})
	}
	log.Info("worker manager stopped", nil)
}

// startWorker opens a job worker using the worker config, falling back to the
// registry timeout when the config leaves it unset.
func startWorker(m *camunda.Manager, reg *registry.ActivityRegistry, cfg *config.Config, taskType string, h camunda.JobHandler, log logger.Logger) {
	activity, ok := reg.Find(taskType)
	if !ok {
		log.Warn("task type missing from activity registry", map[string]interface{}{"taskType": taskType})
	}

	wcfg := config.GetWorkerConfig(cfg, taskType)
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout == 0 && ok {
		timeout, _ = activity.TimeoutDuration()
	}

	m.Start(camunda.Registration{
		TaskType:      taskType,
		Handler:       h,
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       timeout,
	})
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
