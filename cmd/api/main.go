package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gorgija/ehour/config"
	"github.com/Gorgija/ehour/internal/bootstrap"
	"github.com/Gorgija/ehour/internal/reference"
	"github.com/Gorgija/ehour/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	slog.SetDefault(logger)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("stores: %v", err)
	}
	defer stores.Close()

	if err := stores.Pool.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	data, err := reference.Load(cfg.App.ReferenceDataPath)
	if err != nil {
		log.Fatalf("reference data: %v", err)
	}
	if err := stores.Pool.Seed(ctx, data); err != nil {
		log.Fatalf("seed: %v", err)
	}

	services := bootstrap.NewServices(stores, cfg, logger)

	sched := scheduler.NewScheduler(logger)
	if err := sched.Add(cfg.App.CronSpec, scheduler.NightlyJobs(services.Reference, services.Audit, cfg.App.AuditRetentionDays, logger)...); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	sched.Start()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "ehour-api",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		DB:             stores.Pool,
		Services:       services,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.App.Environment, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	sched.Stop(shutdownCtx)
}
