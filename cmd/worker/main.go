package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gorgija/ehour/config"
	"github.com/Gorgija/ehour/internal/bootstrap"
	"github.com/Gorgija/ehour/internal/cli"
	"github.com/Gorgija/ehour/internal/reference"
	"github.com/Gorgija/ehour/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(openRuntime).ExecuteContext(ctx); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func openRuntime(ctx context.Context) (*cli.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	services := bootstrap.NewServices(stores, cfg, logger)

	return &cli.Runtime{
		Migrate: stores.Pool.Migrate,
		Seed: func(ctx context.Context) error {
			data, err := reference.Load(cfg.App.ReferenceDataPath)
			if err != nil {
				return err
			}
			if err := stores.Pool.Seed(ctx, data); err != nil {
				return err
			}
			return services.Reference.Invalidate(ctx)
		},
		Timesheets: services.Timesheets,
		Audit:      services.Audit,
		Jobs: func() []scheduler.Job {
			return scheduler.NightlyJobs(services.Reference, services.Audit, cfg.App.AuditRetentionDays, logger)
		},
		CronSpec:      cfg.App.CronSpec,
		RetentionDays: cfg.App.AuditRetentionDays,
		Close:         stores.Close,
	}, nil
}
