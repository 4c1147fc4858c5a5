// Package cli holds the worker's cobra commands.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gorgija/ehour/internal/scheduler"
)

// Runtime is what the commands run against. Open builds it per invocation so
// help and flag errors never touch the database.
type Runtime struct {
	Migrate       func(ctx context.Context) error
	Seed          func(ctx context.Context) error
	Timesheets    MonthExporter
	Audit         AuditPurger
	Jobs          func() []scheduler.Job
	CronSpec      string
	RetentionDays int
	Close         func() error
}

type MonthExporter interface {
	ExportMonth(ctx context.Context, userID int64, month time.Time, out io.Writer) (string, error)
}

type AuditPurger interface {
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

// Opener builds the Runtime.
type Opener func(ctx context.Context) (*Runtime, error)

// NewRootCommand creates the root command of the worker.
func NewRootCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "worker",
		Short:         "eHour maintenance worker",
		Long:          "Runs schema migrations, timesheet exports, audit purges and the nightly scheduler.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand(open))
	cmd.AddCommand(newExportMonthCommand(open))
	cmd.AddCommand(newAuditPurgeCommand(open))
	cmd.AddCommand(newScheduleCommand(open))

	return cmd
}

// withRuntime opens the runtime, runs fn and closes it again.
func withRuntime(cmd *cobra.Command, open Opener, fn func(ctx context.Context, rt *Runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rt.Close != nil {
			_ = rt.Close()
		}
	}()
	return fn(ctx, rt)
}
