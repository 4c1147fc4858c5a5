package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gorgija/ehour/internal/daterange"
	"github.com/Gorgija/ehour/internal/scheduler"
)

func newMigrateCommand(open Opener) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				if err := rt.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
				if !seed {
					return nil
				}
				if err := rt.Seed(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "reference data seeded")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", true, "upsert roles and assignment types from the reference file")
	return cmd
}

func newExportMonthCommand(open Opener) *cobra.Command {
	var (
		userID int64
		month  string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export-month",
		Short: "Export a user's month as xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return errors.New("--user must be a positive id")
			}
			m := time.Now()
			if month != "" {
				r, err := daterange.ParseMonth(month)
				if err != nil {
					return err
				}
				m = *r.Start
			}

			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				var buf bytes.Buffer
				name, err := rt.Timesheets.ExportMonth(ctx, userID, m, &buf)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = name
				}
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&month, "month", "", "month as 2006-01, defaults to the current month")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, defaults to the generated name")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newAuditPurgeCommand(open Opener) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "audit-purge",
		Short: "Delete audit entries older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				retention := days
				if !cmd.Flags().Changed("days") {
					retention = rt.RetentionDays
				}
				n, err := rt.Audit.Purge(ctx, retention)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d audit entries\n", n)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "retention in days, defaults to AUDIT_RETENTION_DAYS")
	return cmd
}

func newScheduleCommand(open Opener) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the nightly jobs on the configured cron spec",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				s := scheduler.NewScheduler(nil)
				jobs := rt.Jobs()

				if once {
					var errs []error
					for _, j := range jobs {
						errs = append(errs, s.Run(ctx, j))
					}
					return errors.Join(errs...)
				}

				if err := s.Add(rt.CronSpec, jobs...); err != nil {
					return err
				}
				s.Start()
				fmt.Fprintf(cmd.OutOrStdout(), "scheduler started (%s, %d jobs)\n", rt.CronSpec, len(jobs))

				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				s.Stop(stopCtx)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run every job immediately and exit")
	return cmd
}
