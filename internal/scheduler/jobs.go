package scheduler

import (
	"context"
	"log/slog"
)

// CacheInvalidator drops cached reference data.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// AuditPurger removes audit entries older than the retention period.
type AuditPurger interface {
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

// NightlyJobs refreshes the reference cache and, when retentionDays is
// positive, purges old audit entries. A nil cache skips the refresh.
func NightlyJobs(cache CacheInvalidator, audit AuditPurger, retentionDays int, logger *slog.Logger) []Job {
	if logger == nil {
		logger = slog.Default()
	}

	var jobs []Job
	if cache != nil {
		jobs = append(jobs, Job{Name: "reference-cache-refresh", Run: cache.Invalidate})
	}
	if audit != nil && retentionDays > 0 {
		jobs = append(jobs, Job{
			Name: "audit-purge",
			Run: func(ctx context.Context) error {
				n, err := audit.Purge(ctx, retentionDays)
				if err != nil {
					return err
				}
				logger.Info("audit purged", "deleted", n, "retention_days", retentionDays)
				return nil
			},
		})
	}
	return jobs
}
