package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gorgija/ehour/internal/audit/domain"
)

// AuditStore is the persistence port for the audit trail.
type AuditStore interface {
	FindAudit(ctx context.Context, req domain.AuditReportRequest) ([]domain.AuditEntry, error)
	FindAuditAll(ctx context.Context, req domain.AuditReportRequest) ([]domain.AuditEntry, error)
	FindAuditCount(ctx context.Context, req domain.AuditReportRequest) (int64, error)
	Persist(ctx context.Context, e *domain.AuditEntry) error
	PurgeBefore(ctx context.Context, t time.Time) (int64, error)
}

type AuditService struct {
	store  AuditStore
	now    func() time.Time
	logger *slog.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(store AuditStore, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{store: store, now: time.Now, logger: logger}
}

// Page returns the requested page together with the unpaginated total.
func (s *AuditService) Page(ctx context.Context, req domain.AuditReportRequest) (domain.AuditPage, error) {
	if err := validate(req); err != nil {
		return domain.AuditPage{}, err
	}

	entries, err := s.store.FindAudit(ctx, req)
	if err != nil {
		return domain.AuditPage{}, err
	}
	total, err := s.store.FindAuditCount(ctx, req)
	if err != nil {
		return domain.AuditPage{}, err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return domain.AuditPage{Entries: entries, Total: total}, nil
}

// All returns every entry matching req.
func (s *AuditService) All(ctx context.Context, req domain.AuditReportRequest) ([]domain.AuditEntry, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	entries, err := s.store.FindAuditAll(ctx, req)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

// Record stores e. Failures are logged and returned; the caller decides
// whether they matter.
func (s *AuditService) Record(ctx context.Context, e *domain.AuditEntry) error {
	if e.Date.IsZero() {
		e.Date = s.now().UTC()
	}
	if err := s.store.Persist(ctx, e); err != nil {
		s.logger.Error("audit entry not recorded", "action", e.Action, "request_id", e.RequestID, "error", err)
		return err
	}
	return nil
}

// Purge deletes entries older than retentionDays.
func (s *AuditService) Purge(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("%w: retention must be positive, got %d", domain.ErrInvalidRequest, retentionDays)
	}
	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)

	n, err := s.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info("audit purged", "cutoff", cutoff.Format(time.DateOnly), "deleted", n)
	return n, nil
}

func validate(req domain.AuditReportRequest) error {
	if err := req.Range.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if req.Max != nil && *req.Max == 0 {
		return fmt.Errorf("%w: max must be positive", domain.ErrInvalidRequest)
	}
	return nil
}
