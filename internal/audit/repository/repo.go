package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Gorgija/ehour/internal/audit/domain"
)

type auditRecord struct {
	ID           int64          `gorm:"column:id;primaryKey"`
	UserID       *int64         `gorm:"column:user_id"`
	UserFullName string         `gorm:"column:user_full_name"`
	AuditDate    time.Time      `gorm:"column:audit_date"`
	Action       string         `gorm:"column:action"`
	Page         string         `gorm:"column:page"`
	Parameters   datatypes.JSON `gorm:"column:parameters"`
	Success      bool           `gorm:"column:success"`
	ActionType   string         `gorm:"column:action_type"`
	RequestID    string         `gorm:"column:request_id"`
}

func (auditRecord) TableName() string { return "audit" }

// AuditRepository reads and writes the audit trail.
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// auditCriteria is the single filter used by every audit query. Pagination is
// the only thing that differs between the page, count and full fetches.
// Ordering stays out of it: Postgres rejects ORDER BY on the count.
func auditCriteria(req domain.AuditReportRequest, paginate bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if action := strings.TrimSpace(req.Action); action != "" {
			db = db.Where("LOWER(action) LIKE ?", likePattern(action))
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			db = db.Where("LOWER(user_full_name) LIKE ?", likePattern(name))
		}
		if req.Range.Start != nil {
			db = db.Where("audit_date >= ?", startOfDay(*req.Range.Start))
		}
		if req.Range.End != nil {
			db = db.Where("audit_date < ?", startOfDay(*req.Range.End).AddDate(0, 0, 1))
		}

		if paginate {
			if req.Offset != nil {
				db = db.Offset(*req.Offset)
			}
			if req.Max != nil {
				db = db.Limit(*req.Max)
			}
		}
		return db
	}
}

// FindAudit returns one page of matching entries.
func (r *AuditRepository) FindAudit(ctx context.Context, req domain.AuditReportRequest) ([]domain.AuditEntry, error) {
	return r.find(ctx, req, true)
}

// FindAuditAll returns every matching entry, ignoring Offset and Max.
func (r *AuditRepository) FindAuditAll(ctx context.Context, req domain.AuditReportRequest) ([]domain.AuditEntry, error) {
	return r.find(ctx, req, false)
}

// FindAuditCount counts every matching entry, ignoring Offset and Max.
func (r *AuditRepository) FindAuditCount(ctx context.Context, req domain.AuditReportRequest) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&auditRecord{}).
		Scopes(auditCriteria(req, false)).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return n, nil
}

func (r *AuditRepository) find(ctx context.Context, req domain.AuditReportRequest, paginate bool) ([]domain.AuditEntry, error) {
	var records []auditRecord
	err := r.db.WithContext(ctx).
		Scopes(auditCriteria(req, paginate)).
		Order("audit_date ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	out := make([]domain.AuditEntry, 0, len(records))
	for _, rec := range records {
		out = append(out, toEntry(rec))
	}
	return out, nil
}

// Persist stores a new entry and sets its id.
func (r *AuditRepository) Persist(ctx context.Context, e *domain.AuditEntry) error {
	rec := auditRecord{
		UserID:       e.UserID,
		UserFullName: e.UserFullName,
		AuditDate:    e.Date,
		Action:       e.Action,
		Page:         e.Page,
		Parameters:   datatypes.JSON(e.Parameters),
		Success:      e.Success,
		ActionType:   e.ActionType,
		RequestID:    e.RequestID,
	}
	if rec.AuditDate.IsZero() {
		rec.AuditDate = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to persist audit entry: %w", err)
	}
	e.ID = rec.ID
	e.Date = rec.AuditDate
	return nil
}

// PurgeBefore deletes entries older than t and returns how many were removed.
func (r *AuditRepository) PurgeBefore(ctx context.Context, t time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("audit_date < ?", t).Delete(&auditRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge audit entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func toEntry(rec auditRecord) domain.AuditEntry {
	e := domain.AuditEntry{
		ID:           rec.ID,
		UserID:       rec.UserID,
		UserFullName: rec.UserFullName,
		Date:         rec.AuditDate,
		Action:       rec.Action,
		Page:         rec.Page,
		Success:      rec.Success,
		ActionType:   rec.ActionType,
		RequestID:    rec.RequestID,
	}
	if len(rec.Parameters) > 0 {
		e.Parameters = []byte(rec.Parameters)
	}
	return e
}

// likePattern lowercases s, escapes LIKE wildcards and wraps it for a
// substring match.
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
