package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Gorgija/ehour/internal/reports/domain"
	"github.com/Gorgija/ehour/internal/reports/export"
)

// AggregateStore returns per-assignment hour totals for a report criteria.
type AggregateStore interface {
	CumulatedHoursPerAssignment(ctx context.Context, c domain.Criteria) ([]domain.AggregateElement, error)
}

// ReportService builds aggregate reports and their spreadsheet form.
type ReportService struct {
	store        AggregateStore
	showTurnover bool
	logger       *slog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(store AggregateStore, showTurnover bool, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{store: store, showTurnover: showTurnover, logger: logger}
}

// AggregateReport loads the elements for c and sums hours and turnover.
func (s *ReportService) AggregateReport(ctx context.Context, c domain.Criteria) (domain.AggregateReport, error) {
	if err := c.Range.Validate(); err != nil {
		return domain.AggregateReport{}, fmt.Errorf("%w: %v", domain.ErrInvalidCriteria, err)
	}

	elements, err := s.store.CumulatedHoursPerAssignment(ctx, c)
	if err != nil {
		return domain.AggregateReport{}, err
	}
	if elements == nil {
		elements = []domain.AggregateElement{}
	}

	report := domain.AggregateReport{Criteria: c, Elements: elements}
	for _, e := range elements {
		report.TotalHours += e.Hours
		report.TotalTurnover += e.Turnover
	}
	if !s.showTurnover {
		report.TotalTurnover = 0
		for i := range report.Elements {
			report.Elements[i].Turnover = 0
			report.Elements[i].HourlyRate = nil
		}
	}
	return report, nil
}

// ExportAggregate writes the aggregate report for c as xlsx to out and
// returns the suggested file name.
func (s *ReportService) ExportAggregate(ctx context.Context, c domain.Criteria, out io.Writer) (string, error) {
	report, err := s.AggregateReport(ctx, c)
	if err != nil {
		return "", err
	}

	w, err := export.AggregateWorkbook("aggregate", report, s.showTurnover)
	if err != nil {
		return "", err
	}
	defer w.Close()

	if err := w.Write(out); err != nil {
		return "", err
	}

	s.logger.Info("aggregate report exported", "elements", len(report.Elements), "total_hours", report.TotalHours)
	return export.Filename("aggregate", c.Range), nil
}

func (s *ReportService) ShowTurnover() bool {
	return s.showTurnover
}
