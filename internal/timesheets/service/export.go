package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/Gorgija/ehour/internal/reports/export"
	"github.com/Gorgija/ehour/internal/timesheets/domain"
)

// ExportMonth writes the month overview of userID as xlsx to out and returns
// the suggested file name.
func (s *TimesheetService) ExportMonth(ctx context.Context, userID int64, month time.Time, out io.Writer) (string, error) {
	ov, err := s.MonthOverview(ctx, userID, month)
	if err != nil {
		return "", err
	}

	w, err := export.NewWorkbook("Timesheet " + ov.Month)
	if err != nil {
		return "", err
	}
	defer w.Close()

	if err := fillMonth(w, ov); err != nil {
		return "", err
	}
	if err := w.Write(out); err != nil {
		return "", err
	}

	s.logger.Info("timesheet exported", "user_id", userID, "month", ov.Month, "total_hours", ov.TotalHours)
	return export.Filename(fmt.Sprintf("timesheet_%d", userID), ov.Range), nil
}

type monthRow struct {
	date    time.Time
	project string
	role    string
	hours   float64
	comment string
}

func fillMonth(w *export.Workbook, ov domain.MonthOverview) error {
	title := "Timesheet " + ov.Month
	if len(ov.Assignments) > 0 && ov.Assignments[0].Assignment.UserFullName != "" {
		title += ", " + ov.Assignments[0].Assignment.UserFullName
	}
	if err := w.Title(title, ov.Range); err != nil {
		return err
	}

	err := w.Header([]export.Column{
		{Title: "Date", Width: 12, Style: export.StyleDate},
		{Title: "Project", Width: 24},
		{Title: "Role", Width: 16},
		{Title: "Hours", Width: 10, Style: export.StyleDigit},
		{Title: "Comment", Width: 40},
	})
	if err != nil {
		return err
	}

	var rows []monthRow
	for _, am := range ov.Assignments {
		project := am.Assignment.ProjectCode + " " + am.Assignment.ProjectName
		for _, e := range am.Entries {
			rows = append(rows, monthRow{date: e.Date, project: project, role: am.Assignment.Role, hours: e.Hours, comment: e.Comment})
		}
	}
	slices.SortStableFunc(rows, func(a, b monthRow) int { return a.date.Compare(b.date) })

	for _, r := range rows {
		if err := w.AddRow(r.date, r.project, r.role, r.hours, r.comment); err != nil {
			return err
		}
	}
	return w.AddTotalRow("Total", map[int]float64{4: ov.TotalHours})
}
