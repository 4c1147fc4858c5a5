package export

import (
	"github.com/Gorgija/ehour/internal/reports/domain"
)

const (
	wideColumn   = 19.5
	narrowColumn = 11.7
)

// AggregateWorkbook lays out an aggregate report, one row per assignment and
// a totals row. Rate and turnover stay hidden unless showTurnover is set.
func AggregateWorkbook(title string, report domain.AggregateReport, showTurnover bool) (*Workbook, error) {
	w, err := NewWorkbook(sheetName(title))
	if err != nil {
		return nil, err
	}

	if err := fillAggregate(w, title, report, showTurnover); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func fillAggregate(w *Workbook, title string, report domain.AggregateReport, showTurnover bool) error {
	if err := w.Title(title, report.Criteria.Range); err != nil {
		return err
	}

	err := w.Header([]Column{
		{Title: "User", Width: wideColumn},
		{Title: "Project code", Width: wideColumn},
		{Title: "Project", Width: wideColumn},
		{Title: "Role", Width: wideColumn},
		{Title: "Rate", Width: narrowColumn, Style: StyleCurrency, Hidden: !showTurnover},
		{Title: "Hours", Width: narrowColumn, Style: StyleDigit},
		{Title: "Turnover", Width: narrowColumn, Style: StyleCurrency, Hidden: !showTurnover},
	})
	if err != nil {
		return err
	}

	for _, e := range report.Elements {
		var rate any = ""
		if e.HourlyRate != nil {
			rate = *e.HourlyRate
		}
		if err := w.AddRow(e.UserFullName, e.ProjectCode, e.ProjectName, e.Role, rate, e.Hours, e.Turnover); err != nil {
			return err
		}
	}

	return w.AddTotalRow("Total", map[int]float64{6: report.TotalHours, 7: report.TotalTurnover})
}

// sheetName trims title to the 31 characters a sheet name may hold.
func sheetName(title string) string {
	name := safeName(title)
	if r := []rune(name); len(r) > 31 {
		return string(r[:31])
	}
	return name
}
