package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Gorgija/ehour/internal/daterange"
	"github.com/Gorgija/ehour/internal/reports/domain"
)

func TestFilename(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		title string
		r     daterange.Range
		want  string
	}{
		{"closed range", "aggregate", daterange.Between(start, end), "aggregate_20240301-20240331.xlsx"},
		{"open end", "aggregate", daterange.New(&start, nil), "aggregate_20240301-open.xlsx"},
		{"fully open", "hours", daterange.Range{}, "hours_open-open.xlsx"},
		{"unsafe characters", "my report/v2", daterange.Between(start, end), "my_report_v2_20240301-20240331.xlsx"},
		{"blank name", " ", daterange.Between(start, end), "report_20240301-20240331.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.title, tt.r))
		})
	}
}

func sampleReport() domain.AggregateReport {
	rate := 100.0
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	return domain.AggregateReport{
		Criteria: domain.Criteria{Range: daterange.Between(start, end)},
		Elements: []domain.AggregateElement{
			{AssignmentID: 1, UserFullName: "Lovelace, Ada", ProjectCode: "ENG", ProjectName: "Engine", Role: "dev", HourlyRate: &rate, Hours: 10, Turnover: 1000},
			{AssignmentID: 2, UserFullName: "Hopper, Grace", ProjectCode: "OPS", ProjectName: "Operations", Hours: 2.5},
		},
		TotalHours:    12.5,
		TotalTurnover: 1000,
	}
}

func TestAggregateWorkbook_Layout(t *testing.T) {
	w, err := AggregateWorkbook("aggregate", sampleReport(), true)
	require.NoError(t, err)
	defer w.Close()

	f := w.File()
	get := func(ref string) string {
		v, err := f.GetCellValue(w.Sheet(), ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "aggregate", get("A1"))
	assert.Equal(t, "Start date:", get("A2"))
	assert.Equal(t, "End date:", get("D2"))
	assert.Equal(t, "User", get("A4"))
	assert.Equal(t, "Turnover", get("G4"))
	assert.Equal(t, "Lovelace, Ada", get("A5"))
	assert.Equal(t, "Hopper, Grace", get("A6"))
	assert.Equal(t, "Total", get("A7"))

	visible, err := f.GetColVisible(w.Sheet(), "G")
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestAggregateWorkbook_HidesTurnover(t *testing.T) {
	w, err := AggregateWorkbook("aggregate", sampleReport(), false)
	require.NoError(t, err)
	defer w.Close()

	for _, col := range []string{"E", "G"} {
		visible, err := w.File().GetColVisible(w.Sheet(), col)
		require.NoError(t, err)
		assert.False(t, visible, "column %s", col)
	}
}

func TestWorkbook_WriteProducesReadableFile(t *testing.T) {
	w, err := AggregateWorkbook("aggregate", sampleReport(), true)
	require.NoError(t, err)
	defer w.Close()

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf))
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("aggregate", "B5")
	require.NoError(t, err)
	assert.Equal(t, "ENG", v)
}

func TestSheetNameIsTruncated(t *testing.T) {
	assert.Len(t, []rune(sheetName("a very long report title that exceeds the limit")), 31)
}
