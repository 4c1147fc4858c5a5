// Package export renders reports as xlsx spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/Gorgija/ehour/internal/daterange"
)

// ContentType is the MIME type of the produced files.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	fontFamily   = "Arial"
	dateFormat   = "dd-mm-yyyy"
	currencyFmt  = "#,##0.00"
	digitsNumFmt = 2 // 0.00
)

// CellStyle selects one of the workbook's predefined styles.
type CellStyle int

const (
	StyleDefault CellStyle = iota
	StyleBold
	StyleHeader
	StyleDigit
	StyleCurrency
	StyleDate
	StyleDateBold
)

// Column describes one data column. Hidden columns are written but not shown.
type Column struct {
	Title  string
	Width  float64
	Style  CellStyle
	Hidden bool
}

// Workbook writes a single-sheet report: a title block followed by a header
// row and data rows.
type Workbook struct {
	f      *excelize.File
	sheet  string
	styles map[CellStyle]int
	cols   []Column
	row    int
}

// NewWorkbook creates a new Workbook with one sheet named sheet.
func NewWorkbook(sheet string) (*Workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	w := &Workbook{f: f, sheet: sheet, row: 1}
	if err := w.initStyles(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

func (w *Workbook) initStyles() error {
	normal := &excelize.Font{Family: fontFamily, Size: 10}
	bold := &excelize.Font{Family: fontFamily, Size: 10, Bold: true}
	date := dateFormat
	currency := currencyFmt
	thin := []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}}

	defs := map[CellStyle]*excelize.Style{
		StyleDefault:  {Font: normal},
		StyleBold:     {Font: bold},
		StyleHeader:   {Font: bold, Border: thin, Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}}},
		StyleDigit:    {Font: normal, NumFmt: digitsNumFmt},
		StyleCurrency: {Font: normal, CustomNumFmt: &currency},
		StyleDate:     {Font: normal, CustomNumFmt: &date},
		StyleDateBold: {Font: bold, CustomNumFmt: &date},
	}

	w.styles = make(map[CellStyle]int, len(defs))
	for key, def := range defs {
		id, err := w.f.NewStyle(def)
		if err != nil {
			return fmt.Errorf("create cell style: %w", err)
		}
		w.styles[key] = id
	}
	return nil
}

// Title writes the report name and the range bounds, then leaves one blank
// row before the data.
func (w *Workbook) Title(title string, r daterange.Range) error {
	if err := w.set(1, w.row, title, StyleBold); err != nil {
		return err
	}
	if err := w.f.MergeCell(w.sheet, cell(1, w.row), cell(2, w.row)); err != nil {
		return err
	}
	w.row++

	if err := w.set(1, w.row, "Start date:", StyleBold); err != nil {
		return err
	}
	if err := w.setBound(2, r.Start); err != nil {
		return err
	}
	if err := w.set(4, w.row, "End date:", StyleBold); err != nil {
		return err
	}
	if err := w.setBound(5, r.End); err != nil {
		return err
	}
	w.row += 2
	return nil
}

func (w *Workbook) setBound(col int, t *time.Time) error {
	if t == nil {
		return w.set(col, w.row, "open", StyleBold)
	}
	return w.set(col, w.row, *t, StyleDateBold)
}

// Header fixes the data columns and writes their titles.
func (w *Workbook) Header(cols []Column) error {
	w.cols = cols
	for i, c := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if c.Width > 0 {
			if err := w.f.SetColWidth(w.sheet, name, name, c.Width); err != nil {
				return err
			}
		}
		if c.Hidden {
			if err := w.f.SetColVisible(w.sheet, name, false); err != nil {
				return err
			}
		}
		if err := w.set(i+1, w.row, c.Title, StyleHeader); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

// AddRow writes one data row styled per column.
func (w *Workbook) AddRow(values ...any) error {
	for i, v := range values {
		style := StyleDefault
		if i < len(w.cols) {
			style = w.cols[i].Style
		}
		if err := w.set(i+1, w.row, v, style); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

// AddTotalRow writes a bold label followed by values in the given columns.
func (w *Workbook) AddTotalRow(label string, values map[int]float64) error {
	if err := w.set(1, w.row, label, StyleBold); err != nil {
		return err
	}
	for col, v := range values {
		style := StyleDigit
		if col-1 < len(w.cols) && w.cols[col-1].Style == StyleCurrency {
			style = StyleCurrency
		}
		if err := w.set(col, w.row, v, style); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

// Write streams the xlsx document to out.
func (w *Workbook) Write(out io.Writer) error {
	if err := w.f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// File exposes the underlying document for inspection.
func (w *Workbook) File() *excelize.File {
	return w.f
}

func (w *Workbook) Sheet() string {
	return w.sheet
}

func (w *Workbook) set(col, row int, v any, style CellStyle) error {
	ref := cell(col, row)
	if err := w.f.SetCellValue(w.sheet, ref, v); err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, ref, ref, w.styles[style])
}

func cell(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

// Filename renders "<name>_yyyyMMdd-yyyyMMdd.xlsx"; open bounds render as
// "open".
func Filename(name string, r daterange.Range) string {
	return fmt.Sprintf("%s_%s-%s.xlsx", safeName(name), fileDate(r.Start), fileDate(r.End))
}

func fileDate(t *time.Time) string {
	if t == nil {
		return "open"
	}
	return t.Format("20060102")
}

func safeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "report"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
}
