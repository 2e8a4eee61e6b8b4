package extract

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

// dateLayout renders date-formatted cells so the day-first parser reads
// them back unambiguously.
const dateLayout = "2006-01-02 15:04:05"

// Workbook extracts worksheets from an open .xlsx file.
type Workbook struct {
	name string
	file *excelize.File

	mu         sync.Mutex
	dateStyles map[int]bool
}

// OpenWorkbook opens the .xlsx file at path.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return newWorkbook(path, f), nil
}

// ReadWorkbook reads an .xlsx document from r. name is used in errors.
func ReadWorkbook(r io.Reader, name string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	return newWorkbook(name, f), nil
}

func newWorkbook(name string, f *excelize.File) *Workbook {
	return &Workbook{name: name, file: f, dateStyles: make(map[int]bool)}
}

// Sheets lists worksheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// Extract reads the worksheet at info.SheetIndex. Numeric cells become
// number cells, date-formatted cells become ISO date text and everything
// else is kept as text.
func (w *Workbook) Extract(ctx context.Context, info core.DatasetInfo) (core.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	sheets := w.file.GetSheetList()
	if info.SheetIndex < 0 || info.SheetIndex >= len(sheets) {
		return nil, fmt.Errorf("%w: %s has %d sheets, %s reads index %d",
			core.ErrSheetNotFound, w.name, len(sheets), info.Key, info.SheetIndex)
	}
	sheet := sheets[info.SheetIndex]

	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	raw := make(core.RawTable, len(rows))
	for r, row := range rows {
		cells := make([]core.Cell, len(row))
		for c, value := range row {
			cells[c] = w.cell(sheet, c+1, r+1, value)
		}
		raw[r] = cells
	}
	return raw, nil
}

// cell types one value. col and row are 1-based.
func (w *Workbook) cell(sheet string, col, row int, value string) core.Cell {
	if strings.TrimSpace(value) == "" {
		return core.Cell{}
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return core.TextCell(value)
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return core.TextCell(value)
	}
	typ, err := w.file.GetCellType(sheet, axis)
	if err != nil {
		return core.TextCell(value)
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
	default:
		// Numbers typed into text cells stay text.
		return core.TextCell(value)
	}

	if w.isDate(sheet, axis) {
		if t, err := excelize.ExcelDateToTime(n, false); err == nil {
			return core.TextCell(t.Format(dateLayout))
		}
	}
	return core.NumberCell(n)
}

func (w *Workbook) isDate(sheet, axis string) bool {
	idx, err := w.file.GetCellStyle(sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := w.dateStyles[idx]; ok {
		return v
	}
	style, err := w.file.GetStyle(idx)
	v := err == nil && isDateFormat(style)
	w.dateStyles[idx] = v
	return v
}

// isDateFormat reports whether a style renders its number as a date.
// Built-in formats 14-22 and 45-47 are dates and times.
func isDateFormat(s *excelize.Style) bool {
	if s == nil {
		return false
	}
	if s.CustomNumFmt != nil {
		return isDateCode(*s.CustomNumFmt)
	}
	return (s.NumFmt >= 14 && s.NumFmt <= 22) || (s.NumFmt >= 45 && s.NumFmt <= 47)
}

// isDateCode reports whether a custom number format code contains date or
// time tokens. Bracketed sections ([Red], [$USD], [$-409]), quoted literals,
// escaped characters and the _x/*x padding pairs are ignored.
func isDateCode(code string) bool {
	var b strings.Builder
	runes := []rune(strings.ToLower(code))
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '[':
			for i < len(runes) && runes[i] != ']' {
				i++
			}
		case '"':
			i++
			for i < len(runes) && runes[i] != '"' {
				i++
			}
		case '\\', '_', '*':
			i++
		default:
			b.WriteRune(r)
		}
	}
	return strings.ContainsAny(b.String(), "dyh")
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}
