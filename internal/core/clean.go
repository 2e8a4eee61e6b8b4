package core

// clean.go coerces raw spreadsheet cells into typed pgtype values.
//
// Farm sheets are filled in by hand: numbers carry thousands separators or
// units, temperatures carry a "°C" suffix, dates arrive as Excel serials or
// day-first strings. Every ToPg* function returns Valid=false instead of an
// error when a cell cannot be read, so one bad cell never stops a load.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jackc/pgx/v5/pgtype"
)

// ExcelSerialThreshold is the smallest day count read as an Excel serial date.
// 40000 is 2009-07-06, so smaller numbers are left to the string parsers.
const ExcelSerialThreshold = 40000

// MaxExcelSerial is 9999-12-31, the last day Excel can represent. Larger
// serials are missing.
const MaxExcelSerial = 2958465

// excelEpoch is day zero of the Excel 1900 date system, adjusted for the
// 1900 leap-year bug.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var (
	numberToken      = regexp.MustCompile(`[-+]?\d*\.?\d+`)
	temperatureToken = regexp.MustCompile(`\d+\.?\d*`)
	serialLike       = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts, tried in order. Ambiguous numeric dates resolve day-first;
// the month-first layouts only match what day-first cannot read.
var (
	dayFirstLayouts = []string{
		"2006-01-02", "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05",
		time.RFC3339, "2006/01/02", "2006.01.02",
		"2/1/2006", "2/1/2006 15:04:05", "2/1/2006 15:04",
		"2-1-2006", "2-1-2006 15:04:05", "2.1.2006",
		"2 Jan 2006", "2 January 2006", "2-Jan-2006", "2 Jan, 2006",
		"2 Jan 2006 15:04", "2 Jan 2006 15:04:05", "2 January 2006 15:04",
		"Jan 2, 2006", "January 2, 2006", "Jan 2 2006", "Monday, January 2, 2006",
		"Monday, 2 January 2006", "Monday, 2 Jan 2006", "Mon, 2 Jan 2006",
		"2006/01/02 15:04:05", "2006/01/02 15:04",
		"2/1/2006 3:04:05 PM", "2/1/2006 3:04 PM",
	}
	monthFirstLayouts = []string{
		"1/2/2006", "1/2/2006 15:04:05", "1/2/2006 15:04", "1-2-2006",
	}
	twoDigitYearLayouts = []string{
		"2/1/06", "2-1-06", "2.1.06", "2-Jan-06", "1/2/06",
	}
)

// ToPgFloat extracts the first number from a cell after removing thousands
// separators. Returns invalid when the cell holds no number.
func ToPgFloat(c Cell) pgtype.Float8 {
	switch c.Kind {
	case CellMissing:
		return pgtype.Float8{}
	case CellNumber:
		return pgtype.Float8{Float64: c.Number, Valid: true}
	}

	s := strings.ReplaceAll(c.Text, ",", "")
	m := numberToken.FindString(s)
	if m == "" {
		return pgtype.Float8{}
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ToPgTemperature reads the leading magnitude of a temperature reading such
// as "28.5°C". Signs and unit suffixes are ignored.
func ToPgTemperature(c Cell) pgtype.Float8 {
	m := temperatureToken.FindString(c.String())
	if m == "" {
		return pgtype.Float8{}
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ToPgText trims and lowercases a cell. Empty values and the literal
// placeholders "nan" and "none" are invalid.
func ToPgText(c Cell) pgtype.Text {
	s := strings.ToLower(strings.TrimSpace(c.String()))
	switch s {
	case "", "nan", "none":
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgTimestamp reads a date from a cell. Numbers and numeric strings above
// ExcelSerialThreshold are Excel serial dates (fractions dropped); smaller
// numbers are missing. Other strings are parsed day-first. Unreadable values
// are invalid, never text.
func ToPgTimestamp(c Cell) pgtype.Timestamp {
	switch c.Kind {
	case CellMissing:
		return pgtype.Timestamp{}
	case CellNumber:
		if c.Number > ExcelSerialThreshold && c.Number < MaxExcelSerial+1 {
			return serialDate(int64(c.Number))
		}
		return pgtype.Timestamp{}
	}

	s := strings.TrimSpace(c.String())
	if s == "" {
		return pgtype.Timestamp{}
	}

	if serialLike.MatchString(s) {
		whole, _, _ := strings.Cut(s, ".")
		days, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || days <= ExcelSerialThreshold {
			return pgtype.Timestamp{}
		}
		return serialDate(days)
	}

	if t, ok := parseDate(s); ok {
		return pgtype.Timestamp{Time: t, Valid: true}
	}
	return pgtype.Timestamp{}
}

// serialDate converts an Excel serial day count to a timestamp. Serials
// past MaxExcelSerial are missing.
func serialDate(days int64) pgtype.Timestamp {
	if days > MaxExcelSerial {
		return pgtype.Timestamp{}
	}
	return pgtype.Timestamp{Time: excelEpoch.AddDate(0, 0, int(days)), Valid: true}
}

// parseDate tries the known spreadsheet layouts, day-first before
// month-first, then two-digit years adjusted by TwoDigitYearPivot. Anything
// else goes to dateparse with day-first preference.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range monthFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() > pivotYear {
			t = t.AddDate(-100, 0, 0)
		}
		return t, true
	}

	t, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// CleanNumeric converts the named columns to floats. Absent columns are
// skipped.
func CleanNumeric(t *Table, names ...string) *Table {
	for _, name := range names {
		if i := t.Index(name); i >= 0 {
			t = t.replace(i, cleanColumn(t.columns[i], ToPgFloat))
		}
	}
	return t
}

// CleanTemperature converts the named column to floats using the
// temperature reader. An absent column is skipped.
func CleanTemperature(t *Table, name string) *Table {
	if i := t.Index(name); i >= 0 {
		t = t.replace(i, cleanColumn(t.columns[i], ToPgTemperature))
	}
	return t
}

// CleanStrings converts the named columns to normalized text. Absent
// columns are skipped.
func CleanStrings(t *Table, names ...string) *Table {
	for _, name := range names {
		if i := t.Index(name); i >= 0 {
			t = t.replace(i, textColumn(t.columns[i]))
		}
	}
	return t
}

// CleanDates converts the named columns to timestamps. Absent columns are
// skipped.
func CleanDates(t *Table, names ...string) *Table {
	for _, name := range names {
		if i := t.Index(name); i >= 0 {
			t = t.replace(i, dateColumn(t.columns[i]))
		}
	}
	return t
}

func cleanColumn(c Column, fn func(Cell) pgtype.Float8) Column {
	out := Column{Name: c.Name, Type: ColumnFloat, Floats: make([]pgtype.Float8, c.Len())}
	for i := range out.Floats {
		out.Floats[i] = fn(c.Cell(i))
	}
	return out
}

func dateColumn(c Column) Column {
	if c.Type == ColumnDate {
		return c
	}
	out := Column{Name: c.Name, Type: ColumnDate, Dates: make([]pgtype.Timestamp, c.Len())}
	for i := range out.Dates {
		out.Dates[i] = ToPgTimestamp(c.Cell(i))
	}
	return out
}

func textColumn(c Column) Column {
	out := Column{Name: c.Name, Type: ColumnText, Texts: make([]pgtype.Text, c.Len())}
	for i := range out.Texts {
		out.Texts[i] = ToPgText(c.Cell(i))
	}
	return out
}
