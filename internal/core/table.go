package core

// table.go defines the tabular values that flow between pipeline stages.
//
// A RawTable holds tagged cells exactly as the extractor read them. Once the
// header is resolved the data becomes a Table of named columns; cleaners
// replace raw columns with typed pgtype vectors where Valid=false marks a
// missing value. Stages never modify a Table in place: every operation
// returns a new Table that may share untouched column vectors with its input.

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// CellKind tags the value held by a Cell.
type CellKind int

const (
	CellMissing CellKind = iota
	CellText
	CellNumber
)

// Cell is a single spreadsheet value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell returns a text cell. Blank strings become missing cells.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell. NaN becomes a missing cell.
func NumberCell(f float64) Cell {
	if math.IsNaN(f) {
		return Cell{}
	}
	return Cell{Kind: CellNumber, Number: f}
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// String renders the cell as text. Missing cells render as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// RawTable is a grid of cells with no assumed header. Rows may be ragged.
type RawTable [][]Cell

// RawFromStrings builds a RawTable from string rows, tagging blank values as
// missing.
func RawFromStrings(rows [][]string) RawTable {
	raw := make(RawTable, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, v := range row {
			cells[j] = TextCell(v)
		}
		raw[i] = cells
	}
	return raw
}

// Width returns the length of the longest row.
func (r RawTable) Width() int {
	width := 0
	for _, row := range r {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// ColumnType identifies which vector of a Column holds its values.
type ColumnType int

const (
	ColumnRaw ColumnType = iota
	ColumnFloat
	ColumnDate
	ColumnText
)

// String returns the lowercase name of the column type.
func (t ColumnType) String() string {
	switch t {
	case ColumnFloat:
		return "float"
	case ColumnDate:
		return "date"
	case ColumnText:
		return "text"
	default:
		return "raw"
	}
}

// FieldType maps the column type to the field type a loader expects.
// Raw columns are carried as text.
func (t ColumnType) FieldType() FieldType {
	switch t {
	case ColumnFloat:
		return FieldNumeric
	case ColumnDate:
		return FieldDate
	default:
		return FieldText
	}
}

// Column is a named vector of values. Exactly one of Raw, Floats, Dates or
// Texts is populated, selected by Type.
type Column struct {
	Name   string
	Type   ColumnType
	Raw    []Cell
	Floats []pgtype.Float8
	Dates  []pgtype.Timestamp
	Texts  []pgtype.Text
}

// Len returns the number of values in the column.
func (c Column) Len() int {
	switch c.Type {
	case ColumnFloat:
		return len(c.Floats)
	case ColumnDate:
		return len(c.Dates)
	case ColumnText:
		return len(c.Texts)
	default:
		return len(c.Raw)
	}
}

// IsMissing reports whether row i holds no value.
func (c Column) IsMissing(i int) bool {
	switch c.Type {
	case ColumnFloat:
		return !c.Floats[i].Valid
	case ColumnDate:
		return !c.Dates[i].Valid
	case ColumnText:
		return !c.Texts[i].Valid
	default:
		return c.Raw[i].IsMissing()
	}
}

// Cell returns row i as a tagged cell, so a typed column can be cleaned again.
func (c Column) Cell(i int) Cell {
	switch c.Type {
	case ColumnFloat:
		if !c.Floats[i].Valid {
			return Cell{}
		}
		return NumberCell(c.Floats[i].Float64)
	case ColumnDate:
		if !c.Dates[i].Valid {
			return Cell{}
		}
		return TextCell(c.Dates[i].Time.Format(time.DateTime))
	case ColumnText:
		if !c.Texts[i].Valid {
			return Cell{}
		}
		return TextCell(c.Texts[i].String)
	default:
		return c.Raw[i]
	}
}

// Value returns row i as a database value. Raw columns are loaded as text.
// Every returned value implements driver.Valuer.
func (c Column) Value(i int) any {
	switch c.Type {
	case ColumnFloat:
		return c.Floats[i]
	case ColumnDate:
		return c.Dates[i]
	case ColumnText:
		return c.Texts[i]
	default:
		if c.Raw[i].IsMissing() {
			return pgtype.Text{}
		}
		return pgtype.Text{String: c.Raw[i].String(), Valid: true}
	}
}

// Display renders row i for previews and logs.
func (c Column) Display(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	switch c.Type {
	case ColumnFloat:
		return strconv.FormatFloat(c.Floats[i].Float64, 'f', -1, 64)
	case ColumnDate:
		return c.Dates[i].Time.Format(time.DateTime)
	case ColumnText:
		return c.Texts[i].String
	default:
		return c.Raw[i].String()
	}
}

// take returns a column holding only the given rows, in order.
func (c Column) take(rows []int) Column {
	out := Column{Name: c.Name, Type: c.Type}
	switch c.Type {
	case ColumnFloat:
		out.Floats = make([]pgtype.Float8, len(rows))
		for i, r := range rows {
			out.Floats[i] = c.Floats[r]
		}
	case ColumnDate:
		out.Dates = make([]pgtype.Timestamp, len(rows))
		for i, r := range rows {
			out.Dates[i] = c.Dates[r]
		}
	case ColumnText:
		out.Texts = make([]pgtype.Text, len(rows))
		for i, r := range rows {
			out.Texts[i] = c.Texts[r]
		}
	default:
		out.Raw = make([]Cell, len(rows))
		for i, r := range rows {
			out.Raw[i] = c.Raw[r]
		}
	}
	return out
}

// Table is an ordered set of equally long, uniquely named columns.
type Table struct {
	columns []Column
	rows    int
}

// NewTable builds a table from columns. All columns must have the same
// length; rows reports that length.
func NewTable(columns []Column) *Table {
	t := &Table{columns: columns}
	if len(columns) > 0 {
		t.rows = columns[0].Len()
	}
	return t
}

// EmptyTable returns a table with no columns and no rows.
func EmptyTable() *Table {
	return &Table{}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return t.rows
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Columns returns a copy of the column list.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// ColumnNames returns the column names in positional order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	if i := t.Index(name); i >= 0 {
		return t.columns[i], true
	}
	return Column{}, false
}

// Row renders row i for display.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Display(i)
	}
	return row
}

// Head renders up to n rows for display.
func (t *Table) Head(n int) [][]string {
	n = min(n, t.rows)
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// NonMissing counts the present values in row i.
func (t *Table) NonMissing(i int) int {
	n := 0
	for _, c := range t.columns {
		if !c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Raw renders the table back into a RawTable whose first row holds the
// column names.
func (t *Table) Raw() RawTable {
	if len(t.columns) == 0 {
		return RawTable{}
	}
	raw := make(RawTable, 0, t.rows+1)
	header := make([]Cell, len(t.columns))
	for j, c := range t.columns {
		header[j] = TextCell(c.Name)
	}
	raw = append(raw, header)
	for i := 0; i < t.rows; i++ {
		row := make([]Cell, len(t.columns))
		for j, c := range t.columns {
			row[j] = c.Cell(i)
		}
		raw = append(raw, row)
	}
	return raw
}

// replace returns a new table with the column at position i swapped out.
func (t *Table) replace(i int, c Column) *Table {
	cols := t.Columns()
	cols[i] = c
	return &Table{columns: cols, rows: t.rows}
}

// take returns a new table holding only the given rows.
func (t *Table) take(rows []int) *Table {
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.take(rows)
	}
	return &Table{columns: cols, rows: len(rows)}
}
