package core

// ColumnMapping renames canonical headers to a dataset's target vocabulary.
// Keys are canonical source names, values are target names.
type ColumnMapping map[string]string

// MapReport records what the column mapper did.
type MapReport struct {
	Renamed   []string `json:"renamed,omitempty"`
	Collapsed []string `json:"collapsed,omitempty"`
	Warning   string   `json:"warning,omitempty"`
}

// MapColumns renames columns in a single pass over the table.
//
// Columns absent from the mapping keep their names. When several columns end
// up with the same target name, the leftmost keeps it and the later ones only
// fill its missing cells before being removed, so names stay unique.
func MapColumns(t *Table, mapping ColumnMapping) (*Table, MapReport) {
	var report MapReport
	if t.NumColumns() == 0 {
		report.Warning = "table has no columns to map"
		return t, report
	}

	out := make([]Column, 0, t.NumColumns())
	pos := make(map[string]int, t.NumColumns())

	for _, c := range t.columns {
		target := c.Name
		if m, ok := mapping[c.Name]; ok && m != "" && m != c.Name {
			target = m
			report.Renamed = append(report.Renamed, c.Name+"->"+m)
		}

		if i, ok := pos[target]; ok {
			out[i] = coalesce(out[i], c)
			report.Collapsed = append(report.Collapsed, c.Name)
			continue
		}

		c.Name = target
		pos[target] = len(out)
		out = append(out, c)
	}

	return &Table{columns: out, rows: t.rows}, report
}

// coalesce fills the missing cells of dst with the values of src.
// Typed columns are compared through their tagged cells.
func coalesce(dst, src Column) Column {
	filled := Column{Name: dst.Name, Type: ColumnRaw, Raw: make([]Cell, dst.Len())}
	for i := range filled.Raw {
		if dst.IsMissing(i) {
			filled.Raw[i] = src.Cell(i)
		} else {
			filled.Raw[i] = dst.Cell(i)
		}
	}
	if dst.Type == ColumnRaw {
		return filled
	}
	return retype(filled, dst.Type)
}

// retype cleans a raw column into the given type.
func retype(c Column, typ ColumnType) Column {
	switch typ {
	case ColumnFloat:
		return cleanColumn(c, ToPgFloat)
	case ColumnDate:
		return dateColumn(c)
	case ColumnText:
		return textColumn(c)
	default:
		return c
	}
}
