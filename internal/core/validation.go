package core

// validation.go checks a validated table against the columns a dataset loads.
//
// Cell-level problems never reach this point: the cleaners turn unreadable
// values into NULLs. What remains is the table shape. Every expected column
// must exist and carry the type its FieldSpec declares, otherwise the loader
// refuses the whole table.

import "fmt"

// ValidateSchema returns a *SchemaError when the table lacks expected columns
// or holds them with the wrong type. Raw columns satisfy text fields.
func ValidateSchema(def DatasetDefinition, t *Table) error {
	serr := &SchemaError{Dataset: def.Info.Key}

	for _, spec := range def.FieldSpecs {
		col, ok := t.Column(spec.Name)
		if !ok {
			serr.Missing = append(serr.Missing, spec.Name)
			continue
		}
		if got := col.Type.FieldType(); got != spec.Type {
			serr.Mistyped = append(serr.Mistyped, fmt.Sprintf("%s (want %s, got %s)", spec.Name, spec.Type, got))
		}
	}

	if len(serr.Missing) > 0 || len(serr.Mistyped) > 0 {
		return serr
	}
	return nil
}

// Rows projects the table onto the dataset's expected columns, returning one
// slice of database values per row in FieldSpec order. The table must pass
// ValidateSchema first.
func Rows(def DatasetDefinition, t *Table) [][]any {
	cols := make([]Column, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		cols[i], _ = t.Column(spec.Name)
	}

	rows := make([][]any, t.NumRows())
	for r := range rows {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = c.Value(r)
		}
		rows[r] = row
	}
	return rows
}
