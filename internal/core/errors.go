package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownDataset is returned when a dataset key is not registered.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrSheetNotFound is returned when a workbook has no sheet at the
	// requested index.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrNoSource is returned when no spreadsheet source is configured.
	ErrNoSource = errors.New("no spreadsheet source configured")
)

// SchemaError reports a validated table that does not match the columns a
// dataset loads.
type SchemaError struct {
	Dataset  string
	Missing  []string
	Mistyped []string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing expected columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Mistyped) > 0 {
		parts = append(parts, "mistyped columns: "+strings.Join(e.Mistyped, ", "))
	}
	return fmt.Sprintf("schema mismatch for %s: %s", e.Dataset, strings.Join(parts, "; "))
}
