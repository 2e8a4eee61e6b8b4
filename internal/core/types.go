package core

import "time"

// FieldType represents the type a dataset column carries after cleaning.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldNumeric
)

// String returns the lowercase name of the field type.
func (f FieldType) String() string {
	switch f {
	case FieldText:
		return "text"
	case FieldDate:
		return "date"
	case FieldNumeric:
		return "numeric"
	default:
		return "value"
	}
}

// FieldSpec describes one column a dataset delivers to the loader. Every
// field must be present before a table is loaded.
type FieldSpec struct {
	Name     string    // Column name in the validated table
	DBColumn string    // Database column name (defaults to Name)
	Type     FieldType // Type the cleaners produce for this column
}

// Column returns the database column name for the field.
func (f FieldSpec) Column() string {
	if f.DBColumn != "" {
		return f.DBColumn
	}
	return f.Name
}

// DatasetInfo contains display and routing information about a dataset.
type DatasetInfo struct {
	Key         string // Unique identifier: "daily_record"
	Label       string // Display name: "Daily Record"
	SheetIndex  int    // Zero-based worksheet index in the farm workbook
	TargetTable string // Destination database table
	Order       int    // Position in a full run
}

// DatasetDefinition configures the generic transformer for one dataset.
type DatasetDefinition struct {
	Info DatasetInfo

	// Keywords is the header vocabulary used to locate the header row.
	Keywords []string
	// ScanLimit overrides the number of leading rows scanned for a header.
	ScanLimit int
	// Mapping renames canonical headers to the dataset vocabulary.
	Mapping ColumnMapping

	DateColumns       []string
	NumericColumns    []string
	TemperatureColumn string
	StringColumns     []string

	// Completeness overrides the row quality threshold when non-zero.
	Completeness float64

	// FieldSpecs lists the expected final columns, in load order.
	FieldSpecs []FieldSpec
}

// ExpectedColumns returns the validated column names the loader requires.
func (d DatasetDefinition) ExpectedColumns() []string {
	cols := make([]string, len(d.FieldSpecs))
	for i, spec := range d.FieldSpecs {
		cols[i] = spec.Name
	}
	return cols
}

// DBColumns returns the database column names in load order.
func (d DatasetDefinition) DBColumns() []string {
	cols := make([]string, len(d.FieldSpecs))
	for i, spec := range d.FieldSpecs {
		cols[i] = spec.Column()
	}
	return cols
}

// RunStatus indicates how a dataset run finished.
type RunStatus string

const (
	StatusLoaded  RunStatus = "loaded"
	StatusEmpty   RunStatus = "empty"
	StatusDryRun  RunStatus = "dry_run"
	StatusFailed  RunStatus = "failed"
	StatusSkipped RunStatus = "skipped"
)

// DatasetReport summarizes one dataset's pass through the pipeline.
type DatasetReport struct {
	RunID     string          `json:"runId"`
	Dataset   string          `json:"dataset"`
	Status    RunStatus       `json:"status"`
	Extracted int             `json:"extracted"`
	Transform TransformReport `json:"transform"`
	Loaded    int64           `json:"loaded"`
	Profile   []ColumnProfile `json:"profile,omitempty"`
	Preview   [][]string      `json:"preview,omitempty"`
	StartedAt time.Time       `json:"startedAt"`
	Duration  time.Duration   `json:"duration"`
	Error     string          `json:"error,omitempty"`
	ErrorCode string          `json:"errorCode,omitempty"`
}

// Failed reports whether the dataset run ended in an error.
func (r DatasetReport) Failed() bool {
	return r.Status == StatusFailed
}
