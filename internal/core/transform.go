package core

// TransformReport collects the per-stage reports of one transformation.
type TransformReport struct {
	Dataset         string       `json:"dataset"`
	InputRows       int          `json:"inputRows"`
	Header          HeaderReport `json:"header"`
	Mapping         MapReport    `json:"mapping"`
	Filter          FilterReport `json:"filter"`
	OutputRows      int          `json:"outputRows"`
	Columns         []string     `json:"columns"`
	MissingExpected []string     `json:"missingExpected,omitempty"`
}

// Result is the output of a transformation. Empty is set when the input held
// no rows at all; Table is then an empty table.
type Result struct {
	Table  *Table
	Empty  bool
	Report TransformReport
}

// TransformOption configures a Transformer.
type TransformOption func(*Transformer)

// WithScanLimit sets the header scan limit when the dataset does not.
func WithScanLimit(n int) TransformOption {
	return func(t *Transformer) {
		if n > 0 {
			t.scanLimit = n
		}
	}
}

// WithCompleteness sets the row quality threshold when the dataset does not.
func WithCompleteness(threshold float64) TransformOption {
	return func(t *Transformer) {
		if threshold > 0 {
			t.completeness = threshold
		}
	}
}

// Transformer runs one dataset definition over raw tables. It is safe for
// concurrent use; each call works on its own copies.
type Transformer struct {
	def          DatasetDefinition
	resolver     *HeaderResolver
	scanLimit    int
	completeness float64
}

// NewTransformer creates a transformer for the dataset. Settings on the
// definition take precedence over options.
func NewTransformer(def DatasetDefinition, opts ...TransformOption) *Transformer {
	t := &Transformer{
		def:          def,
		scanLimit:    DefaultScanLimit,
		completeness: DefaultCompleteness,
	}
	for _, opt := range opts {
		opt(t)
	}
	if def.ScanLimit > 0 {
		t.scanLimit = def.ScanLimit
	}
	if def.Completeness > 0 {
		t.completeness = def.Completeness
	}
	t.resolver = NewHeaderResolver(t.scanLimit, def.Keywords)
	return t
}

// Completeness returns the effective row quality threshold.
func (t *Transformer) Completeness() float64 {
	return t.completeness
}

// Transform resolves the header of a raw table and runs the dataset stages:
// map columns, dates, numerics, temperature, strings, row filter.
func (t *Transformer) Transform(raw RawTable) Result {
	report := TransformReport{Dataset: t.def.Info.Key, InputRows: len(raw)}
	if len(raw) == 0 {
		report.Header.HeaderIndex = -1
		return Result{Table: EmptyTable(), Empty: true, Report: report}
	}

	table, hdr := t.resolver.Resolve(raw)
	report.Header = hdr
	return t.finish(table, report)
}

// TransformTable runs the dataset stages on a table whose header has already
// been resolved.
func (t *Transformer) TransformTable(table *Table) Result {
	report := TransformReport{
		Dataset:   t.def.Info.Key,
		InputRows: table.NumRows(),
		Header: HeaderReport{
			HeaderIndex: -1,
			Columns:     table.NumColumns(),
			DataRows:    table.NumRows(),
		},
	}
	return t.finish(table, report)
}

func (t *Transformer) finish(table *Table, report TransformReport) Result {
	table, report.Mapping = MapColumns(table, t.def.Mapping)

	table = CleanDates(table, t.def.DateColumns...)
	table = CleanNumeric(table, t.def.NumericColumns...)
	if t.def.TemperatureColumn != "" {
		table = CleanTemperature(table, t.def.TemperatureColumn)
	}
	table = CleanStrings(table, t.def.StringColumns...)

	table, report.Filter = FilterIncomplete(table, t.completeness)

	report.OutputRows = table.NumRows()
	report.Columns = table.ColumnNames()
	for _, name := range t.def.ExpectedColumns() {
		if table.Index(name) < 0 {
			report.MissingExpected = append(report.MissingExpected, name)
		}
	}

	return Result{Table: table, Report: report}
}
