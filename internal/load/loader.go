// Package load writes validated dataset tables into a database.
//
// Every loader checks the table against the dataset's expected columns
// before touching the database and inserts the whole table in a single
// transaction: a dataset is either fully loaded or not loaded at all.
package load

import (
	"context"
	"fmt"
	"strings"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/config"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

// DefaultBatchSize is the number of rows sent per insert batch.
const DefaultBatchSize = 5000

// Loader inserts a validated table into the dataset's target table and
// returns the number of rows written.
type Loader interface {
	Load(ctx context.Context, def core.DatasetDefinition, table *core.Table) (int64, error)
	Migrate(ctx context.Context, defs []core.DatasetDefinition) error
	Close() error
}

// Open connects the loader selected by the configuration. A dry run never
// connects.
func Open(ctx context.Context, db config.DatabaseConfig, pipeline config.PipelineConfig) (Loader, error) {
	if pipeline.DryRun {
		return NewDryRun(DialectFor(db.Driver)), nil
	}

	switch strings.ToLower(db.Driver) {
	case "sqlite":
		return OpenSQL(ctx, "sqlite", db.URL, pipeline.BatchSize)
	case "postgres", "":
		return ConnectPostgres(ctx, db, pipeline.BatchSize)
	}
	return nil, fmt.Errorf("unsupported database driver %q", db.Driver)
}

// prepare validates the table and projects it onto the loaded columns.
func prepare(def core.DatasetDefinition, table *core.Table) ([][]any, error) {
	if err := core.ValidateSchema(def, table); err != nil {
		return nil, err
	}
	return core.Rows(def, table), nil
}

// chunks splits rows into batches of at most size rows.
func chunks(rows [][]any, size int) [][][]any {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][][]any
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		out = append(out, rows[start:end])
	}
	return out
}
