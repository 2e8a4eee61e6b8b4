package load

import (
	"context"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/logging"
)

// DryRun validates tables and logs what would be written.
type DryRun struct {
	dialect Dialect
}

// NewDryRun returns a loader that never connects to a database.
func NewDryRun(dialect Dialect) *DryRun {
	return &DryRun{dialect: dialect}
}

// Load checks the table and returns the number of rows that would be
// inserted.
func (d *DryRun) Load(ctx context.Context, def core.DatasetDefinition, table *core.Table) (int64, error) {
	rows, err := prepare(def, table)
	if err != nil {
		return 0, err
	}

	log := logging.WithFields(ctx, "table", def.Info.TargetTable)
	log.Info("dry run: rows not written",
		"rows", len(rows),
		"columns", def.DBColumns(),
	)
	if len(rows) > 0 {
		log.Debug("dry run: first row", "values", table.Row(0))
	}
	return int64(len(rows)), nil
}

// Migrate logs the DDL it would execute.
func (d *DryRun) Migrate(ctx context.Context, defs []core.DatasetDefinition) error {
	for _, def := range defs {
		logging.FromContext(ctx).Info("dry run: table not created", "sql", CreateTableSQL(def, d.dialect))
	}
	return nil
}

func (d *DryRun) Close() error { return nil }
