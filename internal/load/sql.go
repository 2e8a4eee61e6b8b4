package load

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/logging"
)

// maxBindVars keeps a batch under SQLite's host parameter limit.
const maxBindVars = 32000

// SQL loads tables through database/sql with multi-row named inserts.
type SQL struct {
	db        *sqlx.DB
	dialect   Dialect
	batchSize int
}

// OpenSQL connects to driverName at dsn. Only "sqlite" is registered.
func OpenSQL(ctx context.Context, driverName, dsn string, batchSize int) (*SQL, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return NewSQL(db, batchSize), nil
}

// NewSQL wraps an open database handle.
func NewSQL(db *sqlx.DB, batchSize int) *SQL {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SQL{db: db, dialect: DialectFor(db.DriverName()), batchSize: batchSize}
}

// DB exposes the underlying handle.
func (s *SQL) DB() *sqlx.DB { return s.db }

// Load inserts the table into def.Info.TargetTable in one transaction.
func (s *SQL) Load(ctx context.Context, def core.DatasetDefinition, table *core.Table) (int64, error) {
	rows, err := prepare(def, table)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	columns := def.DBColumns()
	query := insertSQL(def.Info.TargetTable, columns)
	batchSize := min(s.batchSize, max(1, maxBindVars/len(columns)))
	log := logging.WithFields(ctx, "table", def.Info.TargetTable)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, batch := range chunks(rows, batchSize) {
		args := make([]map[string]any, len(batch))
		for i, row := range batch {
			arg := make(map[string]any, len(columns))
			for j, col := range columns {
				arg[col] = driverValue(row[j])
			}
			args[i] = arg
		}

		res, err := tx.NamedExecContext(ctx, query, args)
		if err != nil {
			return 0, fmt.Errorf("insert batch into %s: %w", def.Info.TargetTable, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			n = int64(len(batch))
		}
		inserted += n
		log.Debug("batch inserted", "rows", n, "total", inserted)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", def.Info.TargetTable, err)
	}
	return inserted, nil
}

// driverValue unwraps pgtype values so any database/sql driver can bind them.
func driverValue(v any) any {
	valuer, ok := v.(driver.Valuer)
	if !ok {
		return v
	}
	dv, err := valuer.Value()
	if err != nil {
		return v
	}
	return dv
}

// insertSQL builds a named INSERT; sqlx expands it for a slice of rows.
func insertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	named := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		named[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{table}.Sanitize(), strings.Join(quoted, ", "), strings.Join(named, ", "))
}

// Migrate creates missing target tables.
func (s *SQL) Migrate(ctx context.Context, defs []core.DatasetDefinition) error {
	for _, def := range defs {
		if _, err := s.db.ExecContext(ctx, CreateTableSQL(def, s.dialect)); err != nil {
			return fmt.Errorf("create table %s: %w", def.Info.TargetTable, err)
		}
	}
	return nil
}

// Close closes the database handle.
func (s *SQL) Close() error {
	return s.db.Close()
}
