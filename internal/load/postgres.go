package load

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/config"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/logging"
)

// pgxConn is the part of *pgxpool.Pool the loader uses.
type pgxConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres loads tables with COPY inside one transaction per dataset.
type Postgres struct {
	conn      pgxConn
	pool      *pgxpool.Pool
	batchSize int
}

// ConnectPostgres opens and pings a connection pool.
func ConnectPostgres(ctx context.Context, cfg config.DatabaseConfig, batchSize int) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := NewPostgres(pool, batchSize)
	p.pool = pool
	return p, nil
}

// NewPostgres wraps an existing pool or connection.
func NewPostgres(conn pgxConn, batchSize int) *Postgres {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Postgres{conn: conn, batchSize: batchSize}
}

// Load copies the table into def.Info.TargetTable in batches of batchSize,
// committing once at the end.
func (p *Postgres) Load(ctx context.Context, def core.DatasetDefinition, table *core.Table) (int64, error) {
	rows, err := prepare(def, table)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	log := logging.WithFields(ctx, "table", def.Info.TargetTable)

	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ident := pgx.Identifier{def.Info.TargetTable}
	columns := def.DBColumns()

	var copied int64
	for _, batch := range chunks(rows, p.batchSize) {
		n, err := tx.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(batch))
		if err != nil {
			return 0, fmt.Errorf("copy into %s: %w", def.Info.TargetTable, err)
		}
		copied += n
		log.Debug("batch copied", "rows", n, "total", copied)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit %s: %w", def.Info.TargetTable, err)
	}
	return copied, nil
}

// Migrate creates missing target tables.
func (p *Postgres) Migrate(ctx context.Context, defs []core.DatasetDefinition) error {
	for _, def := range defs {
		if _, err := p.conn.Exec(ctx, CreateTableSQL(def, DialectPostgres)); err != nil {
			return fmt.Errorf("create table %s: %w", def.Info.TargetTable, err)
		}
	}
	return nil
}

// Close closes the pool when the loader opened it.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
