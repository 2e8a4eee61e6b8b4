package load

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/config"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	_ "github.com/nosagieenabulele/aquaculture-data-engineering/internal/core/datasets"
)

func pondLog() core.DatasetDefinition {
	return core.DatasetDefinition{
		Info:           core.DatasetInfo{Key: "pond_log", TargetTable: "pond_log"},
		Keywords:       []string{"date", "pond", "feed"},
		DateColumns:    []string{"date"},
		NumericColumns: []string{"feed"},
		StringColumns:  []string{"pond"},
		FieldSpecs: []core.FieldSpec{
			{Name: "date", DBColumn: "record_date", Type: core.FieldDate},
			{Name: "pond", DBColumn: "pond_id", Type: core.FieldText},
			{Name: "feed", DBColumn: "feed_eaten", Type: core.FieldNumeric},
		},
	}
}

func pondTable(t *testing.T, rows ...[]string) *core.Table {
	t.Helper()
	raw := core.RawFromStrings(append([][]string{{"Date", "Pond", "Feed"}}, rows...))
	return core.NewTransformer(pondLog()).Transform(raw).Table
}

func openSQLite(t *testing.T, batchSize int) *SQL {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fish.db")
	s, err := OpenSQL(context.Background(), "sqlite", path, batchSize)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// ----------------------------------------------------------------------------
// SQL loader
// ----------------------------------------------------------------------------

func TestSQL_LoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, 2)
	def := pondLog()
	require.NoError(t, s.Migrate(ctx, []core.DatasetDefinition{def}))

	table := pondTable(t,
		[]string{"05/01/2024", "P1", "1,200"},
		[]string{"06/01/2024", "P2", ""},
		[]string{"07/01/2024", "P3", "900g"},
	)

	n, err := s.Load(ctx, def, table)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	var count int
	require.NoError(t, s.DB().GetContext(ctx, &count, `SELECT COUNT(*) FROM pond_log`))
	assert.Equal(t, 3, count)

	var got []struct {
		Day  string   `db:"day"`
		Pond string   `db:"pond_id"`
		Feed *float64 `db:"feed_eaten"`
	}
	require.NoError(t, s.DB().SelectContext(ctx, &got,
		`SELECT substr(record_date, 1, 10) AS day, pond_id, feed_eaten FROM pond_log ORDER BY id`))
	require.Len(t, got, 3)

	assert.Equal(t, "2024-01-05", got[0].Day)
	assert.Equal(t, "p1", got[0].Pond)
	require.NotNil(t, got[0].Feed)
	assert.Equal(t, 1200.0, *got[0].Feed)
	assert.Nil(t, got[1].Feed, "blank feed should load as NULL")
	require.NotNil(t, got[2].Feed)
	assert.Equal(t, 900.0, *got[2].Feed)
}

func TestSQL_SchemaMismatchRefusesLoad(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, 0)
	def := pondLog()
	require.NoError(t, s.Migrate(ctx, []core.DatasetDefinition{def}))

	raw := core.RawFromStrings([][]string{{"Date", "Pond"}, {"05/01/2024", "P1"}})
	table := core.NewTransformer(def).Transform(raw).Table

	_, err := s.Load(ctx, def, table)

	var serr *core.SchemaError
	require.True(t, errors.As(err, &serr), "want *SchemaError, got %v", err)
	assert.Equal(t, []string{"feed"}, serr.Missing)

	var count int
	require.NoError(t, s.DB().GetContext(ctx, &count, `SELECT COUNT(*) FROM pond_log`))
	assert.Zero(t, count)
}

func TestSQL_FailedBatchRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, 1)
	def := pondLog()
	// No migration: the first insert fails and nothing may remain.
	_, err := s.Load(ctx, def, pondTable(t, []string{"05/01/2024", "P1", "1"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert batch")
	assert.Equal(t, "DB002", core.MapError(err).Code)
}

func TestSQL_EmptyTable(t *testing.T) {
	s := openSQLite(t, 0)

	n, err := s.Load(context.Background(), pondLog(), pondTable(t))

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQL_MigrateRegisteredDatasets(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, 0)

	require.NoError(t, s.Migrate(ctx, core.All()))
	// Idempotent.
	require.NoError(t, s.Migrate(ctx, core.All()))

	for _, def := range core.All() {
		var cols []string
		require.NoError(t, s.DB().SelectContext(ctx, &cols,
			`SELECT name FROM pragma_table_info(?)`, def.Info.TargetTable))
		for _, want := range def.DBColumns() {
			assert.Contains(t, cols, want, "table %s", def.Info.TargetTable)
		}
	}
}

// ----------------------------------------------------------------------------
// DryRun, DDL, helpers
// ----------------------------------------------------------------------------

func TestDryRun_CountsWithoutWriting(t *testing.T) {
	d := NewDryRun(DialectPostgres)

	n, err := d.Load(context.Background(), pondLog(), pondTable(t,
		[]string{"05/01/2024", "P1", "1"},
		[]string{"06/01/2024", "P1", "2"},
	))

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, d.Migrate(context.Background(), core.All()))
}

func TestOpen_DryRunSkipsConnection(t *testing.T) {
	l, err := Open(context.Background(),
		config.DatabaseConfig{Driver: "postgres", URL: "postgres://unreachable:1/db"},
		config.PipelineConfig{DryRun: true},
	)

	require.NoError(t, err)
	assert.IsType(t, &DryRun{}, l)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}, config.PipelineConfig{})

	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestCreateTableSQL(t *testing.T) {
	def := pondLog()

	pg := CreateTableSQL(def, DialectPostgres)
	assert.Contains(t, pg, `CREATE TABLE IF NOT EXISTS "pond_log"`)
	assert.Contains(t, pg, `"record_date" TIMESTAMP`)
	assert.Contains(t, pg, `"feed_eaten" DOUBLE PRECISION`)
	assert.Contains(t, pg, "BIGSERIAL")

	lite := CreateTableSQL(def, DialectSQLite)
	assert.Contains(t, lite, `"feed_eaten" REAL`)
	assert.Contains(t, lite, `"pond_id" TEXT`)
	assert.Contains(t, lite, "AUTOINCREMENT")
}

func TestInsertSQL(t *testing.T) {
	got := insertSQL("expenses", []string{"purchase_date", "cost"})

	assert.Equal(t, `INSERT INTO "expenses" ("purchase_date", "cost") VALUES (:purchase_date, :cost)`, got)
}

func TestChunks(t *testing.T) {
	rows := make([][]any, 5)

	got := chunks(rows, 2)

	require.Len(t, got, 3)
	assert.Len(t, got[2], 1)
	assert.Len(t, chunks(nil, 2), 0)
	assert.Len(t, chunks(rows, 0), 1)
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, DialectSQLite, DialectFor("SQLite"))
	assert.Equal(t, DialectPostgres, DialectFor("postgres"))
	assert.True(t, strings.HasPrefix(string(DialectFor("")), "post"))
}
