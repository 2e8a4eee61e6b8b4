package load

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

// Dialect selects column types for generated DDL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectFor maps a DB_DRIVER value to its DDL dialect.
func DialectFor(driver string) Dialect {
	if strings.EqualFold(driver, "sqlite") {
		return DialectSQLite
	}
	return DialectPostgres
}

// CreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for the
// dataset's target table: a surrogate key, one column per FieldSpec and a
// load timestamp.
func CreateTableSQL(def core.DatasetDefinition, dialect Dialect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", pgx.Identifier{def.Info.TargetTable}.Sanitize())

	if dialect == DialectSQLite {
		b.WriteString("\tid INTEGER PRIMARY KEY AUTOINCREMENT")
	} else {
		b.WriteString("\tid BIGSERIAL PRIMARY KEY")
	}
	for _, spec := range def.FieldSpecs {
		fmt.Fprintf(&b, ",\n\t%s %s", pgx.Identifier{spec.Column()}.Sanitize(), columnType(spec.Type, dialect))
	}
	if dialect == DialectSQLite {
		b.WriteString(",\n\tloaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP")
	} else {
		b.WriteString(",\n\tloaded_at TIMESTAMPTZ NOT NULL DEFAULT now()")
	}
	b.WriteString("\n)")
	return b.String()
}

func columnType(t core.FieldType, dialect Dialect) string {
	switch t {
	case core.FieldNumeric:
		if dialect == DialectSQLite {
			return "REAL"
		}
		return "DOUBLE PRECISION"
	case core.FieldDate:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
