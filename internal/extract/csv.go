package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

// CSVDir reads <dataset key>.csv files from a directory, one per worksheet.
type CSVDir struct {
	dir string
}

// NewCSVDir checks that dir exists and is a directory.
func NewCSVDir(dir string) (*CSVDir, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("read csv dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("read csv dir: %s is not a directory", dir)
	}
	return &CSVDir{dir: dir}, nil
}

// Extract reads the dataset's CSV export. Every cell is text.
func (d *CSVDir) Extract(ctx context.Context, info core.DatasetInfo) (core.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(d.dir, info.Key+".csv")
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no %s in %s", core.ErrSheetNotFound, filepath.Base(path), d.dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(cleanReader(f))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return core.RawFromStrings(records), nil
}

// Close is a no-op; files are closed after each Extract.
func (d *CSVDir) Close() error { return nil }
