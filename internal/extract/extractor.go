// Package extract reads dataset worksheets into raw cell grids.
//
// Three sources are supported: a local .xlsx workbook, a Google Sheets
// spreadsheet downloaded as an .xlsx export, and a directory holding one
// CSV export per dataset. Worksheets are addressed by the zero-based index
// recorded in each dataset's registry entry.
package extract

import (
	"context"
	"net/http"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/config"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

// Extractor returns the unprocessed worksheet behind a dataset.
type Extractor interface {
	Extract(ctx context.Context, info core.DatasetInfo) (core.RawTable, error)
	Close() error
}

// Open returns the extractor for the configured source. A local workbook
// wins over a spreadsheet ID, which wins over a CSV directory.
func Open(cfg config.SourceConfig) (Extractor, error) {
	if !cfg.Configured() {
		return nil, core.ErrNoSource
	}
	switch {
	case cfg.Workbook != "":
		wb, err := OpenWorkbook(cfg.Workbook)
		if err != nil {
			return nil, err
		}
		return wb, nil
	case cfg.SpreadsheetID != "":
		return NewRemote(RemoteOptions{
			ExportURL:     cfg.ExportURL,
			SpreadsheetID: cfg.SpreadsheetID,
			AccessToken:   cfg.AccessToken,
			Timeout:       cfg.FetchTimeout,
			RetryAttempts: cfg.RetryAttempts,
			RetryDelay:    cfg.RetryDelay,
		}, http.DefaultClient), nil
	default:
		dir, err := NewCSVDir(cfg.CSVDir)
		if err != nil {
			return nil, err
		}
		return dir, nil
	}
}
