package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/logging"
)

// maxWorkbookBytes caps a downloaded export.
const maxWorkbookBytes = 64 << 20

// RemoteOptions configures a spreadsheet download.
type RemoteOptions struct {
	ExportURL     string // fmt pattern, %s is the spreadsheet ID
	SpreadsheetID string
	AccessToken   string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Remote downloads a Google Sheets document as .xlsx on first use and
// serves every dataset from that one copy.
type Remote struct {
	opts   RemoteOptions
	client *http.Client

	mu sync.Mutex
	wb *Workbook
}

// NewRemote creates a Remote extractor. Nothing is fetched until Extract.
func NewRemote(opts RemoteOptions, client *http.Client) *Remote {
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 1
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{opts: opts, client: client}
}

// Extract reads the worksheet at info.SheetIndex from the downloaded workbook.
func (r *Remote) Extract(ctx context.Context, info core.DatasetInfo) (core.RawTable, error) {
	wb, err := r.workbook(ctx)
	if err != nil {
		return nil, err
	}
	return wb.Extract(ctx, info)
}

func (r *Remote) workbook(ctx context.Context) (*Workbook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.wb != nil {
		return r.wb, nil
	}

	data, err := r.download(ctx)
	if err != nil {
		return nil, err
	}
	wb, err := ReadWorkbook(bytes.NewReader(data), r.opts.SpreadsheetID)
	if err != nil {
		return nil, err
	}
	r.wb = wb
	return wb, nil
}

// errPermanent marks responses that retrying cannot fix.
var errPermanent = errors.New("permanent failure")

func (r *Remote) download(ctx context.Context) ([]byte, error) {
	url := fmt.Sprintf(r.opts.ExportURL, r.opts.SpreadsheetID)
	log := logging.WithFields(ctx, "spreadsheet", r.opts.SpreadsheetID)

	var lastErr error
	for attempt := 1; attempt <= r.opts.RetryAttempts; attempt++ {
		data, err := r.fetch(ctx, url)
		if err == nil {
			log.Info("workbook downloaded", "bytes", len(data), "attempt", attempt)
			return data, nil
		}
		lastErr = err
		if errors.Is(err, errPermanent) || ctx.Err() != nil {
			break
		}

		log.Warn("workbook download failed", "attempt", attempt, "error", err)
		if attempt < r.opts.RetryAttempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("download workbook: %w", ctx.Err())
			case <-time.After(r.opts.RetryDelay):
			}
		}
	}
	return nil, fmt.Errorf("download workbook: %w", lastErr)
}

func (r *Remote) fetch(ctx context.Context, url string) ([]byte, error) {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errPermanent, err)
	}
	if r.opts.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.opts.AccessToken)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	default:
		return nil, fmt.Errorf("%w: unexpected status %s", errPermanent, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxWorkbookBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxWorkbookBytes {
		return nil, fmt.Errorf("%w: workbook exceeds %d bytes", errPermanent, maxWorkbookBytes)
	}
	return data, nil
}

// Close releases the downloaded workbook, if any.
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wb == nil {
		return nil
	}
	err := r.wb.Close()
	r.wb = nil
	return err
}
