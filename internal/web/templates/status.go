// Package templates renders the status server's HTML pages.
package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/pipeline"
)

// StatusData is everything the status page shows.
type StatusData struct {
	Running  bool
	Datasets []core.DatasetDefinition
	History  []pipeline.Summary // newest first
}

const pageStyle = `body{font-family:sans-serif;margin:2rem;color:#1f2933}
table{border-collapse:collapse;margin-bottom:2rem}
th,td{border:1px solid #cbd2d9;padding:.3rem .6rem;text-align:left}
.failed{color:#b42318}.loaded{color:#027a48}.badge{font-weight:bold}`

// StatusPage lists registered datasets, the latest run's per-dataset
// reports and older runs.
func StatusPage(data StatusData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Farm ETL status</title>`)
		p.raw(`<style>` + pageStyle + `</style></head><body><h1>Farm ETL status</h1>`)

		state := "idle"
		if data.Running {
			state = "running"
		}
		p.raw(`<p>Pipeline: <span class="badge">`)
		p.text(state)
		p.raw(`</span></p>`)

		p.datasets(data.Datasets)
		if len(data.History) == 0 {
			p.raw(`<p>No runs recorded yet.</p>`)
		} else {
			p.lastRun(data.History[0])
			p.history(data.History)
		}

		p.raw(`</body></html>`)
		return p.err
	})
}

// printer stops writing after the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *printer) cell(v any) {
	p.raw("<td>")
	p.text(fmt.Sprint(v))
	p.raw("</td>")
}

func (p *printer) datasets(defs []core.DatasetDefinition) {
	p.raw(`<h2>Datasets</h2><table><tr><th>Key</th><th>Label</th><th>Sheet</th><th>Table</th><th>Columns</th></tr>`)
	for _, def := range defs {
		p.raw("<tr>")
		p.cell(def.Info.Key)
		p.cell(def.Info.Label)
		p.cell(def.Info.SheetIndex)
		p.cell(def.Info.TargetTable)
		p.cell(len(def.FieldSpecs))
		p.raw("</tr>")
	}
	p.raw(`</table>`)
}

func (p *printer) lastRun(s pipeline.Summary) {
	p.raw(`<h2>Last run</h2><p>`)
	p.text(fmt.Sprintf("%s started %s, took %s", s.RunID, s.StartedAt.Format(time.RFC3339), s.Duration.Round(time.Millisecond)))
	p.raw(`</p><table><tr><th>Dataset</th><th>Status</th><th>Extracted</th><th>Header row</th><th>Dropped</th><th>Loaded</th><th>Error</th></tr>`)
	for _, r := range s.Reports {
		p.raw(`<tr class="`)
		p.text(string(r.Status))
		p.raw(`">`)
		p.cell(r.Dataset)
		p.cell(r.Status)
		p.cell(r.Extracted)
		p.cell(r.Transform.Header.HeaderIndex)
		p.cell(r.Transform.Filter.Dropped)
		p.cell(r.Loaded)
		if r.ErrorCode != "" {
			p.cell(r.ErrorCode + ": " + r.Error)
		} else {
			p.cell("")
		}
		p.raw("</tr>")
	}
	p.raw(`</table>`)
}

func (p *printer) history(runs []pipeline.Summary) {
	p.raw(`<h2>History</h2><table><tr><th>Run</th><th>Started</th><th>Datasets</th><th>Loaded</th><th>Failed</th></tr>`)
	for _, s := range runs {
		p.raw("<tr>")
		p.cell(s.RunID)
		p.cell(s.StartedAt.Format(time.RFC3339))
		p.cell(len(s.Reports))
		p.cell(s.Loaded())
		p.cell(s.Failed())
		p.raw("</tr>")
	}
	p.raw(`</table>`)
}
