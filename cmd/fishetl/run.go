package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/pipeline"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Extract, transform and load the configured datasets",
		Long: `Runs every configured dataset in registry order. A failing dataset is
reported and the run moves on; the command exits non-zero if any failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := core.Lookup(a.cfg.Pipeline.Datasets)
			if err != nil {
				return err
			}

			p, closeFn, err := a.openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			summary := p.RunAll(cmd.Context(), defs)
			printSummary(cmd.OutOrStdout(), summary)

			if n := summary.Failed(); n > 0 {
				return fmt.Errorf("%d of %d datasets failed", n, len(summary.Reports))
			}
			return nil
		},
	}
}

// printSummary writes one line per dataset followed by the run totals.
func printSummary(w io.Writer, s pipeline.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATASET\tSTATUS\tEXTRACTED\tHEADER\tDROPPED\tLOADED\tDURATION\tERROR")
	for _, r := range s.Reports {
		errText := ""
		if r.Failed() {
			msg := core.MapError(errors.New(r.Error))
			errText = fmt.Sprintf("[%s] %s", r.ErrorCode, msg.Message)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
			r.Dataset,
			r.Status,
			r.Extracted,
			r.Transform.Header.HeaderIndex,
			r.Transform.Filter.Dropped,
			humanize.Comma(r.Loaded),
			r.Duration.Round(time.Millisecond),
			errText,
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nrun %s: %d datasets, %s rows, %d failed in %s\n",
		s.RunID,
		len(s.Reports),
		humanize.Comma(s.Loaded()),
		s.Failed(),
		s.Duration.Round(time.Millisecond),
	)
}
