package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

func newInspectCmd(a *app) *cobra.Command {
	var preview int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how each dataset would be transformed without loading it",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			annotationDryRun: "true",
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("preview") {
				a.cfg.Pipeline.PreviewRows = preview
			}
			return nil
		},
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
			for _, r := range summary.Reports {
				printInspection(cmd.OutOrStdout(), r)
			}
			return summary.Err()
		},
	}

	cmd.Flags().IntVarP(&preview, "preview", "n", 5, "Transformed rows to show per dataset")
	return cmd
}

// printInspection writes the diagnostics of one dataset report.
func printInspection(w io.Writer, r core.DatasetReport) {
	tr := r.Transform
	fmt.Fprintf(w, "== %s (%s)\n", r.Dataset, r.Status)
	if r.Failed() {
		fmt.Fprintf(w, "error [%s]: %s\n\n", r.ErrorCode, r.Error)
		return
	}

	fallback := ""
	if tr.Header.Fallback {
		fallback = " (fallback)"
	}
	fmt.Fprintf(w, "rows extracted: %d\n", r.Extracted)
	fmt.Fprintf(w, "header row: %d score %d%s\n", tr.Header.HeaderIndex, tr.Header.Score, fallback)
	if tr.Mapping.Warning != "" {
		fmt.Fprintf(w, "mapping: %s\n", tr.Mapping.Warning)
	}
	fmt.Fprintf(w, "rows dropped: %d (need %d non-missing)\n", tr.Filter.Dropped, tr.Filter.MinNonMissing)
	fmt.Fprintf(w, "rows kept: %d\n", tr.OutputRows)
	if len(tr.MissingExpected) > 0 {
		fmt.Fprintf(w, "missing columns: %s\n", strings.Join(tr.MissingExpected, ", "))
	}

	if len(r.Profile) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "COLUMN\tTYPE\tPRESENT\tMISSING\tMIN\tMEAN\tMAX")
		for _, c := range r.Profile {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
				c.Name, c.Type, c.Present, c.Missing, stat(c.Min), stat(c.Mean), stat(c.Max))
		}
		tw.Flush()
	}

	if len(r.Preview) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(tr.Columns, "\t"))
		for _, row := range r.Preview {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		tw.Flush()
	}
	fmt.Fprintln(w)
}

func stat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4g", *v)
}
