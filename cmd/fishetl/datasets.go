package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

func newDatasetsCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List the registered datasets",
		Args:  cobra.NoArgs,
		// Listing needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			printDatasets(cmd.OutOrStdout(), core.All(), verbose)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show loaded columns")
	return cmd
}

func printDatasets(w io.Writer, defs []core.DatasetDefinition, verbose bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLABEL\tSHEET\tTABLE")
	for _, def := range defs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", def.Info.Key, def.Info.Label, def.Info.SheetIndex, def.Info.TargetTable)
		if verbose {
			fmt.Fprintf(tw, "\t%s\t\t\n", strings.Join(def.DBColumns(), ", "))
		}
	}
	tw.Flush()
}
