package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/load"
)

func newMigrateCmd(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the target tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := core.Lookup(a.cfg.Pipeline.Datasets)
			if err != nil {
				return err
			}

			if printOnly {
				dialect := load.DialectFor(a.cfg.Database.Driver)
				for _, def := range defs {
					fmt.Fprintln(cmd.OutOrStdout(), load.CreateTableSQL(def, dialect)+";")
				}
				return nil
			}

			loader, err := load.Open(cmd.Context(), a.cfg.Database, a.cfg.Pipeline)
			if err != nil {
				return err
			}
			defer loader.Close()

			if err := loader.Migrate(cmd.Context(), defs); err != nil {
				return err
			}
			slog.Info("tables ready", "count", len(defs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the DDL instead of executing it")
	return cmd
}
