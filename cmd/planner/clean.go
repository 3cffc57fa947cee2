package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"travel_planner/internal/catalog"
)

func newCleanCmd(p *planner) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Clean the raw dataset and save the cleaned copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := catalog.Clean(p.rawPath(), p.cleanedPath())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleaned data saved to %s (%d rows)\n", p.cleanedPath(), len(tbl.Rows))
			return nil
		},
	}
}
