package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"travel_planner/internal/domain"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List trip types and budget tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Trip types: %s\n", strings.Join(domain.CategoryNames(), ", "))
			fmt.Fprintln(out, "Budget tiers (per night):")
			for _, t := range domain.BudgetTiers() {
				fmt.Fprintf(out, "  %-10s %s\n", t.Label, t.Range())
			}
			return nil
		},
	}
}
