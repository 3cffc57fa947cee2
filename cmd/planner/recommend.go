package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	redisad "travel_planner/internal/adapters/redis"
	"travel_planner/internal/app"
	"travel_planner/internal/domain"
	"travel_planner/internal/validation"
)

func newRecommendCmd(p *planner) *cobra.Command {
	var (
		budget string
		types  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank destinations for a budget tier and trip types",
		Long: `Scores every destination in the budget tier as the mean of the chosen
trip types and prints the top five, keeping every destination tied with the
fifth. When the tier has no destinations the whole catalog is ranked.`,
		Example: `  planner recommend --budget Luxury --types culture,cuisine`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := validation.RecommendationRequest{Budget: budget, Types: validation.ParseTypes(types)}
			if err := req.Validate(); err != nil {
				return err
			}
			tier, _ := domain.ParseBudgetTier(req.Budget)

			q := app.NewQueryService(p.provider(), nil, redisad.Nop{}, 0)
			page, err := q.Recommend(cmd.Context(), domain.RecommendationQuery{Budget: tier.Label, Categories: req.Types})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}
			printRecommendations(cmd.OutOrStdout(), page)
			return nil
		},
	}
	cmd.Flags().StringVarP(&budget, "budget", "b", "", "budget tier: Budget, Mid-range or Luxury")
	cmd.Flags().StringVarP(&types, "types", "t", "", "comma-separated trip types, e.g. culture,beaches")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	_ = cmd.MarkFlagRequired("budget")
	_ = cmd.MarkFlagRequired("types")
	return cmd
}

func printRecommendations(w io.Writer, page domain.RecommendationPage) {
	if !page.BudgetMatched {
		fmt.Fprintf(w, "No destinations in the %s tier; ranking all budgets.\n", page.Budget)
	}
	fmt.Fprintf(w, "Top destinations for %s (%s):\n\n", page.Budget, strings.Join(page.Categories, ", "))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCITY\tCOUNTRY\tBUDGET\tSCORE\tSTARS")
	for _, it := range page.Items {
		d := it.Destination
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%s\n", it.Rank, d.City, d.Country, d.BudgetLevel, it.Score, stars(it.Score))
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	for _, it := range page.Items {
		d := it.Destination
		if d.ShortDescription != "" {
			fmt.Fprintf(w, "%s: %s\n", d.City, d.ShortDescription)
		}
		fmt.Fprintf(w, "  %s\n", d.SearchURL())
	}
}

func stars(score float64) string {
	full, half, empty := domain.Stars(score)
	return strings.Repeat("★", full) + strings.Repeat("½", half) + strings.Repeat("☆", empty)
}
