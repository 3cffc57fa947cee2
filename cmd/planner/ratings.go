package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"travel_planner/internal/app"
	"travel_planner/internal/domain"
	"travel_planner/internal/shared"
	"travel_planner/internal/validation"
)

var errRatingsDisabled = errors.New("ratings are disabled: set RATINGS_BACKEND and its settings")

func newRatingsCmd(p *planner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "List or submit destination ratings",
	}
	cmd.AddCommand(newRatingsListCmd(p), newRatingsAddCmd(p))
	return cmd
}

func newRatingsListCmd(p *planner) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show every submitted rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := shared.OpenRatingStore(cmd.Context(), p.cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			if store == nil {
				return errRatingsDisabled
			}

			rows, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No ratings yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprint(tw, "CITY\tCOUNTRY\tREGION\tBUDGET")
			for _, name := range domain.CategoryNames() {
				fmt.Fprintf(tw, "\t%s", name)
			}
			fmt.Fprintln(tw)
			for _, d := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s", d.City, d.Country, d.Region, d.BudgetLevel)
				for _, c := range domain.Categories() {
					fmt.Fprintf(tw, "\t%s", strconv.FormatFloat(d.Scores.Get(c), 'f', -1, 64))
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newRatingsAddCmd(p *planner) *cobra.Command {
	var (
		sub    validation.RatingSubmission
		scores map[string]string
	)
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Submit a rating for a city",
		Example: `  planner ratings add --city Porto --country Portugal --region Europe --budget Mid-range --score culture=4.5 --score cuisine=5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub.Scores = make(map[string]float64, len(scores))
			for k, v := range scores {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("%w: score %s=%q is not a number", domain.ErrInvalidRequest, k, v)
				}
				sub.Scores[k] = f
			}

			store, closeFn, err := shared.OpenRatingStore(cmd.Context(), p.cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			if store == nil {
				return errRatingsDisabled
			}

			d, err := app.NewSubmissionService(store, nil, p.cfg.RatingsBackend).Submit(cmd.Context(), sub)
			if errors.Is(err, domain.ErrDuplicateRecord) {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: a rating for %s already exists; nothing was added.\n", sub.City)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rating for %s added.\n", d.City)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub.City, "city", "", "city name")
	cmd.Flags().StringVar(&sub.Country, "country", "", "country")
	cmd.Flags().StringVar(&sub.Region, "region", "", "region, e.g. Europe")
	cmd.Flags().StringVar(&sub.ShortDescription, "description", "", "short description")
	cmd.Flags().StringVar(&sub.BudgetLevel, "budget", "", "budget tier: Budget, Mid-range or Luxury")
	cmd.Flags().StringToStringVar(&scores, "score", nil, "category score 0-5 in steps of 0.5, e.g. culture=4.5 (repeatable)")
	return cmd
}
