// Package engine ranks catalog destinations against a budget tier and a set
// of trip-experience categories.
//
// Recommend is pure: it never writes into the rows it is given, keeps no
// state between calls and is safe to call concurrently on a shared catalog.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"travel_planner/internal/domain"
)

// Cutoff is the rank whose score sets the inclusion threshold.
const Cutoff = 5

type Result struct {
	Items []domain.Recommendation
	// BudgetMatched is false when no row had the requested tier and the
	// whole catalog was ranked instead.
	BudgetMatched bool
	// Categories is the deduplicated request in first-seen order.
	Categories []string
}

// Recommend filters rows by budget tier (case-insensitive), scores each row
// as the mean of the requested categories, sorts descending (stable, ties
// keep catalog order) and keeps every row scoring at least the Cutoff-th
// score.
//
// Duplicate categories are counted once. A tier with no matching rows falls
// back to the full catalog.
func Recommend(rows []domain.Destination, budgetTier string, categories []string) (Result, error) {
	cats, names, err := resolveCategories(categories)
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: catalog is empty", domain.ErrNoData)
	}

	idx, matched := filterBudget(rows, budgetTier)

	scored := make([]domain.Recommendation, len(idx))
	for i, r := range idx {
		scored[i] = domain.Recommendation{
			Destination: rows[r],
			Score:       meanScore(rows[r].Scores, cats),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	top := selectTop(scored, Cutoff)
	assignRanks(top)

	return Result{Items: top, BudgetMatched: matched, Categories: names}, nil
}

// resolveCategories validates names and returns the set in canonical order
// (for summation) plus the deduplicated names in request order.
func resolveCategories(categories []string) ([]domain.Category, []string, error) {
	if len(categories) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one category is required", domain.ErrInvalidRequest)
	}

	var (
		seen    [domain.NumCategories]bool
		names   = make([]string, 0, len(categories))
		unknown []string
	)
	for _, name := range categories {
		c, ok := domain.ParseCategory(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		names = append(names, name)
	}
	if len(unknown) > 0 {
		return nil, nil, &domain.UnknownCategoryError{Names: unknown}
	}

	cats := make([]domain.Category, 0, len(names))
	for _, c := range domain.Categories() {
		if seen[c] {
			cats = append(cats, c)
		}
	}
	return cats, names, nil
}

// filterBudget returns indexes into rows, never a re-sliced view.
func filterBudget(rows []domain.Destination, tier string) ([]int, bool) {
	tier = strings.TrimSpace(tier)
	idx := make([]int, 0, len(rows))
	for i, r := range rows {
		if strings.EqualFold(strings.TrimSpace(r.BudgetLevel), tier) {
			idx = append(idx, i)
		}
	}
	if len(idx) > 0 {
		return idx, true
	}
	for i := range rows {
		idx = append(idx, i)
	}
	return idx, false
}

func meanScore(a domain.Affinity, cats []domain.Category) float64 {
	var sum float64
	for _, c := range cats {
		sum += a.Get(c)
	}
	return sum / float64(len(cats))
}

// selectTop expects sorted input. It keeps the first n rows plus any rows
// tied with the n-th.
func selectTop(sorted []domain.Recommendation, n int) []domain.Recommendation {
	if len(sorted) <= n {
		return sorted
	}
	threshold := sorted[n-1].Score
	end := n
	for end < len(sorted) && sorted[end].Score >= threshold {
		end++
	}
	return sorted[:end:end]
}

// assignRanks uses min-rank: equal scores share the best position.
func assignRanks(items []domain.Recommendation) {
	for i := range items {
		if i > 0 && items[i].Score == items[i-1].Score {
			items[i].Rank = items[i-1].Rank
			continue
		}
		items[i].Rank = i + 1
	}
}
