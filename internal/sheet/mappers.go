package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"travel_planner/internal/domain"
)

/********** alias registries (single source of truth) **********/

// keys are normalized headers (see NormalizeHeader)
var destinationAliases = map[string][]string{
	"city":              {"city", "destination", "city_name"},
	"country":           {"country", "country_name"},
	"region":            {"region", "continent", "area"},
	"short_description": {"short_description", "description", "summary"},
	"budget_level":      {"budget_level", "budget", "budget_tier", "price_level"},
}

// DroppedColumns are raw-source columns irrelevant to recommendations.
var DroppedColumns = []string{
	"nightlife",
	"latitude",
	"longitude",
	"id",
	"ideal_durations",
	"avg_temp_monthly",
}

/********** tiny helpers **********/

// firstNonEmptyAlias: first non-empty value for a named alias set.
func firstNonEmptyAlias(rec map[string]string, key string) string {
	for _, k := range destinationAliases[key] {
		if s := strings.TrimSpace(rec[k]); s != "" {
			return s
		}
	}
	return ""
}

// parseFloatFlexible accepts "4.5", "4,5" and blanks (blank = 0).
func parseFloatFlexible(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

/********** destination mapper **********/

// ToDestination maps one record. Missing category columns default to zero;
// the budget level is canonicalized to the tier label.
func ToDestination(rec map[string]string) (domain.Destination, error) {
	d := domain.Destination{
		City:             firstNonEmptyAlias(rec, "city"),
		Country:          firstNonEmptyAlias(rec, "country"),
		Region:           firstNonEmptyAlias(rec, "region"),
		ShortDescription: firstNonEmptyAlias(rec, "short_description"),
	}
	if d.City == "" {
		return domain.Destination{}, fmt.Errorf("row has no city")
	}

	raw := firstNonEmptyAlias(rec, "budget_level")
	tier, ok := domain.ParseBudgetTier(raw)
	if !ok {
		return domain.Destination{}, fmt.Errorf("city %q: unknown budget level %q", d.City, raw)
	}
	d.BudgetLevel = tier.Label

	for _, c := range domain.Categories() {
		v, err := parseFloatFlexible(rec[c.String()])
		if err != nil {
			return domain.Destination{}, fmt.Errorf("city %q: %s: %w", d.City, c, err)
		}
		d.Scores.Set(c, v)
	}
	return d, nil
}

// ToDestinations maps every record, returning the rows that failed alongside.
func ToDestinations(t Table) ([]domain.Destination, []error) {
	var (
		out  []domain.Destination
		errs []error
	)
	for i, rec := range t.Records() {
		d, err := ToDestination(rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+2, err))
			continue
		}
		out = append(out, d)
	}
	return out, errs
}

// Cities returns the city cell of every row that has one, including rows
// ToDestinations would reject.
func Cities(t Table) []string {
	var out []string
	for _, rec := range t.Records() {
		if c := firstNonEmptyAlias(rec, "city"); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// CanonicalHeader is the column layout of the cleaned catalog and the
// ratings file.
func CanonicalHeader() []string {
	h := []string{"city", "country", "region", "short_description", "budget_level"}
	return append(h, domain.CategoryNames()...)
}

// FromDestination renders d in CanonicalHeader order.
func FromDestination(d domain.Destination) []string {
	row := []string{d.City, d.Country, d.Region, d.ShortDescription, d.BudgetLevel}
	for _, c := range domain.Categories() {
		row = append(row, formatFloat(d.Scores.Get(c)))
	}
	return row
}

// AppendDestination returns a copy of t with d as a new last row. Existing
// columns (including ones outside the canonical layout) are kept; missing
// canonical columns are added.
func AppendDestination(t Table, d domain.Destination) Table {
	canon := CanonicalHeader()
	vals := FromDestination(d)
	values := make(map[string]string, len(canon))
	for i, h := range canon {
		values[h] = vals[i]
	}

	out := Table{Header: append([]string(nil), t.Header...)}
	keys := make([]string, len(out.Header))
	have := make(map[string]bool, len(out.Header))
	for i, h := range out.Header {
		keys[i] = canonicalKey(NormalizeHeader(h))
		have[keys[i]] = true
	}
	for _, h := range canon {
		if !have[h] {
			out.Header = append(out.Header, h)
			keys = append(keys, h)
		}
	}

	out.Rows = make([][]string, 0, len(t.Rows)+1)
	for _, r := range t.Rows {
		row := make([]string, len(out.Header))
		copy(row, r)
		out.Rows = append(out.Rows, row)
	}
	row := make([]string, len(out.Header))
	for i, k := range keys {
		row[i] = values[k]
	}
	out.Rows = append(out.Rows, row)
	return out
}

// canonicalKey resolves an alias ("budget") to its canonical column.
func canonicalKey(h string) string {
	for canon, aliases := range destinationAliases {
		for _, a := range aliases {
			if a == h {
				return canon
			}
		}
	}
	return h
}
