package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is a trip-experience column of the catalog.
type Category int

const (
	Culture Category = iota
	Adventure
	Nature
	Beaches
	Cuisine
	Wellness
	Urban
	Seclusion

	NumCategories = 8
)

var categoryNames = [NumCategories]string{
	"culture", "adventure", "nature", "beaches", "cuisine", "wellness", "urban", "seclusion",
}

// Categories returns every recognized category in canonical order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// CategoryNames returns the column keys in canonical order.
func CategoryNames() []string {
	out := make([]string, NumCategories)
	copy(out, categoryNames[:])
	return out
}

func (c Category) String() string {
	if c < 0 || int(c) >= NumCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory matches a column key exactly (keys are case-sensitive).
func ParseCategory(s string) (Category, bool) {
	for i, n := range categoryNames {
		if n == s {
			return Category(i), true
		}
	}
	return 0, false
}

// Affinity holds one score per category, indexed by Category.
type Affinity [NumCategories]float64

func (a Affinity) Get(c Category) float64 { return a[c] }

func (a *Affinity) Set(c Category, v float64) { a[c] = v }

// MarshalJSON writes the scores as an object keyed by category name.
func (a Affinity) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, NumCategories)
	for i, n := range categoryNames {
		m[n] = a[i]
	}
	return json.Marshal(m)
}

// UnmarshalJSON ignores unknown keys; absent categories stay zero.
func (a *Affinity) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*a = Affinity{}
	for k, v := range m {
		if c, ok := ParseCategory(strings.TrimSpace(k)); ok {
			a[c] = v
		}
	}
	return nil
}
