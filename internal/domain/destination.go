package domain

import (
	"net/url"
	"strings"
)

type Destination struct {
	City             string   `json:"city"`
	Country          string   `json:"country"`
	Region           string   `json:"region"`
	ShortDescription string   `json:"short_description"`
	BudgetLevel      string   `json:"budget_level"`
	Scores           Affinity `json:"scores"`
}

// CityKey is the dedup key for catalog rows and rating submissions.
func (d Destination) CityKey() string { return CityKey(d.City) }

func CityKey(city string) string { return strings.ToLower(strings.TrimSpace(city)) }

// SearchURL is a web search for the city and country.
func (d Destination) SearchURL() string {
	return "https://www.google.com/search?q=" + url.QueryEscape(d.City) + "+" + url.QueryEscape(d.Country)
}

// Catalog is a read-only snapshot of the cleaned dataset.
type Catalog struct {
	Version      string        `json:"version"`
	Destinations []Destination `json:"destinations"`
}

func (c Catalog) Len() int { return len(c.Destinations) }

type Recommendation struct {
	Destination Destination `json:"destination"`
	Score       float64     `json:"score"`
	Rank        int         `json:"rank"` // 1-based, equal scores share a rank
}

// Stars splits a 0-5 score into full, half and empty stars.
func Stars(score float64) (full, half, empty int) {
	const max = 5
	if score < 0 {
		score = 0
	}
	if score > max {
		score = max
	}
	full = int(score)
	if score-float64(full) >= 0.5 {
		half = 1
	}
	empty = max - full - half
	return full, half, empty
}
