package validation

import (
	"strings"

	"travel_planner/internal/domain"
)

// RatingSubmission is the body of POST /v1/ratings and the flags of
// `planner ratings add`. Missing scores count as 0.
type RatingSubmission struct {
	City             string             `json:"city" validate:"required,max=128"`
	Country          string             `json:"country" validate:"required,max=128"`
	Region           string             `json:"region" validate:"required,max=128"`
	ShortDescription string             `json:"short_description" validate:"max=1000"`
	BudgetLevel      string             `json:"budget_level" validate:"required,budget_tier"`
	Scores           map[string]float64 `json:"scores" validate:"dive,keys,category,endkeys,gte=0,lte=5,half_step"`
}

// Normalize trims text fields and lowercases score keys.
func (s *RatingSubmission) Normalize() {
	s.City = strings.TrimSpace(s.City)
	s.Country = strings.TrimSpace(s.Country)
	s.Region = strings.TrimSpace(s.Region)
	s.ShortDescription = strings.TrimSpace(s.ShortDescription)
	s.BudgetLevel = strings.TrimSpace(s.BudgetLevel)
	if len(s.Scores) == 0 {
		return
	}
	scores := make(map[string]float64, len(s.Scores))
	for k, v := range s.Scores {
		scores[strings.ToLower(strings.TrimSpace(k))] = v
	}
	s.Scores = scores
}

// Validate normalizes and checks s.
func (s *RatingSubmission) Validate() error {
	s.Normalize()
	return ValidateStruct(s)
}

// Destination converts a validated submission.
func (s RatingSubmission) Destination() domain.Destination {
	d := domain.Destination{
		City:             s.City,
		Country:          s.Country,
		Region:           s.Region,
		ShortDescription: s.ShortDescription,
		BudgetLevel:      s.BudgetLevel,
	}
	if t, ok := domain.ParseBudgetTier(s.BudgetLevel); ok {
		d.BudgetLevel = t.Label
	}
	for k, v := range s.Scores {
		if c, ok := domain.ParseCategory(k); ok {
			d.Scores.Set(c, v)
		}
	}
	return d
}

// RecommendationRequest is the query of GET /v1/recommendations. Category
// names are checked by the engine so the error can name them.
type RecommendationRequest struct {
	Budget string   `json:"budget" validate:"required,budget_tier"`
	Types  []string `json:"types" validate:"min=1"`
}

// ParseTypes splits "a, B,,c" into ["a","b","c"].
func ParseTypes(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r *RecommendationRequest) Validate() error {
	r.Budget = strings.TrimSpace(r.Budget)
	return ValidateStruct(r)
}
