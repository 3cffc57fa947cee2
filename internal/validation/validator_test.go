package validation

import (
	"errors"
	"strings"
	"testing"

	"travel_planner/internal/domain"
)

func validSubmission() RatingSubmission {
	return RatingSubmission{
		City:        "  Porto ",
		Country:     "Portugal",
		Region:      "Europe",
		BudgetLevel: "mid-range",
		Scores:      map[string]float64{"Culture": 4.5, "beaches": 3},
	}
}

func TestRatingSubmission_ValidAndConverted(t *testing.T) {
	s := validSubmission()
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := s.Destination()
	if d.City != "Porto" {
		t.Fatalf("city not trimmed: %q", d.City)
	}
	if d.BudgetLevel != "Mid-range" {
		t.Fatalf("budget not canonical: %q", d.BudgetLevel)
	}
	if d.Scores.Get(domain.Culture) != 4.5 || d.Scores.Get(domain.Beaches) != 3 || d.Scores.Get(domain.Urban) != 0 {
		t.Fatalf("unexpected scores: %v", d.Scores)
	}
}

func TestRatingSubmission_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RatingSubmission)
		field  string
	}{
		{"blank city", func(s *RatingSubmission) { s.City = "   " }, "city"},
		{"missing region", func(s *RatingSubmission) { s.Region = "" }, "region"},
		{"unknown budget", func(s *RatingSubmission) { s.BudgetLevel = "Cheap" }, "budget_level"},
		{"score too high", func(s *RatingSubmission) { s.Scores["culture"] = 5.5 }, "scores[culture]"},
		{"negative score", func(s *RatingSubmission) { s.Scores["urban"] = -1 }, "scores[urban]"},
		{"not a half step", func(s *RatingSubmission) { s.Scores["nature"] = 3.3 }, "scores[nature]"},
		{"unknown category", func(s *RatingSubmission) { s.Scores["nightlife"] = 4 }, "scores[nightlife]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSubmission()
			tc.mutate(&s)
			err := s.Validate()
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			var re *RequestError
			if !errors.As(err, &re) {
				t.Fatalf("expected *RequestError, got %T", err)
			}
			found := false
			for _, f := range re.Fields {
				if f.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected failure on %s, got %+v", tc.field, re.Fields)
			}
		})
	}
}

func TestRecommendationRequest(t *testing.T) {
	ok := RecommendationRequest{Budget: " luxury ", Types: ParseTypes("Culture, beaches,,")}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(ok.Types, ",") != "culture,beaches" {
		t.Fatalf("unexpected types %v", ok.Types)
	}

	noTypes := RecommendationRequest{Budget: "Budget"}
	if err := noTypes.Validate(); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected error for empty types, got %v", err)
	}
	badBudget := RecommendationRequest{Budget: "cheap", Types: []string{"culture"}}
	err := badBudget.Validate()
	if err == nil || !strings.Contains(err.Error(), "budget") {
		t.Fatalf("expected budget error, got %v", err)
	}
}
