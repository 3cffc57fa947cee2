package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
	"travel_planner/internal/engine"
)

const ratingsCacheKey = "ratings:all"

type QueryService struct {
	catalog  domain.CatalogProvider
	ratings  domain.RatingStore
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires the read side. ratings may be nil when no store is configured.
func NewQueryService(p domain.CatalogProvider, r domain.RatingStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{catalog: p, ratings: r, cache: c, cacheTTL: ttl}
}

// Recommend ranks the current catalog. Cached results are keyed by catalog
// version so a reload never serves stale rankings.
func (s *QueryService) Recommend(ctx context.Context, q domain.RecommendationQuery) (domain.RecommendationPage, error) {
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		return domain.RecommendationPage{}, err
	}

	// the page echoes the canonical label, so differently cased requests share a key
	budget := strings.TrimSpace(q.Budget)
	if t, ok := domain.ParseBudgetTier(budget); ok {
		budget = t.Label
	}
	key := fmt.Sprintf("rec:%s:%s:%s", cat.Version, strings.ToLower(budget), strings.Join(q.Categories, ","))
	var page domain.RecommendationPage
	if ok, _ := s.cache.Get(ctx, key, &page); ok {
		return page, nil
	}

	res, err := engine.Recommend(cat.Destinations, budget, q.Categories)
	if err != nil {
		return domain.RecommendationPage{}, err
	}
	observability.ObserveRecommendation(res.BudgetMatched)
	if !res.BudgetMatched {
		log.Info().Str("budget", budget).Msg("no destinations in budget tier, ranking whole catalog")
	}

	page = domain.RecommendationPage{
		Budget:        budget,
		Categories:    res.Categories,
		BudgetMatched: res.BudgetMatched,
		CatalogVer:    cat.Version,
		Items:         res.Items,
	}
	_ = s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds()))
	return page, nil
}

// Destinations returns the cleaned catalog as loaded.
func (s *QueryService) Destinations(ctx context.Context) (domain.Catalog, error) {
	return s.catalog.Load(ctx)
}

// Ratings lists every submitted rating.
func (s *QueryService) Ratings(ctx context.Context) ([]domain.Destination, error) {
	if s.ratings == nil {
		return nil, fmt.Errorf("%w: no ratings store configured", domain.ErrSourceUnavailable)
	}
	var out []domain.Destination
	if ok, _ := s.cache.Get(ctx, ratingsCacheKey, &out); ok {
		return out, nil
	}
	out, err := s.ratings.List(ctx)
	if err != nil {
		return nil, err
	}
	// copy so callers never alias what went into the cache
	cp := make([]domain.Destination, len(out))
	copy(cp, out)
	_ = s.cache.Set(ctx, ratingsCacheKey, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

// Rating looks one submitted rating up by city. It reads the store directly.
func (s *QueryService) Rating(ctx context.Context, city string) (domain.Destination, error) {
	if s.ratings == nil {
		return domain.Destination{}, fmt.Errorf("%w: no ratings store configured", domain.ErrSourceUnavailable)
	}
	if strings.TrimSpace(city) == "" {
		return domain.Destination{}, fmt.Errorf("%w: city is required", domain.ErrInvalidRequest)
	}
	return s.ratings.Get(ctx, city)
}
