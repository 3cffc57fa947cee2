package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
	"travel_planner/internal/validation"
)

type SubmissionService struct {
	store   domain.RatingStore
	cache   domain.Cache
	backend string
}

func NewSubmissionService(store domain.RatingStore, cache domain.Cache, backend string) *SubmissionService {
	return &SubmissionService{store: store, cache: cache, backend: backend}
}

// Submit validates sub and appends it. A duplicate city returns
// domain.ErrDuplicateRecord and leaves the store untouched.
func (s *SubmissionService) Submit(ctx context.Context, sub validation.RatingSubmission) (domain.Destination, error) {
	if err := sub.Validate(); err != nil {
		observability.ObserveSubmission(s.backend, "invalid")
		return domain.Destination{}, err
	}
	if s.store == nil {
		observability.ObserveSubmission(s.backend, "error")
		return domain.Destination{}, fmt.Errorf("%w: no ratings store configured", domain.ErrSourceUnavailable)
	}

	d := sub.Destination()
	if err := s.store.Append(ctx, d); err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			observability.ObserveSubmission(s.backend, "duplicate")
			log.Warn().Str("city", d.City).Msg("rating already exists for city")
			return domain.Destination{}, err
		}
		observability.ObserveSubmission(s.backend, "error")
		return domain.Destination{}, fmt.Errorf("append rating for %s: %w", d.City, err)
	}

	observability.ObserveSubmission(s.backend, "added")
	if s.cache != nil {
		_ = s.cache.Del(ctx, ratingsCacheKey)
	}
	log.Info().Str("city", d.City).Str("backend", s.backend).Msg("rating added")
	return d, nil
}
