package domain

import "context"

type CatalogProvider interface {
	Load(ctx context.Context) (Catalog, error)
}

// RatingStore is the append-only store of user-submitted destinations.
type RatingStore interface {
	// Append returns ErrDuplicateRecord when the city already exists (case-insensitive).
	Append(ctx context.Context, d Destination) error
	List(ctx context.Context) ([]Destination, error)
	// Get matches city case-insensitively; ErrNotFound when absent.
	Get(ctx context.Context, city string) (Destination, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models & queries
type RecommendationQuery struct {
	Budget     string
	Categories []string
}

type RecommendationPage struct {
	Budget        string           `json:"budget"`
	Categories    []string         `json:"categories"`
	BudgetMatched bool             `json:"budget_matched"`
	CatalogVer    string           `json:"catalog_version"`
	Items         []Recommendation `json:"items"`
}
