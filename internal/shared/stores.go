package shared

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	ghstore "travel_planner/internal/adapters/github"
	redisad "travel_planner/internal/adapters/redis"
	"travel_planner/internal/domain"
	mysqlrepo "travel_planner/internal/storage/mysql"
)

// OpenRatingStore builds the configured ratings backend. A nil store with a
// nil error means ratings are disabled. closeFn is never nil.
func OpenRatingStore(ctx context.Context, c Config) (domain.RatingStore, func(), error) {
	noop := func() {}
	switch c.RatingsBackend {
	case "mysql":
		db, err := mysqlrepo.Open(ctx, c.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), func() { _ = db.Close() }, nil

	case "github":
		if c.GitHubRepo == "" {
			return nil, noop, nil
		}
		owner, repo, err := c.GitHubOwnerRepo()
		if err != nil {
			return nil, noop, err
		}
		s, err := ghstore.New(ctx, ghstore.Config{
			Token:   c.GitHubToken,
			Owner:   owner,
			Repo:    repo,
			Path:    c.GitHubPath,
			Branch:  c.GitHubBranch,
			RPS:     c.GitHubRPS,
			BaseURL: c.GitHubBaseURL,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case "none", "":
		return nil, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown ratings backend %q", c.RatingsBackend)
}

// OpenCache connects to Redis, falling back to a no-op cache when Redis is
// not configured or not reachable.
func OpenCache(ctx context.Context, c Config) (domain.Cache, func()) {
	if c.RedisAddr == "" {
		return redisad.Nop{}, func() {}
	}
	rc := redisad.New(c.RedisAddr, c.RedisPass, c.RedisDB, c.RedisPrefix)
	if err := rc.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", c.RedisAddr).Msg("redis unavailable, caching disabled")
		_ = rc.Close()
		return redisad.Nop{}, func() {}
	}
	return rc, func() { _ = rc.Close() }
}
