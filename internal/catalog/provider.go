// Package catalog is the dataset provider: it cleans the raw destination
// spreadsheet, keeps a cleaned copy on disk and serves an in-memory catalog
// that is re-derived whenever the raw source changes.
package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
	"travel_planner/internal/sheet"
)

// sourceKey identifies one revision of a file on disk.
type sourceKey struct {
	path string
	mod  time.Time
	size int64
}

type Provider struct {
	rawPath     string
	cleanedPath string

	mu   sync.RWMutex
	key  sourceKey
	memo *domain.Catalog
	// raw revision the cleaned copy was last derived from or checked against
	cleanedFrom sourceKey

	sf singleflight.Group
}

func NewProvider(rawPath, cleanedPath string) *Provider {
	return &Provider{rawPath: rawPath, cleanedPath: cleanedPath}
}

func (p *Provider) RawPath() string { return p.rawPath }

// Load returns the memoized catalog while the source is unchanged.
// Concurrent callers share one reload.
func (p *Provider) Load(ctx context.Context) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}
	key, err := p.identity()
	if err != nil {
		observability.ObserveCatalogLoad("unavailable")
		return domain.Catalog{}, err
	}

	p.mu.RLock()
	if p.memo != nil && p.key == key {
		c := *p.memo
		p.mu.RUnlock()
		return c, nil
	}
	p.mu.RUnlock()

	v, err, _ := p.sf.Do("load", func() (any, error) {
		c, err := p.load(key)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.key, p.memo = key, &c
		p.mu.Unlock()
		return c, nil
	})
	if err != nil {
		observability.ObserveCatalogLoad("error")
		return domain.Catalog{}, err
	}
	observability.ObserveCatalogLoad("ok")
	return v.(domain.Catalog), nil
}

// Invalidate drops the memo; the next Load re-reads from disk.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.memo = nil
	p.mu.Unlock()
}

// identity picks the file the catalog derives from: the raw source, or the
// cleaned copy when the raw source is gone.
func (p *Provider) identity() (sourceKey, error) {
	if st, err := os.Stat(p.rawPath); err == nil {
		return sourceKey{path: p.rawPath, mod: st.ModTime(), size: st.Size()}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return sourceKey{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if st, err := os.Stat(p.cleanedPath); err == nil {
		return sourceKey{path: p.cleanedPath, mod: st.ModTime(), size: st.Size()}, nil
	}
	return sourceKey{}, fmt.Errorf("%w: the file %q not found", domain.ErrSourceUnavailable, p.rawPath)
}

func (p *Provider) load(key sourceKey) (domain.Catalog, error) {
	if key.path == p.rawPath {
		if p.needsClean(key) {
			if _, err := Clean(p.rawPath, p.cleanedPath); err != nil {
				return domain.Catalog{}, err
			}
		}
		p.mu.Lock()
		p.cleanedFrom = key
		p.mu.Unlock()
	}
	if key.path == p.cleanedPath {
		log.Warn().Str("raw", p.rawPath).Str("cleaned", p.cleanedPath).
			Msg("raw source missing, serving cleaned copy")
	}

	b, err := os.ReadFile(p.cleanedPath)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	tbl, err := sheet.Decode(p.cleanedPath, b)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("decode %s: %w", p.cleanedPath, err)
	}

	sum := sha1.Sum(b)
	c := domain.Catalog{
		Version:      hex.EncodeToString(sum[:8]),
		Destinations: Build(tbl),
	}
	log.Info().
		Str("version", c.Version).
		Int("destinations", c.Len()).
		Msg("catalog loaded")
	return c, nil
}

// needsClean reports whether the cleaned copy must be re-derived from raw.
// Once this process has seen a raw revision, any other revision re-cleans,
// whatever its mtime. Before that a cleaned copy newer than raw is reused.
func (p *Provider) needsClean(raw sourceKey) bool {
	p.mu.RLock()
	from := p.cleanedFrom
	p.mu.RUnlock()
	switch {
	case from == raw:
		return p.cleanedMissing()
	case from != (sourceKey{}):
		return true
	}
	return p.cleanedStale(raw.mod)
}

func (p *Provider) cleanedMissing() bool {
	_, err := os.Stat(p.cleanedPath)
	return err != nil
}

// cleanedStale reports whether the cleaned copy is missing or older than rawMod.
func (p *Provider) cleanedStale(rawMod time.Time) bool {
	st, err := os.Stat(p.cleanedPath)
	if err != nil {
		return true
	}
	return st.ModTime().Before(rawMod)
}

// Build maps a cleaned table to catalog rows, skipping invalid rows and
// repeated cities (first occurrence wins).
func Build(tbl sheet.Table) []domain.Destination {
	ds, errs := sheet.ToDestinations(tbl)
	for _, err := range errs {
		log.Warn().Err(err).Msg("skipping catalog row")
	}
	seen := make(map[string]struct{}, len(ds))
	out := make([]domain.Destination, 0, len(ds))
	for _, d := range ds {
		k := d.CityKey()
		if _, dup := seen[k]; dup {
			log.Warn().Str("city", d.City).Msg("skipping duplicate city")
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	return out
}
