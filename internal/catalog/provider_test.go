package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"travel_planner/internal/catalog"
	"travel_planner/internal/domain"
)

const rawV1 = `id,city,country,region,short_description,budget_level,culture,adventure,nightlife
1,Lisbon,Portugal,Europe,Hills,Budget,4.5,2,5
2,Kyoto,Japan,Asia,Temples,Luxury,5,1,2
3,lisbon,Portugal,Europe,Duplicate,Budget,1,1,1
`

const rawV2 = `city,country,region,short_description,budget_level,culture
Lisbon,Portugal,Europe,Hills,Budget,4.5
Kyoto,Japan,Asia,Temples,Luxury,5
Cusco,Peru,South America,Andes,Mid-range,4
`

func writeFile(t *testing.T, path, body string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestProvider_LoadCleansAndMemoizes(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "travel_data.csv")
	cleaned := filepath.Join(dir, "cleaned_output.xlsx")
	writeFile(t, raw, rawV1, time.Now().Add(-time.Hour))

	p := catalog.NewProvider(raw, cleaned)
	ctx := context.Background()

	c1, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c1.Len() != 2 {
		t.Fatalf("expected 2 destinations (duplicate city skipped), got %d", c1.Len())
	}
	if c1.Destinations[0].City != "Lisbon" || c1.Destinations[0].ShortDescription != "Hills" {
		t.Fatalf("first occurrence should win: %+v", c1.Destinations[0])
	}
	if _, err := os.Stat(cleaned); err != nil {
		t.Fatalf("cleaned copy not written: %v", err)
	}

	c2, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if c2.Version != c1.Version {
		t.Fatalf("expected memoized version %s, got %s", c1.Version, c2.Version)
	}
}

func TestProvider_ReloadsWhenRawChanges(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "travel_data.csv")
	cleaned := filepath.Join(dir, "cleaned_output.xlsx")
	writeFile(t, raw, rawV1, time.Now().Add(-time.Hour))

	p := catalog.NewProvider(raw, cleaned)
	ctx := context.Background()
	c1, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	writeFile(t, raw, rawV2, time.Now().Add(time.Hour))
	c2, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if c2.Len() != 3 || c2.Version == c1.Version {
		t.Fatalf("expected re-derived catalog, got %d rows version %s", c2.Len(), c2.Version)
	}
}

func TestProvider_ReloadsWhenRawReplacedWithOlderFile(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "travel_data.csv")
	cleaned := filepath.Join(dir, "cleaned_output.xlsx")
	writeFile(t, raw, rawV1, time.Now().Add(-time.Hour))

	p := catalog.NewProvider(raw, cleaned)
	ctx := context.Background()
	c1, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// a restored backup: different content, mtime still older than the cleaned copy
	writeFile(t, raw, rawV2, time.Now().Add(-30*time.Minute))
	c2, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if c2.Len() != 3 || c2.Version == c1.Version {
		t.Fatalf("expected re-derived catalog, got %d rows version %s", c2.Len(), c2.Version)
	}
}

func TestProvider_SourceUnavailable(t *testing.T) {
	dir := t.TempDir()
	p := catalog.NewProvider(filepath.Join(dir, "missing.csv"), filepath.Join(dir, "cleaned.xlsx"))
	_, err := p.Load(context.Background())
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestProvider_ServesCleanedCopyWithoutRaw(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "travel_data.csv")
	cleaned := filepath.Join(dir, "cleaned_output.xlsx")
	writeFile(t, raw, rawV2, time.Now().Add(-time.Hour))

	if _, err := catalog.Clean(raw, cleaned); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if err := os.Remove(raw); err != nil {
		t.Fatalf("remove raw: %v", err)
	}

	c, err := catalog.NewProvider(raw, cleaned).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 destinations from cleaned copy, got %d", c.Len())
	}
}

func TestClean_MissingRaw(t *testing.T) {
	dir := t.TempDir()
	_, err := catalog.Clean(filepath.Join(dir, "nope.xlsx"), filepath.Join(dir, "out.xlsx"))
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
