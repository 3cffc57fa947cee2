package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "travel_planner/internal/adapters/redis"
	"travel_planner/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0, "travel")
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var miss domain.RecommendationPage
	if ok, err := c.Get(ctx, "rec:k", &miss); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	d := domain.Destination{City: "Kyoto", BudgetLevel: "Luxury"}
	d.Scores.Set(domain.Culture, 5)
	in := domain.RecommendationPage{
		Budget:     "Luxury",
		Categories: []string{"culture"},
		Items:      []domain.Recommendation{{Destination: d, Score: 5, Rank: 1}},
	}
	if err := c.Set(ctx, "rec:k", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("travel:rec:k") {
		t.Fatalf("expected prefixed key in redis, keys=%v", mr.Keys())
	}

	var out domain.RecommendationPage
	ok, err := c.Get(ctx, "rec:k", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.Items[0].Destination != d || out.Items[0].Score != 5 {
		t.Fatalf("unexpected round trip: %+v", out.Items[0])
	}

	mr.FastForward(61 * time.Second)
	if ok, _ := c.Get(ctx, "rec:k", &out); ok {
		t.Fatalf("expected key to expire")
	}

	_ = c.Set(ctx, "ratings:all", []domain.Destination{d}, 60)
	if err := c.Del(ctx, "ratings:all"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("travel:ratings:all") {
		t.Fatalf("expected key deleted")
	}
}
