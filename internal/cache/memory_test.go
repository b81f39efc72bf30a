package cache

import (
	"context"
	"testing"
	"time"

	"github.com/arcnode/quote-aggregator/internal/entities"
)

func TestInMemoryTokenCacheRoundTrip(t *testing.T) {
	c := NewInMemoryTokenCache()
	ctx := context.Background()

	if err := c.SetToken(ctx, TokenCacheKey("0xabc"), entities.WETH, time.Minute); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	got, err := c.GetToken(ctx, TokenCacheKey("0xabc"))
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if got == nil || got.Symbol != "WETH" {
		t.Errorf("got %v, want WETH", got)
	}
}

func TestInMemoryTokenCacheMiss(t *testing.T) {
	c := NewInMemoryTokenCache()
	got, err := c.GetToken(context.Background(), TokenCacheKey("0xnope"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil on cache miss", got)
	}
}

func TestInMemoryTokenCacheExpiry(t *testing.T) {
	c := NewInMemoryTokenCache()
	ctx := context.Background()
	_ = c.SetToken(ctx, "k", entities.USDC, -time.Second)

	got, err := c.GetToken(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected expired entry to be treated as a miss")
	}
}
