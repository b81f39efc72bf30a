package cache

import (
	"context"
	"sync"
	"time"

	"github.com/arcnode/quote-aggregator/internal/entities"
)

// InMemoryTokenCache is the TokenCache used when REDIS_ADDR isn't
// configured: same memoization semantics, no external dependency.
type InMemoryTokenCache struct {
	mu      sync.Mutex
	entries map[string]*cachedToken
}

type cachedToken struct {
	token     entities.Token
	expiresAt time.Time
}

func NewInMemoryTokenCache() *InMemoryTokenCache {
	return &InMemoryTokenCache{entries: make(map[string]*cachedToken)}
}

func (c *InMemoryTokenCache) GetToken(ctx context.Context, key string) (*entities.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		if time.Now().Before(entry.expiresAt) {
			token := entry.token
			return &token, nil
		}
		delete(c.entries, key)
	}
	return nil, nil
}

func (c *InMemoryTokenCache) SetToken(ctx context.Context, key string, token entities.Token, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cachedToken{token: token, expiresAt: time.Now().Add(ttl)}
	return nil
}
