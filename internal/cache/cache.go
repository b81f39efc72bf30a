package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/arcnode/quote-aggregator/internal/entities"
)

func addressFromHex(hex string) common.Address {
	return common.HexToAddress(hex)
}

// TokenCache memoizes resolved ERC-20 metadata. The quote path itself
// is never cached — reserves, sqrt prices, and quotes must always be
// read fresh — only the read-mostly token symbol/name/decimals lookup
// is worth memoizing.
type TokenCache interface {
	GetToken(ctx context.Context, key string) (*entities.Token, error)
	SetToken(ctx context.Context, key string, token entities.Token, ttl time.Duration) error
}

// TokenCacheKey builds the cache key for a token address. It does not
// normalize addr; callers pass the lowercased form from
// entities.AddressKey.
func TokenCacheKey(addr string) string {
	return fmt.Sprintf("token:%s", addr)
}

// RedisTokenCache implements TokenCache against a Redis instance.
type RedisTokenCache struct {
	client *redis.Client
}

// NewRedisTokenCache dials addr and verifies connectivity before
// returning.
func NewRedisTokenCache(addr, password string, db int) (*RedisTokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisTokenCache{client: client}, nil
}

func (c *RedisTokenCache) Close() error {
	return c.client.Close()
}

func (c *RedisTokenCache) GetToken(ctx context.Context, key string) (*entities.Token, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	token := stored.toToken()
	return &token, nil
}

func (c *RedisTokenCache) SetToken(ctx context.Context, key string, token entities.Token, ttl time.Duration) error {
	data, err := json.Marshal(fromToken(token))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// storedToken is the JSON wire shape for a cached token: common.Address
// doesn't round-trip cleanly through Redis's raw bytes API the way it
// does over HTTP, so addresses are stored as hex strings explicitly.
type storedToken struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

func fromToken(t entities.Token) storedToken {
	return storedToken{
		Address:  t.Address.Hex(),
		Symbol:   t.Symbol,
		Name:     t.Name,
		Decimals: t.Decimals,
	}
}

func (s storedToken) toToken() entities.Token {
	return entities.NewToken(addressFromHex(s.Address), s.Symbol, s.Name, s.Decimals)
}
