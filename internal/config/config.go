package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arcnode/quote-aggregator/internal/entities"
)

// Config is the process-wide configuration, loaded once at startup
// from environment variables and never mutated afterward.
type Config struct {
	Port       string
	RPCURL     string
	RedisAddr  string
	LogLevel   string
	TokensFile string

	V2 *entities.VenueConfig // nil when V2 env vars are absent
	V3 *entities.VenueConfig // nil when V3 env vars are absent

	AggregatorContractAddress common.Address // optional; loaded from AGGREGATOR_CONTRACT_ADDRESS, not read by any handler
}

// Load reads and validates configuration from the environment. At
// least one of V2 or V3 must be fully configured; both absent fails
// startup.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "3000"),
		RPCURL:     getEnv("RPC_URL", ""),
		RedisAddr:  getEnv("REDIS_ADDR", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		TokensFile: getEnv("TOKENS_FILE", ""),
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC_URL is required")
	}

	factory := getEnv("FACTORY_ADDRESS", "")
	router := getEnv("ROUTER_ADDRESS", "")
	if factory != "" && router != "" {
		cfg.V2 = &entities.VenueConfig{
			Name:     "uniswap-v2",
			Protocol: entities.ProtocolV2,
			Factory:  common.HexToAddress(factory),
			Router:   common.HexToAddress(router),
		}
	}

	v3Factory := getEnv("V3_FACTORY_ADDRESS", "")
	v3Quoter := getEnv("V3_QUOTER_ADDRESS", "")
	v3Router := getEnv("V3_SWAP_ROUTER_ADDRESS", "")
	if v3Factory != "" && v3Quoter != "" {
		cfg.V3 = &entities.VenueConfig{
			Name:     "uniswap-v3",
			Protocol: entities.ProtocolV3,
			Factory:  common.HexToAddress(v3Factory),
			Quoter:   common.HexToAddress(v3Quoter),
			V3Router: common.HexToAddress(v3Router),
		}
	}

	if cfg.V2 == nil && cfg.V3 == nil {
		return nil, fmt.Errorf("at least one of V2 (FACTORY_ADDRESS+ROUTER_ADDRESS) or V3 (V3_FACTORY_ADDRESS+V3_QUOTER_ADDRESS) must be configured")
	}
	if cfg.V2 != nil {
		if err := cfg.V2.Validate(); err != nil {
			return nil, err
		}
	}
	if cfg.V3 != nil {
		if err := cfg.V3.Validate(); err != nil {
			return nil, err
		}
	}

	if aggAddr := getEnv("AGGREGATOR_CONTRACT_ADDRESS", ""); aggAddr != "" {
		cfg.AggregatorContractAddress = common.HexToAddress(aggAddr)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
