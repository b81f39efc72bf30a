package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arcnode/quote-aggregator/internal/entities"
)

// tokenConfig is the JSON shape of one entry in an operator-supplied
// token list.
type tokenConfig struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

type tokensConfig struct {
	Tokens []tokenConfig `json:"tokens"`
}

// Registry holds the known tokens indexed by lowercased address and
// uppercased symbol. Built once at startup; never mutated while
// serving requests.
type Registry struct {
	byAddress map[string]entities.Token
	bySymbol  map[string]entities.Token
	all       []entities.Token
}

// New returns an empty registry seeded with the native pseudo-token.
func New() *Registry {
	r := &Registry{
		byAddress: make(map[string]entities.Token),
		bySymbol:  make(map[string]entities.Token),
		all:       make([]entities.Token, 0),
	}
	r.Register(entities.Native)
	return r
}

// DefaultRegistry returns a registry seeded with native ETH plus the
// four common bases (WETH, USDC, USDT, DAI).
func DefaultRegistry() *Registry {
	r := New()
	r.Register(entities.WETH)
	r.Register(entities.USDC)
	r.Register(entities.USDT)
	r.Register(entities.DAI)
	return r
}

// LoadFromFile reads an operator-supplied JSON token list and
// registers each entry, in addition to whatever is already present.
func (r *Registry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read token config: %w", err)
	}

	var cfg tokensConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse token config: %w", err)
	}

	for _, tc := range cfg.Tokens {
		r.Register(entities.NewToken(common.HexToAddress(tc.Address), tc.Symbol, tc.Name, tc.Decimals))
	}
	return nil
}

// Register adds or overwrites a token in the registry.
func (r *Registry) Register(token entities.Token) {
	key := entities.AddressKey(token.Address)
	if _, exists := r.byAddress[key]; exists {
		for i, t := range r.all {
			if entities.AddressKey(t.Address) == key {
				r.all[i] = token
				break
			}
		}
	} else {
		r.all = append(r.all, token)
	}
	r.byAddress[key] = token
	r.bySymbol[strings.ToUpper(token.Symbol)] = token
}

// GetByAddress looks up a token by address, case-insensitively.
func (r *Registry) GetByAddress(addr common.Address) (entities.Token, bool) {
	token, ok := r.byAddress[entities.AddressKey(addr)]
	return token, ok
}

// GetBySymbol looks up a token by symbol, case-insensitively.
func (r *Registry) GetBySymbol(symbol string) (entities.Token, bool) {
	token, ok := r.bySymbol[strings.ToUpper(symbol)]
	return token, ok
}

// GetAll returns every registered token.
func (r *Registry) GetAll() []entities.Token {
	return r.all
}

// GetCommonBases returns the fixed set of tokens every quote request
// is evaluated against for routing purposes: native ETH and the three
// major stablecoins/WETH.
func (r *Registry) GetCommonBases() []entities.Token {
	bases := make([]entities.Token, 0, 4)
	for _, symbol := range []string{"ETH", "WETH", "USDC", "USDT", "DAI"} {
		if token, ok := r.GetBySymbol(symbol); ok {
			bases = append(bases, token)
		}
	}
	return bases
}

// IsNative reports whether addr is the sentinel native-token address.
func (r *Registry) IsNative(addr common.Address) bool {
	return entities.IsNativeAddress(addr)
}

// Count returns the number of registered tokens.
func (r *Registry) Count() int {
	return len(r.all)
}
