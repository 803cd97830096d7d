package config

import (
	"fmt"
	"time"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/common"
)

// EngineConfig configures the route-planning engine: document paths, the
// default liquidity mode and the latency/freshness knobs of the oracle layer.
type EngineConfig struct {
	// Paths to the three structured config documents. Empty paths fall
	// back to the built-in simulation documents.
	ProvidersPath string
	CatalogPath   string
	TokenMapPath  string

	// Mode is the default liquidity mode: simulated, live or auto.
	Mode string

	// QueryTimeout bounds every external provider call. A timeout is
	// treated like a null answer: the provider drops out of the current
	// lookup, the request itself continues.
	QueryTimeout time.Duration

	// PriceCacheTTL bounds staleness of externally fetched spot prices.
	PriceCacheTTL time.Duration

	FeedBaseURL  string
	LedgerRPCURL string

	// IntermediateTokens are the same-chain multi-hop pivot candidates.
	IntermediateTokens []string

	MaxRouteHops int

	// ExcessiveSlippagePct overrides the slippage policy's excessive
	// threshold; zero keeps the default.
	ExcessiveSlippagePct float64
}

func (c *EngineConfig) Key() string {
	return ENGINE_CONFIG_KEY
}

func (c *EngineConfig) Load() error {
	c.ProvidersPath = common.GetEnvOrDefault("PROVIDERS_CONFIG_PATH", "")
	c.CatalogPath = common.GetEnvOrDefault("CATALOG_CONFIG_PATH", "")
	c.TokenMapPath = common.GetEnvOrDefault("TOKENMAP_CONFIG_PATH", "")
	c.Mode = common.GetEnvOrDefault("LIQUIDITY_MODE", "auto")
	c.QueryTimeout = common.GetEnvOrDefaultDuration("ORACLE_QUERY_TIMEOUT", 5*time.Second)
	c.PriceCacheTTL = common.GetEnvOrDefaultDuration("PRICE_CACHE_TTL", 10*time.Second)
	c.FeedBaseURL = common.GetEnvOrDefault("FEED_BASE_URL", "https://api.coingecko.com/api/v3")
	c.LedgerRPCURL = common.GetEnvOrDefault("LEDGER_RPC_URL", "https://s1.ripple.com:51234")
	c.IntermediateTokens = splitCSV(common.GetEnvOrDefault("INTERMEDIATE_TOKENS", "USDT,XRP"))
	c.MaxRouteHops = common.GetEnvOrDefaultInt("MAX_ROUTE_HOPS", 3)
	c.ExcessiveSlippagePct = common.GetEnvOrDefaultFloat("EXCESSIVE_SLIPPAGE_PCT", 0)
	return c.Validate()
}

func (c *EngineConfig) Validate() error {
	switch c.Mode {
	case "simulated", "live", "auto":
	default:
		return fmt.Errorf("invalid liquidity mode %q", c.Mode)
	}
	if c.QueryTimeout <= 0 || c.PriceCacheTTL <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxRouteHops < 1 {
		return fmt.Errorf("MAX_ROUTE_HOPS must be at least 1")
	}
	return nil
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
