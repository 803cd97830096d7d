package config

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// ProviderRegistry is the provider-registry document: which liquidity
// providers exist, their default priority rank and per-chain overrides.
type ProviderRegistry struct {
	DefaultMode   string              `yaml:"default_mode"`
	Providers     []ProviderEntry     `yaml:"providers"`
	ChainPriority map[string][]string `yaml:"chain_priority"`
}

// ProviderEntry describes one registered provider. Anchor entries carry the
// static quoting parameters of the venue they represent.
type ProviderEntry struct {
	Name     string   `yaml:"name"`
	Enabled  bool     `yaml:"enabled"`
	Priority int      `yaml:"priority"` // lower ranks first
	Chains   []string `yaml:"chains,omitempty"`

	// Anchor-only fields.
	FeeBps int      `yaml:"fee_bps,omitempty"`
	Tier   string   `yaml:"tier,omitempty"`
	Tokens []string `yaml:"tokens,omitempty"`
}

// Catalog is the offline liquidity catalog: pools per chain, cross-chain
// bridges, synthetic cross-rate pairs and a reference price table.
type Catalog struct {
	Prices         map[string]float64     `yaml:"prices"`
	Tokens         map[string]TokenInfo   `yaml:"tokens"`
	Pools          map[string][]PoolEntry `yaml:"pools"`
	Bridges        []BridgeEntry          `yaml:"bridges"`
	SyntheticPairs []SyntheticPair        `yaml:"synthetic_pairs"`
}

type TokenInfo struct {
	Chain      string `yaml:"chain"`
	Popularity string `yaml:"popularity"` // major | mid | tail
}

type PoolEntry struct {
	Base         string  `yaml:"base"`
	Quote        string  `yaml:"quote"`
	Venue        string  `yaml:"venue,omitempty"` // defaults to AMM
	BaseReserve  float64 `yaml:"base_reserve"`
	QuoteReserve float64 `yaml:"quote_reserve"`
	FeeRate      float64 `yaml:"fee_rate"`
}

// BridgeEntry describes one bridgeable token between two chains. Stub marks
// a configured but unimplemented leg: the validator rejects routes that
// touch it as not executable.
type BridgeEntry struct {
	Token       string  `yaml:"token"`
	From        string  `yaml:"from"`
	To          string  `yaml:"to"`
	FixedFeeUSD float64 `yaml:"fixed_fee_usd"`
	Pct         float64 `yaml:"pct"`
	Stub        bool    `yaml:"stub,omitempty"`
}

type SyntheticPair struct {
	Base  string `yaml:"base"`
	Quote string `yaml:"quote"`
	Via   string `yaml:"via"`
}

// TokenMap is the network/token-id mapping document for the external price
// feed.
type TokenMap struct {
	FeedIDs  map[string]string `yaml:"feed_ids"`  // token symbol -> feed id
	Networks map[string]string `yaml:"networks"`  // chain -> feed platform id
}

// Documents bundles the three structured config documents. A bundle is
// immutable after load; reload builds a new bundle and swaps it atomically.
type Documents struct {
	Providers *ProviderRegistry
	Catalog   *Catalog
	Tokens    *TokenMap
}

// KnownChains collects every chain the documents reference: pool chains,
// token home chains, bridge endpoints and the priority tables.
func (d *Documents) KnownChains() map[string]struct{} {
	chains := make(map[string]struct{})
	if d.Catalog != nil {
		for chain := range d.Catalog.Pools {
			chains[chain] = struct{}{}
		}
		for _, t := range d.Catalog.Tokens {
			chains[t.Chain] = struct{}{}
		}
		for _, b := range d.Catalog.Bridges {
			chains[b.From] = struct{}{}
			chains[b.To] = struct{}{}
		}
	}
	if d.Providers != nil {
		for chain := range d.Providers.ChainPriority {
			chains[chain] = struct{}{}
		}
		for _, p := range d.Providers.Providers {
			for _, chain := range p.Chains {
				chains[chain] = struct{}{}
			}
		}
	}
	return chains
}

// DocumentStore owns the current document bundle and supports runtime reload
// without process restart. Readers call Current() per use and never hold a
// bundle across requests longer than necessary.
type DocumentStore struct {
	providersPath string
	catalogPath   string
	tokenMapPath  string

	cur atomic.Pointer[Documents]
}

func NewDocumentStore(providersPath, catalogPath, tokenMapPath string) *DocumentStore {
	return &DocumentStore{
		providersPath: providersPath,
		catalogPath:   catalogPath,
		tokenMapPath:  tokenMapPath,
	}
}

// NewStaticDocumentStore wraps an already-built bundle; used by tests and by
// simulated deployments with no document files.
func NewStaticDocumentStore(docs *Documents) *DocumentStore {
	s := &DocumentStore{}
	s.cur.Store(docs)
	return s
}

// Load parses all three documents and swaps the bundle in one step. A parse
// failure leaves the previous bundle in place.
func (s *DocumentStore) Load() error {
	defaults := DefaultDocuments()

	docs := &Documents{}

	providers := defaults.Providers
	if s.providersPath != "" {
		p := &ProviderRegistry{}
		if err := readYAML(s.providersPath, p); err != nil {
			return fmt.Errorf("provider registry: %w", err)
		}
		providers = p
	}
	docs.Providers = providers

	catalog := defaults.Catalog
	if s.catalogPath != "" {
		c := &Catalog{}
		if err := readYAML(s.catalogPath, c); err != nil {
			return fmt.Errorf("liquidity catalog: %w", err)
		}
		catalog = c
	}
	docs.Catalog = catalog

	tokens := defaults.Tokens
	if s.tokenMapPath != "" {
		t := &TokenMap{}
		if err := readYAML(s.tokenMapPath, t); err != nil {
			return fmt.Errorf("token map: %w", err)
		}
		tokens = t
	}
	docs.Tokens = tokens

	s.cur.Store(docs)
	return nil
}

// Reload re-parses the documents from disk. Safe to call concurrently with
// readers.
func (s *DocumentStore) Reload() error {
	return s.Load()
}

// Current returns the active bundle.
func (s *DocumentStore) Current() *Documents {
	return s.cur.Load()
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// --- catalog lookups ---

// DefaultChain returns the home chain configured for a token, or "" when the
// token is unknown.
func (c *Catalog) DefaultChain(token string) string {
	if info, ok := c.Tokens[token]; ok {
		return info.Chain
	}
	return ""
}

// PriceUSD looks up the reference price table.
func (c *Catalog) PriceUSD(token string) (float64, bool) {
	p, ok := c.Prices[token]
	return p, ok
}

// FindPool returns the pool for a pair on a chain. inverted is true when the
// pool lists the pair in the opposite order.
func (c *Catalog) FindPool(chain, base, quote string) (*PoolEntry, bool, bool) {
	for i := range c.Pools[chain] {
		p := &c.Pools[chain][i]
		if p.Base == base && p.Quote == quote {
			return p, false, true
		}
		if p.Base == quote && p.Quote == base {
			return p, true, true
		}
	}
	return nil, false, false
}

// BridgesBetween returns every bridge entry connecting two chains.
func (c *Catalog) BridgesBetween(from, to string) []BridgeEntry {
	var out []BridgeEntry
	for _, b := range c.Bridges {
		if b.From == from && b.To == to {
			out = append(out, b)
		}
	}
	return out
}

// FindBridge returns the bridge entry for a token between two chains.
func (c *Catalog) FindBridge(token, from, to string) (*BridgeEntry, bool) {
	for i := range c.Bridges {
		b := &c.Bridges[i]
		if b.Token == token && b.From == from && b.To == to {
			return b, true
		}
	}
	return nil, false
}

// FindSynthetic returns the synthetic cross-rate entry for a pair in either
// direction.
func (c *Catalog) FindSynthetic(base, quote string) (*SyntheticPair, bool) {
	for i := range c.SyntheticPairs {
		sp := &c.SyntheticPairs[i]
		if (sp.Base == base && sp.Quote == quote) || (sp.Base == quote && sp.Quote == base) {
			return sp, true
		}
	}
	return nil, false
}
