package liquidity

import (
	"context"
	"time"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

const CatalogProviderName = "catalog"

// CatalogProvider answers from the offline liquidity catalog. It is fully
// deterministic, never touches the network and serves as the fallback of
// last resort in auto mode and the only source in simulated mode.
type CatalogProvider struct {
	docs *config.DocumentStore
}

func NewCatalogProvider(docs *config.DocumentStore) *CatalogProvider {
	return &CatalogProvider{docs: docs}
}

func (p *CatalogProvider) Name() string {
	return CatalogProviderName
}

func (p *CatalogProvider) chainFor(base string, opts domain.OracleOptions) string {
	if opts.Chain != "" {
		return opts.Chain
	}
	return p.docs.Current().Catalog.DefaultChain(base)
}

func (p *CatalogProvider) Supports(ctx context.Context, base, quote string, opts domain.OracleOptions) bool {
	cat := p.docs.Current().Catalog
	if _, _, ok := cat.FindPool(p.chainFor(base, opts), base, quote); ok {
		return true
	}
	if _, ok := cat.FindSynthetic(base, quote); ok {
		return true
	}
	_, baseOK := cat.PriceUSD(base)
	_, quoteOK := cat.PriceUSD(quote)
	return baseOK && quoteOK
}

// SpotPrice prefers a configured pool's mid price and falls back to the
// reference price table cross rate (which also covers synthetic pairs).
func (p *CatalogProvider) SpotPrice(ctx context.Context, base, quote string, opts domain.OracleOptions) (*float64, error) {
	cat := p.docs.Current().Catalog

	if pool, inverted, ok := cat.FindPool(p.chainFor(base, opts), base, quote); ok {
		if pool.BaseReserve > 0 && pool.QuoteReserve > 0 {
			price := pool.QuoteReserve / pool.BaseReserve
			if inverted {
				price = pool.BaseReserve / pool.QuoteReserve
			}
			return floatPtr(price), nil
		}
	}

	basePx, baseOK := cat.PriceUSD(base)
	quotePx, quoteOK := cat.PriceUSD(quote)
	if baseOK && quoteOK && quotePx > 0 {
		return floatPtr(basePx / quotePx), nil
	}
	return nil, nil
}

// Depth returns a snapshot of the configured pool for the pair, or nil when
// the catalog only knows the pair through the price table.
func (p *CatalogProvider) Depth(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.PoolSnapshot, error) {
	chain := p.chainFor(base, opts)
	cat := p.docs.Current().Catalog

	pool, inverted, ok := cat.FindPool(chain, base, quote)
	if !ok || pool.BaseReserve <= 0 || pool.QuoteReserve <= 0 {
		return nil, nil
	}

	baseReserve, quoteReserve := pool.BaseReserve, pool.QuoteReserve
	if inverted {
		baseReserve, quoteReserve = quoteReserve, baseReserve
	}
	venue := pool.Venue
	if venue == "" {
		venue = domain.ProtocolAMM
	}

	return &domain.PoolSnapshot{
		Chain:        chain,
		Base:         base,
		Quote:        quote,
		Venue:        venue,
		BaseReserve:  baseReserve,
		QuoteReserve: quoteReserve,
		FeeRate:      pool.FeeRate,
		SpotPrice:    quoteReserve / baseReserve,
		Source:       CatalogProviderName,
		TakenAt:      time.Now(),
	}, nil
}

func (p *CatalogProvider) SlippageCurve(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.SlippageCurve, error) {
	snap, err := p.Depth(ctx, base, quote, opts)
	if err != nil || snap == nil {
		return nil, err
	}
	return synthesizeCurve(snap.Chain, base, quote, snap.BaseReserve, CatalogProviderName, opts.Amounts), nil
}
