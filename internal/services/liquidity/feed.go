package liquidity

import (
	"context"
	"time"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/adapters/pricefeed"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

const FeedProviderName = "feed"

// Synthetic depth in the reference currency by token popularity. The feed
// observes no on-chain depth, so trade-size modeling works off these tiers.
var popularityDepthUSD = map[string]float64{
	"major": 5_000_000,
	"mid":   500_000,
	"tail":  50_000,
}

const feedVenue = domain.ProtocolFeed

// FeedProvider fetches spot prices from the external feed and synthesizes
// depth and slippage from token popularity tiers.
type FeedProvider struct {
	docs    *config.DocumentStore
	fetcher pricefeed.Fetcher
	cache   *PriceCache
}

func NewFeedProvider(docs *config.DocumentStore, fetcher pricefeed.Fetcher, cacheTTL time.Duration) *FeedProvider {
	return &FeedProvider{
		docs:    docs,
		fetcher: fetcher,
		cache:   NewPriceCache(cacheTTL),
	}
}

func (p *FeedProvider) Name() string {
	return FeedProviderName
}

func (p *FeedProvider) feedID(token string) (string, bool) {
	id, ok := p.docs.Current().Tokens.FeedIDs[token]
	return id, ok
}

func (p *FeedProvider) Supports(ctx context.Context, base, quote string, opts domain.OracleOptions) bool {
	if p.fetcher == nil {
		return false
	}
	_, baseOK := p.feedID(base)
	_, quoteOK := p.feedID(quote)
	return baseOK && quoteOK
}

// usdPrice resolves a token's USD price through the TTL cache. A token with
// no feed id yields (0, false, nil); a fetch failure is a transport error.
func (p *FeedProvider) usdPrice(ctx context.Context, token string) (float64, bool, error) {
	id, ok := p.feedID(token)
	if !ok {
		return 0, false, nil
	}
	if v, ok := p.cache.Get(id); ok {
		return v, true, nil
	}

	prices, err := p.fetcher.SimplePrice(ctx, []string{id})
	if err != nil {
		return 0, false, err
	}
	v, ok := prices[id]
	if !ok {
		return 0, false, nil
	}
	p.cache.Set(id, v)
	return v, true, nil
}

func (p *FeedProvider) SpotPrice(ctx context.Context, base, quote string, opts domain.OracleOptions) (*float64, error) {
	basePx, ok, err := p.usdPrice(ctx, base)
	if err != nil || !ok {
		return nil, err
	}
	quotePx, ok, err := p.usdPrice(ctx, quote)
	if err != nil || !ok || quotePx <= 0 {
		return nil, err
	}
	return floatPtr(basePx / quotePx), nil
}

func (p *FeedProvider) popularity(token string) string {
	if info, ok := p.docs.Current().Catalog.Tokens[token]; ok && info.Popularity != "" {
		return info.Popularity
	}
	return "tail"
}

func (p *FeedProvider) Depth(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.PoolSnapshot, error) {
	basePx, ok, err := p.usdPrice(ctx, base)
	if err != nil || !ok || basePx <= 0 {
		return nil, err
	}
	quotePx, ok, err := p.usdPrice(ctx, quote)
	if err != nil || !ok || quotePx <= 0 {
		return nil, err
	}

	depthUSD := popularityDepthUSD[p.popularity(base)]
	if d := popularityDepthUSD[p.popularity(quote)]; d < depthUSD {
		// the pair is only as deep as its thinner side
		depthUSD = d
	}

	return &domain.PoolSnapshot{
		Chain:        opts.Chain,
		Base:         base,
		Quote:        quote,
		Venue:        feedVenue,
		BaseReserve:  depthUSD / basePx,
		QuoteReserve: depthUSD / quotePx,
		Liquidity:    depthUSD,
		SpotPrice:    basePx / quotePx,
		Source:       FeedProviderName,
		TakenAt:      time.Now(),
	}, nil
}

func (p *FeedProvider) SlippageCurve(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.SlippageCurve, error) {
	snap, err := p.Depth(ctx, base, quote, opts)
	if err != nil || snap == nil {
		return nil, err
	}
	return synthesizeCurve(snap.Chain, base, quote, snap.BaseReserve, FeedProviderName, opts.Amounts), nil
}

// CacheLen exposes the price cache size for stats endpoints.
func (p *FeedProvider) CacheLen() int {
	return p.cache.Len()
}
