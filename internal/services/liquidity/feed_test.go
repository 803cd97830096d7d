package liquidity

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

type fakeFetcher struct {
	prices map[string]float64
	err    error
	calls  int
}

func (f *fakeFetcher) SimplePrice(_ context.Context, ids []string) (map[string]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		if v, ok := f.prices[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func newFeedProvider(fetcher *fakeFetcher, ttl time.Duration) *FeedProvider {
	return NewFeedProvider(config.NewStaticDocumentStore(config.DefaultDocuments()), fetcher, ttl)
}

func TestFeedSpotPriceCrossRate(t *testing.T) {
	fetcher := &fakeFetcher{prices: map[string]float64{"ripple": 0.52, "tether": 1.0}}
	p := newFeedProvider(fetcher, time.Minute)

	price, err := p.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if price == nil || math.Abs(*price-0.52) > 1e-12 {
		t.Fatalf("XRP/USDT = %v, want 0.52", price)
	}
}

func TestFeedCachesPrices(t *testing.T) {
	fetcher := &fakeFetcher{prices: map[string]float64{"ripple": 0.52, "tether": 1.0}}
	p := newFeedProvider(fetcher, time.Minute)

	ctx := context.Background()
	if _, err := p.SpotPrice(ctx, "XRP", "USDT", domain.OracleOptions{}); err != nil {
		t.Fatal(err)
	}
	calls := fetcher.calls
	if _, err := p.SpotPrice(ctx, "XRP", "USDT", domain.OracleOptions{}); err != nil {
		t.Fatal(err)
	}
	if fetcher.calls != calls {
		t.Errorf("second lookup hit the feed: %d extra calls", fetcher.calls-calls)
	}
	if p.CacheLen() != 2 {
		t.Errorf("cache len %d, want 2", p.CacheLen())
	}
}

func TestFeedUnknownTokenIsNull(t *testing.T) {
	fetcher := &fakeFetcher{prices: map[string]float64{"ripple": 0.52}}
	p := newFeedProvider(fetcher, time.Minute)

	if p.Supports(context.Background(), "XRP", "DOGE", domain.OracleOptions{}) {
		t.Error("unmapped token supported")
	}

	price, err := p.SpotPrice(context.Background(), "XRP", "DOGE", domain.OracleOptions{})
	if err != nil || price != nil {
		t.Fatalf("unmapped token: %v %v", price, err)
	}
}

func TestFeedTransportError(t *testing.T) {
	p := newFeedProvider(&fakeFetcher{err: errors.New("feed down")}, time.Minute)

	if _, err := p.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{}); err == nil {
		t.Fatal("fetch failure must surface as an error")
	}
}

func TestFeedDepthUsesThinnerSide(t *testing.T) {
	// MATIC is a mid-popularity token, XRP major: the pair is mid-deep
	fetcher := &fakeFetcher{prices: map[string]float64{"ripple": 0.52, "matic-network": 0.85}}
	p := newFeedProvider(fetcher, time.Minute)

	snap, err := p.Depth(context.Background(), "XRP", "MATIC", domain.OracleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Liquidity != popularityDepthUSD["mid"] {
		t.Errorf("pair liquidity %f, want the mid tier", snap.Liquidity)
	}
	if snap.Venue != feedVenue {
		t.Errorf("venue %s", snap.Venue)
	}
}

func TestAnchorQuotesDepthNotPrice(t *testing.T) {
	p := NewAnchorProvider(config.ProviderEntry{
		Name: "anchor-meridian", FeeBps: 8, Tier: "institutional",
		Tokens: []string{"XRP", "USDT"},
	})

	ctx := context.Background()
	price, err := p.SpotPrice(ctx, "XRP", "USDT", domain.OracleOptions{})
	if err != nil || price != nil {
		t.Fatalf("anchor quoted a price: %v %v", price, err)
	}

	snap, err := p.Depth(ctx, "XRP", "USDT", domain.OracleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Liquidity != anchorTierScoreUSD["institutional"] {
		t.Errorf("liquidity %f, want the institutional score", snap.Liquidity)
	}
	if snap.FeeRate != 0.0008 {
		t.Errorf("fee rate %f, want 8 bps", snap.FeeRate)
	}

	curve, err := p.SlippageCurve(ctx, "XRP", "USDT", domain.OracleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for _, pt := range curve.Points {
		if pt.Pct != 0.0008 {
			t.Fatalf("anchor curve not flat: %+v", curve.Points)
		}
	}

	if p.Supports(ctx, "XRP", "DOGE", domain.OracleOptions{}) {
		t.Error("unlisted token supported")
	}
}
