package liquidity

import (
	"context"
	"time"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

// Liquidity score in the reference currency per anchor tier.
var anchorTierScoreUSD = map[string]float64{
	"institutional": 10_000_000,
	"standard":      1_000_000,
	"retail":        100_000,
}

// AnchorProvider represents a venue anchor quoting institutional-style
// liquidity: a static tiered liquidity score and a fixed fee in basis
// points. Anchors quote availability and cost, not price, so SpotPrice is
// always null.
type AnchorProvider struct {
	name   string
	feeBps int
	tier   string
	tokens map[string]struct{}
}

func NewAnchorProvider(entry config.ProviderEntry) *AnchorProvider {
	tokens := make(map[string]struct{}, len(entry.Tokens))
	for _, t := range entry.Tokens {
		tokens[t] = struct{}{}
	}
	tier := entry.Tier
	if _, ok := anchorTierScoreUSD[tier]; !ok {
		tier = "retail"
	}
	return &AnchorProvider{
		name:   entry.Name,
		feeBps: entry.FeeBps,
		tier:   tier,
		tokens: tokens,
	}
}

func (p *AnchorProvider) Name() string {
	return p.name
}

func (p *AnchorProvider) Supports(ctx context.Context, base, quote string, opts domain.OracleOptions) bool {
	_, baseOK := p.tokens[base]
	_, quoteOK := p.tokens[quote]
	return baseOK && quoteOK
}

func (p *AnchorProvider) SpotPrice(ctx context.Context, base, quote string, opts domain.OracleOptions) (*float64, error) {
	return nil, nil
}

func (p *AnchorProvider) Depth(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.PoolSnapshot, error) {
	if !p.Supports(ctx, base, quote, opts) {
		return nil, nil
	}
	return &domain.PoolSnapshot{
		Chain:     opts.Chain,
		Base:      base,
		Quote:     quote,
		Venue:     p.name,
		Liquidity: anchorTierScoreUSD[p.tier],
		FeeRate:   float64(p.feeBps) / 10_000,
		Source:    p.name,
		TakenAt:   time.Now(),
	}, nil
}

// SlippageCurve is flat at the anchor's fee: the venue fills any size inside
// its score at the quoted spread.
func (p *AnchorProvider) SlippageCurve(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.SlippageCurve, error) {
	if !p.Supports(ctx, base, quote, opts) {
		return nil, nil
	}
	amounts := opts.Amounts
	if len(amounts) == 0 {
		amounts = []float64{1_000, 10_000, 100_000}
	}
	pct := float64(p.feeBps) / 10_000
	points := make([]domain.CurvePoint, 0, len(amounts))
	for _, a := range amounts {
		points = append(points, domain.CurvePoint{Notional: a, Pct: pct})
	}
	return &domain.SlippageCurve{
		Chain:  opts.Chain,
		Base:   base,
		Quote:  quote,
		Points: points,
		Source: p.name,
	}, nil
}
