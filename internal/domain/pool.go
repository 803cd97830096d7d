package domain

import "time"

// PoolSnapshot is the state of one pool/venue for a token pair at query time.
// Snapshots are produced fresh per query by a liquidity provider and never
// mutated afterwards.
type PoolSnapshot struct {
	Chain string `json:"chain"`
	Base  string `json:"base"`
	Quote string `json:"quote"`

	// Venue is the trading venue the snapshot describes, e.g. "AMM",
	// "XRPL-DEX" or an anchor name.
	Venue string `json:"venue"`

	// Reserve quantities in token units. Zero when the provider only
	// observes an aggregate liquidity figure.
	BaseReserve  float64 `json:"baseReserve"`
	QuoteReserve float64 `json:"quoteReserve"`

	// Liquidity is an aggregate figure in the reference currency, used
	// when per-side reserves are not observable.
	Liquidity float64 `json:"liquidity,omitempty"`

	FeeRate   float64 `json:"feeRate"`
	SpotPrice float64 `json:"spotPrice"` // quote per base

	Source  string    `json:"source"` // answering provider
	TakenAt time.Time `json:"takenAt"`
}

// ReserveFor returns the reserve on the given token's side of the pool, in
// token units. Zero when the provider only observed the aggregate Liquidity
// figure, which is denominated in the reference currency instead.
func (s *PoolSnapshot) ReserveFor(token string) float64 {
	switch token {
	case s.Base:
		return s.BaseReserve
	case s.Quote:
		return s.QuoteReserve
	}
	return 0
}

// CurvePoint is one sampled point of a slippage curve.
type CurvePoint struct {
	Notional float64 `json:"notional"` // trade size in base token units
	Pct      float64 `json:"pct"`      // expected slippage fraction, 0.01 = 1%
}

// SlippageCurve is the per-pair slippage estimate a provider derives for a
// range of trade sizes.
type SlippageCurve struct {
	Chain  string       `json:"chain,omitempty"`
	Base   string       `json:"base"`
	Quote  string       `json:"quote"`
	Points []CurvePoint `json:"points"`
	Source string       `json:"source"`
}

// At interpolates the curve at the given notional. Sizes beyond the sampled
// range clamp to the nearest endpoint.
func (c *SlippageCurve) At(notional float64) float64 {
	if len(c.Points) == 0 {
		return 0
	}
	if notional <= c.Points[0].Notional {
		return c.Points[0].Pct
	}
	last := c.Points[len(c.Points)-1]
	if notional >= last.Notional {
		return last.Pct
	}
	for i := 1; i < len(c.Points); i++ {
		lo, hi := c.Points[i-1], c.Points[i]
		if notional <= hi.Notional {
			span := hi.Notional - lo.Notional
			if span <= 0 {
				return hi.Pct
			}
			frac := (notional - lo.Notional) / span
			return lo.Pct + frac*(hi.Pct-lo.Pct)
		}
	}
	return last.Pct
}
