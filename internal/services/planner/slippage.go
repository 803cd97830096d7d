package planner

import (
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/metrics"
)

// TierPolicy maps a hop's depth ratio (trade size over pool depth) to a
// slippage estimate, and sets the route-level classification thresholds.
type TierPolicy struct {
	// Ratios are the tier boundaries; Estimates has one more element than
	// Ratios, the last being the estimate for trades beyond the deepest
	// boundary.
	Ratios    []float64
	Estimates []float64

	// ExcessivePct marks a route as exceeding acceptable slippage.
	ExcessivePct float64

	WarningPct  float64
	CriticalPct float64
}

// DefaultTierPolicy is the five-tier depth-ratio model: under 1% of depth a
// trade barely moves the price, past 20% it is quoted at 8%.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{
		Ratios:       []float64{0.01, 0.05, 0.10, 0.20},
		Estimates:    []float64{0.001, 0.005, 0.02, 0.05, 0.08},
		ExcessivePct: 0.05,
		WarningPct:   0.01,
		CriticalPct:  0.10,
	}
}

// Estimate returns the tier estimate for the given depth ratio. A zero or
// unknown depth is treated as the thinnest tier.
func (p TierPolicy) Estimate(ratio float64) float64 {
	if ratio <= 0 {
		return p.Estimates[len(p.Estimates)-1]
	}
	for i, boundary := range p.Ratios {
		if ratio < boundary {
			return p.Estimates[i]
		}
	}
	return p.Estimates[len(p.Estimates)-1]
}

// Severity classifies a cumulative slippage fraction.
func (p TierPolicy) Severity(pct float64) domain.SlippageSeverity {
	switch {
	case pct >= p.CriticalPct:
		return domain.SlippageSeverityCritical
	case pct >= p.WarningPct:
		return domain.SlippageSeverityWarning
	default:
		return domain.SlippageSeverityNone
	}
}

// SlippageEngine estimates per-hop price impact from pool depth and
// aggregates it across a route. The pricer converts trade sizes to the
// reference currency when a venue only reports aggregate liquidity.
type SlippageEngine struct {
	policy TierPolicy
	price  Pricer
}

func NewSlippageEngine(policy TierPolicy, price Pricer) *SlippageEngine {
	if price == nil {
		price = func(string) (float64, bool) { return 0, false }
	}
	return &SlippageEngine{policy: policy, price: price}
}

// HopEstimate returns the slippage fraction for one hop. Bridge hops move a
// token 1:1 and incur no price impact.
func (e *SlippageEngine) HopEstimate(hop *domain.Hop) float64 {
	worst := e.policy.Estimates[len(e.policy.Estimates)-1]
	if hop.IsBridge() {
		return 0
	}
	snap := hop.Snapshot
	if snap == nil {
		return worst
	}

	amount := hop.AmountIn
	depth := snap.ReserveFor(hop.FromToken)
	if depth <= 0 {
		// aggregate liquidity is quoted in the reference currency, so
		// the trade size must be converted before the ratio
		depth = snap.Liquidity
		px, ok := e.price(hop.FromToken)
		if depth <= 0 || !ok {
			return worst
		}
		amount = hop.AmountIn * px
	}
	return e.policy.Estimate(amount / depth)
}

// Annotate fills Hop.Slippage and Route.Slippage.
//
// Cumulative slippage compounds multiplicatively, 1 - prod(1 - s_i), so it is
// strictly below 100% while every hop is, and adding a hop never reduces it.
func (e *SlippageEngine) Annotate(route *domain.Route) {
	rs := &domain.RouteSlippage{
		Hops: make([]domain.HopSlippage, 0, len(route.Hops)),
	}

	retained := 1.0
	for i := range route.Hops {
		hop := &route.Hops[i]
		pct := e.HopEstimate(hop)
		retained *= 1 - pct

		hs := domain.HopSlippage{
			Index:     hop.Index,
			Pct:       pct,
			MinOutput: hop.AmountOut * (1 - pct),
		}
		hop.Slippage = &hs
		rs.Hops = append(rs.Hops, hs)
	}

	rs.CumulativePct = 1 - retained
	rs.MinOutput = route.ExpectedOutput * retained
	rs.IsExcessive = rs.CumulativePct >= e.policy.ExcessivePct
	rs.Severity = e.policy.Severity(rs.CumulativePct)

	metrics.RouteSlippagePct.WithLabelValues(string(rs.Severity)).Observe(rs.CumulativePct)

	route.Slippage = rs
}

// Policy returns the engine's tier policy.
func (e *SlippageEngine) Policy() TierPolicy {
	return e.policy
}
