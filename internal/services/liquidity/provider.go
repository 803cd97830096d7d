// Package liquidity implements the liquidity oracle and its providers: the
// components that answer "what would this swap cost now" from offline,
// on-ledger and external data sources.
package liquidity

import (
	"context"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

// Provider is the capability interface every liquidity source implements.
//
// A provider must never fail merely because a pair has no data: no data is a
// nil value with a nil error. An error return means the provider itself is
// currently unusable (transport, timeout), and callers treat it as "try the
// next provider", never as "no liquidity".
type Provider interface {
	Name() string

	// Supports reports whether the provider can in principle answer for
	// this pair under these options. It must be cheap; pair-level data
	// absence is still reported as nil from the query methods.
	Supports(ctx context.Context, base, quote string, opts domain.OracleOptions) bool

	SpotPrice(ctx context.Context, base, quote string, opts domain.OracleOptions) (*float64, error)
	Depth(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.PoolSnapshot, error)
	SlippageCurve(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.SlippageCurve, error)
}

// Depth-ratio tiers used when a provider synthesizes a slippage curve from a
// single depth figure. Mirrors the planner's tier policy defaults.
var (
	curveTierRatios    = []float64{0.01, 0.05, 0.10, 0.20}
	curveTierEstimates = []float64{0.001, 0.005, 0.02, 0.05, 0.08}
)

// synthesizeCurve samples the depth-ratio tier model into a curve for the
// given pool depth (in base token units).
func synthesizeCurve(chain, base, quote string, depth float64, source string, amounts []float64) *domain.SlippageCurve {
	if depth <= 0 {
		return nil
	}
	if len(amounts) == 0 {
		// sample one point per tier boundary
		amounts = make([]float64, 0, len(curveTierRatios)+1)
		for _, r := range curveTierRatios {
			amounts = append(amounts, depth*r)
		}
		amounts = append(amounts, depth*0.5)
	}

	points := make([]domain.CurvePoint, 0, len(amounts))
	for _, a := range amounts {
		points = append(points, domain.CurvePoint{
			Notional: a,
			Pct:      tierEstimate(a, depth),
		})
	}
	return &domain.SlippageCurve{
		Chain:  chain,
		Base:   base,
		Quote:  quote,
		Points: points,
		Source: source,
	}
}

func tierEstimate(amount, depth float64) float64 {
	if depth <= 0 {
		return curveTierEstimates[len(curveTierEstimates)-1]
	}
	ratio := amount / depth
	for i, boundary := range curveTierRatios {
		if ratio < boundary {
			return curveTierEstimates[i]
		}
	}
	return curveTierEstimates[len(curveTierEstimates)-1]
}

func floatPtr(v float64) *float64 {
	return &v
}
