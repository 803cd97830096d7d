package planner

import (
	"fmt"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

// Report is the outcome of a structural validation pass. Errors make the
// route unusable; warnings are advisory and travel with the route.
type Report struct {
	Errors   []string
	Warnings []string
}

func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validator performs the three independent route checks: structural
// soundness, caller constraints and executability. The checks never mix:
// a structurally broken route is a planner bug, a violated constraint is a
// caller decision, a non-executable route is a data/deployment gap.
type Validator struct {
	docs *config.DocumentStore
}

func NewValidator(docs *config.DocumentStore) *Validator {
	return &Validator{docs: docs}
}

// ValidateStructure checks that the hop sequence forms a coherent path over
// known chains and protocols.
func (v *Validator) ValidateStructure(route *domain.Route) Report {
	var r Report

	if len(route.Hops) == 0 {
		r.errorf("route has no hops")
		return r
	}

	docs := v.docs.Current()
	chains := docs.KnownChains()
	protocols := v.supportedProtocols(docs)
	if route.PathType == domain.PathDirect && len(route.Hops) != 1 {
		r.errorf("direct route has %d hops", len(route.Hops))
	}
	if route.PathType == domain.PathMultiHop && len(route.Hops) < 2 {
		r.warnf("multi-hop route has a single hop")
	}

	prevChain := route.Chain
	for i := range route.Hops {
		hop := &route.Hops[i]
		if hop.Index != i {
			r.errorf("hop %d carries index %d", i, hop.Index)
		}
		if hop.FromToken == "" || hop.ToToken == "" {
			r.errorf("hop %d is missing a token", i)
			continue
		}
		if hop.AmountIn <= 0 {
			r.errorf("hop %d has non-positive input %f", i, hop.AmountIn)
		}
		if _, ok := chains[hop.Chain]; !ok {
			r.errorf("hop %d is on unknown chain %s", i, hop.Chain)
		}
		if hop.Protocol != "" {
			if _, ok := protocols[hop.Protocol]; !ok {
				r.errorf("hop %d quotes unknown protocol %s", i, hop.Protocol)
			}
		}

		if i > 0 && hop.FromToken != route.Hops[i-1].ToToken {
			r.errorf("hop %d input %s does not continue hop %d output %s",
				i, hop.FromToken, i-1, route.Hops[i-1].ToToken)
		}

		if hop.IsBridge() {
			if hop.FromToken != hop.ToToken {
				r.errorf("bridge hop %d changes token %s to %s", i, hop.FromToken, hop.ToToken)
			}
			if hop.Chain == prevChain {
				r.warnf("bridge hop %d stays on %s", i, hop.Chain)
			}
		} else if hop.Chain != prevChain {
			r.warnf("hop %d moves to %s without a bridge", i, hop.Chain)
		}
		prevChain = hop.Chain
	}

	return r
}

// supportedProtocols is every protocol a hop may legitimately quote: the
// bridge marker, the built-in venue kinds, catalog venues and registered
// provider names (anchors quote under their own name).
func (v *Validator) supportedProtocols(docs *config.Documents) map[string]struct{} {
	protocols := map[string]struct{}{
		domain.ProtocolBridge:    {},
		domain.ProtocolAMM:       {},
		domain.ProtocolOrderbook: {},
		domain.ProtocolFeed:      {},
	}
	if docs.Catalog != nil {
		for _, pools := range docs.Catalog.Pools {
			for _, p := range pools {
				if p.Venue != "" {
					protocols[p.Venue] = struct{}{}
				}
			}
		}
	}
	if docs.Providers != nil {
		for _, p := range docs.Providers.Providers {
			protocols[p.Name] = struct{}{}
		}
	}
	return protocols
}

// CheckConstraints returns the caller constraints the route violates. A
// violation never invalidates the route; it is reported so the caller can
// decide whether to proceed.
func (v *Validator) CheckConstraints(route *domain.Route, c domain.Constraints) []string {
	var violations []string

	if c.MaxSlippagePct != nil && route.Slippage != nil &&
		route.Slippage.CumulativePct > *c.MaxSlippagePct {
		violations = append(violations, fmt.Sprintf(
			"slippage %.4f exceeds limit %.4f", route.Slippage.CumulativePct, *c.MaxSlippagePct))
	}
	if c.MaxFeeUSD != nil && route.Fees != nil && route.Fees.TotalUSD > *c.MaxFeeUSD {
		violations = append(violations, fmt.Sprintf(
			"fees %.2f USD exceed limit %.2f USD", route.Fees.TotalUSD, *c.MaxFeeUSD))
	}
	if c.MaxHops != nil && route.HopCount() > *c.MaxHops {
		violations = append(violations, fmt.Sprintf(
			"%d hops exceed limit %d", route.HopCount(), *c.MaxHops))
	}

	return violations
}

// CheckExecutability reports why a route cannot actually be executed today,
// or nil when every leg is live. Routes that fail here are dropped, never
// returned with annotations: offering a plan the system cannot carry out is
// worse than no plan.
func (v *Validator) CheckExecutability(route *domain.Route) []string {
	var reasons []string

	catalog := v.docs.Current().Catalog
	prevChain := route.Chain
	for i := range route.Hops {
		hop := &route.Hops[i]
		if hop.IsBridge() {
			entry, ok := catalog.FindBridge(hop.FromToken, prevChain, hop.Chain)
			switch {
			case !ok:
				reasons = append(reasons, fmt.Sprintf(
					"no bridge for %s from %s to %s", hop.FromToken, prevChain, hop.Chain))
			case entry.Stub:
				reasons = append(reasons, fmt.Sprintf(
					"bridge %s %s->%s is not yet operational", hop.FromToken, prevChain, hop.Chain))
			}
		}
		prevChain = hop.Chain
	}

	return reasons
}
