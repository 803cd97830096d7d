// Package planner implements route construction, pricing annotation,
// validation and ranking for swap planning requests.
package planner

import (
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

// Pricer converts a token symbol to a reference-currency price. The fee model
// degrades gracefully when a price is unknown: the native portion is still
// reported, the reference total just misses that component.
type Pricer func(token string) (float64, bool)

// FeeProfile describes how execution is paid for on one chain. Ledger chains
// charge a flat per-transaction fee; EVM-style chains meter gas per swap.
type FeeProfile struct {
	NativeToken string

	// NetworkFee is the flat per-transaction fee in native units. When
	// set, swap hops on the chain are billed as network fees.
	NetworkFee float64

	// GasLimit and GasPriceNative meter AMM swaps: gas cost in native
	// units is GasLimit * GasPriceNative.
	GasLimit       float64
	GasPriceNative float64

	// AMMFeeRate is the pool fee fallback when a hop has no snapshot.
	AMMFeeRate float64
}

var defaultFeeProfiles = map[string]FeeProfile{
	"XRPL":    {NativeToken: "XRP", NetworkFee: 0.000012},
	"ETH":     {NativeToken: "ETH", GasLimit: 150_000, GasPriceNative: 25e-9, AMMFeeRate: 0.003},
	"BSC":     {NativeToken: "BNB", GasLimit: 150_000, GasPriceNative: 5e-9, AMMFeeRate: 0.0025},
	"POLYGON": {NativeToken: "MATIC", GasLimit: 150_000, GasPriceNative: 60e-9, AMMFeeRate: 0.003},
}

// FeeModel estimates per-hop execution cost and aggregates route totals.
// Bridge schedules come from the catalog; network and gas parameters from
// per-chain profiles.
type FeeModel struct {
	docs     *config.DocumentStore
	profiles map[string]FeeProfile
	price    Pricer
}

func NewFeeModel(docs *config.DocumentStore, price Pricer) *FeeModel {
	return &FeeModel{
		docs:     docs,
		profiles: defaultFeeProfiles,
		price:    price,
	}
}

// profileFor returns the chain's fee profile, defaulting to an EVM-style
// profile with the chain symbol as its native token.
func (m *FeeModel) profileFor(chain string) FeeProfile {
	if p, ok := m.profiles[chain]; ok {
		return p
	}
	return FeeProfile{NativeToken: chain, GasLimit: 150_000, GasPriceNative: 25e-9, AMMFeeRate: 0.003}
}

// Annotate prices every hop of the route and fills Route.Fees.
//
// TotalNative sums only the hops executed on the route's primary chain. A
// cross-chain route pays fees in several native tokens and those quantities
// do not add; secondary-chain fees count toward TotalUSD only.
func (m *FeeModel) Annotate(route *domain.Route) {
	fees := &domain.RouteFees{
		Hops:        make([]domain.HopFee, 0, len(route.Hops)),
		NativeToken: m.profileFor(route.Chain).NativeToken,
	}

	prevChain := route.Chain
	for i := range route.Hops {
		hop := &route.Hops[i]

		var fee domain.HopFee
		if hop.IsBridge() {
			fee = m.bridgeFee(hop, prevChain)
		} else {
			fee = m.swapFee(hop)
		}
		fee.Index = hop.Index
		fee.Chain = hop.Chain

		hop.Fee = &fee
		fees.Hops = append(fees.Hops, fee)
		fees.TotalUSD += fee.AmountUSD
		if hop.Chain == route.Chain {
			fees.TotalNative += fee.AmountNative
		}
		prevChain = hop.Chain
	}

	route.Fees = fees
}

func (m *FeeModel) swapFee(hop *domain.Hop) domain.HopFee {
	profile := m.profileFor(hop.Chain)

	if profile.NetworkFee > 0 {
		fee := domain.HopFee{
			Kind:         domain.FeeKindNetwork,
			AmountNative: profile.NetworkFee,
			NativeToken:  profile.NativeToken,
		}
		if p, ok := m.price(profile.NativeToken); ok {
			fee.AmountUSD = profile.NetworkFee * p
		}
		return fee
	}

	gasNative := profile.GasLimit * profile.GasPriceNative
	fee := domain.HopFee{
		Kind:         domain.FeeKindAMM,
		AmountNative: gasNative,
		NativeToken:  profile.NativeToken,
	}
	if p, ok := m.price(profile.NativeToken); ok {
		fee.AmountUSD = gasNative * p
	}

	rate := profile.AMMFeeRate
	if hop.Snapshot != nil && hop.Snapshot.FeeRate > 0 {
		rate = hop.Snapshot.FeeRate
	}
	if p, ok := m.price(hop.FromToken); ok {
		fee.AmountUSD += rate * hop.AmountIn * p
	}
	return fee
}

// bridgeFee prices a bridge hop from its catalog schedule: a flat component
// plus a percentage of the bridged notional, quoted in the reference
// currency only.
func (m *FeeModel) bridgeFee(hop *domain.Hop, fromChain string) domain.HopFee {
	fee := domain.HopFee{Kind: domain.FeeKindBridge}

	catalog := m.docs.Current().Catalog
	entry, ok := catalog.FindBridge(hop.FromToken, fromChain, hop.Chain)
	if !ok {
		return fee
	}

	fee.AmountUSD = entry.FixedFeeUSD
	if p, found := m.price(hop.FromToken); found {
		fee.AmountUSD += entry.Pct * hop.AmountIn * p
	}
	return fee
}
