package domain

import (
	"fmt"
	"time"
)

// PathType classifies the shape of a planned route.
type PathType string

const (
	PathDirect   PathType = "direct"
	PathMultiHop PathType = "multi-hop"
)

// ProtocolBridge marks a hop that moves a token across ledgers instead of
// swapping it on a venue.
const ProtocolBridge = "BRIDGE"

// Venue protocols a swap hop can carry. Anchor hops carry the anchor's
// registry name instead.
const (
	ProtocolAMM       = "AMM"
	ProtocolOrderbook = "XRPL-DEX"
	ProtocolFeed      = "FEED"
)

// Hop is one atomic swap or bridge leg within a route.
type Hop struct {
	Index     int     `json:"index"`
	Chain     string  `json:"chain"`
	Protocol  string  `json:"protocol"`
	FromToken string  `json:"fromToken"`
	ToToken   string  `json:"toToken"`
	AmountIn  float64 `json:"amountIn"`
	AmountOut float64 `json:"amountOut"`

	// Snapshot is the pool/venue state the hop was priced against.
	// Nil for bridge hops and price-only estimates.
	Snapshot *PoolSnapshot `json:"snapshot,omitempty"`

	Fee      *HopFee      `json:"fee,omitempty"`
	Slippage *HopSlippage `json:"slippage,omitempty"`
}

// IsBridge reports whether the hop crosses chains rather than swapping.
func (h *Hop) IsBridge() bool {
	return h.Protocol == ProtocolBridge
}

// Route is an ordered hop sequence converting a source token position into a
// destination position. Routes are built and discarded per planning call;
// they are immutable once ranked and never persisted.
type Route struct {
	ID             string         `json:"id"`
	Chain          string         `json:"chain"` // primary chain (source side)
	PathType       PathType       `json:"pathType"`
	Hops           []Hop          `json:"hops"`
	ExpectedOutput float64        `json:"expectedOutput"`
	Fees           *RouteFees     `json:"fees,omitempty"`
	Slippage       *RouteSlippage `json:"slippage,omitempty"`

	// Sources lists the oracle providers that answered while pricing
	// this route.
	Sources []string `json:"sources,omitempty"`

	// Violations lists caller constraints the route does not satisfy.
	// Structurally the route is still valid; callers may proceed anyway.
	Violations []string `json:"violations,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r *Route) HopCount() int {
	return len(r.Hops)
}

// FinalHop returns the last hop or nil for an empty route.
func (r *Route) FinalHop() *Hop {
	if len(r.Hops) == 0 {
		return nil
	}
	return &r.Hops[len(r.Hops)-1]
}

// NewRouteID builds an opaque per-request route identifier.
func NewRouteID(from, to string) string {
	return fmt.Sprintf("rt-%s-%s-%d", from, to, time.Now().UnixNano())
}
