package domain

// FeeKind identifies which fee schedule produced a hop fee.
type FeeKind string

const (
	FeeKindNetwork FeeKind = "network" // flat ledger network fee
	FeeKindAMM     FeeKind = "amm"     // gas + pool fee rate
	FeeKindBridge  FeeKind = "bridge"  // flat plus percentage schedule
)

// HopFee is the estimated cost of executing a single hop.
type HopFee struct {
	Index     int     `json:"index"`
	Chain     string  `json:"chain"`
	Kind      FeeKind `json:"kind"`
	AmountUSD float64 `json:"amountUSD"`

	// AmountNative is the fee portion denominated in the hop chain's
	// native token. Zero for bridge hops, which are quoted in the
	// reference currency only.
	AmountNative float64 `json:"amountNative,omitempty"`
	NativeToken  string  `json:"nativeToken,omitempty"`
}

// RouteFees aggregates per-hop fees for a route.
//
// TotalNative intentionally sums only hops on the route's primary chain:
// a native-currency total mixing several chains' native tokens would be
// meaningless, so fees paid on other chains contribute to TotalUSD only.
type RouteFees struct {
	TotalUSD    float64  `json:"totalUSD"`
	TotalNative float64  `json:"totalNative"`
	NativeToken string   `json:"nativeToken,omitempty"`
	Hops        []HopFee `json:"hops"`
}
