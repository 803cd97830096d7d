package domain

import "time"

// LiquidityMode governs which data sources may answer an oracle query.
type LiquidityMode string

const (
	// ModeSimulated answers from the offline catalog only. Deterministic.
	ModeSimulated LiquidityMode = "simulated"
	// ModeLive excludes the catalog: real data or a no-provider result.
	ModeLive LiquidityMode = "live"
	// ModeAuto tries live providers first with the catalog appended as a
	// safety net.
	ModeAuto LiquidityMode = "auto"
)

// OracleOptions carries per-call query options.
type OracleOptions struct {
	// Chain scopes the query to one ledger and activates the per-chain
	// provider priority override, when one is configured.
	Chain string `json:"chain,omitempty"`

	// Mode overrides the oracle's default liquidity mode for this call.
	Mode LiquidityMode `json:"mode,omitempty"`

	// NotionalHint is the intended trade size in base token units, used
	// by depth-walking providers to bound how much of the book they read.
	NotionalHint float64 `json:"notionalHint,omitempty"`

	// Amounts lists trade sizes for slippage-curve sampling.
	Amounts []float64 `json:"amounts,omitempty"`

	// Providers is an explicit per-call provider order. A configured
	// per-chain override still takes precedence.
	Providers []string `json:"providers,omitempty"`
}

// Result is the envelope every oracle query returns. It is the unit of
// observability for the provider layer: alongside the resolved value it
// records who answered, who was tried and how long the lookup took.
//
// Value is nil when no provider could answer; Err then carries the
// NO_LIQUIDITY_PROVIDER code. Exhaustion is an expected outcome, never an
// error return.
type Result[T any] struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`

	Value *T `json:"value"`

	Provider  string        `json:"provider,omitempty"`
	Attempted []string      `json:"attempted"`
	Elapsed   time.Duration `json:"elapsed"`
	Mode      LiquidityMode `json:"mode"`
	Err       string        `json:"error,omitempty"`
}

// Resolved reports whether any provider answered.
func (r *Result[T]) Resolved() bool {
	return r.Value != nil
}
