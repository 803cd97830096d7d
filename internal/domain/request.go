package domain

// Side of a planning request.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// PlanRequest asks the planner to convert Amount of FromToken into ToToken.
// Chains may be forced explicitly; otherwise they are inferred per token.
type PlanRequest struct {
	FromToken string  `json:"fromToken"`
	ToToken   string  `json:"toToken"`
	Amount    float64 `json:"amount"`
	Side      Side    `json:"side"`
	FromChain string  `json:"fromChain,omitempty"`
	ToChain   string  `json:"toChain,omitempty"`
}

// Constraints are caller limits checked against structurally valid routes.
// A violated constraint is reported, not silently enforced, so callers can
// offer a "proceed anyway" flow.
type Constraints struct {
	MaxSlippagePct *float64 `json:"maxSlippagePct,omitempty"`
	MaxFeeUSD      *float64 `json:"maxFeeUSD,omitempty"`
	MaxHops        *int     `json:"maxHops,omitempty"`
}

// PlanResult is the ranked outcome of one planning call: the best route plus
// up to two runners-up.
type PlanResult struct {
	Route          *Route   `json:"route"`
	Alternatives   []*Route `json:"alternatives,omitempty"`
	CandidateCount int      `json:"candidateCount"`
}

// PlanFailure is the structured no-route outcome. It is a value, not a raised
// error: callers render the context instead of a stack trace.
type PlanFailure struct {
	Success bool   `json:"success"` // always false
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`

	CandidatesTried   int      `json:"candidatesTried"`
	CandidatesDropped int      `json:"candidatesDropped"`
	Providers         []string `json:"providers,omitempty"`
}

// NewPlanFailure builds a failure with the given machine-readable code and
// human-readable reason.
func NewPlanFailure(code, reason string) *PlanFailure {
	return &PlanFailure{Success: false, Error: code, Reason: reason}
}
