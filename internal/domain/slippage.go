package domain

// SlippageSeverity classifies cumulative route slippage.
type SlippageSeverity string

const (
	SlippageSeverityNone     SlippageSeverity = "none"
	SlippageSeverityWarning  SlippageSeverity = "warning"
	SlippageSeverityCritical SlippageSeverity = "critical"
)

// HopSlippage is the depth-based price impact estimate for one hop.
type HopSlippage struct {
	Index     int     `json:"index"`
	Pct       float64 `json:"pct"` // fraction, 0.01 = 1%
	MinOutput float64 `json:"minOutput"`
}

// RouteSlippage aggregates hop slippage across a route. Cumulative slippage
// compounds multiplicatively: cumulative = 1 - prod(1 - pct_i).
type RouteSlippage struct {
	CumulativePct float64          `json:"cumulativePct"`
	MinOutput     float64          `json:"minOutput"`
	IsExcessive   bool             `json:"isExcessive"`
	Severity      SlippageSeverity `json:"severity"`
	Hops          []HopSlippage    `json:"hops"`
}
