package planner

import (
	"context"
	"testing"
	"time"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/common"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

// fakeOracle answers depth queries from a fixed snapshot table keyed by
// chain|base|quote.
type fakeOracle struct {
	pools map[string]*domain.PoolSnapshot
	spots map[string]float64
}

func key(chain, base, quote string) string {
	return chain + "|" + base + "|" + quote
}

func near(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

func (f *fakeOracle) Depth(_ context.Context, base, quote string, opts domain.OracleOptions) domain.Result[domain.PoolSnapshot] {
	res := domain.Result[domain.PoolSnapshot]{Base: base, Quote: quote, Attempted: []string{"catalog"}}
	if snap, ok := f.pools[key(opts.Chain, base, quote)]; ok {
		cp := *snap
		res.Value = &cp
		res.Provider = "catalog"
	} else {
		res.Err = common.CodeNoLiquidity
	}
	return res
}

func (f *fakeOracle) SpotPrice(_ context.Context, base, quote string, opts domain.OracleOptions) domain.Result[float64] {
	res := domain.Result[float64]{Base: base, Quote: quote, Attempted: []string{"catalog"}}
	if p, ok := f.spots[key(opts.Chain, base, quote)]; ok {
		res.Value = &p
		res.Provider = "catalog"
	} else {
		res.Err = common.CodeNoLiquidity
	}
	return res
}

func (f *fakeOracle) SlippageCurve(_ context.Context, base, quote string, _ domain.OracleOptions) domain.Result[domain.SlippageCurve] {
	return domain.Result[domain.SlippageCurve]{Base: base, Quote: quote, Err: common.CodeNoLiquidity}
}

func snapshot(chain, base, quote string, baseReserve, quoteReserve, spot float64) *domain.PoolSnapshot {
	return &domain.PoolSnapshot{
		Chain:        chain,
		Base:         base,
		Quote:        quote,
		Venue:        "AMM",
		BaseReserve:  baseReserve,
		QuoteReserve: quoteReserve,
		FeeRate:      0.003,
		SpotPrice:    spot,
		Source:       "catalog",
		TakenAt:      time.Now(),
	}
}

func newTestOracle() *fakeOracle {
	return &fakeOracle{
		pools: map[string]*domain.PoolSnapshot{
			key("XRPL", "XRP", "USDT"): snapshot("XRPL", "XRP", "USDT", 1_000_000, 520_000, 0.52),
			key("XRPL", "XRP", "USDC"): snapshot("XRPL", "XRP", "USDC", 400_000, 208_000, 0.52),
			key("ETH", "USDT", "ETH"):  snapshot("ETH", "USDT", "ETH", 8_250_000, 5_000, 1.0/1650.0),
		},
		spots: map[string]float64{
			key("XRPL", "XRP", "USDT"): 0.52,
		},
	}
}

func newTestPlanner(oracle LiquidityOracle) (*Planner, *config.DocumentStore) {
	docs := config.NewStaticDocumentStore(config.DefaultDocuments())
	pricer := func(token string) (float64, bool) {
		return docs.Current().Catalog.PriceUSD(token)
	}
	p := New(docs, oracle, NewFeeModel(docs, pricer), NewSlippageEngine(DefaultTierPolicy(), pricer), Options{
		IntermediateTokens: []string{"USDT", "XRP"},
		MaxHops:            3,
	})
	return p, docs
}

func TestPlanDirectRoute(t *testing.T) {
	p, _ := newTestPlanner(newTestOracle())

	result, failure := p.Plan(context.Background(), domain.PlanRequest{
		FromToken: "XRP",
		ToToken:   "USDT",
		Amount:    100,
		Side:      domain.SideSell,
	}, domain.Constraints{})

	if failure != nil {
		t.Fatalf("unexpected failure: %+v", failure)
	}

	route := result.Route
	if route.PathType != domain.PathDirect {
		t.Fatalf("expected direct route, got %s", route.PathType)
	}
	if route.HopCount() != 1 {
		t.Fatalf("expected 1 hop, got %d", route.HopCount())
	}
	if got := route.ExpectedOutput; got < 51.9 || got > 52.1 {
		t.Errorf("expected output near 52 USDT, got %f", got)
	}

	// a 100 XRP trade against a 1M pool is well inside the thinnest tier
	if route.Slippage == nil {
		t.Fatal("route has no slippage annotation")
	}
	if !near(route.Slippage.CumulativePct, 0.001) {
		t.Errorf("expected 0.1%% slippage, got %f", route.Slippage.CumulativePct)
	}
	if route.Slippage.Severity != domain.SlippageSeverityNone {
		t.Errorf("expected severity none, got %s", route.Slippage.Severity)
	}
	if route.Slippage.IsExcessive {
		t.Error("small trade flagged as excessive")
	}

	if route.Fees == nil || route.Fees.TotalUSD <= 0 {
		t.Error("route has no fee annotation")
	}
	if route.Fees.NativeToken != "XRP" {
		t.Errorf("expected native fee token XRP, got %s", route.Fees.NativeToken)
	}
	if len(route.Violations) != 0 {
		t.Errorf("unconstrained plan has violations: %v", route.Violations)
	}
}

func TestPlanLargeTradeSlippage(t *testing.T) {
	p, _ := newTestPlanner(newTestOracle())

	result, failure := p.Plan(context.Background(), domain.PlanRequest{
		FromToken: "XRP",
		ToToken:   "USDT",
		Amount:    500_000,
		Side:      domain.SideSell,
	}, domain.Constraints{})

	if failure != nil {
		t.Fatalf("unexpected failure: %+v", failure)
	}

	slip := result.Route.Slippage
	// 500k against a 1M pool is half the depth: deepest tier
	if !near(slip.CumulativePct, 0.08) {
		t.Errorf("expected 8%% slippage, got %f", slip.CumulativePct)
	}
	if !slip.IsExcessive {
		t.Error("half-depth trade not flagged excessive")
	}
	if slip.Severity != domain.SlippageSeverityWarning {
		t.Errorf("expected severity warning, got %s", slip.Severity)
	}
}

func TestPlanConstraintViolationStillReturnsRoute(t *testing.T) {
	p, _ := newTestPlanner(newTestOracle())

	maxSlip := 0.01
	result, failure := p.Plan(context.Background(), domain.PlanRequest{
		FromToken: "XRP",
		ToToken:   "USDT",
		Amount:    500_000,
		Side:      domain.SideSell,
	}, domain.Constraints{MaxSlippagePct: &maxSlip})

	if failure != nil {
		t.Fatalf("violated constraint must not fail the plan: %+v", failure)
	}
	if len(result.Route.Violations) == 0 {
		t.Fatal("expected a recorded slippage violation")
	}
}

func TestPlanBuySide(t *testing.T) {
	p, _ := newTestPlanner(newTestOracle())

	result, failure := p.Plan(context.Background(), domain.PlanRequest{
		FromToken: "XRP",
		ToToken:   "USDT",
		Amount:    52, // desired USDT out
		Side:      domain.SideBuy,
	}, domain.Constraints{})

	if failure != nil {
		t.Fatalf("unexpected failure: %+v", failure)
	}
	if in := result.Route.Hops[0].AmountIn; in < 99.9 || in > 100.1 {
		t.Errorf("expected ~100 XRP input for 52 USDT out, got %f", in)
	}
}

func TestPlanCrossChainBridged(t *testing.T) {
	p, _ := newTestPlanner(newTestOracle())

	result, failure := p.Plan(context.Background(), domain.PlanRequest{
		FromToken: "XRP",
		ToToken:   "ETH",
		Amount:    100,
		Side:      domain.SideSell,
	}, domain.Constraints{})

	if failure != nil {
		t.Fatalf("unexpected failure: %+v", failure)
	}

	route := result.Route
	if route.PathType != domain.PathMultiHop {
		t.Fatalf("expected multi-hop route, got %s", route.PathType)
	}
	if route.HopCount() != 3 {
		t.Fatalf("expected 3 hops, got %d", route.HopCount())
	}

	bridge := route.Hops[1]
	if !bridge.IsBridge() {
		t.Fatal("middle hop is not a bridge")
	}
	if bridge.FromToken != bridge.ToToken {
		t.Error("bridge hop changes token")
	}
	if bridge.Chain != "ETH" {
		t.Errorf("bridge hop chain is %s, want ETH", bridge.Chain)
	}
	if bridge.AmountOut != bridge.AmountIn {
		t.Error("bridge hop is not 1:1")
	}
	if bridge.Fee == nil || bridge.Fee.Kind != domain.FeeKindBridge {
		t.Fatal("bridge hop has no bridge fee")
	}
	// 2 USD flat plus 0.1% of 52 USDT
	if usd := bridge.Fee.AmountUSD; usd < 2.05 || usd > 2.06 {
		t.Errorf("bridge fee %f USD, want ~2.052", usd)
	}

	// native total only covers the XRPL leg
	if route.Fees.NativeToken != "XRP" {
		t.Errorf("primary native token %s, want XRP", route.Fees.NativeToken)
	}

	if out := route.ExpectedOutput; out < 0.031 || out > 0.032 {
		t.Errorf("expected ~0.0315 ETH out, got %f", out)
	}
}

func TestPlanStubBridgeNotExecutable(t *testing.T) {
	p, _ := newTestPlanner(newTestOracle())

	_, failure := p.Plan(context.Background(), domain.PlanRequest{
		FromToken: "USDT",
		ToToken:   "USDT",
		Amount:    1000,
		Side:      domain.SideSell,
		ToChain:   "SOLANA",
	}, domain.Constraints{})

	if failure == nil {
		t.Fatal("expected a failure for a stub-only corridor")
	}
	if failure.Error != common.CodeNoRouteFound {
		t.Errorf("expected %s, got %s", common.CodeNoRouteFound, failure.Error)
	}
	if failure.CandidatesTried == 0 || failure.CandidatesDropped == 0 {
		t.Errorf("failure diagnostics empty: %+v", failure)
	}
}

func TestPlanUnknownToken(t *testing.T) {
	p, _ := newTestPlanner(newTestOracle())

	_, failure := p.Plan(context.Background(), domain.PlanRequest{
		FromToken: "FAKE_TOKEN",
		ToToken:   "USDT",
		Amount:    10,
		Side:      domain.SideSell,
	}, domain.Constraints{})

	if failure == nil {
		t.Fatal("expected a failure")
	}
	if failure.Success {
		t.Error("failure payload claims success")
	}
	if failure.Error != common.CodeUnknownToken {
		t.Errorf("expected %s, got %s", common.CodeUnknownToken, failure.Error)
	}
}

func TestPlanRejectsInvalidRequests(t *testing.T) {
	p, _ := newTestPlanner(newTestOracle())

	cases := []struct {
		name string
		req  domain.PlanRequest
	}{
		{"zero amount", domain.PlanRequest{FromToken: "XRP", ToToken: "USDT", Amount: 0}},
		{"negative amount", domain.PlanRequest{FromToken: "XRP", ToToken: "USDT", Amount: -5}},
		{"missing token", domain.PlanRequest{FromToken: "XRP", Amount: 10}},
		{"same token same chain", domain.PlanRequest{FromToken: "XRP", ToToken: "XRP", Amount: 10}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, failure := p.Plan(context.Background(), tc.req, domain.Constraints{})
			if failure == nil {
				t.Fatal("expected a failure")
			}
			if failure.Error != common.CodeInvalidRoute {
				t.Errorf("expected %s, got %s", common.CodeInvalidRoute, failure.Error)
			}
		})
	}
}

func TestPlanNoLiquidity(t *testing.T) {
	// an oracle with no data at all
	p, _ := newTestPlanner(&fakeOracle{
		pools: map[string]*domain.PoolSnapshot{},
		spots: map[string]float64{},
	})

	_, failure := p.Plan(context.Background(), domain.PlanRequest{
		FromToken: "XRP",
		ToToken:   "USDT",
		Amount:    100,
		Side:      domain.SideSell,
	}, domain.Constraints{})

	if failure == nil {
		t.Fatal("expected a failure")
	}
	if failure.Error != common.CodeNoRouteFound {
		t.Errorf("expected %s, got %s", common.CodeNoRouteFound, failure.Error)
	}
}

func TestRankOrdersByTotalCost(t *testing.T) {
	cheap := &domain.Route{
		ExpectedOutput: 100,
		Fees:           &domain.RouteFees{TotalUSD: 1},
		Slippage:       &domain.RouteSlippage{CumulativePct: 0.001},
	}
	expensive := &domain.Route{
		ExpectedOutput: 100,
		Fees:           &domain.RouteFees{TotalUSD: 5},
		Slippage:       &domain.RouteSlippage{CumulativePct: 0.02},
	}
	tieHigherOutput := &domain.Route{
		ExpectedOutput: 200,
		Fees:           &domain.RouteFees{TotalUSD: 1},
		Slippage:       &domain.RouteSlippage{CumulativePct: 0.0005},
	}

	routes := []*domain.Route{expensive, cheap, tieHigherOutput}
	rank(routes)

	if routes[0] != cheap {
		t.Fatal("cheapest discovered route not ranked first")
	}
	if routes[2] != expensive {
		t.Fatal("expensive route not ranked last")
	}
}

func TestRankKeepsDiscoveryOrderOnTies(t *testing.T) {
	first := &domain.Route{
		ExpectedOutput: 100,
		Fees:           &domain.RouteFees{TotalUSD: 2},
		Slippage:       &domain.RouteSlippage{CumulativePct: 0.01},
	}
	second := &domain.Route{
		ExpectedOutput: 300,
		Fees:           &domain.RouteFees{TotalUSD: 3},
		Slippage:       &domain.RouteSlippage{},
	}
	third := &domain.Route{
		ExpectedOutput: 200,
		Fees:           &domain.RouteFees{TotalUSD: 1},
		Slippage:       &domain.RouteSlippage{CumulativePct: 0.01},
	}

	// all three cost exactly 3
	routes := []*domain.Route{first, second, third}
	rank(routes)

	if routes[0] != first || routes[1] != second || routes[2] != third {
		t.Fatal("equal-cost routes were reordered")
	}
}

func BenchmarkPlanDirect(b *testing.B) {
	p, _ := newTestPlanner(newTestOracle())
	req := domain.PlanRequest{
		FromToken: "XRP",
		ToToken:   "USDT",
		Amount:    100,
		Side:      domain.SideSell,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, failure := p.Plan(context.Background(), req, domain.Constraints{}); failure != nil {
			b.Fatalf("plan failed: %+v", failure)
		}
	}
}
