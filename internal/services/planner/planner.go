package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/common"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/metrics"
)

// maxAlternatives is how many runner-up routes a plan carries besides the
// best one.
const maxAlternatives = 2

// LiquidityOracle is the query surface the planner prices candidates
// against.
type LiquidityOracle interface {
	SpotPrice(ctx context.Context, base, quote string, opts domain.OracleOptions) domain.Result[float64]
	Depth(ctx context.Context, base, quote string, opts domain.OracleOptions) domain.Result[domain.PoolSnapshot]
	SlippageCurve(ctx context.Context, base, quote string, opts domain.OracleOptions) domain.Result[domain.SlippageCurve]
}

// Options tune candidate generation.
type Options struct {
	// IntermediateTokens are the pivot candidates for same-chain
	// multi-hop paths.
	IntermediateTokens []string

	// MaxHops caps route length, bridge hops included.
	MaxHops int

	// Mode, when set, overrides the oracle's default liquidity mode for
	// every pricing query the planner issues.
	Mode domain.LiquidityMode
}

// Planner builds candidate routes for a request, prices them through the
// oracle, annotates fees and slippage, validates, and ranks the survivors.
// A Planner is stateless across calls and safe for concurrent use.
type Planner struct {
	docs      *config.DocumentStore
	oracle    LiquidityOracle
	fees      *FeeModel
	slippage  *SlippageEngine
	validator *Validator
	opts      Options
	logger    zerolog.Logger
}

func New(docs *config.DocumentStore, oracle LiquidityOracle, fees *FeeModel, slip *SlippageEngine, opts Options) *Planner {
	if opts.MaxHops <= 0 {
		opts.MaxHops = 3
	}
	if len(opts.IntermediateTokens) == 0 {
		opts.IntermediateTokens = []string{"USDT", "XRP"}
	}
	return &Planner{
		docs:      docs,
		oracle:    oracle,
		fees:      fees,
		slippage:  slip,
		validator: NewValidator(docs),
		opts:      opts,
		logger:    log.With().Str("service", "route-planner").Logger(),
	}
}

// hopSpec is an unpriced hop of a candidate path.
type hopSpec struct {
	chain     string
	protocol  string // empty for swaps, filled from the depth snapshot
	fromToken string
	toToken   string
}

// Plan resolves a request into a ranked route set. Exactly one of the
// returns is non-nil; failure is a structured outcome, not an error.
func (p *Planner) Plan(ctx context.Context, req domain.PlanRequest, constraints domain.Constraints) (*domain.PlanResult, *domain.PlanFailure) {
	start := time.Now()
	defer func() {
		metrics.PlanDuration.Observe(time.Since(start).Seconds())
	}()

	if req.Amount <= 0 {
		return nil, fail(domain.NewPlanFailure(common.CodeInvalidRoute, "amount must be positive"), "", "rejected")
	}
	if req.FromToken == "" || req.ToToken == "" {
		return nil, fail(domain.NewPlanFailure(common.CodeInvalidRoute, "both tokens are required"), "", "rejected")
	}

	catalog := p.docs.Current().Catalog

	fromChain := req.FromChain
	if fromChain == "" {
		fromChain = catalog.DefaultChain(req.FromToken)
	}
	toChain := req.ToChain
	if toChain == "" {
		toChain = catalog.DefaultChain(req.ToToken)
	}
	if fromChain == "" {
		return nil, fail(domain.NewPlanFailure(common.CodeUnknownToken,
			fmt.Sprintf("token %s is not known on any chain", req.FromToken)), "", "unknown_token")
	}
	if toChain == "" {
		return nil, fail(domain.NewPlanFailure(common.CodeUnknownToken,
			fmt.Sprintf("token %s is not known on any chain", req.ToToken)), "", "unknown_token")
	}
	// same token on the same chain is a no-op, same token across chains is
	// a bridge transfer and perfectly plannable
	if req.FromToken == req.ToToken && fromChain == toChain {
		return nil, fail(domain.NewPlanFailure(common.CodeInvalidRoute, "a swap needs two distinct tokens"), "", "rejected")
	}

	amountIn := req.Amount
	if req.Side == domain.SideBuy {
		// A buy fixes the output; estimate the required input from the
		// current spot and plan it as a sell of that input.
		spot := p.oracle.SpotPrice(ctx, req.FromToken, req.ToToken, domain.OracleOptions{
			Chain: fromChain,
			Mode:  p.opts.Mode,
		})
		if !spot.Resolved() || *spot.Value <= 0 {
			f := domain.NewPlanFailure(common.CodeNoLiquidity,
				fmt.Sprintf("no spot price for %s/%s to size the buy", req.FromToken, req.ToToken))
			f.Providers = spot.Attempted
			return nil, fail(f, "", "no_liquidity")
		}
		amountIn = req.Amount / *spot.Value
	}

	candidates := p.buildCandidates(req.FromToken, req.ToToken, fromChain, toChain)
	metrics.CandidatesEvaluated.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		return nil, fail(domain.NewPlanFailure(common.CodeNoRouteFound,
			fmt.Sprintf("no candidate path from %s on %s to %s on %s", req.FromToken, fromChain, req.ToToken, toChain)),
			"", "no_candidates")
	}

	providerSet := map[string]struct{}{}
	var (
		viable  []*domain.Route
		dropped int
	)

	for _, specs := range candidates {
		route, attempted := p.priceCandidate(ctx, fromChain, amountIn, specs)
		for _, name := range attempted {
			providerSet[name] = struct{}{}
		}
		if route == nil {
			dropped++
			metrics.CandidatesDropped.WithLabelValues("no_liquidity").Inc()
			continue
		}

		p.fees.Annotate(route)
		p.slippage.Annotate(route)

		if report := p.validator.ValidateStructure(route); !report.Valid() {
			dropped++
			metrics.CandidatesDropped.WithLabelValues("invalid_structure").Inc()
			p.logger.Error().Strs("errors", report.Errors).
				Str("route", route.ID).Msg("planner built an invalid route, dropped")
			continue
		}

		if reasons := p.validator.CheckExecutability(route); len(reasons) > 0 {
			dropped++
			metrics.CandidatesDropped.WithLabelValues("not_executable").Inc()
			p.logger.Debug().Strs("reasons", reasons).
				Str("route", route.ID).Msg("candidate not executable, dropped")
			continue
		}

		route.Violations = p.validator.CheckConstraints(route, constraints)
		viable = append(viable, route)
	}

	if len(viable) == 0 {
		f := domain.NewPlanFailure(common.CodeNoRouteFound,
			fmt.Sprintf("no executable route from %s to %s", req.FromToken, req.ToToken))
		f.CandidatesTried = len(candidates)
		f.CandidatesDropped = dropped
		f.Providers = setToSlice(providerSet)
		return nil, fail(f, "", "no_route")
	}

	rank(viable)

	best := viable[0]
	alts := viable[1:]
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}

	metrics.PlanRequests.WithLabelValues(string(best.PathType), "success").Inc()
	p.logger.Info().
		Str("route", best.ID).
		Str("pathType", string(best.PathType)).
		Int("hops", best.HopCount()).
		Float64("expectedOutput", best.ExpectedOutput).
		Int("candidates", len(candidates)).
		Msg("route planned")

	return &domain.PlanResult{
		Route:          best,
		Alternatives:   alts,
		CandidateCount: len(viable),
	}, nil
}

func fail(f *domain.PlanFailure, pathType, status string) *domain.PlanFailure {
	if pathType == "" {
		pathType = "none"
	}
	metrics.PlanRequests.WithLabelValues(pathType, status).Inc()
	return f
}

// buildCandidates enumerates unpriced candidate paths.
//
// Same-chain pairs get the direct path plus one two-hop path per configured
// intermediate token. Cross-chain pairs get every path through a bridgeable
// token between the two chains, up to MaxHops legs.
func (p *Planner) buildCandidates(fromToken, toToken, fromChain, toChain string) [][]hopSpec {
	var out [][]hopSpec

	if fromChain == toChain {
		out = append(out, []hopSpec{
			{chain: fromChain, fromToken: fromToken, toToken: toToken},
		})
		for _, via := range p.opts.IntermediateTokens {
			if via == fromToken || via == toToken {
				continue
			}
			out = append(out, []hopSpec{
				{chain: fromChain, fromToken: fromToken, toToken: via},
				{chain: fromChain, fromToken: via, toToken: toToken},
			})
		}
		return out
	}

	catalog := p.docs.Current().Catalog
	for _, bridge := range catalog.BridgesBetween(fromChain, toChain) {
		var specs []hopSpec
		if bridge.Token != fromToken {
			specs = append(specs, hopSpec{chain: fromChain, fromToken: fromToken, toToken: bridge.Token})
		}
		specs = append(specs, hopSpec{
			chain:     toChain,
			protocol:  domain.ProtocolBridge,
			fromToken: bridge.Token,
			toToken:   bridge.Token,
		})
		if bridge.Token != toToken {
			specs = append(specs, hopSpec{chain: toChain, fromToken: bridge.Token, toToken: toToken})
		}
		if len(specs) > p.opts.MaxHops {
			continue
		}
		out = append(out, specs)
	}

	return out
}

// priceCandidate walks a candidate path converting amounts hop by hop. It
// returns nil when any swap hop cannot be priced, plus the union of
// providers attempted while trying.
func (p *Planner) priceCandidate(ctx context.Context, fromChain string, amountIn float64, specs []hopSpec) (*domain.Route, []string) {
	pathType := domain.PathDirect
	if len(specs) > 1 {
		pathType = domain.PathMultiHop
	}

	route := &domain.Route{
		ID:        domain.NewRouteID(specs[0].fromToken, specs[len(specs)-1].toToken),
		Chain:     fromChain,
		PathType:  pathType,
		Hops:      make([]domain.Hop, 0, len(specs)),
		CreatedAt: time.Now().UTC(),
	}

	var attempted []string
	sources := map[string]struct{}{}

	amount := amountIn
	for i, spec := range specs {
		hop := domain.Hop{
			Index:     i,
			Chain:     spec.chain,
			Protocol:  spec.protocol,
			FromToken: spec.fromToken,
			ToToken:   spec.toToken,
			AmountIn:  amount,
		}

		if spec.protocol == domain.ProtocolBridge {
			// bridges deliver 1:1; their cost shows up as a fee
			hop.AmountOut = amount
		} else {
			opts := domain.OracleOptions{
				Chain:        spec.chain,
				Mode:         p.opts.Mode,
				NotionalHint: amount,
			}

			depth := p.oracle.Depth(ctx, spec.fromToken, spec.toToken, opts)
			attempted = append(attempted, depth.Attempted...)

			var spot float64
			if depth.Resolved() {
				hop.Snapshot = depth.Value
				hop.Protocol = depth.Value.Venue
				spot = depth.Value.SpotPrice
				sources[depth.Provider] = struct{}{}
			}
			if spot <= 0 {
				priced := p.oracle.SpotPrice(ctx, spec.fromToken, spec.toToken, opts)
				attempted = append(attempted, priced.Attempted...)
				if !priced.Resolved() || *priced.Value <= 0 {
					return nil, attempted
				}
				spot = *priced.Value
				sources[priced.Provider] = struct{}{}
				if hop.Protocol == "" {
					hop.Protocol = priced.Provider
				}
			}
			hop.AmountOut = amount * spot
		}

		route.Hops = append(route.Hops, hop)
		amount = hop.AmountOut
	}

	route.ExpectedOutput = amount
	route.Sources = setToSlice(sources)
	return route, attempted
}

// rank orders routes by estimated execution cost: reference-currency fees
// plus the output put at risk by slippage. Routes with equal cost keep the
// order they were discovered in.
func rank(routes []*domain.Route) {
	cost := func(r *domain.Route) float64 {
		c := 0.0
		if r.Fees != nil {
			c += r.Fees.TotalUSD
		}
		if r.Slippage != nil {
			c += r.ExpectedOutput * r.Slippage.CumulativePct
		}
		return c
	}
	sort.SliceStable(routes, func(i, j int) bool {
		return cost(routes[i]) < cost(routes[j])
	})
}

func setToSlice(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
