package liquidity

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/adapters/ledger"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/adapters/pricefeed"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/common"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/metrics"
)

// Oracle is the single entry point for price, depth and slippage queries. It
// owns the provider set and the priority policy and resolves every query by
// strictly sequential fallback: providers are tried in order until one
// answers, and exhaustion is a structured result, never an error.
//
// Independent queries may run concurrently against one Oracle; all per-call
// state lives on the stack of the query.
type Oracle struct {
	mu           sync.RWMutex
	providers    map[string]Provider
	defaultOrder []string
	chainOrder   map[string][]string
	mode         domain.LiquidityMode

	timeout time.Duration
	logger  zerolog.Logger
}

// OracleDeps are the external collaborators providers may need. Nil members
// disable the providers that depend on them.
type OracleDeps struct {
	Books        ledger.BookReader
	Feed         pricefeed.Fetcher
	PriceTTL     time.Duration
	QueryTimeout time.Duration
}

// NewOracle builds the provider set from the registry document. Provider
// order is the registry priority rank (lower first); ties keep document
// order.
func NewOracle(docs *config.DocumentStore, deps OracleDeps) *Oracle {
	o := &Oracle{
		providers:  make(map[string]Provider),
		chainOrder: make(map[string][]string),
		timeout:    deps.QueryTimeout,
		logger:     log.With().Str("service", "liquidity-oracle").Logger(),
	}
	if o.timeout <= 0 {
		o.timeout = 5 * time.Second
	}
	o.configure(docs, deps)
	return o
}

// Reload rebuilds providers and priority policy from the current documents.
// In-flight queries keep the set they started with.
func (o *Oracle) Reload(docs *config.DocumentStore, deps OracleDeps) {
	o.configure(docs, deps)
}

func (o *Oracle) configure(docs *config.DocumentStore, deps OracleDeps) {
	reg := docs.Current().Providers

	type ranked struct {
		name     string
		priority int
		pos      int
	}

	providers := make(map[string]Provider)
	var order []ranked

	for i, entry := range reg.Providers {
		if !entry.Enabled {
			continue
		}
		var p Provider
		switch {
		case entry.Name == CatalogProviderName:
			p = NewCatalogProvider(docs)
		case entry.Name == OrderbookProviderName:
			if deps.Books == nil {
				continue
			}
			p = NewOrderbookProvider(deps.Books, entry.Chains)
		case entry.Name == FeedProviderName:
			if deps.Feed == nil {
				continue
			}
			ttl := deps.PriceTTL
			if ttl <= 0 {
				ttl = 10 * time.Second
			}
			p = NewFeedProvider(docs, deps.Feed, ttl)
		case strings.HasPrefix(entry.Name, "anchor"):
			p = NewAnchorProvider(entry)
		default:
			log.Warn().Str("provider", entry.Name).Msg("[oracle] unknown provider in registry, skipped")
			continue
		}
		providers[entry.Name] = p
		order = append(order, ranked{name: entry.Name, priority: entry.Priority, pos: i})
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].priority != order[j].priority {
			return order[i].priority < order[j].priority
		}
		return order[i].pos < order[j].pos
	})

	defaultOrder := make([]string, 0, len(order))
	for _, r := range order {
		defaultOrder = append(defaultOrder, r.name)
	}

	mode := domain.LiquidityMode(reg.DefaultMode)
	switch mode {
	case domain.ModeSimulated, domain.ModeLive, domain.ModeAuto:
	default:
		mode = domain.ModeAuto
	}

	chainOrder := make(map[string][]string, len(reg.ChainPriority))
	for chain, names := range reg.ChainPriority {
		chainOrder[chain] = append([]string(nil), names...)
	}

	o.mu.Lock()
	o.providers = providers
	o.defaultOrder = defaultOrder
	o.chainOrder = chainOrder
	o.mode = mode
	o.mu.Unlock()
}

// SetMode overrides the oracle's default liquidity mode.
func (o *Oracle) SetMode(mode domain.LiquidityMode) {
	o.mu.Lock()
	o.mode = mode
	o.mu.Unlock()
}

// ProviderNames returns the default priority order, for stats and tests.
func (o *Oracle) ProviderNames() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]string(nil), o.defaultOrder...)
}

// resolveOrder computes the provider order for one call. Precedence: the
// configured per-chain override table, then the caller's explicit order,
// then the default priority rank.
func (o *Oracle) resolveOrder(opts domain.OracleOptions) ([]string, map[string]Provider, domain.LiquidityMode) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var order []string
	if opts.Chain != "" {
		if override, ok := o.chainOrder[opts.Chain]; ok {
			order = override
		}
	}
	if order == nil && len(opts.Providers) > 0 {
		order = opts.Providers
	}
	if order == nil {
		order = o.defaultOrder
	}

	mode := opts.Mode
	if mode == "" {
		mode = o.mode
	}

	// snapshot the provider map so a concurrent reload cannot mutate the
	// set mid-query
	providers := make(map[string]Provider, len(o.providers))
	for k, v := range o.providers {
		providers[k] = v
	}

	return applyMode(order, mode), providers, mode
}

// applyMode filters the order by liquidity mode: simulated keeps only the
// catalog, live drops it, auto appends it as the safety net.
func applyMode(order []string, mode domain.LiquidityMode) []string {
	switch mode {
	case domain.ModeSimulated:
		return []string{CatalogProviderName}
	case domain.ModeLive:
		out := make([]string, 0, len(order))
		for _, n := range order {
			if n != CatalogProviderName {
				out = append(out, n)
			}
		}
		return out
	default: // auto
		out := make([]string, 0, len(order)+1)
		hasCatalog := false
		for _, n := range order {
			if n == CatalogProviderName {
				hasCatalog = true
			}
			out = append(out, n)
		}
		if !hasCatalog {
			out = append(out, CatalogProviderName)
		}
		return out
	}
}

// query runs the sequential fallback loop for one lookup kind. The loop is
// identical for every query kind: try providers in order, treat error and
// timeout like null, return on the first answer, and report structured
// exhaustion otherwise. Latency is bounded by attempts made, so ordering
// fast sources first directly shapes tail latency.
func query[T any](o *Oracle, ctx context.Context, kind, base, quote string, opts domain.OracleOptions,
	call func(Provider, context.Context) (*T, error)) domain.Result[T] {

	start := time.Now()
	order, providers, mode := o.resolveOrder(opts)

	res := domain.Result[T]{
		Base:      base,
		Quote:     quote,
		Mode:      mode,
		Attempted: make([]string, 0, len(order)),
	}

	for _, name := range order {
		p, ok := providers[name]
		if !ok {
			continue
		}
		res.Attempted = append(res.Attempted, name)

		attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
		if !p.Supports(attemptCtx, base, quote, opts) {
			cancel()
			metrics.ProviderAttempts.WithLabelValues(name, "unsupported").Inc()
			continue
		}

		value, err := call(p, attemptCtx)
		cancel()

		if err != nil {
			outcome := "error"
			if errors.Is(err, context.DeadlineExceeded) {
				outcome = "timeout"
			}
			metrics.ProviderAttempts.WithLabelValues(name, outcome).Inc()
			o.logger.Debug().Err(err).
				Str("provider", name).Str("kind", kind).
				Str("base", base).Str("quote", quote).
				Msg("provider unusable, trying next")
			continue
		}
		if value == nil {
			metrics.ProviderAttempts.WithLabelValues(name, "null").Inc()
			continue
		}

		metrics.ProviderAttempts.WithLabelValues(name, "answered").Inc()
		metrics.FallbackDepth.Observe(float64(len(res.Attempted)))
		metrics.OracleQueries.WithLabelValues(kind, "resolved").Inc()
		metrics.OracleQueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

		res.Value = value
		res.Provider = name
		res.Elapsed = time.Since(start)
		return res
	}

	metrics.OracleQueries.WithLabelValues(kind, "no_provider").Inc()
	metrics.OracleQueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	res.Err = common.CodeNoLiquidity
	res.Elapsed = time.Since(start)
	return res
}

// SpotPrice resolves the pair's spot price (quote per base).
func (o *Oracle) SpotPrice(ctx context.Context, base, quote string, opts domain.OracleOptions) domain.Result[float64] {
	return query(o, ctx, "spot_price", base, quote, opts,
		func(p Provider, ctx context.Context) (*float64, error) {
			return p.SpotPrice(ctx, base, quote, opts)
		})
}

// Depth resolves a pool/venue snapshot for the pair.
func (o *Oracle) Depth(ctx context.Context, base, quote string, opts domain.OracleOptions) domain.Result[domain.PoolSnapshot] {
	return query(o, ctx, "depth", base, quote, opts,
		func(p Provider, ctx context.Context) (*domain.PoolSnapshot, error) {
			return p.Depth(ctx, base, quote, opts)
		})
}

// SlippageCurve resolves a sampled slippage curve for the pair.
func (o *Oracle) SlippageCurve(ctx context.Context, base, quote string, opts domain.OracleOptions) domain.Result[domain.SlippageCurve] {
	return query(o, ctx, "slippage_curve", base, quote, opts,
		func(p Provider, ctx context.Context) (*domain.SlippageCurve, error) {
			return p.SlippageCurve(ctx, base, quote, opts)
		})
}
