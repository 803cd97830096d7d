// Package engine wires the planning pipeline together behind the DI
// container: documents, oracle, fee and slippage models, and the planner.
package engine

import (
	"context"

	container "github.com/thehyperflames/dicontainer-go"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/adapters/ledger"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/adapters/pricefeed"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/metrics"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/services"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/services/liquidity"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/services/planner"
)

const ENGINE_SERVICE = "engine-service"

// xrplIssuers maps issued-currency symbols to their issuing accounts on the
// XRPL mainnet DEX.
var xrplIssuers = map[string]string{
	"USDT": "rcEGREd8NmkKRE8GE424sksyt1tJVFZwu",
	"USDC": "rcEGREd8NmkKRE8GE424sksyt1tJVFZwu",
}

type Service struct {
	container.BaseDIInstance
	logger *services.ServiceLogger

	cfg  *config.EngineConfig
	docs *config.DocumentStore

	oracle  *liquidity.Oracle
	planner *planner.Planner

	oracleDeps liquidity.OracleDeps
}

func (svc *Service) ID() string {
	return ENGINE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc)
	svc.cfg = c.GetConfig(config.ENGINE_CONFIG_KEY).(*config.EngineConfig)

	svc.docs = config.NewDocumentStore(svc.cfg.ProvidersPath, svc.cfg.CatalogPath, svc.cfg.TokenMapPath)
	if err := svc.docs.Load(); err != nil {
		return err
	}

	svc.oracleDeps = liquidity.OracleDeps{
		Books:        ledger.NewRPCClient(svc.cfg.LedgerRPCURL, svc.cfg.QueryTimeout, xrplIssuers),
		Feed:         pricefeed.NewClient(svc.cfg.FeedBaseURL, svc.cfg.QueryTimeout),
		PriceTTL:     svc.cfg.PriceCacheTTL,
		QueryTimeout: svc.cfg.QueryTimeout,
	}
	svc.oracle = liquidity.NewOracle(svc.docs, svc.oracleDeps)
	svc.oracle.SetMode(domain.LiquidityMode(svc.cfg.Mode))

	policy := planner.DefaultTierPolicy()
	if svc.cfg.ExcessiveSlippagePct > 0 {
		policy.ExcessivePct = svc.cfg.ExcessiveSlippagePct
	}

	pricer := func(token string) (float64, bool) {
		return svc.docs.Current().Catalog.PriceUSD(token)
	}
	feeModel := planner.NewFeeModel(svc.docs, pricer)
	slippageEngine := planner.NewSlippageEngine(policy, pricer)

	svc.planner = planner.New(svc.docs, svc.oracle, feeModel, slippageEngine, planner.Options{
		IntermediateTokens: svc.cfg.IntermediateTokens,
		MaxHops:            svc.cfg.MaxRouteHops,
	})

	return nil
}

func (svc *Service) Start() error {
	svc.logger.Info().
		Str("mode", svc.cfg.Mode).
		Strs("providers", svc.oracle.ProviderNames()).
		Msg("route engine ready")
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

// Plan runs the full planning pipeline for one request.
func (svc *Service) Plan(ctx context.Context, req domain.PlanRequest, constraints domain.Constraints) (*domain.PlanResult, *domain.PlanFailure) {
	return svc.planner.Plan(ctx, req, constraints)
}

func (svc *Service) SpotPrice(ctx context.Context, base, quote string, opts domain.OracleOptions) domain.Result[float64] {
	return svc.oracle.SpotPrice(ctx, base, quote, opts)
}

func (svc *Service) Depth(ctx context.Context, base, quote string, opts domain.OracleOptions) domain.Result[domain.PoolSnapshot] {
	return svc.oracle.Depth(ctx, base, quote, opts)
}

func (svc *Service) SlippageCurve(ctx context.Context, base, quote string, opts domain.OracleOptions) domain.Result[domain.SlippageCurve] {
	return svc.oracle.SlippageCurve(ctx, base, quote, opts)
}

// Providers returns the oracle's default priority order.
func (svc *Service) Providers() []string {
	return svc.oracle.ProviderNames()
}

// Reload re-reads the config documents and rebuilds the provider set.
// In-flight requests finish against the bundle they started with.
func (svc *Service) Reload() error {
	if err := svc.docs.Reload(); err != nil {
		metrics.DocumentReloads.WithLabelValues("error").Inc()
		svc.logger.Error().Err(err).Msg("document reload failed, keeping previous bundle")
		return err
	}
	svc.oracle.Reload(svc.docs, svc.oracleDeps)
	metrics.DocumentReloads.WithLabelValues("success").Inc()
	svc.logger.Info().Msg("documents reloaded")
	return nil
}
