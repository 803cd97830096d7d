package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/common"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/engine"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/http"
)

// @title DBX Route Engine API
// @version 1.0
// @description Cross-chain route planning and liquidity aggregation for the DBX exchange.
// @description
// @description ## - Features
// @description - **Smart Routing**: Direct, multi-hop and bridged cross-chain routes, ranked by total cost
// @description - **Liquidity Oracle**: Sequential provider fallback across the XRPL DEX order book, external price feeds, anchor liquidity and an offline catalog
// @description - **Slippage Analysis**: Depth-ratio tiers with multiplicative compounding and severity warnings
// @description - **Fee Estimation**: Per-hop network, AMM and bridge fees in USD plus the primary chain's native token
// @description - **Constraint Reporting**: Violated caller limits are reported, never silently enforced
// @description
// @description ## - Liquidity Modes
// @description | Mode | Behavior |
// @description |------|----------|
// @description | **simulated** | Offline catalog only, fully deterministic |
// @description | **live** | Real sources only, no catalog fallback |
// @description | **auto** | Live sources first, catalog as safety net |
// @description
// @description ## - API Status
// @description - **Rate Limit**: 10 requests/second (burst: 20)
// @host localhost:8080
// @BasePath /
// @schemes https http
// @tag.name route
// @tag.description Plan swap routes with fee, slippage and constraint analysis
// @tag.name liquidity
// @tag.description Query the liquidity oracle directly: spot price, depth, slippage curves
// @tag.name admin
// @tag.description Operational endpoints: config document reload

func main() {
	// Initialize runtime optimizations (GOGC, GOMAXPROCS, GOMEMLIMIT)
	common.InitRuntime()

	// load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using process environment")
	}

	// di container config
	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.EngineConfig{},
	)

	// di container
	dic, err := container.New(
		conf,

		&engine.Service{},
		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
