package http

import (
	gohttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/common"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/engine"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/http/httputil"
)

type RouteHandler struct {
	engineSvc *engine.Service
}

func NewRouteHandler(engineSvc *engine.Service) *RouteHandler {
	return &RouteHandler{engineSvc: engineSvc}
}

func (h *RouteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("/plan", h.planRoute)
}

func (h *RouteHandler) Root() string {
	return "/route"
}

// PlanRouteRequest asks for the best conversion path between two tokens.
type PlanRouteRequest struct {
	// Source token symbol
	FromToken string `json:"fromToken" binding:"required" example:"XRP"`

	// Destination token symbol
	ToToken string `json:"toToken" binding:"required" example:"USDT"`

	// Trade size in token units. For side=sell this is the input amount;
	// for side=buy it is the desired output amount.
	Amount float64 `json:"amount" binding:"required" example:"100"`

	// Trade side, defaults to sell
	Side string `json:"side" enums:"buy,sell" example:"sell"`

	// Optional chain overrides; inferred from the token catalog when empty
	FromChain string `json:"fromChain,omitempty" example:"XRPL"`
	ToChain   string `json:"toChain,omitempty" example:"ETH"`

	// Caller constraints. Violations are reported on the route, they do
	// not make planning fail.
	MaxSlippagePct *float64 `json:"maxSlippagePct,omitempty" example:"0.01"`
	MaxFeeUSD      *float64 `json:"maxFeeUSD,omitempty" example:"5"`
	MaxHops        *int     `json:"maxHops,omitempty" example:"2"`
}

// @Summary Plan a swap route
// @Description Find the best conversion path between two tokens, on one chain or across chains.
// @Description
// @Description The planner evaluates direct swaps, same-chain multi-hop paths through
// @Description intermediate tokens, and bridged cross-chain paths, prices every candidate
// @Description against the configured liquidity providers, and ranks the survivors by
// @Description total fees plus slippage-adjusted output risk.
// @Description
// @Description A violated caller constraint (slippage, fee, hop limits) is reported on the
// @Description returned route, not treated as failure, so clients can offer a
// @Description proceed-anyway flow. When no executable route exists the response is a
// @Description structured failure describing what was tried.
// @Tags route
// @Accept json
// @Produce json
// @Param request body PlanRouteRequest true "Planning request"
// @Success 200 {object} httputil.Response "Best route plus up to two alternatives"
// @Failure 400 {object} domain.PlanFailure "Invalid request or unknown token"
// @Failure 404 {object} domain.PlanFailure "No executable route"
// @Router /api/v1/route/plan [post]
func (h *RouteHandler) planRoute(c *gin.Context) {
	var req PlanRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	side := domain.Side(req.Side)
	switch side {
	case domain.SideBuy, domain.SideSell:
	case "":
		side = domain.SideSell
	default:
		httputil.BadRequest(c, "invalid side: must be buy or sell")
		return
	}

	planReq := domain.PlanRequest{
		FromToken: req.FromToken,
		ToToken:   req.ToToken,
		Amount:    req.Amount,
		Side:      side,
		FromChain: req.FromChain,
		ToChain:   req.ToChain,
	}
	constraints := domain.Constraints{
		MaxSlippagePct: req.MaxSlippagePct,
		MaxFeeUSD:      req.MaxFeeUSD,
		MaxHops:        req.MaxHops,
	}

	result, failure := h.engineSvc.Plan(c.Request.Context(), planReq, constraints)
	if failure != nil {
		status := gohttp.StatusNotFound
		switch failure.Error {
		case common.CodeUnknownToken, common.CodeInvalidRoute:
			status = gohttp.StatusBadRequest
		}
		c.JSON(status, failure)
		return
	}

	httputil.Success(c, result)
}
