package http

import (
	"github.com/gin-gonic/gin"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/engine"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/http/httputil"
)

// OracleHandler exposes the liquidity oracle directly: spot price, depth and
// slippage-curve lookups, plus the admin document reload.
type OracleHandler struct {
	engineSvc *engine.Service
}

func NewOracleHandler(engineSvc *engine.Service) *OracleHandler {
	return &OracleHandler{engineSvc: engineSvc}
}

func (h *OracleHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/price", h.getSpotPrice)
	pub.GET("/depth", h.getDepth)
	pub.GET("/slippage", h.getSlippageCurve)
	admin.POST("/reload", h.reloadDocuments)
}

func (h *OracleHandler) Root() string {
	return "/liquidity"
}

// OracleQuery are the shared query parameters of the oracle endpoints.
type OracleQuery struct {
	// Base token symbol
	Base string `form:"base" binding:"required" example:"XRP"`

	// Quote token symbol
	Quote string `form:"quote" binding:"required" example:"USDT"`

	// Optional chain scope; activates the chain's provider priority
	// override when one is configured
	Chain string `form:"chain" example:"XRPL"`

	// Liquidity mode override for this call
	Mode string `form:"mode" enums:"simulated,live,auto" example:"auto"`

	// Intended trade size in base token units
	Notional float64 `form:"notional" example:"1000"`
}

func (h *OracleHandler) bindQuery(c *gin.Context) (domain.OracleOptions, string, string, bool) {
	var q OracleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return domain.OracleOptions{}, "", "", false
	}

	mode := domain.LiquidityMode(q.Mode)
	switch mode {
	case "", domain.ModeSimulated, domain.ModeLive, domain.ModeAuto:
	default:
		httputil.BadRequest(c, "invalid mode: must be simulated, live or auto")
		return domain.OracleOptions{}, "", "", false
	}

	return domain.OracleOptions{
		Chain:        q.Chain,
		Mode:         mode,
		NotionalHint: q.Notional,
	}, q.Base, q.Quote, true
}

// @Summary Get spot price
// @Description Resolve the pair's spot price through the provider fallback chain.
// @Description The response records which provider answered and which were attempted,
// @Description so a thin or misconfigured deployment is diagnosable from the payload.
// @Tags liquidity
// @Produce json
// @Param base query string true "Base token symbol" example("XRP")
// @Param quote query string true "Quote token symbol" example("USDT")
// @Param chain query string false "Chain scope" example("XRPL")
// @Param mode query string false "Liquidity mode override" Enums(simulated, live, auto)
// @Param notional query number false "Intended trade size in base units"
// @Success 200 {object} httputil.Response
// @Failure 400 {object} httputil.Response "Invalid parameters"
// @Router /api/v1/liquidity/price [get]
func (h *OracleHandler) getSpotPrice(c *gin.Context) {
	opts, base, quote, ok := h.bindQuery(c)
	if !ok {
		return
	}
	httputil.Success(c, h.engineSvc.SpotPrice(c.Request.Context(), base, quote, opts))
}

// @Summary Get pool depth
// @Description Resolve a pool/venue snapshot for the pair through the provider fallback chain.
// @Tags liquidity
// @Produce json
// @Param base query string true "Base token symbol" example("XRP")
// @Param quote query string true "Quote token symbol" example("USDT")
// @Param chain query string false "Chain scope" example("XRPL")
// @Param mode query string false "Liquidity mode override" Enums(simulated, live, auto)
// @Param notional query number false "Intended trade size in base units"
// @Success 200 {object} httputil.Response
// @Failure 400 {object} httputil.Response "Invalid parameters"
// @Router /api/v1/liquidity/depth [get]
func (h *OracleHandler) getDepth(c *gin.Context) {
	opts, base, quote, ok := h.bindQuery(c)
	if !ok {
		return
	}
	httputil.Success(c, h.engineSvc.Depth(c.Request.Context(), base, quote, opts))
}

// @Summary Get slippage curve
// @Description Resolve the pair's sampled slippage curve: expected price impact at a
// @Description range of trade sizes.
// @Tags liquidity
// @Produce json
// @Param base query string true "Base token symbol" example("XRP")
// @Param quote query string true "Quote token symbol" example("USDT")
// @Param chain query string false "Chain scope" example("XRPL")
// @Param mode query string false "Liquidity mode override" Enums(simulated, live, auto)
// @Param notional query number false "Intended trade size in base units"
// @Success 200 {object} httputil.Response
// @Failure 400 {object} httputil.Response "Invalid parameters"
// @Router /api/v1/liquidity/slippage [get]
func (h *OracleHandler) getSlippageCurve(c *gin.Context) {
	opts, base, quote, ok := h.bindQuery(c)
	if !ok {
		return
	}
	httputil.Success(c, h.engineSvc.SlippageCurve(c.Request.Context(), base, quote, opts))
}

// @Summary Reload config documents
// @Description Re-read the provider registry, liquidity catalog and token map from disk
// @Description and rebuild the provider set. A parse failure keeps the previous documents.
// @Tags admin
// @Produce json
// @Success 200 {object} httputil.Response
// @Failure 500 {object} httputil.Response "Reload failed, previous documents kept"
// @Router /api/v1/admin/liquidity/reload [post]
func (h *OracleHandler) reloadDocuments(c *gin.Context) {
	if err := h.engineSvc.Reload(); err != nil {
		httputil.InternalError(c, "reload failed: "+err.Error())
		return
	}
	httputil.Success(c, gin.H{
		"providers": h.engineSvc.Providers(),
	})
}
