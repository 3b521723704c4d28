package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/application"
	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/domain"
)

// RiskHandler 负责处理尾部风险分析相关的 HTTP 请求
type RiskHandler struct {
	svc *application.AnalysisService
}

// NewRiskHandler 创建 HTTP 处理器
func NewRiskHandler(svc *application.AnalysisService) *RiskHandler {
	return &RiskHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *RiskHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/risk")
	{
		api.POST("/simulate", h.Simulate)
		api.POST("/backtest", h.Backtest)
		api.GET("/analyses/:symbol", h.ListAnalyses)
	}
}

// Simulate 执行一次蒙特卡洛分析
func (h *RiskHandler) Simulate(c *gin.Context) {
	var req application.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to run analysis", "symbol", req.Symbol, "error", err)
		response.ErrorWithStatus(c, statusFor(err), err.Error(), "")
		return
	}
	response.Success(c, dto)
}

// Backtest 回测：报告一段已实现价格变动在模拟分布中的排名
func (h *RiskHandler) Backtest(c *gin.Context) {
	var req application.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.Backtest(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to run backtest", "symbol", req.Symbol, "error", err)
		response.ErrorWithStatus(c, statusFor(err), err.Error(), "")
		return
	}
	response.Success(c, result)
}

// ListAnalyses 查询某标的最近的分析记录
func (h *RiskHandler) ListAnalyses(c *gin.Context) {
	symbol := c.Param("symbol")
	if symbol == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "symbol is required", "")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.svc.History(c.Request.Context(), symbol, limit)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to list analyses", "symbol", symbol, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, records)
}

// statusFor 领域校验类错误映射为 400，其余为 500。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, domain.ErrInsufficientData):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
