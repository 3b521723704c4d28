package application

import (
	"time"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/domain"
)

// SimulateRequest 模拟请求 DTO
type SimulateRequest struct {
	Symbol       string   `json:"symbol"`
	StartPrice   float64  `json:"start_price,omitempty"` // 0 表示使用最后收盘价
	LookbackDays int      `json:"lookback_days,omitempty"`
	HorizonDays  int      `json:"horizon_days"`
	NumPaths     int      `json:"num_paths"`
	Seed         *int64   `json:"seed,omitempty"`
	TargetPrice  *float64 `json:"target_price,omitempty"`
	StressLadder bool     `json:"stress_ladder,omitempty"`
}

// BacktestRequest 回测请求 DTO：两只原始价格
type BacktestRequest struct {
	Symbol       string  `json:"symbol"`
	PriceBefore  float64 `json:"price_before"`
	PriceAfter   float64 `json:"price_after"`
	LookbackDays int     `json:"lookback_days,omitempty"`
	HorizonDays  int     `json:"horizon_days"`
	NumPaths     int     `json:"num_paths"`
	Seed         *int64  `json:"seed,omitempty"`
}

// PercentileEntryDTO 百分位表单行
type PercentileEntryDTO struct {
	Level  int     `json:"percentile"`
	Return float64 `json:"return"`
	Price  float64 `json:"price"`
}

// RiskSummaryDTO 风险摘要 DTO。金额字段以 decimal 字符串输出，
// 保留完整浮点精度。
type RiskSummaryDTO struct {
	ExpectedReturn     string `json:"expected_return"`
	RealizedVolatility string `json:"realized_volatility"`
	VaR95              string `json:"var_95"`
	CVaR95             string `json:"cvar_95"`
	VaR99              string `json:"var_99"`
	CVaR99             string `json:"cvar_99"`
}

// StressResultDTO 压力档位 DTO
type StressResultDTO struct {
	Multiplier float64        `json:"multiplier"`
	Summary    RiskSummaryDTO `json:"summary"`
}

// RankResultDTO 回测排名 DTO
type RankResultDTO struct {
	RealizedReturn float64 `json:"realized_return"`
	PercentileRank float64 `json:"percentile_rank"`
	Interpretation string  `json:"interpretation"`
}

// RiskStateDTO 复合风险状态 DTO
type RiskStateDTO struct {
	VolRatio          float64 `json:"vol_ratio"`
	TailRatio         float64 `json:"tail_ratio"`
	JumpFrequency     float64 `json:"jump_freq"`
	DistributionWidth float64 `json:"distribution_width"`
	Score             float64 `json:"risk_state_score"`
}

// AnalysisDTO 一次分析运行的响应 DTO
type AnalysisDTO struct {
	AnalysisID  string               `json:"analysis_id"`
	Symbol      string               `json:"symbol"`
	StartPrice  string               `json:"start_price"`
	HorizonDays int                  `json:"horizon_days"`
	NumPaths    int                  `json:"num_paths"`
	Drift       float64              `json:"drift"`
	Volatility  float64              `json:"volatility"`
	Degenerate  bool                 `json:"degenerate,omitempty"`
	Percentiles []PercentileEntryDTO `json:"percentiles"`
	Summary     RiskSummaryDTO       `json:"summary"`
	RiskState   *RiskStateDTO        `json:"risk_state,omitempty"`
	Stress      []StressResultDTO    `json:"stress,omitempty"`
	TargetRank  *RankResultDTO       `json:"target_rank,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toRankResultDTO(r domain.RankResult) *RankResultDTO {
	return &RankResultDTO{
		RealizedReturn: r.RealizedReturn,
		PercentileRank: r.PercentileRank,
		Interpretation: r.Interpretation,
	}
}
