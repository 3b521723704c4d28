package domain

import "fmt"

// 排名区间的定性解读
const (
	InterpretationExtremeLow  = "extreme_low"  // rank <= 5
	InterpretationLow         = "low"          // 5 < rank <= 15
	InterpretationNormal      = "normal"       // 15 < rank < 85
	InterpretationHigh        = "high"         // 85 <= rank < 95
	InterpretationExtremeHigh = "extreme_high" // rank >= 95
)

// RankResult 回测排名结果
type RankResult struct {
	RealizedReturn float64
	PercentileRank float64 // [0, 100]
	Interpretation string
}

func interpretRank(rank float64) string {
	switch {
	case rank <= 5:
		return InterpretationExtremeLow
	case rank <= 15:
		return InterpretationLow
	case rank < 85:
		return InterpretationNormal
	case rank < 95:
		return InterpretationHigh
	default:
		return InterpretationExtremeHigh
	}
}

// RankReturn 在参考分布中查找已实现收益的百分位排名。
func RankReturn(dist *SortedDistribution, observed float64) RankResult {
	rank := dist.Rank(observed)
	return RankResult{
		RealizedReturn: observed,
		PercentileRank: rank,
		Interpretation: interpretRank(rank),
	}
}

// BacktestMove 回测边界入口：由前后两个原始价格推导已实现收益
// r_obs = after/before - 1，再映射到参考分布上报告排名。
func BacktestMove(dist *SortedDistribution, before, after float64) (RankResult, error) {
	if before <= 0 || after <= 0 {
		return RankResult{}, fmt.Errorf("%w: backtest prices must be positive, got before=%.4f after=%.4f",
			ErrInvalidParameter, before, after)
	}
	return RankReturn(dist, after/before-1), nil
}
