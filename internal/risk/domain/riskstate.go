package domain

import (
	"math"

	"github.com/montanaflynn/stats"
)

// RiskState 四分量复合风险状态。各分量归一化到 [0,1]，
// 综合分为四者均值 × 100。
type RiskState struct {
	VolRatio          float64 // 20 日/100 日实现波动率之比
	TailRatio         float64 // |CVaR99| / |VaR99|，尾部厚度
	JumpFrequency     float64 // 单日跌幅超过 -3% 的历史频率
	DistributionWidth float64 // P95 - P5，百分数口径
	Score             float64 // [0, 100]
}

const jumpThreshold = -0.03

// CalculateRiskState 由历史序列与模拟分布计算复合风险状态。
// 历史分量（波动率比、跳跃频率）使用简单收益率；分布分量
// （尾部厚度、分布宽度）复用已排序的模拟分布。
func CalculateRiskState(series HistoricalSeries, dist *SortedDistribution, summary *RiskSummary) *RiskState {
	returns := series.SimpleReturns()

	volRatio := 1.0
	if vol20, vol100 := trailingVol(returns, 20), trailingVol(returns, 100); vol100 != 0 {
		volRatio = vol20 / vol100
	}
	volScore := clamp01((volRatio - 0.7) / (1.5 - 0.7))

	tailRatio := 1.0
	if var99 := math.Abs(summary.VaR99); var99 != 0 {
		tailRatio = math.Abs(summary.CVaR99) / var99
	}
	tailScore := clamp01((tailRatio - 1.1) / (1.6 - 1.1))

	jumpFreq := 0.0
	if len(returns) > 0 {
		jumps := 0
		for _, r := range returns {
			if r < jumpThreshold {
				jumps++
			}
		}
		jumpFreq = float64(jumps) / float64(len(returns))
	}
	jumpScore := math.Min(jumpFreq/0.03, 1)

	// 宽度按百分数口径归一化（典型区间 10%–60%）
	width := math.Abs(dist.Percentile(95)-dist.Percentile(5)) * 100
	widthScore := clamp01((width - 10) / (60 - 10))

	return &RiskState{
		VolRatio:          volRatio,
		TailRatio:         tailRatio,
		JumpFrequency:     jumpFreq,
		DistributionWidth: width,
		Score:             (volScore + tailScore + jumpScore + widthScore) / 4 * 100,
	}
}

// trailingVol 最近 window 个收益的年化样本波动率；样本不足返回 0。
func trailingVol(returns []float64, window int) float64 {
	if len(returns) < window || window < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(returns[len(returns)-window:])
	if err != nil {
		return 0
	}
	return sd * sqrtTradingDays
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
