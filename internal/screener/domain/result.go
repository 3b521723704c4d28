package domain

import "time"

// 分布形态分类。阈值沿用小数收益口径（-0.05 即 -5%）。
const (
	ClassExtremeOversold   = "extreme_oversold"   // p5 ∈ [-15%, -5%]
	ClassCatastrophic      = "catastrophic"       // p5 < -15%
	ClassExtremeOverbought = "extreme_overbought" // p95 > +15%
	ClassHighVolatility    = "high_volatility"    // 年化波动率 > 40%
	ClassModeratePullback  = "moderate_pullback"  // p10 ∈ [-10%, -5%]
	ClassStable            = "stable"             // 波动率 < 20% 且 p95-p5 < 30%
	ClassUnremarkable      = "unremarkable"
	ClassSuspectData       = "suspect_data" // 未通过健全性过滤
)

// ScreenResult 单个标的的筛选结果
type ScreenResult struct {
	Symbol         string
	LastClose      float64
	ZScore         float64
	Signal         string
	Drift          float64 // 年化
	Volatility     float64 // 年化
	P5             float64
	P10            float64
	P95            float64
	VaR95          float64
	CVaR95         float64
	RiskScore      float64
	High52W        float64
	DropFromHigh   float64 // (last/high) - 1
	Classification string
	AnalyzedAt     time.Time
}

// Classify 按分布形态归类。健全性过滤先行：波动率或尾部超出
// 合理范围的结果标记为 suspect_data，不参与其它分类。
func Classify(r *ScreenResult) string {
	if r.Volatility >= 3.0 || r.P5 <= -1.0 || r.P95 >= 3.0 {
		return ClassSuspectData
	}
	switch {
	case r.P5 < -0.15:
		return ClassCatastrophic
	case r.P5 >= -0.15 && r.P5 <= -0.05:
		return ClassExtremeOversold
	case r.P95 > 0.15:
		return ClassExtremeOverbought
	case r.Volatility > 0.40:
		return ClassHighVolatility
	case r.P10 >= -0.10 && r.P10 <= -0.05:
		return ClassModeratePullback
	case r.Volatility < 0.20 && (r.P95-r.P5) < 0.30:
		return ClassStable
	default:
		return ClassUnremarkable
	}
}

// MeanReversionCandidates 超卖且波动率处于可交易区间的标的。
func MeanReversionCandidates(results []*ScreenResult) []*ScreenResult {
	var out []*ScreenResult
	for _, r := range results {
		if r.Classification == ClassSuspectData {
			continue
		}
		if r.ZScore < -2 && r.Volatility >= 0.15 && r.Volatility <= 0.40 {
			out = append(out, r)
		}
	}
	return out
}

// PremiumSellingCandidates 已深跌且下行尾部有限的标的。
func PremiumSellingCandidates(results []*ScreenResult) []*ScreenResult {
	var out []*ScreenResult
	for _, r := range results {
		if r.Classification == ClassSuspectData {
			continue
		}
		if r.DropFromHigh <= -0.10 &&
			r.P10 >= -0.10 && r.P10 <= -0.05 &&
			r.Volatility >= 0.15 && r.Volatility <= 0.30 {
			out = append(out, r)
		}
	}
	return out
}
