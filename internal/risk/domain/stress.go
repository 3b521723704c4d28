package domain

import "fmt"

// DefaultStressMultipliers 波动率压力阶梯：基准、+25%、+50%
var DefaultStressMultipliers = []float64{1.0, 1.25, 1.5}

// StressResult 单个压力档位的归约结果
type StressResult struct {
	Multiplier float64
	Summary    RiskSummary
}

// RunVolatilityLadder 按波动率乘数阶梯重复模拟并归约。每一档仍是
// 常波动率 GBM，仅 sigma 被放大。给定种子时各档使用互不重叠的
// 子种子区间（偏移 NumPaths×档位序号），档与档之间相互独立且整体可复现。
func RunVolatilityLadder(params SimulationParameters, startPrice float64, multipliers []float64) ([]StressResult, error) {
	if len(multipliers) == 0 {
		multipliers = DefaultStressMultipliers
	}
	results := make([]StressResult, 0, len(multipliers))
	for rung, mult := range multipliers {
		if mult <= 0 {
			return nil, fmt.Errorf("%w: stress multiplier %.2f <= 0", ErrInvalidParameter, mult)
		}
		stressed := params
		stressed.Volatility = params.Volatility * mult
		if params.Seed != nil {
			sub := *params.Seed + int64(rung)*int64(params.NumPaths)
			stressed.Seed = &sub
		}

		returns, err := SimulateReturns(stressed, startPrice)
		if err != nil {
			return nil, err
		}
		dist, err := NewSortedDistribution(returns)
		if err != nil {
			return nil, err
		}
		summary, err := dist.Summary()
		if err != nil {
			return nil, err
		}
		results = append(results, StressResult{Multiplier: mult, Summary: *summary})
	}
	return results, nil
}
