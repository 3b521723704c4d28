package domain

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

const (
	// TradingDaysPerYear 年化基准：252 个交易日
	TradingDaysPerYear = 252
	// MinObservations 参数估计所需的最少价格点数
	MinObservations = 30
)

// Estimate 由历史序列估计出的年化参数
type Estimate struct {
	Drift      float64 // 年化漂移 mu
	Volatility float64 // 年化波动率 sigma
}

// EstimateParameters 从历史收盘价估计年化漂移与波动率。
//
//	drift      = mean(ln(P_i/P_{i-1})) * 252
//	volatility = stdev_sample(ln(P_i/P_{i-1})) * sqrt(252)
//
// 序列少于 MinObservations 个点返回 ErrInsufficientData。
// 所有价格相同（零方差）时波动率定义为 0，并返回 ErrDegenerateSeries
// 哨兵；调用方可用 errors.Is 识别后继续以确定性路径模拟。
func EstimateParameters(series HistoricalSeries) (Estimate, error) {
	if len(series) < MinObservations {
		return Estimate{}, fmt.Errorf("%w: got %d price points, need at least %d",
			ErrInsufficientData, len(series), MinObservations)
	}
	if err := series.Validate(); err != nil {
		return Estimate{}, err
	}

	logReturns := series.LogReturns()

	mean, err := stats.Mean(logReturns)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}
	stdev, err := stats.StandardDeviationSample(logReturns)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}

	est := Estimate{
		Drift:      mean * TradingDaysPerYear,
		Volatility: stdev * sqrtTradingDays,
	}
	if stdev == 0 {
		est.Volatility = 0
		return est, fmt.Errorf("%w: all %d prices identical", ErrDegenerateSeries, len(series))
	}
	return est, nil
}
