package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVolatilityLadder(t *testing.T) {
	params := SimulationParameters{
		Drift:       0.08,
		Volatility:  0.30,
		HorizonDays: 60,
		NumPaths:    10000,
		Seed:        seedPtr(ReferenceSeed),
	}
	results, err := RunVolatilityLadder(params, 100, nil)
	require.NoError(t, err)
	require.Len(t, results, len(DefaultStressMultipliers))

	// 放大波动率必须加深左尾
	for i := 1; i < len(results); i++ {
		assert.Less(t, results[i].Summary.VaR95, results[i-1].Summary.VaR95)
		assert.Less(t, results[i].Summary.CVaR95, results[i-1].Summary.CVaR95)
	}
	for _, r := range results {
		assert.LessOrEqual(t, r.Summary.CVaR95, r.Summary.VaR95)
		assert.LessOrEqual(t, r.Summary.CVaR99, r.Summary.VaR99)
	}
}

func TestRunVolatilityLadderReproducible(t *testing.T) {
	params := SimulationParameters{
		Drift:       0.05,
		Volatility:  0.25,
		HorizonDays: 30,
		NumPaths:    2000,
		Seed:        seedPtr(7),
	}
	first, err := RunVolatilityLadder(params, 50, nil)
	require.NoError(t, err)
	second, err := RunVolatilityLadder(params, 50, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunVolatilityLadderRejectsNonPositiveMultiplier(t *testing.T) {
	params := SimulationParameters{Volatility: 0.2, HorizonDays: 10, NumPaths: 10, Seed: seedPtr(1)}
	_, err := RunVolatilityLadder(params, 100, []float64{1.0, -0.5})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestCalculateRiskStateBounds(t *testing.T) {
	closes := make([]float64, 260)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		// 周期性涨跌加偶发跳空
		step := 1.004
		if i%3 == 0 {
			step = 0.995
		}
		if i%37 == 0 {
			step = 0.955
		}
		closes[i] = closes[i-1] * step
	}
	series := makeSeries(closes)

	est, err := EstimateParameters(series)
	require.NoError(t, err)

	params := SimulationParameters{
		Drift:       est.Drift,
		Volatility:  est.Volatility,
		HorizonDays: 60,
		NumPaths:    5000,
		Seed:        seedPtr(ReferenceSeed),
	}
	returns, err := SimulateReturns(params, series.LastClose())
	require.NoError(t, err)
	dist, err := NewSortedDistribution(returns)
	require.NoError(t, err)
	summary, err := dist.Summary()
	require.NoError(t, err)

	state := CalculateRiskState(series, dist, summary)
	assert.GreaterOrEqual(t, state.Score, 0.0)
	assert.LessOrEqual(t, state.Score, 100.0)
	assert.Positive(t, state.VolRatio)
	assert.Positive(t, state.TailRatio)
	assert.GreaterOrEqual(t, state.JumpFrequency, 0.0)
	assert.Positive(t, state.DistributionWidth)
}
