package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPtr(s int64) *int64 { return &s }

func TestSimulatePathsValidation(t *testing.T) {
	tests := []struct {
		name       string
		params     SimulationParameters
		startPrice float64
	}{
		{"zero horizon", SimulationParameters{Volatility: 0.2, HorizonDays: 0, NumPaths: 10}, 100},
		{"zero paths", SimulationParameters{Volatility: 0.2, HorizonDays: 10, NumPaths: 0}, 100},
		{"negative volatility", SimulationParameters{Volatility: -0.1, HorizonDays: 10, NumPaths: 10}, 100},
		{"non-positive start price", SimulationParameters{Volatility: 0.2, HorizonDays: 10, NumPaths: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulatePaths(tt.params, tt.startPrice)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestSimulatePathsSeededReproducibility(t *testing.T) {
	params := SimulationParameters{
		Drift:       0.08,
		Volatility:  0.30,
		HorizonDays: 30,
		NumPaths:    500,
		Seed:        seedPtr(ReferenceSeed),
	}
	first, err := SimulatePaths(params, 100)
	require.NoError(t, err)
	second, err := SimulatePaths(params, 100)
	require.NoError(t, err)

	// 并发生成下仍须逐比特一致
	require.Equal(t, len(first.Paths), len(second.Paths))
	for i := range first.Paths {
		assert.Equal(t, first.Paths[i], second.Paths[i], "path %d diverged", i)
	}
}

func TestSimulatePathsShape(t *testing.T) {
	params := SimulationParameters{
		Drift:       0.05,
		Volatility:  0.25,
		HorizonDays: 20,
		NumPaths:    64,
		Seed:        seedPtr(7),
	}
	ensemble, err := SimulatePaths(params, 250)
	require.NoError(t, err)
	require.Len(t, ensemble.Paths, 64)
	for _, path := range ensemble.Paths {
		require.Len(t, path, 21)
		assert.Equal(t, 250.0, path[0])
		for _, p := range path {
			assert.Positive(t, p)
		}
	}
}

func TestSimulatePathsDegenerateVolatility(t *testing.T) {
	params := SimulationParameters{
		Drift:       0.10,
		Volatility:  0,
		HorizonDays: 60,
		NumPaths:    200,
		Seed:        seedPtr(ReferenceSeed),
	}
	returns, err := SimulateReturns(params, 100)
	require.NoError(t, err)

	// 零波动率下每条路径都是确定性的漂移收益
	want := math.Exp(params.Drift/TradingDaysPerYear*float64(params.HorizonDays)) - 1
	for _, r := range returns {
		assert.InDelta(t, want, r, 1e-12)
	}

	dist, err := NewSortedDistribution(returns)
	require.NoError(t, err)
	summary, err := dist.Summary()
	require.NoError(t, err)
	assert.InDelta(t, want, dist.Percentile(1), 1e-12)
	assert.InDelta(t, want, dist.Percentile(99), 1e-12)
	assert.InDelta(t, want, summary.VaR95, 1e-12)
	assert.InDelta(t, want, summary.CVaR95, 1e-12)
}

func TestSimulateZeroDriftMedianNearZero(t *testing.T) {
	params := SimulationParameters{
		Drift:       0,
		Volatility:  0.20,
		HorizonDays: 20,
		NumPaths:    50000,
		Seed:        seedPtr(ReferenceSeed),
	}
	returns, err := SimulateReturns(params, 100)
	require.NoError(t, err)
	dist, err := NewSortedDistribution(returns)
	require.NoError(t, err)

	// 零漂移下中位数应随 N 增大收敛到伊藤修正项附近
	median := dist.Percentile(50)
	assert.InDelta(t, math.Exp(-0.5*0.2*0.2*20.0/TradingDaysPerYear)-1, median, 0.005)
}

func TestSimulateReferenceScenario(t *testing.T) {
	// 基准场景：S0=100, mu=0.08, sigma=0.30, 60 日, 25000 条路径
	params := SimulationParameters{
		Drift:       0.08,
		Volatility:  0.30,
		HorizonDays: 60,
		NumPaths:    25000,
		Seed:        seedPtr(ReferenceSeed),
	}
	returns, err := SimulateReturns(params, 100)
	require.NoError(t, err)
	dist, err := NewSortedDistribution(returns)
	require.NoError(t, err)
	summary, err := dist.Summary()
	require.NoError(t, err)

	horizonVol := 0.30 * math.Sqrt(60.0/TradingDaysPerYear)
	assert.InDelta(t, horizonVol, summary.RealizedVolatility, horizonVol*0.15)
	assert.Negative(t, summary.VaR95)
	assert.LessOrEqual(t, summary.CVaR95, summary.VaR95)
	assert.LessOrEqual(t, summary.CVaR99, summary.VaR99)
}
