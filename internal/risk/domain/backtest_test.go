package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evenDistribution 0.5%, 1.5%, ..., 99.5% 处各一个样本，
// 使排名可精确推算。
func evenDistribution(t *testing.T) *SortedDistribution {
	t.Helper()
	values := make(ReturnDistribution, 100)
	for i := range values {
		values[i] = -0.5 + (float64(i)+0.5)/100
	}
	dist, err := NewSortedDistribution(values)
	require.NoError(t, err)
	return dist
}

func TestBacktestMoveReferenceCase(t *testing.T) {
	dist := evenDistribution(t)

	result, err := BacktestMove(dist, 400.0, 380.0)
	require.NoError(t, err)
	assert.InDelta(t, -0.05, result.RealizedReturn, 1e-12)
	assert.GreaterOrEqual(t, result.PercentileRank, 0.0)
	assert.LessOrEqual(t, result.PercentileRank, 100.0)
	// -5% 在均匀分布 [-49.5%, 49.5%] 上排在第 45 位
	assert.InDelta(t, 45.0, result.PercentileRank, 1e-9)
	assert.Equal(t, InterpretationNormal, result.Interpretation)
}

func TestBacktestMoveRejectsNonPositivePrices(t *testing.T) {
	dist := evenDistribution(t)
	_, err := BacktestMove(dist, 0, 380)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = BacktestMove(dist, 400, -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestRankMonotonicInObservedReturn(t *testing.T) {
	dist := evenDistribution(t)
	prev := -1.0
	for r := -0.6; r <= 0.6; r += 0.01 {
		rank := RankReturn(dist, r).PercentileRank
		assert.GreaterOrEqual(t, rank, prev)
		prev = rank
	}
}

func TestInterpretationBuckets(t *testing.T) {
	dist := evenDistribution(t)

	tests := []struct {
		observed float64
		want     string
	}{
		{-0.60, InterpretationExtremeLow},  // rank 0
		{-0.46, InterpretationExtremeLow},  // rank 4
		{-0.45, InterpretationExtremeLow},  // rank 5（边界含）
		{-0.40, InterpretationLow},         // rank 10
		{-0.35, InterpretationLow},         // rank 15（边界含）
		{0.0, InterpretationNormal},        // rank 50
		{0.35, InterpretationHigh},         // rank 85（边界含）
		{0.44, InterpretationHigh},         // rank 94
		{0.45, InterpretationExtremeHigh},  // rank 95
		{0.60, InterpretationExtremeHigh},  // rank 100
	}
	for _, tt := range tests {
		result := RankReturn(dist, tt.observed)
		assert.Equal(t, tt.want, result.Interpretation, "observed %.2f rank %.1f", tt.observed, result.PercentileRank)
	}
}
