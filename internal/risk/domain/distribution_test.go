package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSortedDistributionEmpty(t *testing.T) {
	_, err := NewSortedDistribution(nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPercentileLinearInterpolation(t *testing.T) {
	dist, err := NewSortedDistribution(ReturnDistribution{5, 3, 1, 4, 2})
	require.NoError(t, err)

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{10, 1.4},
		{25, 2},
		{50, 3},
		{90, 4.6},
		{100, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, dist.Percentile(tt.p), 1e-12, "percentile %.0f", tt.p)
	}
}

func TestPercentileTableLevels(t *testing.T) {
	values := make(ReturnDistribution, 1000)
	rng := rand.New(rand.NewSource(1))
	for i := range values {
		values[i] = rng.NormFloat64() * 0.1
	}
	dist, err := NewSortedDistribution(values)
	require.NoError(t, err)

	table := dist.Table()
	require.Len(t, table, len(PercentileLevels))
	prev := table[1]
	for _, level := range PercentileLevels[1:] {
		assert.GreaterOrEqual(t, table[level], prev, "table must be non-decreasing in level")
		prev = table[level]
	}
	assert.Equal(t, dist.VaR(95), table[5])
	assert.Equal(t, dist.VaR(99), table[1])
}

func TestCVaRInclusiveTies(t *testing.T) {
	// 三个并列的 -0.10 都落在尾部内（<= 阈值，而非 <）
	dist, err := NewSortedDistribution(ReturnDistribution{-0.10, -0.10, -0.10, 0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07})
	require.NoError(t, err)

	v := dist.VaR(95)
	assert.InDelta(t, -0.10, v, 1e-12)
	cvar, err := dist.CVaR(95)
	require.NoError(t, err)
	assert.InDelta(t, -0.10, cvar, 1e-12)
}

func TestCVaRNeverAboveVaR(t *testing.T) {
	rng := rand.New(rand.NewSource(ReferenceSeed))
	for run := 0; run < 10; run++ {
		values := make(ReturnDistribution, 5000)
		for i := range values {
			values[i] = rng.NormFloat64()*0.15 + 0.01
		}
		dist, err := NewSortedDistribution(values)
		require.NoError(t, err)
		for _, confidence := range []int{95, 99} {
			cvar, err := dist.CVaR(confidence)
			require.NoError(t, err)
			assert.LessOrEqual(t, cvar, dist.VaR(confidence))
		}
	}
}

func TestRankPercentileRoundTrip(t *testing.T) {
	values := make(ReturnDistribution, 25000)
	rng := rand.New(rand.NewSource(ReferenceSeed))
	for i := range values {
		values[i] = rng.NormFloat64() * 0.2
	}
	dist, err := NewSortedDistribution(values)
	require.NoError(t, err)

	for _, q := range []float64{1, 5, 10, 25, 50, 75, 90, 95, 99} {
		rank := dist.Rank(dist.Percentile(q))
		assert.InDelta(t, q, rank, 1.0, "round trip at q=%.0f", q)
	}
}

func TestRankBounds(t *testing.T) {
	dist, err := NewSortedDistribution(ReturnDistribution{-0.2, -0.1, 0, 0.1, 0.2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, dist.Rank(-1))
	assert.Equal(t, 100.0, dist.Rank(1))
}

func TestRealizedVolatilitySampleConvention(t *testing.T) {
	dist, err := NewSortedDistribution(ReturnDistribution{-0.02, 0, 0.02})
	require.NoError(t, err)
	// 样本标准差（n-1）：sqrt(0.0008/2) = 0.02
	assert.InDelta(t, 0.02, dist.RealizedVolatility(), 1e-12)
}
