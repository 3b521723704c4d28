package domain

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZScore(t *testing.T) {
	// 窗口 [10,10,10,10,14]：均值 10.8，样本标准差 sqrt(3.2)
	closes := []float64{1, 2, 3, 10, 10, 10, 10, 14}
	z, err := ZScore(closes, 5)
	require.NoError(t, err)
	assert.InDelta(t, (14-10.8)/math.Sqrt(3.2), z, 1e-12)
}

func TestZScoreErrors(t *testing.T) {
	_, err := ZScore([]float64{1, 2, 3}, 5)
	assert.Error(t, err)
	_, err = ZScore([]float64{1, 2, 3}, 1)
	assert.Error(t, err)
}

func TestZScoreFlatWindow(t *testing.T) {
	z, err := ZScore([]float64{5, 5, 5, 5, 5}, 5)
	require.NoError(t, err)
	assert.Zero(t, z)
}

func TestSignalFor(t *testing.T) {
	assert.Equal(t, SignalOversold, SignalFor(-2.5))
	assert.Equal(t, SignalOversold, SignalFor(-2))
	assert.Equal(t, SignalNeutral, SignalFor(-1.9))
	assert.Equal(t, SignalNeutral, SignalFor(1.9))
	assert.Equal(t, SignalOverbought, SignalFor(2))
}

func TestHighWatermark(t *testing.T) {
	closes := []float64{50, 80, 60, 70}
	assert.Equal(t, 80.0, HighWatermark(closes, 0))
	assert.Equal(t, 70.0, HighWatermark(closes, 2))
	assert.Zero(t, HighWatermark(nil, 10))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		result ScreenResult
		want   string
	}{
		{"catastrophic", ScreenResult{P5: -0.20, Volatility: 0.5}, ClassCatastrophic},
		{"extreme oversold", ScreenResult{P5: -0.08, Volatility: 0.3}, ClassExtremeOversold},
		{"extreme overbought", ScreenResult{P5: 0.02, P95: 0.20, Volatility: 0.3}, ClassExtremeOverbought},
		{"high volatility", ScreenResult{P5: -0.02, P95: 0.10, Volatility: 0.45}, ClassHighVolatility},
		{"moderate pullback", ScreenResult{P5: -0.03, P10: -0.06, P95: 0.08, Volatility: 0.25}, ClassModeratePullback},
		{"stable", ScreenResult{P5: -0.04, P10: -0.02, P95: 0.05, Volatility: 0.15}, ClassStable},
		{"suspect volatility", ScreenResult{P5: -0.02, Volatility: 3.5}, ClassSuspectData},
		{"suspect tail", ScreenResult{P5: -1.2, Volatility: 0.5}, ClassSuspectData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.result))
		})
	}
}

func TestCandidateFilters(t *testing.T) {
	results := []*ScreenResult{
		{Symbol: "A", ZScore: -2.5, Volatility: 0.25, Classification: ClassExtremeOversold},
		{Symbol: "B", ZScore: -2.5, Volatility: 0.60, Classification: ClassHighVolatility},
		{Symbol: "C", ZScore: 0.5, Volatility: 0.25, DropFromHigh: -0.20, P10: -0.07, Classification: ClassModeratePullback},
		{Symbol: "D", ZScore: -3.0, Volatility: 0.25, Classification: ClassSuspectData},
	}

	mr := MeanReversionCandidates(results)
	require.Len(t, mr, 1)
	assert.Equal(t, "A", mr[0].Symbol)

	ps := PremiumSellingCandidates(results)
	require.Len(t, ps, 1)
	assert.Equal(t, "C", ps[0].Symbol)
}

func TestLoadTickerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.txt")
	content := "# watchlist\nAAPL\tMSFT\n\nnvda\nAAPL\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tickers, err := LoadTickerFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, tickers)
}

func TestLoadTickerFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing\n"), 0o644))
	_, err := LoadTickerFile(path)
	assert.Error(t, err)
}
