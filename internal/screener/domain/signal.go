package domain

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// 均值回归信号
const (
	SignalOversold   = "OVERSOLD"   // z <= -2
	SignalOverbought = "OVERBOUGHT" // z >= +2
	SignalNeutral    = "NEUTRAL"
)

// DefaultZWindow 滚动均值窗口（交易日）
const DefaultZWindow = 60

// ZScore 最后一个收盘价相对最近 window 日滚动均值的 z 分数。
func ZScore(closes []float64, window int) (float64, error) {
	if window < 2 {
		return 0, fmt.Errorf("z-score window %d < 2", window)
	}
	if len(closes) < window {
		return 0, fmt.Errorf("need %d closes for z-score, got %d", window, len(closes))
	}
	recent := closes[len(closes)-window:]
	mean, err := stats.Mean(recent)
	if err != nil {
		return 0, err
	}
	stdev, err := stats.StandardDeviationSample(recent)
	if err != nil {
		return 0, err
	}
	if stdev == 0 {
		return 0, nil
	}
	return (closes[len(closes)-1] - mean) / stdev, nil
}

// SignalFor z 分数映射为离散信号。
func SignalFor(z float64) string {
	switch {
	case z <= -2:
		return SignalOversold
	case z >= 2:
		return SignalOverbought
	default:
		return SignalNeutral
	}
}

// HighWatermark 最近 window 个收盘价的最高值；数据不足时取全量。
func HighWatermark(closes []float64, window int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if window > 0 && len(closes) > window {
		closes = closes[len(closes)-window:]
	}
	high := closes[0]
	for _, c := range closes[1:] {
		if c > high {
			high = c
		}
	}
	return high
}
