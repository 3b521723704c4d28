// Package domain 包含尾部风险引擎的领域模型：参数估计、路径模拟、分布归约与回测。
package domain

import (
	"fmt"
	"math"
	"time"
)

// PricePoint 单个交易日的收盘价
type PricePoint struct {
	Date  time.Time
	Close float64
}

// HistoricalSeries 按时间升序排列的历史收盘价序列。
// 加载后不可变，调用方持有所有权，按引用传入估计器。
type HistoricalSeries []PricePoint

// Validate 校验序列严格按时间升序且价格为正。
func (s HistoricalSeries) Validate() error {
	for i, p := range s {
		if p.Close <= 0 {
			return fmt.Errorf("%w: non-positive close %.4f at index %d", ErrInvalidParameter, p.Close, i)
		}
		if i > 0 && !s[i-1].Date.Before(p.Date) {
			return fmt.Errorf("%w: series not strictly time-ordered at index %d", ErrInvalidParameter, i)
		}
	}
	return nil
}

// Closes 返回收盘价切片（新分配，调用方可自由修改）。
func (s HistoricalSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// LastClose 最后一个收盘价；空序列返回 0。
func (s HistoricalSeries) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// LogReturns 对数收益率序列 r_i = ln(P_i / P_{i-1})，长度 len(s)-1。
func (s HistoricalSeries) LogReturns() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		out[i-1] = math.Log(s[i].Close / s[i-1].Close)
	}
	return out
}

// SimpleReturns 单期简单收益率序列 (P_i / P_{i-1}) - 1。
// 波动率状态评分等历史统计使用简单收益率。
func (s HistoricalSeries) SimpleReturns() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		out[i-1] = s[i].Close/s[i-1].Close - 1
	}
	return out
}
