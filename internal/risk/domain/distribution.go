package domain

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
)

// PercentileLevels 百分位表的固定档位
var PercentileLevels = []int{1, 5, 10, 25, 50, 75, 90, 95, 99}

// PercentileTable 档位 -> 该百分位处的收益值
type PercentileTable map[int]float64

// RiskSummary 由收益分布归约出的风险摘要。全部量为小数收益（非百分数）。
type RiskSummary struct {
	ExpectedReturn     float64
	RealizedVolatility float64
	VaR95              float64
	CVaR95             float64
	VaR99              float64
	CVaR99             float64
}

// SortedDistribution 持有收益分布的一份排序副本。
// 所有百分位、VaR、CVaR 与排名查询都基于同一份副本计算，
// 避免重复排序引入的舍入漂移。创建后只读。
type SortedDistribution struct {
	values []float64
}

// NewSortedDistribution 复制并排序收益分布。
func NewSortedDistribution(d ReturnDistribution) (*SortedDistribution, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("%w: empty return distribution", ErrInvalidParameter)
	}
	values := make([]float64, len(d))
	copy(values, d)
	sort.Float64s(values)
	return &SortedDistribution{values: values}, nil
}

// Len 样本数量。
func (s *SortedDistribution) Len() int { return len(s.values) }

// Percentile 排序插值法取第 p 百分位（0 <= p <= 100）：
// 目标秩 p/100*(N-1)，相邻两个次序统计量线性插值。
func (s *SortedDistribution) Percentile(p float64) float64 {
	n := len(s.values)
	if n == 1 {
		return s.values[0]
	}
	if p <= 0 {
		return s.values[0]
	}
	if p >= 100 {
		return s.values[n-1]
	}
	rank := p / 100 * float64(n-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= n {
		return s.values[n-1]
	}
	return s.values[lo] + frac*(s.values[lo+1]-s.values[lo])
}

// Table 按固定档位计算百分位表。
func (s *SortedDistribution) Table() PercentileTable {
	table := make(PercentileTable, len(PercentileLevels))
	for _, level := range PercentileLevels {
		table[level] = s.Percentile(float64(level))
	}
	return table
}

// VaR 置信度 c（95 或 99）下的在险价值：收益分布第 (100-c) 百分位，
// 亏损情形下为负收益。
func (s *SortedDistribution) VaR(confidence int) float64 {
	return s.Percentile(float64(100 - confidence))
}

// CVaR 置信度 c 下的条件在险价值：所有不大于 VaR(c) 阈值（含相等，
// 并列值全部计入尾部）的收益的均值。阈值严格复用 VaR(c) 的值，
// 保证 CVaR(c) <= VaR(c) 恒成立。尾部为空时返回 ErrEmptyTail。
func (s *SortedDistribution) CVaR(confidence int) (float64, error) {
	threshold := s.VaR(confidence)
	// values 已升序，尾部即前缀
	end := sort.Search(len(s.values), func(i int) bool { return s.values[i] > threshold })
	if end == 0 {
		return 0, fmt.Errorf("%w: no returns <= var(%d) threshold %.6f", ErrEmptyTail, confidence, threshold)
	}
	var sum float64
	for _, v := range s.values[:end] {
		sum += v
	}
	return sum / float64(end), nil
}

// Mean 分布均值。
func (s *SortedDistribution) Mean() float64 {
	m, _ := stats.Mean(s.values)
	return m
}

// RealizedVolatility 收益分布的样本标准差。与估计器一致使用样本
// （n-1）口径；此值针对模拟期限本身，不做年化。
func (s *SortedDistribution) RealizedVolatility() float64 {
	if len(s.values) < 2 {
		return 0
	}
	sd, _ := stats.StandardDeviationSample(s.values)
	return sd
}

// Rank 百分位排名：分布中不大于 x 的样本占比 × 100。
// Percentile 的逆运算，Percentile(Rank(x)) ≈ x（插值误差内）。
func (s *SortedDistribution) Rank(x float64) float64 {
	count := sort.Search(len(s.values), func(i int) bool { return s.values[i] > x })
	return float64(count) / float64(len(s.values)) * 100
}

// Summary 归约出完整风险摘要。
func (s *SortedDistribution) Summary() (*RiskSummary, error) {
	cvar95, err := s.CVaR(95)
	if err != nil {
		return nil, err
	}
	cvar99, err := s.CVaR(99)
	if err != nil {
		return nil, err
	}
	return &RiskSummary{
		ExpectedReturn:     s.Mean(),
		RealizedVolatility: s.RealizedVolatility(),
		VaR95:              s.VaR(95),
		CVaR95:             cvar95,
		VaR99:              s.VaR(99),
		CVaR99:             cvar99,
	}, nil
}
