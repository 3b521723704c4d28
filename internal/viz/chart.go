// Package viz 将路径集合与终端收益分布渲染为 PNG，供报表协作方使用。
// 只读消费 PathEnsemble，不回写任何核心数据。
package viz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/domain"
)

// maxFanPaths 路径扇图最多渲染的路径条数，多于此数等距抽样
const maxFanPaths = 200

// RenderPathFan 渲染价格路径扇图。
func RenderPathFan(symbol string, ensemble *domain.PathEnsemble) ([]byte, error) {
	if ensemble == nil || len(ensemble.Paths) == 0 {
		return nil, errors.New("viz: empty path ensemble")
	}

	stride := 1
	if len(ensemble.Paths) > maxFanPaths {
		stride = len(ensemble.Paths) / maxFanPaths
	}
	series := make([][]float64, 0, maxFanPaths)
	for i := 0; i < len(ensemble.Paths); i += stride {
		series = append(series, ensemble.Paths[i])
	}

	horizon := len(ensemble.Paths[0]) - 1
	xAxis := make([]string, horizon+1)
	for d := 0; d <= horizon; d++ {
		xAxis[d] = fmt.Sprintf("D%d", d)
	}

	painter, err := charts.LineRender(series,
		charts.TitleTextOptionFunc(fmt.Sprintf("%s • Monte Carlo • %d paths • %dd",
			strings.ToUpper(symbol), len(ensemble.Paths), horizon)),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xAxis, BoundaryGap: charts.FalseFlag(), SplitNumber: 10}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// RenderReturnHistogram 渲染终端收益分布直方图（百分数横轴）。
func RenderReturnHistogram(symbol string, returns domain.ReturnDistribution, bins int) ([]byte, error) {
	if len(returns) == 0 {
		return nil, errors.New("viz: empty return distribution")
	}
	if bins <= 0 {
		bins = 50
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1e-9
	}
	width := (hi - lo) / float64(bins)

	counts := make([]float64, bins)
	labels := make([]string, bins)
	for _, r := range sorted {
		idx := int((r - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	for i := range labels {
		labels[i] = fmt.Sprintf("%.0f%%", (lo+width*(float64(i)+0.5))*100)
	}

	painter, err := charts.BarRender([][]float64{counts},
		charts.TitleTextOptionFunc(fmt.Sprintf("%s • terminal return distribution (n=%d)",
			strings.ToUpper(symbol), len(returns))),
		charts.XAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}
