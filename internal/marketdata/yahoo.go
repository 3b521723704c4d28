// Package marketdata 提供历史行情获取协作方。风险引擎核心不直接依赖
// 本包，调用方通过 application.PriceSource 接口注入。
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/domain"
)

var ErrNoData = errors.New("marketdata: no data for symbol")

type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// YahooClient 从 Yahoo chart API 拉取日线收盘价。
type YahooClient struct {
	httpClient *http.Client
	hosts      []string
}

func NewYahooClient() *YahooClient {
	return &YahooClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		hosts:      []string{"query1.finance.yahoo.com", "query2.finance.yahoo.com"},
	}
}

// DailyCloses 拉取最近 lookbackDays 个交易日的收盘价，按时间升序返回。
func (c *YahooClient) DailyCloses(ctx context.Context, symbol string, lookbackDays int) (domain.HistoricalSeries, error) {
	rangeParam := rangeForLookback(lookbackDays)

	backoffs := []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, time.Second}
	var lastErr error
	for attempt := 0; attempt <= len(backoffs); attempt++ {
		for _, host := range c.hosts {
			series, err := c.fetch(ctx, host, symbol, rangeParam, lookbackDays)
			if err == nil {
				return series, nil
			}
			lastErr = err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
		}
		if attempt < len(backoffs) {
			select {
			case <-time.After(backoffs[attempt]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (c *YahooClient) fetch(ctx context.Context, host, symbol, rangeParam string, lookbackDays int) (domain.HistoricalSeries, error) {
	url := fmt.Sprintf("https://%s/v8/finance/chart/%s?range=%s&interval=1d&events=div,splits",
		host, symbol, rangeParam)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read yahoo response: %w", readErr)
	}
	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > 120 {
			preview = preview[:120]
		}
		return nil, fmt.Errorf("yahoo %s returned %d: %s", host, resp.StatusCode, preview)
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo %s returned non-json payload", host)
	}

	var yc yahooChartResp
	if err := json.Unmarshal(body, &yc); err != nil {
		return nil, err
	}
	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	ts := yc.Chart.Result[0].Timestamp
	closes := yc.Chart.Result[0].Indicators.Quote[0].Close
	series := make(domain.HistoricalSeries, 0, len(ts))
	for i := range ts {
		if i >= len(closes) || closes[i] <= 0 {
			continue // 停牌日等缺失点
		}
		series = append(series, domain.PricePoint{
			Date:  time.Unix(ts[i], 0).UTC(),
			Close: closes[i],
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	if len(series) > lookbackDays {
		series = series[len(series)-lookbackDays:]
	}
	return series, nil
}

// rangeForLookback 把交易日回看窗口映射到 Yahoo 的日历区间参数。
func rangeForLookback(lookbackDays int) string {
	switch {
	case lookbackDays <= 0:
		return "10y"
	case lookbackDays <= 250:
		return "1y"
	case lookbackDays <= 500:
		return "2y"
	case lookbackDays <= 1250:
		return "5y"
	default:
		return "10y"
	}
}
