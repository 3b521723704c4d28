package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/application"
	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/domain"
)

// CachingSource 在任意 PriceSource 之上加基于 TTL 的进程内缓存，
// 避免批量筛选时对同一标的重复取数。
type CachingSource struct {
	next  application.PriceSource
	cache *bigcache.BigCache
}

func NewCachingSource(next application.PriceSource, ttl time.Duration) (*CachingSource, error) {
	c, err := bigcache.New(context.Background(), bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, err
	}
	return &CachingSource{next: next, cache: c}, nil
}

func (s *CachingSource) DailyCloses(ctx context.Context, symbol string, lookbackDays int) (domain.HistoricalSeries, error) {
	key := fmt.Sprintf("%s|%d", symbol, lookbackDays)
	if raw, err := s.cache.Get(key); err == nil {
		var series domain.HistoricalSeries
		if err := json.Unmarshal(raw, &series); err == nil {
			return series, nil
		}
	}

	series, err := s.next.DailyCloses(ctx, symbol, lookbackDays)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(series); err == nil {
		_ = s.cache.Set(key, raw)
	}
	return series, nil
}
