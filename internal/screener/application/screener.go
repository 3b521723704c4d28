// Package application 驱动批量筛选：逐标的复用单资产分析核心，
// 失败隔离、周期性落库、可被信号中断并保留部分结果。
package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/logging"

	riskapp "github.com/TeamCinco/Realistic-Risk-Management/internal/risk/application"
	"github.com/TeamCinco/Realistic-Risk-Management/internal/screener/domain"
)

// Config 批量筛选运行配置
type Config struct {
	LookbackDays  int
	HorizonDays   int
	NumPaths      int
	ZWindow       int
	AutoSaveEvery int
	Seed          *int64
}

// 原始筛选引擎的默认档位：10000 条路径 × 90 日，6 年回看
func defaultConfig(cfg Config) Config {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = riskapp.DefaultLookbackDays
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 90
	}
	if cfg.NumPaths <= 0 {
		cfg.NumPaths = 10000
	}
	if cfg.ZWindow <= 0 {
		cfg.ZWindow = domain.DefaultZWindow
	}
	if cfg.AutoSaveEvery <= 0 {
		cfg.AutoSaveEvery = 100
	}
	return cfg
}

// Summary 一次批量运行的汇总
type Summary struct {
	Processed int
	Failed    int
	Results   []*domain.ScreenResult
}

// Screener 批量筛选应用服务。分析算法完全复用单资产核心，
// 本层只负责循环与错误隔离。
type Screener struct {
	analysis *riskapp.AnalysisService
	prices   riskapp.PriceSource
	repo     domain.ResultRepository
}

func NewScreener(analysis *riskapp.AnalysisService, prices riskapp.PriceSource, repo domain.ResultRepository) *Screener {
	return &Screener{analysis: analysis, prices: prices, repo: repo}
}

// Run 顺序处理标的清单。单个标的失败只记录日志并继续；
// ctx 取消时保存已完成的部分结果后返回。
func (s *Screener) Run(ctx context.Context, symbols []string, cfg Config) (*Summary, error) {
	cfg = defaultConfig(cfg)
	summary := &Summary{}
	var pending []*domain.ScreenResult

	flush := func(saveCtx context.Context) {
		if s.repo == nil || len(pending) == 0 {
			return
		}
		if err := s.repo.SaveBatch(saveCtx, pending); err != nil {
			logging.Error(saveCtx, "failed to save screen results", "count", len(pending), "error", err)
			return
		}
		pending = pending[:0]
	}

	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			// 收尾落库必须脱离已取消的 ctx，否则驱动会直接中止写入
			flush(context.WithoutCancel(ctx))
			return summary, ctx.Err()
		default:
		}

		result, err := s.screenOne(ctx, symbol, cfg)
		if err != nil {
			summary.Failed++
			logging.Error(ctx, "screen failed, continuing", "symbol", symbol, "error", err)
			continue
		}
		summary.Processed++
		summary.Results = append(summary.Results, result)
		pending = append(pending, result)
		if len(pending) >= cfg.AutoSaveEvery {
			flush(ctx)
		}
	}
	flush(ctx)
	return summary, nil
}

func (s *Screener) screenOne(ctx context.Context, symbol string, cfg Config) (*domain.ScreenResult, error) {
	series, err := s.prices.DailyCloses(ctx, symbol, cfg.LookbackDays)
	if err != nil {
		return nil, err
	}
	closes := series.Closes()

	z, err := domain.ZScore(closes, cfg.ZWindow)
	if err != nil {
		return nil, err
	}

	// 信号与模拟共用同一份历史序列
	dto, err := s.analysis.AnalyzeSeries(ctx, riskapp.SimulateRequest{
		Symbol:       symbol,
		LookbackDays: cfg.LookbackDays,
		HorizonDays:  cfg.HorizonDays,
		NumPaths:     cfg.NumPaths,
		Seed:         cfg.Seed,
	}, series)
	if err != nil {
		return nil, err
	}

	lastClose := series.LastClose()
	high52w := domain.HighWatermark(closes, 252)

	result := &domain.ScreenResult{
		Symbol:     symbol,
		LastClose:  lastClose,
		ZScore:     z,
		Signal:     domain.SignalFor(z),
		Drift:      dto.Drift,
		Volatility: dto.Volatility,
		High52W:    high52w,
		AnalyzedAt: time.Now(),
	}
	if high52w > 0 {
		result.DropFromHigh = lastClose/high52w - 1
	}
	for _, entry := range dto.Percentiles {
		switch entry.Level {
		case 5:
			result.P5 = entry.Return
			result.VaR95 = entry.Return
		case 10:
			result.P10 = entry.Return
		case 95:
			result.P95 = entry.Return
		}
	}
	if cvar, err := decimal.NewFromString(dto.Summary.CVaR95); err == nil {
		result.CVaR95 = cvar.InexactFloat64()
	}
	if dto.RiskState != nil {
		result.RiskScore = dto.RiskState.Score
	}
	result.Classification = domain.Classify(result)
	return result, nil
}
