// Package application 编排尾部风险引擎的完整分析流程：
// 取数 -> 参数估计 -> 路径模拟 -> 分布归约 -> 落库与事件发布。
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/domain"
)

// 默认运行参数（可被请求覆盖）
const (
	DefaultLookbackDays = 252 * 6
	DefaultHorizonDays  = 90
	DefaultNumPaths     = 25000
)

// PriceSource 历史行情来源（外部协作方）
type PriceSource interface {
	DailyCloses(ctx context.Context, symbol string, lookbackDays int) (domain.HistoricalSeries, error)
}

// AnalysisService 单资产分析应用服务。批量筛选器复用同一实例，
// 两条路径共享同一套估计/模拟/归约核心。
type AnalysisService struct {
	prices    PriceSource
	repo      domain.AnalysisRepository
	publisher domain.EventPublisher
}

// NewAnalysisService 创建应用服务。repo 与 publisher 允许为 nil
//（CLI 场景下不落库、不发事件）。
func NewAnalysisService(prices PriceSource, repo domain.AnalysisRepository, publisher domain.EventPublisher) *AnalysisService {
	return &AnalysisService{prices: prices, repo: repo, publisher: publisher}
}

// Analyze 执行一次完整分析。
func (s *AnalysisService) Analyze(ctx context.Context, req SimulateRequest) (*AnalysisDTO, error) {
	dto, _, err := s.run(ctx, req, nil, false)
	return dto, err
}

// AnalyzeSeries 复用调用方已取得的历史序列执行分析，估计与信号
// 计算基于同一份数据，且不重复取数。
func (s *AnalysisService) AnalyzeSeries(ctx context.Context, req SimulateRequest, series domain.HistoricalSeries) (*AnalysisDTO, error) {
	dto, _, err := s.run(ctx, req, series, false)
	return dto, err
}

// AnalyzeWithPaths 同 Analyze，额外返回完整路径集合供可视化协作方使用。
func (s *AnalysisService) AnalyzeWithPaths(ctx context.Context, req SimulateRequest) (*AnalysisDTO, *domain.PathEnsemble, error) {
	return s.run(ctx, req, nil, true)
}

func (s *AnalysisService) run(ctx context.Context, req SimulateRequest, series domain.HistoricalSeries, keepPaths bool) (*AnalysisDTO, *domain.PathEnsemble, error) {
	if req.Symbol == "" {
		return nil, nil, fmt.Errorf("%w: symbol is required", domain.ErrInvalidParameter)
	}
	applyDefaults(&req)

	if series == nil {
		var err error
		series, err = s.prices.DailyCloses(ctx, req.Symbol, req.LookbackDays)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch history for %s: %w", req.Symbol, err)
		}
	}

	est, degenerate, err := estimateTolerant(ctx, req.Symbol, series)
	if err != nil {
		return nil, nil, err
	}

	startPrice := req.StartPrice
	if startPrice == 0 {
		startPrice = series.LastClose()
	}

	params := domain.SimulationParameters{
		Drift:       est.Drift,
		Volatility:  est.Volatility,
		HorizonDays: req.HorizonDays,
		NumPaths:    req.NumPaths,
		Seed:        req.Seed,
	}
	ensemble, err := domain.SimulatePaths(params, startPrice)
	if err != nil {
		return nil, nil, err
	}
	dist, err := domain.NewSortedDistribution(ensemble.TerminalReturns())
	if err != nil {
		return nil, nil, err
	}
	summary, err := dist.Summary()
	if err != nil {
		return nil, nil, err
	}
	state := domain.CalculateRiskState(series, dist, summary)

	dto := &AnalysisDTO{
		AnalysisID:  fmt.Sprintf("MC-%d", idgen.GenID()),
		Symbol:      req.Symbol,
		StartPrice:  decimal.NewFromFloat(startPrice).String(),
		HorizonDays: req.HorizonDays,
		NumPaths:    req.NumPaths,
		Drift:       est.Drift,
		Volatility:  est.Volatility,
		Degenerate:  degenerate,
		Percentiles: toPercentileEntries(dist, startPrice),
		Summary:     toSummaryDTO(summary),
		RiskState: &RiskStateDTO{
			VolRatio:          state.VolRatio,
			TailRatio:         state.TailRatio,
			JumpFrequency:     state.JumpFrequency,
			DistributionWidth: state.DistributionWidth,
			Score:             state.Score,
		},
		CreatedAt: time.Now(),
	}

	if req.StressLadder {
		stress, err := domain.RunVolatilityLadder(params, startPrice, nil)
		if err != nil {
			return nil, nil, err
		}
		dto.Stress = make([]StressResultDTO, len(stress))
		for i, r := range stress {
			dto.Stress[i] = StressResultDTO{Multiplier: r.Multiplier, Summary: toSummaryDTO(&r.Summary)}
		}
	}

	if req.TargetPrice != nil {
		rank := domain.RankReturn(dist, *req.TargetPrice/startPrice-1)
		dto.TargetRank = toRankResultDTO(rank)
	}

	record := toRecord(dto, params, startPrice, dist, summary, state)
	if s.repo != nil {
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, nil, fmt.Errorf("save analysis %s: %w", dto.AnalysisID, err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishAnalysisCompleted(ctx, record); err != nil {
			logging.Warn(ctx, "failed to publish analysis event",
				"analysis_id", dto.AnalysisID, "symbol", req.Symbol, "error", err)
		}
	}

	if !keepPaths {
		return dto, nil, nil
	}
	return dto, ensemble, nil
}

// Backtest 将一段已实现的价格变动映射到模拟分布上报告排名。
func (s *AnalysisService) Backtest(ctx context.Context, req BacktestRequest) (*RankResultDTO, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", domain.ErrInvalidParameter)
	}
	if req.LookbackDays <= 0 {
		req.LookbackDays = DefaultLookbackDays
	}
	if req.HorizonDays <= 0 {
		req.HorizonDays = DefaultHorizonDays
	}
	if req.NumPaths <= 0 {
		req.NumPaths = DefaultNumPaths
	}

	series, err := s.prices.DailyCloses(ctx, req.Symbol, req.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", req.Symbol, err)
	}
	est, _, err := estimateTolerant(ctx, req.Symbol, series)
	if err != nil {
		return nil, err
	}

	params := domain.SimulationParameters{
		Drift:       est.Drift,
		Volatility:  est.Volatility,
		HorizonDays: req.HorizonDays,
		NumPaths:    req.NumPaths,
		Seed:        req.Seed,
	}
	// 从变动前的价格起模拟，使分布与观测值处于同一参照系
	returns, err := domain.SimulateReturns(params, req.PriceBefore)
	if err != nil {
		return nil, err
	}
	dist, err := domain.NewSortedDistribution(returns)
	if err != nil {
		return nil, err
	}
	result, err := domain.BacktestMove(dist, req.PriceBefore, req.PriceAfter)
	if err != nil {
		return nil, err
	}
	return toRankResultDTO(result), nil
}

// History 查询某标的最近的分析记录。
func (s *AnalysisService) History(ctx context.Context, symbol string, limit int) ([]*AnalysisDTO, error) {
	if s.repo == nil {
		return nil, nil
	}
	records, err := s.repo.List(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*AnalysisDTO, len(records))
	for i, rec := range records {
		out[i] = fromRecord(rec)
	}
	return out, nil
}

func applyDefaults(req *SimulateRequest) {
	if req.LookbackDays <= 0 {
		req.LookbackDays = DefaultLookbackDays
	}
	if req.HorizonDays <= 0 {
		req.HorizonDays = DefaultHorizonDays
	}
	if req.NumPaths <= 0 {
		req.NumPaths = DefaultNumPaths
	}
}

// estimateTolerant 参数估计；零方差序列降级为确定性模拟而非失败。
func estimateTolerant(ctx context.Context, symbol string, series domain.HistoricalSeries) (domain.Estimate, bool, error) {
	est, err := domain.EstimateParameters(series)
	if err != nil {
		if errors.Is(err, domain.ErrDegenerateSeries) {
			logging.Warn(ctx, "degenerate price series, paths will be deterministic", "symbol", symbol)
			return est, true, nil
		}
		return domain.Estimate{}, false, err
	}
	return est, false, nil
}

func toPercentileEntries(dist *domain.SortedDistribution, startPrice float64) []PercentileEntryDTO {
	table := dist.Table()
	entries := make([]PercentileEntryDTO, len(domain.PercentileLevels))
	for i, level := range domain.PercentileLevels {
		ret := table[level]
		entries[i] = PercentileEntryDTO{
			Level:  level,
			Return: ret,
			Price:  startPrice * (1 + ret),
		}
	}
	return entries
}

func toSummaryDTO(s *domain.RiskSummary) RiskSummaryDTO {
	return RiskSummaryDTO{
		ExpectedReturn:     decimal.NewFromFloat(s.ExpectedReturn).String(),
		RealizedVolatility: decimal.NewFromFloat(s.RealizedVolatility).String(),
		VaR95:              decimal.NewFromFloat(s.VaR95).String(),
		CVaR95:             decimal.NewFromFloat(s.CVaR95).String(),
		VaR99:              decimal.NewFromFloat(s.VaR99).String(),
		CVaR99:             decimal.NewFromFloat(s.CVaR99).String(),
	}
}

func toRecord(dto *AnalysisDTO, params domain.SimulationParameters, startPrice float64,
	dist *domain.SortedDistribution, summary *domain.RiskSummary, state *domain.RiskState) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		AnalysisID:  dto.AnalysisID,
		Symbol:      dto.Symbol,
		StartPrice:  startPrice,
		HorizonDays: params.HorizonDays,
		NumPaths:    params.NumPaths,
		Seed:        params.Seed,
		Drift:       params.Drift,
		Volatility:  params.Volatility,
		Summary:     *summary,
		Percentiles: dist.Table(),
		RiskScore:   state.Score,
		CreatedAt:   dto.CreatedAt,
	}
}

func fromRecord(rec *domain.AnalysisRecord) *AnalysisDTO {
	entries := make([]PercentileEntryDTO, 0, len(domain.PercentileLevels))
	for _, level := range domain.PercentileLevels {
		ret := rec.Percentiles[level]
		entries = append(entries, PercentileEntryDTO{
			Level:  level,
			Return: ret,
			Price:  rec.StartPrice * (1 + ret),
		})
	}
	return &AnalysisDTO{
		AnalysisID:  rec.AnalysisID,
		Symbol:      rec.Symbol,
		StartPrice:  decimal.NewFromFloat(rec.StartPrice).String(),
		HorizonDays: rec.HorizonDays,
		NumPaths:    rec.NumPaths,
		Drift:       rec.Drift,
		Volatility:  rec.Volatility,
		Percentiles: entries,
		Summary:     toSummaryDTO(&rec.Summary),
		RiskState:   &RiskStateDTO{Score: rec.RiskScore},
		CreatedAt:   rec.CreatedAt,
	}
}
