package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wyfcoding/pkg/logging"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/marketdata"
	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/application"
	"github.com/TeamCinco/Realistic-Risk-Management/internal/viz"
)

func main() {
	var (
		symbol   string
		lookback int
		horizon  int
		paths    int
		seed     int64
		start    float64
		target   float64
		before   float64
		after    float64
		stress   bool
		chartDir string
	)

	// 环境变量可覆盖默认档位（ANALYZE_HORIZON_DAYS 等）
	viper.SetEnvPrefix("analyze")
	viper.AutomaticEnv()
	viper.SetDefault("lookback_days", application.DefaultLookbackDays)
	viper.SetDefault("horizon_days", application.DefaultHorizonDays)
	viper.SetDefault("num_paths", application.DefaultNumPaths)

	flag.StringVar(&symbol, "symbol", "", "ticker symbol (required)")
	flag.IntVar(&lookback, "lookback", viper.GetInt("lookback_days"), "calendar days of history to fetch")
	flag.IntVar(&horizon, "horizon", viper.GetInt("horizon_days"), "simulation horizon in trading days")
	flag.IntVar(&paths, "paths", viper.GetInt("num_paths"), "number of Monte Carlo paths")
	flag.Int64Var(&seed, "seed", -1, "RNG seed, -1 for non-deterministic")
	flag.Float64Var(&start, "start", 0, "override starting price, 0 uses last close")
	flag.Float64Var(&target, "target", 0, "rank this target price against the simulated distribution")
	flag.Float64Var(&before, "before", 0, "backtest: realized price at the start of the window")
	flag.Float64Var(&after, "after", 0, "backtest: realized price at the end of the window")
	flag.BoolVar(&stress, "stress", false, "run the volatility stress ladder")
	flag.StringVar(&chartDir, "charts", "", "directory to write path fan and histogram PNGs")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger := logging.NewLogger("analyze", "main", *logLevel)
	slog.SetDefault(logger.Logger)

	if symbol == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -symbol AAPL [-horizon 90] [-paths 25000] [-seed 42]")
		os.Exit(2)
	}

	yahoo := marketdata.NewYahooClient()
	prices, err := marketdata.NewCachingSource(yahoo, 15*time.Minute)
	if err != nil {
		fatalf("init price cache: %v", err)
	}
	svc := application.NewAnalysisService(prices, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var seedPtr *int64
	if seed >= 0 {
		seedPtr = &seed
	}

	// 回测模式：给定窗口前后的两个真实价格，报告其在模拟分布中的排名
	if before > 0 && after > 0 {
		result, err := svc.Backtest(ctx, application.BacktestRequest{
			Symbol:       symbol,
			PriceBefore:  before,
			PriceAfter:   after,
			LookbackDays: lookback,
			HorizonDays:  horizon,
			NumPaths:     paths,
			Seed:         seedPtr,
		})
		if err != nil {
			fatalf("backtest failed: %v", err)
		}
		fmt.Printf("%s backtest: %.2f -> %.2f over %dd\n", strings.ToUpper(symbol), before, after, horizon)
		fmt.Printf("  realized return : %+.2f%%\n", result.RealizedReturn*100)
		fmt.Printf("  percentile rank : %.1f\n", result.PercentileRank)
		fmt.Printf("  interpretation  : %s\n", result.Interpretation)
		return
	}

	req := application.SimulateRequest{
		Symbol:       symbol,
		StartPrice:   start,
		LookbackDays: lookback,
		HorizonDays:  horizon,
		NumPaths:     paths,
		Seed:         seedPtr,
		StressLadder: stress,
	}
	if target > 0 {
		req.TargetPrice = &target
	}

	dto := runAnalysis(ctx, svc, req, chartDir)
	printReport(dto)
}

func runAnalysis(ctx context.Context, svc *application.AnalysisService, req application.SimulateRequest, chartDir string) *application.AnalysisDTO {
	if chartDir == "" {
		dto, err := svc.Analyze(ctx, req)
		if err != nil {
			fatalf("analysis failed: %v", err)
		}
		return dto
	}

	dto, ensemble, err := svc.AnalyzeWithPaths(ctx, req)
	if err != nil {
		fatalf("analysis failed: %v", err)
	}
	if err := os.MkdirAll(chartDir, 0o755); err != nil {
		fatalf("create chart dir: %v", err)
	}

	fan, err := viz.RenderPathFan(req.Symbol, ensemble)
	if err != nil {
		fatalf("render path fan: %v", err)
	}
	fanPath := filepath.Join(chartDir, fmt.Sprintf("%s_paths.png", strings.ToLower(req.Symbol)))
	if err := os.WriteFile(fanPath, fan, 0o644); err != nil {
		fatalf("write %s: %v", fanPath, err)
	}

	hist, err := viz.RenderReturnHistogram(req.Symbol, ensemble.TerminalReturns(), 50)
	if err != nil {
		fatalf("render histogram: %v", err)
	}
	histPath := filepath.Join(chartDir, fmt.Sprintf("%s_returns.png", strings.ToLower(req.Symbol)))
	if err := os.WriteFile(histPath, hist, 0o644); err != nil {
		fatalf("write %s: %v", histPath, err)
	}
	fmt.Printf("charts written to %s and %s\n\n", fanPath, histPath)
	return dto
}

func printReport(dto *application.AnalysisDTO) {
	fmt.Printf("%s • %d paths • %d trading days • start %s\n",
		strings.ToUpper(dto.Symbol), dto.NumPaths, dto.HorizonDays, dto.StartPrice)
	fmt.Printf("drift %.4f  volatility %.4f (annualized)", dto.Drift, dto.Volatility)
	if dto.Degenerate {
		fmt.Printf("  [degenerate series]")
	}
	fmt.Println()

	fmt.Println("\npercentile     return      price")
	for _, p := range dto.Percentiles {
		fmt.Printf("  P%-3d      %+8.2f%%   %10.2f\n", p.Level, p.Return*100, p.Price)
	}

	fmt.Println("\nrisk summary")
	fmt.Printf("  expected return : %s\n", dto.Summary.ExpectedReturn)
	fmt.Printf("  realized vol    : %s\n", dto.Summary.RealizedVolatility)
	fmt.Printf("  VaR 95 / CVaR 95: %s / %s\n", dto.Summary.VaR95, dto.Summary.CVaR95)
	fmt.Printf("  VaR 99 / CVaR 99: %s / %s\n", dto.Summary.VaR99, dto.Summary.CVaR99)

	if dto.RiskState != nil {
		fmt.Println("\nrisk state")
		fmt.Printf("  vol ratio %.2f  tail ratio %.2f  jump freq %.4f  width %.2f\n",
			dto.RiskState.VolRatio, dto.RiskState.TailRatio, dto.RiskState.JumpFrequency, dto.RiskState.DistributionWidth)
		fmt.Printf("  composite score : %.1f\n", dto.RiskState.Score)
	}

	if len(dto.Stress) > 0 {
		fmt.Println("\nvolatility stress ladder")
		for _, s := range dto.Stress {
			fmt.Printf("  x%.2f  VaR95 %s  CVaR95 %s  CVaR99 %s\n",
				s.Multiplier, s.Summary.VaR95, s.Summary.CVaR95, s.Summary.CVaR99)
		}
	}

	if dto.TargetRank != nil {
		fmt.Println("\ntarget price rank")
		fmt.Printf("  implied return  : %+.2f%%\n", dto.TargetRank.RealizedReturn*100)
		fmt.Printf("  percentile rank : %.1f\n", dto.TargetRank.PercentileRank)
		fmt.Printf("  interpretation  : %s\n", dto.TargetRank.Interpretation)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
