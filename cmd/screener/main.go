package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"github.com/wyfcoding/pkg/logging"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/marketdata"
	riskapp "github.com/TeamCinco/Realistic-Risk-Management/internal/risk/application"
	"github.com/TeamCinco/Realistic-Risk-Management/internal/screener/application"
	"github.com/TeamCinco/Realistic-Risk-Management/internal/screener/domain"
	"github.com/TeamCinco/Realistic-Risk-Management/internal/screener/infrastructure/persistence/sqlite"
)

func main() {
	var (
		tickerPath string
		dbPath     string
		horizon    int
		paths      int
		lookback   int
		zwindow    int
		autoSave   int
		seed       int64
	)

	viper.SetEnvPrefix("screener")
	viper.AutomaticEnv()
	viper.SetDefault("db_path", "screener_results.db")

	flag.StringVar(&tickerPath, "tickers", "", "path to ticker list file (required)")
	flag.StringVar(&dbPath, "db", viper.GetString("db_path"), "sqlite database for results")
	flag.IntVar(&horizon, "horizon", 90, "simulation horizon in trading days")
	flag.IntVar(&paths, "paths", 10000, "Monte Carlo paths per ticker")
	flag.IntVar(&lookback, "lookback", riskapp.DefaultLookbackDays, "calendar days of history to fetch")
	flag.IntVar(&zwindow, "zwindow", domain.DefaultZWindow, "rolling window for the z-score signal")
	flag.IntVar(&autoSave, "autosave", 100, "persist results every N tickers")
	flag.Int64Var(&seed, "seed", -1, "RNG seed, -1 for non-deterministic")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger := logging.NewLogger("screener", "main", *logLevel)
	slog.SetDefault(logger.Logger)

	if tickerPath == "" {
		fmt.Fprintln(os.Stderr, "usage: screener -tickers universe.txt [-db screener_results.db]")
		os.Exit(2)
	}

	symbols, err := domain.LoadTickerFile(tickerPath)
	if err != nil {
		fatalf("load tickers: %v", err)
	}

	repo, err := sqlite.Open(dbPath)
	if err != nil {
		fatalf("open results db: %v", err)
	}

	yahoo := marketdata.NewYahooClient()
	prices, err := marketdata.NewCachingSource(yahoo, 15*time.Minute)
	if err != nil {
		fatalf("init price cache: %v", err)
	}
	analysis := riskapp.NewAnalysisService(prices, nil, nil)
	screener := application.NewScreener(analysis, prices, repo)

	// Ctrl+C 中断时保留已完成的结果
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := application.Config{
		LookbackDays:  lookback,
		HorizonDays:   horizon,
		NumPaths:      paths,
		ZWindow:       zwindow,
		AutoSaveEvery: autoSave,
	}
	if seed >= 0 {
		cfg.Seed = &seed
	}

	started := time.Now()
	slog.Info("screen starting", "tickers", len(symbols), "paths", paths, "horizon", horizon)

	summary, err := screener.Run(ctx, symbols, cfg)
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		fatalf("screen failed: %v", err)
	}

	fmt.Printf("\nscreened %d tickers in %s (%d failed", summary.Processed, time.Since(started).Round(time.Second), summary.Failed)
	if interrupted {
		fmt.Printf(", interrupted; partial results saved")
	}
	fmt.Printf(")\nresults stored in %s\n", dbPath)

	byClass := map[string]int{}
	for _, r := range summary.Results {
		byClass[r.Classification]++
	}
	fmt.Println("\nclassification counts")
	for class, n := range byClass {
		fmt.Printf("  %-20s %d\n", class, n)
	}

	printCandidates("mean reversion candidates (z < -2, tradable vol)", domain.MeanReversionCandidates(summary.Results))
	printCandidates("premium selling candidates (deep drawdown, contained tail)", domain.PremiumSellingCandidates(summary.Results))
}

func printCandidates(title string, results []*domain.ScreenResult) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("\n%s\n", title)
	for _, r := range results {
		fmt.Printf("  %-6s close %8.2f  z %+5.2f  vol %5.1f%%  P5 %+6.2f%%  drop from high %+6.2f%%\n",
			strings.ToUpper(r.Symbol), r.LastClose, r.ZScore, r.Volatility*100, r.P5*100, r.DropFromHigh*100)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
