package domain

import (
	"context"
	"time"
)

// AnalysisRecord 一次完整分析运行的落库实体
type AnalysisRecord struct {
	AnalysisID  string
	Symbol      string
	StartPrice  float64
	HorizonDays int
	NumPaths    int
	Seed        *int64
	Drift       float64
	Volatility  float64
	Summary     RiskSummary
	Percentiles PercentileTable
	RiskScore   float64
	CreatedAt   time.Time
}

// AnalysisRepository 分析结果仓储
type AnalysisRepository interface {
	Save(ctx context.Context, record *AnalysisRecord) error
	GetLatest(ctx context.Context, symbol string) (*AnalysisRecord, error)
	List(ctx context.Context, symbol string, limit int) ([]*AnalysisRecord, error)
}

// EventPublisher 分析完成事件发布
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, record *AnalysisRecord) error
}
