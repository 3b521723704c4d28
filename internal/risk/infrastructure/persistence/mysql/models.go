package mysql

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/domain"
)

// AnalysisModel MySQL 分析结果表映射。收益/VaR/CVaR 以 float64 存储
// 并另存 JSON 百分位表，保留完整浮点精度。
type AnalysisModel struct {
	ID                 uint64          `gorm:"primaryKey;autoIncrement;column:id"`
	AnalysisID         string          `gorm:"column:analysis_id;type:varchar(36);uniqueIndex;not null"`
	Symbol             string          `gorm:"column:symbol;type:varchar(20);index:idx_symbol_created;not null"`
	StartPrice         decimal.Decimal `gorm:"column:start_price;type:decimal(20,8);not null"`
	HorizonDays        int             `gorm:"column:horizon_days;not null"`
	NumPaths           int             `gorm:"column:num_paths;not null"`
	Seed               *int64          `gorm:"column:seed"`
	Drift              float64         `gorm:"column:drift;not null"`
	Volatility         float64         `gorm:"column:volatility;not null"`
	ExpectedReturn     float64         `gorm:"column:expected_return;not null"`
	RealizedVolatility float64         `gorm:"column:realized_volatility;not null"`
	VaR95              float64         `gorm:"column:var_95;not null"`
	CVaR95             float64         `gorm:"column:cvar_95;not null"`
	VaR99              float64         `gorm:"column:var_99;not null"`
	CVaR99             float64         `gorm:"column:cvar_99;not null"`
	Percentiles        string          `gorm:"column:percentiles;type:text;not null"`
	RiskScore          float64         `gorm:"column:risk_score;not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;index:idx_symbol_created;not null"`
}

func (AnalysisModel) TableName() string { return "risk_analyses" }

func toAnalysisModel(rec *domain.AnalysisRecord) (*AnalysisModel, error) {
	// JSON 键为百分位档位，值保留 float64 最短往返表示
	table := make(map[string]float64, len(rec.Percentiles))
	for level, ret := range rec.Percentiles {
		table[strconv.Itoa(level)] = ret
	}
	raw, err := json.Marshal(table)
	if err != nil {
		return nil, err
	}
	return &AnalysisModel{
		AnalysisID:         rec.AnalysisID,
		Symbol:             rec.Symbol,
		StartPrice:         decimal.NewFromFloat(rec.StartPrice),
		HorizonDays:        rec.HorizonDays,
		NumPaths:           rec.NumPaths,
		Seed:               rec.Seed,
		Drift:              rec.Drift,
		Volatility:         rec.Volatility,
		ExpectedReturn:     rec.Summary.ExpectedReturn,
		RealizedVolatility: rec.Summary.RealizedVolatility,
		VaR95:              rec.Summary.VaR95,
		CVaR95:             rec.Summary.CVaR95,
		VaR99:              rec.Summary.VaR99,
		CVaR99:             rec.Summary.CVaR99,
		Percentiles:        string(raw),
		RiskScore:          rec.RiskScore,
		CreatedAt:          rec.CreatedAt,
	}, nil
}

func toAnalysisRecord(m *AnalysisModel) (*domain.AnalysisRecord, error) {
	var table map[string]float64
	if err := json.Unmarshal([]byte(m.Percentiles), &table); err != nil {
		return nil, err
	}
	percentiles := make(domain.PercentileTable, len(table))
	for key, ret := range table {
		level, err := strconv.Atoi(key)
		if err != nil {
			return nil, err
		}
		percentiles[level] = ret
	}
	return &domain.AnalysisRecord{
		AnalysisID:  m.AnalysisID,
		Symbol:      m.Symbol,
		StartPrice:  m.StartPrice.InexactFloat64(),
		HorizonDays: m.HorizonDays,
		NumPaths:    m.NumPaths,
		Seed:        m.Seed,
		Drift:       m.Drift,
		Volatility:  m.Volatility,
		Summary: domain.RiskSummary{
			ExpectedReturn:     m.ExpectedReturn,
			RealizedVolatility: m.RealizedVolatility,
			VaR95:              m.VaR95,
			CVaR95:             m.CVaR95,
			VaR99:              m.VaR99,
			CVaR99:             m.CVaR99,
		},
		Percentiles: percentiles,
		RiskScore:   m.RiskScore,
		CreatedAt:   m.CreatedAt,
	}, nil
}
