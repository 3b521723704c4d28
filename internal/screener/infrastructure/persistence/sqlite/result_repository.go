// Package sqlite 以 SQLite 落盘批量筛选结果，供离线复盘查询。
package sqlite

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/screener/domain"
)

// ScreenResultModel SQLite 筛选结果表映射
type ScreenResultModel struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	Symbol         string    `gorm:"column:symbol;type:varchar(20);index;not null"`
	LastClose      float64   `gorm:"column:last_close;not null"`
	ZScore         float64   `gorm:"column:z_score;not null"`
	Signal         string    `gorm:"column:signal;type:varchar(16);not null"`
	Drift          float64   `gorm:"column:drift;not null"`
	Volatility     float64   `gorm:"column:volatility;not null"`
	P5             float64   `gorm:"column:p5;not null"`
	P10            float64   `gorm:"column:p10;not null"`
	P95            float64   `gorm:"column:p95;not null"`
	VaR95          float64   `gorm:"column:var_95;not null"`
	CVaR95         float64   `gorm:"column:cvar_95;not null"`
	RiskScore      float64   `gorm:"column:risk_score;not null"`
	High52W        float64   `gorm:"column:high_52w;not null"`
	DropFromHigh   float64   `gorm:"column:drop_from_high;not null"`
	Classification string    `gorm:"column:classification;type:varchar(32);index;not null"`
	AnalyzedAt     time.Time `gorm:"column:analyzed_at;not null"`
}

func (ScreenResultModel) TableName() string { return "screen_results" }

type resultRepository struct {
	db *gorm.DB
}

// Open 打开（必要时创建）结果数据库并迁移表结构。
func Open(path string) (domain.ResultRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&ScreenResultModel{}); err != nil {
		return nil, err
	}
	return &resultRepository{db: db}, nil
}

// NewResultRepository 在已有连接上创建仓储（测试用）。
func NewResultRepository(db *gorm.DB) domain.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) SaveBatch(ctx context.Context, results []*domain.ScreenResult) error {
	if len(results) == 0 {
		return nil
	}
	models := make([]ScreenResultModel, len(results))
	for i, res := range results {
		models[i] = toModel(res)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *resultRepository) ListByClassification(ctx context.Context, classification string, limit int) ([]*domain.ScreenResult, error) {
	if limit <= 0 {
		limit = 50
	}
	var models []ScreenResultModel
	query := r.db.WithContext(ctx).Order("analyzed_at DESC").Limit(limit)
	if classification != "" {
		query = query.Where("classification = ?", classification)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.ScreenResult, len(models))
	for i := range models {
		out[i] = fromModel(&models[i])
	}
	return out, nil
}

func toModel(r *domain.ScreenResult) ScreenResultModel {
	return ScreenResultModel{
		Symbol:         r.Symbol,
		LastClose:      r.LastClose,
		ZScore:         r.ZScore,
		Signal:         r.Signal,
		Drift:          r.Drift,
		Volatility:     r.Volatility,
		P5:             r.P5,
		P10:            r.P10,
		P95:            r.P95,
		VaR95:          r.VaR95,
		CVaR95:         r.CVaR95,
		RiskScore:      r.RiskScore,
		High52W:        r.High52W,
		DropFromHigh:   r.DropFromHigh,
		Classification: r.Classification,
		AnalyzedAt:     r.AnalyzedAt,
	}
}

func fromModel(m *ScreenResultModel) *domain.ScreenResult {
	return &domain.ScreenResult{
		Symbol:         m.Symbol,
		LastClose:      m.LastClose,
		ZScore:         m.ZScore,
		Signal:         m.Signal,
		Drift:          m.Drift,
		Volatility:     m.Volatility,
		P5:             m.P5,
		P10:            m.P10,
		P95:            m.P95,
		VaR95:          m.VaR95,
		CVaR95:         m.CVaR95,
		RiskScore:      m.RiskScore,
		High52W:        m.High52W,
		DropFromHigh:   m.DropFromHigh,
		Classification: m.Classification,
		AnalyzedAt:     m.AnalyzedAt,
	}
}
