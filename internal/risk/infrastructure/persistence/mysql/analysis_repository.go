package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/domain"
)

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository 创建并返回一个新的 AnalysisRepository 实例。
func NewAnalysisRepository(db *gorm.DB) domain.AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Save(ctx context.Context, rec *domain.AnalysisRecord) error {
	if rec == nil {
		return nil
	}
	model, err := toAnalysisModel(rec)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *analysisRepository) GetLatest(ctx context.Context, symbol string) (*domain.AnalysisRecord, error) {
	var model AnalysisModel
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toAnalysisRecord(&model)
}

func (r *analysisRepository) List(ctx context.Context, symbol string, limit int) ([]*domain.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []AnalysisModel
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.AnalysisRecord, 0, len(models))
	for i := range models {
		rec, err := toAnalysisRecord(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
