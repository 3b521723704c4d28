package domain

import "context"

// ResultRepository 筛选结果仓储
type ResultRepository interface {
	SaveBatch(ctx context.Context, results []*ScreenResult) error
	ListByClassification(ctx context.Context, classification string, limit int) ([]*ScreenResult, error)
}
