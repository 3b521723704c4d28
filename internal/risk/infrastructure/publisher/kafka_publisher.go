package publisher

import (
	"context"
	"encoding/json"

	"github.com/wyfcoding/pkg/messagequeue/kafka"

	"github.com/TeamCinco/Realistic-Risk-Management/internal/risk/domain"
)

// TopicAnalysisCompleted 分析完成事件主题
const TopicAnalysisCompleted = "risk.analysis.completed"

type KafkaAnalysisPublisher struct {
	producer *kafka.Producer
}

func NewKafkaAnalysisPublisher(producer *kafka.Producer) domain.EventPublisher {
	return &KafkaAnalysisPublisher{producer: producer}
}

func (p *KafkaAnalysisPublisher) PublishAnalysisCompleted(ctx context.Context, rec *domain.AnalysisRecord) error {
	msg := map[string]any{
		"analysis_id":  rec.AnalysisID,
		"symbol":       rec.Symbol,
		"horizon_days": rec.HorizonDays,
		"num_paths":    rec.NumPaths,
		"var_95":       rec.Summary.VaR95,
		"cvar_95":      rec.Summary.CVaR95,
		"var_99":       rec.Summary.VaR99,
		"cvar_99":      rec.Summary.CVaR99,
		"risk_score":   rec.RiskScore,
		"created_at":   rec.CreatedAt.UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.producer.PublishToTopic(ctx, TopicAnalysisCompleted, []byte(rec.Symbol), data)
}
