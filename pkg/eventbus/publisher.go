package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/opencrafts-io/professor/config"
)

// ── 出站事件 ──────────────────────────────────────────────
//
// 摄取批次提交成功后发布一条摘要事件，下游（选课、通知等服务）
// 订阅 Topic 自行处理。发布是 fire-and-forget：失败只记日志，
// 绝不回滚已提交的批次，也不阻塞 HTTP 响应。
// ─────────────────────────────────────────────────────────────

// IngestedEvent batch.exam_schedule.ingested 事件载荷
type IngestedEvent struct {
	InstitutionID string    `json:"institution_id"`
	SemesterID    *int64    `json:"semester_id"`
	CourseCodes   []string  `json:"course_codes"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher 事件发布接口（Service 层依赖此抽象，便于测试替换）
type Publisher interface {
	PublishIngested(ctx context.Context, evt IngestedEvent) error
	Close() error
}

// kafkaPublisher 基于 kafka-go 的 Publisher 实现
type kafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaPublisher 创建 Kafka 发布器
// 不在此处探测连通性：Kafka 暂不可用时服务照常启动，发布时降级记日志
func NewKafkaPublisher(cfg *config.KafkaConfig, logger *zap.Logger) Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}
	return &kafkaPublisher{writer: w, logger: logger}
}

func (p *kafkaPublisher) PublishIngested(ctx context.Context, evt IngestedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化摄取事件失败: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.InstitutionID),
		Value: body,
		Time:  evt.Timestamp,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("写入事件 Topic 失败: %w", err)
	}

	p.logger.Info("摄取事件已发布",
		zap.String("institution_id", evt.InstitutionID),
		zap.Int("course_codes", len(evt.CourseCodes)),
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
