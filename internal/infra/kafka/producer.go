package kafka

import (
	"context"
	"fmt"
	"time"

	"trailnote-go/internal/config"
	"trailnote-go/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// 日记事件类型
const (
	EventDiaryApproved    = "approved"
	EventDiaryRejected    = "rejected"
	EventDiaryPublished   = "published"
	EventDiaryUnpublished = "unpublished"
	EventDiaryDeleted     = "deleted"
)

// DiaryEvent 日记状态变更事件，worker 据此同步搜索索引、清理媒体文件
type DiaryEvent struct {
	Type         string    `json:"type"`
	DiaryID      string    `json:"diary_id"`
	AuthorID     int64     `json:"author_id"`
	RemovedMedia []string  `json:"removed_media,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// InitProducer 初始化 Kafka 生产者
func InitProducer(cfg *config.KafkaConfig) error {
	producer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return nil
}

// EventPublisher 把日记事件写入指定 topic；同一日记的事件按 diary_id 分区保证顺序
type EventPublisher struct {
	topic string
}

func NewEventPublisher(topic string) *EventPublisher {
	return &EventPublisher{topic: topic}
}

// PublishDiaryEvent 发送日记事件
func (p *EventPublisher) PublishDiaryEvent(ctx context.Context, event *DiaryEvent) error {
	if producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal diary event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte("diary-" + event.DiaryID),
		Value: payload,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send diary event: %w", err)
	}

	logger.Debug("Diary event sent",
		logger.DiaryID(event.DiaryID),
		zap.String("type", event.Type),
		zap.String("topic", p.topic),
	)

	return nil
}

// CloseProducer 关闭生产者
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return producer.Close()
}
