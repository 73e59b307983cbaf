package kafka

import (
	"context"
	"time"

	"trailnote-go/internal/config"
	"trailnote-go/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler 处理单条日记事件；返回错误时按退避重试
type EventHandler func(ctx context.Context, event *DiaryEvent) error

const (
	fetchBackoff   = time.Second
	handlerBackoff = 200 * time.Millisecond
)

// DiaryEventConsumer 至少一次消费：事件处理完成（或重试耗尽被跳过）后才提交 offset
type DiaryEventConsumer struct {
	reader      *kafka.Reader
	handler     EventHandler
	maxAttempts int
	log         *zap.Logger
}

func NewDiaryEventConsumer(cfg *config.KafkaConfig, handler EventHandler) *DiaryEventConsumer {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &DiaryEventConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       cfg.DiaryEventsTopic(),
			GroupID:     cfg.GroupID,
			MinBytes:    1,
			MaxBytes:    10e6,
			StartOffset: kafka.FirstOffset,
		}),
		handler:     handler,
		maxAttempts: attempts,
		log:         logger.Named("kafka-consumer"),
	}
}

// Run 阻塞直到 ctx 取消
func (c *DiaryEventConsumer) Run(ctx context.Context) {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.log.Error("Failed to close reader", zap.Error(err))
		}
		c.log.Info("Diary event consumer stopped")
	}()

	cfg := c.reader.Config()
	c.log.Info("Diary event consumer started", zap.String("topic", cfg.Topic), zap.String("group", cfg.GroupID))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("Failed to fetch message", zap.Error(err))
			if !sleep(ctx, fetchBackoff) {
				return
			}
			continue
		}

		if !c.process(ctx, msg) {
			return
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.log.Error("Failed to commit offset", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// process 返回 false 表示 ctx 已取消，消息未处理完，不提交
func (c *DiaryEventConsumer) process(ctx context.Context, msg kafka.Message) bool {
	var event DiaryEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.Error("Dropping malformed diary event",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.ByteString("value", msg.Value),
			zap.Error(err),
		)
		return true
	}

	for attempt := 1; ; attempt++ {
		err := c.handler(ctx, &event)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		fields := []zap.Field{
			logger.DiaryID(event.DiaryID),
			zap.String("type", event.Type),
			zap.Int("attempt", attempt),
			zap.Error(err),
		}
		if attempt >= c.maxAttempts {
			c.log.Error("Giving up on diary event", fields...)
			return true
		}
		c.log.Warn("Diary event failed, retrying", fields...)
		if !sleep(ctx, time.Duration(attempt)*handlerBackoff) {
			return false
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
