package service

import (
	"context"
	"time"

	"trailnote-go/internal/infra/kafka"
	"trailnote-go/internal/metrics"
	"trailnote-go/pkg/logger"

	"go.uber.org/zap"
)

// EventPublisher 日记事件发布者（生产环境为 Kafka）
type EventPublisher interface {
	PublishDiaryEvent(ctx context.Context, event *kafka.DiaryEvent) error
}

// AffinityCache 用户偏好标签缓存（生产环境为 Redis）
type AffinityCache interface {
	GetTagIDs(ctx context.Context, userID int64) ([]string, bool, error)
	SetTagIDs(ctx context.Context, userID int64, tagIDs []string) error
	Invalidate(ctx context.Context, userID int64) error
}

type nopPublisher struct{}

func (nopPublisher) PublishDiaryEvent(context.Context, *kafka.DiaryEvent) error { return nil }

type nopAffinityCache struct{}

func (nopAffinityCache) GetTagIDs(context.Context, int64) ([]string, bool, error) {
	return nil, false, nil
}
func (nopAffinityCache) SetTagIDs(context.Context, int64, []string) error { return nil }
func (nopAffinityCache) Invalidate(context.Context, int64) error { return nil }

func orNopPublisher(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

func orNopCache(c AffinityCache) AffinityCache {
	if c == nil {
		return nopAffinityCache{}
	}
	return c
}

// publishAfterCommit 事务提交后发送事件；失败只记录日志，搜索索引与媒体清理属于派生数据
func publishAfterCommit(ctx context.Context, p EventPublisher, eventType, diaryID string, authorID int64, removedMedia []string) {
	event := &kafka.DiaryEvent{
		Type:         eventType,
		DiaryID:      diaryID,
		AuthorID:     authorID,
		RemovedMedia: removedMedia,
		OccurredAt:   time.Now(),
	}
	if err := p.PublishDiaryEvent(ctx, event); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		logger.Warn("Failed to publish diary event",
			logger.DiaryID(diaryID),
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(eventType, "ok").Inc()
}

// invalidateAffinity 点赞集合变化后清除推荐缓存；失败只影响缓存命中
func invalidateAffinity(ctx context.Context, c AffinityCache, userID int64) {
	if err := c.Invalidate(ctx, userID); err != nil {
		logger.Warn("Failed to invalidate affinity cache", logger.UserID(userID), zap.Error(err))
	}
}
