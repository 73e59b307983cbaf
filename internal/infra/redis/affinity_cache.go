package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const affinityKeyPrefix = "recommend:affinity:"

// TagAffinityCache 缓存用户点赞过的日记所带标签（推荐用），点赞/取消点赞时失效
type TagAffinityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTagAffinityCache(client *redis.Client, ttl time.Duration) *TagAffinityCache {
	return &TagAffinityCache{client: client, ttl: ttl}
}

func affinityKey(userID int64) string {
	return fmt.Sprintf("%s%d", affinityKeyPrefix, userID)
}

// GetTagIDs 读取缓存；未命中时 ok=false
func (c *TagAffinityCache) GetTagIDs(ctx context.Context, userID int64) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, affinityKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, fmt.Errorf("decode affinity cache: %w", err)
	}
	return ids, true, nil
}

// SetTagIDs 写入缓存（空切片也写入，避免无点赞用户反复回源）
func (c *TagAffinityCache) SetTagIDs(ctx context.Context, userID int64, tagIDs []string) error {
	if tagIDs == nil {
		tagIDs = []string{}
	}
	raw, err := json.Marshal(tagIDs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, affinityKey(userID), raw, c.ttl).Err()
}

// Invalidate 删除缓存
func (c *TagAffinityCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, affinityKey(userID)).Err()
}
