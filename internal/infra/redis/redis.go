package redis

import (
	"context"
	"fmt"
	"time"

	"trailnote-go/internal/config"
	"trailnote-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 推荐缓存只是优化：超时设置得很短，Redis 变慢时请求直接回源数据库
const (
	dialTimeout = 2 * time.Second
	ioTimeout   = 300 * time.Millisecond
)

var client *redis.Client

// Init 连接 Redis；失败时客户端被清空，调用方可以选择不带缓存继续运行
func Init(cfg *config.RedisConfig) error {
	c := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr(), err)
	}

	client = c
	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)
	return nil
}

// Ping 健康检查；未连接时返回错误
func Ping(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("redis not initialized")
	}
	return client.Ping(ctx).Err()
}

// Close 关闭连接
func Close() error {
	if client == nil {
		return nil
	}
	logger.Info("Redis connection closed")
	return client.Close()
}

// Get 返回客户端；未连接时为 nil
func Get() *redis.Client {
	return client
}
