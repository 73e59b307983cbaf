package minio

import (
	"context"
	"fmt"
	"time"

	"trailnote-go/internal/config"
	"trailnote-go/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var (
	client      *minio.Client
	mediaBucket string
)

// Init 初始化 MinIO 客户端并确保媒体 Bucket 存在
func Init(cfg *config.MinIOConfig) error {
	var err error
	client, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}
	mediaBucket = cfg.MediaBucket

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, mediaBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", mediaBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, mediaBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", mediaBucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", mediaBucket))
	}

	// 日记图片/视频由前端直接读取
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, mediaBucket)
	if err := client.SetBucketPolicy(ctx, mediaBucket, policy); err != nil {
		return fmt.Errorf("failed to set public policy for %s: %w", mediaBucket, err)
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", mediaBucket),
	)

	return nil
}

// Get 获取 MinIO 客户端实例
func Get() *minio.Client {
	return client
}

// MediaStore 媒体对象存储操作
type MediaStore struct{}

func NewMediaStore() *MediaStore {
	return &MediaStore{}
}

// RemoveObjects 删除日记不再引用的媒体对象，返回失败个数
// 对象已不存在不算失败
func (s *MediaStore) RemoveObjects(ctx context.Context, keys []string) (int, error) {
	if client == nil {
		return 0, fmt.Errorf("minio client not initialized")
	}
	if len(keys) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	failed := 0
	for rErr := range client.RemoveObjects(ctx, mediaBucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err == nil {
			continue
		}
		failed++
		logger.Warn("Failed to remove media object",
			zap.String("bucket", mediaBucket),
			zap.String("key", rErr.ObjectName),
			zap.Error(rErr.Err),
		)
	}

	logger.Info("Media objects removed",
		zap.String("bucket", mediaBucket),
		zap.Int("requested", len(keys)),
		zap.Int("failed", failed),
	)
	return failed, nil
}
