package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trailnote-go/internal/authz"
	"trailnote-go/internal/config"
	"trailnote-go/internal/infra/database"
	infraES "trailnote-go/internal/infra/elasticsearch"
	infraKafka "trailnote-go/internal/infra/kafka"
	infraMinio "trailnote-go/internal/infra/minio"
	"trailnote-go/internal/metrics"
	"trailnote-go/internal/repository"
	"trailnote-go/internal/service"
	"trailnote-go/pkg/logger"
	"trailnote-go/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	reindex := flag.Bool("reindex", false, "rebuild the diaries search index and exit")
	batchSize := flag.Int("batch", 200, "reindex batch size")
	tokenUser := flag.Int64("issue-token", 0, "print a signed access token for this user ID and exit")
	tokenRole := flag.String("role", authz.RoleUser, "role carried by -issue-token")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 本地联调用：签发令牌后退出，不连接任何依赖
	if *tokenUser > 0 {
		if !authz.ValidRole(*tokenRole) {
			logger.Fatal("Unknown role", zap.String("role", *tokenRole))
		}
		token, err := utils.GenerateTokenWithSecret(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.ExpireDuration(), *tokenUser, *tokenRole)
		if err != nil {
			logger.Fatal("Failed to issue token", zap.Error(err))
		}
		fmt.Println(token)
		return
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	defer infraES.Close()
	if err := infraES.InitIndexes(); err != nil {
		logger.Fatal("Failed to init elasticsearch indexes", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	diaryRepo := repository.NewDiaryRepository(database.Get())

	if *reindex {
		searchService := service.NewSearchService(diaryRepo, infraES.NewDiarySearcher(), cfg.Search)
		success, failed, err := searchService.ReindexAll(ctx, *batchSize)
		if err != nil {
			logger.Fatal("Reindex failed", zap.Int("success", success), zap.Int("failed", failed), zap.Error(err))
		}
		logger.Info("Reindex completed", zap.Int("success", success), zap.Int("failed", failed))
		return
	}

	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	w := &eventWorker{
		diaryRepo: diaryRepo,
		media:     infraMinio.NewMediaStore(),
		log:       logger.Named("diary-worker"),
	}

	logger.Info("Diary event worker started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.Int("max_attempts", cfg.Kafka.MaxAttempts),
	)
	infraKafka.NewDiaryEventConsumer(&cfg.Kafka, w.handle).Run(ctx)
}

// eventWorker 根据日记事件同步搜索索引并清理媒体对象
type eventWorker struct {
	diaryRepo *repository.DiaryRepository
	media     *infraMinio.MediaStore
	log       *zap.Logger
}

func (w *eventWorker) handle(ctx context.Context, event *infraKafka.DiaryEvent) error {
	err := w.syncIndex(ctx, event)
	if err == nil && len(event.RemovedMedia) > 0 {
		// 个别对象删除失败只记日志，不重放事件
		_, err = w.media.RemoveObjects(ctx, event.RemovedMedia)
	}

	result := "ok"
	if err != nil {
		result = "error"
	} else {
		w.log.Debug("Diary event handled", zap.String("type", event.Type), logger.DiaryID(event.DiaryID))
	}
	metrics.EventsConsumedTotal.WithLabelValues(event.Type, result).Inc()
	return err
}

// syncIndex 以数据库当前状态为准：公开则写入索引，否则从索引删除
func (w *eventWorker) syncIndex(ctx context.Context, event *infraKafka.DiaryEvent) error {
	switch event.Type {
	case infraKafka.EventDiaryApproved, infraKafka.EventDiaryPublished, infraKafka.EventDiaryRejected:
		diary, err := w.diaryRepo.GetByIDWithTags(ctx, event.DiaryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return infraES.DeleteDiary(ctx, event.DiaryID)
			}
			return err
		}
		if diary.IsPublic() {
			return infraES.SyncDiary(ctx, diary)
		}
		return infraES.DeleteDiary(ctx, event.DiaryID)
	case infraKafka.EventDiaryUnpublished, infraKafka.EventDiaryDeleted:
		return infraES.DeleteDiary(ctx, event.DiaryID)
	default:
		w.log.Warn("Unknown diary event type", zap.String("type", event.Type), logger.DiaryID(event.DiaryID))
		return nil
	}
}
