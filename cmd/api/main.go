package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trailnote-go/internal/api/handler"
	"trailnote-go/internal/api/middleware"
	"trailnote-go/internal/api/router"
	"trailnote-go/internal/authz"
	"trailnote-go/internal/config"
	"trailnote-go/internal/infra/database"
	infraES "trailnote-go/internal/infra/elasticsearch"
	infraKafka "trailnote-go/internal/infra/kafka"
	infraMinio "trailnote-go/internal/infra/minio"
	infraRedis "trailnote-go/internal/infra/redis"
	"trailnote-go/internal/repository"
	"trailnote-go/internal/service"
	"trailnote-go/pkg/logger"

	_ "trailnote-go/api/openapi"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Trailnote API
// @version 1.0
// @description 旅行日记平台 API 服务
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@trailnote.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// 加载配置文件
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	// 自动迁移数据库表
	if err := database.AutoMigrate(database.Get()); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 初始化 Redis（可选，失败则推荐不走缓存）
	redisReady := true
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		redisReady = false
		logger.Warn("Redis init failed, recommendations will read affinity tags from DB", zap.Error(err))
	} else {
		defer infraRedis.Close()
	}

	// 初始化MinIO
	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// 初始化Kafka生产者
	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		defer infraES.Close()
		if err := infraES.InitIndexes(); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
	}

	gin.SetMode(cfg.App.Mode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	enforcer := authz.Default()
	tx := service.NewTransactor(db, cfg.Ledger.MaxAttempts, cfg.Ledger.RetryBackoff())

	userRepo := repository.NewUserRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	viewRepo := repository.NewViewHistoryRepository(db)

	var affinityCache service.AffinityCache
	if redisReady {
		affinityCache = infraRedis.NewTagAffinityCache(infraRedis.Get(), cfg.Recommend.AffinityCacheTTL())
	}
	publisher := infraKafka.NewEventPublisher(cfg.Kafka.DiaryEventsTopic())

	trackService := service.NewTrackService(tx, diaryRepo, viewRepo)
	diaryService := service.NewDiaryService(service.DiaryDeps{
		Tx:           tx,
		DiaryRepo:    diaryRepo,
		Tags:         tagRepo,
		LikeRepo:     likeRepo,
		FavoriteRepo: favoriteRepo,
		CommentRepo:  commentRepo,
		ViewRepo:     viewRepo,
		Track:        trackService,
		Enforcer:     enforcer,
		Publisher:    publisher,
		Cache:        affinityCache,
	})
	reviewService := service.NewReviewService(tx, diaryRepo, likeRepo, enforcer, publisher, affinityCache)
	likeService := service.NewLikeService(tx, likeRepo, diaryRepo, affinityCache)
	favoriteService := service.NewFavoriteService(tx, favoriteRepo, diaryRepo)
	commentService := service.NewCommentService(tx, commentRepo, diaryRepo, enforcer)
	relationService := service.NewRelationService(tx, relationRepo, userRepo)
	recommendService := service.NewRecommendService(diaryRepo, tagRepo, affinityCache, cfg.Recommend.MaxPageSize)
	searchService := service.NewSearchService(diaryRepo, infraES.NewDiarySearcher(), cfg.Search)
	userService := service.NewUserService(userRepo, diaryRepo, relationRepo)

	handlers := router.Handlers{
		Diary:    handler.NewDiaryHandler(diaryService, trackService, recommendService),
		Review:   handler.NewReviewHandler(reviewService),
		Like:     handler.NewLikeHandler(likeService),
		Favorite: handler.NewFavoriteHandler(favoriteService),
		Comment:  handler.NewCommentHandler(commentService),
		Relation: handler.NewRelationHandler(relationService),
		Search:   handler.NewSearchHandler(searchService),
		User:     handler.NewUserHandler(userService),
	}

	// 注册基础路由
	r.GET("/healthz", healthCheckHandler)
	r.GET("/", rootHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册业务路由
	router.Setup(r, handlers, cfg.JWT.Secret, enforcer)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Configuration loaded",
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("minio", cfg.MinIO.Endpoint),
		zap.Strings("kafka", cfg.Kafka.Brokers),
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// healthCheckHandler 健康检查接口：数据库不可用时返回 503，缓存与搜索只报告状态
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := database.Ping(ctx); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":        status,
		"timestamp":     time.Now().Format(time.RFC3339),
		"service":       cfg.App.Name,
		"version":       cfg.App.Version,
		"mode":          cfg.App.Mode,
		"redis":         infraRedis.Ping(ctx) == nil,
		"elasticsearch": infraES.Ready(),
	})
}

// rootHandler 根路径处理器
func rootHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome to %s API", cfg.App.Name),
		"project": cfg.App.Name,
		"version": cfg.App.Version,
		"mode":    cfg.App.Mode,
		"docs":    fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.App.Port),
	})
}
