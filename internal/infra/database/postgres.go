package database

import (
	"context"
	"fmt"
	"time"

	"trailnote-go/internal/config"
	"trailnote-go/internal/model"
	"trailnote-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// zapWriter 把 GORM 的日志输出接到 zap 上
type zapWriter struct {
	log *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}

func newGormLogger(cfg *config.DatabaseConfig) gormlogger.Interface {
	return gormlogger.New(zapWriter{log: logger.Named("gorm").Sugar()}, gormlogger.Config{
		SlowThreshold:             cfg.SlowQuery(),
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Init 连接 PostgreSQL
func Init(cfg *config.DatabaseConfig) error {
	var err error

	// TranslateError 让唯一索引冲突以 gorm.ErrDuplicatedKey 返回，计数账本据此识别并发的重复操作
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.DBName),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Duration("slow_query", cfg.SlowQuery()),
	)
	return nil
}

// AutoMigrate 迁移全部表结构（含日记-标签关联表）
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Diary{}, "Tags", &model.DiaryTag{}); err != nil {
		return fmt.Errorf("failed to setup diary_tags join table: %w", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	logger.Info("Database auto migration completed")
	return nil
}

// Ping 健康检查
func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	logger.Info("Database connection closed")
	return sqlDB.Close()
}

func Get() *gorm.DB {
	return DB
}
