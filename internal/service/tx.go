package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"trailnote-go/internal/metrics"
	"trailnote-go/pkg/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 可重试的 PostgreSQL 错误码：序列化失败、死锁、获取锁超时
var retryableSQLStates = map[string]struct{}{
	"40001": {},
	"40P01": {},
	"55P03": {},
}

// Transactor 在单个数据库事务中执行业务单元，遇到可重试的存储错误时整体重试
type Transactor struct {
	db          *gorm.DB
	maxAttempts int
	backoff     time.Duration
}

func NewTransactor(db *gorm.DB, maxAttempts int, backoff time.Duration) *Transactor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Transactor{db: db, maxAttempts: maxAttempts, backoff: backoff}
}

// DB 返回非事务连接，用于只读查询
func (t *Transactor) DB() *gorm.DB {
	return t.db
}

// Do 执行 fn；fn 返回的业务错误直接回滚并原样返回，不重试
// 重试次数耗尽后返回的错误满足 errors.Is(err, ErrFatal)
func (t *Transactor) Do(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	for attempt := 1; ; attempt++ {
		err := t.db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}

		if attempt >= t.maxAttempts {
			metrics.TxExhaustedTotal.WithLabelValues(op).Inc()
			logger.Error("Transaction retries exhausted",
				logger.Op(op),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return Fatal(op, err)
		}

		metrics.TxRetriesTotal.WithLabelValues(op).Inc()
		logger.Warn("Retrying transaction",
			logger.Op(op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.backoff * time.Duration(attempt)):
		}
	}
}

// IsRetryable 判断错误是否为可重试的存储错误
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := retryableSQLStates[pgErr.Code]
		return ok
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
