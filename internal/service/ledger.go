package service

import (
	"context"
	"errors"

	"trailnote-go/internal/metrics"
	"trailnote-go/internal/model"
	"trailnote-go/internal/repository"

	"gorm.io/gorm"
)

// 计数器账本：事实记录（点赞、收藏、评论、关注……）的增删与对应计数的相对更新
// 总在同一事务内完成，计数只通过这里修改。

// requirePublicDiary 在事务内确认目标为公开的主日记；副本、未审核、未发布一律视为不存在
func requirePublicDiary(ctx context.Context, diaries *repository.DiaryRepository, diaryID string) (*model.Diary, error) {
	diary, err := diaries.GetPublicByID(ctx, diaryID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDiaryNotFound
		}
		return nil, err
	}
	return diary, nil
}

// incrementCounter col + 1；目标行已不存在时返回 notFound
func incrementCounter(ctx context.Context, tx *gorm.DB, table string, id interface{}, col string, notFound error) error {
	n, err := repository.AdjustCounter(ctx, tx, table, id, col, 1)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// decrementCounter col - by，要求 col >= by；不满足时返回 ErrCounterConflict 并回滚
func decrementCounter(ctx context.Context, tx *gorm.DB, table string, id interface{}, col string, by int64) error {
	if by <= 0 {
		return nil
	}
	n, err := repository.AdjustCounter(ctx, tx, table, id, col, -by)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCounterConflict
	}
	return nil
}

// recordLedger 记录账本动作结果
func recordLedger(action string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyDone):
		outcome = "already_done"
	case errors.Is(err, ErrNotDone):
		outcome = "not_done"
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrConflict):
		outcome = "conflict"
	case errors.Is(err, ErrFatal):
		outcome = "fatal"
	default:
		outcome = "error"
	}
	metrics.LedgerActionsTotal.WithLabelValues(action, outcome).Inc()
}
