package repository

import (
	"context"
	"time"

	"trailnote-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViewHistoryRepository struct {
	db *gorm.DB
}

func NewViewHistoryRepository(db *gorm.DB) *ViewHistoryRepository {
	return &ViewHistoryRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *ViewHistoryRepository) WithTx(tx *gorm.DB) *ViewHistoryRepository {
	return &ViewHistoryRepository{db: tx}
}

// Upsert 记录一次浏览：当天已有记录则只更新浏览时间
func (r *ViewHistoryRepository) Upsert(ctx context.Context, userID int64, diaryID string, viewedAt time.Time) error {
	vh := &model.ViewHistory{
		UserID:   userID,
		DiaryID:  diaryID,
		ViewDate: model.ViewDateOf(viewedAt),
		ViewedAt: viewedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "diary_id"}, {Name: "view_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
	}).Create(vh).Error
}

// ListByDay 用户某天对某日记的浏览记录
func (r *ViewHistoryRepository) ListByDay(ctx context.Context, userID int64, diaryID, viewDate string) ([]model.ViewHistory, error) {
	var list []model.ViewHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND diary_id = ? AND view_date = ?", userID, diaryID, viewDate).
		Find(&list).Error
	return list, err
}

// ListByUser 用户浏览记录（最近在前）
func (r *ViewHistoryRepository) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]model.ViewHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ViewHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.ViewHistory
	err := query.Order("viewed_at DESC").Order("id DESC").Offset(skip).Limit(limit).Find(&list).Error
	return list, total, err
}

// DeleteByDiary 删除日记的浏览记录（日记删除时调用）
func (r *ViewHistoryRepository) DeleteByDiary(ctx context.Context, diaryID string) error {
	return r.db.WithContext(ctx).Where("diary_id = ?", diaryID).Delete(&model.ViewHistory{}).Error
}
