package repository

import (
	"context"

	"trailnote-go/internal/model"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *FavoriteRepository) WithTx(tx *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: tx}
}

// Create 创建收藏记录；重复收藏返回 gorm.ErrDuplicatedKey
func (r *FavoriteRepository) Create(ctx context.Context, userID int64, diaryID string) error {
	return r.db.WithContext(ctx).Create(&model.Favorite{UserID: userID, DiaryID: diaryID}).Error
}

// Delete 删除收藏记录，返回是否删除成功
func (r *FavoriteRepository) Delete(ctx context.Context, userID int64, diaryID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND diary_id = ?", userID, diaryID).Delete(&model.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID int64, diaryID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND diary_id = ?", userID, diaryID).Count(&count).Error
	return count > 0, err
}

// CountByDiary 统计日记的收藏数
func (r *FavoriteRepository) CountByDiary(ctx context.Context, diaryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).Where("diary_id = ?", diaryID).Count(&count).Error
	return count, err
}

// BatchCheckFavorited 批量查询收藏状态
func (r *FavoriteRepository) BatchCheckFavorited(ctx context.Context, userID int64, diaryIDs []string) (map[string]bool, error) {
	if len(diaryIDs) == 0 {
		return map[string]bool{}, nil
	}

	var favIDs []string
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND diary_id IN ?", userID, diaryIDs).
		Pluck("diary_id", &favIDs).Error
	if err != nil {
		return nil, err
	}

	favSet := make(map[string]bool, len(favIDs))
	for _, id := range favIDs {
		favSet[id] = true
	}

	result := make(map[string]bool, len(diaryIDs))
	for _, id := range diaryIDs {
		result[id] = favSet[id]
	}
	return result, nil
}

// ListByUser 获取用户的收藏列表（含日记）
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]model.Favorite, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var favorites []model.Favorite
	err := query.Preload("Diary").Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).Find(&favorites).Error
	if err != nil {
		return nil, 0, err
	}
	return favorites, total, nil
}

// DeleteByDiary 删除日记的全部收藏（日记删除时调用）
func (r *FavoriteRepository) DeleteByDiary(ctx context.Context, diaryID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("diary_id = ?", diaryID).Delete(&model.Favorite{})
	return result.RowsAffected, result.Error
}
