package repository

import (
	"context"

	"trailnote-go/internal/model"

	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *LikeRepository) WithTx(tx *gorm.DB) *LikeRepository {
	return &LikeRepository{db: tx}
}

// Create 创建点赞记录；重复点赞返回 gorm.ErrDuplicatedKey
func (r *LikeRepository) Create(ctx context.Context, userID int64, diaryID string) error {
	return r.db.WithContext(ctx).Create(&model.Like{UserID: userID, DiaryID: diaryID}).Error
}

// Delete 删除点赞记录，返回是否删除成功
func (r *LikeRepository) Delete(ctx context.Context, userID int64, diaryID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND diary_id = ?", userID, diaryID).Delete(&model.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *LikeRepository) Exists(ctx context.Context, userID int64, diaryID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND diary_id = ?", userID, diaryID).Count(&count).Error
	return count > 0, err
}

// CountByDiary 统计日记的点赞数
func (r *LikeRepository) CountByDiary(ctx context.Context, diaryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("diary_id = ?", diaryID).Count(&count).Error
	return count, err
}

// BatchCheckLiked 批量查询点赞状态
func (r *LikeRepository) BatchCheckLiked(ctx context.Context, userID int64, diaryIDs []string) (map[string]bool, error) {
	if len(diaryIDs) == 0 {
		return map[string]bool{}, nil
	}

	var likedIDs []string
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND diary_id IN ?", userID, diaryIDs).
		Pluck("diary_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}

	likedSet := make(map[string]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = true
	}

	result := make(map[string]bool, len(diaryIDs))
	for _, id := range diaryIDs {
		result[id] = likedSet[id]
	}
	return result, nil
}

// GetLikedDiaryIDs 获取用户点赞的日记 ID 列表（按点赞时间倒序）
func (r *LikeRepository) GetLikedDiaryIDs(ctx context.Context, userID int64, skip, limit int) ([]string, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Like{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []string
	err := query.Order("created_at DESC").Order("id DESC").Offset(skip).Limit(limit).Pluck("diary_id", &ids).Error
	return ids, total, err
}

// DeleteByDiary 删除日记的全部点赞（日记删除时调用）
func (r *LikeRepository) DeleteByDiary(ctx context.Context, diaryID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("diary_id = ?", diaryID).Delete(&model.Like{})
	return result.RowsAffected, result.Error
}

// LikerIDs 点赞过该日记的用户（日记删除后用于失效推荐缓存）
func (r *LikeRepository) LikerIDs(ctx context.Context, diaryID string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("diary_id = ?", diaryID).Pluck("user_id", &ids).Error
	return ids, err
}
