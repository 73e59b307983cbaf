package repository

import (
	"context"

	"trailnote-go/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *CommentRepository) WithTx(tx *gorm.DB) *CommentRepository {
	return &CommentRepository{db: tx}
}

// 评论列表排序：点赞多的在前，同赞数新评论在前
const commentOrder = "like_count DESC, created_at DESC, id ASC"

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Create(comment).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) GetByIDWithAuthor(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete 删除单条评论，返回是否删除成功
func (r *CommentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteReplies 删除某条顶层评论下的全部回复，返回删除条数
func (r *CommentRepository) DeleteReplies(ctx context.Context, parentID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}

// ReplyIDs 顶层评论下全部回复的 ID
func (r *CommentRepository) ReplyIDs(ctx context.Context, parentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("parent_id = ?", parentID).Pluck("id", &ids).Error
	return ids, err
}

// ListByDiary 获取日记的顶层评论
func (r *CommentRepository) ListByDiary(ctx context.Context, diaryID string, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).Where("diary_id = ? AND parent_id IS NULL", diaryID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("Author").Order(commentOrder).
		Offset(skip).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// ListReplies 获取某条评论的回复
func (r *CommentRepository) ListReplies(ctx context.Context, parentID string, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).Where("parent_id = ?", parentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("Author").Order(commentOrder).
		Offset(skip).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// CountByDiary 统计日记的评论数（含回复）
func (r *CommentRepository) CountByDiary(ctx context.Context, diaryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("diary_id = ?", diaryID).Count(&count).Error
	return count, err
}

// CountReplies 统计某条评论的回复数
func (r *CommentRepository) CountReplies(ctx context.Context, commentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("parent_id = ?", commentID).Count(&count).Error
	return count, err
}

// DeleteByDiary 删除日记下的全部评论及评论点赞（日记删除时调用）
func (r *CommentRepository) DeleteByDiary(ctx context.Context, diaryID string) (int64, error) {
	db := r.db.WithContext(ctx)
	err := db.Where("comment_id IN (?)",
		db.Model(&model.Comment{}).Select("id").Where("diary_id = ?", diaryID)).
		Delete(&model.CommentLike{}).Error
	if err != nil {
		return 0, err
	}
	result := db.Where("diary_id = ?", diaryID).Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}

// CreateLike 创建评论点赞；重复点赞返回 gorm.ErrDuplicatedKey
func (r *CommentRepository) CreateLike(ctx context.Context, userID int64, commentID string) error {
	return r.db.WithContext(ctx).Create(&model.CommentLike{UserID: userID, CommentID: commentID}).Error
}

// LikeExists 是否已点赞该评论
func (r *CommentRepository) LikeExists(ctx context.Context, userID int64, commentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).Count(&count).Error
	return count > 0, err
}

// DeleteLike 取消评论点赞，返回是否删除成功
func (r *CommentRepository) DeleteLike(ctx context.Context, userID int64, commentID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&model.CommentLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteLikesByComments 删除一批评论上的点赞
func (r *CommentRepository) DeleteLikesByComments(ctx context.Context, commentIDs []string) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("comment_id IN ?", commentIDs).Delete(&model.CommentLike{}).Error
}

// CountLikes 统计评论点赞数
func (r *CommentRepository) CountLikes(ctx context.Context, commentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

// BatchCheckLiked 批量查询评论点赞状态
func (r *CommentRepository) BatchCheckLiked(ctx context.Context, userID int64, commentIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(commentIDs))
	if len(commentIDs) == 0 || userID == 0 {
		return result, nil
	}

	var likedIDs []string
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range likedIDs {
		result[id] = true
	}
	return result, nil
}
