package repository

import (
	"context"
	"strings"

	"trailnote-go/internal/model"

	"gorm.io/gorm"
)

type DiaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *DiaryRepository) WithTx(tx *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: tx}
}

// 已审核、已发布的主日记
func publicDiaries(db *gorm.DB) *gorm.DB {
	return db.Where("diaries.parent_id IS NULL AND diaries.status = ? AND diaries.published = ?",
		model.DiaryStatusApproved, true)
}

// 推荐与热门列表的统一排序
const rankOrder = "like_count DESC, view_count DESC, published_at DESC, id ASC"

// GetByID 根据 ID 获取日记（主日记或副本）
func (r *DiaryRepository) GetByID(ctx context.Context, id string) (*model.Diary, error) {
	var diary model.Diary
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&diary).Error
	if err != nil {
		return nil, err
	}
	return &diary, nil
}

// GetByIDWithTags 获取日记（含作者与标签）
func (r *DiaryRepository) GetByIDWithTags(ctx context.Context, id string) (*model.Diary, error) {
	var diary model.Diary
	err := r.db.WithContext(ctx).Preload("Author").Preload("Tags").
		Where("id = ?", id).First(&diary).Error
	if err != nil {
		return nil, err
	}
	return &diary, nil
}

// GetPublicByID 获取公开日记（副本、未审核、未发布均视为不存在）
func (r *DiaryRepository) GetPublicByID(ctx context.Context, id string) (*model.Diary, error) {
	var diary model.Diary
	err := publicDiaries(r.db.WithContext(ctx)).Where("id = ?", id).First(&diary).Error
	if err != nil {
		return nil, err
	}
	return &diary, nil
}

// GetShadow 获取主日记当前的待审核副本
func (r *DiaryRepository) GetShadow(ctx context.Context, parentID string) (*model.Diary, error) {
	var diary model.Diary
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).First(&diary).Error
	if err != nil {
		return nil, err
	}
	return &diary, nil
}

// Create 创建日记记录（标签单独通过 ReplaceTags 维护）
func (r *DiaryRepository) Create(ctx context.Context, diary *model.Diary) error {
	return r.db.WithContext(ctx).Omit("Author", "Tags").Create(diary).Error
}

// UpdateColumns 按列把 diary 上的值写回（零值同样写入）
func (r *DiaryRepository) UpdateColumns(ctx context.Context, diary *model.Diary, columns ...string) error {
	result := r.db.WithContext(ctx).Model(diary).Select(append(columns, "updated_at")).Updates(diary)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除日记行，返回是否删除成功
func (r *DiaryRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Diary{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TagIDs 获取日记关联的标签 ID
func (r *DiaryRepository) TagIDs(ctx context.Context, diaryID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.DiaryTag{}).
		Where("diary_id = ?", diaryID).Order("tag_id").Pluck("tag_id", &ids).Error
	return ids, err
}

// ReplaceTags 用给定标签集合覆盖日记的标签关联
func (r *DiaryRepository) ReplaceTags(ctx context.Context, diaryID string, tagIDs []string) error {
	if err := r.ClearTags(ctx, diaryID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]model.DiaryTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, model.DiaryTag{DiaryID: diaryID, TagID: tagID})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

// ClearTags 删除日记的全部标签关联
func (r *DiaryRepository) ClearTags(ctx context.Context, diaryID string) error {
	return r.db.WithContext(ctx).Where("diary_id = ?", diaryID).Delete(&model.DiaryTag{}).Error
}

// ListByIDs 批量获取日记（含作者与标签），返回顺序不保证
func (r *DiaryRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Diary, error) {
	if len(ids) == 0 {
		return []model.Diary{}, nil
	}
	var diaries []model.Diary
	err := r.db.WithContext(ctx).Preload("Author").Preload("Tags").
		Where("id IN ?", ids).Find(&diaries).Error
	return diaries, err
}

// ListByAuthor 作者的日记列表；onlyPublic=false 时包含未公开日记与副本
func (r *DiaryRepository) ListByAuthor(ctx context.Context, authorID int64, onlyPublic bool, skip, limit int) ([]model.Diary, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Diary{}).Where("author_id = ?", authorID)
	if onlyPublic {
		query = publicDiaries(query)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var diaries []model.Diary
	err := query.Preload("Tags").Order("created_at DESC").Order("id ASC").
		Offset(skip).Limit(limit).Find(&diaries).Error
	if err != nil {
		return nil, 0, err
	}
	return diaries, total, nil
}

// CountPublicByAuthor 作者公开可见的日记数
func (r *DiaryRepository) CountPublicByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var total int64
	err := publicDiaries(r.db.WithContext(ctx).Model(&model.Diary{}).Where("author_id = ?", authorID)).
		Count(&total).Error
	return total, err
}

// ReviewFilter 审核队列筛选条件
type ReviewFilter struct {
	Status   string
	AuthorID *int64
	Query    string
	Sort     string // 列名，调用方已做白名单校验
	Desc     bool
	Skip     int
	Limit    int
}

// ListForReview 审核队列（包含副本）
func (r *DiaryRepository) ListForReview(ctx context.Context, f ReviewFilter) ([]model.Diary, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Diary{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.AuthorID != nil {
		query = query.Where("author_id = ?", *f.AuthorID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := f.Sort
	if sort == "" {
		sort = "published_at"
	}
	direction := " ASC"
	if f.Desc {
		direction = " DESC"
	}

	var diaries []model.Diary
	err := query.Preload("Author").Preload("Tags").
		Order(sort + direction).Order("id ASC").
		Offset(f.Skip).Limit(f.Limit).Find(&diaries).Error
	if err != nil {
		return nil, 0, err
	}
	return diaries, total, nil
}

// RankQuery 推荐候选池查询条件（只针对公开主日记）
type RankQuery struct {
	TagIDs        []string // 非空时只取带其中任一标签的日记
	ExcludeTagIDs []string // 排除带其中任一标签的日记
	LikedBy       int64    // >0 时按该用户的点赞集合过滤
	OnlyLiked     bool     // true 只取点赞过的；false 排除点赞过的
	Limit         int
}

// RankedPublicIDs 按热度排序返回候选 ID（最多 Limit 个）及候选总数
func (r *DiaryRepository) RankedPublicIDs(ctx context.Context, q RankQuery) ([]string, int64, error) {
	db := r.db.WithContext(ctx)
	query := publicDiaries(db.Model(&model.Diary{}))

	if len(q.TagIDs) > 0 {
		query = query.Where("id IN (?)",
			db.Model(&model.DiaryTag{}).Select("diary_id").Where("tag_id IN ?", q.TagIDs))
	}
	if len(q.ExcludeTagIDs) > 0 {
		query = query.Where("id NOT IN (?)",
			db.Model(&model.DiaryTag{}).Select("diary_id").Where("tag_id IN ?", q.ExcludeTagIDs))
	}
	if q.LikedBy > 0 {
		liked := db.Model(&model.Like{}).Select("diary_id").Where("user_id = ?", q.LikedBy)
		if q.OnlyLiked {
			query = query.Where("id IN (?)", liked)
		} else {
			query = query.Where("id NOT IN (?)", liked)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 || q.Limit <= 0 {
		return []string{}, total, nil
	}

	var ids []string
	err := query.Order(rankOrder).Limit(q.Limit).Pluck("id", &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}

// SearchPublic 数据库兜底搜索：标题/正文子串匹配，可按标签名过滤
func (r *DiaryRepository) SearchPublic(ctx context.Context, keyword, tagName, sort string, desc bool, skip, limit int) ([]model.Diary, int64, error) {
	db := r.db.WithContext(ctx)
	query := publicDiaries(db.Model(&model.Diary{}))

	if kw := strings.TrimSpace(keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}
	if tag := strings.TrimSpace(tagName); tag != "" {
		query = query.Where("id IN (?)",
			db.Model(&model.DiaryTag{}).Select("diary_tags.diary_id").
				Joins("JOIN tags ON tags.id = diary_tags.tag_id").
				Where("tags.name = ?", tag))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if sort == "" {
		sort = "published_at"
	}
	direction := " ASC"
	if desc {
		direction = " DESC"
	}

	var diaries []model.Diary
	err := query.Preload("Author").Preload("Tags").
		Order(sort + direction).Order("id ASC").
		Offset(skip).Limit(limit).Find(&diaries).Error
	if err != nil {
		return nil, 0, err
	}
	return diaries, total, nil
}

// ListPublicForIndex 分批读取公开日记，用于重建搜索索引
func (r *DiaryRepository) ListPublicForIndex(ctx context.Context, afterID string, limit int) ([]model.Diary, error) {
	var diaries []model.Diary
	err := publicDiaries(r.db.WithContext(ctx)).Preload("Author").Preload("Tags").
		Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&diaries).Error
	return diaries, err
}
