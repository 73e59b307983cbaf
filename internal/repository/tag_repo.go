package repository

import (
	"context"
	"strings"

	"trailnote-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// NormalizeTagNames 去除首尾空白、去重、丢弃空名，保持首次出现的顺序
func NormalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// FindOrCreateByNames 按名称查找标签，不存在则创建（并发创建由唯一索引 + ON CONFLICT DO NOTHING 兜底）
// tx 为调用方事务，保证标签与日记关联在同一事务中可见
func (r *TagRepository) FindOrCreateByNames(ctx context.Context, tx *gorm.DB, names []string) ([]model.Tag, error) {
	names = NormalizeTagNames(names)
	if len(names) == 0 {
		return []model.Tag{}, nil
	}
	if tx == nil {
		tx = r.db
	}
	db := tx.WithContext(ctx)

	candidates := make([]model.Tag, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, model.Tag{Name: name})
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidates).Error; err != nil {
		return nil, err
	}

	var tags []model.Tag
	if err := db.Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]model.Tag, len(tags))
	for _, t := range tags {
		byName[t.Name] = t
	}
	ordered := make([]model.Tag, 0, len(names))
	for _, name := range names {
		if t, ok := byName[name]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

// LikedTagIDs 用户点赞过的日记所带的全部标签（去重）
func (r *TagRepository) LikedTagIDs(ctx context.Context, userID int64) ([]string, error) {
	db := r.db.WithContext(ctx)
	var ids []string
	err := db.Model(&model.DiaryTag{}).Distinct("tag_id").
		Where("diary_id IN (?)", db.Model(&model.Like{}).Select("diary_id").Where("user_id = ?", userID)).
		Order("tag_id").
		Pluck("tag_id", &ids).Error
	return ids, err
}
