package repository

import (
	"context"

	"trailnote-go/internal/model"

	"gorm.io/gorm"
)

// FollowDirection 关注列表的方向
type FollowDirection int

const (
	Following FollowDirection = iota // userID 关注的人
	Followers                        // 关注 userID 的人
	Mutual                           // 互相关注
)

type RelationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{db: db}
}

func (r *RelationRepository) WithTx(tx *gorm.DB) *RelationRepository {
	return &RelationRepository{db: tx}
}

// Create 重复关注返回 gorm.ErrDuplicatedKey
func (r *RelationRepository) Create(ctx context.Context, followerID, followID int64) error {
	return r.db.WithContext(ctx).Omit("Followee", "Follower").
		Create(&model.Relation{FollowerID: followerID, FollowID: followID}).Error
}

func (r *RelationRepository) Delete(ctx context.Context, followerID, followID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where(&model.Relation{FollowerID: followerID, FollowID: followID}).
		Delete(&model.Relation{})
	return result.RowsAffected > 0, result.Error
}

func (r *RelationRepository) Exists(ctx context.Context, followerID, followID int64) (bool, error) {
	edges, err := r.edgesAmong(ctx, []int64{followerID}, []int64{followID})
	return len(edges) > 0, err
}

// Pair 一次查询返回 a→b 与 b→a 两个方向是否存在
func (r *RelationRepository) Pair(ctx context.Context, a, b int64) (aFollowsB, bFollowsA bool, err error) {
	edges, err := r.edgesAmong(ctx, []int64{a, b}, []int64{a, b})
	if err != nil {
		return false, false, err
	}
	for _, e := range edges {
		switch {
		case e.FollowerID == a && e.FollowID == b:
			aFollowsB = true
		case e.FollowerID == b && e.FollowID == a:
			bFollowsA = true
		}
	}
	return aFollowsB, bFollowsA, nil
}

// FollowingAmong 返回 targetIDs 中被 followerID 关注的子集
func (r *RelationRepository) FollowingAmong(ctx context.Context, followerID int64, targetIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return set, nil
	}
	edges, err := r.edgesAmong(ctx, []int64{followerID}, targetIDs)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		set[e.FollowID] = true
	}
	return set, nil
}

func (r *RelationRepository) edgesAmong(ctx context.Context, followerIDs, followIDs []int64) ([]model.Relation, error) {
	var edges []model.Relation
	err := r.db.WithContext(ctx).
		Select("follower_id", "follow_id").
		Where("follower_id IN ? AND follow_id IN ?", followerIDs, followIDs).
		Find(&edges).Error
	return edges, err
}

// ListIDs 按关注时间倒序分页返回对端用户ID
func (r *RelationRepository) ListIDs(ctx context.Context, userID int64, dir FollowDirection, skip, limit int) ([]int64, error) {
	var ids []int64
	err := r.scope(ctx, userID, dir).
		Order("r.created_at DESC").Order("r.id DESC").
		Offset(skip).Limit(limit).
		Pluck(peerColumn(dir), &ids).Error
	return ids, err
}

func (r *RelationRepository) Count(ctx context.Context, userID int64, dir FollowDirection) (int64, error) {
	var count int64
	err := r.scope(ctx, userID, dir).Count(&count).Error
	return count, err
}

func (r *RelationRepository) scope(ctx context.Context, userID int64, dir FollowDirection) *gorm.DB {
	q := r.db.WithContext(ctx).Table(model.Relation{}.TableName() + " AS r")
	switch dir {
	case Followers:
		return q.Where("r.follow_id = ?", userID)
	case Mutual:
		return q.Joins("JOIN relations AS back ON back.follower_id = r.follow_id AND back.follow_id = r.follower_id").
			Where("r.follower_id = ?", userID)
	default:
		return q.Where("r.follower_id = ?", userID)
	}
}

func peerColumn(dir FollowDirection) string {
	if dir == Followers {
		return "r.follower_id"
	}
	return "r.follow_id"
}
