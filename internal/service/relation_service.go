package service

import (
	"context"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/model"
	"trailnote-go/internal/repository"

	"gorm.io/gorm"
)

type RelationService struct {
	tx           *Transactor
	relationRepo *repository.RelationRepository
	userRepo     *repository.UserRepository
}

func NewRelationService(tx *Transactor, relationRepo *repository.RelationRepository, userRepo *repository.UserRepository) *RelationService {
	return &RelationService{
		tx:           tx,
		relationRepo: relationRepo,
		userRepo:     userRepo,
	}
}

// Follow 关注用户
func (s *RelationService) Follow(ctx context.Context, currentUserID, targetUserID int64) (*dto.FollowResult, error) {
	if currentUserID == targetUserID {
		return nil, ErrCannotFollowSelf
	}

	result := &dto.FollowResult{FollowerID: currentUserID, FollowID: targetUserID}
	err := s.tx.Do(ctx, "follow", func(tx *gorm.DB) error {
		relations := s.relationRepo.WithTx(tx)

		// 检查目标用户是否存在
		exists, err := s.userRepo.WithTx(tx).Exists(ctx, targetUserID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		// 检查是否已关注
		followed, err := relations.Exists(ctx, currentUserID, targetUserID)
		if err != nil {
			return err
		}
		if followed {
			return ErrAlreadyFollowed
		}

		if err := relations.Create(ctx, currentUserID, targetUserID); err != nil {
			if isDuplicate(err) {
				return ErrAlreadyFollowed
			}
			return err
		}

		// 更新计数
		if err := incrementCounter(ctx, tx, repository.TableUsers, currentUserID, repository.ColFollowCount, ErrUserNotFound); err != nil {
			return err
		}
		if err := incrementCounter(ctx, tx, repository.TableUsers, targetUserID, repository.ColFollowerCount, ErrUserNotFound); err != nil {
			return err
		}
		return s.readFollowCounts(ctx, tx, result)
	})
	recordLedger("follow", err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Unfollow 取消关注
func (s *RelationService) Unfollow(ctx context.Context, currentUserID, targetUserID int64) (*dto.FollowResult, error) {
	result := &dto.FollowResult{FollowerID: currentUserID, FollowID: targetUserID}
	err := s.tx.Do(ctx, "unfollow", func(tx *gorm.DB) error {
		deleted, err := s.relationRepo.WithTx(tx).Delete(ctx, currentUserID, targetUserID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFollowed
		}

		if err := decrementCounter(ctx, tx, repository.TableUsers, currentUserID, repository.ColFollowCount, 1); err != nil {
			return err
		}
		if err := decrementCounter(ctx, tx, repository.TableUsers, targetUserID, repository.ColFollowerCount, 1); err != nil {
			return err
		}
		return s.readFollowCounts(ctx, tx, result)
	})
	recordLedger("unfollow", err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *RelationService) readFollowCounts(ctx context.Context, tx *gorm.DB, result *dto.FollowResult) error {
	var err error
	result.FollowCount, err = repository.ReadCounter(ctx, tx, repository.TableUsers, result.FollowerID, repository.ColFollowCount)
	if err != nil {
		return err
	}
	result.FollowerCount, err = repository.ReadCounter(ctx, tx, repository.TableUsers, result.FollowID, repository.ColFollowerCount)
	return err
}

// ListFollowing 获取 userID 的关注列表；viewerID > 0 时标注当前用户是否也关注了列表中的人
func (s *RelationService) ListFollowing(ctx context.Context, viewerID, userID int64, page, pageSize int) (*dto.FollowListData, error) {
	return s.list(ctx, viewerID, userID, repository.Following, page, pageSize)
}

// ListFollowers 获取粉丝列表
func (s *RelationService) ListFollowers(ctx context.Context, viewerID, userID int64, page, pageSize int) (*dto.FollowListData, error) {
	return s.list(ctx, viewerID, userID, repository.Followers, page, pageSize)
}

// ListMutual 获取当前用户的互相关注列表
func (s *RelationService) ListMutual(ctx context.Context, userID int64, page, pageSize int) (*dto.FollowListData, error) {
	return s.list(ctx, userID, userID, repository.Mutual, page, pageSize)
}

func (s *RelationService) list(ctx context.Context, viewerID, userID int64, dir repository.FollowDirection, page, pageSize int) (*dto.FollowListData, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	page, pageSize = normalizePage(page, pageSize, maxPageSize)
	ids, err := s.relationRepo.ListIDs(ctx, userID, dir, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.relationRepo.Count(ctx, userID, dir)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var followed map[int64]bool
	switch {
	case dir == repository.Mutual || (dir == repository.Following && viewerID == userID):
		followed = allTrue(ids)
	case viewerID > 0:
		if followed, err = s.relationRepo.FollowingAmong(ctx, viewerID, ids); err != nil {
			return nil, err
		}
	}

	byID := make(map[int64]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	data := &dto.FollowListData{
		Users:      make([]dto.FollowUser, 0, len(ids)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		data.Users = append(data.Users, dto.FollowUser{
			ID:            u.ID,
			Name:          u.Name,
			Avatar:        u.Avatar,
			FollowCount:   u.FollowCount,
			FollowerCount: u.FollowerCount,
			FollowedByMe:  followed[id],
		})
	}
	return data, nil
}

// Status 查询当前用户与 targetUserID 的双向关系
func (s *RelationService) Status(ctx context.Context, currentUserID, targetUserID int64) (*dto.FollowStatus, error) {
	following, followedBy, err := s.relationRepo.Pair(ctx, currentUserID, targetUserID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowStatus{
		UserID:     targetUserID,
		Following:  following,
		FollowedBy: followedBy,
		Mutual:     following && followedBy,
	}, nil
}

// StatusBatch 批量查询当前用户是否关注了 targetIDs，未关注的返回 false
func (s *RelationService) StatusBatch(ctx context.Context, currentUserID int64, targetIDs []int64) (*dto.FollowStatusBatch, error) {
	set, err := s.relationRepo.FollowingAmong(ctx, currentUserID, targetIDs)
	if err != nil {
		return nil, err
	}
	out := &dto.FollowStatusBatch{Following: make(map[int64]bool, len(targetIDs))}
	for _, id := range targetIDs {
		out.Following[id] = set[id]
	}
	return out, nil
}

func allTrue(ids []int64) map[int64]bool {
	m := make(map[int64]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
