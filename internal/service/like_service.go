package service

import (
	"context"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/recommend"
	"trailnote-go/internal/repository"

	"gorm.io/gorm"
)

type LikeService struct {
	tx        *Transactor
	likeRepo  *repository.LikeRepository
	diaryRepo *repository.DiaryRepository
	cache     AffinityCache
}

func NewLikeService(tx *Transactor, likeRepo *repository.LikeRepository, diaryRepo *repository.DiaryRepository, cache AffinityCache) *LikeService {
	return &LikeService{tx: tx, likeRepo: likeRepo, diaryRepo: diaryRepo, cache: orNopCache(cache)}
}

// Like 点赞日记
func (s *LikeService) Like(ctx context.Context, userID int64, diaryID string) (*dto.LikeResult, error) {
	var likeCount int64
	err := s.tx.Do(ctx, "like", func(tx *gorm.DB) error {
		likes := s.likeRepo.WithTx(tx)

		if _, err := requirePublicDiary(ctx, s.diaryRepo.WithTx(tx), diaryID); err != nil {
			return err
		}

		exists, err := likes.Exists(ctx, userID, diaryID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyLiked
		}

		if err := likes.Create(ctx, userID, diaryID); err != nil {
			if isDuplicate(err) {
				return ErrAlreadyLiked
			}
			return err
		}

		if err := incrementCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColLikeCount, ErrDiaryNotFound); err != nil {
			return err
		}

		likeCount, err = repository.ReadCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColLikeCount)
		return err
	})
	recordLedger("like", err)
	if err != nil {
		return nil, err
	}

	invalidateAffinity(ctx, s.cache, userID)
	return &dto.LikeResult{DiaryID: diaryID, Liked: true, LikeCount: likeCount}, nil
}

// Unlike 取消点赞
func (s *LikeService) Unlike(ctx context.Context, userID int64, diaryID string) (*dto.LikeResult, error) {
	var likeCount int64
	err := s.tx.Do(ctx, "unlike", func(tx *gorm.DB) error {
		deleted, err := s.likeRepo.WithTx(tx).Delete(ctx, userID, diaryID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotLiked
		}

		if err := decrementCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColLikeCount, 1); err != nil {
			return err
		}

		likeCount, err = repository.ReadCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColLikeCount)
		return err
	})
	recordLedger("unlike", err)
	if err != nil {
		return nil, err
	}

	invalidateAffinity(ctx, s.cache, userID)
	return &dto.LikeResult{DiaryID: diaryID, Liked: false, LikeCount: likeCount}, nil
}

// GetStatus 查询点赞状态
func (s *LikeService) GetStatus(ctx context.Context, userID int64, diaryID string) (*dto.LikeResult, error) {
	diary, err := requirePublicDiary(ctx, s.diaryRepo, diaryID)
	if err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.Exists(ctx, userID, diaryID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResult{DiaryID: diaryID, Liked: liked, LikeCount: diary.LikeCount}, nil
}

// BatchCheckStatus 批量查询点赞状态
func (s *LikeService) BatchCheckStatus(ctx context.Context, userID int64, diaryIDs []string) (map[string]bool, error) {
	return s.likeRepo.BatchCheckLiked(ctx, userID, diaryIDs)
}

// ListLikedDiaries 用户点赞过的日记（按点赞时间倒序，已下线的日记不返回）
func (s *LikeService) ListLikedDiaries(ctx context.Context, userID int64, page, pageSize int) (*dto.DiaryListData, error) {
	page, pageSize = normalizePage(page, pageSize, maxPageSize)

	ids, total, err := s.likeRepo.GetLikedDiaryIDs(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	diaries, err := s.diaryRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	diaries = recommend.Reorder(ids, filterPublic(diaries), diaryKey)

	return buildDiaryListData(diaries, total, page, pageSize), nil
}
