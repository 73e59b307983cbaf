package service

import (
	"context"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/repository"

	"gorm.io/gorm"
)

type FavoriteService struct {
	tx           *Transactor
	favoriteRepo *repository.FavoriteRepository
	diaryRepo    *repository.DiaryRepository
}

func NewFavoriteService(tx *Transactor, favoriteRepo *repository.FavoriteRepository, diaryRepo *repository.DiaryRepository) *FavoriteService {
	return &FavoriteService{tx: tx, favoriteRepo: favoriteRepo, diaryRepo: diaryRepo}
}

// Favorite 收藏日记
func (s *FavoriteService) Favorite(ctx context.Context, userID int64, diaryID string) (*dto.FavoriteResult, error) {
	var favoriteCount int64
	err := s.tx.Do(ctx, "favorite", func(tx *gorm.DB) error {
		favorites := s.favoriteRepo.WithTx(tx)

		if _, err := requirePublicDiary(ctx, s.diaryRepo.WithTx(tx), diaryID); err != nil {
			return err
		}

		exists, err := favorites.Exists(ctx, userID, diaryID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyFavorited
		}

		if err := favorites.Create(ctx, userID, diaryID); err != nil {
			if isDuplicate(err) {
				return ErrAlreadyFavorited
			}
			return err
		}

		if err := incrementCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColFavoriteCount, ErrDiaryNotFound); err != nil {
			return err
		}

		favoriteCount, err = repository.ReadCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColFavoriteCount)
		return err
	})
	recordLedger("favorite", err)
	if err != nil {
		return nil, err
	}

	return &dto.FavoriteResult{DiaryID: diaryID, Favorited: true, FavoriteCount: favoriteCount}, nil
}

// Unfavorite 取消收藏
func (s *FavoriteService) Unfavorite(ctx context.Context, userID int64, diaryID string) (*dto.FavoriteResult, error) {
	var favoriteCount int64
	err := s.tx.Do(ctx, "unfavorite", func(tx *gorm.DB) error {
		deleted, err := s.favoriteRepo.WithTx(tx).Delete(ctx, userID, diaryID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFavorited
		}

		if err := decrementCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColFavoriteCount, 1); err != nil {
			return err
		}

		favoriteCount, err = repository.ReadCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColFavoriteCount)
		return err
	})
	recordLedger("unfavorite", err)
	if err != nil {
		return nil, err
	}

	return &dto.FavoriteResult{DiaryID: diaryID, Favorited: false, FavoriteCount: favoriteCount}, nil
}

// GetStatus 查询收藏状态
func (s *FavoriteService) GetStatus(ctx context.Context, userID int64, diaryID string) (*dto.FavoriteResult, error) {
	diary, err := requirePublicDiary(ctx, s.diaryRepo, diaryID)
	if err != nil {
		return nil, err
	}

	favorited, err := s.favoriteRepo.Exists(ctx, userID, diaryID)
	if err != nil {
		return nil, err
	}
	return &dto.FavoriteResult{DiaryID: diaryID, Favorited: favorited, FavoriteCount: diary.FavoriteCount}, nil
}

// BatchCheckStatus 批量查询收藏状态
func (s *FavoriteService) BatchCheckStatus(ctx context.Context, userID int64, diaryIDs []string) (map[string]bool, error) {
	return s.favoriteRepo.BatchCheckFavorited(ctx, userID, diaryIDs)
}

// ListByUser 用户的收藏记录（含日记，已下线的日记不附带详情）
func (s *FavoriteService) ListByUser(ctx context.Context, userID int64, page, pageSize int) (*dto.FavoriteListData, error) {
	page, pageSize = normalizePage(page, pageSize, maxPageSize)

	favorites, total, err := s.favoriteRepo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.FavoriteInfo, 0, len(favorites))
	for i := range favorites {
		f := &favorites[i]
		info := dto.FavoriteInfo{
			ID:        f.ID,
			UserID:    f.UserID,
			DiaryID:   f.DiaryID,
			CreatedAt: f.CreatedAt,
		}
		if f.Diary.IsPublic() {
			info.Diary = toDiaryInfo(&f.Diary)
		}
		items = append(items, info)
	}

	return &dto.FavoriteListData{
		Favorites:  items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
