package service

import (
	"context"
	"time"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/repository"

	"gorm.io/gorm"
)

// TrackService 浏览与分享计数
type TrackService struct {
	tx        *Transactor
	diaryRepo *repository.DiaryRepository
	viewRepo  *repository.ViewHistoryRepository
	now       func() time.Time
}

func NewTrackService(tx *Transactor, diaryRepo *repository.DiaryRepository, viewRepo *repository.ViewHistoryRepository) *TrackService {
	return &TrackService{tx: tx, diaryRepo: diaryRepo, viewRepo: viewRepo, now: time.Now}
}

// RecordView 记录一次浏览：日记与其全部标签的浏览数 +1，登录用户按天写浏览记录
// userID 为 0 表示匿名访客
func (s *TrackService) RecordView(ctx context.Context, userID int64, diaryID string) error {
	err := s.tx.Do(ctx, "view", func(tx *gorm.DB) error {
		diaries := s.diaryRepo.WithTx(tx)

		if _, err := requirePublicDiary(ctx, diaries, diaryID); err != nil {
			return err
		}

		if err := incrementCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColViewCount, ErrDiaryNotFound); err != nil {
			return err
		}

		tagIDs, err := diaries.TagIDs(ctx, diaryID)
		if err != nil {
			return err
		}
		if len(tagIDs) > 0 {
			if _, err := repository.AdjustCounterIn(ctx, tx, repository.TableTags, tagIDs, repository.ColViewCount, 1); err != nil {
				return err
			}
		}

		if userID == 0 {
			return nil
		}
		return s.viewRepo.WithTx(tx).Upsert(ctx, userID, diaryID, s.now())
	})
	recordLedger("view", err)
	return err
}

// Share 分享数 +1
func (s *TrackService) Share(ctx context.Context, diaryID string) (*dto.ShareResult, error) {
	var shareCount int64
	err := s.tx.Do(ctx, "share", func(tx *gorm.DB) error {
		if _, err := requirePublicDiary(ctx, s.diaryRepo.WithTx(tx), diaryID); err != nil {
			return err
		}
		if err := incrementCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColShareCount, ErrDiaryNotFound); err != nil {
			return err
		}
		var err error
		shareCount, err = repository.ReadCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColShareCount)
		return err
	})
	recordLedger("share", err)
	if err != nil {
		return nil, err
	}
	return &dto.ShareResult{DiaryID: diaryID, ShareCount: shareCount}, nil
}

// ListViewHistory 用户的浏览记录
func (s *TrackService) ListViewHistory(ctx context.Context, userID int64, page, pageSize int) (*dto.ViewHistoryListData, error) {
	page, pageSize = normalizePage(page, pageSize, maxPageSize)

	list, total, err := s.viewRepo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list))
	for _, vh := range list {
		ids = append(ids, vh.DiaryID)
	}
	diaries, err := s.diaryRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	diaries = filterPublic(diaries)
	byID := make(map[string]*dto.DiaryInfo, len(diaries))
	for i := range diaries {
		byID[diaries[i].ID] = toDiaryInfo(&diaries[i])
	}

	items := make([]dto.ViewHistoryInfo, 0, len(list))
	for _, vh := range list {
		items = append(items, dto.ViewHistoryInfo{
			DiaryID:  vh.DiaryID,
			ViewedAt: vh.ViewedAt,
			Diary:    byID[vh.DiaryID],
		})
	}

	return &dto.ViewHistoryListData{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
