package service

import (
	"context"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/authz"
	"trailnote-go/internal/metrics"
	"trailnote-go/internal/recommend"
	"trailnote-go/internal/repository"
	"trailnote-go/pkg/logger"

	"go.uber.org/zap"
)

// RecommendService 推荐流：偏好标签候选 + 热门补位 + 已点赞兜底
type RecommendService struct {
	diaryRepo   *repository.DiaryRepository
	tagRepo     *repository.TagRepository
	cache       AffinityCache
	maxPageSize int
}

func NewRecommendService(diaryRepo *repository.DiaryRepository, tagRepo *repository.TagRepository, cache AffinityCache, pageLimit int) *RecommendService {
	if pageLimit < 1 {
		pageLimit = maxPageSize
	}
	return &RecommendService{
		diaryRepo:   diaryRepo,
		tagRepo:     tagRepo,
		cache:       orNopCache(cache),
		maxPageSize: pageLimit,
	}
}

// Recommend 返回 viewer 的第 page 页推荐
//
// 每个候选池只取前 page*size 条，足以覆盖当前页；热门池在 SQL 中排除偏好标签，
// 因此三个池两两不相交，total 为三者总数之和（匿名用户只有热门池）。
func (s *RecommendService) Recommend(ctx context.Context, viewer authz.Principal, page, pageSize int) (*dto.DiaryListData, error) {
	page, pageSize = normalizePage(page, pageSize, s.maxPageSize)
	limit := page * pageSize

	var (
		pools recommend.Pools
		total int64
	)
	if viewer.IsAnonymous() {
		popular, count, err := s.diaryRepo.RankedPublicIDs(ctx, repository.RankQuery{Limit: limit})
		if err != nil {
			return nil, err
		}
		pools.Popular = popular
		total = count
	} else {
		tagIDs, err := s.affinityTags(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}

		if len(tagIDs) > 0 {
			affinity, count, err := s.diaryRepo.RankedPublicIDs(ctx, repository.RankQuery{
				TagIDs:  tagIDs,
				LikedBy: viewer.ID,
				Limit:   limit,
			})
			if err != nil {
				return nil, err
			}
			pools.Affinity = affinity
			total += count
		}

		popular, count, err := s.diaryRepo.RankedPublicIDs(ctx, repository.RankQuery{
			ExcludeTagIDs: tagIDs,
			LikedBy:       viewer.ID,
			Limit:         limit,
		})
		if err != nil {
			return nil, err
		}
		pools.Popular = popular
		total += count

		filler, count, err := s.diaryRepo.RankedPublicIDs(ctx, repository.RankQuery{
			LikedBy:   viewer.ID,
			OnlyLiked: true,
			Limit:     limit,
		})
		if err != nil {
			return nil, err
		}
		pools.Filler = filler
		total += count
	}

	result := recommend.BuildPage(pools, page, pageSize)

	diaries, err := s.diaryRepo.ListByIDs(ctx, result.IDs)
	if err != nil {
		return nil, err
	}
	diaries = recommend.Reorder(result.IDs, filterPublic(diaries), diaryKey)

	return buildDiaryListData(diaries, total, page, pageSize), nil
}

// affinityTags 用户点赞过的日记所带标签，优先读缓存；缓存异常时回源数据库
func (s *RecommendService) affinityTags(ctx context.Context, userID int64) ([]string, error) {
	ids, ok, err := s.cache.GetTagIDs(ctx, userID)
	switch {
	case err != nil:
		metrics.AffinityCacheTotal.WithLabelValues("error").Inc()
		logger.Warn("Failed to read affinity cache", logger.UserID(userID), zap.Error(err))
	case ok:
		metrics.AffinityCacheTotal.WithLabelValues("hit").Inc()
		return ids, nil
	default:
		metrics.AffinityCacheTotal.WithLabelValues("miss").Inc()
	}

	ids, err = s.tagRepo.LikedTagIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetTagIDs(ctx, userID, ids); err != nil {
		logger.Warn("Failed to write affinity cache", logger.UserID(userID), zap.Error(err))
	}
	return ids, nil
}
