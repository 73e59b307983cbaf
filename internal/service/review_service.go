package service

import (
	"context"
	"strings"
	"time"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/authz"
	"trailnote-go/internal/infra/kafka"
	"trailnote-go/internal/metrics"
	"trailnote-go/internal/model"
	"trailnote-go/internal/repository"
	"trailnote-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 审核队列允许的排序字段（接口参数 → 列名）
var reviewSortColumns = map[string]string{
	"createdAt":     "created_at",
	"publishedAt":   "published_at",
	"viewCount":     "view_count",
	"likeCount":     "like_count",
	"favoriteCount": "favorite_count",
	"commentCount":  "comment_count",
}

// ReviewService 审核状态机
type ReviewService struct {
	tx        *Transactor
	diaryRepo *repository.DiaryRepository
	likeRepo  *repository.LikeRepository
	enforcer  *authz.Enforcer
	publisher EventPublisher
	cache     AffinityCache
	now       func() time.Time
}

func NewReviewService(tx *Transactor, diaryRepo *repository.DiaryRepository, likeRepo *repository.LikeRepository, enforcer *authz.Enforcer, publisher EventPublisher, cache AffinityCache) *ReviewService {
	if enforcer == nil {
		enforcer = authz.Default()
	}
	return &ReviewService{
		tx:        tx,
		diaryRepo: diaryRepo,
		likeRepo:  likeRepo,
		enforcer:  enforcer,
		publisher: orNopPublisher(publisher),
		cache:     orNopCache(cache),
		now:       time.Now,
	}
}

// Review 审核日记
// 通过一个副本时，副本内容（含标签）合并到主日记，主日记变为 Approved，副本删除；
// 其余情况只更新目标行的审核状态。
func (s *ReviewService) Review(ctx context.Context, reviewer authz.Principal, diaryID, decision, rejectedReason string) error {
	if !s.enforcer.Can(reviewer, authz.ObjDiary, authz.ActReview) {
		return ErrReviewNoPermission
	}
	if decision != model.DiaryStatusApproved && decision != model.DiaryStatusRejected {
		return ErrInvalidDecision
	}
	reason := strings.TrimSpace(rejectedReason)

	var (
		canonicalID string
		authorID    int64
		removed     []string
		staleLikers []int64
		target      = "canonical"
	)
	err := s.tx.Do(ctx, "review", func(tx *gorm.DB) error {
		staleLikers = nil
		diaries := s.diaryRepo.WithTx(tx)

		diary, err := diaries.GetByID(ctx, diaryID)
		if err != nil {
			if isNotFound(err) {
				return ErrDiaryNotFound
			}
			return err
		}
		if decision == model.DiaryStatusRejected && reason == "" {
			return ErrRejectReasonRequired
		}

		reviewedBy := reviewer.ID
		reviewedAt := s.now()
		authorID = diary.AuthorID
		canonicalID = diary.ID

		if diary.IsShadow() {
			target = "shadow"
			canonicalID = *diary.ParentID
			if decision == model.DiaryStatusApproved {
				var tagsChanged bool
				removed, tagsChanged, err = s.mergeShadow(ctx, diaries, diary, reviewedBy, reviewedAt)
				if err != nil || !tagsChanged {
					return err
				}
				// 标签变化后，点赞过该日记的用户的偏好标签缓存失效
				staleLikers, err = s.likeRepo.WithTx(tx).LikerIDs(ctx, canonicalID)
				return err
			}
		}

		diary.Status = decision
		diary.RejectedReason = nil
		if decision == model.DiaryStatusRejected {
			diary.RejectedReason = &reason
		}
		diary.ReviewedByID = &reviewedBy
		diary.ReviewedAt = &reviewedAt
		err = diaries.UpdateColumns(ctx, diary, "status", "rejected_reason", "reviewed_by_id", "reviewed_at")
		if isNotFound(err) {
			return ErrDiaryNotFound
		}
		return err
	})
	if err != nil {
		return err
	}

	metrics.ReviewDecisionsTotal.WithLabelValues(decision, target).Inc()
	logger.Info("Diary reviewed",
		logger.DiaryID(canonicalID),
		zap.String("target", target),
		zap.String("decision", decision),
		logger.UserID(reviewer.ID),
	)

	eventType := kafka.EventDiaryApproved
	if decision == model.DiaryStatusRejected {
		eventType = kafka.EventDiaryRejected
	}
	publishAfterCommit(ctx, s.publisher, eventType, canonicalID, authorID, removed)
	for _, uid := range staleLikers {
		invalidateAffinity(ctx, s.cache, uid)
	}
	return nil
}

// mergeShadow 把副本合并到主日记并删除副本，返回合并后不再被引用的媒体对象键，以及主日记标签集合是否改变
func (s *ReviewService) mergeShadow(ctx context.Context, diaries *repository.DiaryRepository, shadow *model.Diary, reviewedBy int64, reviewedAt time.Time) ([]string, bool, error) {
	canonical, err := diaries.GetByID(ctx, *shadow.ParentID)
	if err != nil {
		if isNotFound(err) {
			return nil, false, ErrCanonicalMissing
		}
		return nil, false, err
	}
	removed := droppedKeys(canonical.MediaKeys(), shadow.MediaKeys())

	canonical.Title = shadow.Title
	canonical.Content = shadow.Content
	canonical.Images = shadow.Images
	canonical.Video = shadow.Video
	canonical.Thumbnail = shadow.Thumbnail
	canonical.Status = model.DiaryStatusApproved
	canonical.RejectedReason = nil
	canonical.ReviewedByID = &reviewedBy
	canonical.ReviewedAt = &reviewedAt
	err = diaries.UpdateColumns(ctx, canonical,
		"title", "content", "images", "video", "thumbnail",
		"status", "rejected_reason", "reviewed_by_id", "reviewed_at")
	if err != nil {
		if isNotFound(err) {
			return nil, false, ErrCanonicalMissing
		}
		return nil, false, err
	}

	oldTagIDs, err := diaries.TagIDs(ctx, canonical.ID)
	if err != nil {
		return nil, false, err
	}
	tagIDs, err := diaries.TagIDs(ctx, shadow.ID)
	if err != nil {
		return nil, false, err
	}
	if err := diaries.ReplaceTags(ctx, canonical.ID, tagIDs); err != nil {
		return nil, false, err
	}
	if err := diaries.ClearTags(ctx, shadow.ID); err != nil {
		return nil, false, err
	}

	deleted, err := diaries.Delete(ctx, shadow.ID)
	if err != nil {
		return nil, false, err
	}
	if !deleted {
		return nil, false, ErrShadowGone
	}
	return removed, !sameIDSet(oldTagIDs, tagIDs), nil
}

func sameIDSet(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b))
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return len(seen) == len(set)
}

// ReviewList 审核队列
func (s *ReviewService) ReviewList(ctx context.Context, reviewer authz.Principal, q *dto.ReviewListQuery) (*dto.DiaryListData, error) {
	if !s.enforcer.Can(reviewer, authz.ObjDiary, authz.ActReviewList) {
		return nil, ErrReviewNoPermission
	}

	switch q.Status {
	case "", model.DiaryStatusPending, model.DiaryStatusApproved, model.DiaryStatusRejected:
	default:
		return nil, ErrInvalidStatusFilter
	}

	sort := "published_at"
	if q.Sort != "" {
		col, ok := reviewSortColumns[q.Sort]
		if !ok {
			return nil, ErrInvalidSort
		}
		sort = col
	}

	desc := true
	switch strings.ToLower(q.Order) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return nil, ErrInvalidSort
	}

	page, pageSize := normalizePage(q.Page, q.PageSize, maxPageSize)
	diaries, total, err := s.diaryRepo.ListForReview(ctx, repository.ReviewFilter{
		Status:   q.Status,
		AuthorID: q.AuthorID,
		Query:    q.Query,
		Sort:     sort,
		Desc:     desc,
		Skip:     (page - 1) * pageSize,
		Limit:    pageSize,
	})
	if err != nil {
		return nil, err
	}
	return buildDiaryListData(diaries, total, page, pageSize), nil
}
