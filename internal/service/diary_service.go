package service

import (
	"context"
	"time"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/authz"
	"trailnote-go/internal/infra/kafka"
	"trailnote-go/internal/model"
	"trailnote-go/internal/repository"
	"trailnote-go/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TagResolver 按名称查找或创建标签；tx 为调用方事务
type TagResolver interface {
	FindOrCreateByNames(ctx context.Context, tx *gorm.DB, names []string) ([]model.Tag, error)
}

// DiaryService 日记的创建、修改（副本）、发布、删除与读取
type DiaryService struct {
	tx           *Transactor
	diaryRepo    *repository.DiaryRepository
	tags         TagResolver
	likeRepo     *repository.LikeRepository
	favoriteRepo *repository.FavoriteRepository
	commentRepo  *repository.CommentRepository
	viewRepo     *repository.ViewHistoryRepository
	track        *TrackService
	enforcer     *authz.Enforcer
	publisher    EventPublisher
	cache        AffinityCache
}

// DiaryDeps DiaryService 的依赖
type DiaryDeps struct {
	Tx           *Transactor
	DiaryRepo    *repository.DiaryRepository
	Tags         TagResolver
	LikeRepo     *repository.LikeRepository
	FavoriteRepo *repository.FavoriteRepository
	CommentRepo  *repository.CommentRepository
	ViewRepo     *repository.ViewHistoryRepository
	Track        *TrackService
	Enforcer     *authz.Enforcer
	Publisher    EventPublisher
	Cache        AffinityCache
}

func NewDiaryService(deps DiaryDeps) *DiaryService {
	enforcer := deps.Enforcer
	if enforcer == nil {
		enforcer = authz.Default()
	}
	return &DiaryService{
		tx:           deps.Tx,
		diaryRepo:    deps.DiaryRepo,
		tags:         deps.Tags,
		likeRepo:     deps.LikeRepo,
		favoriteRepo: deps.FavoriteRepo,
		commentRepo:  deps.CommentRepo,
		viewRepo:     deps.ViewRepo,
		track:        deps.Track,
		enforcer:     enforcer,
		publisher:    orNopPublisher(deps.Publisher),
		cache:        orNopCache(deps.Cache),
	}
}

// Create 创建主日记，初始状态为待审核
func (s *DiaryService) Create(ctx context.Context, p authz.Principal, req *dto.DiaryCreateRequest) (*dto.DiaryInfo, error) {
	if p.IsAnonymous() {
		return nil, ErrLoginRequired
	}

	title := sanitizePlain(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	content := sanitizeContent(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	diary := &model.Diary{
		ID:        uuid.NewString(),
		AuthorID:  p.ID,
		Title:     title,
		Content:   content,
		Slug:      newSlug(title),
		Images:    req.Images,
		Video:     nonEmpty(req.Video),
		Thumbnail: nonEmpty(req.Thumbnail),
		Published: req.Published,
		Status:    model.DiaryStatusPending,
	}
	if diary.Images == nil {
		diary.Images = []string{}
	}
	if req.Published {
		now := time.Now()
		diary.PublishedAt = &now
	}

	err := s.tx.Do(ctx, "diary_create", func(tx *gorm.DB) error {
		diaries := s.diaryRepo.WithTx(tx)
		if err := diaries.Create(ctx, diary); err != nil {
			return err
		}
		return s.linkTags(ctx, tx, diary.ID, req.Tags)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.diaryRepo.GetByIDWithTags(ctx, diary.ID)
	if err != nil {
		return nil, err
	}
	return toDiaryInfo(created), nil
}

// SubmitEdit 提交修改：线上日记不会被直接改动，修改写入唯一的待审核副本
// 返回被写入的副本 ID
func (s *DiaryService) SubmitEdit(ctx context.Context, p authz.Principal, diaryID string, req *dto.DiaryEditRequest) (*dto.DiaryEditResult, error) {
	if p.IsAnonymous() {
		return nil, ErrLoginRequired
	}
	if req == nil || req.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	patch, err := newDiaryPatch(req)
	if err != nil {
		return nil, err
	}

	var shadowID string
	err = s.tx.Do(ctx, "diary_submit_edit", func(tx *gorm.DB) error {
		diaries := s.diaryRepo.WithTx(tx)

		target, err := diaries.GetByID(ctx, diaryID)
		if err != nil {
			if isNotFound(err) {
				return ErrDiaryNotFound
			}
			return err
		}

		// 直接修改副本：只有作者本人可以
		if target.IsShadow() {
			if target.AuthorID != p.ID {
				return ErrShadowNotOwner
			}
			shadowID = target.ID
			return s.resubmitShadow(ctx, tx, target, patch)
		}

		if !s.enforcer.CanActOnOwned(p, target.AuthorID, authz.ObjDiary, authz.ActManage) {
			return ErrDiaryNoPermission
		}

		shadow, err := diaries.GetShadow(ctx, target.ID)
		switch {
		case err == nil:
		case isNotFound(err):
			shadow, err = s.createShadow(ctx, tx, target, patch)
			if err != nil {
				return err
			}
			shadowID = shadow.ID
			return nil
		default:
			return err
		}

		shadowID = shadow.ID
		return s.resubmitShadow(ctx, tx, shadow, patch)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Diary edit submitted", logger.DiaryID(diaryID), zap.String("shadow_id", shadowID), logger.UserID(p.ID))
	return &dto.DiaryEditResult{ID: shadowID}, nil
}

// createShadow 以主日记为底稿创建副本；并发创建时唯一索引冲突的一方改为更新胜出者的副本
func (s *DiaryService) createShadow(ctx context.Context, tx *gorm.DB, canonical *model.Diary, patch *diaryPatch) (*model.Diary, error) {
	diaries := s.diaryRepo.WithTx(tx)

	tagIDs, err := diaries.TagIDs(ctx, canonical.ID)
	if err != nil {
		return nil, err
	}

	parentID := canonical.ID
	shadow := &model.Diary{
		ID:          uuid.NewString(),
		AuthorID:    canonical.AuthorID,
		ParentID:    &parentID,
		Title:       canonical.Title,
		Content:     canonical.Content,
		Slug:        shadowSlug(canonical.Slug),
		Images:      append([]string{}, canonical.Images...),
		Video:       canonical.Video,
		Thumbnail:   canonical.Thumbnail,
		Published:   canonical.Published,
		PublishedAt: canonical.PublishedAt,
		Status:      model.DiaryStatusPending,
	}
	patch.apply(shadow)

	if err := tx.SavePoint("shadow_create").Error; err != nil {
		return nil, err
	}
	if err := diaries.Create(ctx, shadow); err != nil {
		if !isDuplicate(err) {
			return nil, err
		}
		if err := tx.RollbackTo("shadow_create").Error; err != nil {
			return nil, err
		}
		winner, err := diaries.GetShadow(ctx, canonical.ID)
		if err != nil {
			return nil, err
		}
		return winner, s.resubmitShadow(ctx, tx, winner, patch)
	}

	if patch.tags != nil {
		return shadow, s.linkTags(ctx, tx, shadow.ID, *patch.tags)
	}
	return shadow, diaries.ReplaceTags(ctx, shadow.ID, tagIDs)
}

// resubmitShadow 把修改写到已有副本上并重新进入待审核
func (s *DiaryService) resubmitShadow(ctx context.Context, tx *gorm.DB, shadow *model.Diary, patch *diaryPatch) error {
	columns := patch.apply(shadow)
	shadow.Status = model.DiaryStatusPending
	shadow.RejectedReason = nil
	shadow.ReviewedByID = nil
	shadow.ReviewedAt = nil
	columns = append(columns, "status", "rejected_reason", "reviewed_by_id", "reviewed_at")

	if err := s.diaryRepo.WithTx(tx).UpdateColumns(ctx, shadow, columns...); err != nil {
		if isNotFound(err) {
			return ErrDiaryNotFound
		}
		return err
	}
	if patch.tags != nil {
		return s.linkTags(ctx, tx, shadow.ID, *patch.tags)
	}
	return nil
}

func (s *DiaryService) linkTags(ctx context.Context, tx *gorm.DB, diaryID string, names []string) error {
	tags, err := s.tags.FindOrCreateByNames(ctx, tx, names)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return s.diaryRepo.WithTx(tx).ReplaceTags(ctx, diaryID, ids)
}

// SetPublished 发布或取消发布主日记
func (s *DiaryService) SetPublished(ctx context.Context, p authz.Principal, diaryID string, published bool) (*dto.DiaryInfo, error) {
	if p.IsAnonymous() {
		return nil, ErrLoginRequired
	}

	var authorID int64
	err := s.tx.Do(ctx, "diary_set_published", func(tx *gorm.DB) error {
		diaries := s.diaryRepo.WithTx(tx)

		diary, err := diaries.GetByID(ctx, diaryID)
		if err != nil {
			if isNotFound(err) {
				return ErrDiaryNotFound
			}
			return err
		}
		if diary.IsShadow() {
			return ErrShadowNotPublishable
		}
		if !s.enforcer.CanActOnOwned(p, diary.AuthorID, authz.ObjDiary, authz.ActManage) {
			return ErrDiaryNoPermission
		}
		authorID = diary.AuthorID

		diary.Published = published
		diary.PublishedAt = nil
		if published {
			now := time.Now()
			diary.PublishedAt = &now
		}
		return diaries.UpdateColumns(ctx, diary, "published", "published_at")
	})
	if err != nil {
		return nil, err
	}

	eventType := kafka.EventDiaryUnpublished
	if published {
		eventType = kafka.EventDiaryPublished
	}
	publishAfterCommit(ctx, s.publisher, eventType, diaryID, authorID, nil)

	diary, err := s.diaryRepo.GetByIDWithTags(ctx, diaryID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDiaryNotFound
		}
		return nil, err
	}
	return toDiaryInfo(diary), nil
}

// Delete 删除主日记及其副本、全部互动记录与标签关联
func (s *DiaryService) Delete(ctx context.Context, p authz.Principal, diaryID string) error {
	if p.IsAnonymous() {
		return ErrLoginRequired
	}

	var (
		authorID int64
		media    []string
		likerIDs []int64
	)
	err := s.tx.Do(ctx, "diary_delete", func(tx *gorm.DB) error {
		diaries := s.diaryRepo.WithTx(tx)

		diary, err := diaries.GetByID(ctx, diaryID)
		if err != nil {
			if isNotFound(err) {
				return ErrDiaryNotFound
			}
			return err
		}
		if diary.IsShadow() {
			return ErrShadowNotPublishable
		}
		if !s.enforcer.CanActOnOwned(p, diary.AuthorID, authz.ObjDiary, authz.ActManage) {
			return ErrDiaryNoPermission
		}
		authorID = diary.AuthorID
		media = diary.MediaKeys()

		shadow, err := diaries.GetShadow(ctx, diary.ID)
		switch {
		case err == nil:
			media = unionKeys(media, shadow.MediaKeys())
			if err := diaries.ClearTags(ctx, shadow.ID); err != nil {
				return err
			}
			if _, err := diaries.Delete(ctx, shadow.ID); err != nil {
				return err
			}
		case !isNotFound(err):
			return err
		}

		likes := s.likeRepo.WithTx(tx)
		if likerIDs, err = likes.LikerIDs(ctx, diary.ID); err != nil {
			return err
		}
		if _, err := likes.DeleteByDiary(ctx, diary.ID); err != nil {
			return err
		}
		if _, err := s.favoriteRepo.WithTx(tx).DeleteByDiary(ctx, diary.ID); err != nil {
			return err
		}
		if _, err := s.commentRepo.WithTx(tx).DeleteByDiary(ctx, diary.ID); err != nil {
			return err
		}
		if err := s.viewRepo.WithTx(tx).DeleteByDiary(ctx, diary.ID); err != nil {
			return err
		}
		if err := diaries.ClearTags(ctx, diary.ID); err != nil {
			return err
		}

		deleted, err := diaries.Delete(ctx, diary.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrDiaryNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	publishAfterCommit(ctx, s.publisher, kafka.EventDiaryDeleted, diaryID, authorID, media)
	for _, uid := range likerIDs {
		invalidateAffinity(ctx, s.cache, uid)
	}
	return nil
}

// GetDetail 日记详情
// 公开日记所有人可见并记一次浏览；其余只有作者与审核人员可见，其他人一律视为不存在
func (s *DiaryService) GetDetail(ctx context.Context, viewer authz.Principal, diaryID string) (*dto.DiaryInfo, error) {
	diary, err := s.diaryRepo.GetByIDWithTags(ctx, diaryID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDiaryNotFound
		}
		return nil, err
	}

	if !diary.IsPublic() {
		if viewer.IsAnonymous() {
			return nil, ErrDiaryNotFound
		}
		if viewer.ID != diary.AuthorID && !s.enforcer.Can(viewer, authz.ObjDiary, authz.ActReadAny) {
			return nil, ErrDiaryNotFound
		}
		return toDiaryInfo(diary), nil
	}

	if s.track != nil {
		if err := s.track.RecordView(ctx, viewer.ID, diaryID); err != nil {
			return nil, err
		}
		diary.ViewCount++
	}
	return toDiaryInfo(diary), nil
}

// ListByAuthor 作者的日记列表；作者本人可以看到全部（含副本与审核状态），其他人只看到公开日记
func (s *DiaryService) ListByAuthor(ctx context.Context, viewer authz.Principal, authorID int64, page, pageSize int) (*dto.DiaryListData, error) {
	page, pageSize = normalizePage(page, pageSize, maxPageSize)
	onlyPublic := viewer.IsAnonymous() || viewer.ID != authorID

	diaries, total, err := s.diaryRepo.ListByAuthor(ctx, authorID, onlyPublic, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return buildDiaryListData(diaries, total, page, pageSize), nil
}

// diaryPatch 已清洗的修改内容
type diaryPatch struct {
	title     *string
	content   *string
	images    *[]string
	video     *string
	thumbnail *string
	tags      *[]string
	// 显式传入空字符串表示清除
	clearVideo     bool
	clearThumbnail bool
}

func newDiaryPatch(req *dto.DiaryEditRequest) (*diaryPatch, error) {
	patch := &diaryPatch{images: req.Images, tags: req.Tags}

	if req.Title != nil {
		title := sanitizePlain(*req.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		patch.title = &title
	}
	if req.Content != nil {
		content := sanitizeContent(*req.Content)
		if content == "" {
			return nil, ErrEmptyContent
		}
		patch.content = &content
	}
	if req.Video != nil {
		patch.video = nonEmpty(req.Video)
		patch.clearVideo = patch.video == nil
	}
	if req.Thumbnail != nil {
		patch.thumbnail = nonEmpty(req.Thumbnail)
		patch.clearThumbnail = patch.thumbnail == nil
	}
	return patch, nil
}

// apply 把修改写到 d 上，返回被修改的列
func (p *diaryPatch) apply(d *model.Diary) []string {
	var columns []string
	if p.title != nil {
		d.Title = *p.title
		columns = append(columns, "title")
	}
	if p.content != nil {
		d.Content = *p.content
		columns = append(columns, "content")
	}
	if p.images != nil {
		d.Images = append([]string{}, (*p.images)...)
		columns = append(columns, "images")
	}
	if p.video != nil || p.clearVideo {
		d.Video = p.video
		columns = append(columns, "video")
	}
	if p.thumbnail != nil || p.clearThumbnail {
		d.Thumbnail = p.thumbnail
		columns = append(columns, "thumbnail")
	}
	return columns
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// unionKeys 合并两组对象键并去重
func unionKeys(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, k := range list {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// droppedKeys 返回在 before 中但不在 after 中的对象键
func droppedKeys(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, k := range after {
		keep[k] = struct{}{}
	}
	var out []string
	for _, k := range before {
		if _, ok := keep[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
