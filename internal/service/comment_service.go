package service

import (
	"context"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/authz"
	"trailnote-go/internal/model"
	"trailnote-go/internal/repository"

	"gorm.io/gorm"
)

type CommentService struct {
	tx          *Transactor
	commentRepo *repository.CommentRepository
	diaryRepo   *repository.DiaryRepository
	enforcer    *authz.Enforcer
}

func NewCommentService(tx *Transactor, commentRepo *repository.CommentRepository, diaryRepo *repository.DiaryRepository, enforcer *authz.Enforcer) *CommentService {
	if enforcer == nil {
		enforcer = authz.Default()
	}
	return &CommentService{tx: tx, commentRepo: commentRepo, diaryRepo: diaryRepo, enforcer: enforcer}
}

// Create 发表评论或回复
// 回复一条回复时挂到其顶层评论下，回复只有一层
func (s *CommentService) Create(ctx context.Context, userID int64, diaryID string, req *dto.CommentCreateRequest) (*dto.CommentInfo, error) {
	content := sanitizePlain(req.Content)
	if content == "" {
		return nil, ErrEmptyCommentContent
	}

	var commentID string
	err := s.tx.Do(ctx, "comment_create", func(tx *gorm.DB) error {
		comments := s.commentRepo.WithTx(tx)

		if _, err := requirePublicDiary(ctx, s.diaryRepo.WithTx(tx), diaryID); err != nil {
			return err
		}

		var rootID *string
		if req.ParentID != nil && *req.ParentID != "" {
			parent, err := comments.GetByID(ctx, *req.ParentID)
			if err != nil {
				if isNotFound(err) {
					return ErrParentNotFound
				}
				return err
			}
			if parent.DiaryID != diaryID {
				return ErrParentDiaryMismatch
			}
			root := parent.ID
			if parent.ParentID != nil {
				root = *parent.ParentID
			}
			rootID = &root
		}

		comment := &model.Comment{
			DiaryID:  diaryID,
			AuthorID: userID,
			Content:  content,
			ParentID: rootID,
		}
		if err := comments.Create(ctx, comment); err != nil {
			return err
		}
		commentID = comment.ID

		if err := incrementCounter(ctx, tx, repository.TableDiaries, diaryID, repository.ColCommentCount, ErrDiaryNotFound); err != nil {
			return err
		}
		if rootID != nil {
			return incrementCounter(ctx, tx, repository.TableComments, *rootID, repository.ColReplyCount, ErrParentNotFound)
		}
		return nil
	})
	action := "comment_create"
	if req.ParentID != nil && *req.ParentID != "" {
		action = "reply_create"
	}
	recordLedger(action, err)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByIDWithAuthor(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return toCommentInfo(comment, false), nil
}

// Delete 删除评论：作者本人或有审核权限的角色
// 删除顶层评论会一并删除其回复，日记评论数按实际删除条数扣减
func (s *CommentService) Delete(ctx context.Context, p authz.Principal, commentID string) error {
	if p.IsAnonymous() {
		return ErrLoginRequired
	}

	action := "comment_delete"
	err := s.tx.Do(ctx, "comment_delete", func(tx *gorm.DB) error {
		comments := s.commentRepo.WithTx(tx)

		comment, err := comments.GetByID(ctx, commentID)
		if err != nil {
			if isNotFound(err) {
				return ErrCommentNotFound
			}
			return err
		}
		if !s.enforcer.CanActOnOwned(p, comment.AuthorID, authz.ObjComment, authz.ActModerate) {
			return ErrCommentNoPermission
		}

		if comment.ParentID != nil {
			action = "reply_delete"
			if err := comments.DeleteLikesByComments(ctx, []string{comment.ID}); err != nil {
				return err
			}
			deleted, err := comments.Delete(ctx, comment.ID)
			if err != nil {
				return err
			}
			if !deleted {
				return ErrCommentNotFound
			}
			if err := decrementCounter(ctx, tx, repository.TableDiaries, comment.DiaryID, repository.ColCommentCount, 1); err != nil {
				return err
			}
			return decrementCounter(ctx, tx, repository.TableComments, *comment.ParentID, repository.ColReplyCount, 1)
		}

		replyIDs, err := comments.ReplyIDs(ctx, comment.ID)
		if err != nil {
			return err
		}
		if err := comments.DeleteLikesByComments(ctx, append(replyIDs, comment.ID)); err != nil {
			return err
		}
		replies, err := comments.DeleteReplies(ctx, comment.ID)
		if err != nil {
			return err
		}
		deleted, err := comments.Delete(ctx, comment.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrCommentNotFound
		}
		return decrementCounter(ctx, tx, repository.TableDiaries, comment.DiaryID, repository.ColCommentCount, replies+1)
	})
	recordLedger(action, err)
	return err
}

// ListByDiary 日记的顶层评论；viewerID 为 0 时不查询点赞状态
func (s *CommentService) ListByDiary(ctx context.Context, viewerID int64, diaryID string, page, pageSize int) (*dto.CommentListData, error) {
	if _, err := requirePublicDiary(ctx, s.diaryRepo, diaryID); err != nil {
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize, maxPageSize)
	comments, total, err := s.commentRepo.ListByDiary(ctx, diaryID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildCommentListData(ctx, viewerID, comments, total, page, pageSize)
}

// ListReplies 某条顶层评论的回复
func (s *CommentService) ListReplies(ctx context.Context, viewerID int64, commentID string, page, pageSize int) (*dto.CommentListData, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if isNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize, maxPageSize)
	replies, total, err := s.commentRepo.ListReplies(ctx, commentID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildCommentListData(ctx, viewerID, replies, total, page, pageSize)
}

// LikeComment 点赞评论
func (s *CommentService) LikeComment(ctx context.Context, userID int64, commentID string) (*dto.CommentLikeResult, error) {
	var likeCount int64
	err := s.tx.Do(ctx, "comment_like", func(tx *gorm.DB) error {
		comments := s.commentRepo.WithTx(tx)

		comment, err := comments.GetByID(ctx, commentID)
		if err != nil {
			if isNotFound(err) {
				return ErrCommentNotFound
			}
			return err
		}
		if _, err := requirePublicDiary(ctx, s.diaryRepo.WithTx(tx), comment.DiaryID); err != nil {
			return err
		}

		exists, err := comments.LikeExists(ctx, userID, commentID)
		if err != nil {
			return err
		}
		if exists {
			return ErrCommentAlreadyLiked
		}
		if err := comments.CreateLike(ctx, userID, commentID); err != nil {
			if isDuplicate(err) {
				return ErrCommentAlreadyLiked
			}
			return err
		}

		if err := incrementCounter(ctx, tx, repository.TableComments, commentID, repository.ColLikeCount, ErrCommentNotFound); err != nil {
			return err
		}
		likeCount, err = repository.ReadCounter(ctx, tx, repository.TableComments, commentID, repository.ColLikeCount)
		return err
	})
	recordLedger("comment_like", err)
	if err != nil {
		return nil, err
	}
	return &dto.CommentLikeResult{CommentID: commentID, Liked: true, LikeCount: likeCount}, nil
}

// UnlikeComment 取消评论点赞
func (s *CommentService) UnlikeComment(ctx context.Context, userID int64, commentID string) (*dto.CommentLikeResult, error) {
	var likeCount int64
	err := s.tx.Do(ctx, "comment_unlike", func(tx *gorm.DB) error {
		deleted, err := s.commentRepo.WithTx(tx).DeleteLike(ctx, userID, commentID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrCommentNotLiked
		}
		if err := decrementCounter(ctx, tx, repository.TableComments, commentID, repository.ColLikeCount, 1); err != nil {
			return err
		}
		likeCount, err = repository.ReadCounter(ctx, tx, repository.TableComments, commentID, repository.ColLikeCount)
		return err
	})
	recordLedger("comment_unlike", err)
	if err != nil {
		return nil, err
	}
	return &dto.CommentLikeResult{CommentID: commentID, Liked: false, LikeCount: likeCount}, nil
}

func (s *CommentService) buildCommentListData(ctx context.Context, viewerID int64, comments []model.Comment, total int64, page, pageSize int) (*dto.CommentListData, error) {
	ids := make([]string, 0, len(comments))
	for i := range comments {
		ids = append(ids, comments[i].ID)
	}
	liked, err := s.commentRepo.BatchCheckLiked(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, *toCommentInfo(&comments[i], liked[comments[i].ID]))
	}

	return &dto.CommentListData{
		Comments:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func toCommentInfo(c *model.Comment, liked bool) *dto.CommentInfo {
	info := &dto.CommentInfo{
		ID:         c.ID,
		AuthorID:   c.AuthorID,
		DiaryID:    c.DiaryID,
		Content:    c.Content,
		ParentID:   c.ParentID,
		LikeCount:  c.LikeCount,
		ReplyCount: c.ReplyCount,
		Liked:      liked,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.Author.ID != 0 {
		info.AuthorName = &c.Author.Name
		info.Avatar = c.Author.Avatar
	}
	return info
}
