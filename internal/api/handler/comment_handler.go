package handler

import (
	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/api/middleware"
	"trailnote-go/internal/api/response"
	"trailnote-go/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create POST /api/v1/diaries/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.commentService.Create(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "发表评论成功", info)
}

// Delete DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.commentService.Delete(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "删除评论成功", nil)
}

// ListByDiary GET /api/v1/diaries/:id/comments
func (h *CommentHandler) ListByDiary(c *gin.Context) {
	viewerID, _ := middleware.GetCurrentUserID(c)
	q, err := bindPage(c)
	if err != nil {
		response.BadRequest(c, "分页参数无效: "+err.Error())
		return
	}

	data, err := h.commentService.ListByDiary(c.Request.Context(), viewerID, c.Param("id"), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取评论列表成功", data)
}

// ListReplies GET /api/v1/comments/:id/replies
func (h *CommentHandler) ListReplies(c *gin.Context) {
	viewerID, _ := middleware.GetCurrentUserID(c)
	q, err := bindPage(c)
	if err != nil {
		response.BadRequest(c, "分页参数无效: "+err.Error())
		return
	}

	data, err := h.commentService.ListReplies(c.Request.Context(), viewerID, c.Param("id"), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取回复列表成功", data)
}

// Like POST /api/v1/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.commentService.LikeComment(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "点赞成功", result)
}

// Unlike DELETE /api/v1/comments/:id/like
func (h *CommentHandler) Unlike(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.commentService.UnlikeComment(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "取消点赞成功", result)
}
