package handler

import (
	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/api/middleware"
	"trailnote-go/internal/api/response"
	"trailnote-go/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// Like 点赞日记
// @Summary 点赞日记
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID"
// @Success 200 {object} response.Response{data=dto.LikeResult} "点赞成功"
// @Failure 404 {object} response.ErrorResponse "日记不存在"
// @Failure 409 {object} response.ErrorResponse "已点赞"
// @Router /diaries/{id}/like [post]
func (h *LikeHandler) Like(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.likeService.Like(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "点赞成功", result)
}

// Unlike 取消点赞
// @Summary 取消点赞
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID"
// @Success 200 {object} response.Response{data=dto.LikeResult} "取消点赞成功"
// @Failure 409 {object} response.ErrorResponse "未点赞"
// @Router /diaries/{id}/like [delete]
func (h *LikeHandler) Unlike(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.likeService.Unlike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "取消点赞成功", result)
}

// GetStatus 点赞状态
// @Summary 获取点赞状态
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID"
// @Success 200 {object} response.Response{data=dto.LikeResult} "查询成功"
// @Router /diaries/{id}/like [get]
func (h *LikeHandler) GetStatus(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.likeService.GetStatus(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", result)
}

// BatchStatus 批量查询点赞状态
// @Summary 批量查询点赞状态
// @Tags 点赞
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.BatchLikeStatusRequest true "日记ID列表"
// @Success 200 {object} response.Response "查询成功"
// @Router /likes/status [post]
func (h *LikeHandler) BatchStatus(c *gin.Context) {
	var req dto.BatchLikeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	userID, _ := middleware.GetCurrentUserID(c)

	status, err := h.likeService.BatchCheckStatus(c.Request.Context(), userID, req.DiaryIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", status)
}

// ListMine 我点赞的日记
// @Summary 我点赞的日记
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.DiaryListData} "查询成功"
// @Router /me/likes [get]
func (h *LikeHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	q, err := bindPage(c)
	if err != nil {
		response.BadRequest(c, "分页参数无效: "+err.Error())
		return
	}

	data, err := h.likeService.ListLikedDiaries(c.Request.Context(), userID, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", data)
}
