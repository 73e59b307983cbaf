package handler

import (
	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/api/middleware"
	"trailnote-go/internal/api/response"
	"trailnote-go/internal/service"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Favorite 收藏日记
// @Summary 收藏日记
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID"
// @Success 200 {object} response.Response{data=dto.FavoriteResult} "收藏成功"
// @Failure 404 {object} response.ErrorResponse "日记不存在"
// @Failure 409 {object} response.ErrorResponse "已收藏"
// @Router /diaries/{id}/favorite [post]
func (h *FavoriteHandler) Favorite(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.favoriteService.Favorite(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "收藏成功", result)
}

// Unfavorite 取消收藏
// @Summary 取消收藏
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID"
// @Success 200 {object} response.Response{data=dto.FavoriteResult} "取消收藏成功"
// @Failure 409 {object} response.ErrorResponse "未收藏"
// @Router /diaries/{id}/favorite [delete]
func (h *FavoriteHandler) Unfavorite(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.favoriteService.Unfavorite(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "取消收藏成功", result)
}

// GetStatus 收藏状态
// @Summary 获取收藏状态
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID"
// @Success 200 {object} response.Response{data=dto.FavoriteResult} "查询成功"
// @Router /diaries/{id}/favorite [get]
func (h *FavoriteHandler) GetStatus(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.favoriteService.GetStatus(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", result)
}

// BatchStatus 批量查询收藏状态
// @Summary 批量查询收藏状态
// @Tags 收藏
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.BatchFavoriteStatusRequest true "日记ID列表"
// @Success 200 {object} response.Response "查询成功"
// @Router /favorites/status [post]
func (h *FavoriteHandler) BatchStatus(c *gin.Context) {
	var req dto.BatchFavoriteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	userID, _ := middleware.GetCurrentUserID(c)

	status, err := h.favoriteService.BatchCheckStatus(c.Request.Context(), userID, req.DiaryIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", status)
}

// ListMine 我的收藏
// @Summary 我的收藏
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.FavoriteListData} "查询成功"
// @Router /me/favorites [get]
func (h *FavoriteHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	q, err := bindPage(c)
	if err != nil {
		response.BadRequest(c, "分页参数无效: "+err.Error())
		return
	}

	data, err := h.favoriteService.ListByUser(c.Request.Context(), userID, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", data)
}
