package handler

import (
	"context"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/api/middleware"
	"trailnote-go/internal/api/response"
	"trailnote-go/internal/service"

	"github.com/gin-gonic/gin"
)

type RelationHandler struct {
	relationService *service.RelationService
}

func NewRelationHandler(relationService *service.RelationService) *RelationHandler {
	return &RelationHandler{relationService: relationService}
}

// Follow 关注用户
// @Summary 关注用户
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "被关注用户ID"
// @Success 200 {object} response.Response{data=dto.FollowResult}
// @Failure 400 {object} response.ErrorResponse "不能关注自己"
// @Failure 409 {object} response.ErrorResponse "已关注"
// @Router /users/{id}/follow [post]
func (h *RelationHandler) Follow(c *gin.Context) {
	h.toggle(c, h.relationService.Follow, "关注成功")
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "被取消关注用户ID"
// @Success 200 {object} response.Response{data=dto.FollowResult}
// @Failure 409 {object} response.ErrorResponse "未关注该用户"
// @Router /users/{id}/follow [delete]
func (h *RelationHandler) Unfollow(c *gin.Context) {
	h.toggle(c, h.relationService.Unfollow, "取消关注成功")
}

type followFunc func(ctx context.Context, currentUserID, targetUserID int64) (*dto.FollowResult, error)

func (h *RelationHandler) toggle(c *gin.Context, fn followFunc, msg string) {
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	currentUserID, _ := middleware.GetCurrentUserID(c)

	result, err := fn(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg, result)
}

// Status 当前用户与目标用户的关注关系
// @Summary 查询关注关系
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标用户ID"
// @Success 200 {object} response.Response{data=dto.FollowStatus}
// @Router /users/{id}/follow [get]
func (h *RelationHandler) Status(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	currentUserID, _ := middleware.GetCurrentUserID(c)

	status, err := h.relationService.Status(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", status)
}

// Following 关注列表
// @Summary 获取用户关注列表
// @Tags 关注
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.FollowListData}
// @Router /users/{id}/following [get]
func (h *RelationHandler) Following(c *gin.Context) {
	h.listOf(c, h.relationService.ListFollowing)
}

// Followers 粉丝列表
// @Summary 获取用户粉丝列表
// @Tags 关注
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.FollowListData}
// @Router /users/{id}/followers [get]
func (h *RelationHandler) Followers(c *gin.Context) {
	h.listOf(c, h.relationService.ListFollowers)
}

type listFunc func(ctx context.Context, viewerID, userID int64, page, pageSize int) (*dto.FollowListData, error)

func (h *RelationHandler) listOf(c *gin.Context, fn listFunc) {
	userID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	viewerID, _ := middleware.GetCurrentUserID(c)
	q, err := bindPage(c)
	if err != nil {
		response.BadRequest(c, "分页参数无效: "+err.Error())
		return
	}

	data, err := fn(c.Request.Context(), viewerID, userID, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", data)
}

// Mutual 我的互相关注
// @Summary 获取我的互相关注列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.FollowListData}
// @Router /me/mutual-follows [get]
func (h *RelationHandler) Mutual(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	q, err := bindPage(c)
	if err != nil {
		response.BadRequest(c, "分页参数无效: "+err.Error())
		return
	}

	data, err := h.relationService.ListMutual(c.Request.Context(), currentUserID, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", data)
}

// StatusBatch 批量查询关注状态
// @Summary 批量查询关注状态
// @Tags 关注
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FollowStatusBatchRequest true "用户ID列表"
// @Success 200 {object} response.Response{data=dto.FollowStatusBatch}
// @Router /follows/status [post]
func (h *RelationHandler) StatusBatch(c *gin.Context) {
	var req dto.FollowStatusBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	currentUserID, _ := middleware.GetCurrentUserID(c)

	status, err := h.relationService.StatusBatch(c.Request.Context(), currentUserID, req.UserIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", status)
}
