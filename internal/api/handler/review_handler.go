package handler

import (
	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/api/middleware"
	"trailnote-go/internal/api/response"
	"trailnote-go/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Review 审核日记
// @Summary 审核日记
// @Description 通过待审核副本会把修改合并到线上版本
// @Tags 审核
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID"
// @Param body body dto.ReviewRequest true "审核结果"
// @Success 200 {object} response.Response "审核完成"
// @Failure 403 {object} response.ErrorResponse "没有审核权限"
// @Failure 409 {object} response.ErrorResponse "状态冲突"
// @Router /review/diaries/{id} [put]
func (h *ReviewHandler) Review(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	err := h.reviewService.Review(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.Status, req.RejectedReason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "审核完成", nil)
}

// List 审核队列
// @Summary 审核队列
// @Tags 审核
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pending / Approved / Rejected"
// @Param author_id query int false "作者ID"
// @Param q query string false "标题或正文关键字"
// @Param sort query string false "createdAt / publishedAt / viewCount / likeCount / favoriteCount / commentCount"
// @Param order query string false "asc / desc"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.DiaryListData} "查询成功"
// @Router /review/diaries [get]
func (h *ReviewHandler) List(c *gin.Context) {
	var q dto.ReviewListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	data, err := h.reviewService.ReviewList(c.Request.Context(), middleware.GetPrincipal(c), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", data)
}
