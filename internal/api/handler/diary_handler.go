package handler

import (
	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/api/middleware"
	"trailnote-go/internal/api/response"
	"trailnote-go/internal/service"

	"github.com/gin-gonic/gin"
)

type DiaryHandler struct {
	diaryService     *service.DiaryService
	trackService     *service.TrackService
	recommendService *service.RecommendService
}

func NewDiaryHandler(diaryService *service.DiaryService, trackService *service.TrackService, recommendService *service.RecommendService) *DiaryHandler {
	return &DiaryHandler{
		diaryService:     diaryService,
		trackService:     trackService,
		recommendService: recommendService,
	}
}

// Create 创建日记
// @Summary 创建日记
// @Description 创建新日记，审核通过前不会公开
// @Tags 日记
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.DiaryCreateRequest true "日记内容"
// @Success 201 {object} response.Response{data=dto.DiaryInfo} "创建成功"
// @Failure 400 {object} response.ErrorResponse "参数错误"
// @Router /diaries [post]
func (h *DiaryHandler) Create(c *gin.Context) {
	var req dto.DiaryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	info, err := h.diaryService.Create(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "创建成功，等待审核", info)
}

// Edit 提交修改
// @Summary 修改日记
// @Description 修改内容写入待审核副本，线上版本在审核通过前保持不变
// @Tags 日记
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID（主日记或待审核副本）"
// @Param body body dto.DiaryEditRequest true "修改内容"
// @Success 200 {object} response.Response{data=dto.DiaryEditResult} "已提交审核"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "日记不存在"
// @Router /diaries/{id} [put]
func (h *DiaryHandler) Edit(c *gin.Context) {
	var req dto.DiaryEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.diaryService.SubmitEdit(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "修改已提交，等待审核", result)
}

// SetPublished 发布/取消发布
// @Summary 发布或取消发布日记
// @Tags 日记
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID"
// @Param body body dto.DiaryPublishRequest true "是否发布"
// @Success 200 {object} response.Response{data=dto.DiaryInfo} "操作成功"
// @Router /diaries/{id}/publish [put]
func (h *DiaryHandler) SetPublished(c *gin.Context) {
	var req dto.DiaryPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	info, err := h.diaryService.SetPublished(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), *req.Published)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "操作成功", info)
}

// Delete 删除日记
// @Summary 删除日记
// @Tags 日记
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记ID"
// @Success 200 {object} response.Response "删除成功"
// @Router /diaries/{id} [delete]
func (h *DiaryHandler) Delete(c *gin.Context) {
	if err := h.diaryService.Delete(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "删除成功", nil)
}

// Detail 日记详情
// @Summary 日记详情
// @Description 公开日记任何人可见；未公开的日记只有作者与审核人员可见
// @Tags 日记
// @Produce json
// @Param id path string true "日记ID"
// @Success 200 {object} response.Response{data=dto.DiaryInfo} "查询成功"
// @Failure 404 {object} response.ErrorResponse "日记不存在"
// @Router /diaries/{id} [get]
func (h *DiaryHandler) Detail(c *gin.Context) {
	info, err := h.diaryService.GetDetail(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", info)
}

// ListByAuthor 作者的日记
// @Summary 作者的日记列表
// @Tags 日记
// @Produce json
// @Param id path int true "作者ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.DiaryListData} "查询成功"
// @Router /users/{id}/diaries [get]
func (h *DiaryHandler) ListByAuthor(c *gin.Context) {
	authorID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	q, err := bindPage(c)
	if err != nil {
		response.BadRequest(c, "分页参数无效: "+err.Error())
		return
	}

	data, err := h.diaryService.ListByAuthor(c.Request.Context(), middleware.GetPrincipal(c), authorID, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", data)
}

// Recommend 推荐流
// @Summary 推荐日记
// @Description 登录用户按点赞偏好推荐，匿名用户按热度
// @Tags 日记
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.DiaryListData} "查询成功"
// @Router /diaries/feed [get]
func (h *DiaryHandler) Recommend(c *gin.Context) {
	q, err := bindPage(c)
	if err != nil {
		response.BadRequest(c, "分页参数无效: "+err.Error())
		return
	}

	data, err := h.recommendService.Recommend(c.Request.Context(), middleware.GetPrincipal(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", data)
}

// Share 分享
// @Summary 分享日记
// @Tags 日记
// @Produce json
// @Param id path string true "日记ID"
// @Success 200 {object} response.Response{data=dto.ShareResult} "分享成功"
// @Router /diaries/{id}/share [post]
func (h *DiaryHandler) Share(c *gin.Context) {
	result, err := h.trackService.Share(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "分享成功", result)
}

// ViewHistory 浏览记录
// @Summary 我的浏览记录
// @Tags 日记
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.ViewHistoryListData} "查询成功"
// @Router /me/views [get]
func (h *DiaryHandler) ViewHistory(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	q, err := bindPage(c)
	if err != nil {
		response.BadRequest(c, "分页参数无效: "+err.Error())
		return
	}

	data, err := h.trackService.ListViewHistory(c.Request.Context(), userID, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", data)
}

// bindPage 读取分页参数；无法解析时返回错误，越界的数值交给 service 归一化
func bindPage(c *gin.Context) (dto.PageQuery, error) {
	var q dto.PageQuery
	err := c.ShouldBindQuery(&q)
	return q, err
}
