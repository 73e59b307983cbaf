package handler

import (
	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/api/response"
	"trailnote-go/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchDiaries 搜索日记
// @Summary 搜索日记
// @Description 按关键词与标签搜索公开日记；搜索引擎不可用时自动回退到数据库
// @Tags 搜索
// @Produce json
// @Param q query string false "搜索关键词"
// @Param tag query string false "标签名"
// @Param sort query string false "publishedAt / viewCount / likeCount / favoriteCount / commentCount" default(publishedAt)
// @Param order query string false "asc / desc" default(desc)
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.SearchDiaryData} "搜索成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /search/diaries [get]
func (h *SearchHandler) SearchDiaries(c *gin.Context) {
	var req dto.SearchDiaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "搜索成功", data)
}
