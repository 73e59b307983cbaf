package handler

import (
	"strconv"

	"trailnote-go/internal/api/middleware"
	"trailnote-go/internal/api/response"
	"trailnote-go/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe 当前登录用户的主页信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.UserProfile}
// @Failure 401 {object} response.ErrorResponse "未登录"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	profile, err := h.userService.GetProfile(c.Request.Context(), p, p.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", profile)
}

// GetByID 用户主页；登录访问时附带是否已关注
// @Summary 获取用户信息
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.UserProfile}
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), middleware.GetPrincipal(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", profile)
}

// parseIDParam 解析路径中的数值 ID，必须为正数
func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err == nil && id <= 0 {
		err = strconv.ErrRange
	}
	return id, err
}
