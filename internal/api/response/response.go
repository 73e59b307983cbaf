package response

import (
	"errors"
	"net/http"

	"trailnote-go/internal/service"
	"trailnote-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一成功响应
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorInfo 错误详情
type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, statusCode int, errType string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error: ErrorInfo{
			Code:    statusCode,
			Message: message,
			Type:    errType,
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, "BadRequest", message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, "Unauthorized", message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, "Forbidden", message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, "NotFound", message)
}

func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, "InternalServerError", message)
}

func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, "Conflict", message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	Fail(c, http.StatusServiceUnavailable, "ServiceUnavailable", message)
}

// Error 按业务错误类别映射 HTTP 状态码；未知错误记录日志后返回 500
func Error(c *gin.Context, err error) {
	msg := err.Error()
	var biz *service.BizError
	if errors.As(err, &biz) {
		msg = biz.Error()
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, msg)
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, msg)
	case errors.Is(err, service.ErrValidation):
		BadRequest(c, msg)
	case errors.Is(err, service.ErrAlreadyDone):
		Fail(c, http.StatusConflict, "AlreadyDone", msg)
	case errors.Is(err, service.ErrNotDone):
		Fail(c, http.StatusConflict, "NotDone", msg)
	case errors.Is(err, service.ErrConflict):
		Conflict(c, msg)
	case errors.Is(err, service.ErrFatal):
		logger.Error("Storage unavailable",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		ServiceUnavailable(c, "服务暂时不可用，请稍后重试")
	default:
		logger.Error("Unhandled error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		InternalError(c, "服务器内部错误")
	}
}
