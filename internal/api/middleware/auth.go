package middleware

import (
	"strings"

	"trailnote-go/internal/api/response"
	"trailnote-go/internal/authz"
	"trailnote-go/pkg/utils"

	"github.com/gin-gonic/gin"
)

const ContextKeyPrincipal = "currentPrincipal"

// AuthRequired JWT 认证中间件，要求请求必须携带有效 Token
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "缺少认证令牌")
			c.Abort()
			return
		}

		p, ok := parsePrincipal(secret, token)
		if !ok {
			response.Unauthorized(c, "无效或过期的认证令牌")
			c.Abort()
			return
		}

		c.Set(ContextKeyPrincipal, p)
		c.Next()
	}
}

// OptionalAuth 携带有效 Token 时识别用户，否则按匿名访客处理
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if p, ok := parsePrincipal(secret, token); ok {
				c.Set(ContextKeyPrincipal, p)
			}
		}
		c.Next()
	}
}

// Require 要求当前用户对 obj 具备 act 权限（必须在 AuthRequired 之后使用）
func Require(enforcer *authz.Enforcer, obj, act string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p.IsAnonymous() {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}
		if !enforcer.Can(p, obj, act) {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal 从 Gin Context 中获取当前调用者，未登录时返回匿名
func GetPrincipal(c *gin.Context) authz.Principal {
	val, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return authz.Anonymous
	}
	p, ok := val.(authz.Principal)
	if !ok {
		return authz.Anonymous
	}
	return p
}

// GetCurrentUserID 从 Gin Context 中获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) (int64, bool) {
	p := GetPrincipal(c)
	return p.ID, !p.IsAnonymous()
}

func parsePrincipal(secret, token string) (authz.Principal, bool) {
	claims, err := utils.ParseTokenWithSecret(secret, token)
	if err != nil || claims.UserID <= 0 {
		return authz.Anonymous, false
	}
	role := claims.Role
	if role == "" {
		role = authz.RoleUser
	}
	if !authz.ValidRole(role) {
		return authz.Anonymous, false
	}
	return authz.Principal{ID: claims.UserID, Role: role}, true
}

// extractToken 从 Authorization 头中提取 Bearer Token
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
