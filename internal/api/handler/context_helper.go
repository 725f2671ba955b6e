package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptshelf/internal/api/middleware"
	"promptshelf/pkg/jwt"
	"promptshelf/pkg/response"
)

// MustGetAdminClaims 从 Gin 上下文中安全提取管理员会话声明。
// AdminAuth 中间件未注入时返回 false 并写入 401 响应，调用方应直接 return。
func MustGetAdminClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.AdminClaimsKey)
	if !exists {
		response.Unauthorized(c, "Unauthorized")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, "Unauthorized")
		return nil, false
	}
	return claims, true
}

// bindJSON 解析请求体；超过 BodyLimit 时直接写入 413 并返回 handled=true
func bindJSON(c *gin.Context, obj interface{}) (handled bool, err error) {
	err = c.ShouldBindJSON(obj)
	if err == nil {
		return false, nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeTooLarge, "request body too large")
		return true, err
	}
	return false, err
}
