package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"promptshelf/pkg/jwt"
	"promptshelf/pkg/redis"
	"promptshelf/pkg/response"
)

// AdminClaimsKey 管理员会话声明在 gin.Context 中的键
const AdminClaimsKey = "admin_claims"

// AdminAuth 管理员会话认证中间件
// 优先读取 Cookie，其次 Authorization: Bearer <token>
// rdb 为 nil 时跳过吊销检查；Redis 出错时降级放行
func AdminAuth(jwtMgr *jwt.Manager, rdb *redis.Client, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsRevoked(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, "Unauthorized")
				c.Abort()
				return
			}
		}

		c.Set(AdminClaimsKey, claims)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
