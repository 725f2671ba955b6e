package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptshelf/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 声明长度超限时直接返回 413；未声明长度时由 MaxBytesReader 在读取时截断，
// 由 handler 在绑定失败时识别 *http.MaxBytesError
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeTooLarge, "request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
