package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"promptshelf/internal/metrics"
	"promptshelf/internal/ratelimit"
	"promptshelf/pkg/redis"
	"promptshelf/pkg/response"
)

// RateLimit 基于 Redis 滑动窗口的速率限制中间件（管理员登录）
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// rdb 为 nil 时降级放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitRejections.WithLabelValues("redis").Inc()
			response.TooManyRequests(c, "Too many attempts. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// SubmissionRateLimit 进程内滑动窗口限流（邀请码提交）
// 客户端标识取 X-Forwarded-For 的第一个地址；缺失时所有请求共用 "unknown"。
// 多副本部署时各实例独立计数。
func SubmissionRateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ratelimit.ClientIdentifier(c.GetHeader("X-Forwarded-For"))
		if !limiter.Allow(id) {
			metrics.RateLimitRejections.WithLabelValues("submission").Inc()
			response.TooManyRequests(c, "Too many submissions. Please slow down.")
			c.Abort()
			return
		}
		c.Next()
	}
}
