package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"promptshelf/config"
	"promptshelf/internal/api/handler"
	"promptshelf/internal/api/middleware"
	"promptshelf/internal/ratelimit"
	"promptshelf/pkg/jwt"
	"promptshelf/pkg/redis"
)

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时管理员登录限流与会话吊销检查降级为放行
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	limiter ratelimit.Limiter,
	db Pinger,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health", cfg.Metrics.Path))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Error("健康检查失败", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── Prometheus 指标 ──
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 邀请码共享板（匿名访问）
		invite := v1.Group("/invite")
		{
			invite.GET("", h.Invite.List)
			invite.POST("", middleware.SubmissionRateLimit(limiter), h.Invite.Submit)
			invite.POST("/mark", h.Invite.Mark)
		}

		// 内容模块（只读 + 复制计数）
		v1.GET("/categories", h.Content.ListCategories)
		v1.GET("/overview", h.Content.Overview)
		prompts := v1.Group("/prompts")
		{
			prompts.GET("", h.Content.ListPrompts)
			prompts.GET("/:slug", h.Content.GetPrompt)
			prompts.POST("/:slug/copy", h.Content.CopyPrompt)
		}
		posts := v1.Group("/posts")
		{
			posts.GET("", h.Content.ListPosts)
			posts.GET("/:slug", h.Content.GetPost)
		}

		// 管理后台
		admin := v1.Group("/admin")
		{
			admin.POST("/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, time.Minute), h.Admin.Login)

			authorized := admin.Group("")
			authorized.Use(middleware.AdminAuth(jwtMgr, rdb, cfg.Auth.Cookie.Name))
			{
				authorized.POST("/logout", h.Admin.Logout)
				authorized.POST("/prompts", h.Admin.CreatePrompt)
				authorized.GET("/invites/export", h.Export.ExportInvites)
			}
		}
	}

	return r
}
