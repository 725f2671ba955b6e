package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptshelf/config"
	"promptshelf/internal/dto"
	"promptshelf/internal/service"
	"promptshelf/pkg/response"
)

// AdminHandler 管理后台 HTTP 处理器
type AdminHandler struct {
	adminSvc service.AdminService
	cookie   config.CookieConfig
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService, cookie config.CookieConfig) *AdminHandler {
	if cookie.Name == "" {
		cookie.Name = "admin_session"
	}
	return &AdminHandler{adminSvc: adminSvc, cookie: cookie}
}

// Login 管理员登录，成功后写入 HttpOnly 会话 Cookie
// POST /api/v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if handled, err := bindJSON(c, &req); handled {
		return
	} else if err != nil {
		response.BadRequest(c, response.CodeInvalidInput, "invalid payload")
		return
	}

	result, err := h.adminSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "Invalid username or password")
		case errors.Is(err, service.ErrAdminNotConfigured):
			response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Admin credentials are not configured")
		default:
			response.InternalError(c)
		}
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresIn)
	response.OK(c, result)
}

// Logout 吊销当前会话并清除 Cookie
// POST /api/v1/admin/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	claims, ok := MustGetAdminClaims(c)
	if !ok {
		return
	}

	if err := h.adminSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	h.setSessionCookie(c, "", -1)
	response.OK(c, nil)
}

// CreatePrompt 新增提示词
// POST /api/v1/admin/prompts
func (h *AdminHandler) CreatePrompt(c *gin.Context) {
	var req dto.CreatePromptRequest
	if handled, err := bindJSON(c, &req); handled {
		return
	} else if err != nil {
		response.BadRequest(c, response.CodeInvalidInput, "invalid payload")
		return
	}

	prompt, err := h.adminSvc.CreatePrompt(c.Request.Context(), &req)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	response.Created(c, prompt)
}

func (h *AdminHandler) handleAdminError(c *gin.Context, err error) {
	var missing *service.MissingFieldError
	switch {
	case errors.As(err, &missing):
		response.BadRequest(c, response.CodeInvalidInput, missing.Error())
	case errors.Is(err, service.ErrInvalidDifficulty):
		response.BadRequest(c, response.CodeInvalidInput, "Invalid difficulty")
	case errors.Is(err, service.ErrCategoryNotFound):
		response.BadRequest(c, response.CodeInvalidInput, "Category not found")
	case errors.Is(err, service.ErrDuplicatePrompt):
		response.Conflict(c, response.CodeConflict, "Prompt slug already exists")
	case errors.Is(err, service.ErrContentReadOnly):
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "Content source is read-only")
	default:
		response.InternalError(c)
	}
}

func (h *AdminHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(parseSameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "Strict", "strict":
		return http.SameSiteStrictMode
	case "None", "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
