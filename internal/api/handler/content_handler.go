package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptshelf/internal/dto"
	"promptshelf/internal/service"
	"promptshelf/pkg/response"
)

// ContentHandler 内容读取 HTTP 处理器
type ContentHandler struct {
	contentSvc service.ContentService
}

// NewContentHandler 创建 ContentHandler
func NewContentHandler(contentSvc service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// ListCategories GET /api/v1/categories
func (h *ContentHandler) ListCategories(c *gin.Context) {
	categories, err := h.contentSvc.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, categories)
}

// ListPrompts GET /api/v1/prompts?category=xxx
func (h *ContentHandler) ListPrompts(c *gin.Context) {
	prompts, err := h.contentSvc.ListPrompts(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, prompts)
}

// GetPrompt GET /api/v1/prompts/:slug
func (h *ContentHandler) GetPrompt(c *gin.Context) {
	prompt, err := h.contentSvc.GetPrompt(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	response.OK(c, prompt)
}

// ListPosts GET /api/v1/posts
func (h *ContentHandler) ListPosts(c *gin.Context) {
	posts, err := h.contentSvc.ListPosts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, posts)
}

// GetPost GET /api/v1/posts/:slug
func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.contentSvc.GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	response.OK(c, post)
}

// Overview GET /api/v1/overview
func (h *ContentHandler) Overview(c *gin.Context) {
	overview, err := h.contentSvc.Overview(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, overview)
}

// CopyPrompt 记录一次模板复制
// POST /api/v1/prompts/:slug/copy
func (h *ContentHandler) CopyPrompt(c *gin.Context) {
	count, err := h.contentSvc.RecordCopy(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCopyTrackingUnavailable) {
			// 文件内容源下复制仍然成功，只是不计数
			c.JSON(http.StatusOK, response.Response{Success: false, Reason: "copy tracking unavailable"})
			return
		}
		h.handleContentError(c, err)
		return
	}
	response.OK(c, dto.CopyResponse{CopyCount: count})
}

func (h *ContentHandler) handleContentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPromptNotFound):
		response.NotFound(c, "prompt not found")
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, "post not found")
	default:
		response.InternalError(c)
	}
}
