package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
// success 表示业务是否成功；失败时 reason 给用户展示，error 为机器可读的错误分类
type Response struct {
	Success bool        `json:"success"`
	Reason  string      `json:"reason,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// 错误分类
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeInvalidSlot      = "INVALID_SLOT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeDuplicateCode    = "DUPLICATE_CODE"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodeNotFound         = "NOT_FOUND"
	CodeAlreadyUsed      = "ALREADY_USED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeConflict         = "CONFLICT"
	CodeUnavailable      = "UNAVAILABLE"
	CodeTooLarge         = "PAYLOAD_TOO_LARGE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code string, reason string) {
	c.JSON(httpStatus, Response{
		Success: false,
		Reason:  reason,
		Error:   code,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code string, reason string) {
	Error(c, http.StatusBadRequest, code, reason)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, reason string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, reason)
}

// NotFound 404
func NotFound(c *gin.Context, reason string) {
	Error(c, http.StatusNotFound, CodeNotFound, reason)
}

// Conflict 409
func Conflict(c *gin.Context, code string, reason string) {
	Error(c, http.StatusConflict, code, reason)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context, reason string) {
	Error(c, http.StatusTooManyRequests, CodeRateLimited, reason)
}

// InternalError 500，不向调用方暴露内部细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternalError, "internal error")
}
