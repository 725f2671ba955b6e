package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptshelf/internal/dto"
	"promptshelf/internal/service"
	"promptshelf/pkg/response"
)

// 面向用户的提示文案
const (
	reasonCodeRequired   = "invite code required"
	reasonInvalidFormat  = "Invite code must be 6 characters (letters or numbers)."
	reasonInvalidPayload = "invalid payload"
	reasonDuplicate      = "Invite code already exists."
	reasonCapacity       = "Invite code list is full. Please try again later."
	reasonNotFound       = "invite code not found"
	reasonAlreadyUsed    = "already used"
)

// InviteHandler 邀请码共享板 HTTP 处理器
type InviteHandler struct {
	inviteSvc service.InviteService
}

// NewInviteHandler 创建 InviteHandler
func NewInviteHandler(inviteSvc service.InviteService) *InviteHandler {
	return &InviteHandler{inviteSvc: inviteSvc}
}

// Submit 提交邀请码（限流在路由层完成）
// POST /api/v1/invite
func (h *InviteHandler) Submit(c *gin.Context) {
	var req dto.SubmitInviteRequest
	if handled, _ := bindJSON(c, &req); handled {
		return
	}
	// 请求体无法解析时按空邀请码处理

	view, err := h.inviteSvc.Submit(c.Request.Context(), req.InviteCode)
	if err != nil {
		h.handleSubmitError(c, err)
		return
	}

	response.OK(c, view)
}

// Mark 标记槽位已使用
// POST /api/v1/invite/mark
func (h *InviteHandler) Mark(c *gin.Context) {
	var req dto.MarkInviteRequest
	if handled, err := bindJSON(c, &req); handled {
		return
	} else if err != nil {
		response.BadRequest(c, response.CodeInvalidInput, reasonInvalidPayload)
		return
	}

	slot, ok := req.SlotNumber()
	if !ok {
		response.BadRequest(c, response.CodeInvalidSlot, reasonInvalidPayload)
		return
	}

	if err := h.inviteSvc.Mark(c.Request.Context(), req.InviteCode, slot); err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, nil)
}

// List 返回排序后的共享板
// GET /api/v1/invite
func (h *InviteHandler) List(c *gin.Context) {
	board, err := h.inviteSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, board)
}

func (h *InviteHandler) handleSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInviteCodeRequired):
		response.BadRequest(c, response.CodeInvalidInput, reasonCodeRequired)
	case errors.Is(err, service.ErrInvalidInviteFormat):
		response.BadRequest(c, response.CodeInvalidFormat, reasonInvalidFormat)
	case errors.Is(err, service.ErrDuplicateInviteCode):
		response.Conflict(c, response.CodeDuplicateCode, reasonDuplicate)
	case errors.Is(err, service.ErrInviteCapacityExceeded):
		response.Error(c, http.StatusInsufficientStorage, response.CodeCapacityExceeded, reasonCapacity)
	default:
		response.InternalError(c)
	}
}

func (h *InviteHandler) handleMarkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInviteCodeRequired):
		response.BadRequest(c, response.CodeInvalidInput, reasonInvalidPayload)
	case errors.Is(err, service.ErrInvalidSlot):
		response.BadRequest(c, response.CodeInvalidSlot, reasonInvalidPayload)
	case errors.Is(err, service.ErrInviteNotFound):
		response.NotFound(c, reasonNotFound)
	case errors.Is(err, service.ErrSlotAlreadyUsed):
		response.Conflict(c, response.CodeAlreadyUsed, reasonAlreadyUsed)
	default:
		response.InternalError(c)
	}
}
