package dto

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"promptshelf/internal/model"
)

// ── 邀请码共享板请求 ──

// SubmitInviteRequest 提交邀请码
type SubmitInviteRequest struct {
	InviteCode string `json:"inviteCode"`
}

// MarkInviteRequest 标记槽位已使用
// slot 兼容数字与数字字符串（"2"）
type MarkInviteRequest struct {
	InviteCode string      `json:"inviteCode"`
	Slot       json.Number `json:"slot"`
}

// SlotNumber 解析槽位编号；非整数返回 ok=false，范围校验由服务层负责
func (r *MarkInviteRequest) SlotNumber() (int, bool) {
	s := strings.TrimSpace(r.Slot.String())
	if s == "" {
		return 0, false
	}
	f, err := json.Number(s).Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ── 邀请码共享板响应 ──

// InviteView 共享板上的一行
type InviteView struct {
	InviteCode    string    `json:"invite_code"`
	UsedOnce      bool      `json:"used_once"`
	UsedTwice     bool      `json:"used_twice"`
	UsedThrice    bool      `json:"used_thrice"`
	UsedFourth    bool      `json:"used_fourth"`
	UpdatedAt     time.Time `json:"updated_at"`
	RemainingUses int       `json:"remaining_uses"`
}

// NewInviteView 由持久化行构造视图
func NewInviteView(c *model.InviteCode) InviteView {
	return InviteView{
		InviteCode:    c.Code,
		UsedOnce:      c.UsedOnce,
		UsedTwice:     c.UsedTwice,
		UsedThrice:    c.UsedThrice,
		UsedFourth:    c.UsedFourth,
		UpdatedAt:     c.UpdatedAt,
		RemainingUses: c.RemainingUses(),
	}
}

// Slots 按槽位顺序返回四个使用标记
func (v *InviteView) Slots() [model.SlotCount]bool {
	return [model.SlotCount]bool{v.UsedOnce, v.UsedTwice, v.UsedThrice, v.UsedFourth}
}

// InviteStats 共享板统计
type InviteStats struct {
	TotalCodes    int `json:"total_codes"`
	UsedSlots     int `json:"used_slots"`
	AvailableUses int `json:"available_uses"`
}

// InviteBoardResponse GET /invite 响应
type InviteBoardResponse struct {
	Invites []InviteView `json:"invites"`
	Stats   InviteStats  `json:"stats"`
}
