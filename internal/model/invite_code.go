package model

import "time"

// SlotCount 每个邀请码可被使用的次数
const SlotCount = 4

// slotColumns 槽位编号（1..4）到列名的固定映射。
// 仓储层只通过该映射拼接列名，列名永远不来自用户输入。
var slotColumns = [SlotCount]string{"used_once", "used_twice", "used_thrice", "used_fourth"}

// InviteCode 邀请码共享表 — 对应 invite_codes
// code 为主键（大写 6 位字母数字），四个槽位只允许 false→true。
type InviteCode struct {
	Code       string    `gorm:"type:varchar(6);primaryKey"         json:"invite_code"`
	UsedOnce   bool      `gorm:"not null;default:false"             json:"used_once"`
	UsedTwice  bool      `gorm:"not null;default:false"             json:"used_twice"`
	UsedThrice bool      `gorm:"not null;default:false"             json:"used_thrice"`
	UsedFourth bool      `gorm:"not null;default:false"             json:"used_fourth"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"               json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime"               json:"updated_at"`
}

// TableName 指定表名
func (InviteCode) TableName() string { return "invite_codes" }

// Slots 按槽位顺序返回四个使用标记
func (c *InviteCode) Slots() [SlotCount]bool {
	return [SlotCount]bool{c.UsedOnce, c.UsedTwice, c.UsedThrice, c.UsedFourth}
}

// UsedSlots 已使用的槽位数
func (c *InviteCode) UsedSlots() int {
	n := 0
	for _, used := range c.Slots() {
		if used {
			n++
		}
	}
	return n
}

// RemainingUses 剩余可用次数，范围 [0,4]
func (c *InviteCode) RemainingUses() int {
	return SlotCount - c.UsedSlots()
}

// SlotColumn 返回槽位对应的列名；slot 不在 1..4 时 ok=false
func SlotColumn(slot int) (column string, ok bool) {
	if slot < 1 || slot > SlotCount {
		return "", false
	}
	return slotColumns[slot-1], true
}
