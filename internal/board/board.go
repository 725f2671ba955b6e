// Package board 邀请码共享板的读模型。
//
// 服务端与 invitectl 共用同一比较器；客户端在标记成功后用 Reduce 就地更新并重新排序，
// 不需要重新拉取列表。
package board

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"promptshelf/internal/dto"
)

// ErrBusy 上一次标记尚未返回
var ErrBusy = errors.New("另一个标记请求正在进行中")

// Less 共享板排序：剩余次数多的在前；相同则最近更新的在前；再相同按邀请码升序
func Less(a, b *dto.InviteView) bool {
	if a.RemainingUses != b.RemainingUses {
		return a.RemainingUses > b.RemainingUses
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.InviteCode < b.InviteCode
}

// Sort 原地排序
func Sort(rows []dto.InviteView) {
	sort.SliceStable(rows, func(i, j int) bool {
		return Less(&rows[i], &rows[j])
	})
}

// SlotMarked 一次成功的槽位标记
type SlotMarked struct {
	Code string
	Slot int
	At   time.Time
}

// Reduce 应用事件并返回新的有序列表，不修改入参。
// 未知邀请码或槽位已为 true 时仅返回排序后的副本。
func Reduce(state []dto.InviteView, ev SlotMarked) []dto.InviteView {
	next := make([]dto.InviteView, len(state))
	copy(next, state)

	for i := range next {
		if next[i].InviteCode != ev.Code {
			continue
		}
		if setSlot(&next[i], ev.Slot) {
			next[i].UpdatedAt = ev.At
			next[i].RemainingUses = remaining(&next[i])
		}
		break
	}

	Sort(next)
	return next
}

func setSlot(v *dto.InviteView, slot int) bool {
	var flag *bool
	switch slot {
	case 1:
		flag = &v.UsedOnce
	case 2:
		flag = &v.UsedTwice
	case 3:
		flag = &v.UsedThrice
	case 4:
		flag = &v.UsedFourth
	default:
		return false
	}
	if *flag {
		return false
	}
	*flag = true
	return true
}

func remaining(v *dto.InviteView) int {
	n := 0
	for _, used := range v.Slots() {
		if !used {
			n++
		}
	}
	return n
}

// Marker 执行服务端标记
type Marker interface {
	Mark(ctx context.Context, code string, slot int) error
}

// Board 客户端乐观缓存。同一时刻只允许一个标记请求在途，
// 第二个请求直接返回 ErrBusy，不排队。
type Board struct {
	mu     sync.Mutex
	rows   []dto.InviteView
	busy   bool
	marker Marker
	now    func() time.Time
}

// New 以服务端列表初始化
func New(rows []dto.InviteView, marker Marker) *Board {
	b := &Board{marker: marker, now: time.Now}
	b.Replace(rows)
	return b
}

// Replace 用新拉取的列表覆盖缓存
func (b *Board) Replace(rows []dto.InviteView) {
	next := make([]dto.InviteView, len(rows))
	copy(next, rows)
	Sort(next)

	b.mu.Lock()
	b.rows = next
	b.mu.Unlock()
}

// Rows 返回当前列表的副本
func (b *Board) Rows() []dto.InviteView {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]dto.InviteView, len(b.rows))
	copy(out, b.rows)
	return out
}

// Mark 调用服务端标记；成功后本地翻转槽位、刷新 updatedAt 并重新排序
func (b *Board) Mark(ctx context.Context, code string, slot int) error {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return ErrBusy
	}
	b.busy = true
	b.mu.Unlock()

	err := b.marker.Mark(ctx, code, slot)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
	if err != nil {
		return err
	}
	b.rows = Reduce(b.rows, SlotMarked{Code: code, Slot: slot, At: b.now().UTC()})
	return nil
}
