package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"promptshelf/internal/model"
	pkgerrors "promptshelf/pkg/errors"
)

// ErrInvalidSlot 槽位编号不在 1..4
var ErrInvalidSlot = errors.New("无效的槽位编号")

// InviteCodeRepository 邀请码共享板数据访问接口
type InviteCodeRepository interface {
	Count(ctx context.Context) (int64, error)
	// Create 插入新邀请码；code 已存在时返回 pkgerrors.ErrDuplicateKey
	Create(ctx context.Context, code *model.InviteCode) error
	// MarkSlot 原子条件更新：仅当 code 存在且该槽位仍为 false 时置为 true。
	// 返回是否命中一行；并发调用同一 (code, slot) 时至多一个返回 true。
	MarkSlot(ctx context.Context, code string, slot int) (bool, error)
	Exists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]model.InviteCode, error)
}

type inviteCodeRepo struct {
	db *gorm.DB
}

// NewInviteCodeRepo 创建 InviteCodeRepository 实例
func NewInviteCodeRepo(db *gorm.DB) InviteCodeRepository {
	return &inviteCodeRepo{db: db}
}

func (r *inviteCodeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.InviteCode{}).Count(&n).Error
	return n, err
}

func (r *inviteCodeRepo) Create(ctx context.Context, code *model.InviteCode) error {
	err := r.db.WithContext(ctx).Create(code).Error
	if pkgerrors.IsDuplicateKey(err) {
		return fmt.Errorf("邀请码 %s: %w", code.Code, pkgerrors.ErrDuplicateKey)
	}
	return err
}

// MarkSlot UPDATE invite_codes SET <slot>=true, updated_at=now WHERE code=? AND <slot>=false
// 读-判断-写在数据库内一次完成，不依赖应用层锁
func (r *inviteCodeRepo) MarkSlot(ctx context.Context, code string, slot int) (bool, error) {
	column, ok := model.SlotColumn(slot)
	if !ok {
		return false, ErrInvalidSlot
	}

	res := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("code = ?", code).
		Where(column+" = ?", false).
		Updates(map[string]interface{}{
			column:       true,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inviteCodeRepo) Exists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("code = ?", code).
		Count(&n).Error
	return n > 0, err
}

// List 返回全部邀请码；数量受容量上限约束，不分页，排序由服务层负责
func (r *inviteCodeRepo) List(ctx context.Context) ([]model.InviteCode, error) {
	var invites []model.InviteCode
	err := r.db.WithContext(ctx).Order("code ASC").Find(&invites).Error
	return invites, err
}
