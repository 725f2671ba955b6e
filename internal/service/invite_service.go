package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"promptshelf/config"
	"promptshelf/internal/board"
	"promptshelf/internal/dto"
	"promptshelf/internal/metrics"
	"promptshelf/internal/model"
	"promptshelf/internal/repository"
	pkgerrors "promptshelf/pkg/errors"
)

// ── 邀请码模块业务错误 ──

var (
	ErrInviteCodeRequired     = errors.New("邀请码不能为空")
	ErrInvalidInviteFormat    = errors.New("邀请码必须是 6 位字母或数字")
	ErrInvalidSlot            = errors.New("槽位编号必须在 1-4 之间")
	ErrDuplicateInviteCode    = errors.New("邀请码已存在")
	ErrInviteCapacityExceeded = errors.New("邀请码列表已满")
	ErrInviteNotFound         = errors.New("邀请码不存在")
	ErrSlotAlreadyUsed        = errors.New("该槽位已被使用")
)

// DefaultInviteCapacity 共享板最多容纳的邀请码数量
const DefaultInviteCapacity = 20000

var inviteCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// InviteService 邀请码共享板业务接口
type InviteService interface {
	// Submit 校验并登记新邀请码，返回登记后的行
	Submit(ctx context.Context, rawCode string) (*dto.InviteView, error)
	// Mark 占用指定槽位；同一 (code, slot) 并发调用至多一个返回 nil
	Mark(ctx context.Context, rawCode string, slot int) error
	// List 返回排序后的全部邀请码及统计
	List(ctx context.Context) (*dto.InviteBoardResponse, error)
}

type inviteService struct {
	repo     *repository.Repository
	capacity int64
	logger   *zap.Logger
}

// NewInviteService 创建 InviteService 实例
func NewInviteService(cfg *config.InviteConfig, repo *repository.Repository, logger *zap.Logger) InviteService {
	capacity := int64(DefaultInviteCapacity)
	if cfg != nil && cfg.Capacity > 0 {
		capacity = int64(cfg.Capacity)
	}
	return &inviteService{repo: repo, capacity: capacity, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Submit — 提交邀请码
// ═══════════════════════════════════════════════════════════
//
// 顺序：trim → 非空 → 格式 → 转大写 → 容量 → 插入。
// 容量检查与插入不在同一事务内，边界附近的并发提交可能略微超出上限。

func (s *inviteService) Submit(ctx context.Context, rawCode string) (*dto.InviteView, error) {
	code := strings.TrimSpace(rawCode)
	if code == "" {
		metrics.InviteSubmissions.WithLabelValues("invalid_input").Inc()
		return nil, ErrInviteCodeRequired
	}
	if !inviteCodePattern.MatchString(code) {
		metrics.InviteSubmissions.WithLabelValues("invalid_format").Inc()
		return nil, ErrInvalidInviteFormat
	}
	code = strings.ToUpper(code)

	total, err := s.repo.InviteCode.Count(ctx)
	if err != nil {
		s.logger.Error("统计邀请码数量失败", zap.Error(err))
		metrics.InviteSubmissions.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("统计邀请码数量失败: %w", err)
	}
	if total >= s.capacity {
		metrics.InviteSubmissions.WithLabelValues("capacity_exceeded").Inc()
		return nil, ErrInviteCapacityExceeded
	}

	invite := &model.InviteCode{Code: code}
	if err := s.repo.InviteCode.Create(ctx, invite); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			metrics.InviteSubmissions.WithLabelValues("duplicate").Inc()
			return nil, ErrDuplicateInviteCode
		}
		s.logger.Error("登记邀请码失败", zap.String("code", code), zap.Error(err))
		metrics.InviteSubmissions.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("登记邀请码失败: %w", err)
	}

	metrics.InviteSubmissions.WithLabelValues("accepted").Inc()
	view := dto.NewInviteView(invite)
	return &view, nil
}

// ═══════════════════════════════════════════════════════════
// Mark — 占用槽位
// ═══════════════════════════════════════════════════════════
//
// 一条条件 UPDATE 完成读-判断-写；未命中时再查询一次区分
// “邀请码不存在” 与 “槽位已被占用”。

func (s *inviteService) Mark(ctx context.Context, rawCode string, slot int) error {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if code == "" {
		return ErrInviteCodeRequired
	}
	if _, ok := model.SlotColumn(slot); !ok {
		return ErrInvalidSlot
	}
	slotLabel := strconv.Itoa(slot)

	won, err := s.repo.InviteCode.MarkSlot(ctx, code, slot)
	if err != nil {
		s.logger.Error("标记槽位失败", zap.String("code", code), zap.Int("slot", slot), zap.Error(err))
		metrics.InviteRedemptions.WithLabelValues(slotLabel, "error").Inc()
		return fmt.Errorf("标记槽位失败: %w", err)
	}
	if won {
		metrics.InviteRedemptions.WithLabelValues(slotLabel, "marked").Inc()
		return nil
	}

	exists, err := s.repo.InviteCode.Exists(ctx, code)
	if err != nil {
		s.logger.Error("查询邀请码失败", zap.String("code", code), zap.Error(err))
		metrics.InviteRedemptions.WithLabelValues(slotLabel, "error").Inc()
		return fmt.Errorf("查询邀请码失败: %w", err)
	}
	if !exists {
		metrics.InviteRedemptions.WithLabelValues(slotLabel, "not_found").Inc()
		return ErrInviteNotFound
	}
	metrics.InviteRedemptions.WithLabelValues(slotLabel, "already_used").Inc()
	return ErrSlotAlreadyUsed
}

// List 读取全部行并按 board.Less 排序
func (s *inviteService) List(ctx context.Context) (*dto.InviteBoardResponse, error) {
	rows, err := s.repo.InviteCode.List(ctx)
	if err != nil {
		s.logger.Error("查询邀请码列表失败", zap.Error(err))
		return nil, fmt.Errorf("查询邀请码列表失败: %w", err)
	}

	views := make([]dto.InviteView, 0, len(rows))
	var stats dto.InviteStats
	for i := range rows {
		views = append(views, dto.NewInviteView(&rows[i]))
		stats.UsedSlots += rows[i].UsedSlots()
	}
	board.Sort(views)

	stats.TotalCodes = len(views)
	stats.AvailableUses = stats.TotalCodes*model.SlotCount - stats.UsedSlots
	metrics.InviteCodes.Set(float64(stats.TotalCodes))

	return &dto.InviteBoardResponse{Invites: views, Stats: stats}, nil
}
