package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"promptshelf/config"
	"promptshelf/internal/dto"
	"promptshelf/internal/model"
	"promptshelf/internal/repository"
	pkgerrors "promptshelf/pkg/errors"
	"promptshelf/pkg/jwt"
)

// ── 管理模块业务错误 ──

var (
	ErrAdminNotConfigured = errors.New("管理员账号未配置")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrContentReadOnly    = errors.New("文件内容源为只读")
	ErrCategoryNotFound   = errors.New("分类不存在")
	ErrInvalidDifficulty  = errors.New("难度取值无效")
	ErrDuplicatePrompt    = errors.New("提示词 slug 已存在")
)

// MissingFieldError 必填字段缺失
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "Missing field: " + e.Field
}

// SessionStore 会话吊销存储（Redis）
type SessionStore interface {
	RevokeSession(ctx context.Context, jti string, ttl time.Duration) error
}

// AdminService 管理后台业务接口
type AdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminSessionResponse, error)
	// Logout 吊销会话；未启用 Redis 时只由调用方清除 Cookie
	Logout(ctx context.Context, claims *jwt.Claims) error
	CreatePrompt(ctx context.Context, req *dto.CreatePromptRequest) (*dto.PromptView, error)
}

type adminService struct {
	cfg      *config.Config
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	sessions SessionStore
	logger   *zap.Logger
}

// NewAdminService 创建 AdminService 实例；sessions 可为 nil
func NewAdminService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	sessions SessionStore,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		cfg:      cfg,
		repo:     repo,
		jwtMgr:   jwtMgr,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *adminService) Login(_ context.Context, req *dto.AdminLoginRequest) (*dto.AdminSessionResponse, error) {
	username := s.cfg.Auth.AdminUsername
	hash := s.cfg.Auth.AdminPasswordHash
	if username == "" || hash == "" {
		return nil, ErrAdminNotConfigured
	}

	// 用户名不匹配时仍做一次 bcrypt，避免响应时间泄露用户名
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password))
	if !userOK || passErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.jwtMgr.GenerateSessionToken(username)
	if err != nil {
		s.logger.Error("生成会话 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.AdminSessionResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.SessionTTL().Seconds()),
	}, nil
}

func (s *adminService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.sessions == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.sessions.RevokeSession(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("吊销会话失败", zap.String("jti", claims.ID), zap.Error(err))
		return fmt.Errorf("吊销会话失败: %w", err)
	}
	return nil
}

func (s *adminService) CreatePrompt(ctx context.Context, req *dto.CreatePromptRequest) (*dto.PromptView, error) {
	if s.cfg.Content.Source != config.ContentSourceDatabase {
		return nil, ErrContentReadOnly
	}
	if field := req.MissingField(); field != "" {
		return nil, &MissingFieldError{Field: field}
	}
	if !model.ValidDifficulty(req.Difficulty) {
		return nil, ErrInvalidDifficulty
	}

	category, err := s.repo.Prompt.GetCategoryBySlug(ctx, req.Category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.logger.Error("查询分类失败", zap.String("category", req.Category), zap.Error(err))
		return nil, err
	}

	prompt := &model.Prompt{
		Slug:        strings.TrimSpace(req.Slug),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Template:    req.Template,
		CategoryID:  category.ID,
		Category:    category,
		UseCase:     req.UseCase,
		Difficulty:  req.Difficulty,
		Tags:        model.StringList(req.Tags),
		Featured:    req.Featured,
	}
	if req.CoverImage != "" {
		cover := req.CoverImage
		prompt.CoverImage = &cover
	}

	if err := s.repo.Prompt.CreatePrompt(ctx, prompt); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrDuplicatePrompt
		}
		s.logger.Error("新增提示词失败", zap.String("slug", prompt.Slug), zap.Error(err))
		return nil, err
	}

	s.logger.Info("新增提示词", zap.String("slug", prompt.Slug), zap.String("category", category.Slug))
	view := dto.NewPromptView(prompt)
	return &view, nil
}
