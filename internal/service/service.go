package service

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"promptshelf/config"
	"promptshelf/internal/repository"
	"promptshelf/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Invite  InviteService
	Content ContentService
	Admin   AdminService
	Export  ExportService
}

// NewService 创建 Service 聚合；sessions 为 nil 时登出不做服务端吊销
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	sessions SessionStore,
	contentFs afero.Fs,
	logger *zap.Logger,
) *Service {
	invite := NewInviteService(&cfg.Invite, repo, logger)
	return &Service{
		Invite:  invite,
		Content: NewContentService(&cfg.Content, repo, contentFs, logger),
		Admin:   NewAdminService(cfg, repo, jwtMgr, sessions, logger),
		Export:  NewExportService(invite, logger),
	}
}
