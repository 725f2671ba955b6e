package handler

import (
	"promptshelf/config"
	"promptshelf/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Invite  *InviteHandler
	Content *ContentHandler
	Admin   *AdminHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Invite:  NewInviteHandler(svc.Invite),
		Content: NewContentHandler(svc.Content),
		Admin:   NewAdminHandler(svc.Admin, cfg.Auth.Cookie),
		Export:  NewExportHandler(svc.Export),
	}
}
