package dto

import "strings"

// ── 管理后台 ──

// AdminLoginRequest 管理员登录
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminSessionResponse 登录成功响应
type AdminSessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // 秒
}

// CreatePromptRequest 新增提示词；必填项由 MissingField 校验，以便返回具体字段名
type CreatePromptRequest struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Template    string   `json:"template"`
	Category    string   `json:"category"`
	Difficulty  string   `json:"difficulty"`
	UseCase     string   `json:"useCase"`
	CoverImage  string   `json:"coverImage"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
}

// MissingField 返回第一个缺失的必填字段（slug, title, template, category, difficulty）
func (r *CreatePromptRequest) MissingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"slug", r.Slug},
		{"title", r.Title},
		{"template", r.Template},
		{"category", r.Category},
		{"difficulty", r.Difficulty},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}
