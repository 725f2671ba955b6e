package dto

import "promptshelf/internal/model"

// ── 内容读取 ──

// CategoryView 提示词分类
type CategoryView struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// PromptView 提示词；字段与 prompts-meta.json 保持一致
type PromptView struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Template    string   `json:"template"`
	CoverImage  string   `json:"coverImage,omitempty"`
	Category    string   `json:"category"`
	UseCase     string   `json:"useCase"`
	Difficulty  string   `json:"difficulty"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	CopyCount   int64    `json:"copyCount"`
}

// NewCategoryView 由数据库行构造分类视图
func NewCategoryView(c *model.PromptCategory) CategoryView {
	icon, color := c.Icon, c.Color
	if icon == "" {
		icon = "✨"
	}
	if color == "" {
		color = "blue"
	}
	return CategoryView{
		Slug:        c.Slug,
		Title:       c.Title,
		Description: c.Description,
		Icon:        icon,
		Color:       color,
	}
}

// NewPromptView 由数据库行构造提示词视图（需预加载 Category）
func NewPromptView(p *model.Prompt) PromptView {
	v := PromptView{
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Template:    p.Template,
		Category:    p.CategorySlug(),
		UseCase:     p.UseCase,
		Difficulty:  p.Difficulty,
		Tags:        []string(p.Tags),
		Featured:    p.Featured,
		CopyCount:   p.CopyCount,
	}
	if p.CoverImage != nil {
		v.CoverImage = *p.CoverImage
	}
	if v.Difficulty == "" {
		v.Difficulty = model.DifficultyBeginner
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return v
}

// OverviewResponse 首页聚合数据
type OverviewResponse struct {
	Categories      []CategoryView   `json:"categories"`
	FeaturedPrompts []PromptView     `json:"featuredPrompts"`
	FeaturedPosts   []model.BlogPost `json:"featuredPosts"`
}

// CopyResponse 复制计数结果
type CopyResponse struct {
	CopyCount int64 `json:"copyCount"`
}
