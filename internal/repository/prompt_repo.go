package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"promptshelf/internal/model"
	pkgerrors "promptshelf/pkg/errors"
)

// PromptRepository 提示词与分类数据访问接口
type PromptRepository interface {
	ListCategories(ctx context.Context) ([]model.PromptCategory, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.PromptCategory, error)
	// ListPrompts categorySlug 为空时返回全部
	ListPrompts(ctx context.Context, categorySlug string) ([]model.Prompt, error)
	GetPromptBySlug(ctx context.Context, slug string) (*model.Prompt, error)
	// CreatePrompt slug 已存在时返回 pkgerrors.ErrDuplicateKey
	CreatePrompt(ctx context.Context, prompt *model.Prompt) error
	// IncrementCopyCount 原子自增复制次数并返回自增后的值；slug 不存在返回 gorm.ErrRecordNotFound
	IncrementCopyCount(ctx context.Context, slug string) (int64, error)
}

type promptRepo struct {
	db *gorm.DB
}

// NewPromptRepo 创建 PromptRepository 实例
func NewPromptRepo(db *gorm.DB) PromptRepository {
	return &promptRepo{db: db}
}

func (r *promptRepo) ListCategories(ctx context.Context) ([]model.PromptCategory, error) {
	var categories []model.PromptCategory
	err := r.db.WithContext(ctx).
		Order("display_order ASC, slug ASC").
		Find(&categories).Error
	return categories, err
}

func (r *promptRepo) GetCategoryBySlug(ctx context.Context, slug string) (*model.PromptCategory, error) {
	var category model.PromptCategory
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *promptRepo) ListPrompts(ctx context.Context, categorySlug string) ([]model.Prompt, error) {
	var prompts []model.Prompt
	db := r.db.WithContext(ctx).Preload("Category")

	if categorySlug != "" {
		db = db.Joins("JOIN prompt_categories ON prompt_categories.category_id = prompts.category_id").
			Where("prompt_categories.slug = ?", categorySlug)
	}

	err := db.Order("prompts.featured DESC, prompts.title ASC").Find(&prompts).Error
	return prompts, err
}

func (r *promptRepo) GetPromptBySlug(ctx context.Context, slug string) (*model.Prompt, error) {
	var prompt model.Prompt
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		First(&prompt).Error
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepo) CreatePrompt(ctx context.Context, prompt *model.Prompt) error {
	err := r.db.WithContext(ctx).Omit("Category").Create(prompt).Error
	if pkgerrors.IsDuplicateKey(err) {
		return fmt.Errorf("提示词 %s: %w", prompt.Slug, pkgerrors.ErrDuplicateKey)
	}
	return err
}

// IncrementCopyCount 使用 copy_count = copy_count + 1，避免读-改-写丢失更新
func (r *promptRepo) IncrementCopyCount(ctx context.Context, slug string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Prompt{}).
		Where("slug = ?", slug).
		UpdateColumn("copy_count", gorm.Expr("copy_count + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Prompt{}).
		Select("copy_count").
		Where("slug = ?", slug).
		Row().
		Scan(&count)
	return count, err
}
