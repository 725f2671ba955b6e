package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"promptshelf/config"
	"promptshelf/internal/dto"
	"promptshelf/internal/metrics"
	"promptshelf/internal/model"
	"promptshelf/internal/repository"
)

// ErrCopyTrackingUnavailable 文件内容源不记录复制次数
var ErrCopyTrackingUnavailable = errors.New("当前内容源不支持复制计数")

// ContentService 内容读取与复制计数
type ContentService interface {
	ListCategories(ctx context.Context) ([]dto.CategoryView, error)
	ListPrompts(ctx context.Context, category string) ([]dto.PromptView, error)
	GetPrompt(ctx context.Context, slug string) (*dto.PromptView, error)
	ListPosts(ctx context.Context) ([]model.BlogPost, error)
	GetPost(ctx context.Context, slug string) (*model.BlogPost, error)
	// Overview 并发加载分类、精选提示词与精选文章
	Overview(ctx context.Context) (*dto.OverviewResponse, error)
	// RecordCopy 复制次数原子加一，返回新值
	RecordCopy(ctx context.Context, slug string) (int64, error)
}

type contentService struct {
	store      ContentStore
	repo       *repository.Repository
	copyTracks bool
	logger     *zap.Logger
}

// NewContentService 按 content.source 选择内容源
func NewContentService(
	cfg *config.ContentConfig,
	repo *repository.Repository,
	fsys afero.Fs,
	logger *zap.Logger,
) ContentService {
	files := NewFileContentStore(fsys, cfg.Dir)
	if cfg.Source == config.ContentSourceDatabase {
		return &contentService{
			store:      NewDBContentStore(repo, files),
			repo:       repo,
			copyTracks: true,
			logger:     logger,
		}
	}
	return &contentService{store: files, repo: repo, logger: logger}
}

func (s *contentService) ListCategories(ctx context.Context) ([]dto.CategoryView, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.Error("查询分类失败", zap.Error(err))
		return nil, err
	}
	return categories, nil
}

func (s *contentService) ListPrompts(ctx context.Context, category string) ([]dto.PromptView, error) {
	prompts, err := s.store.ListPrompts(ctx, category)
	if err != nil {
		s.logger.Error("查询提示词失败", zap.String("category", category), zap.Error(err))
		return nil, err
	}
	return prompts, nil
}

func (s *contentService) GetPrompt(ctx context.Context, slug string) (*dto.PromptView, error) {
	prompt, err := s.store.GetPrompt(ctx, slug)
	if err != nil && !errors.Is(err, ErrPromptNotFound) {
		s.logger.Error("查询提示词失败", zap.String("slug", slug), zap.Error(err))
	}
	return prompt, err
}

func (s *contentService) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		s.logger.Error("查询文章失败", zap.Error(err))
		return nil, err
	}
	return posts, nil
}

func (s *contentService) GetPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	post, err := s.store.GetPost(ctx, slug)
	if err != nil && !errors.Is(err, ErrPostNotFound) {
		s.logger.Error("查询文章失败", zap.String("slug", slug), zap.Error(err))
	}
	return post, err
}

func (s *contentService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	var out dto.OverviewResponse
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		categories, err := s.store.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("加载分类失败: %w", err)
		}
		out.Categories = categories
		return nil
	})

	g.Go(func() error {
		prompts, err := s.store.ListPrompts(gctx, "")
		if err != nil {
			return fmt.Errorf("加载提示词失败: %w", err)
		}
		out.FeaturedPrompts = make([]dto.PromptView, 0)
		for _, p := range prompts {
			if p.Featured {
				out.FeaturedPrompts = append(out.FeaturedPrompts, p)
			}
		}
		return nil
	})

	g.Go(func() error {
		posts, err := s.store.ListPosts(gctx)
		if err != nil {
			return fmt.Errorf("加载文章失败: %w", err)
		}
		out.FeaturedPosts = make([]model.BlogPost, 0)
		for _, p := range posts {
			if p.Featured {
				out.FeaturedPosts = append(out.FeaturedPosts, p)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("加载首页数据失败", zap.Error(err))
		return nil, err
	}
	return &out, nil
}

func (s *contentService) RecordCopy(ctx context.Context, slug string) (int64, error) {
	if !s.copyTracks {
		return 0, ErrCopyTrackingUnavailable
	}

	count, err := s.repo.Prompt.IncrementCopyCount(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPromptNotFound
		}
		s.logger.Error("更新复制次数失败", zap.String("slug", slug), zap.Error(err))
		return 0, fmt.Errorf("更新复制次数失败: %w", err)
	}

	metrics.PromptCopies.Inc()
	return count, nil
}
