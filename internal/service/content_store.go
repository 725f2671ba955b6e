package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gorm.io/gorm"

	"promptshelf/internal/dto"
	"promptshelf/internal/model"
	"promptshelf/internal/repository"
)

// ── 内容模块业务错误 ──

var (
	ErrPromptNotFound = errors.New("提示词不存在")
	ErrPostNotFound   = errors.New("文章不存在")
)

// ContentStore 只读内容来源
type ContentStore interface {
	ListCategories(ctx context.Context) ([]dto.CategoryView, error)
	// ListPrompts category 为空时返回全部；精选在前，其余按标题排序
	ListPrompts(ctx context.Context, category string) ([]dto.PromptView, error)
	GetPrompt(ctx context.Context, slug string) (*dto.PromptView, error)
	// ListPosts 按发布日期倒序
	ListPosts(ctx context.Context) ([]model.BlogPost, error)
	// GetPost 附带原始 Markdown 正文
	GetPost(ctx context.Context, slug string) (*model.BlogPost, error)
}

// ═══════════════════════════════════════════════════════════
// 文件内容源
// ═══════════════════════════════════════════════════════════
//
// 目录结构：
//   <dir>/prompts/config/prompts-meta.json  {categories, prompts}
//   <dir>/blog/config/posts-meta.json       {posts}
//   <dir>/blog/posts/<slug>.md

type promptsMeta struct {
	Categories []dto.CategoryView `json:"categories"`
	Prompts    []dto.PromptView   `json:"prompts"`
}

type postsMeta struct {
	Posts []model.BlogPost `json:"posts"`
}

type fileContentStore struct {
	fs  afero.Fs
	dir string
}

// NewFileContentStore 基于 afero.Fs 的内容源
func NewFileContentStore(fsys afero.Fs, dir string) ContentStore {
	return &fileContentStore{fs: fsys, dir: dir}
}

// readJSON 文件不存在时保持 out 为零值
func (s *fileContentStore) readJSON(rel string, out interface{}) error {
	path := filepath.Join(s.dir, rel)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	return nil
}

func (s *fileContentStore) loadPrompts() (*promptsMeta, error) {
	var meta promptsMeta
	if err := s.readJSON(filepath.Join("prompts", "config", "prompts-meta.json"), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *fileContentStore) ListCategories(_ context.Context) ([]dto.CategoryView, error) {
	meta, err := s.loadPrompts()
	if err != nil {
		return nil, err
	}
	if meta.Categories == nil {
		return []dto.CategoryView{}, nil
	}
	return meta.Categories, nil
}

func (s *fileContentStore) ListPrompts(_ context.Context, category string) ([]dto.PromptView, error) {
	meta, err := s.loadPrompts()
	if err != nil {
		return nil, err
	}

	prompts := make([]dto.PromptView, 0, len(meta.Prompts))
	for _, p := range meta.Prompts {
		if category != "" && p.Category != category {
			continue
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		prompts = append(prompts, p)
	}
	sort.SliceStable(prompts, func(i, j int) bool {
		if prompts[i].Featured != prompts[j].Featured {
			return prompts[i].Featured
		}
		return strings.ToLower(prompts[i].Title) < strings.ToLower(prompts[j].Title)
	})
	return prompts, nil
}

func (s *fileContentStore) GetPrompt(ctx context.Context, slug string) (*dto.PromptView, error) {
	prompts, err := s.ListPrompts(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range prompts {
		if prompts[i].Slug == slug {
			return &prompts[i], nil
		}
	}
	return nil, ErrPromptNotFound
}

func (s *fileContentStore) ListPosts(_ context.Context) ([]model.BlogPost, error) {
	var meta postsMeta
	if err := s.readJSON(filepath.Join("blog", "config", "posts-meta.json"), &meta); err != nil {
		return nil, err
	}
	posts := meta.Posts
	if posts == nil {
		posts = []model.BlogPost{}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return parsePublishDate(posts[i].PublishDate).After(parsePublishDate(posts[j].PublishDate))
	})
	return posts, nil
}

func (s *fileContentStore) GetPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	posts, err := s.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	var post *model.BlogPost
	for i := range posts {
		if posts[i].Slug == slug {
			post = &posts[i]
			break
		}
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	// 正文缺失时只返回元数据
	body, err := afero.ReadFile(s.fs, filepath.Join(s.dir, "blog", "posts", slug+".md"))
	switch {
	case err == nil:
		post.Content = string(body)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("读取文章正文失败: %w", err)
	}
	return post, nil
}

// parsePublishDate 无法解析的日期排在最后
func parsePublishDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ═══════════════════════════════════════════════════════════
// 数据库内容源（分类与提示词来自数据库，博客仍读文件）
// ═══════════════════════════════════════════════════════════

type dbContentStore struct {
	repo  *repository.Repository
	posts ContentStore
}

// NewDBContentStore 分类与提示词读数据库，文章委托给 posts
func NewDBContentStore(repo *repository.Repository, posts ContentStore) ContentStore {
	return &dbContentStore{repo: repo, posts: posts}
}

func (s *dbContentStore) ListCategories(ctx context.Context) ([]dto.CategoryView, error) {
	rows, err := s.repo.Prompt.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryView, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewCategoryView(&rows[i]))
	}
	return out, nil
}

func (s *dbContentStore) ListPrompts(ctx context.Context, category string) ([]dto.PromptView, error) {
	rows, err := s.repo.Prompt.ListPrompts(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PromptView, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewPromptView(&rows[i]))
	}
	return out, nil
}

func (s *dbContentStore) GetPrompt(ctx context.Context, slug string) (*dto.PromptView, error) {
	row, err := s.repo.Prompt.GetPromptBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}
	view := dto.NewPromptView(row)
	return &view, nil
}

func (s *dbContentStore) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	return s.posts.ListPosts(ctx)
}

func (s *dbContentStore) GetPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	return s.posts.GetPost(ctx, slug)
}
