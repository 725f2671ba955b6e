package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"promptshelf/config"
	"promptshelf/internal/model"
)

const testPromptsMeta = `{
  "categories": [
    {"slug": "video", "title": "Video", "description": "", "icon": "🎬", "color": "purple"},
    {"slug": "image", "title": "Image", "description": "", "icon": "🖼", "color": "blue"}
  ],
  "prompts": [
    {"slug": "zoom", "title": "Zoom shot", "template": "t", "category": "video", "difficulty": "beginner", "useCase": "", "description": ""},
    {"slug": "aerial", "title": "Aerial", "template": "t", "category": "video", "difficulty": "advanced", "featured": true, "tags": ["drone"]},
    {"slug": "portrait", "title": "Portrait", "template": "t", "category": "image", "difficulty": "intermediate"}
  ]
}`

const testPostsMeta = `{
  "posts": [
    {"slug": "old-news", "title": "Old", "author": "a", "readTime": "3 min", "category": "news", "publishDate": "2024-01-01"},
    {"slug": "fresh", "title": "Fresh", "author": "a", "readTime": "5 min", "category": "news", "publishDate": "2025-06-01", "featured": true},
    {"slug": "undated", "title": "Undated", "author": "a", "readTime": "1 min", "category": "news"}
  ]
}`

func newTestContentFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		filepath.Join("content", "prompts", "config", "prompts-meta.json"): testPromptsMeta,
		filepath.Join("content", "blog", "config", "posts-meta.json"):      testPostsMeta,
		filepath.Join("content", "blog", "posts", "fresh.md"):              "# Fresh\n\nbody",
	}
	for path, body := range files {
		if err := afero.WriteFile(fsys, path, []byte(body), 0o644); err != nil {
			t.Fatalf("写入 %s 失败: %v", path, err)
		}
	}
	return fsys
}

func setupFileContentService(t *testing.T) ContentService {
	repo, _, _ := newTestRepository()
	cfg := &config.ContentConfig{Source: config.ContentSourceFiles, Dir: "content"}
	return NewContentService(cfg, repo, newTestContentFs(t), zap.NewNop())
}

// ── 文件内容源 ──

func TestContentService_Files_ListPromptsSorted(t *testing.T) {
	svc := setupFileContentService(t)

	prompts, err := svc.ListPrompts(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPrompts 应成功: %v", err)
	}
	want := []string{"aerial", "portrait", "zoom"}
	if len(prompts) != len(want) {
		t.Fatalf("期望 %d 条，实际 %d", len(want), len(prompts))
	}
	for i, slug := range want {
		if prompts[i].Slug != slug {
			t.Errorf("第 %d 条期望 %s，实际 %s", i, slug, prompts[i].Slug)
		}
	}
	if prompts[2].Tags == nil {
		t.Error("缺省 tags 应为空切片")
	}
}

func TestContentService_Files_FilterByCategory(t *testing.T) {
	svc := setupFileContentService(t)

	prompts, _ := svc.ListPrompts(context.Background(), "image")
	if len(prompts) != 1 || prompts[0].Slug != "portrait" {
		t.Errorf("按分类过滤错误: %+v", prompts)
	}
}

func TestContentService_Files_GetPrompt(t *testing.T) {
	svc := setupFileContentService(t)

	p, err := svc.GetPrompt(context.Background(), "aerial")
	if err != nil || p.Difficulty != "advanced" {
		t.Fatalf("GetPrompt 错误: %+v %v", p, err)
	}
	if _, err := svc.GetPrompt(context.Background(), "missing"); !errors.Is(err, ErrPromptNotFound) {
		t.Errorf("期望 ErrPromptNotFound，实际: %v", err)
	}
}

func TestContentService_Files_PostsNewestFirst(t *testing.T) {
	svc := setupFileContentService(t)

	posts, err := svc.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts 应成功: %v", err)
	}
	if posts[0].Slug != "fresh" || posts[1].Slug != "old-news" || posts[2].Slug != "undated" {
		t.Errorf("文章顺序错误: %s %s %s", posts[0].Slug, posts[1].Slug, posts[2].Slug)
	}
}

func TestContentService_Files_GetPostWithBody(t *testing.T) {
	svc := setupFileContentService(t)
	ctx := context.Background()

	post, err := svc.GetPost(ctx, "fresh")
	if err != nil {
		t.Fatalf("GetPost 应成功: %v", err)
	}
	if post.Content != "# Fresh\n\nbody" {
		t.Errorf("正文应原样返回 Markdown，实际=%q", post.Content)
	}

	noBody, err := svc.GetPost(ctx, "old-news")
	if err != nil || noBody.Content != "" {
		t.Errorf("正文缺失时应只返回元数据: %+v %v", noBody, err)
	}

	if _, err := svc.GetPost(ctx, "nope"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("期望 ErrPostNotFound，实际: %v", err)
	}
}

func TestContentService_Files_MissingMetaIsEmpty(t *testing.T) {
	repo, _, _ := newTestRepository()
	cfg := &config.ContentConfig{Source: config.ContentSourceFiles, Dir: "content"}
	svc := NewContentService(cfg, repo, afero.NewMemMapFs(), zap.NewNop())

	categories, err := svc.ListCategories(context.Background())
	if err != nil || len(categories) != 0 {
		t.Errorf("缺少配置文件时应返回空列表: %v %v", categories, err)
	}
}

func TestContentService_Files_BrokenMeta(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, filepath.Join("content", "prompts", "config", "prompts-meta.json"), []byte("{"), 0o644)
	repo, _, _ := newTestRepository()
	svc := NewContentService(&config.ContentConfig{Source: config.ContentSourceFiles, Dir: "content"}, repo, fsys, zap.NewNop())

	if _, err := svc.ListPrompts(context.Background(), ""); err == nil {
		t.Error("损坏的 JSON 应返回错误")
	}
}

func TestContentService_Files_RecordCopyUnavailable(t *testing.T) {
	svc := setupFileContentService(t)

	if _, err := svc.RecordCopy(context.Background(), "aerial"); !errors.Is(err, ErrCopyTrackingUnavailable) {
		t.Errorf("期望 ErrCopyTrackingUnavailable，实际: %v", err)
	}
}

func TestContentService_Overview(t *testing.T) {
	svc := setupFileContentService(t)

	ov, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview 应成功: %v", err)
	}
	if len(ov.Categories) != 2 {
		t.Errorf("期望 2 个分类，实际 %d", len(ov.Categories))
	}
	if len(ov.FeaturedPrompts) != 1 || ov.FeaturedPrompts[0].Slug != "aerial" {
		t.Errorf("精选提示词错误: %+v", ov.FeaturedPrompts)
	}
	if len(ov.FeaturedPosts) != 1 || ov.FeaturedPosts[0].Slug != "fresh" {
		t.Errorf("精选文章错误: %+v", ov.FeaturedPosts)
	}
}

// ── 数据库内容源 ──

func setupDBContentService(t *testing.T) (ContentService, *mockPromptRepo) {
	repo, _, prompts := newTestRepository()
	cfg := &config.ContentConfig{Source: config.ContentSourceDatabase, Dir: "content"}
	return NewContentService(cfg, repo, newTestContentFs(t), zap.NewNop()), prompts
}

func TestContentService_DB_PromptsCarryCategorySlug(t *testing.T) {
	svc, prompts := setupDBContentService(t)
	video := prompts.addCategory("video", 1)
	_ = prompts.CreatePrompt(context.Background(), &model.Prompt{
		Slug: "pan", Title: "Pan", Template: "t", CategoryID: video.ID, Difficulty: "beginner",
	})

	got, err := svc.ListPrompts(context.Background(), "video")
	if err != nil || len(got) != 1 {
		t.Fatalf("ListPrompts 错误: %+v %v", got, err)
	}
	if got[0].Category != "video" {
		t.Errorf("期望分类 video，实际 %q", got[0].Category)
	}

	categories, _ := svc.ListCategories(context.Background())
	if len(categories) != 1 || categories[0].Icon != "✨" || categories[0].Color != "blue" {
		t.Errorf("分类缺省值错误: %+v", categories)
	}
}

func TestContentService_DB_PostsStillFromFiles(t *testing.T) {
	svc, _ := setupDBContentService(t)

	posts, err := svc.ListPosts(context.Background())
	if err != nil || len(posts) != 3 {
		t.Errorf("数据库模式下文章仍应读取文件: %d %v", len(posts), err)
	}
}

func TestContentService_DB_RecordCopy(t *testing.T) {
	svc, prompts := setupDBContentService(t)
	cat := prompts.addCategory("video", 1)
	_ = prompts.CreatePrompt(context.Background(), &model.Prompt{Slug: "copied", Title: "C", Template: "t", CategoryID: cat.ID})

	for want := int64(1); want <= 3; want++ {
		got, err := svc.RecordCopy(context.Background(), "copied")
		if err != nil || got != want {
			t.Fatalf("期望 copyCount=%d，实际=%d err=%v", want, got, err)
		}
	}

	if _, err := svc.RecordCopy(context.Background(), "ghost"); !errors.Is(err, ErrPromptNotFound) {
		t.Errorf("期望 ErrPromptNotFound，实际: %v", err)
	}
}

func TestContentService_DB_GetPromptNotFound(t *testing.T) {
	svc, _ := setupDBContentService(t)

	if _, err := svc.GetPrompt(context.Background(), "none"); !errors.Is(err, ErrPromptNotFound) {
		t.Errorf("期望 ErrPromptNotFound，实际: %v", err)
	}
}
