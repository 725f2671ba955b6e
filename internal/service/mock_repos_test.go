package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"promptshelf/internal/dto"
	"promptshelf/internal/model"
	"promptshelf/internal/repository"
	pkgerrors "promptshelf/pkg/errors"
)

// ── Mock InviteCodeRepository ──
// 用互斥锁模拟存储层的原子条件更新

type mockInviteCodeRepo struct {
	mu       sync.Mutex
	codes    map[string]*model.InviteCode
	countErr error
	markErr  error
	now      time.Time
}

func newMockInviteCodeRepo() *mockInviteCodeRepo {
	return &mockInviteCodeRepo{
		codes: make(map[string]*model.InviteCode),
		now:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockInviteCodeRepo) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *mockInviteCodeRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.codes)), nil
}

func (m *mockInviteCodeRepo) Create(_ context.Context, code *model.InviteCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[code.Code]; ok {
		return fmt.Errorf("邀请码 %s: %w", code.Code, pkgerrors.ErrDuplicateKey)
	}
	now := m.tick()
	code.CreatedAt, code.UpdatedAt = now, now
	stored := *code
	m.codes[code.Code] = &stored
	return nil
}

func (m *mockInviteCodeRepo) MarkSlot(_ context.Context, code string, slot int) (bool, error) {
	if _, ok := model.SlotColumn(slot); !ok {
		return false, repository.ErrInvalidSlot
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return false, m.markErr
	}
	row, ok := m.codes[code]
	if !ok {
		return false, nil
	}
	flags := []*bool{&row.UsedOnce, &row.UsedTwice, &row.UsedThrice, &row.UsedFourth}
	if *flags[slot-1] {
		return false, nil
	}
	*flags[slot-1] = true
	row.UpdatedAt = m.tick()
	return true, nil
}

func (m *mockInviteCodeRepo) Exists(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.codes[code]
	return ok, nil
}

func (m *mockInviteCodeRepo) GetByCode(_ context.Context, code string) (*model.InviteCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.codes[code]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteCodeRepo) List(_ context.Context) ([]model.InviteCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.InviteCode, 0, len(m.codes))
	for _, row := range m.codes {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// fill 直接写入 n 条记录（容量测试使用）
func (m *mockInviteCodeRepo) fill(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		code := fmt.Sprintf("F%05d", i)
		m.codes[code] = &model.InviteCode{Code: code}
	}
}

// ── Mock PromptRepository ──

type mockPromptRepo struct {
	mu         sync.Mutex
	categories map[string]*model.PromptCategory
	prompts    map[string]*model.Prompt
	nextID     uint
}

func newMockPromptRepo() *mockPromptRepo {
	return &mockPromptRepo{
		categories: make(map[string]*model.PromptCategory),
		prompts:    make(map[string]*model.Prompt),
	}
}

func (m *mockPromptRepo) addCategory(slug string, order int) *model.PromptCategory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c := &model.PromptCategory{ID: m.nextID, Slug: slug, Title: slug, DisplayOrder: order}
	m.categories[slug] = c
	return c
}

func (m *mockPromptRepo) ListCategories(_ context.Context) ([]model.PromptCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PromptCategory
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *mockPromptRepo) GetCategoryBySlug(_ context.Context, slug string) (*model.PromptCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.categories[slug]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPromptRepo) ListPrompts(_ context.Context, categorySlug string) ([]model.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Prompt
	for _, p := range m.prompts {
		if categorySlug != "" && p.CategorySlug() != categorySlug {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (m *mockPromptRepo) GetPromptBySlug(_ context.Context, slug string) (*model.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.prompts[slug]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPromptRepo) CreatePrompt(_ context.Context, prompt *model.Prompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.prompts[prompt.Slug]; ok {
		return fmt.Errorf("提示词 %s: %w", prompt.Slug, pkgerrors.ErrDuplicateKey)
	}
	if prompt.Category == nil {
		for _, c := range m.categories {
			if c.ID == prompt.CategoryID {
				prompt.Category = c
			}
		}
	}
	m.nextID++
	prompt.PromptID = m.nextID
	stored := *prompt
	m.prompts[prompt.Slug] = &stored
	return nil
}

func (m *mockPromptRepo) IncrementCopyCount(_ context.Context, slug string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prompts[slug]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	p.CopyCount++
	return p.CopyCount, nil
}

// ── 测试辅助 ──

var errStoreDown = errors.New("connection refused")

func newTestRepository() (*repository.Repository, *mockInviteCodeRepo, *mockPromptRepo) {
	invites := newMockInviteCodeRepo()
	prompts := newMockPromptRepo()
	return &repository.Repository{InviteCode: invites, Prompt: prompts}, invites, prompts
}

// ── Mock InviteService ──

type failingInviteService struct {
	InviteService
}

func (failingInviteService) List(_ context.Context) (*dto.InviteBoardResponse, error) {
	return nil, errStoreDown
}
