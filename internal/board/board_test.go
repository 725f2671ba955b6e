package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"promptshelf/internal/dto"
)

var base = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func view(code string, used int, updated time.Time) dto.InviteView {
	v := dto.InviteView{InviteCode: code, UpdatedAt: updated}
	flags := []*bool{&v.UsedOnce, &v.UsedTwice, &v.UsedThrice, &v.UsedFourth}
	for i := 0; i < used; i++ {
		*flags[i] = true
	}
	v.RemainingUses = 4 - used
	return v
}

func codes(rows []dto.InviteView) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.InviteCode
	}
	return out
}

func equalCodes(t *testing.T, got []dto.InviteView, want ...string) {
	t.Helper()
	g := codes(got)
	if len(g) != len(want) {
		t.Fatalf("期望顺序 %v，实际 %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("期望顺序 %v，实际 %v", want, g)
		}
	}
}

// ── Sort ──

func TestSort_RemainingUsesThenUpdatedAt(t *testing.T) {
	rows := []dto.InviteView{
		view("AAAAAA", 2, base.Add(time.Minute)),
		view("BBBBBB", 0, base),
		view("CCCCCC", 0, base.Add(time.Hour)),
		view("DDDDDD", 4, base.Add(2*time.Hour)),
	}
	Sort(rows)
	equalCodes(t, rows, "CCCCCC", "BBBBBB", "AAAAAA", "DDDDDD")
}

func TestSort_TieBreakByCode(t *testing.T) {
	rows := []dto.InviteView{
		view("ZZZ111", 1, base),
		view("AAA111", 1, base),
	}
	Sort(rows)
	equalCodes(t, rows, "AAA111", "ZZZ111")
}

// ── Reduce ──

func TestReduce_FlipsSlotAndResorts(t *testing.T) {
	state := []dto.InviteView{
		view("FIRST1", 0, base.Add(time.Hour)),
		view("SECOND", 0, base),
	}
	now := base.Add(2 * time.Hour)

	next := Reduce(state, SlotMarked{Code: "FIRST1", Slot: 1, At: now})

	equalCodes(t, next, "SECOND", "FIRST1")
	if !next[1].UsedOnce || next[1].RemainingUses != 3 || !next[1].UpdatedAt.Equal(now) {
		t.Errorf("FIRST1 未正确更新: %+v", next[1])
	}
	if state[0].UsedOnce {
		t.Error("Reduce 不应修改入参")
	}
}

func TestReduce_AlreadyUsedSlotIsNoop(t *testing.T) {
	state := []dto.InviteView{view("USED01", 1, base)}

	next := Reduce(state, SlotMarked{Code: "USED01", Slot: 1, At: base.Add(time.Hour)})

	if next[0].RemainingUses != 3 || !next[0].UpdatedAt.Equal(base) {
		t.Errorf("已使用的槽位不应再次变化: %+v", next[0])
	}
}

func TestReduce_UnknownCode(t *testing.T) {
	state := []dto.InviteView{view("KNOWN1", 0, base)}

	next := Reduce(state, SlotMarked{Code: "OTHER1", Slot: 2, At: base})

	if len(next) != 1 || next[0].RemainingUses != 4 {
		t.Errorf("未知邀请码不应影响列表: %+v", next)
	}
}

// ── Board ──

type markerFunc func(ctx context.Context, code string, slot int) error

func (f markerFunc) Mark(ctx context.Context, code string, slot int) error { return f(ctx, code, slot) }

func TestBoard_MarkSuccessUpdatesLocally(t *testing.T) {
	calls := 0
	b := New([]dto.InviteView{
		view("AAAAAA", 0, base),
		view("BBBBBB", 0, base.Add(time.Minute)),
	}, markerFunc(func(_ context.Context, _ string, _ int) error {
		calls++
		return nil
	}))
	b.now = func() time.Time { return base.Add(time.Hour) }

	if err := b.Mark(context.Background(), "BBBBBB", 2); err != nil {
		t.Fatalf("Mark 应成功: %v", err)
	}

	rows := b.Rows()
	equalCodes(t, rows, "AAAAAA", "BBBBBB")
	if !rows[1].UsedTwice || rows[1].RemainingUses != 3 {
		t.Errorf("BBBBBB 槽位 2 应被标记: %+v", rows[1])
	}
	if calls != 1 {
		t.Errorf("期望调用服务端 1 次，实际=%d", calls)
	}
}

func TestBoard_MarkFailureLeavesStateUntouched(t *testing.T) {
	wantErr := errors.New("already used")
	b := New([]dto.InviteView{view("AAAAAA", 0, base)}, markerFunc(func(_ context.Context, _ string, _ int) error {
		return wantErr
	}))

	if err := b.Mark(context.Background(), "AAAAAA", 1); !errors.Is(err, wantErr) {
		t.Fatalf("期望透传服务端错误，实际: %v", err)
	}
	if b.Rows()[0].RemainingUses != 4 {
		t.Error("失败时不应修改本地状态")
	}
	// 失败后应释放 busy 标记，下一次标记照常发往服务端
	if err := b.Mark(context.Background(), "AAAAAA", 1); errors.Is(err, ErrBusy) {
		t.Error("失败后应释放 busy 标记")
	}
}

func TestBoard_SecondMarkWhileInFlightIsRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	b := New([]dto.InviteView{view("AAAAAA", 0, base)}, markerFunc(func(_ context.Context, _ string, _ int) error {
		close(entered)
		<-release
		return nil
	}))

	done := make(chan error, 1)
	go func() { done <- b.Mark(context.Background(), "AAAAAA", 1) }()

	<-entered
	if err := b.Mark(context.Background(), "AAAAAA", 2); !errors.Is(err, ErrBusy) {
		t.Errorf("期望 ErrBusy，实际: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("首个 Mark 应成功: %v", err)
	}

	rows := b.Rows()
	if !rows[0].UsedOnce || rows[0].UsedTwice {
		t.Errorf("仅槽位 1 应被标记: %+v", rows[0])
	}
}
