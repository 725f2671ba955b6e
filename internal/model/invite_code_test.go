package model

import "testing"

func TestInviteCode_RemainingUses(t *testing.T) {
	c := &InviteCode{Code: "ABC123"}
	if got := c.RemainingUses(); got != 4 {
		t.Errorf("期望剩余 4 次，实际=%d", got)
	}

	c.UsedOnce = true
	c.UsedFourth = true
	if got := c.RemainingUses(); got != 2 {
		t.Errorf("期望剩余 2 次，实际=%d", got)
	}
	if got := c.UsedSlots(); got != 2 {
		t.Errorf("期望已用 2 次，实际=%d", got)
	}
}

func TestSlotColumn(t *testing.T) {
	want := map[int]string{1: "used_once", 2: "used_twice", 3: "used_thrice", 4: "used_fourth"}
	for slot, col := range want {
		got, ok := SlotColumn(slot)
		if !ok || got != col {
			t.Errorf("SlotColumn(%d)=%q,%v，期望 %q", slot, got, ok, col)
		}
	}
	for _, slot := range []int{-1, 0, 5, 100} {
		if _, ok := SlotColumn(slot); ok {
			t.Errorf("SlotColumn(%d) 应返回 ok=false", slot)
		}
	}
}

func TestStringList_RoundTrip(t *testing.T) {
	v, err := StringList{"sora", "video"}.Value()
	if err != nil {
		t.Fatalf("Value 失败: %v", err)
	}

	var l StringList
	if err := l.Scan(v); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if len(l) != 2 || l[0] != "sora" || l[1] != "video" {
		t.Errorf("期望 [sora video]，实际=%v", l)
	}

	nilVal, _ := StringList(nil).Value()
	if nilVal != "[]" {
		t.Errorf("nil 应存为 []，实际=%v", nilVal)
	}
}
