package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "koch", "koch.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestLoadEmpty(t *testing.T) {
	st := openTestStore(t)
	data, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Lessons) != 0 {
		t.Fatalf("expected empty data, got %+v", data.Lessons)
	}
}

func TestAppendAndLoad(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, s := range []struct{ lesson, acc int }{{1, 40}, {2, 70}, {1, 95}} {
		if err := st.AppendScore(ctx, s.lesson, s.acc); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	data, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := data.History(1); len(got) != 2 || got[0] != 40 || got[1] != 95 {
		t.Fatalf("unexpected lesson 1 history: %v", got)
	}
	if got := data.Lessons["2"]; len(got) != 1 || got[0] != 70 {
		t.Fatalf("unexpected lesson 2 history: %v", got)
	}
}

func TestAppendRejectsOutOfRange(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.AppendScore(ctx, 0, 50); err == nil {
		t.Fatalf("expected error for lesson 0")
	}
	if err := st.AppendScore(ctx, 1, 101); err == nil {
		t.Fatalf("expected error for accuracy 101")
	}
}

func TestDeleteScoresKeepsOtherLessons(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	st.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Hour)
	}
	for _, s := range []struct{ lesson, acc int }{{2, 70}, {1, 40}, {2, 85}, {1, 95}} {
		if err := st.AppendScore(ctx, s.lesson, s.acc); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	before, err := st.ListScores(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	st.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	removed, err := st.DeleteScores(ctx, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 rows removed, got %d", removed)
	}

	after, err := st.ListScores(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("expected %d entries left, got %+v", len(before), after)
	}
	for i := range after {
		if after[i].ID != before[i].ID || !after[i].RecordedAt.Equal(before[i].RecordedAt) || after[i].Accuracy != before[i].Accuracy {
			t.Fatalf("lesson 2 entry %d changed: before %+v after %+v", i, before[i], after[i])
		}
	}
}

func TestDeleteScoresAll(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, lesson := range []int{1, 3, 3} {
		if err := st.AppendScore(ctx, lesson, 50); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	removed, err := st.DeleteScores(ctx, 0)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 rows removed, got %d", removed)
	}
	data, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Lessons) != 0 {
		t.Fatalf("expected empty data, got %+v", data.Lessons)
	}
}

func TestListScores(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	st.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	ctx := context.Background()
	for _, acc := range []int{50, 60} {
		if err := st.AppendScore(ctx, 4, acc); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := st.AppendScore(ctx, 2, 99); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := st.ListScores(ctx, 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Accuracy != 50 || entries[1].Accuracy != 60 {
		t.Fatalf("unexpected order: %+v", entries)
	}
	if !entries[0].RecordedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected timestamp: %v", entries[0].RecordedAt)
	}

	all, err := st.ListScores(ctx, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
}
