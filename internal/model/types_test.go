package model

import (
	"reflect"
	"testing"
)

func TestScoreDataAppendAndHistory(t *testing.T) {
	var data ScoreData
	data.Append(3, 80)
	data.Append(3, 95)
	data.Append(1, 100)

	if got := data.History(3); !reflect.DeepEqual(got, []int{80, 95}) {
		t.Fatalf("unexpected history: %v", got)
	}
	if got := data.Lessons["3"]; len(got) != 2 {
		t.Fatalf("expected key %q to hold 2 scores, got %v", "3", got)
	}

	h := data.History(3)
	h[0] = 0
	if data.History(3)[0] != 80 {
		t.Fatalf("History must return a copy")
	}
	if got := data.History(7); len(got) != 0 {
		t.Fatalf("expected empty history, got %v", got)
	}
}

func TestLessonNumbers(t *testing.T) {
	data := ScoreData{Lessons: map[string][]int{
		"12":  {50},
		"2":   {90},
		"x":   {10},
		"0":   {10},
		"5":   {},
		"-1":  {20},
		"001": {30},
	}}
	got := data.LessonNumbers()
	want := []int{1, 2, 12}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LessonNumbers() = %v, want %v", got, want)
	}
}
