package stats

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/verte-zerg/koch/internal/model"
)

func TestSummarize(t *testing.T) {
	s := Summarize(3, []int{70, 95, 88})
	if s.Lesson != 3 || s.Attempts != 3 || s.Last != 88 || s.Best != 95 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Average != float64(70+95+88)/3 {
		t.Fatalf("unexpected average: %v", s.Average)
	}
	if s.Mastered {
		t.Fatalf("lesson with last score 88 must not be mastered")
	}
	if !Summarize(1, []int{90}).Mastered {
		t.Fatalf("last score of 90 should count as mastered")
	}
	if empty := Summarize(5, nil); empty.Attempts != 0 || empty.Mastered {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestSummariesAndSelection(t *testing.T) {
	data := model.ScoreData{Lessons: map[string][]int{
		"1": {100, 95},
		"2": {40, 60, 70},
		"3": {85},
		"5": {10, 91},
	}}
	summaries := Summaries(data)
	if len(summaries) != 4 || summaries[0].Lesson != 1 || summaries[3].Lesson != 5 {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
	if got := HighestMastered(summaries); got != 5 {
		t.Fatalf("HighestMastered() = %d, want 5", got)
	}
	if got := SelectWeakLessons(summaries, 0); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Fatalf("SelectWeakLessons() = %v", got)
	}
	if got := SelectWeakLessons(summaries, 1); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("SelectWeakLessons(top=1) = %v", got)
	}
	if got := MostPracticed(summaries, 2); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Fatalf("MostPracticed() = %v", got)
	}
	if got := MostPracticed(nil, 2); got != nil {
		t.Fatalf("expected nil for no summaries, got %v", got)
	}
}

func TestLastN(t *testing.T) {
	h := []int{1, 2, 3, 4}
	if got := LastN(h, 2); !reflect.DeepEqual(got, []int{3, 4}) {
		t.Fatalf("LastN(2) = %v", got)
	}
	if got := LastN(h, 0); !reflect.DeepEqual(got, h) {
		t.Fatalf("LastN(0) = %v", got)
	}
	got := LastN(h, 10)
	got[0] = 9
	if h[0] != 1 {
		t.Fatalf("LastN must copy")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MovingAverage() = %v, want %v", got, want)
	}
}

func TestPercentSparkline(t *testing.T) {
	if got := PercentSparkline([]int{0, 100, 50, 120}); got != " @+@" {
		t.Fatalf("PercentSparkline() = %q", got)
	}
	if got := Sparkline([]float64{5, 5}); got != "++" {
		t.Fatalf("Sparkline() flat = %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No scores found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}

	buf.Reset()
	summaries := []model.LessonSummary{
		Summarize(1, []int{92}),
		Summarize(2, []int{50, 60}),
	}
	if err := RenderSummary(&buf, summaries); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Lessons practiced: 2", "Attempts: 3", "Highest mastered lesson: 1", "Mastered", "55.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, 4, nil, 3); err != nil {
		t.Fatalf("RenderHistory failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No scores for lesson 4.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	if err := RenderHistoryWithSize(&buf, 4, []int{50, 70, 95}, 2, 40, 6, false); err != nil {
		t.Fatalf("RenderHistory failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Lesson 4", "Fixed scale 0-100%.", "Accuracy", "Avg(2)", "Mastery"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "min=") {
		t.Fatalf("fixed scale plot should not print per-series ranges")
	}
}
