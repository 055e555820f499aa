// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/koch/internal/model"
	"github.com/verte-zerg/koch/internal/score"
)

const sparkChars = " .:-=+*#%@"

var summaryColumns = []column{
	{header: "Lesson", right: true},
	{header: "Attempts", right: true},
	{header: "Last", right: true},
	{header: "Best", right: true},
	{header: "Avg", right: true},
	{header: "Mastered"},
}

// Summarize computes the summary of one lesson's accuracy history.
func Summarize(lesson int, history []int) model.LessonSummary {
	s := model.LessonSummary{Lesson: lesson, Attempts: len(history)}
	if len(history) == 0 {
		return s
	}
	var sum int
	for _, acc := range history {
		sum += acc
		if acc > s.Best {
			s.Best = acc
		}
	}
	s.Last = history[len(history)-1]
	s.Average = float64(sum) / float64(len(history))
	s.Mastered = s.Last >= score.MasteryThreshold
	return s
}

// Summaries returns one summary per practiced lesson, ascending by lesson.
func Summaries(data model.ScoreData) []model.LessonSummary {
	lessons := data.LessonNumbers()
	out := make([]model.LessonSummary, 0, len(lessons))
	for _, lesson := range lessons {
		out = append(out, Summarize(lesson, data.History(lesson)))
	}
	return out
}

// HighestMastered returns the highest lesson whose last score reached mastery, or 0.
func HighestMastered(summaries []model.LessonSummary) int {
	best := 0
	for _, s := range summaries {
		if s.Mastered && s.Lesson > best {
			best = s.Lesson
		}
	}
	return best
}

// LastN returns the trailing n values of history; n <= 0 keeps everything.
func LastN(history []int, n int) []int {
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]int, len(history))
	copy(out, history)
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// PercentSparkline renders accuracies on a fixed 0-100 scale.
func PercentSparkline(history []int) string {
	var b strings.Builder
	for _, acc := range history {
		idx := int(math.Round(float64(clampPercent(acc)) / 100 * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// RenderSummary prints a per-lesson summary table.
func RenderSummary(w io.Writer, summaries []model.LessonSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No scores found.")
		return err
	}
	attempts := 0
	for _, s := range summaries {
		attempts += s.Attempts
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Lessons practiced: %d\n", len(summaries)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Highest mastered lesson: %s\n", lessonLabel(HighestMastered(summaries))); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		mastered := "no"
		if s.Mastered {
			mastered = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Lesson),
			fmt.Sprintf("%d", s.Attempts),
			fmt.Sprintf("%d%%", s.Last),
			fmt.Sprintf("%d%%", s.Best),
			fmt.Sprintf("%.1f%%", s.Average),
			mastered,
		})
	}
	for _, line := range textTable(summaryColumns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func lessonLabel(lesson int) string {
	if lesson <= 0 {
		return "none"
	}
	return fmt.Sprintf("%d", lesson)
}

// RenderHistory prints a lesson's accuracy curve against the mastery line.
func RenderHistory(w io.Writer, lesson int, history []int, window int) error {
	return RenderHistoryWithSize(w, lesson, history, window, 0, 10, false)
}

// RenderHistoryWithSize prints a lesson's accuracy curve sized to a given total width.
func RenderHistoryWithSize(w io.Writer, lesson int, history []int, window, totalWidth, height int, useColor bool) error {
	if len(history) == 0 {
		_, err := fmt.Fprintf(w, "No scores for lesson %d.\n", lesson)
		return err
	}
	acc := make([]float64, len(history))
	for i, v := range history {
		acc[i] = float64(v)
	}
	curves := []Curve{{Name: "Accuracy", Values: acc}}
	if window > 1 {
		curves = append(curves, Curve{Name: fmt.Sprintf("Avg(%d)", window), Values: MovingAverage(acc, window)})
	}

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotAccuracy(w, fmt.Sprintf("Lesson %d", lesson), curves, width, height, useColor)
}
