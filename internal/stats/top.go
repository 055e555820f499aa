// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/koch/internal/model"
)

// MostPracticed returns the n lessons with the most attempts.
func MostPracticed(summaries []model.LessonSummary, n int) []int {
	if n <= 0 || len(summaries) == 0 {
		return nil
	}
	items := make([]model.LessonSummary, len(summaries))
	copy(items, summaries)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Attempts == items[j].Attempts {
			return items[i].Lesson < items[j].Lesson
		}
		return items[i].Attempts > items[j].Attempts
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].Lesson)
	}
	return out
}
