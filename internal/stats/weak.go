package stats

import (
	"sort"

	"github.com/verte-zerg/koch/internal/model"
)

// SelectWeakLessons returns unmastered lessons, lowest average accuracy first.
func SelectWeakLessons(summaries []model.LessonSummary, top int) []int {
	candidates := make([]model.LessonSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.Attempts == 0 || s.Mastered {
			continue
		}
		candidates = append(candidates, s)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Average == candidates[j].Average {
			return candidates[i].Lesson < candidates[j].Lesson
		}
		return candidates[i].Average < candidates[j].Average
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]int, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, candidates[i].Lesson)
	}
	return out
}
