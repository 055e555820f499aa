// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/koch/internal/model"
	"github.com/verte-zerg/koch/internal/store"
)

const defaultCurveLessons = 3

// Report contains precomputed data for stats rendering.
type Report struct {
	Data         model.ScoreData
	Summaries    []model.LessonSummary
	CurveLessons []int
	// Entries holds timestamped scores for cfg.Lesson; empty when no lesson is selected.
	Entries []model.ScoreEntry
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	data, err := st.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	summaries := Summaries(data)

	report := Report{
		Data:      data,
		Summaries: summaries,
	}
	if cfg.Lesson > 0 {
		entries, err := st.ListScores(ctx, cfg.Lesson)
		if err != nil {
			return Report{}, err
		}
		report.Entries = entries
		report.CurveLessons = []int{cfg.Lesson}
		return report, nil
	}
	report.CurveLessons = MostPracticed(summaries, defaultCurveLessons)
	return report, nil
}

// History returns a lesson's history limited to the last cfg.Last attempts.
func (r Report) History(lesson int, cfg model.StatsConfig) []int {
	return LastN(r.Data.History(lesson), cfg.Last)
}
