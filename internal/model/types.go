// Package model defines shared data structures.
package model

import (
	"sort"
	"strconv"
	"time"
)

// Settings defines trainer settings.
type Settings struct {
	CharWPM      int
	EffectiveWPM int
	ToneHz       float64
	SampleRate   int
	Mute         bool
}

// ScoreData maps a lesson key (the lesson number as a string) to its
// accuracy history, oldest first. Histories are append-only.
type ScoreData struct {
	Lessons map[string][]int
}

// LessonKey returns the external key for a lesson number.
func LessonKey(lesson int) string {
	return strconv.Itoa(lesson)
}

// Append records an accuracy for a lesson.
func (d *ScoreData) Append(lesson, accuracy int) {
	if d.Lessons == nil {
		d.Lessons = map[string][]int{}
	}
	key := LessonKey(lesson)
	d.Lessons[key] = append(d.Lessons[key], accuracy)
}

// History returns a copy of a lesson's accuracy history.
func (d ScoreData) History(lesson int) []int {
	h := d.Lessons[LessonKey(lesson)]
	out := make([]int, len(h))
	copy(out, h)
	return out
}

// LessonNumbers returns lessons that have at least one score, ascending.
// Keys that are not positive integers are ignored.
func (d ScoreData) LessonNumbers() []int {
	out := make([]int, 0, len(d.Lessons))
	for key, h := range d.Lessons {
		n, err := strconv.Atoi(key)
		if err != nil || n <= 0 || len(h) == 0 {
			continue
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// ScoreEntry is one stored accuracy.
type ScoreEntry struct {
	ID         int64
	Lesson     int
	Accuracy   int
	RecordedAt time.Time
}

// LessonSummary summarizes a lesson's accuracy history.
type LessonSummary struct {
	Lesson   int
	Attempts int
	Last     int
	Best     int
	Average  float64
	Mastered bool
}

// StatsConfig holds stats command filters.
type StatsConfig struct {
	// Lesson restricts curves to one lesson; 0 picks the most practiced.
	Lesson      int
	Last        int
	CurveWindow int
}
