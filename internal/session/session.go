// Package session implements the lesson-picking, typing and letter-drill
// state machine. It owns the live playback handle and the in-memory score
// history; rendering and key dispatch live elsewhere.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/koch/internal/audio"
	"github.com/verte-zerg/koch/internal/curriculum"
	"github.com/verte-zerg/koch/internal/generator"
	"github.com/verte-zerg/koch/internal/model"
	"github.com/verte-zerg/koch/internal/morse"
	"github.com/verte-zerg/koch/internal/score"
)

// ErrPersistence wraps score store failures. The score is still kept in
// memory when it is returned.
var ErrPersistence = errors.New("failed to persist score")

// Mode is the session state.
type Mode int

const (
	// PickingLesson is the lesson list.
	PickingLesson Mode = iota
	// TypingLesson plays lesson audio and collects a transcript.
	TypingLesson
	// LetterPractice plays the lesson's new characters for listening only.
	LetterPractice
)

func (m Mode) String() string {
	switch m {
	case PickingLesson:
		return "picking"
	case TypingLesson:
		return "typing"
	case LetterPractice:
		return "letters"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ScoreStore persists one accuracy for a lesson.
type ScoreStore interface {
	AppendScore(ctx context.Context, lesson, accuracy int) error
}

// Result is the outcome of the last submitted lesson.
type Result struct {
	Lesson   int
	Accuracy int
	Expected string
	Typed    string
	Diff     []score.Cell
}

// Session is not safe for concurrent use; events are applied one at a time.
type Session struct {
	settings model.Settings
	synth    *morse.Synthesizer
	gen      *generator.Generator
	sink     audio.Sink
	store    ScoreStore

	mode       Mode
	selected   int
	lessons    int
	practice   string
	letters    string
	transcript []rune
	scores     model.ScoreData
	last       *Result
	playback   audio.Handle
	done       bool
}

// New validates settings and prepares the synthesizer. Speed errors are
// fatal here: they are configuration mistakes, not transient conditions.
func New(settings model.Settings, gen *generator.Generator, sink audio.Sink, store ScoreStore, scores model.ScoreData) (*Session, error) {
	timing, err := morse.NewTiming(settings.CharWPM, settings.EffectiveWPM, settings.SampleRate)
	if err != nil {
		return nil, err
	}
	synth, err := morse.NewSynthesizer(timing, settings.ToneHz)
	if err != nil {
		return nil, err
	}
	if gen == nil {
		gen = generator.New()
	}
	if sink == nil {
		sink = audio.Silent{}
	}
	if scores.Lessons == nil {
		scores.Lessons = map[string][]int{}
	}
	return &Session{
		settings: settings,
		synth:    synth,
		gen:      gen,
		sink:     sink,
		store:    store,
		mode:     PickingLesson,
		lessons:  curriculum.LessonCount(),
		scores:   scores,
	}, nil
}

// Mode returns the current state.
func (s *Session) Mode() Mode { return s.mode }

// Selected returns the 0-based index of the highlighted lesson.
func (s *Session) Selected() int { return s.selected }

// Lesson returns the 1-based number of the highlighted lesson.
func (s *Session) Lesson() int { return s.selected + 1 }

// LessonCount returns the number of selectable lessons.
func (s *Session) LessonCount() int { return s.lessons }

// Settings returns the session settings.
func (s *Session) Settings() model.Settings { return s.settings }

// Practice returns the text of the lesson being typed, if any.
func (s *Session) Practice() string { return s.practice }

// Letters returns the text of the current letter drill, if any.
func (s *Session) Letters() string { return s.letters }

// Transcript returns the pending input.
func (s *Session) Transcript() string { return string(s.transcript) }

// LastResult returns the most recent submission, or nil.
func (s *Session) LastResult() *Result { return s.last }

// Done reports whether the session has quit.
func (s *Session) Done() bool { return s.done }

// History returns a copy of a lesson's accuracy history.
func (s *Session) History(lesson int) []int { return s.scores.History(lesson) }

// Move shifts the selection by delta, wrapping in both directions.
func (s *Session) Move(delta int) {
	if s.mode != PickingLesson || s.lessons == 0 {
		return
	}
	s.selected = ((s.selected+delta)%s.lessons + s.lessons) % s.lessons
}

// Select jumps to a 0-based lesson index, clamping out-of-range values.
func (s *Session) Select(index int) {
	if s.mode != PickingLesson {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= s.lessons {
		index = s.lessons - 1
	}
	s.selected = index
}

// StartLesson generates fresh lesson text, starts its audio and enters
// TypingLesson.
func (s *Session) StartLesson() error {
	if s.mode != PickingLesson {
		return nil
	}
	text, err := s.gen.Lesson(s.Lesson())
	if err != nil {
		return err
	}
	if err := s.play(text); err != nil {
		return err
	}
	s.practice = text
	s.transcript = nil
	s.last = nil
	s.mode = TypingLesson
	return nil
}

// StartLetterDrill plays the selected lesson's new characters and enters
// LetterPractice. The selection is kept.
func (s *Session) StartLetterDrill() error {
	if s.mode != PickingLesson {
		return nil
	}
	text, err := s.gen.Letters(s.Lesson())
	if err != nil {
		return err
	}
	if err := s.play(text); err != nil {
		return err
	}
	s.letters = text
	s.mode = LetterPractice
	return nil
}

// Type appends a rune to the transcript.
func (s *Session) Type(r rune) {
	if s.mode != TypingLesson {
		return
	}
	s.transcript = append(s.transcript, r)
}

// Backspace removes the last transcript rune.
func (s *Session) Backspace() {
	if s.mode != TypingLesson || len(s.transcript) == 0 {
		return
	}
	s.transcript = s.transcript[:len(s.transcript)-1]
}

// Submit scores the transcript, records it and returns to PickingLesson.
// A persistence failure is returned wrapped in ErrPersistence; the score
// stays in the in-memory history either way.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	if s.mode != TypingLesson {
		return Result{}, nil
	}
	lesson := s.Lesson()
	typed := strings.TrimSpace(string(s.transcript))
	res := Result{
		Lesson:   lesson,
		Accuracy: score.Score(s.practice, typed),
		Expected: s.practice,
		Typed:    typed,
		Diff:     score.Diff(s.practice, typed),
	}
	s.scores.Append(lesson, res.Accuracy)
	s.last = &res
	s.transcript = nil
	s.mode = PickingLesson

	if s.store != nil {
		if err := s.store.AppendScore(ctx, lesson, res.Accuracy); err != nil {
			return res, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}
	return res, nil
}

// Cancel stops audio and returns to PickingLesson without scoring.
func (s *Session) Cancel() {
	switch s.mode {
	case TypingLesson:
		s.stopPlayback()
		s.transcript = nil
		s.practice = ""
	case LetterPractice:
		s.stopPlayback()
		s.letters = ""
	default:
		return
	}
	s.mode = PickingLesson
}

// Quit stops audio and ends the session.
func (s *Session) Quit() {
	s.stopPlayback()
	s.done = true
}

// play synthesizes text and replaces the live playback.
func (s *Session) play(text string) error {
	buf := s.synth.Synthesize(text)
	s.stopPlayback()
	h, err := s.sink.Play(buf)
	if err != nil {
		return fmt.Errorf("play audio: %w", err)
	}
	s.playback = h
	return nil
}

func (s *Session) stopPlayback() {
	if s.playback == nil {
		return
	}
	s.playback.Stop()
	s.playback = nil
}
