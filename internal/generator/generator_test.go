package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/koch/internal/curriculum"
)

func TestLessonShape(t *testing.T) {
	gen := NewWithSeed(1)
	for lesson := 1; lesson <= curriculum.LessonCount(); lesson++ {
		text, err := gen.Lesson(lesson)
		if err != nil {
			t.Fatalf("lesson %d: %v", lesson, err)
		}
		alphabet, _ := curriculum.UnlockedAlphabet(lesson)
		allowed := map[rune]bool{}
		for _, r := range alphabet {
			allowed[r] = true
		}
		words := strings.Split(text, " ")
		if len(words) != WordsPerLesson {
			t.Fatalf("lesson %d: expected %d words, got %d (%q)", lesson, WordsPerLesson, len(words), text)
		}
		for _, w := range words {
			if len([]rune(w)) != WordLength {
				t.Fatalf("lesson %d: word %q has wrong length", lesson, w)
			}
			for _, r := range w {
				if !allowed[r] {
					t.Fatalf("lesson %d: character %q not unlocked", lesson, r)
				}
			}
		}
	}
}

func TestLessonReproducible(t *testing.T) {
	a, err := NewWithSeed(42).Lesson(10)
	if err != nil {
		t.Fatalf("lesson: %v", err)
	}
	b, err := NewWithSeed(42).Lesson(10)
	if err != nil {
		t.Fatalf("lesson: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical text for identical seeds, got %q and %q", a, b)
	}
}

func TestLessonInvalid(t *testing.T) {
	if _, err := New().Lesson(0); !errors.Is(err, curriculum.ErrInvalidLesson) {
		t.Fatalf("expected invalid lesson error, got %v", err)
	}
}

func TestLetters(t *testing.T) {
	gen := NewWithSeed(1)
	got, err := gen.Letters(1)
	if err != nil {
		t.Fatalf("letters: %v", err)
	}
	if got != "KKKKK MMMMM" {
		t.Fatalf("unexpected lesson 1 drill: %q", got)
	}
	got, err = gen.Letters(3)
	if err != nil {
		t.Fatalf("letters: %v", err)
	}
	if got != "RRRRR" {
		t.Fatalf("unexpected lesson 3 drill: %q", got)
	}
}
