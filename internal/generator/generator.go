// Package generator builds Koch lesson text.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/koch/internal/curriculum"
)

const (
	// WordsPerLesson is the number of groups in a lesson text.
	WordsPerLesson = 10
	// WordLength is the number of characters in each group.
	WordLength = 5
)

// Generator produces randomized lesson text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Lesson returns ten five-character groups drawn uniformly, with replacement,
// from the alphabet unlocked at the given lesson.
func (g *Generator) Lesson(lesson int) (string, error) {
	alphabet, err := curriculum.UnlockedAlphabet(lesson)
	if err != nil {
		return "", err
	}
	words := make([]string, 0, WordsPerLesson)
	for i := 0; i < WordsPerLesson; i++ {
		word := make([]rune, WordLength)
		for j := range word {
			word[j] = alphabet[g.rnd.Intn(len(alphabet))]
		}
		words = append(words, string(word))
	}
	return strings.Join(words, " "), nil
}

// Letters returns a listening drill for the characters new in the lesson:
// one group per character, the character repeated WordLength times.
func (g *Generator) Letters(lesson int) (string, error) {
	chars, err := curriculum.NewCharacters(lesson)
	if err != nil {
		return "", err
	}
	groups := make([]string, 0, len(chars))
	for _, ch := range chars {
		groups = append(groups, strings.Repeat(string(ch), WordLength))
	}
	return strings.Join(groups, " "), nil
}
