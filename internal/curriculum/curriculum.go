// Package curriculum holds the Koch character order and the Morse pattern map.
package curriculum

import (
	"errors"
	"fmt"
	"unicode"
)

// WordGap is the pattern returned for the space character. It is never
// broken into dots and dashes.
const WordGap = " "

const (
	// Dit is the short element in a pattern.
	Dit = '.'
	// Dah is the long element in a pattern.
	Dah = '-'
)

var (
	// ErrInvalidLesson indicates a lesson index outside 1..LessonCount.
	ErrInvalidLesson = errors.New("invalid lesson")
	// ErrUnknownCharacter indicates a character with no Morse pattern.
	ErrUnknownCharacter = errors.New("unknown character")
)

// sequence is the Koch order used by G4FON and most Koch trainers.
var sequence = []rune{
	'K', 'M', 'R', 'S', 'U', 'A', 'P', 'T', 'L', 'O',
	'W', 'I', '.', 'N', 'J', 'E', 'F', '0', 'Y', ',',
	'V', 'G', '5', '/', 'Q', '9', 'Z', 'H', '3', '8',
	'B', '?', '4', '2', '7', 'C', '1', 'D', '6', 'X',
}

var patterns = map[rune]string{
	'K': "-.-",
	'M': "--",
	'R': ".-.",
	'S': "...",
	'U': "..-",
	'A': ".-",
	'P': ".--.",
	'T': "-",
	'L': ".-..",
	'O': "---",
	'W': ".--",
	'I': "..",
	'.': ".-.-.-",
	'N': "-.",
	'J': ".---",
	'E': ".",
	'F': "..-.",
	'0': "-----",
	'Y': "-.--",
	',': "--..--",
	'V': "...-",
	'G': "--.",
	'5': ".....",
	'/': "-..-.",
	'Q': "--.-",
	'9': "----.",
	'Z': "--..",
	'H': "....",
	'3': "...--",
	'8': "---..",
	'B': "-...",
	'?': "..--..",
	'4': "....-",
	'2': "..---",
	'7': "--...",
	'C': "-.-.",
	'1': ".----",
	'D': "-..",
	'6': "-....",
	'X': "-..-",
	' ': WordGap,
}

// LessonCount returns the number of lessons, one per curriculum character.
func LessonCount() int {
	return len(sequence)
}

// Sequence returns a copy of the full Koch order.
func Sequence() []rune {
	out := make([]rune, len(sequence))
	copy(out, sequence)
	return out
}

// UnlockedAlphabet returns the characters available in the given 1-based
// lesson. Lesson 1 unlocks two characters since a single character cannot be
// drilled on its own.
func UnlockedAlphabet(lesson int) ([]rune, error) {
	if err := checkLesson(lesson); err != nil {
		return nil, err
	}
	n := lesson
	if n < 2 {
		n = 2
	}
	if n > len(sequence) {
		n = len(sequence)
	}
	out := make([]rune, n)
	copy(out, sequence[:n])
	return out, nil
}

// NewCharacters returns the character(s) introduced in the given lesson.
func NewCharacters(lesson int) ([]rune, error) {
	if err := checkLesson(lesson); err != nil {
		return nil, err
	}
	if lesson == 1 {
		return []rune{sequence[0], sequence[1]}, nil
	}
	return []rune{sequence[lesson-1]}, nil
}

// PatternOf returns the dot/dash pattern for r. Lookup is case-insensitive.
func PatternOf(r rune) (string, error) {
	p, ok := patterns[unicode.ToUpper(r)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCharacter, r)
	}
	return p, nil
}

func checkLesson(lesson int) error {
	if lesson < 1 || lesson > len(sequence) {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidLesson, lesson, len(sequence))
	}
	return nil
}
