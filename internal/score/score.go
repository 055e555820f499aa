// Package score grades a typed transcription against lesson text.
package score

import (
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// MasteryThreshold is the accuracy at which a lesson counts as learned.
const MasteryThreshold = 90

// Score returns the accuracy of typed against expected as an integer
// percentage. Comparison is case-insensitive and based on the Levenshtein
// distance normalized by the longer string. Two empty strings score 0.
func Score(expected, typed string) int {
	exp := fold(expected)
	got := fold(typed)
	m := utf8.RuneCountInString(exp)
	if n := utf8.RuneCountInString(got); n > m {
		m = n
	}
	if m == 0 {
		return 0
	}
	d := levenshtein.Distance(got, exp, nil)
	return (m - d) * 100 / m
}

// Kind classifies a diff cell.
type Kind int

const (
	// Match is a typed rune equal to the expected one.
	Match Kind = iota
	// Mismatch is a typed rune that differs from the expected one.
	Mismatch
	// Missing is an expected rune past the end of the transcription.
	Missing
	// Extra is a typed rune past the end of the expected text.
	Extra
)

// Cell is one position of a character-aligned diff.
type Cell struct {
	Rune rune
	Kind Kind
}

// Diff aligns typed and expected position by position for highlighting.
// It does not affect Score.
func Diff(expected, typed string) []Cell {
	exp := []rune(fold(expected))
	got := []rune(fold(typed))
	n := len(exp)
	if len(got) > n {
		n = len(got)
	}
	cells := make([]Cell, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(got):
			cells = append(cells, Cell{Rune: exp[i], Kind: Missing})
		case i >= len(exp):
			cells = append(cells, Cell{Rune: got[i], Kind: Extra})
		case got[i] == exp[i]:
			cells = append(cells, Cell{Rune: got[i], Kind: Match})
		default:
			cells = append(cells, Cell{Rune: got[i], Kind: Mismatch})
		}
	}
	return cells
}

func fold(s string) string {
	return strings.ToUpper(s)
}
