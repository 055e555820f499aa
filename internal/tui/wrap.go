// Package tui provides the Bubble Tea trainer interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/koch/internal/score"
)

const wrongSpaceRune = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildTranscriptRunes styles the transcript being typed. The word under the
// cursor is highlighted and the cursor cell is rendered after the last rune.
func buildTranscriptRunes(input []rune, cursorIndex int) []styledRune {
	words := findWords(input)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(input)+1)
	for i, r := range input {
		style := typedStyle
		if r != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	if cursorIndex >= 0 && cursorIndex >= len(input) {
		out = append(out, styledRune{
			s:     cursorStyle.Render(" "),
			width: 1,
		})
	}
	return out
}

// buildDiffRunes styles a scored transcript cell by cell.
func buildDiffRunes(cells []score.Cell) []styledRune {
	out := make([]styledRune, 0, len(cells))
	for _, cell := range cells {
		displayed := cell.Rune
		style := correctStyle
		switch cell.Kind {
		case score.Mismatch:
			style = incorrectStyle
			if displayed == ' ' {
				displayed = wrongSpaceRune
			}
		case score.Missing:
			style = missingStyle
		case score.Extra:
			style = extraStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: cell.Rune == ' ' && cell.Kind == score.Match,
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(runes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range runes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(runes)})
	}
	return words
}

// wordForCursor returns the word the cursor sits in or directly after.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i := range words {
		if cursorIndex >= words[i].start && cursorIndex <= words[i].end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
