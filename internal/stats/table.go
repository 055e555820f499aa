package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type column struct {
	header string
	right  bool
}

// textTable pads every cell to the widest entry of its column. Right-aligned
// columns hold numbers and percentages.
func textTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	headers := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, c := range cols {
		headers[i] = c.header
		widths[i] = runewidth.StringWidth(c.header)
	}
	for _, row := range rows {
		for i := 0; i < len(cols) && i < len(row); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinCells(cols, widths, headers))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, cells []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if c.right {
			parts[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.Join(parts, " ")
}
