// Package tui provides the Bubble Tea trainer interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/koch/internal/curriculum"
	"github.com/verte-zerg/koch/internal/score"
	"github.com/verte-zerg/koch/internal/session"
	statsPkg "github.com/verte-zerg/koch/internal/stats"
)

const (
	historyLength  = 10
	minTableHeight = 5
	detailsWidth   = 44
)

// Model implements the Bubble Tea trainer UI on top of a session.
type Model struct {
	sess *session.Session

	width  int
	height int

	lessons table.Model

	status string
	errMsg string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	missingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Underline(true)
	extraStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Strikethrough(true)
	typedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	masteredStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	paneStyle        = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// NewModel constructs a trainer TUI model.
func NewModel(sess *session.Session) *Model {
	m := &Model{sess: sess}
	m.lessons = table.New(
		table.WithColumns([]table.Column{
			{Title: "Lesson", Width: 6},
			{Title: "New", Width: 5},
			{Title: "Tries", Width: 5},
			{Title: "Best", Width: 5},
		}),
		table.WithHeight(minTableHeight),
	)
	m.lessons.SetStyles(lessonTableStyles())
	m.refreshRows()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.lessons.SetHeight(maxInt(minTableHeight, m.height-4))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.sess.Quit()
			return m, tea.Quit
		}
		switch m.sess.Mode() {
		case session.PickingLesson:
			return m.updatePicking(msg)
		case session.TypingLesson:
			return m.updateTyping(msg)
		case session.LetterPractice:
			if msg.Type == tea.KeyEsc {
				m.sess.Cancel()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.sess.Quit()
		return m, tea.Quit
	case "down", "j":
		m.sess.Move(1)
	case "up", "k":
		m.sess.Move(-1)
	case "home", "g":
		m.sess.Select(0)
	case "end", "G":
		m.sess.Select(m.sess.LessonCount() - 1)
	case "enter":
		m.clearMessages()
		if err := m.sess.StartLesson(); err != nil {
			m.errMsg = fmt.Sprintf("failed to start lesson: %v", err)
		}
	case "p":
		m.clearMessages()
		if err := m.sess.StartLetterDrill(); err != nil {
			m.errMsg = fmt.Sprintf("failed to start letter practice: %v", err)
		}
	}
	m.lessons.SetCursor(m.sess.Selected())
	return m, nil
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.sess.Cancel()
	case tea.KeyEnter:
		m.submit()
	case tea.KeyBackspace, tea.KeyDelete:
		m.sess.Backspace()
	case tea.KeySpace:
		m.sess.Type(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.sess.Type(r)
		}
	}
	return m, nil
}

func (m *Model) submit() {
	res, err := m.sess.Submit(context.Background())
	m.refreshRows()
	m.status = fmt.Sprintf("Lesson %d: %d%%", res.Lesson, res.Accuracy)
	if err != nil {
		if errors.Is(err, session.ErrPersistence) {
			logErrf("failed to save score: %v\n", err)
			m.errMsg = "score kept for this run but not saved"
			return
		}
		m.errMsg = err.Error()
	}
}

func (m *Model) clearMessages() {
	m.status = ""
	m.errMsg = ""
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, m.sess.LessonCount())
	for lesson := 1; lesson <= m.sess.LessonCount(); lesson++ {
		history := m.sess.History(lesson)
		tries, best := "", ""
		if len(history) > 0 {
			tries = strconv.Itoa(len(history))
			best = fmt.Sprintf("%d%%", statsPkg.Summarize(lesson, history).Best)
		}
		rows = append(rows, table.Row{strconv.Itoa(lesson), newCharsLabel(lesson), tries, best})
	}
	m.lessons.SetRows(rows)
	m.lessons.SetCursor(m.sess.Selected())
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.sess.Done() {
		return ""
	}
	var body string
	switch m.sess.Mode() {
	case session.TypingLesson:
		body = m.renderTyping()
	case session.LetterPractice:
		body = m.renderLetters()
	default:
		body = m.renderPicking()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 1
	content := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return content + "\n" + footerLine
}

func (m *Model) renderPicking() string {
	list := m.lessons.View()
	details := paneStyle.Width(detailsWidth).Render(m.renderDetails())
	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", details)
}

func (m *Model) renderDetails() string {
	lesson := m.sess.Lesson()
	settings := m.sess.Settings()
	lines := []string{titleStyle.Render(fmt.Sprintf("Lesson %d", lesson))}
	if chars, err := curriculum.NewCharacters(lesson); err == nil {
		lines = append(lines, "New: "+spaced(chars))
	}
	if alphabet, err := curriculum.UnlockedAlphabet(lesson); err == nil {
		lines = append(lines, "Set: "+string(alphabet))
	}
	lines = append(lines,
		fmt.Sprintf("Speed: %d WPM (effective %d)", settings.CharWPM, settings.EffectiveWPM),
		fmt.Sprintf("Tone: %.0f Hz", settings.ToneHz),
		"",
	)

	history := statsPkg.LastN(m.sess.History(lesson), historyLength)
	if len(history) == 0 {
		lines = append(lines, pendingStyle.Render("No scores yet."))
	} else {
		summary := statsPkg.Summarize(lesson, m.sess.History(lesson))
		marks := make([]string, len(history))
		for i, acc := range history {
			marks[i] = strconv.Itoa(acc)
		}
		lines = append(lines,
			fmt.Sprintf("Last %d: %s", len(history), strings.Join(marks, " ")),
			"Trend: ["+statsPkg.PercentSparkline(history)+"]",
		)
		if summary.Mastered {
			lines = append(lines, masteredStyle.Render("Mastered, move on to the next lesson."))
		} else {
			lines = append(lines, pendingStyle.Render(fmt.Sprintf("Reach %d%% to move on.", score.MasteryThreshold)))
		}
	}

	if res := m.sess.LastResult(); res != nil && res.Lesson == lesson {
		width := detailsWidth - 4
		lines = append(lines,
			"",
			titleStyle.Render(fmt.Sprintf("Last attempt: %d%%", res.Accuracy)),
			"Sent:",
			wrapStyledRunes(buildDiffRunes(expectedCells(res.Expected)), width),
			"Copied:",
			wrapStyledRunes(buildDiffRunes(res.Diff), width),
		)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTyping() string {
	width := m.contentWidth()
	title := titleStyle.Render(fmt.Sprintf("Lesson %d: copy what you hear", m.sess.Lesson()))
	input := []rune(m.sess.Transcript())
	box := paneStyle.Width(width).Render(wrapStyledRunes(buildTranscriptRunes(input, len(input)), width-4))
	return lipgloss.JoinVertical(lipgloss.Left, title, box)
}

func (m *Model) renderLetters() string {
	lesson := m.sess.Lesson()
	chars, _ := curriculum.NewCharacters(lesson)
	body := []string{
		titleStyle.Render(fmt.Sprintf("Lesson %d letters", lesson)),
		"",
		"New: " + spaced(chars),
	}
	for _, r := range chars {
		if pattern, err := curriculum.PatternOf(r); err == nil {
			body = append(body, fmt.Sprintf("  %c  %s", r, pattern))
		}
	}
	body = append(body, "", pendingStyle.Render(m.sess.Letters()))
	return modalStyle.Render(strings.Join(body, "\n"))
}

func (m *Model) renderFooter() string {
	var help string
	switch m.sess.Mode() {
	case session.TypingLesson:
		help = "Type what you hear  Submit: enter  Cancel: esc"
	case session.LetterPractice:
		help = "Listen  Back: esc"
	default:
		help = "Select: up/down  Start: enter  Letters: p  Quit: q"
	}
	segments := []string{footerStyle.Render(help)}
	if m.status != "" {
		segments = append(segments, footerStyle.Render(m.status))
	}
	if m.errMsg != "" {
		segments = append(segments, errorStyle.Render(m.errMsg))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := int(float64(m.width) * 0.70)
	if w < 10 {
		w = 10
	}
	return w
}

func lessonTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#C89A3A")).
		Bold(true)
	return styles
}

func expectedCells(text string) []score.Cell {
	return score.Diff(text, text)
}

func newCharsLabel(lesson int) string {
	chars, err := curriculum.NewCharacters(lesson)
	if err != nil {
		return "?"
	}
	return string(chars)
}

func spaced(chars []rune) string {
	parts := make([]string, len(chars))
	for i, r := range chars {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
