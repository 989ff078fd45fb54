package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cctrack/cctrack/internal/session"
	"github.com/mattn/go-runewidth"
)

// linesPerItem is the number of terminal lines each session occupies.
const linesPerItem = 2

// renderList renders the left panel: the filtered session list with
// scrolling.
func (m model) renderList(width, height int) string {
	if len(m.filtered) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No sessions")
	}

	var lines []string
	for i, s := range m.filtered {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatSessionLine(s, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatSessionLine formats a single session as two lines:
//
//	line 1: [>] status  project  age  activity
//	line 2:    task (dimmed)
func formatSessionLine(s session.Session, width int, selected bool) []string {
	status := styleStatus(s.Status).Render(fmt.Sprintf("%-9s", string(s.Status)))

	name := s.ProjectName
	if s.Name != "" {
		name = s.Name
	}
	if runewidth.StringWidth(name) > 20 {
		name = runewidth.Truncate(name, 20, "")
	}

	age := relativeAge(s.LastActivity)

	activity := s.DetectedActivity
	if s.TmuxAlive == session.LivenessAlive {
		activity = styleLive.Render("● ") + activity
	}

	line1 := fmt.Sprintf("%s %-20s %5s  %s", status, name, age, activity)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	task := strings.ReplaceAll(s.DetectedTask, "\n", " ")
	taskMax := width - 4
	if taskMax < 0 {
		taskMax = 0
	}
	if runewidth.StringWidth(task) > taskMax {
		task = runewidth.Truncate(task, taskMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(task)

	return []string{line1, line2}
}

// relativeAge renders a compact age like "3m", "2h" or "5d".
func relativeAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
