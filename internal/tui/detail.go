package tui

import (
	"fmt"
	"strings"

	"github.com/cctrack/cctrack/internal/session"
	"github.com/mattn/go-runewidth"
)

const timeFormat = "2006-01-02 15:04"

// renderDetail renders the right panel for one session.
func renderDetail(s session.Session, width int) string {
	var b strings.Builder

	title := s.ProjectName
	if s.Name != "" {
		title = s.Name
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(fmt.Sprintf("%-12s %s\n", label, wrapValue(value, width-13)))
	}

	row("Session", s.Slug)
	b.WriteString(fmt.Sprintf("%-12s %s\n", "Status", styleStatus(s.Status).Render(string(s.Status))))
	row("Liveness", s.TmuxAlive.String())
	row("Project", s.ProjectPath)
	row("Workdir", s.WorkingDirectory)
	b.WriteString("\n")

	row("Task", s.DetectedTask)
	row("Activity", s.DetectedActivity)
	row("Area", s.DetectedArea)
	b.WriteString("\n")

	if !s.StartedAt.IsZero() {
		row("Started", s.StartedAt.Local().Format(timeFormat))
	}
	if !s.LastActivity.IsZero() {
		row("Last seen", fmt.Sprintf("%s (%s)", s.LastActivity.Local().Format(timeFormat), relativeAge(s.LastActivity)))
	}
	row("Messages", fmt.Sprintf("%d", s.MessageCount))
	row("Tool calls", fmt.Sprintf("%d", s.ToolCallCount))
	b.WriteString("\n")

	if s.TmuxPane != "" {
		row("Pane", fmt.Sprintf("%s (%s, pid %d)", s.TmuxPane, s.TmuxSession, s.TmuxPanePID))
	}
	row("Tags", s.Tags)
	row("Ledger", s.LedgerLink)

	return b.String()
}

// wrapValue wraps a long value onto continuation lines aligned under
// the value column.
func wrapValue(value string, width int) string {
	if width < 10 {
		width = 10
	}
	value = strings.ReplaceAll(value, "\n", " ")
	if runewidth.StringWidth(value) <= width {
		return value
	}

	var lines []string
	words := strings.Fields(value)
	cur := ""
	for _, w := range words {
		candidate := cur
		if candidate != "" {
			candidate += " "
		}
		candidate += w
		if runewidth.StringWidth(candidate) > width && cur != "" {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = candidate
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return strings.Join(lines, "\n"+strings.Repeat(" ", 13))
}
