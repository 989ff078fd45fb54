// Package tui is the interactive session browser: a filterable list of
// tracked sessions on the left, details of the selected one on the
// right. Selecting a session copies its resume command to the
// clipboard.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cctrack/cctrack/internal/session"
)

// model

type model struct {
	all        []session.Session
	filtered   []session.Session
	cursor     int
	listOffset int

	filterInput textinput.Model
	detail      viewport.Model
	detailID    string // session whose detail is currently rendered

	width    int
	height   int
	ready    bool
	quitting bool
	selected *session.Session
}

func initialModel(sessions []session.Session) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		all:         sessions,
		filtered:    sessions,
		filterInput: ti,
		detail:      viewport.New(0, 0),
	}
}

// Run starts the browser and blocks until it exits. If the user selects
// a session, its resume command is copied to the clipboard.
func Run(sessions []session.Session) error {
	m := initialModel(sessions)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.selected != nil {
		return copyResumeCommand(*fm.selected)
	}
	return nil
}

// copyResumeCommand builds the shell command that resumes a session in
// its working directory and puts it on the clipboard. If the clipboard
// is unavailable the command is printed instead.
func copyResumeCommand(s session.Session) error {
	cmd := fmt.Sprintf("claude --resume %s", s.ID)
	if s.WorkingDirectory != "" {
		cmd = fmt.Sprintf("cd %s && %s", s.WorkingDirectory, cmd)
	}

	if err := clipboard.WriteAll(cmd); err != nil {
		fmt.Printf("%s\n", cmd)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", cmd)
	return nil
}

// applyFilter narrows the list to sessions matching the filter text.
// Matching is case-insensitive substring over the fields a user would
// reach for: slug, project, task, activity, area, name and tags.
func (m *model) applyFilter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		m.filtered = m.all
	} else {
		m.filtered = nil
		for _, s := range m.all {
			if sessionMatches(s, query) {
				m.filtered = append(m.filtered, s)
			}
		}
	}
	m.cursor = 0
	m.listOffset = 0
}

func sessionMatches(s session.Session, query string) bool {
	for _, field := range []string{
		s.Slug, s.ProjectName, s.DetectedTask, s.DetectedActivity,
		s.DetectedArea, s.Name, s.Tags, string(s.Status),
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Init focuses the filter input.
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detail = viewport.New(m.detailWidth(), m.panelHeight())
		m.detailID = ""
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				s := m.filtered[m.cursor]
				m.selected = &s
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.DetailUp):
			m.detail.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.DetailDn):
			m.detail.LineDown(m.panelHeight() / 2)
			return m, nil
		}

		// Pass remaining keys to the filter input.
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		m.applyFilter(m.filterInput.Value())
		m.refreshDetail()
		return m, tiCmd

	case tea.MouseMsg:
		if !m.ready || len(m.filtered) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			visibleItems := m.panelHeight() / linesPerItem
			maxOffset := len(m.filtered) - visibleItems
			if maxOffset < 0 {
				maxOffset = 0
			}
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.filtered) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				m.refreshDetail()
			}
			return m, nil

		case region == regionDetail && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.detail, vpCmd = m.detail.Update(msg)
			return m, vpCmd
		}

		return m, nil
	}

	return m, nil
}

// refreshDetail re-renders the detail pane for the current selection.
func (m *model) refreshDetail() {
	if len(m.filtered) == 0 || m.cursor >= len(m.filtered) {
		m.detail.SetContent("")
		m.detailID = ""
		return
	}
	s := m.filtered[m.cursor]
	if s.ID == m.detailID {
		return
	}
	m.detail.SetContent(renderDetail(s, m.detailWidth()))
	m.detail.GotoTop()
	m.detailID = s.ID
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	detailW := m.detailWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.detail.Width = detailW
	m.detail.Height = panelH
	detailPanel := styleActiveBorder.
		Width(detailW).
		Height(panelH).
		Render(m.detail.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	status := m.statusBar()

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, status)
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 50
	}
	// 55% for the list, minus border padding
	w := m.width*55/100 - 4
	if w < 30 {
		w = 30
	}
	return w
}

func (m model) detailWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width*45/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionDetail
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		itemIndex := m.listOffset + (relY / linesPerItem)
		return regionList, itemIndex
	}

	if x > listBoxRight+1 {
		return regionDetail, -1
	}

	return regionNone, -1
}

func (m model) statusBar() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d/%d sessions", len(m.filtered), len(m.all)))
	parts = append(parts, "click/up/dn navigate")
	parts = append(parts, "C-u/C-d detail")
	parts = append(parts, "Enter copy resume cmd")
	parts = append(parts, "Esc quit")
	return styleStatusBar.Render(strings.Join(parts, " | "))
}
