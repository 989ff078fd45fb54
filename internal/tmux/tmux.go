// Package tmux lists live terminal-multiplexer panes. tmux being
// absent or not running is an empty pane list, never an error.
package tmux

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Pane is one live tmux viewport.
type Pane struct {
	Session     string
	Window      int
	Index       int
	ID          string // tmux pane id, e.g. "%3"; stable for the pane's lifetime
	PID         int    // root process of the pane
	CurrentPath string
}

// Coordinate returns the session:window.pane form tmux commands accept.
func (p Pane) Coordinate() string {
	return p.Session + ":" + strconv.Itoa(p.Window) + "." + strconv.Itoa(p.Index)
}

// Enumerator lists live panes. The mapper depends on this interface so
// tests can substitute a fake.
type Enumerator interface {
	ListPanes(ctx context.Context) ([]Pane, error)
}

// CommandEnumerator shells out to tmux. Every invocation is bounded by
// a timeout so a hung server cannot stall a mapping cycle.
type CommandEnumerator struct {
	Timeout time.Duration
}

func NewEnumerator(timeout time.Duration) *CommandEnumerator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CommandEnumerator{Timeout: timeout}
}

const listFormat = "#{session_name}\t#{window_index}\t#{pane_index}\t#{pane_id}\t#{pane_pid}\t#{pane_current_path}"

func (e *CommandEnumerator) ListPanes(ctx context.Context) ([]Pane, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "tmux", "list-panes", "-a", "-F", listFormat).Output()
	if err != nil {
		// "no server running", tmux not installed, or a dead socket
		// all mean the same thing here: no panes.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	return ParsePaneList(string(out)), nil
}

// ParsePaneList parses tmux list-panes output in listFormat. Malformed
// lines are dropped.
func ParsePaneList(out string) []Pane {
	var panes []Pane
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 6 {
			continue
		}
		window, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		index, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		pid, err := strconv.Atoi(fields[4])
		if err != nil {
			continue
		}
		panes = append(panes, Pane{
			Session:     fields[0],
			Window:      window,
			Index:       index,
			ID:          fields[3],
			PID:         pid,
			CurrentPath: fields[5],
		})
	}
	return panes
}
