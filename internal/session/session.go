// Package session holds the domain model shared by the indexer and the
// pane mapper: the Session record, its event stream, the tri-state
// liveness flag and the status derivation rules.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusIdle      Status = "idle"
	StatusCompleted Status = "completed"
)

// Liveness is whether an agent process is confirmed running inside the
// session's mapped pane. Unknown means nobody has checked yet (or the
// mapper could not tell); it is distinct from Dead and drives a
// different status-derivation branch.
type Liveness int

const (
	LivenessUnknown Liveness = iota
	LivenessDead
	LivenessAlive
)

func (l Liveness) String() string {
	switch l {
	case LivenessAlive:
		return "alive"
	case LivenessDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Session is one tracked unit of work with the agent, backed by one
// transcript file.
type Session struct {
	ID   string
	Slug string

	ProjectPath      string
	ProjectName      string
	WorkingDirectory string
	FilePath         string
	FileSizeBytes    int64

	StartedAt    time.Time
	LastActivity time.Time

	MessageCount  int
	ToolCallCount int

	DetectedTask     string
	DetectedActivity string
	DetectedArea     string

	TmuxSession string
	TmuxPane    string
	TmuxPanePID int
	TmuxAlive   Liveness

	Status Status

	// User-owned fields; the indexer never overwrites these.
	Name       string
	Tags       string
	LedgerLink string
}

// Event is one transcript record belonging to a session.
type Event struct {
	ID        int64
	SessionID string
	Timestamp time.Time
	Kind      string // "user", "assistant", "tool"
	Content   string
	ToolName  string
	ToolInput string
	ToolOut   string
	// Files touched up to this point in the stream, comma-joined.
	FilesTouched string
}

// Thresholds are the two time boundaries of the status state machine.
type Thresholds struct {
	Idle     time.Duration
	Complete time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{Idle: 5 * time.Minute, Complete: 60 * time.Minute}
}

// StatusFromActivity derives a status from elapsed time alone. The
// indexer uses this lighter check when a file is unchanged; it has no
// liveness override.
func StatusFromActivity(since time.Duration, th Thresholds) Status {
	switch {
	case since > th.Complete:
		return StatusCompleted
	case since > th.Idle:
		return StatusIdle
	default:
		return StatusActive
	}
}

// DeriveStatus runs the full state machine on a liveness change. A live
// agent always means active regardless of elapsed time. A dead pane
// falls back to the time thresholds, except that very recent activity
// leaves the previous status untouched. Unknown liveness never changes
// the status here.
func DeriveStatus(prev Status, alive Liveness, since time.Duration, th Thresholds) Status {
	switch alive {
	case LivenessAlive:
		return StatusActive
	case LivenessDead:
		switch {
		case since > th.Complete:
			return StatusCompleted
		case since > th.Idle:
			return StatusIdle
		default:
			return prev
		}
	default:
		return prev
	}
}

// SlugFor derives the short display id from a session id. Transcript
// files are named by UUID; the first segment is unique enough to show.
func SlugFor(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()[:8]
	}
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ProjectNameFor extracts a display name from a project path. Claude
// transcript directories encode the path with dashes, so the last
// meaningful segment is the best guess.
func ProjectNameFor(projectPath string) string {
	p := strings.TrimRight(projectPath, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	if i := strings.LastIndexByte(p, '-'); i >= 0 && i < len(p)-1 {
		return p[i+1:]
	}
	return p
}
