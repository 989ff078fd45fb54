package session

import "time"

// Patch is a partial update to a Session. Nil fields are left alone.
// Two merge policies exist: most fields overwrite, but the heuristic
// task/area fields and all user-owned fields only apply when the
// stored value is empty or the new value is non-empty, so a reindex
// that detects nothing can never clear an earlier detection and the
// indexer can never clobber what the user typed.
type Patch struct {
	ID string

	Slug             *string
	ProjectPath      *string
	ProjectName      *string
	WorkingDirectory *string
	FilePath         *string
	FileSizeBytes    *int64

	StartedAt    *time.Time
	LastActivity *time.Time

	MessageCount  *int
	ToolCallCount *int

	DetectedTask     *string // keep-if-absent
	DetectedActivity *string
	DetectedArea     *string // keep-if-absent

	TmuxSession *string
	TmuxPane    *string
	TmuxPanePID *int
	TmuxAlive   *Liveness

	Status *Status

	Name       *string // keep-if-absent
	Tags       *string // keep-if-absent
	LedgerLink *string // keep-if-absent
}

// Apply merges the patch into s in place.
func (p *Patch) Apply(s *Session) {
	setString(&s.Slug, p.Slug)
	setString(&s.ProjectPath, p.ProjectPath)
	setString(&s.ProjectName, p.ProjectName)
	setString(&s.WorkingDirectory, p.WorkingDirectory)
	setString(&s.FilePath, p.FilePath)
	if p.FileSizeBytes != nil {
		s.FileSizeBytes = *p.FileSizeBytes
	}
	if p.StartedAt != nil {
		s.StartedAt = *p.StartedAt
	}
	if p.LastActivity != nil && p.LastActivity.After(s.LastActivity) {
		s.LastActivity = *p.LastActivity
	}
	if p.MessageCount != nil {
		s.MessageCount = *p.MessageCount
	}
	if p.ToolCallCount != nil {
		s.ToolCallCount = *p.ToolCallCount
	}

	keepIfAbsent(&s.DetectedTask, p.DetectedTask)
	setString(&s.DetectedActivity, p.DetectedActivity)
	keepIfAbsent(&s.DetectedArea, p.DetectedArea)

	setString(&s.TmuxSession, p.TmuxSession)
	setString(&s.TmuxPane, p.TmuxPane)
	if p.TmuxPanePID != nil {
		s.TmuxPanePID = *p.TmuxPanePID
	}
	if p.TmuxAlive != nil {
		s.TmuxAlive = *p.TmuxAlive
	}
	if p.Status != nil {
		s.Status = *p.Status
	}

	keepIfAbsent(&s.Name, p.Name)
	keepIfAbsent(&s.Tags, p.Tags)
	keepIfAbsent(&s.LedgerLink, p.LedgerLink)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// keepIfAbsent only writes a non-empty new value; an empty patch value
// never clears an existing one.
func keepIfAbsent(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

// Helpers for building patches without intermediate variables.

func String(v string) *string        { return &v }
func Int(v int) *int                 { return &v }
func Int64(v int64) *int64           { return &v }
func Time(v time.Time) *time.Time    { return &v }
func StatusP(v Status) *Status       { return &v }
func LivenessP(v Liveness) *Liveness { return &v }
