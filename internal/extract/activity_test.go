package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectActivity(t *testing.T) {
	tests := []struct {
		name  string
		tools []string
		bash  []string
		want  string
	}{
		{"no tools", nil, nil, ActivityChatting},
		{"edit plus bash", []string{"Edit", "Bash"}, []string{"npm test"}, ActivityImplementing},
		{"edit only", []string{"Edit", "Write"}, nil, ActivityEditing},
		{"git commit with edits", []string{"Edit", "Bash"}, []string{"git add -A && git commit -m x"}, ActivityCommitting},
		{"task delegation", []string{"Task", "Read"}, nil, ActivityDelegating},
		{"read only", []string{"Read", "Grep", "Glob"}, nil, ActivityExploring},
		{"bash only", []string{"Bash"}, []string{"go test ./..."}, ActivityTesting},
		{"unknown tools only", []string{"mcp__custom__thing"}, nil, ActivityChatting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectActivity(tt.tools, tt.bash))
		})
	}
}

func TestDetectActivity_GitWithoutEditsIsNotCommitting(t *testing.T) {
	// Running git status in a read-only session is exploring territory,
	// not a commit in progress.
	got := DetectActivity([]string{"Bash"}, []string{"git status"})
	assert.Equal(t, ActivityTesting, got)
}

func TestIsGitCommand(t *testing.T) {
	assert.True(t, isGitCommand("git commit -m 'x'"))
	assert.True(t, isGitCommand("  git push"))
	assert.True(t, isGitCommand("make build && git tag v1"))
	assert.True(t, isGitCommand("cd /tmp; git init"))
	assert.False(t, isGitCommand("gitk"))
	assert.False(t, isGitCommand("echo git"))
}
