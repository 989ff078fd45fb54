package proc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInspector struct {
	children map[int][]Process
	cwds     map[int]string
	errs     map[int]error
}

func (f *fakeInspector) Children(ctx context.Context, pid int) ([]Process, error) {
	if err := f.errs[pid]; err != nil {
		return nil, err
	}
	return f.children[pid], nil
}

func (f *fakeInspector) Cwd(ctx context.Context, pid int) (string, error) {
	if cwd, ok := f.cwds[pid]; ok {
		return cwd, nil
	}
	return "", errors.New("no cwd")
}

func TestFindAgent_DirectChild(t *testing.T) {
	in := &fakeInspector{
		children: map[int][]Process{
			100: {{PID: 101, Command: "claude --verbose"}},
		},
		cwds: map[int]string{101: "/code/api"},
	}
	r := NewResolver(in, []string{"claude"})

	agent, err := r.FindAgent(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, agent)
	assert.Equal(t, 101, agent.PID)
	assert.Equal(t, "/code/api", agent.Cwd)
}

func TestFindAgent_Grandchild(t *testing.T) {
	// The agent is commonly launched through a wrapper shell.
	in := &fakeInspector{
		children: map[int][]Process{
			100: {{PID: 101, Command: "-zsh"}},
			101: {{PID: 102, Command: "node /usr/local/bin/claude"}},
		},
		cwds: map[int]string{102: "/code/web"},
	}
	r := NewResolver(in, []string{"claude"})

	agent, err := r.FindAgent(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, agent)
	assert.Equal(t, 102, agent.PID)
	assert.Equal(t, "/code/web", agent.Cwd)
}

func TestFindAgent_NoMatchIsNotAnError(t *testing.T) {
	in := &fakeInspector{
		children: map[int][]Process{
			500: {{PID: 501, Command: "vim main.go"}},
		},
	}
	r := NewResolver(in, []string{"claude"})

	agent, err := r.FindAgent(context.Background(), 500)
	require.NoError(t, err)
	assert.Nil(t, agent)
}

func TestFindAgent_MatchCaseInsensitive(t *testing.T) {
	in := &fakeInspector{
		children: map[int][]Process{
			100: {{PID: 101, Command: "Claude"}},
		},
	}
	r := NewResolver(in, []string{"CLAUDE"})

	agent, err := r.FindAgent(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, agent)
}

func TestFindAgent_CwdFailureStillReturnsAgent(t *testing.T) {
	in := &fakeInspector{
		children: map[int][]Process{
			100: {{PID: 101, Command: "claude"}},
		},
		// no cwds entry: Cwd errors
	}
	r := NewResolver(in, []string{"claude"})

	agent, err := r.FindAgent(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, agent)
	assert.Empty(t, agent.Cwd)
}

func TestFindAgent_ChildrenError(t *testing.T) {
	in := &fakeInspector{
		errs: map[int]error{100: errors.New("proc gone")},
	}
	r := NewResolver(in, []string{"claude"})

	_, err := r.FindAgent(context.Background(), 100)
	assert.Error(t, err)
}

func TestFindAgent_GrandchildErrorSkipped(t *testing.T) {
	// An unreadable intermediate process must not abort the search.
	in := &fakeInspector{
		children: map[int][]Process{
			100: {{PID: 101, Command: "-zsh"}, {PID: 103, Command: "sh"}},
			103: {{PID: 104, Command: "claude"}},
		},
		errs: map[int]error{101: errors.New("permission denied")},
	}
	r := NewResolver(in, []string{"claude"})

	agent, err := r.FindAgent(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, agent)
	assert.Equal(t, 104, agent.PID)
}

func TestPPIDFromStat(t *testing.T) {
	// The comm field is parenthesized and may contain spaces and parens.
	assert.Equal(t, 567, ppidFromStat("1234 (tmux: server) S 567 1234 1234 0 -1"))
	assert.Equal(t, 42, ppidFromStat("99 (a (weird) name) R 42 99 99 0 -1"))
	assert.Equal(t, 0, ppidFromStat("garbage"))
	assert.Equal(t, 0, ppidFromStat(""))
}
