package proc

import (
	"context"
	"strings"
)

// Agent is a live agent process found under a pane.
type Agent struct {
	PID     int
	Command string
	Cwd     string
}

// Resolver walks a pane's process tree looking for the agent.
type Resolver struct {
	inspector Inspector
	// lowercase invocation names that identify the agent process
	names []string
}

func NewResolver(inspector Inspector, agentNames []string) *Resolver {
	names := make([]string, 0, len(agentNames))
	for _, n := range agentNames {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			names = append(names, n)
		}
	}
	return &Resolver{inspector: inspector, names: names}
}

// FindAgent searches the pane's direct children for a process whose
// command line matches an agent invocation name, then the
// grandchildren (the agent is often launched via a wrapper shell or
// script). No match returns (nil, nil): absence is not an error.
func (r *Resolver) FindAgent(ctx context.Context, panePID int) (*Agent, error) {
	children, err := r.inspector.Children(ctx, panePID)
	if err != nil {
		return nil, err
	}

	for _, c := range children {
		if r.matches(c.Command) {
			return r.withCwd(ctx, c)
		}
	}
	for _, c := range children {
		grandchildren, err := r.inspector.Children(ctx, c.PID)
		if err != nil {
			continue
		}
		for _, gc := range grandchildren {
			if r.matches(gc.Command) {
				return r.withCwd(ctx, gc)
			}
		}
	}
	return nil, nil
}

func (r *Resolver) matches(command string) bool {
	lower := strings.ToLower(command)
	for _, name := range r.names {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// withCwd resolves the agent's working directory. A pane whose cwd
// cannot be resolved still counts as a live agent; it just cannot
// contribute a directory match.
func (r *Resolver) withCwd(ctx context.Context, p Process) (*Agent, error) {
	agent := &Agent{PID: p.PID, Command: p.Command}
	if cwd, err := r.inspector.Cwd(ctx, p.PID); err == nil {
		agent.Cwd = cwd
	}
	return agent, nil
}
