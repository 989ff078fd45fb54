// Package proc inspects OS process trees to find a live agent process
// underneath a tmux pane and resolve its working directory.
package proc

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Process is one entry in a process listing.
type Process struct {
	PID     int
	Command string
}

// Inspector abstracts the platform-specific process queries so the
// resolver's matching logic stays testable.
type Inspector interface {
	// Children returns the direct children of pid.
	Children(ctx context.Context, pid int) ([]Process, error)
	// Cwd returns the current working directory of pid.
	Cwd(ctx context.Context, pid int) (string, error)
}

// OSInspector reads /proc on Linux and shells out to ps/lsof
// elsewhere. Every external command is bounded by Timeout.
type OSInspector struct {
	Timeout time.Duration
}

func NewInspector(timeout time.Duration) *OSInspector {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OSInspector{Timeout: timeout}
}

func (in *OSInspector) Children(ctx context.Context, pid int) ([]Process, error) {
	if runtime.GOOS == "linux" {
		return childrenFromProcFS(pid)
	}
	return in.childrenFromPS(ctx, pid)
}

func (in *OSInspector) Cwd(ctx context.Context, pid int) (string, error) {
	if runtime.GOOS == "linux" {
		cwd, err := os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid))
		if err != nil {
			return "", fmt.Errorf("read cwd of %d: %w", pid, err)
		}
		return cwd, nil
	}
	return in.cwdFromLsof(ctx, pid)
}

// childrenFromProcFS scans /proc/<pid>/stat entries for matching ppids.
func childrenFromProcFS(parent int) ([]Process, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	var children []Process
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		if readPPID(pid) != parent {
			continue
		}
		children = append(children, Process{PID: pid, Command: readCmdline(pid)})
	}
	return children, nil
}

func readPPID(pid int) int {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0
	}
	return ppidFromStat(string(data))
}

// ppidFromStat parses the ppid out of a /proc/<pid>/stat line. The comm
// field is parenthesized and may itself contain spaces and parens;
// fields after the last ')' are fixed.
func ppidFromStat(stat string) int {
	i := strings.LastIndex(stat, ")")
	if i < 0 || i+2 >= len(stat) {
		return 0
	}
	fields := strings.Fields(stat[i+2:])
	if len(fields) < 2 {
		return 0
	}
	ppid, _ := strconv.Atoi(fields[1])
	return ppid
}

func readCmdline(pid int) string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(string(data), "\x00", " "))
}

func (in *OSInspector) childrenFromPS(ctx context.Context, parent int) ([]Process, error) {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "ps", "-axo", "pid=,ppid=,command=").Output()
	if err != nil {
		return nil, fmt.Errorf("ps: %w", err)
	}

	var children []Process
	sc := bufio.NewScanner(strings.NewReader(string(out)))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		ppid, err := strconv.Atoi(fields[1])
		if err != nil || ppid != parent {
			continue
		}
		children = append(children, Process{PID: pid, Command: strings.Join(fields[2:], " ")})
	}
	return children, nil
}

// cwdFromLsof queries the cwd file descriptor; this is the portable
// route on macOS and the BSDs.
func (in *OSInspector) cwdFromLsof(ctx context.Context, pid int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "lsof", "-a", "-p", strconv.Itoa(pid), "-d", "cwd", "-Fn").Output()
	if err != nil {
		return "", fmt.Errorf("lsof cwd of %d: %w", pid, err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "n") {
			return strings.TrimSpace(line[1:]), nil
		}
	}
	return "", fmt.Errorf("lsof cwd of %d: no result", pid)
}
