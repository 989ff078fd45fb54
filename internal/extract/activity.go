package extract

import "strings"

// Activity labels, ordered by specificity.
const (
	ActivityCommitting   = "committing"
	ActivityDelegating   = "delegating"
	ActivityImplementing = "implementing"
	ActivityEditing      = "editing"
	ActivityExploring    = "exploring"
	ActivityTesting      = "testing"
	ActivityChatting     = "chatting"
)

var (
	editTools = map[string]bool{"Edit": true, "Write": true, "MultiEdit": true, "NotebookEdit": true}
	readTools = map[string]bool{"Read": true, "Grep": true, "Glob": true, "WebFetch": true, "WebSearch": true}
)

// activityRule is one row of the classification decision table.
// Rules are evaluated in order; the first match wins.
type activityRule struct {
	label string
	match func(toolUse) bool
}

type toolUse struct {
	edit, bash, git, task, read, other bool
}

var activityRules = []activityRule{
	{ActivityCommitting, func(u toolUse) bool { return u.git && u.edit }},
	{ActivityDelegating, func(u toolUse) bool { return u.task }},
	{ActivityImplementing, func(u toolUse) bool { return u.edit && u.bash }},
	{ActivityEditing, func(u toolUse) bool { return u.edit }},
	{ActivityExploring, func(u toolUse) bool { return u.read && !u.bash && !u.other }},
	{ActivityTesting, func(u toolUse) bool { return u.bash && !u.read && !u.other }},
}

// DetectActivity classifies the set of tool names used in a session.
// Unlike task and area this is recomputed in full on every index pass.
func DetectActivity(toolNames []string, bashCommands []string) string {
	if len(toolNames) == 0 {
		return ActivityChatting
	}

	var use toolUse
	for _, name := range toolNames {
		switch {
		case editTools[name]:
			use.edit = true
		case name == "Bash":
			use.bash = true
		case name == "Task":
			use.task = true
		case readTools[name]:
			use.read = true
		default:
			use.other = true
		}
	}
	for _, cmd := range bashCommands {
		if isGitCommand(cmd) {
			use.git = true
		}
	}

	for _, rule := range activityRules {
		if rule.match(use) {
			return rule.label
		}
	}
	return ActivityChatting
}

func isGitCommand(cmd string) bool {
	trimmed := strings.TrimSpace(cmd)
	return strings.HasPrefix(trimmed, "git ") ||
		strings.Contains(trimmed, "&& git ") ||
		strings.Contains(trimmed, "; git ")
}
