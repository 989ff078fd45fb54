// Package extract holds the heuristic classifiers that turn a parsed
// transcript into the derived session fields: task summary, activity
// kind, touched files and area guess. All functions are deterministic
// and never fail; missing signal yields the empty value.
package extract

import (
	"regexp"
	"strings"
	"unicode"
)

const maxTaskLen = 200

// taskPatterns match imperative task phrasing in the first user
// message, in priority order. The first capture group is the task.
var taskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:please\s+)?(?:can|could|would)\s+you\s+(?:please\s+)?(.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(implement\s+.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(fix\s+.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(add\s+.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(refactor\s+.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(update\s+.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(write\s+.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(create\s+.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(remove\s+.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(investigate\s+.+)`),
	regexp.MustCompile(`(?i)^(?:please\s+)?(debug\s+.+)`),
	regexp.MustCompile(`(?i)^i\s+(?:want|need)\s+(?:you\s+)?to\s+(.+)`),
	regexp.MustCompile(`(?i)^help\s+me\s+(.+)`),
}

var (
	codeFenceRe = regexp.MustCompile("(?s)```.*?```")
	mdHeaderRe  = regexp.MustCompile(`(?m)^#+\s*`)
	xmlTagRe    = regexp.MustCompile(`<[^>]{1,80}>`)
)

// DetectTask derives a one-line task summary from the first user
// message. Markdown noise is stripped first, then the imperative
// patterns are tried in order, then the first sentence is used as a
// fallback. The result is capped and capitalized; no signal yields "".
func DetectTask(firstUserMessage string) string {
	text := firstUserMessage
	text = codeFenceRe.ReplaceAllString(text, " ")
	text = xmlTagRe.ReplaceAllString(text, " ")
	text = mdHeaderRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(strings.Join(strings.Fields(text), " "))
	if text == "" {
		return ""
	}

	for _, re := range taskPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return finishTask(m[1])
		}
	}

	return finishTask(firstSentence(text))
}

func firstSentence(text string) string {
	for i, r := range text {
		switch r {
		case '.', '!', '?', '\n':
			if i > 0 {
				return text[:i]
			}
		}
	}
	return text
}

func finishTask(s string) string {
	s = strings.TrimSpace(strings.TrimRight(s, ".!? "))
	if s == "" {
		return ""
	}
	if len(s) > maxTaskLen {
		s = strings.TrimSpace(s[:maxTaskLen])
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
