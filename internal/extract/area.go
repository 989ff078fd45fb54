package extract

import (
	"regexp"
	"strings"
)

// areaPattern scores a path segment following a known grouping
// directory. Higher-priority patterns contribute more weight.
type areaPattern struct {
	re     *regexp.Regexp
	weight int
}

var areaPatterns = []areaPattern{
	{regexp.MustCompile(`(?:^|/)areas/([^/]+)/`), 10},
	{regexp.MustCompile(`(?:^|/)domains/([^/]+)/`), 10},
	{regexp.MustCompile(`(?:^|/)features/([^/]+)/`), 8},
	{regexp.MustCompile(`(?:^|/)modules/([^/]+)/`), 8},
	{regexp.MustCompile(`(?:^|/)packages/([^/]+)/`), 6},
	{regexp.MustCompile(`(?:^|/)apps/([^/]+)/`), 6},
	{regexp.MustCompile(`(?:^|/)services/([^/]+)/`), 6},
	{regexp.MustCompile(`(?:^|/)internal/([^/]+)/`), 4},
	{regexp.MustCompile(`(?:^|/)src/([^/]+)/`), 3},
	{regexp.MustCompile(`(?:^|/)lib/([^/]+)/`), 2},
}

// areaDenyList filters generic directory names that never make a
// meaningful area label.
var areaDenyList = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"vendor":       true,
	"test":         true,
	"tests":        true,
	"__tests__":    true,
	"spec":         true,
	"tmp":          true,
	"utils":        true,
	"common":       true,
	"shared":       true,
	"types":        true,
	"index":        true,
}

// DetectArea scans all touched file paths and returns the
// highest-scoring area label, or "" when nothing matches. Ties are
// broken by first-seen order.
func DetectArea(paths []string) string {
	scores := make(map[string]int)
	var order []string

	for _, p := range paths {
		p = strings.ToLower(p)
		for _, pat := range areaPatterns {
			for _, m := range pat.re.FindAllStringSubmatch(p, -1) {
				label := m[1]
				if areaDenyList[label] || label == "" {
					continue
				}
				// strip file-ish labels that slipped through
				if strings.ContainsRune(label, '.') {
					continue
				}
				if _, seen := scores[label]; !seen {
					order = append(order, label)
				}
				scores[label] += pat.weight
			}
		}
	}

	best := ""
	bestScore := 0
	for _, label := range order {
		if scores[label] > bestScore {
			best = label
			bestScore = scores[label]
		}
	}
	return best
}
