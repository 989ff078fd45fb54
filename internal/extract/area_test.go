package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectArea(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"src segment", []string{"src/foo/bar.ts", "src/foo/baz.ts"}, "foo"},
		{"features beats src", []string{"src/misc/a.ts", "features/billing/invoice.ts"}, "billing"},
		{"internal packages", []string{"internal/mapper/mapper.go", "internal/mapper/cycle.go"}, "mapper"},
		{"deny list filtered", []string{"src/utils/a.ts", "src/billing/b.ts"}, "billing"},
		{"no grouping dirs", []string{"README.md", "main.go"}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectArea(tt.paths))
		})
	}
}

func TestDetectArea_WeightAccumulates(t *testing.T) {
	// Two src hits (3+3) outweigh one lib hit (2).
	paths := []string{"src/auth/login.go", "src/auth/logout.go", "lib/crypto/hash.go"}
	assert.Equal(t, "auth", DetectArea(paths))
}

func TestDetectArea_FirstSeenWinsTies(t *testing.T) {
	paths := []string{"src/alpha/a.go", "src/beta/b.go"}
	assert.Equal(t, "alpha", DetectArea(paths))
}
