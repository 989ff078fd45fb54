package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/cctrack/cctrack/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestSessionMatches(t *testing.T) {
	s := session.Session{
		Slug:             "019bf9a3",
		ProjectName:      "billing-api",
		DetectedTask:     "Fix invoice rounding",
		DetectedActivity: "implementing",
		Status:           session.StatusActive,
		Tags:             "urgent",
	}

	assert.True(t, sessionMatches(s, "billing"))
	assert.True(t, sessionMatches(s, "invoice"))
	assert.True(t, sessionMatches(s, "implement"))
	assert.True(t, sessionMatches(s, "urgent"))
	assert.True(t, sessionMatches(s, "active"))
	assert.False(t, sessionMatches(s, "kubernetes"))
}

func TestApplyFilter(t *testing.T) {
	m := initialModel([]session.Session{
		{ID: "a", ProjectName: "api"},
		{ID: "b", ProjectName: "web"},
	})

	m.applyFilter("web")
	assert.Len(t, m.filtered, 1)
	assert.Equal(t, "b", m.filtered[0].ID)
	assert.Zero(t, m.cursor)

	m.applyFilter("")
	assert.Len(t, m.filtered, 2)

	m.applyFilter("  API  ")
	assert.Len(t, m.filtered, 1)
	assert.Equal(t, "a", m.filtered[0].ID)
}

func TestRelativeAge(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "-", relativeAge(time.Time{}))
	assert.Equal(t, "now", relativeAge(now.Add(-30*time.Second)))
	assert.Equal(t, "5m", relativeAge(now.Add(-5*time.Minute)))
	assert.Equal(t, "3h", relativeAge(now.Add(-3*time.Hour)))
	assert.Equal(t, "2d", relativeAge(now.Add(-49*time.Hour)))
}

func TestWrapValue(t *testing.T) {
	assert.Equal(t, "short", wrapValue("short", 40))

	wrapped := wrapValue("one two three four five six seven eight nine ten", 20)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(strings.TrimSpace(line)), 20)
	}
}
