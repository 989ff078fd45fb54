package store

import (
	"testing"
	"time"

	"github.com/cctrack/cctrack/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearchable(t *testing.T, st *Store) {
	t.Helper()
	now := time.Now().UTC()

	_, err := st.UpsertSession(session.Patch{
		ID: "s1", Slug: session.String("s1slug"),
		ProjectName:  session.String("api"),
		DetectedTask: session.String("Fix token refresh"),
		LastActivity: session.Time(now),
	})
	require.NoError(t, err)
	require.NoError(t, st.ReplaceEvents("s1", nil, SearchDoc{
		Content:      `the token refresh logic drops the "refresh token" on retry`,
		ToolNames:    "Read Edit Bash",
		FilesTouched: "src/auth/refresh.go",
	}))

	_, err = st.UpsertSession(session.Patch{
		ID: "s2", Slug: session.String("s2slug"),
		ProjectName:  session.String("web"),
		DetectedTask: session.String("Restyle dashboard"),
		LastActivity: session.Time(now.Add(-time.Hour)),
	})
	require.NoError(t, err)
	require.NoError(t, st.ReplaceEvents("s2", nil, SearchDoc{
		Content:      "make the dashboard charts responsive",
		ToolNames:    "Edit Write",
		FilesTouched: "src/dashboard/chart.tsx",
	}))
}

func TestSearch_FTSMatch(t *testing.T) {
	st := newTestStore(t)
	seedSearchable(t, st)

	hits, err := st.Search("refresh", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s1", hits[0].SessionID)
	assert.Equal(t, "s1slug", hits[0].Slug)
	assert.Contains(t, hits[0].Snippet, ">>>")
}

func TestSearch_FTSOperators(t *testing.T) {
	st := newTestStore(t)
	seedSearchable(t, st)

	hits, err := st.Search("dashboard AND charts", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s2", hits[0].SessionID)
}

func TestSearch_BadSyntaxFallsBackToSubstring(t *testing.T) {
	st := newTestStore(t)
	seedSearchable(t, st)

	// An unbalanced quote is an FTS5 parse error; the substring
	// fallback still finds the session.
	hits, err := st.Search(`"refresh`, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s1", hits[0].SessionID)
}

func TestSearch_NoMatch(t *testing.T) {
	st := newTestStore(t)
	seedSearchable(t, st)

	hits, err := st.Search("kubernetes", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_MatchOnFilesTouched(t *testing.T) {
	st := newTestStore(t)
	seedSearchable(t, st)

	hits, err := st.Search("chart", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s2", hits[0].SessionID)
}

func TestSearch_LimitDefault(t *testing.T) {
	st := newTestStore(t)
	seedSearchable(t, st)

	hits, err := st.Search("the", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)
}
