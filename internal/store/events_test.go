package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/cctrack/cctrack/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, st *Store, id string) {
	t.Helper()
	_, err := st.UpsertSession(session.Patch{ID: id})
	require.NoError(t, err)
}

func TestReplaceEvents_InsertAndReplace(t *testing.T) {
	st := newTestStore(t)
	seedSession(t, st, "s1")

	events := []session.Event{
		{SessionID: "s1", Kind: "user", Content: "fix the login flow"},
		{SessionID: "s1", Kind: "tool", ToolName: "Edit", ToolInput: `{"file_path":"auth.go"}`},
	}
	doc := SearchDoc{Content: "fix the login flow", ToolNames: "Edit", FilesTouched: "auth.go"}
	require.NoError(t, st.ReplaceEvents("s1", events, doc))

	n, err := st.EventCount("s1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A reindex replaces the whole list, no event-level diffing.
	require.NoError(t, st.ReplaceEvents("s1", events[:1], doc))
	n, err = st.EventCount("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReplaceEvents_LargeBatch(t *testing.T) {
	st := newTestStore(t)
	seedSession(t, st, "s1")

	// More events than one INSERT statement carries.
	events := make([]session.Event, eventBatchSize+50)
	for i := range events {
		events[i] = session.Event{SessionID: "s1", Kind: "user", Content: fmt.Sprintf("message %d", i)}
	}
	require.NoError(t, st.ReplaceEvents("s1", events, SearchDoc{Content: "bulk"}))

	n, err := st.EventCount("s1")
	require.NoError(t, err)
	assert.Equal(t, eventBatchSize+50, n)
}

func TestReplaceEvents_EmptyListStillWritesFTS(t *testing.T) {
	st := newTestStore(t)
	seedSession(t, st, "s1")

	require.NoError(t, st.ReplaceEvents("s1", nil, SearchDoc{Content: "only metadata"}))

	hits, err := st.Search("metadata", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s1", hits[0].SessionID)
}

func TestListEvents(t *testing.T) {
	st := newTestStore(t)
	seedSession(t, st, "s1")

	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	events := []session.Event{
		{SessionID: "s1", Timestamp: ts, Kind: "user", Content: "one"},
		{SessionID: "s1", Timestamp: ts.Add(time.Minute), Kind: "assistant", Content: "two"},
		{SessionID: "s1", Timestamp: ts.Add(2 * time.Minute), Kind: "tool", ToolName: "Bash", FilesTouched: "a.go,b.go"},
	}
	require.NoError(t, st.ReplaceEvents("s1", events, SearchDoc{}))

	got, err := st.ListEvents("s1", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "one", got[0].Content)
	assert.Equal(t, "Bash", got[2].ToolName)
	assert.Equal(t, "a.go,b.go", got[2].FilesTouched)
	assert.True(t, got[0].Timestamp.Equal(ts))

	// Pagination from the last seen id.
	rest, err := st.ListEvents("s1", got[0].ID, 0)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "two", rest[0].Content)

	limited, err := st.ListEvents("s1", 0, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteSessionCascades(t *testing.T) {
	st := newTestStore(t)
	seedSession(t, st, "s1")
	require.NoError(t, st.ReplaceEvents("s1",
		[]session.Event{{SessionID: "s1", Kind: "user", Content: "x"}}, SearchDoc{}))

	_, err := st.Raw().Exec("DELETE FROM sessions WHERE session_id = 's1'")
	require.NoError(t, err)

	n, err := st.EventCount("s1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
