package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOneObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	w, err := Open(path)
	require.NoError(t, err)

	received := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.Write(Entry{
		EventID:    "evt_1",
		HookID:     "hook_1",
		ReceivedAt: received,
		Payload:    json.RawMessage(`{"action":"opened","n":1}`),
	}))
	require.NoError(t, w.Write(Entry{
		EventID:    "evt_2",
		HookID:     "hook_1",
		ReceivedAt: received.Add(time.Second),
		Payload:    json.RawMessage(`"just a string"`),
	}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e), "line %d must be a standalone JSON object", len(entries))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 2)
	assert.Equal(t, "evt_1", entries[0].EventID)
	assert.Equal(t, "hook_1", entries[0].HookID)
	assert.True(t, entries[0].ReceivedAt.Equal(received))
	assert.JSONEq(t, `{"action":"opened","n":1}`, string(entries[0].Payload))
	assert.False(t, entries[0].ProcessedAt.IsZero(), "zero ProcessedAt must be stamped")
	assert.Equal(t, "evt_2", entries[1].EventID)
}

func TestWriteAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(Entry{EventID: "evt_1", Payload: json.RawMessage(`{}`)}))
	require.NoError(t, w.Close())

	w, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(Entry{EventID: "evt_2", Payload: json.RawMessage(`{}`)}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "evt_1")
	assert.Contains(t, string(data), "evt_2")
}

func TestWriteAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "Close must be idempotent")

	err = w.Write(Entry{EventID: "evt_late", Payload: json.RawMessage(`{}`)})
	require.Error(t, err)
}
