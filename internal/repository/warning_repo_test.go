package repository

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"discord-automod-bot/internal/moderr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestWarningRepository_AppendListCount(t *testing.T) {
	r := NewWarningRepository(testLogger(), t.TempDir())

	_, err := r.List("u1")
	assert.ErrorIs(t, err, moderr.ErrNotFound)
	assert.Equal(t, 0, r.Count("u1"))

	w1 := Warning{Reason: "first", Moderator: "mod", Timestamp: time.Now().UTC()}
	w2 := Warning{Reason: "second", Moderator: "mod", Timestamp: time.Now().UTC()}

	assert.NoError(t, r.Append("u1", w1))
	assert.Equal(t, 1, r.Count("u1"))
	assert.NoError(t, r.Append("u1", w2))
	assert.Equal(t, 2, r.Count("u1"))

	list, err := r.List("u1")
	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Reason, "insertion order is chronological order")
	assert.Equal(t, "second", list[1].Reason)
}

func TestWarningRepository_Clear(t *testing.T) {
	r := NewWarningRepository(testLogger(), t.TempDir())

	assert.ErrorIs(t, r.Clear("u1"), moderr.ErrNotFound)

	assert.NoError(t, r.Append("u1", Warning{Reason: "x", Moderator: "m", Timestamp: time.Now().UTC()}))
	assert.NoError(t, r.Clear("u1"))
	assert.Equal(t, 0, r.Count("u1"))

	// Counting restarts from zero after a clear.
	assert.NoError(t, r.Append("u1", Warning{Reason: "y", Moderator: "m", Timestamp: time.Now().UTC()}))
	assert.Equal(t, 1, r.Count("u1"))
}

func TestWarningRepository_PersistAndReload(t *testing.T) {
	dir := t.TempDir()
	r := NewWarningRepository(testLogger(), dir)

	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, r.Append("42", Warning{Reason: "spamming", Moderator: "7", Timestamp: ts}))
	assert.NoError(t, r.Flush())

	// The persisted shape is a user-id keyed object of warning arrays.
	data, err := os.ReadFile(filepath.Join(dir, "warnings.json"))
	assert.NoError(t, err)
	var onDisk map[string][]map[string]any
	assert.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk["42"], 1)
	assert.Equal(t, "spamming", onDisk["42"][0]["reason"])
	assert.Equal(t, "7", onDisk["42"][0]["moderator"])

	reloaded := NewWarningRepository(testLogger(), dir)
	list, err := reloaded.List("42")
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.True(t, list[0].Timestamp.Equal(ts))
}

func TestWarningRepository_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "warnings.json"), []byte("{not json"), 0o644))

	r := NewWarningRepository(testLogger(), dir)
	assert.Equal(t, 0, r.Count("u1"))
	assert.NoError(t, r.Append("u1", Warning{Reason: "x", Moderator: "m", Timestamp: time.Now().UTC()}))
	assert.Equal(t, 1, r.Count("u1"))
}
