package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"discord-automod-bot/internal/moderr"
	"discord-automod-bot/internal/repository"
)

type mockWarningRepo struct {
	mu        sync.Mutex
	warnings  map[string][]repository.Warning
	appendErr error
}

func newMockWarningRepo() *mockWarningRepo {
	return &mockWarningRepo{warnings: make(map[string][]repository.Warning)}
}

func (m *mockWarningRepo) Append(userID string, w repository.Warning) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings[userID] = append(m.warnings[userID], w)
	return nil
}

func (m *mockWarningRepo) List(userID string) ([]repository.Warning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.warnings[userID]
	if !ok || len(list) == 0 {
		return nil, moderr.ErrNotFound
	}
	return append([]repository.Warning(nil), list...), nil
}

func (m *mockWarningRepo) Count(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warnings[userID])
}

func (m *mockWarningRepo) Clear(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.warnings[userID]; !ok {
		return moderr.ErrNotFound
	}
	delete(m.warnings, userID)
	return nil
}

func (m *mockWarningRepo) Flush() error { return nil }

type mockNoteRepo struct {
	mu    sync.Mutex
	notes map[string][]repository.Note
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[string][]repository.Note)}
}

func (m *mockNoteRepo) Append(userID string, n repository.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[userID] = append(m.notes[userID], n)
	return nil
}

func (m *mockNoteRepo) List(userID string) ([]repository.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.notes[userID]
	if !ok || len(list) == 0 {
		return nil, moderr.ErrNotFound
	}
	return append([]repository.Note(nil), list...), nil
}

func (m *mockNoteRepo) Flush() error { return nil }

type mockWordRepo struct {
	mu    sync.Mutex
	words []string
}

func (m *mockWordRepo) Add(word string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words = append(m.words, strings.ToLower(word))
	return nil
}

func (m *mockWordRepo) Remove(word string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, w := range m.words {
		if w == word {
			m.words = append(m.words[:i], m.words[i+1:]...)
			return nil
		}
	}
	return moderr.ErrNotFound
}

func (m *mockWordRepo) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.words {
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}

func (m *mockWordRepo) Words() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.words...)
}

func (m *mockWordRepo) Flush() error { return nil }

type mockSettingsRepo struct {
	mu       sync.Mutex
	settings repository.AutoModSettings
}

func (m *mockSettingsRepo) Get() repository.AutoModSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

func (m *mockSettingsRepo) Update(s repository.AutoModSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

func (m *mockSettingsRepo) Flush() error { return nil }

type sinkCall struct {
	op        string
	guildID   string
	channelID string
	userID    string
	messageID string
	duration  time.Duration
	reason    string
	text      string
}

type mockSink struct {
	mu         sync.Mutex
	calls      []sinkCall
	deleteErr  error
	timeoutErr error
	banErr     error
}

func (m *mockSink) DeleteMessage(_ context.Context, channelID, messageID string) error {
	m.record(sinkCall{op: "delete", channelID: channelID, messageID: messageID})
	return m.deleteErr
}

func (m *mockSink) Timeout(_ context.Context, guildID, userID string, duration time.Duration, reason string) error {
	m.record(sinkCall{op: "timeout", guildID: guildID, userID: userID, duration: duration, reason: reason})
	return m.timeoutErr
}

func (m *mockSink) Ban(_ context.Context, guildID, userID, reason string) error {
	m.record(sinkCall{op: "ban", guildID: guildID, userID: userID, reason: reason})
	return m.banErr
}

func (m *mockSink) Notify(_ context.Context, channelID, text string) error {
	m.record(sinkCall{op: "notify", channelID: channelID, text: text})
	return nil
}

func (m *mockSink) record(c sinkCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *mockSink) byOp(op string) []sinkCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sinkCall
	for _, c := range m.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}
