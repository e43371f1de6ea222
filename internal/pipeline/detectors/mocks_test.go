package detectors

import (
	"strings"

	"discord-automod-bot/internal/repository"
)

type mockSettingsRepo struct {
	settings repository.AutoModSettings
}

func (m *mockSettingsRepo) Get() repository.AutoModSettings {
	return m.settings
}

func (m *mockSettingsRepo) Update(s repository.AutoModSettings) error {
	m.settings = s
	return nil
}

func (m *mockSettingsRepo) Flush() error { return nil }

type mockWordRepo struct {
	words []string
}

func (m *mockWordRepo) Add(word string) error    { m.words = append(m.words, word); return nil }
func (m *mockWordRepo) Remove(word string) error { return nil }
func (m *mockWordRepo) Words() []string          { return m.words }
func (m *mockWordRepo) Flush() error             { return nil }

func (m *mockWordRepo) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range m.words {
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}
