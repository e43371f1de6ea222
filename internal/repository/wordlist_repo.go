package repository

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"discord-automod-bot/internal/moderr"
	"discord-automod-bot/internal/utils"
)

type WordListRepository interface {
	Add(word string) error
	Remove(word string) error
	Match(text string) (string, bool)
	Words() []string
	Flush() error
}

// JSONWordListRepository is the filtered word set backing the content filter.
// Membership is substring containment against lower-cased message text.
type JSONWordListRepository struct {
	logger *slog.Logger
	file   *jsonFile

	mu    sync.RWMutex
	words map[string]struct{}

	saves sync.WaitGroup
}

func NewWordListRepository(logger *slog.Logger, dataDir string) *JSONWordListRepository {
	r := &JSONWordListRepository{
		logger: logger,
		file:   newJSONFile(dataDir, "filtered_words.json"),
		words:  make(map[string]struct{}),
	}
	var stored []string
	if err := r.file.load(&stored); err != nil {
		logger.Error("Failed to load filtered words, starting empty", "error", err)
	}
	for _, w := range stored {
		r.words[utils.NormalizeWord(w)] = struct{}{}
	}
	return r
}

func (r *JSONWordListRepository) Add(word string) error {
	norm := utils.NormalizeWord(word)
	if norm == "" {
		return nil
	}
	r.mu.Lock()
	r.words[norm] = struct{}{}
	r.mu.Unlock()

	r.persistAsync()
	return nil
}

func (r *JSONWordListRepository) Remove(word string) error {
	norm := utils.NormalizeWord(word)
	r.mu.Lock()
	if _, ok := r.words[norm]; !ok {
		r.mu.Unlock()
		return moderr.ErrNotFound
	}
	delete(r.words, norm)
	r.mu.Unlock()

	r.persistAsync()
	return nil
}

// Match reports the first banned word contained in the lower-cased text.
func (r *JSONWordListRepository) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for w := range r.words {
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}

func (r *JSONWordListRepository) Words() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.words))
	for w := range r.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func (r *JSONWordListRepository) Flush() error {
	r.saves.Wait()
	return r.persist()
}

func (r *JSONWordListRepository) persistAsync() {
	r.saves.Add(1)
	go func() {
		defer r.saves.Done()
		if err := r.persist(); err != nil {
			r.logger.Error("Failed to save filtered words", "error", err)
		}
	}()
}

func (r *JSONWordListRepository) persist() error {
	return r.file.save(r.Words())
}
