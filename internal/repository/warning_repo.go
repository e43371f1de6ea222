package repository

import (
	"log/slog"
	"sync"

	"discord-automod-bot/internal/moderr"
)

type WarningRepository interface {
	Append(userID string, w Warning) error
	List(userID string) ([]Warning, error)
	Count(userID string) int
	Clear(userID string) error
	Flush() error
}

// JSONWarningRepository keeps the ledger in memory and rewrites warnings.json
// after every mutation. The write runs on its own goroutine; a failed write is
// logged and the in-memory state stays authoritative.
type JSONWarningRepository struct {
	logger *slog.Logger
	file   *jsonFile

	mu       sync.RWMutex
	warnings map[string][]Warning

	saves sync.WaitGroup
}

func NewWarningRepository(logger *slog.Logger, dataDir string) *JSONWarningRepository {
	r := &JSONWarningRepository{
		logger:   logger,
		file:     newJSONFile(dataDir, "warnings.json"),
		warnings: make(map[string][]Warning),
	}
	if err := r.file.load(&r.warnings); err != nil {
		logger.Error("Failed to load warnings, starting empty", "error", err)
		r.warnings = make(map[string][]Warning)
	}
	if r.warnings == nil {
		r.warnings = make(map[string][]Warning)
	}
	return r
}

func (r *JSONWarningRepository) Append(userID string, w Warning) error {
	r.mu.Lock()
	r.warnings[userID] = append(r.warnings[userID], w)
	r.mu.Unlock()

	r.persistAsync()
	return nil
}

func (r *JSONWarningRepository) List(userID string) ([]Warning, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.warnings[userID]
	if !ok || len(stored) == 0 {
		return nil, moderr.ErrNotFound
	}
	out := make([]Warning, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *JSONWarningRepository) Count(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.warnings[userID])
}

func (r *JSONWarningRepository) Clear(userID string) error {
	r.mu.Lock()
	if _, ok := r.warnings[userID]; !ok {
		r.mu.Unlock()
		return moderr.ErrNotFound
	}
	delete(r.warnings, userID)
	r.mu.Unlock()

	r.persistAsync()
	return nil
}

// Flush waits for in-flight writes and performs one final synchronous save.
// Called on graceful shutdown.
func (r *JSONWarningRepository) Flush() error {
	r.saves.Wait()
	return r.persist()
}

func (r *JSONWarningRepository) persistAsync() {
	r.saves.Add(1)
	go func() {
		defer r.saves.Done()
		if err := r.persist(); err != nil {
			r.logger.Error("Failed to save warnings", "error", err)
		}
	}()
}

func (r *JSONWarningRepository) persist() error {
	r.mu.RLock()
	snapshot := make(map[string][]Warning, len(r.warnings))
	for user, list := range r.warnings {
		snapshot[user] = append([]Warning(nil), list...)
	}
	r.mu.RUnlock()
	return r.file.save(snapshot)
}
