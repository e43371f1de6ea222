package repository

import (
	"log/slog"
	"sync"

	"discord-automod-bot/internal/moderr"
)

type NoteRepository interface {
	Append(userID string, n Note) error
	List(userID string) ([]Note, error)
	Flush() error
}

type JSONNoteRepository struct {
	logger *slog.Logger
	file   *jsonFile

	mu    sync.RWMutex
	notes map[string][]Note

	saves sync.WaitGroup
}

func NewNoteRepository(logger *slog.Logger, dataDir string) *JSONNoteRepository {
	r := &JSONNoteRepository{
		logger: logger,
		file:   newJSONFile(dataDir, "user_notes.json"),
		notes:  make(map[string][]Note),
	}
	if err := r.file.load(&r.notes); err != nil {
		logger.Error("Failed to load notes, starting empty", "error", err)
		r.notes = make(map[string][]Note)
	}
	if r.notes == nil {
		r.notes = make(map[string][]Note)
	}
	return r
}

func (r *JSONNoteRepository) Append(userID string, n Note) error {
	r.mu.Lock()
	r.notes[userID] = append(r.notes[userID], n)
	r.mu.Unlock()

	r.saves.Add(1)
	go func() {
		defer r.saves.Done()
		if err := r.persist(); err != nil {
			r.logger.Error("Failed to save notes", "error", err)
		}
	}()
	return nil
}

func (r *JSONNoteRepository) List(userID string) ([]Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.notes[userID]
	if !ok || len(stored) == 0 {
		return nil, moderr.ErrNotFound
	}
	out := make([]Note, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *JSONNoteRepository) Flush() error {
	r.saves.Wait()
	return r.persist()
}

func (r *JSONNoteRepository) persist() error {
	r.mu.RLock()
	snapshot := make(map[string][]Note, len(r.notes))
	for user, list := range r.notes {
		snapshot[user] = append([]Note(nil), list...)
	}
	r.mu.RUnlock()
	return r.file.save(snapshot)
}
