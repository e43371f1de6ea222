package repository

import (
	"log/slog"
	"sync"
)

type SettingsRepository interface {
	Get() AutoModSettings
	Update(s AutoModSettings) error
	Flush() error
}

// JSONSettingsRepository holds the live auto-moderation thresholds. Readers
// always see the latest values: a setting changed mid-burst affects in-flight
// detection windows, there is no snapshot versioning.
type JSONSettingsRepository struct {
	logger *slog.Logger
	file   *jsonFile

	mu       sync.RWMutex
	settings AutoModSettings

	saves sync.WaitGroup
}

func NewSettingsRepository(logger *slog.Logger, dataDir string) *JSONSettingsRepository {
	r := &JSONSettingsRepository{
		logger:   logger,
		file:     newJSONFile(dataDir, "automod_config.json"),
		settings: DefaultAutoModSettings(),
	}
	if err := r.file.load(&r.settings); err != nil {
		logger.Error("Failed to load automod config, using defaults", "error", err)
		r.settings = DefaultAutoModSettings()
	}
	return r
}

func (r *JSONSettingsRepository) Get() AutoModSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

func (r *JSONSettingsRepository) Update(s AutoModSettings) error {
	r.mu.Lock()
	r.settings = s
	r.mu.Unlock()

	r.saves.Add(1)
	go func() {
		defer r.saves.Done()
		if err := r.file.save(s); err != nil {
			r.logger.Error("Failed to save automod config", "error", err)
		}
	}()
	return nil
}

func (r *JSONSettingsRepository) Flush() error {
	r.saves.Wait()
	return r.file.save(r.Get())
}
