package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"discord-automod-bot/internal/moderr"
)

// jsonFile serializes one whole store to disk. Writes go through a temp file
// and rename so a crashed save never truncates the store.
type jsonFile struct {
	path    string
	writeMu sync.Mutex
}

func newJSONFile(dataDir, name string) *jsonFile {
	return &jsonFile{path: filepath.Join(dataDir, name)}
}

// load reads the store into v. A missing file is not an error: the store
// simply starts empty.
func (f *jsonFile) load(v any) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &moderr.PersistenceError{Op: "load", Path: f.path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &moderr.PersistenceError{Op: "load", Path: f.path, Err: err}
	}
	return nil
}

func (f *jsonFile) save(v any) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return &moderr.PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return &moderr.PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	tmp := fmt.Sprintf("%s.tmp", f.path)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &moderr.PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return &moderr.PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	return nil
}
