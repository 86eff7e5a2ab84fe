package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"FxDesk/internal/domain/models"
)

// FileSettingsStore persists the settings blob as one JSON document on disk,
// the same shape the dashboard keeps in browser storage.
type FileSettingsStore struct {
	path string
	mu   sync.Mutex
}

func NewFileSettingsStore(path string) *FileSettingsStore {
	return &FileSettingsStore{path: path}
}

// Load reads the blob and merges it over the defaults. A missing file is not
// an error; it yields the defaults.
func (s *FileSettingsStore) Load() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := models.DefaultSettings()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return def, nil
		}
		return models.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var loaded models.Settings
	if err := json.Unmarshal(b, &loaded); err != nil {
		return models.Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return loaded.Merge(def), nil
}

// Save writes the blob through a temp file and rename so a crash mid-write
// never leaves a truncated document.
func (s *FileSettingsStore) Save(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	b, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
