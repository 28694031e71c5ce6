package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/readlit/internal/constants"
)

// JSONStore mirrors the snapshot to a single JSON file, the same document
// export writes.
type JSONStore struct {
	path   string
	loaded bool
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := os.WriteFile(s.path, nil, 0600); err != nil {
			return fmt.Errorf("failed to create storage file: %w", err)
		}
	}

	s.loaded = true
	return nil
}

func (s *JSONStore) Load() error {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Close() error {
	s.loaded = false
	return nil
}

func (s *JSONStore) LoadSnapshot() ([]byte, error) {
	if !s.loaded {
		return nil, fmt.Errorf("storage not loaded")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoSnapshot
	}
	return data, nil
}

// SaveSnapshot writes through a temporary file so a crash never leaves a
// truncated snapshot behind.
func (s *JSONStore) SaveSnapshot(data []byte) error {
	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Reset() error {
	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}
	if err := os.WriteFile(s.path, nil, 0600); err != nil {
		return fmt.Errorf("failed to reset storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
