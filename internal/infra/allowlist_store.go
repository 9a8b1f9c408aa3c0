package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// corruptSuffix is appended to a malformed allow-list file when it is set aside.
const corruptSuffix = ".corrupt"

// JSONAllowListStore implements domain.AllowListStore as a JSON array of strings.
type JSONAllowListStore struct {
	path string
}

// NewAllowListStore creates a store backed by path. A relative path resolves
// against the working directory at the time of each call.
func NewAllowListStore(path string) *JSONAllowListStore {
	return &JSONAllowListStore{path: path}
}

// Path returns the backing file path.
func (s *JSONAllowListStore) Path() string {
	return s.path
}

// Load returns the stored entries in file order.
// Missing file and JSON null both yield an empty list.
func (s *JSONAllowListStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read allow-list: %w", err)
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPersistenceCorrupt, s.path, err)
	}
	if entries == nil {
		entries = []string{}
	}
	return entries, nil
}

// Save replaces the file with entries. An empty list is written as [].
// Entries that JSON cannot carry unchanged (invalid UTF-8) fail the whole save.
func (s *JSONAllowListStore) Save(entries []string) error {
	if entries == nil {
		entries = []string{}
	}
	for i, entry := range entries {
		if !utf8.ValidString(entry) {
			return fmt.Errorf("%w: entry %d %q is not valid UTF-8", domain.ErrInvalidEntry, i, entry)
		}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return s.atomicWrite(data)
}

// Quarantine moves a corrupt file aside so the next Save does not destroy it.
// Returns the new location.
func (s *JSONAllowListStore) Quarantine() (string, error) {
	dst := s.path + corruptSuffix
	if err := os.Rename(s.path, dst); err != nil {
		return "", fmt.Errorf("failed to move corrupt allow-list aside: %w", err)
	}
	return dst, nil
}

// atomicWrite writes to a temp file in the same directory, syncs and renames.
func (s *JSONAllowListStore) atomicWrite(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create allow-list directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath) // Clean up on failure
		return err
	}
	return nil
}

// Ensure JSONAllowListStore implements domain.AllowListStore.
var _ domain.AllowListStore = (*JSONAllowListStore)(nil)
