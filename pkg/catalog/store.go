package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/contextware/better-agents/pkg/logger"
)

// cacheFileName is the single on-disk snapshot slot inside the dot
// directory. A new snapshot always overwrites the previous one.
const cacheFileName = "skills-cache.json"

// Store persists at most one catalog snapshot.
type Store interface {
	// Load returns the persisted snapshot, or nil when no usable snapshot
	// exists. A corrupt slot counts as absent and is removed so it cannot
	// fail again on the next run.
	Load() *Snapshot

	// Save persists snap, replacing any previous snapshot.
	Save(snap *Snapshot) error

	// Delete removes the persisted snapshot. Deleting an empty slot is
	// not an error.
	Delete() error
}

type fileStore struct {
	path string
	log  *slog.Logger
}

// NewFileStore returns a Store backed by a JSON file inside dir.
func NewFileStore(dir string, log *slog.Logger) Store {
	if log == nil {
		log = logger.Nop()
	}

	return &fileStore{
		path: filepath.Join(dir, cacheFileName),
		log:  log,
	}
}

func (s *fileStore) Load() *Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Debug("discarding corrupt skills cache", "path", s.path, "error", err)
		_ = os.Remove(s.path)
		return nil
	}

	return &snap
}

func (s *fileStore) Save(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding skills cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing skills cache: %w", err)
	}

	return nil
}

func (s *fileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting skills cache: %w", err)
	}

	return nil
}
