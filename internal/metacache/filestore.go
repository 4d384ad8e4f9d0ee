package metacache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the cache mapping as a single JSON file, written
// atomically via a tmp file and rename.
type FileStore struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the mapping from disk. A missing or corrupt file yields an
// empty mapping.
func (s *FileStore) Load(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = data
			return data, nil
		}
		s.data = data
		return data, fmt.Errorf("read cache file: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		// Corrupt content is treated as empty, never fatal.
		data = make(map[string]string)
	}
	s.data = data

	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out, nil
}

// Put updates one entry and rewrites the file.
func (s *FileStore) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]string)
	}
	s.data[key] = value

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o644); err != nil {
		return fmt.Errorf("write cache tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename cache: %w", err)
	}
	return nil
}
