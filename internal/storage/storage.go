package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MASHINC1/LinkMan/internal/config"
	"github.com/MASHINC1/LinkMan/internal/model"
)

// Storage defines the interface for persisting the link snapshot.
type Storage interface {
	Load() (*model.Store, error)
	Save(store *model.Store) error
	Path() string
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the snapshot from the JSON file and repairs it.
// Returns an empty store if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewStore(), nil
		}
		return nil, err
	}

	store, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return store, nil
}

// Save writes the snapshot to the JSON file.
// The file is replaced atomically so a watcher never sees a partial write.
func (s *JSONStorage) Save(store *model.Store) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := EncodeSnapshot(store)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".linkman-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// DecodeSnapshot parses a JSON snapshot and restores the store invariants.
func DecodeSnapshot(data []byte) (*model.Store, error) {
	var store model.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, err
	}
	store.Repair()
	return &store, nil
}

// EncodeSnapshot renders the store as indented JSON.
func EncodeSnapshot(store *model.Store) ([]byte, error) {
	return json.MarshalIndent(store, "", "  ")
}

// Open opens the storage backend selected in cfg.
func Open(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return NewSQLiteStorage(cfg.Path)
	case config.BackendJSON, "":
		return NewJSONStorage(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Close releases resources held by s, if any.
func Close(s Storage) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
