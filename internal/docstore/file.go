package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps each document as <dir>/<name>.json.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Load(ctx context.Context, name string, seed []byte) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read document %s: %w", name, err)
	}
	if err := s.initialize(name, seed); err != nil {
		return nil, err
	}
	return append([]byte(nil), seed...), nil
}

// initialize writes the seed with O_EXCL so that two racing first loads
// produce exactly one write; the loser simply keeps the winner's document.
func (s *FileStore) initialize(name string, seed []byte) error {
	file, err := os.OpenFile(s.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("initialize document %s: %w", name, err)
	}
	if _, err := file.Write(seed); err != nil {
		file.Close()
		return fmt.Errorf("initialize document %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("initialize document %s: %w", name, err)
	}
	return nil
}

// Save writes to a temp file in the same directory and renames it over the
// document, so readers never observe a half-written file.
func (s *FileStore) Save(ctx context.Context, name string, doc []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("save document %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("save document %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save document %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, s.path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save document %s: %w", name, err)
	}
	return nil
}
