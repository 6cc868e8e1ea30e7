// Package storage keeps uploaded documents on local disk when no Supabase
// project is configured.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"print-order-backend/internal/models"
)

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload folder: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(ctx context.Context, filename, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.Base(filename))
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

func (s *LocalStore) Get(ctx context.Context, filename string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(filename)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
