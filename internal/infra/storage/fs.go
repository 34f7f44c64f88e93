package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FSStoreはローカルディスク実装。/images/ 配下を静的配信する前提。
type FSStore struct {
	dir     string
	baseURL string
}

func NewFSStore(dir, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *FSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return os.WriteFile(filepath.Join(s.dir, filepath.Base(key)), data, 0o644)
}

func (s *FSStore) PublicURL(key string) string {
	return s.baseURL + "/images/" + key
}

func (s *FSStore) Remove(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
