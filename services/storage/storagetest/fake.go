// Package storagetest provides an in-memory StorageService.
package storagetest

import (
	"context"
	"io"
	"path"
	"strings"
	"sync"

	"cleanly/services/storage"
)

// Store keeps uploaded bytes keyed by public id.
type Store struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func New() *Store {
	return &Store{Objects: map[string][]byte{}}
}

func (s *Store) UploadFile(_ context.Context, file io.Reader, destFolder, filename string) (*storage.UploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	id := path.Join(destFolder, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[id] = data
	return &storage.UploadResult{PublicID: id, SecureURL: "https://media.test/" + id}, nil
}

func (s *Store) DeleteFile(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, publicID)
	return nil
}

func (s *Store) URL(publicID string) (string, error) {
	return "https://media.test/" + publicID, nil
}

var _ storage.StorageService = (*Store)(nil)
