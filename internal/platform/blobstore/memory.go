package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync"
)

type storedBlob struct {
	metadata BlobMetadata
	content  []byte
}

// InMemoryBlobStore is a thread-safe, in-memory BlobStore for testing/dev.
type InMemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]*storedBlob
}

// NewInMemoryBlobStore returns a ready-to-use InMemoryBlobStore.
func NewInMemoryBlobStore() *InMemoryBlobStore {
	return &InMemoryBlobStore{
		blobs: make(map[string]*storedBlob),
	}
}

// CreateBlob returns a writer whose content is kept in memory on Commit.
func (s *InMemoryBlobStore) CreateBlob(_ context.Context, name, contentType string) (BlobWriter, error) {
	w, err := newBufferedWriter(name, contentType, s.save)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *InMemoryBlobStore) save(_ context.Context, meta BlobMetadata, data []byte) error {
	content := make([]byte, len(data))
	copy(content, data)

	s.mu.Lock()
	s.blobs[meta.ID] = &storedBlob{metadata: meta, content: content}
	s.mu.Unlock()
	return nil
}

// Open returns a reader over the blob content and its metadata.
func (s *InMemoryBlobStore) Open(_ context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	s.mu.RLock()
	blob, ok := s.blobs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrBlobNotFound
	}
	meta := blob.metadata // copy
	return io.NopCloser(bytes.NewReader(blob.content)), &meta, nil
}

// GetMetadata returns blob metadata without content.
func (s *InMemoryBlobStore) GetMetadata(_ context.Context, id string) (*BlobMetadata, error) {
	s.mu.RLock()
	blob, ok := s.blobs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrBlobNotFound
	}
	meta := blob.metadata // copy
	return &meta, nil
}

// Delete removes a blob by ID.
func (s *InMemoryBlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[id]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, id)
	return nil
}
