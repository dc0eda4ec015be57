// Package blobstore stores binary document content referenced from File
// items. It defines the BlobStore interface, in-memory, PostgreSQL and
// S3-compatible backends, and Echo HTTP handlers for upload, download,
// metadata retrieval and deletion.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrBlobNotFound    = errors.New("blob not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrMissingFileName = errors.New("file name is required")
	ErrCommitted       = errors.New("blob already committed")
)

// MaxFileSize is the maximum allowed blob size in bytes (100 MB).
const MaxFileSize = 100 * 1024 * 1024

// ---------------------------------------------------------------------------
// Domain types
// ---------------------------------------------------------------------------

// BlobMetadata describes a stored blob.
type BlobMetadata struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// BlobWriter receives the content of a new blob. Nothing is stored until
// Commit succeeds; a writer that is never committed is discarded.
type BlobWriter interface {
	io.Writer
	Commit(ctx context.Context) (*BlobMetadata, error)
}

// ---------------------------------------------------------------------------
// BlobStore interface
// ---------------------------------------------------------------------------

// BlobStore defines the contract for blob storage backends. Implementations
// are safe for concurrent use.
type BlobStore interface {
	CreateBlob(ctx context.Context, name, contentType string) (BlobWriter, error)
	Open(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error)
	GetMetadata(ctx context.Context, id string) (*BlobMetadata, error)
	Delete(ctx context.Context, id string) error
}

// Put stores content read from r as a new blob.
func Put(ctx context.Context, store BlobStore, name, contentType string, r io.Reader) (*BlobMetadata, error) {
	w, err := store.CreateBlob(ctx, name, contentType)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(w, r); err != nil {
		return nil, fmt.Errorf("write blob: %w", err)
	}
	return w.Commit(ctx)
}

// ReadAll returns the full content and metadata of a blob.
func ReadAll(ctx context.Context, store BlobStore, id string) ([]byte, *BlobMetadata, error) {
	rc, meta, err := store.Open(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("read blob %s: %w", id, err)
	}
	return data, meta, nil
}

// ---------------------------------------------------------------------------
// Buffered writer shared by the backends
// ---------------------------------------------------------------------------

// bufferedWriter collects content in memory, enforces MaxFileSize, and hands
// the finished blob to a backend-specific save function on Commit.
type bufferedWriter struct {
	meta      BlobMetadata
	buf       bytes.Buffer
	tooLarge  bool
	committed bool
	save      func(ctx context.Context, meta BlobMetadata, data []byte) error
}

func newBufferedWriter(name, contentType string, save func(context.Context, BlobMetadata, []byte) error) (*bufferedWriter, error) {
	if name == "" {
		return nil, ErrMissingFileName
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &bufferedWriter{
		meta: BlobMetadata{FileName: name, ContentType: contentType},
		save: save,
	}, nil
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.committed {
		return 0, ErrCommitted
	}
	if int64(w.buf.Len()+len(p)) > MaxFileSize {
		w.tooLarge = true
		return 0, ErrFileTooLarge
	}
	return w.buf.Write(p)
}

func (w *bufferedWriter) Commit(ctx context.Context) (*BlobMetadata, error) {
	if w.committed {
		return nil, ErrCommitted
	}
	if w.tooLarge {
		return nil, ErrFileTooLarge
	}
	data := w.buf.Bytes()
	h := sha256.Sum256(data)

	meta := w.meta
	meta.ID = uuid.New().String()
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", h)
	meta.CreatedAt = time.Now().UTC()

	if err := w.save(ctx, meta, data); err != nil {
		return nil, err
	}
	w.committed = true
	out := meta
	return &out, nil
}
