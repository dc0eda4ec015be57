package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool the PostgreSQL backend uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBlobStore keeps blobs in the blobs table created by the db
// migrations.
type PostgresBlobStore struct {
	db Querier
}

// NewPostgresBlobStore returns a BlobStore backed by db.
func NewPostgresBlobStore(db Querier) *PostgresBlobStore {
	return &PostgresBlobStore{db: db}
}

// CreateBlob returns a writer that inserts the blob row on Commit.
func (s *PostgresBlobStore) CreateBlob(_ context.Context, name, contentType string) (BlobWriter, error) {
	w, err := newBufferedWriter(name, contentType, s.insert)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *PostgresBlobStore) insert(ctx context.Context, meta BlobMetadata, data []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO blobs (id, file_name, content_type, size, hash, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		meta.ID, meta.FileName, meta.ContentType, meta.Size, meta.Hash, data, meta.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert blob: %w", err)
	}
	return nil
}

// Open loads the blob content and metadata.
func (s *PostgresBlobStore) Open(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	if !validID(id) {
		return nil, nil, ErrBlobNotFound
	}
	var meta BlobMetadata
	var content []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, file_name, content_type, size, hash, created_at, content FROM blobs WHERE id = $1`, id,
	).Scan(&meta.ID, &meta.FileName, &meta.ContentType, &meta.Size, &meta.Hash, &meta.CreatedAt, &content)
	if err != nil {
		return nil, nil, notFound(err, id)
	}
	return io.NopCloser(bytes.NewReader(content)), &meta, nil
}

// GetMetadata loads blob metadata without content.
func (s *PostgresBlobStore) GetMetadata(ctx context.Context, id string) (*BlobMetadata, error) {
	if !validID(id) {
		return nil, ErrBlobNotFound
	}
	var meta BlobMetadata
	err := s.db.QueryRow(ctx,
		`SELECT id, file_name, content_type, size, hash, created_at FROM blobs WHERE id = $1`, id,
	).Scan(&meta.ID, &meta.FileName, &meta.ContentType, &meta.Size, &meta.Hash, &meta.CreatedAt)
	if err != nil {
		return nil, notFound(err, id)
	}
	return &meta, nil
}

// Delete removes a blob row.
func (s *PostgresBlobStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrBlobNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM blobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlobNotFound
	}
	return nil
}

func notFound(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBlobNotFound
	}
	return fmt.Errorf("load blob %s: %w", id, err)
}

// validID rejects ids the uuid column could never hold.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
