package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// User metadata keys stored alongside each object.
const (
	metaFileName = "File-Name"
	metaHash     = "Sha256"
	metaSize     = "Size"
)

// S3Config holds the connection settings for an S3-compatible endpoint.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewS3Client builds a minio client for cfg.
func NewS3Client(cfg S3Config) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return client, nil
}

// S3BlobStore keeps each blob as one object named by its id.
type S3BlobStore struct {
	client *minio.Client
	bucket string
}

// NewS3BlobStore returns a BlobStore writing to bucket.
func NewS3BlobStore(client *minio.Client, bucket string) *S3BlobStore {
	return &S3BlobStore{client: client, bucket: bucket}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3BlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// CreateBlob returns a writer that uploads the object on Commit.
func (s *S3BlobStore) CreateBlob(_ context.Context, name, contentType string) (BlobWriter, error) {
	w, err := newBufferedWriter(name, contentType, s.put)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *S3BlobStore) put(ctx context.Context, meta BlobMetadata, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, meta.ID, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  meta.ContentType,
		UserMetadata: userMetadata(meta),
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", s.bucket, meta.ID, err)
	}
	return nil
}

// Open streams the object and returns its metadata.
func (s *S3BlobStore) Open(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	meta, err := s.GetMetadata(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, id, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, s3Error(err, id)
	}
	return obj, meta, nil
}

// GetMetadata stats the object.
func (s *S3BlobStore) GetMetadata(ctx context.Context, id string) (*BlobMetadata, error) {
	info, err := s.client.StatObject(ctx, s.bucket, id, minio.StatObjectOptions{})
	if err != nil {
		return nil, s3Error(err, id)
	}
	meta := metadataFromObject(info)
	return &meta, nil
}

// Delete removes the object. Deleting a missing id reports ErrBlobNotFound.
func (s *S3BlobStore) Delete(ctx context.Context, id string) error {
	if _, err := s.GetMetadata(ctx, id); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return s3Error(err, id)
	}
	return nil
}

func userMetadata(meta BlobMetadata) map[string]string {
	return map[string]string{
		metaFileName: meta.FileName,
		metaHash:     meta.Hash,
		metaSize:     strconv.FormatInt(meta.Size, 10),
	}
}

func metadataFromObject(info minio.ObjectInfo) BlobMetadata {
	meta := BlobMetadata{
		ID:          info.Key,
		FileName:    info.UserMetadata[metaFileName],
		ContentType: info.ContentType,
		Size:        info.Size,
		Hash:        info.UserMetadata[metaHash],
		CreatedAt:   info.LastModified.UTC(),
	}
	if meta.FileName == "" {
		meta.FileName = info.Key
	}
	return meta
}

func s3Error(err error, id string) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return ErrBlobNotFound
	}
	return fmt.Errorf("s3 blob %s: %w", id, err)
}
