package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ehr/hvfhir/internal/config"
	"github.com/ehr/hvfhir/internal/mapping/units"
	"github.com/ehr/hvfhir/internal/mapping/vocab"
	"github.com/ehr/hvfhir/internal/platform/blobstore"
	"github.com/ehr/hvfhir/internal/platform/db"
	"github.com/ehr/hvfhir/internal/transform"
)

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

// loadTables returns the vocabulary and unit tables named in cfg, or the
// embedded defaults.
func loadTables(cfg *config.Config) (*vocab.Table, *units.Table, error) {
	vt := vocab.Default()
	if cfg.VocabularyFile != "" {
		t, err := vocab.LoadFile(cfg.VocabularyFile)
		if err != nil {
			return nil, nil, err
		}
		vt = t
	}
	ut := units.Default()
	if cfg.UnitsFile != "" {
		t, err := units.LoadFile(cfg.UnitsFile)
		if err != nil {
			return nil, nil, err
		}
		ut = t
	}
	return vt, ut, nil
}

// openBlobStore connects the backend selected by BLOB_BACKEND. The returned
// pool is nil unless the backend is PostgreSQL; the caller closes it.
func openBlobStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (blobstore.BlobStore, *pgxpool.Pool, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("connected to database")
		return blobstore.NewPostgresBlobStore(pool), pool, nil

	case config.BlobBackendS3:
		client, err := blobstore.NewS3Client(blobstore.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		store := blobstore.NewS3BlobStore(client, cfg.S3Bucket)
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("using s3 blob store")
		return store, nil, nil

	case config.BlobBackendMemory:
		logger.Warn().Msg("using in-memory blob store; content is lost on restart")
		return blobstore.NewInMemoryBlobStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}

// newTransformer builds a Transformer from cfg. blobs may be nil, in which
// case file content always travels inline.
func newTransformer(cfg *config.Config, logger zerolog.Logger, blobs blobstore.BlobStore) (*transform.Transformer, error) {
	vt, ut, err := loadTables(cfg)
	if err != nil {
		return nil, err
	}
	opts := []transform.Option{
		transform.WithVocabulary(vt),
		transform.WithUnits(ut),
		transform.WithLogger(logger),
	}
	if blobs != nil {
		opts = append(opts, transform.WithBlobStore(blobs))
	}
	return transform.New(opts...), nil
}

func stderrLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(cfg, os.Stderr)
}
