package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/hvfhir/internal/config"
	"github.com/ehr/hvfhir/internal/platform/auth"
	"github.com/ehr/hvfhir/internal/platform/blobstore"
	"github.com/ehr/hvfhir/internal/platform/db"
	"github.com/ehr/hvfhir/internal/platform/middleware"
	"github.com/ehr/hvfhir/internal/transform"
)

const requestTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the conversion API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, pool, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open blob store")
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	tr, err := newTransformer(cfg, logger, store)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load mapping tables")
		return err
	}

	e := newServer(cfg, logger, tr, store, pool)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("blob_backend", cfg.BlobBackend).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires middleware and routes. pool is nil unless the blob store
// is PostgreSQL-backed.
func newServer(cfg *config.Config, logger zerolog.Logger, tr *transform.Transformer, store blobstore.BlobStore, pool *pgxpool.Pool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(requestTimeout, isBlobDownload))

	// Auth middleware
	if cfg.AuthSigningKey == "" {
		logger.Warn().Msg("AUTH_SIGNING_KEY not set; API is unauthenticated")
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	apiV1 := e.Group("/api/v1")

	convert := apiV1.Group("", auth.RequireScope(auth.ScopeConvert))
	transform.NewHandler(tr, logger).RegisterRoutes(convert)

	blobs := apiV1.Group("", auth.ScopeByMethod(auth.ScopeBlobsRead, auth.ScopeBlobsWrite))
	blobstore.NewBlobHandler(store).RegisterRoutes(blobs)

	return e
}

// isBlobDownload keeps streaming downloads out of the request timeout.
func isBlobDownload(c echo.Context) bool {
	return c.Request().Method == http.MethodGet && c.Path() == "/api/v1/blobs/:id"
}
