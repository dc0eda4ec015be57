package blobstore

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/hvfhir/internal/platform/fhir"
)

// BlobHandler provides Echo HTTP handlers for blob operations.
type BlobHandler struct {
	store BlobStore
}

// NewBlobHandler creates a new BlobHandler.
func NewBlobHandler(store BlobStore) *BlobHandler {
	return &BlobHandler{store: store}
}

// RegisterRoutes mounts blob routes on the supplied Echo group.
//
//	POST   /blobs              - multipart upload (field "file")
//	GET    /blobs/:id          - download content
//	GET    /blobs/:id/metadata - metadata only
//	DELETE /blobs/:id          - delete
func (h *BlobHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/blobs", h.handleUpload)
	g.GET("/blobs/:id/metadata", h.handleGetMetadata)
	g.GET("/blobs/:id", h.handleDownload)
	g.DELETE("/blobs/:id", h.handleDelete)
}

func (h *BlobHandler) handleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.RequiredFieldOutcome("multipart field \"file\" is required"))
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, fhir.InternalErrorOutcome("failed to open uploaded file"))
	}
	defer src.Close()

	result, err := Put(c.Request().Context(), h.store, file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *BlobHandler) handleDownload(c echo.Context) error {
	rc, meta, err := h.store.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	defer rc.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, meta.FileName))
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

func (h *BlobHandler) handleGetMetadata(c echo.Context) error {
	meta, err := h.store.GetMetadata(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, meta)
}

func (h *BlobHandler) handleDelete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrBlobNotFound):
		return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Blob", c.Param("id")))
	case errors.Is(err, ErrFileTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeTooCostly, err.Error()))
	case errors.Is(err, ErrMissingFileName):
		return c.JSON(http.StatusBadRequest, fhir.RequiredFieldOutcome(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, fhir.InternalErrorOutcome("blob store unavailable"))
	}
}
