package transform

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

// FHIRContentType is the media type of converted resources.
const FHIRContentType = "application/fhir+json"

// Handler exposes the Transformer over HTTP. Errors are returned as FHIR
// OperationOutcome bodies.
type Handler struct {
	tr  *Transformer
	log zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(tr *Transformer, log zerolog.Logger) *Handler {
	return &Handler{tr: tr, log: log}
}

// RegisterRoutes mounts the conversion routes on g.
//
//	POST /convert/fhir        - item envelope in, FHIR resource out
//	POST /convert/healthvault - FHIR resource in, item envelope out
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/convert/fhir", h.handleToFhir)
	g.POST("/convert/healthvault", h.handleToHealthVault)
}

func (h *Handler) handleToFhir(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome("read request body: "+err.Error()))
	}
	th, err := thing.Decode(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeStructure, err.Error()))
	}

	res, err := h.tr.ToFhir(c.Request().Context(), th)
	if err != nil {
		return h.fail(c, err)
	}
	data, err := fhir.Encode(res)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Blob(http.StatusOK, FHIRContentType, data)
}

func (h *Handler) handleToHealthVault(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome("read request body: "+err.Error()))
	}
	res, err := fhir.Decode(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeStructure, err.Error()))
	}

	th, err := h.tr.ToHealthVault(c.Request().Context(), res)
	if err != nil {
		return h.fail(c, err)
	}
	data, err := thing.Encode(th)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrUnrepresentable):
		return c.JSON(http.StatusUnprocessableEntity, fhir.RequiredFieldOutcome(err.Error()))
	case errors.Is(err, ErrNotImplemented):
		return c.JSON(http.StatusNotImplemented, fhir.NotSupportedOutcome(err.Error()))
	case errors.Is(err, ErrNilInput):
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome(err.Error()))
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("conversion failed")
		return c.JSON(http.StatusInternalServerError, fhir.InternalErrorOutcome("conversion failed"))
	}
}
