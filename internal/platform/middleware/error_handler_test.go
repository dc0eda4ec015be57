package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/hvfhir/internal/platform/fhir"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantType string
	}{
		{"not found", echo.ErrNotFound, http.StatusNotFound, fhir.IssueTypeNotFound},
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, fhir.IssueTypeNotSupported},
		{"unauthorized", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, fhir.IssueTypeSecurity},
		{"too large", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large"), http.StatusRequestEntityTooLarge, fhir.IssueTypeTooCostly},
		{"bad request", echo.NewHTTPError(http.StatusBadRequest, "bad"), http.StatusBadRequest, fhir.IssueTypeProcessing},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, fhir.IssueTypeException},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/blobs/x", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var outcome fhir.OperationOutcome
			if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if len(outcome.Issue) != 1 || outcome.Issue[0].Code != tt.wantType {
				t.Errorf("unexpected outcome %+v", outcome)
			}
		})
	}
}

func TestErrorHandler_HidesInternalDetail(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(zerolog.Nop())(errors.New("dial tcp 10.0.0.5:5432: refused"), c)

	var outcome fhir.OperationOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if outcome.Issue[0].Diagnostics != "internal server error" {
		t.Errorf("expected generic diagnostics, got %q", outcome.Issue[0].Diagnostics)
	}
}

func TestErrorHandler_HeadRequest(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(zerolog.Nop())(echo.ErrNotFound, c)

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Errorf("expected empty 404, got %d %q", rec.Code, rec.Body.String())
	}
}
