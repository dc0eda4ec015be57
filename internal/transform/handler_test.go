package transform

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/hvfhir/internal/mapping/units"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

func newTestServer() *echo.Echo {
	e := echo.New()
	h := NewHandler(newTransformer(), zerolog.Nop())
	h.RegisterRoutes(e.Group("/api/v1"))
	return e
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeOutcome(t *testing.T, rec *httptest.ResponseRecorder) *fhir.OperationOutcome {
	t.Helper()
	var oo fhir.OperationOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &oo); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if oo.ResourceType != "OperationOutcome" {
		t.Fatalf("expected OperationOutcome, got %q", oo.ResourceType)
	}
	return &oo
}

// ---------------------------------------------------------------------------
// POST /convert/fhir
// ---------------------------------------------------------------------------

func TestHandleToFhir_Success(t *testing.T) {
	e := newTestServer()
	body := `{"type":"weight","item":{"when":{"date":{"y":2020,"m":1,"d":2}},"value":{"kg":70}}}`
	rec := post(e, "/api/v1/convert/fhir", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != FHIRContentType {
		t.Errorf("expected %s, got %q", FHIRContentType, ct)
	}
	res, err := fhir.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obs, ok := res.(*fhir.Observation)
	if !ok {
		t.Fatalf("expected Observation, got %T", res)
	}
	if obs.ValueQuantity == nil || *obs.ValueQuantity.Value != 70 {
		t.Errorf("unexpected value %+v", obs.ValueQuantity)
	}
}

func TestHandleToFhir_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"type":`, http.StatusBadRequest},
		{"unknown type", `{"type":"dream-journal","item":{}}`, http.StatusBadRequest},
		{"missing item", `{"type":"weight"}`, http.StatusBadRequest},
		{"missing required field", `{"type":"condition","item":{"name":{"text":""}}}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(newTestServer(), "/api/v1/convert/fhir", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			oo := decodeOutcome(t, rec)
			if len(oo.Issue) == 0 {
				t.Error("expected at least one issue")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// POST /convert/healthvault
// ---------------------------------------------------------------------------

func TestHandleToHealthVault_Success(t *testing.T) {
	e := newTestServer()
	body := `{"resourceType":"Condition","code":{"text":"Migraine"},"onsetDateTime":"2012-05"}`
	rec := post(e, "/api/v1/convert/healthvault", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	th, err := thing.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	c, ok := th.(*thing.Condition)
	if !ok {
		t.Fatalf("expected Condition, got %T", th)
	}
	if c.Name.Text != "Migraine" || c.OnsetDate == nil || *c.OnsetDate.Date.Month != 5 {
		t.Errorf("unexpected condition %+v", c)
	}
}

func TestHandleToHealthVault_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `not json`, http.StatusBadRequest},
		{"unknown resource type", `{"resourceType":"Encounter"}`, http.StatusBadRequest},
		{"unsupported resource", `{"resourceType":"Organization","name":"Acme"}`, http.StatusNotImplemented},
		{"dose range", `{"resourceType":"MedicationStatement","medicationCodeableConcept":{"text":"Aspirin"},` +
			`"dosage":[{"doseAndRate":[{"doseRange":{"low":{"value":1},"high":{"value":2}}}]}]}`, http.StatusNotImplemented},
		{"no effective date", `{"resourceType":"Observation","code":{"coding":[{"system":"http://loinc.org","code":"29463-7"}]},` +
			`"valueQuantity":{"value":70,"code":"kg"}}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(newTestServer(), "/api/v1/convert/healthvault", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			decodeOutcome(t, rec)
		})
	}
}

func TestHandleToHealthVault_BrokenUnitTable(t *testing.T) {
	tbl, err := units.Load([]byte("entries:\n  - {code: kg, unit: kg, measurement: masss}\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e := echo.New()
	NewHandler(newTransformer(WithUnits(tbl)), zerolog.Nop()).RegisterRoutes(e.Group("/api/v1"))

	body := `{"resourceType":"Observation","code":{"coding":[{"system":"http://loinc.org","code":"29463-7"}]},` +
		`"effectiveDateTime":"2020-01-01","valueQuantity":{"value":70,"code":"kg"}}`
	rec := post(e, "/api/v1/convert/healthvault", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
	oo := decodeOutcome(t, rec)
	if oo.Issue[0].Code != fhir.IssueTypeException {
		t.Errorf("expected exception issue, got %q", oo.Issue[0].Code)
	}
}
