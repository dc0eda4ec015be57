package fhir

import (
	"encoding/json"
	"testing"
)

func TestNewOperationOutcome(t *testing.T) {
	oo := NewOperationOutcome("error", "processing", "something went wrong")

	if oo.ResourceType != "OperationOutcome" {
		t.Errorf("expected resourceType OperationOutcome, got %s", oo.ResourceType)
	}
	if len(oo.Issue) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(oo.Issue))
	}
	if oo.Issue[0].Severity != "error" {
		t.Errorf("expected severity error, got %s", oo.Issue[0].Severity)
	}
	if oo.Issue[0].Code != "processing" {
		t.Errorf("expected code processing, got %s", oo.Issue[0].Code)
	}
	if oo.Issue[0].Diagnostics != "something went wrong" {
		t.Errorf("expected diagnostics 'something went wrong', got %s", oo.Issue[0].Diagnostics)
	}
}

func TestErrorOutcome(t *testing.T) {
	oo := ErrorOutcome("test error")
	if oo.Issue[0].Severity != "error" {
		t.Error("expected error severity")
	}
	if oo.Issue[0].Diagnostics != "test error" {
		t.Errorf("expected diagnostics 'test error', got %s", oo.Issue[0].Diagnostics)
	}
}

func TestNotFoundOutcome(t *testing.T) {
	oo := NotFoundOutcome("Patient", "123")
	if oo.Issue[0].Code != "not-found" {
		t.Error("expected not-found code")
	}
	if oo.Issue[0].Diagnostics != "Patient/123 not found" {
		t.Errorf("unexpected diagnostics: %s", oo.Issue[0].Diagnostics)
	}
}

func TestRequiredFieldOutcome(t *testing.T) {
	oo := RequiredFieldOutcome("resourceType is required")

	if oo.Issue[0].Code != IssueTypeRequired {
		t.Errorf("expected required code, got %s", oo.Issue[0].Code)
	}
	if oo.Issue[0].Diagnostics != "resourceType is required" {
		t.Errorf("unexpected diagnostics: %s", oo.Issue[0].Diagnostics)
	}
}

func TestNotSupportedOutcome(t *testing.T) {
	oo := NotSupportedOutcome("operation not supported")

	if oo.Issue[0].Code != IssueTypeNotSupported {
		t.Errorf("expected not-supported code, got %s", oo.Issue[0].Code)
	}
}

func TestInternalErrorOutcome(t *testing.T) {
	oo := InternalErrorOutcome("database error")

	if oo.Issue[0].Code != IssueTypeException {
		t.Errorf("expected exception code, got %s", oo.Issue[0].Code)
	}
	if oo.Issue[0].Severity != IssueSeverityFatal {
		t.Errorf("expected fatal severity, got %s", oo.Issue[0].Severity)
	}
}

func TestOperationOutcome_HasErrors(t *testing.T) {
	tests := []struct {
		name       string
		severities []string
		want       bool
	}{
		{"empty", nil, false},
		{"warning only", []string{IssueSeverityWarning}, false},
		{"information only", []string{IssueSeverityInformation}, false},
		{"error", []string{IssueSeverityWarning, IssueSeverityError}, true},
		{"fatal", []string{IssueSeverityFatal}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oo := &OperationOutcome{ResourceType: "OperationOutcome"}
			for _, sev := range tt.severities {
				oo.Issue = append(oo.Issue, OperationOutcomeIssue{Severity: sev, Code: IssueTypeInvalid})
			}
			if got := oo.HasErrors(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOperationOutcome_JSON(t *testing.T) {
	oo := RequiredFieldOutcome("Observation.effective[x] is required")
	oo.Issue[0].Expression = []string{"Observation.effective[x]"}

	data, err := json.Marshal(oo)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if parsed["resourceType"] != "OperationOutcome" {
		t.Errorf("expected resourceType OperationOutcome, got %v", parsed["resourceType"])
	}

	issues, ok := parsed["issue"].([]interface{})
	if !ok || len(issues) != 1 {
		t.Fatal("expected 1 issue in JSON")
	}
	issue := issues[0].(map[string]interface{})
	if issue["severity"] != "error" {
		t.Errorf("expected severity 'error' in JSON, got %v", issue["severity"])
	}
	if issue["code"] != "required" {
		t.Errorf("expected code 'required' in JSON, got %v", issue["code"])
	}
	if _, ok := issue["details"]; ok {
		t.Error("expected details to be omitted")
	}

	expressions, ok := issue["expression"].([]interface{})
	if !ok || len(expressions) != 1 {
		t.Fatal("expected 1 expression in JSON")
	}
	if expressions[0] != "Observation.effective[x]" {
		t.Errorf("unexpected expression %v", expressions[0])
	}
}

func TestSeverityConstants(t *testing.T) {
	if IssueSeverityFatal != "fatal" {
		t.Errorf("expected 'fatal', got %s", IssueSeverityFatal)
	}
	if IssueSeverityError != "error" {
		t.Errorf("expected 'error', got %s", IssueSeverityError)
	}
	if IssueSeverityWarning != "warning" {
		t.Errorf("expected 'warning', got %s", IssueSeverityWarning)
	}
	if IssueSeverityInformation != "information" {
		t.Errorf("expected 'information', got %s", IssueSeverityInformation)
	}
}

func TestIssueTypeConstants(t *testing.T) {
	types := map[string]string{
		"invalid":       IssueTypeInvalid,
		"structure":     IssueTypeStructure,
		"required":      IssueTypeRequired,
		"not-found":     IssueTypeNotFound,
		"processing":    IssueTypeProcessing,
		"security":      IssueTypeSecurity,
		"not-supported": IssueTypeNotSupported,
		"exception":     IssueTypeException,
		"too-costly":    IssueTypeTooCostly,
		"timeout":       IssueTypeTimeout,
	}

	for expected, constant := range types {
		if constant != expected {
			t.Errorf("expected %q, got %q", expected, constant)
		}
	}
}
