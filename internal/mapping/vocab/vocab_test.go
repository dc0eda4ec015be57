package vocab

import (
	"testing"

	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

func TestDefault_Loads(t *testing.T) {
	tbl := Default()
	if tbl.BaseURL == "" {
		t.Fatal("expected base url")
	}
	if got := tbl.SystemFor("SNOMED", "SNOMED-CT"); got != "http://snomed.info/sct" {
		t.Errorf("expected SNOMED system, got %q", got)
	}
}

func TestSystemFor(t *testing.T) {
	tbl := Default()
	tests := []struct {
		name, family, vocab, want string
	}{
		{"url family", "http://example.org/cs", "ignored", "http://example.org/cs"},
		{"urn family", "urn:oid:1.2.3", "", "urn:oid:1.2.3"},
		{"known pair", "wc", "LOINC", "http://loinc.org"},
		{"synthesized", "wc", "allergen-type", tbl.BaseURL + "/wc/allergen-type"},
		{"default family", "", "allergen-type", tbl.BaseURL + "/wc/allergen-type"},
		{"nothing", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tbl.SystemFor(tt.family, tt.vocab); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCoding_RoundTrip(t *testing.T) {
	tbl := Default()
	tests := []thing.CodedValue{
		{Value: "29463-7", VocabularyName: "LOINC", Family: "wc", Version: "2.61"},
		{Value: "FOOD", VocabularyName: "allergen-type", Family: "wc", Version: "1"},
		{Value: "123", VocabularyName: "local", Family: "acme"},
		{Value: "x", Family: "http://example.org/cs"},
	}
	for _, in := range tests {
		t.Run(in.Value, func(t *testing.T) {
			out := tbl.FromCoding(tbl.ToCoding(in, "display"))
			if out != in {
				t.Errorf("expected %+v, got %+v", in, out)
			}
		})
	}
}

func TestCoding_EmptyFamilyBecomesDefault(t *testing.T) {
	tbl := Default()
	tests := []struct {
		name string
		in   thing.CodedValue
	}{
		{"listed vocabulary", thing.CodedValue{Value: "29463-7", VocabularyName: "LOINC"}},
		{"synthesized vocabulary", thing.CodedValue{Value: "x", VocabularyName: "custom-vocab"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tbl.ToCoding(tt.in, "")
			withDefault := tt.in
			withDefault.Family = DefaultFamily
			if want := tbl.ToCoding(withDefault, ""); c.System != want.System {
				t.Fatalf("expected %q, got %q", want.System, c.System)
			}
			back := tbl.FromCoding(c)
			if back.Family != DefaultFamily || back.VocabularyName != tt.in.VocabularyName || back.Value != tt.in.Value {
				t.Errorf("unexpected coded value %+v", back)
			}
		})
	}
}

func TestCodeableConcept_DisplayOnFirstOnly(t *testing.T) {
	tbl := Default()
	cv := thing.CodableValue{
		Text: "Peanut allergy",
		Codes: []thing.CodedValue{
			{Value: "91935009", VocabularyName: "SNOMED-CT", Family: "SNOMED"},
			{Value: "pn", VocabularyName: "allergens", Family: "wc"},
		},
	}
	cc := tbl.ToCodeableConcept(cv)
	if cc.Text != "Peanut allergy" {
		t.Errorf("expected text, got %q", cc.Text)
	}
	if len(cc.Coding) != 2 {
		t.Fatalf("expected 2 codings, got %d", len(cc.Coding))
	}
	if cc.Coding[0].Display != "Peanut allergy" || cc.Coding[1].Display != "" {
		t.Errorf("unexpected displays %q / %q", cc.Coding[0].Display, cc.Coding[1].Display)
	}

	back := tbl.FromCodeableConcept(cc)
	if back.Text != cv.Text || len(back.Codes) != 2 || back.Codes[1] != cv.Codes[1] {
		t.Errorf("unexpected round trip %+v", back)
	}
}

func TestFromCodeableConcept_TextFallback(t *testing.T) {
	tbl := Default()
	cv := tbl.FromCodeableConcept(fhir.CodeableConcept{
		Coding: []fhir.Coding{{System: "http://loinc.org", Code: "8867-4", Display: "Heart rate"}},
	})
	if cv.Text != "Heart rate" {
		t.Errorf("expected fallback text, got %q", cv.Text)
	}
	if cv.Codes[0].VocabularyName != "LOINC" {
		t.Errorf("expected LOINC vocabulary, got %+v", cv.Codes[0])
	}
}

func TestConcept_Empty(t *testing.T) {
	tbl := Default()
	if tbl.Concept(nil) != nil || tbl.Concept(&thing.CodableValue{}) != nil {
		t.Error("expected nil for empty value")
	}
	if tbl.Codable(nil) != nil {
		t.Error("expected nil for nil concept")
	}
}

func TestParseComposite(t *testing.T) {
	cv := ParseComposite("medication-routes:po")
	if cv.VocabularyName != "medication-routes" || cv.Value != "po" || cv.Family != DefaultFamily {
		t.Errorf("unexpected %+v", cv)
	}
	if Composite(cv) != "medication-routes:po" {
		t.Errorf("unexpected composite %q", Composite(cv))
	}

	ext := ParseComposite("12345")
	if ext.Family != ExternalFamily || ext.VocabularyName != "" || ext.Value != "12345" {
		t.Errorf("unexpected %+v", ext)
	}
	if Composite(ext) != "12345" {
		t.Errorf("unexpected composite %q", Composite(ext))
	}

	multi := ParseComposite("a:b:c")
	if multi.VocabularyName != "a" || multi.Value != "b:c" {
		t.Errorf("expected split on first colon, got %+v", multi)
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load([]byte("systems: []")); err == nil {
		t.Error("expected error for missing base_url")
	}
	dup := []byte(`base_url: https://example.org
systems:
  - {family: a, vocabulary: b, system: http://x}
  - {family: a, vocabulary: b, system: http://y}
`)
	if _, err := Load(dup); err == nil {
		t.Error("expected error for duplicate pair")
	}
}
