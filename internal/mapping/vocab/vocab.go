// Package vocab maps coded item values to FHIR Coding and CodeableConcept.
// System URIs come from a Table: well-known code systems are listed
// explicitly, everything else is synthesized under the table's base URL.
package vocab

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

// DefaultFamily is assumed when a coded value names a vocabulary but no family.
const DefaultFamily = "wc"

// ExternalFamily marks a code that did not carry a vocabulary prefix.
const ExternalFamily = "external"

//go:embed vocabularies.yaml
var defaultTable []byte

// System binds a family/vocabulary pair to a published code system URI.
type System struct {
	Family     string `yaml:"family" validate:"required"`
	Vocabulary string `yaml:"vocabulary" validate:"required"`
	System     string `yaml:"system" validate:"required,uri"`
}

type pair struct{ family, vocabulary string }

// Table resolves code system URIs. It is read-only after Load and safe for
// concurrent use.
type Table struct {
	BaseURL string   `yaml:"base_url" validate:"required,url"`
	Systems []System `yaml:"systems" validate:"dive"`

	byPair   map[pair]string
	bySystem map[string]pair
}

var validate = validator.New()

// Load parses a YAML vocabulary table.
func Load(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse vocabulary table: %w", err)
	}
	if err := validate.Struct(&t); err != nil {
		return nil, fmt.Errorf("invalid vocabulary table: %w", err)
	}
	t.BaseURL = strings.TrimSuffix(t.BaseURL, "/")
	t.byPair = make(map[pair]string, len(t.Systems))
	t.bySystem = make(map[string]pair, len(t.Systems))
	for _, s := range t.Systems {
		k := pair{s.Family, s.Vocabulary}
		if _, dup := t.byPair[k]; dup {
			return nil, fmt.Errorf("invalid vocabulary table: duplicate %s/%s", s.Family, s.Vocabulary)
		}
		t.byPair[k] = s.System
		if _, seen := t.bySystem[s.System]; !seen {
			t.bySystem[s.System] = k
		}
	}
	return &t, nil
}

// LoadFile reads a YAML vocabulary table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary table: %w", err)
	}
	return Load(data)
}

// Default returns the embedded vocabulary table.
func Default() *Table {
	t, err := Load(defaultTable)
	if err != nil {
		panic(err)
	}
	return t
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "urn:")
}

// SystemFor returns the code system URI for a family/vocabulary pair.
func (t *Table) SystemFor(family, vocabulary string) string {
	if isURL(family) {
		return family
	}
	if family == "" && vocabulary == "" {
		return ""
	}
	if family == "" {
		family = DefaultFamily
	}
	if s, ok := t.byPair[pair{family, vocabulary}]; ok {
		return s
	}
	return t.BaseURL + "/" + family + "/" + vocabulary
}

// ToCoding converts one coded entry. An empty family with a vocabulary is
// written under DefaultFamily, so FromCoding returns DefaultFamily for it.
func (t *Table) ToCoding(cv thing.CodedValue, display string) fhir.Coding {
	return fhir.Coding{
		System:  t.SystemFor(cv.Family, cv.VocabularyName),
		Version: cv.Version,
		Code:    cv.Value,
		Display: display,
	}
}

// FromCoding converts a Coding back to a coded entry. A system that is neither
// listed nor under the base URL becomes the family.
func (t *Table) FromCoding(c fhir.Coding) thing.CodedValue {
	cv := thing.CodedValue{Value: c.Code, Version: c.Version}
	switch {
	case c.System == "":
	case t.bySystem[c.System] != (pair{}):
		p := t.bySystem[c.System]
		cv.Family, cv.VocabularyName = p.family, p.vocabulary
	case strings.HasPrefix(c.System, t.BaseURL+"/"):
		rest := strings.TrimPrefix(c.System, t.BaseURL+"/")
		family, vocabulary, ok := strings.Cut(rest, "/")
		if ok {
			cv.Family, cv.VocabularyName = family, vocabulary
		} else {
			cv.Family = c.System
		}
	default:
		cv.Family = c.System
	}
	return cv
}

// ToCodeableConcept converts a codable value. Display text is attached to the
// first coding only.
func (t *Table) ToCodeableConcept(cv thing.CodableValue) fhir.CodeableConcept {
	cc := fhir.CodeableConcept{Text: cv.Text}
	for i, code := range cv.Codes {
		display := ""
		if i == 0 {
			display = cv.Text
		}
		cc.Coding = append(cc.Coding, t.ToCoding(code, display))
	}
	return cc
}

// FromCodeableConcept converts back. Text falls back to the first coding's
// display.
func (t *Table) FromCodeableConcept(cc fhir.CodeableConcept) thing.CodableValue {
	cv := thing.CodableValue{Text: cc.Text}
	if cv.Text == "" && len(cc.Coding) > 0 {
		cv.Text = cc.Coding[0].Display
	}
	for _, c := range cc.Coding {
		cv.Codes = append(cv.Codes, t.FromCoding(c))
	}
	return cv
}

// Concept is ToCodeableConcept for optional values; empty input yields nil.
func (t *Table) Concept(cv *thing.CodableValue) *fhir.CodeableConcept {
	if cv.IsEmpty() {
		return nil
	}
	cc := t.ToCodeableConcept(*cv)
	return &cc
}

// Codable is FromCodeableConcept for optional values; empty input yields nil.
func (t *Table) Codable(cc *fhir.CodeableConcept) *thing.CodableValue {
	if cc.IsEmpty() {
		return nil
	}
	cv := t.FromCodeableConcept(*cc)
	return &cv
}

// ParseComposite splits a "vocabulary:code" string on its first colon. A
// string without a colon is an external code.
func ParseComposite(s string) thing.CodedValue {
	vocabulary, code, ok := strings.Cut(s, ":")
	if !ok {
		return thing.CodedValue{Value: s, Family: ExternalFamily}
	}
	return thing.CodedValue{Value: code, VocabularyName: vocabulary, Family: DefaultFamily}
}

// Composite is the inverse of ParseComposite.
func Composite(cv thing.CodedValue) string {
	if cv.VocabularyName == "" {
		return cv.Value
	}
	return cv.VocabularyName + ":" + cv.Value
}
