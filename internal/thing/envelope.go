package thing

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// ErrUnknownType is returned when an envelope names an item type that is not
// registered.
var ErrUnknownType = errors.New("unknown thing type")

var registry = map[string]func() Thing{
	"allergy":          func() Thing { return &Allergy{} },
	"condition":        func() Thing { return &Condition{} },
	"medication":       func() Thing { return &Medication{} },
	"procedure":        func() Thing { return &Procedure{} },
	"immunization":     func() Thing { return &Immunization{} },
	"exercise":         func() Thing { return &Exercise{} },
	"weight":           func() Thing { return &Weight{} },
	"height":           func() Thing { return &Height{} },
	"blood-pressure":   func() Thing { return &BloodPressure{} },
	"blood-glucose":    func() Thing { return &BloodGlucose{} },
	"heart-rate":       func() Thing { return &HeartRate{} },
	"vital-signs":      func() Thing { return &VitalSigns{} },
	"lab-test-results": func() Thing { return &LabTestResults{} },
	"file":             func() Thing { return &File{} },
	"personal":         func() Thing { return &Personal{} },
	"basic":            func() Thing { return &Basic{} },
	"contact":          func() Thing { return &Contact{} },
}

// New returns an empty Thing for a type name or type id.
func New(typ string) (Thing, error) {
	if f, ok := registry[typ]; ok {
		return f(), nil
	}
	for _, f := range registry {
		t := f()
		if t.TypeID() == typ {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
}

// TypeNames lists the registered type names.
func TypeNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Envelope is the JSON carrier for a Thing: {"type": "<name>", "item": {...}}.
type Envelope struct {
	Type string          `json:"type" validate:"required"`
	Item json.RawMessage `json:"item" validate:"required"`
}

var validate = validator.New()

// Decode parses an envelope and returns the Thing it carries.
func Decode(data []byte) (Thing, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return env.Thing()
}

// Thing unmarshals the envelope's item into the registered type.
func (e Envelope) Thing() (Thing, error) {
	if err := validate.Struct(e); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}
	t, err := New(e.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(e.Item, t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.Type, err)
	}
	return t, nil
}

// Encode wraps a Thing in an envelope and marshals it.
func Encode(t Thing) ([]byte, error) {
	return json.Marshal(wrap(t))
}

// EncodeIndent is Encode with indentation, for files and CLI output.
func EncodeIndent(t Thing) ([]byte, error) {
	return json.MarshalIndent(wrap(t), "", "  ")
}

type outgoing struct {
	Type string `json:"type"`
	Item Thing  `json:"item"`
}

func wrap(t Thing) outgoing {
	return outgoing{Type: t.TypeName(), Item: t}
}
