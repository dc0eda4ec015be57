// Package units converts quantities between source unit codes and the base
// unit of their measurement family. Arithmetic is exact decimal; results are
// returned as float64 for the wire model.
package units

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrUnitConfiguration is returned when a table entry names a measurement or
// unit the catalog does not define. It indicates a broken table, not bad data.
var ErrUnitConfiguration = errors.New("unit configuration error")

//go:embed units.yaml
var defaultTable []byte

// Measurement families.
const (
	Mass          = "mass"
	Length        = "length"
	Ratio         = "ratio"
	Duration      = "duration"
	Concentration = "concentration"
	Rate          = "rate"
	Pressure      = "pressure"
	Temperature   = "temperature"
)

// unitDef converts to base as (value + shift) * num / den.
type unitDef struct {
	shift decimal.Decimal
	num   decimal.Decimal
	den   decimal.Decimal
}

func scale(num, den string) unitDef {
	return unitDef{shift: decimal.Zero, num: decimal.RequireFromString(num), den: decimal.RequireFromString(den)}
}

func (u unitDef) toBase(v decimal.Decimal) decimal.Decimal {
	return v.Add(u.shift).Mul(u.num).Div(u.den)
}

func (u unitDef) fromBase(v decimal.Decimal) decimal.Decimal {
	return v.Mul(u.den).Div(u.num).Sub(u.shift)
}

type measurement struct {
	base  string
	units map[string]unitDef
}

var catalog = map[string]measurement{
	Mass: {base: "kg", units: map[string]unitDef{
		"kg": scale("1", "1"),
		"g":  scale("1", "1000"),
		"mg": scale("1", "1000000"),
		"lb": scale("0.45359237", "1"),
		"oz": scale("0.028349523125", "1"),
	}},
	Length: {base: "m", units: map[string]unitDef{
		"m":  scale("1", "1"),
		"cm": scale("1", "100"),
		"mm": scale("1", "1000"),
		"km": scale("1000", "1"),
		"in": scale("0.0254", "1"),
		"ft": scale("0.3048", "1"),
		"mi": scale("1609.344", "1"),
	}},
	Ratio: {base: "1", units: map[string]unitDef{
		"ratio":   scale("1", "1"),
		"percent": scale("1", "100"),
	}},
	Duration: {base: "s", units: map[string]unitDef{
		"s":   scale("1", "1"),
		"min": scale("60", "1"),
		"h":   scale("3600", "1"),
		"d":   scale("86400", "1"),
	}},
	Concentration: {base: "mmol/L", units: map[string]unitDef{
		"mmol/L": scale("1", "1"),
		"mg/dL":  scale("1", "18"),
	}},
	Rate: {base: "/min", units: map[string]unitDef{
		"/min": scale("1", "1"),
		"/h":   scale("1", "60"),
	}},
	Pressure: {base: "mmHg", units: map[string]unitDef{
		"mmHg": scale("1", "1"),
		"kPa":  scale("1000", "133.322387415"),
	}},
	Temperature: {base: "Cel", units: map[string]unitDef{
		"Cel":  scale("1", "1"),
		"degF": {shift: decimal.NewFromInt(-32), num: decimal.NewFromInt(5), den: decimal.NewFromInt(9)},
		"K":    {shift: decimal.RequireFromString("-273.15"), num: decimal.NewFromInt(1), den: decimal.NewFromInt(1)},
	}},
}

// BaseUnit returns the base unit of a measurement family.
func BaseUnit(m string) string {
	return catalog[m].base
}

// Entry maps a source unit code to a catalog unit.
type Entry struct {
	Code        string `yaml:"code" validate:"required"`
	Unit        string `yaml:"unit" validate:"required"`
	Measurement string `yaml:"measurement" validate:"required"`
	Property    string `yaml:"property"`
}

// Table is the unit lookup table. It is read-only after Load and safe for
// concurrent use.
type Table struct {
	Entries []Entry `yaml:"entries" validate:"dive"`

	byCode map[string]Entry
	folded map[string]Entry
}

var validate = validator.New()

// Load parses a YAML unit table. Entries are structurally validated here;
// catalog consistency is reported by Check and at conversion time.
func Load(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse unit table: %w", err)
	}
	if err := validate.Struct(&t); err != nil {
		return nil, fmt.Errorf("invalid unit table: %w", err)
	}
	t.byCode = make(map[string]Entry, len(t.Entries))
	t.folded = make(map[string]Entry, len(t.Entries))
	for _, e := range t.Entries {
		t.byCode[e.Code] = e
		if _, ok := t.folded[strings.ToLower(e.Code)]; !ok {
			t.folded[strings.ToLower(e.Code)] = e
		}
	}
	return &t, nil
}

// LoadFile reads a YAML unit table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit table: %w", err)
	}
	return Load(data)
}

// Default returns the embedded unit table.
func Default() *Table {
	t, err := Load(defaultTable)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup finds the entry for a code, exact match first.
func (t *Table) Lookup(code string) (Entry, bool) {
	if e, ok := t.byCode[code]; ok {
		return e, true
	}
	e, ok := t.folded[strings.ToLower(code)]
	return e, ok
}

// Conversion is the result of converting one value.
type Conversion struct {
	Value       float64
	Unit        string
	Measurement string
	Property    string
	// Resolved is false when the code had no table entry and the value was
	// passed through unchanged.
	Resolved bool
}

func resolve(e Entry) (measurement, unitDef, error) {
	m, ok := catalog[e.Measurement]
	if !ok {
		return measurement{}, unitDef{}, fmt.Errorf("%w: %q maps to unknown measurement %q", ErrUnitConfiguration, e.Code, e.Measurement)
	}
	u, ok := m.units[e.Unit]
	if !ok {
		return measurement{}, unitDef{}, fmt.Errorf("%w: %q maps to unit %q which is not a %s unit", ErrUnitConfiguration, e.Code, e.Unit, e.Measurement)
	}
	return m, u, nil
}

// Convert converts value from code to the base unit of its measurement. An
// unknown code passes through unchanged with Resolved false.
func (t *Table) Convert(value float64, code string) (Conversion, error) {
	e, ok := t.Lookup(code)
	if !ok {
		return Conversion{Value: value, Unit: code}, nil
	}
	m, u, err := resolve(e)
	if err != nil {
		return Conversion{}, err
	}
	v, _ := u.toBase(decimal.NewFromFloat(value)).Float64()
	return Conversion{Value: v, Unit: m.base, Measurement: e.Measurement, Property: e.Property, Resolved: true}, nil
}

// ConvertTo converts value from code to a named catalog unit of the same
// measurement.
func (t *Table) ConvertTo(value float64, code, target string) (Conversion, error) {
	e, ok := t.Lookup(code)
	if !ok {
		return Conversion{Value: value, Unit: code}, nil
	}
	m, u, err := resolve(e)
	if err != nil {
		return Conversion{}, err
	}
	to, ok := m.units[target]
	if !ok {
		return Conversion{}, fmt.Errorf("%w: %q is not a %s unit", ErrUnitConfiguration, target, e.Measurement)
	}
	v, _ := to.fromBase(u.toBase(decimal.NewFromFloat(value))).Float64()
	return Conversion{Value: v, Unit: target, Measurement: e.Measurement, Property: e.Property, Resolved: true}, nil
}

// Check reports whether the entry names a catalog measurement and unit.
func (e Entry) Check() error {
	_, _, err := resolve(e)
	return err
}

// Check validates every entry against the catalog.
func (t *Table) Check() []error {
	var errs []error
	for _, e := range t.Entries {
		if err := e.Check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
