package transform

import (
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

func ucum(value float64, unit, code string) *fhir.Quantity {
	return &fhir.Quantity{Value: floatPtr(value), Unit: unit, System: fhirmodels.SystemUCUM, Code: code}
}

func (t *Transformer) structuredToFhir(m thing.StructuredMeasurement) fhir.Quantity {
	q := fhir.Quantity{Value: floatPtr(m.Value), Unit: m.Units.Text}
	if cv, ok := m.Units.Primary(); ok {
		q.Code = cv.Value
		q.System = t.vocab.SystemFor(cv.Family, cv.VocabularyName)
	}
	return q
}

func (t *Transformer) structuredFromFhir(q fhir.Quantity) thing.StructuredMeasurement {
	m := thing.StructuredMeasurement{Units: thing.CodableValue{Text: q.Unit}}
	if q.Value != nil {
		m.Value = *q.Value
	}
	if q.Code != "" {
		m.Units.Codes = []thing.CodedValue{t.vocab.FromCoding(fhir.Coding{System: q.System, Code: q.Code})}
	}
	return m
}

// measurementToFhir carries a general measurement as a complex extension: its
// display text plus one quantity per structured value.
func (t *Transformer) measurementToFhir(url string, g *thing.GeneralMeasurement) fhir.Extension {
	parts := []fhir.Extension{extension.String(extension.MeasurementDisplay, g.Display)}
	for _, s := range g.Structured {
		parts = append(parts, extension.Quantity(extension.MeasurementStructured, t.structuredToFhir(s)))
	}
	return extension.Complex(url, parts...)
}

func (t *Transformer) measurementFromFhir(exts []fhir.Extension, url string) *thing.GeneralMeasurement {
	e := fhir.FindExtension(exts, url)
	if e == nil {
		return nil
	}
	g := &thing.GeneralMeasurement{Display: extension.GetString(e.Extension, extension.MeasurementDisplay)}
	for _, s := range fhir.FindExtensions(e.Extension, extension.MeasurementStructured) {
		if s.ValueQuantity != nil {
			g.Structured = append(g.Structured, t.structuredFromFhir(*s.ValueQuantity))
		}
	}
	return g
}

func displayToFhir(d *thing.DisplayValue) []fhir.Extension {
	if d == nil {
		return nil
	}
	parts := []fhir.Extension{extension.Decimal(extension.DisplayAmount, d.Value)}
	if d.Units != "" {
		parts = append(parts, extension.String(extension.DisplayUnits, d.Units))
	}
	if d.UnitsCode != "" {
		parts = append(parts, extension.Code(extension.DisplayUnitsCode, d.UnitsCode))
	}
	if d.Text != "" {
		parts = append(parts, extension.String(extension.DisplayText, d.Text))
	}
	return []fhir.Extension{extension.Complex(extension.DisplayValue, parts...)}
}

func displayFromFhir(exts []fhir.Extension) *thing.DisplayValue {
	e := fhir.FindExtension(exts, extension.DisplayValue)
	if e == nil {
		return nil
	}
	d := &thing.DisplayValue{
		Units:     extension.GetString(e.Extension, extension.DisplayUnits),
		UnitsCode: extension.GetCode(e.Extension, extension.DisplayUnitsCode),
		Text:      extension.GetString(e.Extension, extension.DisplayText),
	}
	if v := extension.GetDecimal(e.Extension, extension.DisplayAmount); v != nil {
		d.Value = *v
	}
	return d
}

// convert returns q's value in target, a unit of the measurement want. A unit
// missing from the table passes through unchanged; a unit of another
// measurement cannot represent the field.
func (t *Transformer) convert(q *fhir.Quantity, want, target, field string) (float64, error) {
	if q == nil || q.Value == nil {
		return 0, unrepresentable("%s has no value", field)
	}
	code := q.UnitCode()
	if code == "" {
		return *q.Value, nil
	}
	if e, ok := t.units.Lookup(code); ok {
		if err := e.Check(); err != nil {
			return 0, err
		}
		if e.Measurement != want {
			return 0, unrepresentable("%s: %q is a %s unit, want %s", field, code, e.Measurement, want)
		}
	}
	conv, err := t.units.ConvertTo(*q.Value, code, target)
	if err != nil {
		return 0, err
	}
	if !conv.Resolved {
		t.log.Debug().Str("field", field).Str("unit", code).Msg("unit not in conversion table, value passed through")
	}
	return conv.Value, nil
}
