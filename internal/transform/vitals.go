package transform

import (
	"math"

	"github.com/ehr/hvfhir/internal/mapping/approx"
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/mapping/units"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

func category(code string) fhir.CodeableConcept {
	return fhir.CodeableConcept{Coding: []fhir.Coding{{System: fhirmodels.SystemObservationCategory, Code: code}}}
}

func loinc(code, display string) fhir.CodeableConcept {
	return fhir.CodeableConcept{
		Coding: []fhir.Coding{{System: fhirmodels.SystemLOINC, Code: code, Display: display}},
		Text:   display,
	}
}

// vitalObservation starts a final vital-signs observation for th.
func (t *Transformer) vitalObservation(th thing.Thing, code, display string, when thing.DateTime) (*fhir.Observation, error) {
	if err := when.Validate(); err != nil {
		return nil, unrepresentable("%s when: %v", th.TypeName(), err)
	}
	obs := fhir.NewObservation()
	t.itemToFhir(th, &obs.DomainResource)
	obs.Status = fhir.ObservationFinal
	obs.Category = []fhir.CodeableConcept{category(fhirmodels.ObsCategoryVitalSigns)}
	obs.Code = loinc(code, display)
	obs.EffectiveDateTime = approx.DateTimeToFhir(when)
	return obs, nil
}

func vitalWhen(obs *fhir.Observation) (thing.DateTime, error) {
	if obs.EffectiveDateTime == "" {
		return thing.DateTime{}, unrepresentable("observation has no effective date")
	}
	dt, err := approx.DateTimeFromFhir(obs.EffectiveDateTime)
	if err != nil {
		return thing.DateTime{}, unrepresentable("observation effective date: %v", err)
	}
	return *dt, nil
}

func findComponent(obs *fhir.Observation, code string) *fhir.ObservationComponent {
	for i := range obs.Component {
		if obs.Component[i].Code.HasCode(fhirmodels.SystemLOINC, code) {
			return &obs.Component[i]
		}
	}
	return nil
}

// WeightToFhir maps a body weight to an observation in kilograms.
func (t *Transformer) WeightToFhir(w *thing.Weight) (*fhir.Observation, error) {
	obs, err := t.vitalObservation(w, fhirmodels.LOINCBodyWeight, "Body weight", w.When)
	if err != nil {
		return nil, err
	}
	obs.ValueQuantity = ucum(w.Value.Kilograms, "kg", "kg")
	obs.Extension = append(obs.Extension, displayToFhir(w.Value.Display)...)
	return obs, nil
}

// WeightToHealthVault converts any mass unit in the table to kilograms.
func (t *Transformer) WeightToHealthVault(obs *fhir.Observation) (*thing.Weight, error) {
	when, err := vitalWhen(obs)
	if err != nil {
		return nil, err
	}
	kg, err := t.convert(obs.ValueQuantity, units.Mass, "kg", "weight")
	if err != nil {
		return nil, err
	}
	w := &thing.Weight{When: when, Value: thing.WeightValue{Kilograms: kg, Display: displayFromFhir(obs.Extension)}}
	t.itemFromFhir(&obs.DomainResource, &w.Item)
	return w, nil
}

// HeightToFhir maps a body height to an observation in meters.
func (t *Transformer) HeightToFhir(h *thing.Height) (*fhir.Observation, error) {
	obs, err := t.vitalObservation(h, fhirmodels.LOINCBodyHeight, "Body height", h.When)
	if err != nil {
		return nil, err
	}
	obs.ValueQuantity = ucum(h.Value.Meters, "m", "m")
	obs.Extension = append(obs.Extension, displayToFhir(h.Value.Display)...)
	return obs, nil
}

// HeightToHealthVault converts any length unit in the table to meters.
func (t *Transformer) HeightToHealthVault(obs *fhir.Observation) (*thing.Height, error) {
	when, err := vitalWhen(obs)
	if err != nil {
		return nil, err
	}
	m, err := t.convert(obs.ValueQuantity, units.Length, "m", "height")
	if err != nil {
		return nil, err
	}
	h := &thing.Height{When: when, Value: thing.Length{Meters: m, Display: displayFromFhir(obs.Extension)}}
	t.itemFromFhir(&obs.DomainResource, &h.Item)
	return h, nil
}

func mmHg(v int) *fhir.Quantity {
	return ucum(float64(v), "mmHg", "mm[Hg]")
}

func perMinute(v int) *fhir.Quantity {
	return ucum(float64(v), "beats/minute", "/min")
}

// BloodPressureToFhir maps a reading to a blood pressure panel with systolic
// and diastolic components, plus a heart rate component when a pulse was
// taken.
func (t *Transformer) BloodPressureToFhir(bp *thing.BloodPressure) (*fhir.Observation, error) {
	obs, err := t.vitalObservation(bp, fhirmodels.LOINCBloodPressurePanel, "Blood pressure panel", bp.When)
	if err != nil {
		return nil, err
	}
	obs.Component = []fhir.ObservationComponent{
		{Code: loinc(fhirmodels.LOINCSystolic, "Systolic blood pressure"), ValueQuantity: mmHg(bp.Systolic)},
		{Code: loinc(fhirmodels.LOINCDiastolic, "Diastolic blood pressure"), ValueQuantity: mmHg(bp.Diastolic)},
	}
	if bp.Pulse != nil {
		obs.Component = append(obs.Component, fhir.ObservationComponent{
			Code:          loinc(fhirmodels.LOINCHeartRate, "Heart rate"),
			ValueQuantity: perMinute(*bp.Pulse),
		})
	}
	if bp.IrregularHeartbeatDetected != nil {
		obs.AddExtension(extension.Bool(extension.IrregularHeartbeat, *bp.IrregularHeartbeatDetected))
	}
	return obs, nil
}

// BloodPressureToHealthVault requires both systolic and diastolic components.
func (t *Transformer) BloodPressureToHealthVault(obs *fhir.Observation) (*thing.BloodPressure, error) {
	when, err := vitalWhen(obs)
	if err != nil {
		return nil, err
	}
	bp := &thing.BloodPressure{When: when}
	for _, c := range []struct {
		code  string
		field string
		dst   *int
	}{
		{fhirmodels.LOINCSystolic, "systolic", &bp.Systolic},
		{fhirmodels.LOINCDiastolic, "diastolic", &bp.Diastolic},
	} {
		comp := findComponent(obs, c.code)
		if comp == nil {
			return nil, unrepresentable("blood pressure has no %s component", c.field)
		}
		v, err := t.convert(comp.ValueQuantity, units.Pressure, "mmHg", c.field)
		if err != nil {
			return nil, err
		}
		*c.dst = int(math.Round(v))
	}
	if comp := findComponent(obs, fhirmodels.LOINCHeartRate); comp != nil {
		v, err := t.convert(comp.ValueQuantity, units.Rate, "/min", "pulse")
		if err != nil {
			return nil, err
		}
		bp.Pulse = intPtr(int(math.Round(v)))
	}
	bp.IrregularHeartbeatDetected = extension.GetBool(obs.Extension, extension.IrregularHeartbeat)
	t.itemFromFhir(&obs.DomainResource, &bp.Item)
	return bp, nil
}

var normalcyCodes = map[thing.Normalcy]string{
	thing.NormalcyWellBelowNormal: fhirmodels.InterpretationCriticalLow,
	thing.NormalcyBelowNormal:     fhirmodels.InterpretationLow,
	thing.NormalcyNormal:          fhirmodels.InterpretationNormal,
	thing.NormalcyAboveNormal:     fhirmodels.InterpretationHigh,
	thing.NormalcyWellAboveNormal: fhirmodels.InterpretationCriticalHigh,
}

func interpretation(code string) fhir.CodeableConcept {
	return fhir.CodeableConcept{Coding: []fhir.Coding{{System: fhirmodels.SystemObservationInterpretation, Code: code}}}
}

// BloodGlucoseToFhir maps a glucose reading in mmol/L. Normalcy becomes the
// interpretation.
func (t *Transformer) BloodGlucoseToFhir(bg *thing.BloodGlucose) (*fhir.Observation, error) {
	obs, err := t.vitalObservation(bg, fhirmodels.LOINCBloodGlucose, "Glucose", bg.When)
	if err != nil {
		return nil, err
	}
	obs.Category = []fhir.CodeableConcept{category(fhirmodels.ObsCategoryLaboratory)}
	obs.ValueQuantity = ucum(bg.Value.MillimolesPerLiter, "mmol/L", "mmol/L")
	obs.Extension = append(obs.Extension, displayToFhir(bg.Value.Display)...)

	if cc := t.vocab.Concept(&bg.MeasurementType); cc != nil {
		obs.AddExtension(extension.Concept(extension.GlucoseMeasurementType, *cc))
	}
	if cc := t.vocab.Concept(bg.MeasurementContext); cc != nil {
		obs.AddExtension(extension.Concept(extension.GlucoseMeasurementContext, *cc))
	}
	if bg.IsControlTest != nil {
		obs.AddExtension(extension.Bool(extension.GlucoseControlTest, *bg.IsControlTest))
	}
	if bg.OutsideOperatingTemperature != nil {
		obs.AddExtension(extension.Bool(extension.GlucoseOutsideOperatingTemp, *bg.OutsideOperatingTemperature))
	}
	if bg.ReadingNormalcy != nil {
		if code, ok := normalcyCodes[*bg.ReadingNormalcy]; ok {
			obs.Interpretation = []fhir.CodeableConcept{interpretation(code)}
		}
	}
	return obs, nil
}

// BloodGlucoseToHealthVault converts mg/dL and other table units to mmol/L.
func (t *Transformer) BloodGlucoseToHealthVault(obs *fhir.Observation) (*thing.BloodGlucose, error) {
	when, err := vitalWhen(obs)
	if err != nil {
		return nil, err
	}
	v, err := t.convert(obs.ValueQuantity, units.Concentration, "mmol/L", "blood glucose")
	if err != nil {
		return nil, err
	}
	bg := &thing.BloodGlucose{
		When:                        when,
		Value:                       thing.BloodGlucoseValue{MillimolesPerLiter: v, Display: displayFromFhir(obs.Extension)},
		MeasurementContext:          t.vocab.Codable(extension.GetConcept(obs.Extension, extension.GlucoseMeasurementContext)),
		IsControlTest:               extension.GetBool(obs.Extension, extension.GlucoseControlTest),
		OutsideOperatingTemperature: extension.GetBool(obs.Extension, extension.GlucoseOutsideOperatingTemp),
	}
	if mt := t.vocab.Codable(extension.GetConcept(obs.Extension, extension.GlucoseMeasurementType)); mt != nil {
		bg.MeasurementType = *mt
	}
	if code := firstConcept(obs.Interpretation).FirstCode(); code != "" {
		for n, c := range normalcyCodes {
			if c == code {
				bg.ReadingNormalcy = &n
				break
			}
		}
	}
	t.itemFromFhir(&obs.DomainResource, &bg.Item)
	return bg, nil
}

// HeartRateToFhir maps a pulse reading in beats per minute.
func (t *Transformer) HeartRateToFhir(hr *thing.HeartRate) (*fhir.Observation, error) {
	obs, err := t.vitalObservation(hr, fhirmodels.LOINCHeartRate, "Heart rate", hr.When)
	if err != nil {
		return nil, err
	}
	obs.ValueQuantity = perMinute(hr.Value)
	obs.Method = t.vocab.Concept(hr.MeasurementMethod)
	if cc := t.vocab.Concept(hr.MeasurementConditions); cc != nil {
		obs.AddExtension(extension.Concept(extension.HeartRateConditions, *cc))
	}
	if cc := t.vocab.Concept(hr.MeasurementFlags); cc != nil {
		obs.AddExtension(extension.Concept(extension.HeartRateFlags, *cc))
	}
	return obs, nil
}

// HeartRateToHealthVault is the inverse of HeartRateToFhir.
func (t *Transformer) HeartRateToHealthVault(obs *fhir.Observation) (*thing.HeartRate, error) {
	when, err := vitalWhen(obs)
	if err != nil {
		return nil, err
	}
	v, err := t.convert(obs.ValueQuantity, units.Rate, "/min", "heart rate")
	if err != nil {
		return nil, err
	}
	hr := &thing.HeartRate{
		When:                  when,
		Value:                 int(math.Round(v)),
		MeasurementMethod:     t.vocab.Codable(obs.Method),
		MeasurementConditions: t.vocab.Codable(extension.GetConcept(obs.Extension, extension.HeartRateConditions)),
		MeasurementFlags:      t.vocab.Codable(extension.GetConcept(obs.Extension, extension.HeartRateFlags)),
	}
	t.itemFromFhir(&obs.DomainResource, &hr.Item)
	return hr, nil
}

// VitalSignsToFhir maps a panel of results to components of a vital signs
// panel observation.
func (t *Transformer) VitalSignsToFhir(vs *thing.VitalSigns) (*fhir.Observation, error) {
	obs, err := t.vitalObservation(vs, fhirmodels.LOINCVitalSignsPanel, "Vital signs panel", vs.When)
	if err != nil {
		return nil, err
	}
	for i, r := range vs.Results {
		if r.Title.IsEmpty() {
			return nil, unrepresentable("vital signs result %d has no title", i)
		}
		obs.Component = append(obs.Component, t.vitalResultToFhir(r))
	}
	if vs.Site != "" {
		obs.AddExtension(extension.String(extension.VitalSite, vs.Site))
	}
	if vs.Position != "" {
		obs.AddExtension(extension.String(extension.VitalPosition, vs.Position))
	}
	return obs, nil
}

func (t *Transformer) vitalResultToFhir(r thing.VitalSignsResult) fhir.ObservationComponent {
	comp := fhir.ObservationComponent{Code: t.vocab.ToCodeableConcept(r.Title)}

	quantity := func(v float64) *fhir.Quantity {
		q := &fhir.Quantity{Value: floatPtr(v)}
		if r.Unit != nil {
			q.Unit = r.Unit.Text
			if cv, ok := r.Unit.Primary(); ok {
				q.Code = cv.Value
				q.System = t.vocab.SystemFor(cv.Family, cv.VocabularyName)
			}
		}
		return q
	}

	switch {
	case r.Value != nil:
		comp.ValueQuantity = quantity(*r.Value)
		if r.TextValue != "" {
			comp.Extension = append(comp.Extension, extension.String(extension.Description, r.TextValue))
		}
	case r.TextValue != "":
		comp.ValueString = r.TextValue
	}
	if cc := t.vocab.Concept(r.Unit); cc != nil {
		comp.Extension = append(comp.Extension, extension.Concept(extension.VitalResultUnit, *cc))
	}
	if r.ReferenceMinimum != nil || r.ReferenceMaximum != nil {
		rr := fhir.ObservationReferenceRange{}
		if r.ReferenceMinimum != nil {
			rr.Low = quantity(*r.ReferenceMinimum)
		}
		if r.ReferenceMaximum != nil {
			rr.High = quantity(*r.ReferenceMaximum)
		}
		comp.ReferenceRange = []fhir.ObservationReferenceRange{rr}
	}
	comp.Interpretation = concepts(t.vocab.Concept(r.Flag))
	return comp
}

// VitalSignsToHealthVault is the inverse of VitalSignsToFhir. A component
// reference range given only as text has no mapping.
func (t *Transformer) VitalSignsToHealthVault(obs *fhir.Observation) (*thing.VitalSigns, error) {
	when, err := vitalWhen(obs)
	if err != nil {
		return nil, err
	}
	vs := &thing.VitalSigns{
		When:     when,
		Site:     extension.GetString(obs.Extension, extension.VitalSite),
		Position: extension.GetString(obs.Extension, extension.VitalPosition),
	}
	for _, comp := range obs.Component {
		r, err := t.vitalResultFromFhir(comp)
		if err != nil {
			return nil, err
		}
		vs.Results = append(vs.Results, r)
	}
	t.itemFromFhir(&obs.DomainResource, &vs.Item)
	return vs, nil
}

func (t *Transformer) vitalResultFromFhir(comp fhir.ObservationComponent) (thing.VitalSignsResult, error) {
	r := thing.VitalSignsResult{
		Title: t.vocab.FromCodeableConcept(comp.Code),
		Unit:  t.vocab.Codable(extension.GetConcept(comp.Extension, extension.VitalResultUnit)),
		Flag:  t.vocab.Codable(firstConcept(comp.Interpretation)),
	}
	if q := comp.ValueQuantity; q != nil {
		if q.Value != nil {
			r.Value = floatPtr(*q.Value)
		}
		if r.Unit == nil && (q.Unit != "" || q.Code != "") {
			u := thing.CodableValue{Text: q.Unit}
			if q.Code != "" {
				u.Codes = []thing.CodedValue{t.vocab.FromCoding(fhir.Coding{System: q.System, Code: q.Code})}
			}
			r.Unit = &u
		}
		r.TextValue = extension.GetString(comp.Extension, extension.Description)
	} else {
		r.TextValue = comp.ValueString
	}
	if len(comp.ReferenceRange) > 0 {
		rr := comp.ReferenceRange[0]
		if rr.Low == nil && rr.High == nil && rr.Text != "" {
			return r, notImplemented("vital sign reference range given only as text")
		}
		if rr.Low != nil && rr.Low.Value != nil {
			r.ReferenceMinimum = floatPtr(*rr.Low.Value)
		}
		if rr.High != nil && rr.High.Value != nil {
			r.ReferenceMaximum = floatPtr(*rr.High.Value)
		}
	}
	return r, nil
}
