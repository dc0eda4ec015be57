package transform

import (
	"sort"

	"github.com/ehr/hvfhir/internal/mapping/approx"
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/mapping/units"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

// ExerciseToFhir maps an exercise session to an activity observation. The
// activity is the code; distance and duration are components. A descriptive
// date has no effective[x] slot and travels as an extension.
func (t *Transformer) ExerciseToFhir(ex *thing.Exercise) (*fhir.Observation, error) {
	if ex.Activity.IsEmpty() {
		return nil, unrepresentable("exercise activity is required")
	}
	if err := ex.When.Validate(); err != nil {
		return nil, unrepresentable("exercise date: %v", err)
	}

	obs := fhir.NewObservation()
	t.itemToFhir(ex, &obs.DomainResource)
	obs.Status = fhir.ObservationFinal
	obs.Category = []fhir.CodeableConcept{category(fhirmodels.ObsCategoryActivity)}
	obs.Code = t.vocab.ToCodeableConcept(ex.Activity)

	var text string
	obs.EffectiveDateTime, text = approx.ToChoice(&ex.When)
	if text != "" {
		obs.AddExtension(extension.String(extension.Description, text))
	}
	if ex.Title != "" {
		obs.AddExtension(extension.String(extension.ExerciseTitle, ex.Title))
	}

	if ex.Distance != nil {
		obs.Component = append(obs.Component, fhir.ObservationComponent{
			Extension:     displayToFhir(ex.Distance.Display),
			Code:          loinc(fhirmodels.LOINCDistance, "Distance"),
			ValueQuantity: ucum(ex.Distance.Meters, "m", "m"),
		})
	}
	if ex.Duration != nil {
		obs.Component = append(obs.Component, fhir.ObservationComponent{
			Code:          loinc(fhirmodels.LOINCDuration, "Exercise duration"),
			ValueQuantity: ucum(*ex.Duration, "min", "min"),
		})
	}

	obs.Extension = append(obs.Extension, t.detailsToFhir(ex.Details)...)
	for _, s := range ex.Segments {
		obs.AddExtension(t.segmentToFhir(s))
	}
	return obs, nil
}

// ExerciseToHealthVault is the inverse of ExerciseToFhir.
func (t *Transformer) ExerciseToHealthVault(obs *fhir.Observation) (*thing.Exercise, error) {
	if obs.Code.IsEmpty() {
		return nil, unrepresentable("exercise has no activity code")
	}
	when, err := approx.FromChoice(obs.EffectiveDateTime, extension.GetString(obs.Extension, extension.Description))
	if err != nil {
		return nil, unrepresentable("exercise effective date: %v", err)
	}
	if when == nil {
		return nil, unrepresentable("exercise has no effective date")
	}

	ex := &thing.Exercise{
		When:     *when,
		Activity: t.vocab.FromCodeableConcept(obs.Code),
		Title:    extension.GetString(obs.Extension, extension.ExerciseTitle),
		Details:  t.detailsFromFhir(obs.Extension),
	}
	if comp := findComponent(obs, fhirmodels.LOINCDistance); comp != nil {
		m, err := t.convert(comp.ValueQuantity, units.Length, "m", "exercise distance")
		if err != nil {
			return nil, err
		}
		ex.Distance = &thing.Length{Meters: m, Display: displayFromFhir(comp.Extension)}
	}
	if comp := findComponent(obs, fhirmodels.LOINCDuration); comp != nil {
		minutes, err := t.convert(comp.ValueQuantity, units.Duration, "min", "exercise duration")
		if err != nil {
			return nil, err
		}
		ex.Duration = floatPtr(minutes)
	}
	for _, e := range fhir.FindExtensions(obs.Extension, extension.ExerciseSegment) {
		s, err := t.segmentFromFhir(e)
		if err != nil {
			return nil, err
		}
		ex.Segments = append(ex.Segments, s)
	}
	t.itemFromFhir(&obs.DomainResource, &ex.Item)
	return ex, nil
}

// detailsToFhir emits details in key order so output is stable.
func (t *Transformer) detailsToFhir(details map[string]thing.ExerciseDetail) []fhir.Extension {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	exts := make([]fhir.Extension, 0, len(keys))
	for _, k := range keys {
		d := details[k]
		exts = append(exts, extension.Complex(extension.ExerciseDetail,
			extension.String(extension.ExerciseDetailKey, k),
			extension.Coding(extension.ExerciseDetailName, t.vocab.ToCoding(d.Name, "")),
			extension.Quantity(extension.ExerciseDetailValue, t.structuredToFhir(d.Value)),
		))
	}
	return exts
}

func (t *Transformer) detailsFromFhir(exts []fhir.Extension) map[string]thing.ExerciseDetail {
	found := fhir.FindExtensions(exts, extension.ExerciseDetail)
	if len(found) == 0 {
		return nil
	}
	details := make(map[string]thing.ExerciseDetail, len(found))
	for _, e := range found {
		var d thing.ExerciseDetail
		if c := extension.GetCoding(e.Extension, extension.ExerciseDetailName); c != nil {
			d.Name = t.vocab.FromCoding(*c)
		}
		if q := extension.GetQuantity(e.Extension, extension.ExerciseDetailValue); q != nil {
			d.Value = t.structuredFromFhir(*q)
		}
		details[extension.GetString(e.Extension, extension.ExerciseDetailKey)] = d
	}
	return details
}

func (t *Transformer) segmentToFhir(s thing.ExerciseSegment) fhir.Extension {
	parts := []fhir.Extension{extension.Concept(extension.SegmentActivity, t.vocab.ToCodeableConcept(s.Activity))}
	if s.Title != "" {
		parts = append(parts, extension.String(extension.SegmentTitle, s.Title))
	}
	if s.Distance != nil {
		parts = append(parts, extension.Quantity(extension.SegmentDistance, *ucum(s.Distance.Meters, "m", "m")))
	}
	if s.Duration != nil {
		parts = append(parts, extension.Decimal(extension.SegmentDuration, *s.Duration))
	}
	if s.Offset != nil {
		parts = append(parts, extension.Decimal(extension.SegmentOffset, *s.Offset))
	}
	parts = append(parts, t.detailsToFhir(s.Details)...)
	return extension.Complex(extension.ExerciseSegment, parts...)
}

func (t *Transformer) segmentFromFhir(e fhir.Extension) (thing.ExerciseSegment, error) {
	s := thing.ExerciseSegment{
		Title:    extension.GetString(e.Extension, extension.SegmentTitle),
		Duration: extension.GetDecimal(e.Extension, extension.SegmentDuration),
		Offset:   extension.GetDecimal(e.Extension, extension.SegmentOffset),
		Details:  t.detailsFromFhir(e.Extension),
	}
	if cc := extension.GetConcept(e.Extension, extension.SegmentActivity); cc != nil {
		s.Activity = t.vocab.FromCodeableConcept(*cc)
	}
	if q := extension.GetQuantity(e.Extension, extension.SegmentDistance); q != nil {
		m, err := t.convert(q, units.Length, "m", "segment distance")
		if err != nil {
			return s, err
		}
		s.Distance = &thing.Length{Meters: m}
	}
	return s, nil
}
