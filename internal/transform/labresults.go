package transform

import (
	"strconv"
	"strings"

	"github.com/ehr/hvfhir/internal/mapping/approx"
	"github.com/ehr/hvfhir/internal/mapping/contain"
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

func labReportCode() fhir.CodeableConcept {
	return fhir.CodeableConcept{Coding: []fhir.Coding{{
		System:  fhirmodels.SystemHealthVaultThingType,
		Code:    thing.LabTestResultsTypeID,
		Display: "lab-test-results",
	}}}
}

// LabTestResultsToFhir maps a set of lab results to a DiagnosticReport. Every
// group and every result becomes an Observation contained in the report: top
// level groups are the report results, sub-groups hang off hasMember and
// individual results off derivedFrom.
func (t *Transformer) LabTestResultsToFhir(lr *thing.LabTestResults) (*fhir.DiagnosticReport, error) {
	if len(lr.Groups) == 0 {
		return nil, unrepresentable("lab results have no groups")
	}
	if err := lr.When.Validate(); err != nil {
		return nil, unrepresentable("lab results date: %v", err)
	}

	rep := fhir.NewDiagnosticReport()
	t.itemToFhir(lr, &rep.DomainResource)
	rep.Status = fhir.ReportFinal
	rep.Category = []fhir.CodeableConcept{category(fhirmodels.ObsCategoryLaboratory)}
	rep.Code = labReportCode()

	var text string
	rep.EffectiveDateTime, text = approx.ToChoice(lr.When)
	if text != "" {
		rep.AddExtension(extension.String(extension.Description, text))
	}
	if ref := t.attachOrganization(rep, lr.OrderedBy); ref != nil {
		rep.Performer = []fhir.Reference{*ref}
	}
	for i := range lr.Groups {
		ref, err := t.labGroupToFhir(rep, &lr.Groups[i])
		if err != nil {
			return nil, err
		}
		rep.Result = append(rep.Result, ref)
	}
	return rep, nil
}

func (t *Transformer) labGroupToFhir(rep *fhir.DiagnosticReport, g *thing.LabTestResultGroup) (fhir.Reference, error) {
	if g.GroupName.IsEmpty() {
		return fhir.Reference{}, unrepresentable("lab group name is required")
	}
	obs := fhir.NewObservation()
	obs.Status = fhir.ObservationFinal
	obs.Category = []fhir.CodeableConcept{category(fhirmodels.ObsCategoryLaboratory)}
	obs.Code = t.vocab.ToCodeableConcept(g.GroupName)
	if cc := t.vocab.Concept(g.Status); cc != nil {
		obs.AddExtension(extension.Concept(extension.LabStatus, *cc))
	}
	if ref := t.attachOrganization(rep, g.LaboratoryName); ref != nil {
		obs.Performer = []fhir.Reference{*ref}
	}

	for i := range g.SubGroups {
		ref, err := t.labGroupToFhir(rep, &g.SubGroups[i])
		if err != nil {
			return fhir.Reference{}, err
		}
		obs.HasMember = append(obs.HasMember, ref)
	}
	for i := range g.Results {
		detail, err := t.labDetailToFhir(&g.Results[i])
		if err != nil {
			return fhir.Reference{}, err
		}
		obs.DerivedFrom = append(obs.DerivedFrom, contain.Attach(rep, detail, t.newID))
	}

	ref := contain.Attach(rep, obs, t.newID)
	ref.Display = g.GroupName.String()
	return ref, nil
}

func (t *Transformer) labDetailToFhir(d *thing.LabTestResultDetails) (*fhir.Observation, error) {
	if d.ClinicalCode.IsEmpty() && d.Name == "" {
		return nil, unrepresentable("lab result needs a name or clinical code")
	}
	if err := d.When.Validate(); err != nil {
		return nil, unrepresentable("lab result date: %v", err)
	}

	obs := fhir.NewObservation()
	obs.Status = fhir.ObservationFinal
	obs.Category = []fhir.CodeableConcept{category(fhirmodels.ObsCategoryLaboratory)}
	if d.ClinicalCode.IsEmpty() {
		obs.Code = fhir.CodeableConcept{Text: d.Name}
	} else {
		obs.Code = t.vocab.ToCodeableConcept(*d.ClinicalCode)
		if d.Name != "" {
			obs.AddExtension(extension.String(extension.LabResultName, d.Name))
		}
	}

	var text string
	obs.EffectiveDateTime, text = approx.ToChoice(d.When)
	if text != "" {
		obs.AddExtension(extension.String(extension.Description, text))
	}
	if cc := t.vocab.Concept(d.Substance); cc != nil {
		obs.AddExtension(extension.Concept(extension.LabSubstance, *cc))
	}
	if cc := t.vocab.Concept(d.Status); cc != nil {
		obs.AddExtension(extension.Concept(extension.LabStatus, *cc))
	}
	obs.Method = t.vocab.Concept(d.CollectionMethod)
	if d.Note != "" {
		obs.Note = []fhir.Annotation{{Text: d.Note}}
	}
	if d.Value != nil {
		t.labValueToFhir(obs, d.Value)
	}
	return obs, nil
}

// labValueToFhir sets value[x] from the first structured value, or the
// display text when nothing is structured. The full measurement is kept in an
// extension.
func (t *Transformer) labValueToFhir(obs *fhir.Observation, v *thing.LabResultValue) {
	m := &v.Measurement
	var unit *fhir.Quantity
	if len(m.Structured) > 0 {
		q := t.structuredToFhir(m.Structured[0])
		obs.ValueQuantity = &q
		unit = &q
	} else if m.Display != "" {
		obs.ValueString = m.Display
	}
	if m.Display != "" || len(m.Structured) > 1 {
		obs.AddExtension(t.measurementToFhir(extension.LabDisplayValue, m))
	}

	bound := func(v *float64) *fhir.Quantity {
		if v == nil {
			return nil
		}
		q := &fhir.Quantity{Value: floatPtr(*v)}
		if unit != nil {
			q.Unit, q.System, q.Code = unit.Unit, unit.System, unit.Code
		}
		return q
	}
	for _, r := range v.Ranges {
		rr := fhir.ObservationReferenceRange{
			Type: t.vocab.Concept(&r.Type),
			Text: r.Text.String(),
		}
		if r.Value != nil {
			rr.Low = bound(r.Value.Minimum)
			rr.High = bound(r.Value.Maximum)
		}
		obs.ReferenceRange = append(obs.ReferenceRange, rr)
	}
	for i := range v.Flags {
		if cc := t.vocab.Concept(&v.Flags[i]); cc != nil {
			obs.Interpretation = append(obs.Interpretation, *cc)
		}
	}
}

// LabTestResultsToHealthVault rebuilds the group tree from the report's
// contained observations. Results that do not point at a contained
// Observation are skipped.
func (t *Transformer) LabTestResultsToHealthVault(rep *fhir.DiagnosticReport) (*thing.LabTestResults, error) {
	lr := &thing.LabTestResults{}
	t.itemFromFhir(&rep.DomainResource, &lr.Item)

	var err error
	if lr.When, err = approx.FromChoice(rep.EffectiveDateTime, extension.GetString(rep.Extension, extension.Description)); err != nil {
		return nil, unrepresentable("lab report effective date: %v", err)
	}
	if len(rep.Performer) > 0 {
		lr.OrderedBy = t.resolveOrganization(rep, &rep.Performer[0])
	}

	seen := make(map[string]bool)
	for i := range rep.Result {
		obs, ok := contain.Find(rep, &rep.Result[i]).(*fhir.Observation)
		if !ok {
			t.log.Debug().Str("reference", rep.Result[i].Reference).Msg("lab result reference not contained, skipped")
			continue
		}
		g, err := t.labGroupFromFhir(rep, obs, seen)
		if err != nil {
			return nil, err
		}
		lr.Groups = append(lr.Groups, g)
	}
	if len(lr.Groups) == 0 {
		return nil, unrepresentable("lab report has no contained result groups")
	}
	return lr, nil
}

func (t *Transformer) labGroupFromFhir(rep *fhir.DiagnosticReport, obs *fhir.Observation, seen map[string]bool) (thing.LabTestResultGroup, error) {
	seen[obs.ID] = true
	g := thing.LabTestResultGroup{
		GroupName: t.vocab.FromCodeableConcept(obs.Code),
		Status:    t.vocab.Codable(extension.GetConcept(obs.Extension, extension.LabStatus)),
	}
	if len(obs.Performer) > 0 {
		g.LaboratoryName = t.resolveOrganization(rep, &obs.Performer[0])
	}
	for i := range obs.HasMember {
		sub, ok := contain.Find(rep, &obs.HasMember[i]).(*fhir.Observation)
		if !ok || seen[sub.ID] {
			continue
		}
		sg, err := t.labGroupFromFhir(rep, sub, seen)
		if err != nil {
			return g, err
		}
		g.SubGroups = append(g.SubGroups, sg)
	}
	for i := range obs.DerivedFrom {
		det, ok := contain.Find(rep, &obs.DerivedFrom[i]).(*fhir.Observation)
		if !ok {
			continue
		}
		d, err := t.labDetailFromFhir(det)
		if err != nil {
			return g, err
		}
		g.Results = append(g.Results, d)
	}
	return g, nil
}

func (t *Transformer) labDetailFromFhir(obs *fhir.Observation) (thing.LabTestResultDetails, error) {
	d := thing.LabTestResultDetails{
		Substance:        t.vocab.Codable(extension.GetConcept(obs.Extension, extension.LabSubstance)),
		Status:           t.vocab.Codable(extension.GetConcept(obs.Extension, extension.LabStatus)),
		CollectionMethod: t.vocab.Codable(obs.Method),
	}
	if name := extension.GetString(obs.Extension, extension.LabResultName); name != "" || len(obs.Code.Coding) > 0 {
		d.Name = name
		d.ClinicalCode = t.vocab.Codable(&obs.Code)
	} else {
		d.Name = obs.Code.Text
	}

	var err error
	if d.When, err = approx.FromChoice(obs.EffectiveDateTime, extension.GetString(obs.Extension, extension.Description)); err != nil {
		return d, unrepresentable("lab result effective date: %v", err)
	}
	if len(obs.Note) > 0 {
		d.Note = obs.Note[0].Text
	}
	d.Value = t.labValueFromFhir(obs)
	return d, nil
}

func (t *Transformer) labValueFromFhir(obs *fhir.Observation) *thing.LabResultValue {
	var m *thing.GeneralMeasurement
	switch {
	case fhir.FindExtension(obs.Extension, extension.LabDisplayValue) != nil:
		m = t.measurementFromFhir(obs.Extension, extension.LabDisplayValue)
		if len(m.Structured) == 0 && obs.ValueQuantity != nil {
			m.Structured = []thing.StructuredMeasurement{t.structuredFromFhir(*obs.ValueQuantity)}
		}
	case obs.ValueQuantity != nil:
		s := t.structuredFromFhir(*obs.ValueQuantity)
		m = &thing.GeneralMeasurement{Display: quantityText(s), Structured: []thing.StructuredMeasurement{s}}
	case obs.ValueString != "":
		m = &thing.GeneralMeasurement{Display: obs.ValueString}
	}
	if m == nil && len(obs.ReferenceRange) == 0 && len(obs.Interpretation) == 0 {
		return nil
	}

	v := &thing.LabResultValue{}
	if m != nil {
		v.Measurement = *m
	}
	for _, rr := range obs.ReferenceRange {
		r := thing.TestResultRange{Text: thing.CodableValue{Text: rr.Text}}
		if rr.Type != nil {
			r.Type = t.vocab.FromCodeableConcept(*rr.Type)
		}
		if rr.Low != nil || rr.High != nil {
			r.Value = &thing.TestResultRangeValue{}
			if rr.Low != nil {
				r.Value.Minimum = rr.Low.Value
			}
			if rr.High != nil {
				r.Value.Maximum = rr.High.Value
			}
		}
		v.Ranges = append(v.Ranges, r)
	}
	for _, cc := range obs.Interpretation {
		v.Flags = append(v.Flags, t.vocab.FromCodeableConcept(cc))
	}
	return v
}

func quantityText(s thing.StructuredMeasurement) string {
	return strings.TrimSpace(strconv.FormatFloat(s.Value, 'f', -1, 64) + " " + s.Units.Text)
}
