package transform

import (
	"strings"

	"github.com/ehr/hvfhir/internal/mapping/approx"
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

var conditionStatuses = map[string]string{
	"active":       fhirmodels.ConditionActive,
	"intermittent": fhirmodels.ConditionActive,
	"recurrence":   fhirmodels.ConditionRecurrence,
	"relapse":      fhirmodels.ConditionRelapse,
	"inactive":     fhirmodels.ConditionInactive,
	"remission":    fhirmodels.ConditionRemission,
	"resolved":     fhirmodels.ConditionResolved,
	"cured":        fhirmodels.ConditionResolved,
}

func conditionClinicalStatus(cv *thing.CodableValue) *fhir.CodeableConcept {
	if cv == nil {
		return nil
	}
	key := cv.Text
	if code, ok := cv.Primary(); ok {
		key = code.Value
	}
	status, ok := conditionStatuses[strings.ToLower(key)]
	if !ok {
		status, ok = conditionStatuses[strings.ToLower(cv.Text)]
	}
	if !ok {
		return nil
	}
	return &fhir.CodeableConcept{Coding: []fhir.Coding{{System: fhirmodels.SystemConditionClinical, Code: status}}}
}

// ConditionToFhir maps a condition. The free-form status is kept as an
// extension; a recognised status also sets clinicalStatus.
func (t *Transformer) ConditionToFhir(c *thing.Condition) (*fhir.Condition, error) {
	if c.Name.IsEmpty() {
		return nil, unrepresentable("condition name is required")
	}
	for field, d := range map[string]*thing.ApproximateDateTime{"onset": c.OnsetDate, "stop": c.StopDate} {
		if err := d.Validate(); err != nil {
			return nil, unrepresentable("condition %s date: %v", field, err)
		}
	}

	fc := fhir.NewCondition()
	t.itemToFhir(c, &fc.DomainResource)

	code := t.vocab.ToCodeableConcept(c.Name)
	fc.Code = &code
	fc.OnsetDateTime, fc.OnsetString = approx.ToChoice(c.OnsetDate)
	fc.AbatementDateTime, fc.AbatementString = approx.ToChoice(c.StopDate)
	if cc := t.vocab.Concept(c.Status); cc != nil {
		fc.AddExtension(extension.Concept(extension.ConditionStatus, *cc))
		fc.ClinicalStatus = conditionClinicalStatus(c.Status)
	}
	if c.StopReason != "" {
		fc.AddExtension(extension.String(extension.ConditionStopReason, c.StopReason))
	}
	return fc, nil
}

// ConditionToHealthVault is the inverse of ConditionToFhir.
func (t *Transformer) ConditionToHealthVault(fc *fhir.Condition) (*thing.Condition, error) {
	if fc.Code.IsEmpty() {
		return nil, unrepresentable("condition has no code")
	}
	c := &thing.Condition{Name: t.vocab.FromCodeableConcept(*fc.Code)}
	t.itemFromFhir(&fc.DomainResource, &c.Item)

	var err error
	if c.OnsetDate, err = approx.FromChoice(fc.OnsetDateTime, fc.OnsetString); err != nil {
		return nil, unrepresentable("condition onset: %v", err)
	}
	if c.StopDate, err = approx.FromChoice(fc.AbatementDateTime, fc.AbatementString); err != nil {
		return nil, unrepresentable("condition abatement: %v", err)
	}
	c.Status = t.vocab.Codable(extension.GetConcept(fc.Extension, extension.ConditionStatus))
	if c.Status == nil && fc.ClinicalStatus != nil {
		if code := fc.ClinicalStatus.FirstCode(); code != "" {
			c.Status = &thing.CodableValue{Text: code}
		}
	}
	c.StopReason = extension.GetString(fc.Extension, extension.ConditionStopReason)
	return c, nil
}
