package transform

import (
	"strings"

	"github.com/ehr/hvfhir/internal/mapping/approx"
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

var allergyCategories = map[string]string{
	"food":          fhir.AllergyCategoryFood,
	"medication":    fhir.AllergyCategoryMedication,
	"drug":          fhir.AllergyCategoryMedication,
	"environment":   fhir.AllergyCategoryEnvironment,
	"environmental": fhir.AllergyCategoryEnvironment,
	"animal":        fhir.AllergyCategoryEnvironment,
	"plant":         fhir.AllergyCategoryEnvironment,
	"pollen":        fhir.AllergyCategoryEnvironment,
	"biologic":      fhir.AllergyCategoryBiologic,
}

// allergyCategory derives the FHIR category from the allergen type's code or
// text.
func allergyCategory(cv *thing.CodableValue) string {
	if cv == nil {
		return ""
	}
	if code, ok := cv.Primary(); ok {
		if c, ok := allergyCategories[strings.ToLower(code.Value)]; ok {
			return c
		}
	}
	return allergyCategories[strings.ToLower(cv.Text)]
}

func allergyStatus(code string) *fhir.CodeableConcept {
	return &fhir.CodeableConcept{Coding: []fhir.Coding{{System: fhirmodels.SystemAllergyClinical, Code: code}}}
}

// AllergyToFhir maps an allergy. A negated allergy is resolved; otherwise it
// is active.
func (t *Transformer) AllergyToFhir(a *thing.Allergy) (*fhir.AllergyIntolerance, error) {
	if a.Name.IsEmpty() {
		return nil, unrepresentable("allergy name is required")
	}
	if err := a.FirstObserved.Validate(); err != nil {
		return nil, unrepresentable("allergy first observed: %v", err)
	}

	ai := fhir.NewAllergyIntolerance()
	t.itemToFhir(a, &ai.DomainResource)

	code := t.vocab.ToCodeableConcept(a.Name)
	ai.Code = &code
	if a.IsNegated != nil && *a.IsNegated {
		ai.ClinicalStatus = allergyStatus(fhirmodels.AllergyResolved)
	} else {
		ai.ClinicalStatus = allergyStatus(fhirmodels.AllergyActive)
	}
	if cc := t.vocab.Concept(a.Reaction); cc != nil {
		ai.Reaction = []fhir.AllergyIntoleranceReaction{{Manifestation: []fhir.CodeableConcept{*cc}}}
	}
	ai.OnsetDateTime, ai.OnsetString = approx.ToChoice(a.FirstObserved)

	if cc := t.vocab.Concept(a.AllergenType); cc != nil {
		if c := allergyCategory(a.AllergenType); c != "" {
			ai.Category = []string{c}
		}
		ai.AddExtension(extension.Concept(extension.AllergenType, *cc))
	}
	if cc := t.vocab.Concept(a.AllergenCode); cc != nil {
		ai.AddExtension(extension.Concept(extension.AllergenCode, *cc))
	}
	if cc := t.vocab.Concept(a.Treatment); cc != nil {
		ai.AddExtension(extension.Concept(extension.AllergyTreatment, *cc))
	}
	ai.Asserter = t.attachPerson(ai, a.TreatmentProvider)
	return ai, nil
}

// AllergyToHealthVault is the inverse of AllergyToFhir.
func (t *Transformer) AllergyToHealthVault(ai *fhir.AllergyIntolerance) (*thing.Allergy, error) {
	if ai.Code.IsEmpty() {
		return nil, unrepresentable("allergy intolerance has no code")
	}
	a := &thing.Allergy{Name: t.vocab.FromCodeableConcept(*ai.Code)}
	t.itemFromFhir(&ai.DomainResource, &a.Item)

	if ai.ClinicalStatus != nil {
		status := ai.ClinicalStatus.FirstCode()
		a.IsNegated = boolPtr(status == fhirmodels.AllergyResolved || status == fhirmodels.AllergyInactive)
	}
	if len(ai.Reaction) > 0 {
		a.Reaction = t.vocab.Codable(firstConcept(ai.Reaction[0].Manifestation))
	}
	first, err := approx.FromChoice(ai.OnsetDateTime, ai.OnsetString)
	if err != nil {
		return nil, unrepresentable("allergy onset: %v", err)
	}
	a.FirstObserved = first

	a.AllergenType = t.vocab.Codable(extension.GetConcept(ai.Extension, extension.AllergenType))
	if a.AllergenType == nil && len(ai.Category) > 0 {
		a.AllergenType = &thing.CodableValue{Text: ai.Category[0]}
	}
	a.AllergenCode = t.vocab.Codable(extension.GetConcept(ai.Extension, extension.AllergenCode))
	a.Treatment = t.vocab.Codable(extension.GetConcept(ai.Extension, extension.AllergyTreatment))
	a.TreatmentProvider = t.resolvePerson(ai, ai.Asserter)
	return a, nil
}
