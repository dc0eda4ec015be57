package transform

import (
	"github.com/ehr/hvfhir/internal/mapping/approx"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

func performerFunction(code string) *fhir.CodeableConcept {
	return &fhir.CodeableConcept{Coding: []fhir.Coding{{System: fhirmodels.SystemPerformerFunction, Code: code}}}
}

// ProcedureToFhir maps a procedure. The primary and secondary providers are
// contained practitioners tagged with their participation function.
func (t *Transformer) ProcedureToFhir(p *thing.Procedure) (*fhir.Procedure, error) {
	if p.Name.IsEmpty() {
		return nil, unrepresentable("procedure name is required")
	}
	if err := p.When.Validate(); err != nil {
		return nil, unrepresentable("procedure date: %v", err)
	}

	fp := fhir.NewProcedure()
	t.itemToFhir(p, &fp.DomainResource)
	fp.Status = fhir.EventCompleted

	code := t.vocab.ToCodeableConcept(p.Name)
	fp.Code = &code
	fp.PerformedDateTime, fp.PerformedString = approx.ToChoice(p.When)
	fp.BodySite = concepts(t.vocab.Concept(p.AnatomicLocation))

	if ref := t.attachPerson(fp, p.PrimaryProvider); ref != nil {
		fp.Performer = append(fp.Performer, fhir.ProcedurePerformer{
			Function: performerFunction(fhirmodels.ParticipantPrimary),
			Actor:    *ref,
		})
	}
	if ref := t.attachPerson(fp, p.SecondaryProvider); ref != nil {
		fp.Performer = append(fp.Performer, fhir.ProcedurePerformer{
			Function: performerFunction(fhirmodels.ParticipantSecondary),
			Actor:    *ref,
		})
	}
	return fp, nil
}

// ProcedureToHealthVault is the inverse of ProcedureToFhir. Performers without
// a function code fill the primary slot first, then the secondary.
func (t *Transformer) ProcedureToHealthVault(fp *fhir.Procedure) (*thing.Procedure, error) {
	if fp.Code.IsEmpty() {
		return nil, unrepresentable("procedure has no code")
	}
	p := &thing.Procedure{Name: t.vocab.FromCodeableConcept(*fp.Code)}
	t.itemFromFhir(&fp.DomainResource, &p.Item)

	when, err := approx.FromChoice(fp.PerformedDateTime, fp.PerformedString)
	if err != nil {
		return nil, unrepresentable("procedure performed: %v", err)
	}
	p.When = when
	p.AnatomicLocation = t.vocab.Codable(firstConcept(fp.BodySite))

	var untagged []*thing.Person
	for i := range fp.Performer {
		perf := &fp.Performer[i]
		person := t.resolvePerson(fp, &perf.Actor)
		if person == nil {
			continue
		}
		switch {
		case perf.Function.HasCode(fhirmodels.SystemPerformerFunction, fhirmodels.ParticipantPrimary) && p.PrimaryProvider == nil:
			p.PrimaryProvider = person
		case perf.Function.HasCode(fhirmodels.SystemPerformerFunction, fhirmodels.ParticipantSecondary) && p.SecondaryProvider == nil:
			p.SecondaryProvider = person
		default:
			untagged = append(untagged, person)
		}
	}
	for _, person := range untagged {
		switch {
		case p.PrimaryProvider == nil:
			p.PrimaryProvider = person
		case p.SecondaryProvider == nil:
			p.SecondaryProvider = person
		}
	}
	return p, nil
}
