package transform

import (
	"github.com/ehr/hvfhir/internal/mapping/contain"
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

// PersonToFhir maps a referenced person to a Practitioner.
func (t *Transformer) PersonToFhir(p thing.Person) *fhir.Practitioner {
	pr := fhir.NewPractitioner()
	pr.Name = []fhir.HumanName{NameToFhir(p.Name)}
	pr.Telecom, pr.Address = ContactInfoToFhir(p.Contact)
	if p.ID != "" {
		pr.Identifier = []fhir.Identifier{{Value: p.ID}}
	}
	if p.ProfessionalTraining != "" {
		pr.Qualification = []fhir.PractitionerQualification{{Code: fhir.CodeableConcept{Text: p.ProfessionalTraining}}}
	}
	if p.Organization != "" {
		pr.AddExtension(extension.String(extension.Organization, p.Organization))
	}
	if cc := t.vocab.Concept(p.PersonType); cc != nil {
		pr.AddExtension(extension.Concept(extension.PersonType, *cc))
	}
	return pr
}

// PersonToHealthVault is the inverse of PersonToFhir.
func (t *Transformer) PersonToHealthVault(pr *fhir.Practitioner) *thing.Person {
	p := &thing.Person{
		Organization: extension.GetString(pr.Extension, extension.Organization),
		Contact:      ContactInfoToHealthVault(pr.Telecom, pr.Address),
		PersonType:   t.vocab.Codable(extension.GetConcept(pr.Extension, extension.PersonType)),
	}
	if len(pr.Name) > 0 {
		p.Name = NameToHealthVault(pr.Name[0])
	}
	if len(pr.Identifier) > 0 {
		p.ID = pr.Identifier[0].Value
	}
	if len(pr.Qualification) > 0 {
		p.ProfessionalTraining = pr.Qualification[0].Code.Text
	}
	return p
}

// OrganizationToFhir maps an institution. The website travels as a url
// telecom entry.
func (t *Transformer) OrganizationToFhir(o thing.Organization) *fhir.Organization {
	org := fhir.NewOrganization()
	org.Name = o.Name
	org.Telecom, org.Address = ContactInfoToFhir(o.Contact)
	if o.Website != "" {
		org.Telecom = append(org.Telecom, fhir.ContactPoint{System: fhir.ContactSystemURL, Value: o.Website})
	}
	org.Type = concepts(t.vocab.Concept(o.Type))
	return org
}

// OrganizationToHealthVault is the inverse of OrganizationToFhir.
func (t *Transformer) OrganizationToHealthVault(org *fhir.Organization) *thing.Organization {
	o := &thing.Organization{
		Name:    org.Name,
		Contact: ContactInfoToHealthVault(org.Telecom, org.Address),
		Type:    t.vocab.Codable(firstConcept(org.Type)),
	}
	for _, cp := range org.Telecom {
		if cp.System == fhir.ContactSystemURL {
			o.Website = cp.Value
			break
		}
	}
	return o
}

// attachPerson contains p in parent and returns the reference to it.
func (t *Transformer) attachPerson(parent fhir.Resource, p *thing.Person) *fhir.Reference {
	if p == nil {
		return nil
	}
	ref := contain.Attach(parent, t.PersonToFhir(*p), t.newID)
	ref.Display = p.Name.Full
	return &ref
}

// resolvePerson follows ref inside parent. An external reference with a
// display becomes a name-only person.
func (t *Transformer) resolvePerson(parent fhir.Resource, ref *fhir.Reference) *thing.Person {
	pr, ok := contain.Resolve(parent, ref, t.practitionerPlaceholder)
	if !ok {
		return nil
	}
	return t.PersonToHealthVault(pr)
}

func (t *Transformer) practitionerPlaceholder(display string) *fhir.Practitioner {
	t.log.Debug().Str("display", display).Msg("practitioner reference not contained, using display")
	pr := fhir.NewPractitioner()
	pr.Name = []fhir.HumanName{{Text: display}}
	return pr
}

func (t *Transformer) attachOrganization(parent fhir.Resource, o *thing.Organization) *fhir.Reference {
	if o == nil {
		return nil
	}
	ref := contain.Attach(parent, t.OrganizationToFhir(*o), t.newID)
	ref.Display = o.Name
	return &ref
}

func (t *Transformer) resolveOrganization(parent fhir.Resource, ref *fhir.Reference) *thing.Organization {
	org, ok := contain.Resolve(parent, ref, t.organizationPlaceholder)
	if !ok {
		return nil
	}
	return t.OrganizationToHealthVault(org)
}

func (t *Transformer) organizationPlaceholder(display string) *fhir.Organization {
	t.log.Debug().Str("display", display).Msg("organization reference not contained, using display")
	org := fhir.NewOrganization()
	org.Name = display
	return org
}
