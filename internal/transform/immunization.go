package transform

import (
	"github.com/ehr/hvfhir/internal/mapping/approx"
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

// ImmunizationToFhir maps a vaccine administration. The manufacturer becomes
// a contained Organization and the administrator a contained Practitioner.
func (t *Transformer) ImmunizationToFhir(im *thing.Immunization) (*fhir.Immunization, error) {
	if im.Name.IsEmpty() {
		return nil, unrepresentable("immunization name is required")
	}
	if err := im.AdministrationDate.Validate(); err != nil {
		return nil, unrepresentable("administration date: %v", err)
	}
	if err := im.ExpirationDate.Validate(); err != nil {
		return nil, unrepresentable("expiration date: %v", err)
	}

	fi := fhir.NewImmunization()
	t.itemToFhir(im, &fi.DomainResource)
	fi.Status = fhir.EventCompleted
	fi.VaccineCode = t.vocab.ToCodeableConcept(im.Name)
	fi.OccurrenceDateTime, fi.OccurrenceString = approx.ToChoice(im.AdministrationDate)

	if ref := t.attachPerson(fi, im.Administrator); ref != nil {
		fi.Performer = []fhir.ImmunizationPerformer{{Actor: *ref}}
	}
	if !im.Manufacturer.IsEmpty() {
		fi.Manufacturer = t.attachOrganization(fi, &thing.Organization{Name: im.Manufacturer.String(), Type: im.Manufacturer})
	}
	fi.LotNumber = im.Lot
	fi.Route = t.vocab.Concept(im.Route)
	fi.ExpirationDate = approx.PartialDateToFhir(im.ExpirationDate)
	fi.Site = t.vocab.Concept(im.AnatomicSurface)
	if im.Sequence != "" {
		fi.ProtocolApplied = []fhir.ImmunizationProtocolApplied{{Series: im.Sequence}}
	}
	if im.AdverseEvent != "" {
		fi.AddExtension(extension.String(extension.ImmunizationAdverseEvent, im.AdverseEvent))
	}
	if im.Consent != "" {
		fi.AddExtension(extension.String(extension.ImmunizationConsent, im.Consent))
	}
	return fi, nil
}

// ImmunizationToHealthVault is the inverse of ImmunizationToFhir.
func (t *Transformer) ImmunizationToHealthVault(fi *fhir.Immunization) (*thing.Immunization, error) {
	if fi.VaccineCode.IsEmpty() {
		return nil, unrepresentable("immunization has no vaccine code")
	}
	im := &thing.Immunization{Name: t.vocab.FromCodeableConcept(fi.VaccineCode)}
	t.itemFromFhir(&fi.DomainResource, &im.Item)

	var err error
	if im.AdministrationDate, err = approx.FromChoice(fi.OccurrenceDateTime, fi.OccurrenceString); err != nil {
		return nil, unrepresentable("immunization occurrence: %v", err)
	}
	if len(fi.Performer) > 0 {
		im.Administrator = t.resolvePerson(fi, &fi.Performer[0].Actor)
	}
	if org := t.resolveOrganization(fi, fi.Manufacturer); org != nil {
		im.Manufacturer = org.Type
		if im.Manufacturer == nil && org.Name != "" {
			im.Manufacturer = &thing.CodableValue{Text: org.Name}
		}
	}
	im.Lot = fi.LotNumber
	im.Route = t.vocab.Codable(fi.Route)
	if fi.ExpirationDate != "" {
		if im.ExpirationDate, err = approx.PartialDateFromFhir(fi.ExpirationDate); err != nil {
			return nil, unrepresentable("immunization expiration: %v", err)
		}
	}
	im.AnatomicSurface = t.vocab.Codable(fi.Site)
	if len(fi.ProtocolApplied) > 0 {
		im.Sequence = fi.ProtocolApplied[0].Series
	}
	im.AdverseEvent = extension.GetString(fi.Extension, extension.ImmunizationAdverseEvent)
	im.Consent = extension.GetString(fi.Extension, extension.ImmunizationConsent)
	return im, nil
}
