package transform

import (
	"time"

	"github.com/ehr/hvfhir/internal/mapping/approx"
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

// PersonalToFhir maps the core demographic record to a Patient. The time of
// birth has no place in birthDate and travels as a full dateTime extension.
func (t *Transformer) PersonalToFhir(p *thing.Personal) (*fhir.Patient, error) {
	if err := p.DateOfDeath.Validate(); err != nil {
		return nil, unrepresentable("date of death: %v", err)
	}
	if p.BirthDate != nil {
		if err := p.BirthDate.Validate(); err != nil {
			return nil, unrepresentable("birth date: %v", err)
		}
	}

	pat := fhir.NewPatient()
	t.itemToFhir(p, &pat.DomainResource)
	if p.Name != nil {
		pat.Name = []fhir.HumanName{NameToFhir(*p.Name)}
	}
	if p.BirthDate != nil {
		pat.BirthDate = approx.DateToFhir(p.BirthDate.Date)
		if p.BirthDate.Time != nil {
			pat.AddExtension(extension.DateTime(extension.BirthTime, approx.DateTimeToFhir(*p.BirthDate)))
		}
	}
	if p.SocialSecurityNumber != "" {
		pat.Identifier = []fhir.Identifier{{System: fhirmodels.SystemSSN, Value: p.SocialSecurityNumber}}
	}
	pat.MaritalStatus = t.vocab.Concept(p.MaritalStatus)

	dt, text := approx.ToChoice(p.DateOfDeath)
	switch {
	case dt != "":
		pat.DeceasedDateTime = dt
	case p.IsDeceased != nil:
		pat.DeceasedBoolean = boolPtr(*p.IsDeceased)
	case text != "":
		pat.DeceasedBoolean = boolPtr(true)
	}
	if text != "" {
		pat.AddExtension(extension.String(extension.Description, text))
	}

	for _, e := range []struct {
		url string
		cv  *thing.CodableValue
	}{
		{extension.BloodType, p.BloodType},
		{extension.Ethnicity, p.Ethnicity},
		{extension.Religion, p.Religion},
		{extension.EducationLevel, p.HighestEducationLevel},
	} {
		if cc := t.vocab.Concept(e.cv); cc != nil {
			pat.AddExtension(extension.Concept(e.url, *cc))
		}
	}
	if p.IsVeteran != nil {
		pat.AddExtension(extension.Bool(extension.IsVeteran, *p.IsVeteran))
	}
	if p.IsDisabled != nil {
		pat.AddExtension(extension.Bool(extension.IsDisabled, *p.IsDisabled))
	}
	if p.OrganDonor != "" {
		pat.AddExtension(extension.String(extension.OrganDonor, p.OrganDonor))
	}
	if p.EmploymentStatus != "" {
		pat.AddExtension(extension.String(extension.EmploymentStatus, p.EmploymentStatus))
	}
	return pat, nil
}

// PersonalToHealthVault is the inverse of PersonalToFhir.
func (t *Transformer) PersonalToHealthVault(pat *fhir.Patient) (*thing.Personal, error) {
	p := &thing.Personal{
		MaritalStatus:         t.vocab.Codable(pat.MaritalStatus),
		BloodType:             t.vocab.Codable(extension.GetConcept(pat.Extension, extension.BloodType)),
		Ethnicity:             t.vocab.Codable(extension.GetConcept(pat.Extension, extension.Ethnicity)),
		Religion:              t.vocab.Codable(extension.GetConcept(pat.Extension, extension.Religion)),
		HighestEducationLevel: t.vocab.Codable(extension.GetConcept(pat.Extension, extension.EducationLevel)),
		IsVeteran:             extension.GetBool(pat.Extension, extension.IsVeteran),
		IsDisabled:            extension.GetBool(pat.Extension, extension.IsDisabled),
		OrganDonor:            extension.GetString(pat.Extension, extension.OrganDonor),
		EmploymentStatus:      extension.GetString(pat.Extension, extension.EmploymentStatus),
	}
	t.itemFromFhir(&pat.DomainResource, &p.Item)

	if len(pat.Name) > 0 {
		n := NameToHealthVault(pat.Name[0])
		p.Name = &n
	}
	for _, id := range pat.Identifier {
		if id.System == fhirmodels.SystemSSN {
			p.SocialSecurityNumber = id.Value
			break
		}
	}

	if bt := extension.GetDateTime(pat.Extension, extension.BirthTime); bt != "" {
		dt, err := approx.DateTimeFromFhir(bt)
		if err != nil {
			return nil, unrepresentable("birth time: %v", err)
		}
		p.BirthDate = dt
	} else if pat.BirthDate != "" {
		d, err := approx.DateFromFhir(pat.BirthDate)
		if err != nil {
			return nil, unrepresentable("birth date: %v", err)
		}
		p.BirthDate = &thing.DateTime{Date: *d}
	}

	death, err := approx.FromChoice(pat.DeceasedDateTime, extension.GetString(pat.Extension, extension.Description))
	if err != nil {
		return nil, unrepresentable("deceased date: %v", err)
	}
	p.DateOfDeath = death
	switch {
	case pat.DeceasedBoolean != nil:
		p.IsDeceased = boolPtr(*pat.DeceasedBoolean)
	case pat.DeceasedDateTime != "":
		p.IsDeceased = boolPtr(true)
	}
	return p, nil
}

var genders = map[string]string{
	thing.GenderMale:   fhir.GenderMale,
	thing.GenderFemale: fhir.GenderFemale,
}

// BasicToFhir maps the minimal demographic record to a Patient. City, state,
// postal code and country form a single address.
func (t *Transformer) BasicToFhir(b *thing.Basic) (*fhir.Patient, error) {
	pat := fhir.NewPatient()
	t.itemToFhir(b, &pat.DomainResource)

	if b.Gender != "" {
		g, ok := genders[b.Gender]
		if !ok {
			t.log.Debug().Str("gender", b.Gender).Msg("unrecognised gender code")
			g = fhir.GenderUnknown
		}
		pat.Gender = g
	}
	if b.BirthYear != nil {
		pat.AddExtension(extension.Int(extension.BirthYear, *b.BirthYear))
	}
	if b.FirstDayOfWeek != nil {
		pat.AddExtension(extension.Int(extension.FirstDayOfWeek, int(*b.FirstDayOfWeek)))
	}

	if b.City != "" || b.PostalCode != "" || !b.StateOrProvince.IsEmpty() || !b.Country.IsEmpty() {
		addr := fhir.Address{City: b.City, PostalCode: b.PostalCode}
		if cc := t.vocab.Concept(b.StateOrProvince); cc != nil {
			addr.State = b.StateOrProvince.String()
			addr.Extension = append(addr.Extension, extension.Concept(extension.StateOrProvince, *cc))
		}
		if cc := t.vocab.Concept(b.Country); cc != nil {
			addr.Country = b.Country.String()
			addr.Extension = append(addr.Extension, extension.Concept(extension.Country, *cc))
		}
		pat.Address = []fhir.Address{addr}
	}

	for _, l := range b.Languages {
		pat.Communication = append(pat.Communication, fhir.PatientCommunication{
			Language:  t.vocab.ToCodeableConcept(l.Language),
			Preferred: l.IsPrimary,
		})
	}
	return pat, nil
}

// BasicToHealthVault is the inverse of BasicToFhir. Only the first address is
// read.
func (t *Transformer) BasicToHealthVault(pat *fhir.Patient) (*thing.Basic, error) {
	b := &thing.Basic{BirthYear: extension.GetInt(pat.Extension, extension.BirthYear)}
	t.itemFromFhir(&pat.DomainResource, &b.Item)

	for code, g := range genders {
		if g == pat.Gender {
			b.Gender = code
		}
	}
	if dow := extension.GetInt(pat.Extension, extension.FirstDayOfWeek); dow != nil {
		if *dow < int(time.Sunday) || *dow > int(time.Saturday) {
			return nil, unrepresentable("first day of week %d out of range", *dow)
		}
		wd := time.Weekday(*dow)
		b.FirstDayOfWeek = &wd
	}

	if len(pat.Address) > 0 {
		a := pat.Address[0]
		b.City = a.City
		b.PostalCode = a.PostalCode
		b.StateOrProvince = t.vocab.Codable(extension.GetConcept(a.Extension, extension.StateOrProvince))
		if b.StateOrProvince == nil && a.State != "" {
			b.StateOrProvince = &thing.CodableValue{Text: a.State}
		}
		b.Country = t.vocab.Codable(extension.GetConcept(a.Extension, extension.Country))
		if b.Country == nil && a.Country != "" {
			b.Country = &thing.CodableValue{Text: a.Country}
		}
	}

	for _, c := range pat.Communication {
		b.Languages = append(b.Languages, thing.Language{
			Language:  t.vocab.FromCodeableConcept(c.Language),
			IsPrimary: c.Preferred,
		})
	}
	return b, nil
}

// ContactToFhir maps the person's own contact details to a Patient's telecom
// and address.
func (t *Transformer) ContactToFhir(c *thing.Contact) (*fhir.Patient, error) {
	pat := fhir.NewPatient()
	t.itemToFhir(c, &pat.DomainResource)
	pat.Telecom, pat.Address = ContactInfoToFhir(&c.ContactInformation)
	return pat, nil
}

// ContactToHealthVault is the inverse of ContactToFhir.
func (t *Transformer) ContactToHealthVault(pat *fhir.Patient) (*thing.Contact, error) {
	c := &thing.Contact{}
	t.itemFromFhir(&pat.DomainResource, &c.Item)
	if info := ContactInfoToHealthVault(pat.Telecom, pat.Address); info != nil {
		c.ContactInformation = *info
	}
	return c, nil
}
