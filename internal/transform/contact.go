package transform

import (
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

func contactPoint(system, value, description string, isPrimary *bool) fhir.ContactPoint {
	cp := fhir.ContactPoint{System: system, Value: value}
	if isPrimary != nil {
		if *isPrimary {
			cp.Rank = 1
		}
		cp.Extension = append(cp.Extension, extension.Bool(extension.IsPrimary, *isPrimary))
	}
	if description != "" {
		cp.Extension = append(cp.Extension, extension.String(extension.Description, description))
	}
	return cp
}

// PhoneToFhir maps a telephone number.
func PhoneToFhir(p thing.Phone) fhir.ContactPoint {
	return contactPoint(fhir.ContactSystemPhone, p.Number, p.Description, p.IsPrimary)
}

// EmailToFhir maps an email address.
func EmailToFhir(e thing.Email) fhir.ContactPoint {
	return contactPoint(fhir.ContactSystemEmail, e.Address, e.Description, e.IsPrimary)
}

// ContactInfoToFhir splits contact information into telecom and address
// lists.
func ContactInfoToFhir(c *thing.ContactInfo) ([]fhir.ContactPoint, []fhir.Address) {
	if c.IsEmpty() {
		return nil, nil
	}
	var telecom []fhir.ContactPoint
	for _, p := range c.Phones {
		telecom = append(telecom, PhoneToFhir(p))
	}
	for _, e := range c.Emails {
		telecom = append(telecom, EmailToFhir(e))
	}
	var addrs []fhir.Address
	for _, a := range c.Addresses {
		addrs = append(addrs, AddressToFhir(a))
	}
	return telecom, addrs
}

// ContactInfoToHealthVault rebuilds contact information. Telecom entries
// other than phone and email are skipped. Returns nil when nothing maps.
func ContactInfoToHealthVault(telecom []fhir.ContactPoint, addrs []fhir.Address) *thing.ContactInfo {
	c := &thing.ContactInfo{}
	for _, cp := range telecom {
		isPrimary := extension.GetBool(cp.Extension, extension.IsPrimary)
		if isPrimary == nil && cp.Rank == 1 {
			isPrimary = boolPtr(true)
		}
		description := extension.GetString(cp.Extension, extension.Description)
		switch cp.System {
		case fhir.ContactSystemPhone:
			c.Phones = append(c.Phones, thing.Phone{Number: cp.Value, Description: description, IsPrimary: isPrimary})
		case fhir.ContactSystemEmail:
			c.Emails = append(c.Emails, thing.Email{Address: cp.Value, Description: description, IsPrimary: isPrimary})
		}
	}
	for _, a := range addrs {
		c.Addresses = append(c.Addresses, AddressToHealthVault(a))
	}
	if c.IsEmpty() {
		return nil
	}
	return c
}
