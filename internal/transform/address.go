package transform

import (
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

// AddressToFhir maps a postal address. The is-primary extension is present
// only when IsPrimary is set.
func AddressToFhir(a thing.Address) fhir.Address {
	out := fhir.Address{
		Text:       a.Description,
		Line:       append([]string(nil), a.Street...),
		City:       a.City,
		District:   a.County,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
	if a.IsPrimary != nil {
		out.Extension = append(out.Extension, extension.Bool(extension.AddressIsPrimary, *a.IsPrimary))
	}
	return out
}

// AddressToHealthVault is the inverse of AddressToFhir.
func AddressToHealthVault(a fhir.Address) thing.Address {
	return thing.Address{
		Description: a.Text,
		IsPrimary:   extension.GetBool(a.Extension, extension.AddressIsPrimary),
		Street:      append([]string(nil), a.Line...),
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Country:     a.Country,
		County:      a.District,
	}
}
