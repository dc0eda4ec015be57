package thing

// Name is a person's name.
type Name struct {
	Full   string        `json:"full"`
	Title  *CodableValue `json:"title,omitempty"`
	First  string        `json:"first,omitempty"`
	Middle string        `json:"middle,omitempty"`
	Last   string        `json:"last,omitempty"`
	Suffix *CodableValue `json:"suffix,omitempty"`
}

// Address is a postal address.
type Address struct {
	Description string   `json:"description,omitempty"`
	IsPrimary   *bool    `json:"is-primary,omitempty"`
	Street      []string `json:"street"`
	City        string   `json:"city"`
	State       string   `json:"state,omitempty"`
	PostalCode  string   `json:"postcode"`
	Country     string   `json:"country"`
	County      string   `json:"county,omitempty"`
}

// Phone is a telephone number.
type Phone struct {
	Description string `json:"description,omitempty"`
	IsPrimary   *bool  `json:"is-primary,omitempty"`
	Number      string `json:"number"`
}

// Email is an email address.
type Email struct {
	Description string `json:"description,omitempty"`
	IsPrimary   *bool  `json:"is-primary,omitempty"`
	Address     string `json:"address"`
}

// ContactInfo groups the ways a person or organization can be reached.
type ContactInfo struct {
	Addresses []Address `json:"address,omitempty"`
	Phones    []Phone   `json:"phone,omitempty"`
	Emails    []Email   `json:"email,omitempty"`
}

// IsEmpty reports whether no contact details are present.
func (c *ContactInfo) IsEmpty() bool {
	return c == nil || (len(c.Addresses) == 0 && len(c.Phones) == 0 && len(c.Emails) == 0)
}

// Person is a provider, caregiver or other individual referenced by an item.
type Person struct {
	Name                 Name          `json:"name"`
	Organization         string        `json:"organization,omitempty"`
	ProfessionalTraining string        `json:"professional-training,omitempty"`
	ID                   string        `json:"id,omitempty"`
	Contact              *ContactInfo  `json:"contact,omitempty"`
	PersonType           *CodableValue `json:"type,omitempty"`
}

// Organization is a laboratory, clinic or other institution.
type Organization struct {
	Name    string        `json:"name"`
	Contact *ContactInfo  `json:"contact,omitempty"`
	Type    *CodableValue `json:"type,omitempty"`
	Website string        `json:"website,omitempty"`
}
