package thing

import "time"

// File is a binary document attached to the record. Content is either held
// inline or in the record store under BlobID.
type File struct {
	Item
	Name        string       `json:"name"`
	Size        int64        `json:"size"`
	ContentType CodableValue `json:"content-type"`
	Content     []byte       `json:"content,omitempty"`
	BlobID      string       `json:"blob-id,omitempty"`
}

func (*File) TypeID() string   { return FileTypeID }
func (*File) TypeName() string { return "file" }

// Personal is the person's core demographic record.
type Personal struct {
	Item
	Name                  *Name                `json:"name,omitempty"`
	BirthDate             *DateTime            `json:"birthdate,omitempty"`
	BloodType             *CodableValue        `json:"blood-type,omitempty"`
	Ethnicity             *CodableValue        `json:"ethnicity,omitempty"`
	SocialSecurityNumber  string               `json:"ssn,omitempty"`
	MaritalStatus         *CodableValue        `json:"marital-status,omitempty"`
	EmploymentStatus      string               `json:"employment-status,omitempty"`
	IsDeceased            *bool                `json:"is-deceased,omitempty"`
	DateOfDeath           *ApproximateDateTime `json:"date-of-death,omitempty"`
	Religion              *CodableValue        `json:"religion,omitempty"`
	IsVeteran             *bool                `json:"is-veteran,omitempty"`
	HighestEducationLevel *CodableValue        `json:"highest-education-level,omitempty"`
	IsDisabled            *bool                `json:"is-disabled,omitempty"`
	OrganDonor            string               `json:"organ-donor,omitempty"`
}

func (*Personal) TypeID() string   { return PersonalTypeID }
func (*Personal) TypeName() string { return "personal" }

// Language is a language the person speaks.
type Language struct {
	Language  CodableValue `json:"language"`
	IsPrimary *bool        `json:"is-primary,omitempty"`
}

// Basic is the person's minimal demographic record.
type Basic struct {
	Item
	Gender          string        `json:"gender,omitempty"`
	BirthYear       *int          `json:"birthyear,omitempty"`
	Country         *CodableValue `json:"country,omitempty"`
	PostalCode      string        `json:"postcode,omitempty"`
	City            string        `json:"city,omitempty"`
	StateOrProvince *CodableValue `json:"state,omitempty"`
	FirstDayOfWeek  *time.Weekday `json:"firstdow,omitempty"`
	Languages       []Language    `json:"language,omitempty"`
}

func (*Basic) TypeID() string   { return BasicTypeID }
func (*Basic) TypeName() string { return "basic" }

// Basic gender codes.
const (
	GenderMale   = "m"
	GenderFemale = "f"
)

// Contact is the person's own contact information.
type Contact struct {
	Item
	ContactInformation ContactInfo `json:"contact"`
}

func (*Contact) TypeID() string   { return ContactTypeID }
func (*Contact) TypeName() string { return "contact" }
