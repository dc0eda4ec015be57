package fhir

import (
	"errors"
	"time"
)

// ErrUnknownResourceType is returned when a resource type has no Go model.
var ErrUnknownResourceType = errors.New("unknown resource type")

// Resource is implemented by every FHIR resource model in this package.
type Resource interface {
	GetResourceType() string
	GetID() string
	SetID(id string)
	Domain() *DomainResource
}

// DomainResource carries the fields shared by all clinical resources.
type DomainResource struct {
	ResourceType string      `json:"resourceType"`
	ID           string      `json:"id,omitempty"`
	Meta         *Meta       `json:"meta,omitempty"`
	Text         *Narrative  `json:"text,omitempty"`
	Contained    Contained   `json:"contained,omitempty"`
	Extension    []Extension `json:"extension,omitempty"`
}

func (d *DomainResource) GetResourceType() string { return d.ResourceType }
func (d *DomainResource) GetID() string           { return d.ID }
func (d *DomainResource) SetID(id string)         { d.ID = id }
func (d *DomainResource) Domain() *DomainResource { return d }

// FindExtension returns the first top-level extension with the given URL.
func (d *DomainResource) FindExtension(url string) *Extension {
	return FindExtension(d.Extension, url)
}

// AddExtension appends ext to the resource.
func (d *DomainResource) AddExtension(ext Extension) {
	d.Extension = append(d.Extension, ext)
}

type Meta struct {
	VersionID   string     `json:"versionId,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
	Source      string     `json:"source,omitempty"`
	Profile     []string   `json:"profile,omitempty"`
	Tag         []Coding   `json:"tag,omitempty"`
}

// Narrative is the human-readable summary of a resource.
type Narrative struct {
	Status string `json:"status"`
	Div    string `json:"div"`
}

// Narrative status codes.
const (
	NarrativeGenerated  = "generated"
	NarrativeExtensions = "extensions"
	NarrativeAdditional = "additional"
	NarrativeEmpty      = "empty"
)

// New returns an empty model for resourceType, or ErrUnknownResourceType.
func New(resourceType string) (Resource, error) {
	switch resourceType {
	case "Patient":
		return NewPatient(), nil
	case "Practitioner":
		return NewPractitioner(), nil
	case "Organization":
		return NewOrganization(), nil
	case "Observation":
		return NewObservation(), nil
	case "Condition":
		return NewCondition(), nil
	case "AllergyIntolerance":
		return NewAllergyIntolerance(), nil
	case "Medication":
		return NewMedication(), nil
	case "MedicationStatement":
		return NewMedicationStatement(), nil
	case "MedicationRequest":
		return NewMedicationRequest(), nil
	case "Procedure":
		return NewProcedure(), nil
	case "Immunization":
		return NewImmunization(), nil
	case "DiagnosticReport":
		return NewDiagnosticReport(), nil
	case "DocumentReference":
		return NewDocumentReference(), nil
	default:
		return nil, ErrUnknownResourceType
	}
}
