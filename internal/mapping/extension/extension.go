// Package extension is the catalog of custom extension URLs used to carry item
// fields that have no native FHIR element, plus typed constructors and
// getters. The URLs are a wire contract: consumers that need a lossless round
// trip must recognize them exactly.
package extension

import "github.com/ehr/hvfhir/internal/platform/fhir"

// Base is the namespace every catalog URL lives under.
const Base = "https://healthvault.com/fhir/stu3/StructureDefinition/"

// URL returns the catalog URL for name.
func URL(name string) string { return Base + name }

// Item-level extensions.
var (
	Note        = URL("note")
	ThingState  = URL("thing-state")
	ThingType   = URL("thing-type")
	ThingFlags  = URL("thing-flags")
	RelatedItem = URL("related-item")
	ClientID    = URL("client-thing-id")
)

// Sub-extension names inside related-item.
const (
	RelatedItemID           = "item-id"
	RelatedVersionStamp     = "version-stamp"
	RelatedClientID         = "client-id"
	RelatedRelationshipType = "relationship-type"
)

// Demographic and contact extensions.
var (
	AddressIsPrimary = URL("address-is-primary")
	IsPrimary        = URL("is-primary")
	Description      = URL("description")
	BirthYear        = URL("birth-year")
	BirthTime        = URL("birth-time")
	FirstDayOfWeek   = URL("first-day-of-week")
	PersonType       = URL("person-type")
	Organization     = URL("person-organization")
	BloodType        = URL("blood-type")
	Ethnicity        = URL("ethnicity")
	Religion         = URL("religion")
	EducationLevel   = URL("highest-education-level")
	IsVeteran        = URL("is-veteran")
	IsDisabled       = URL("is-disabled")
	OrganDonor       = URL("organ-donor")
	EmploymentStatus = URL("employment-status")
	StateOrProvince  = URL("state-or-province")
	Country          = URL("country")
)

// Clinical extensions.
var (
	ConditionStatus          = URL("condition-status")
	ConditionStopReason      = URL("condition-stop-reason")
	AllergenType             = URL("allergen-type")
	AllergenCode             = URL("allergen-code")
	AllergyTreatment         = URL("allergy-treatment")
	MedicationPrescribed     = URL("medication-prescribed")
	MedicationGenericName    = URL("medication-generic-name")
	MedicationStrength       = URL("medication-strength")
	MedicationFrequency      = URL("medication-frequency")
	MedicationDose           = URL("medication-dose")
	MedicationStartedText    = URL("medication-date-started-description")
	MedicationStoppedText    = URL("medication-date-discontinued-description")
	PrescriptionAmount       = URL("prescription-amount")
	PrescriptionDateText     = URL("prescription-date-prescribed-description")
	ImmunizationAdverseEvent = URL("immunization-adverse-event")
	ImmunizationConsent      = URL("immunization-consent")
)

// Sub-extension names inside a general measurement.
const (
	MeasurementDisplay    = "display"
	MeasurementStructured = "structured"
)

// DisplayValue carries the value and units a measurement was entered in.
var DisplayValue = URL("display-value")

// Sub-extension names inside display-value.
const (
	DisplayAmount    = "value"
	DisplayUnits     = "units"
	DisplayUnitsCode = "units-code"
	DisplayText      = "text"
)

// Vital sign and activity extensions.
var (
	IrregularHeartbeat          = URL("irregular-heartbeat")
	GlucoseMeasurementType      = URL("glucose-measurement-type")
	GlucoseMeasurementContext   = URL("glucose-measurement-context")
	GlucoseControlTest          = URL("glucose-control-test")
	GlucoseOutsideOperatingTemp = URL("glucose-outside-operating-temperature")
	HeartRateConditions         = URL("heart-rate-measurement-conditions")
	HeartRateFlags              = URL("heart-rate-measurement-flags")
	VitalSite                   = URL("vital-signs-site")
	VitalPosition               = URL("vital-signs-position")
	VitalResultUnit             = URL("vital-signs-result-unit")
	ExerciseTitle               = URL("exercise-title")
	ExerciseDetail              = URL("exercise-detail")
	ExerciseSegment             = URL("exercise-segment")
)

// Sub-extension names inside exercise-detail and exercise-segment.
const (
	ExerciseDetailKey   = "key"
	ExerciseDetailName  = "name"
	ExerciseDetailValue = "value"
	SegmentActivity     = "activity"
	SegmentTitle        = "title"
	SegmentDistance     = "distance"
	SegmentDuration     = "duration"
	SegmentOffset       = "offset"
)

// Lab result extensions.
var (
	LabStatus       = URL("lab-status")
	LabSubstance    = URL("lab-substance")
	LabResultName   = URL("lab-result-name")
	LabDisplayValue = URL("lab-display-value")
)

// String builds a valueString extension.
func String(url, v string) fhir.Extension {
	return fhir.Extension{URL: url, ValueString: v}
}

// Code builds a valueCode extension.
func Code(url, v string) fhir.Extension {
	return fhir.Extension{URL: url, ValueCode: v}
}

// Bool builds a valueBoolean extension.
func Bool(url string, v bool) fhir.Extension {
	return fhir.Extension{URL: url, ValueBoolean: &v}
}

// Int builds a valueInteger extension.
func Int(url string, v int) fhir.Extension {
	return fhir.Extension{URL: url, ValueInteger: &v}
}

// Decimal builds a valueDecimal extension.
func Decimal(url string, v float64) fhir.Extension {
	return fhir.Extension{URL: url, ValueDecimal: &v}
}

// DateTime builds a valueDateTime extension.
func DateTime(url, v string) fhir.Extension {
	return fhir.Extension{URL: url, ValueDateTime: v}
}

// Coding builds a valueCoding extension.
func Coding(url string, c fhir.Coding) fhir.Extension {
	return fhir.Extension{URL: url, ValueCoding: &c}
}

// Reference builds a valueReference extension.
func Reference(url string, r fhir.Reference) fhir.Extension {
	return fhir.Extension{URL: url, ValueReference: &r}
}

// Concept builds a valueCodeableConcept extension.
func Concept(url string, cc fhir.CodeableConcept) fhir.Extension {
	return fhir.Extension{URL: url, ValueCodeableConcept: &cc}
}

// Quantity builds a valueQuantity extension.
func Quantity(url string, q fhir.Quantity) fhir.Extension {
	return fhir.Extension{URL: url, ValueQuantity: &q}
}

// Complex builds an extension whose value is a list of sub-extensions.
func Complex(url string, parts ...fhir.Extension) fhir.Extension {
	return fhir.Extension{URL: url, Extension: parts}
}

// GetString returns the valueString of the first extension with url.
func GetString(exts []fhir.Extension, url string) string {
	if e := fhir.FindExtension(exts, url); e != nil {
		return e.ValueString
	}
	return ""
}

// GetCode returns the valueCode of the first extension with url.
func GetCode(exts []fhir.Extension, url string) string {
	if e := fhir.FindExtension(exts, url); e != nil {
		return e.ValueCode
	}
	return ""
}

// GetBool returns a copy of the valueBoolean of the first extension with url.
func GetBool(exts []fhir.Extension, url string) *bool {
	if e := fhir.FindExtension(exts, url); e != nil && e.ValueBoolean != nil {
		v := *e.ValueBoolean
		return &v
	}
	return nil
}

// GetInt returns a copy of the valueInteger of the first extension with url.
func GetInt(exts []fhir.Extension, url string) *int {
	if e := fhir.FindExtension(exts, url); e != nil && e.ValueInteger != nil {
		v := *e.ValueInteger
		return &v
	}
	return nil
}

// GetDecimal returns a copy of the valueDecimal of the first extension with url.
func GetDecimal(exts []fhir.Extension, url string) *float64 {
	if e := fhir.FindExtension(exts, url); e != nil && e.ValueDecimal != nil {
		v := *e.ValueDecimal
		return &v
	}
	return nil
}

// GetDateTime returns the valueDateTime of the first extension with url.
func GetDateTime(exts []fhir.Extension, url string) string {
	if e := fhir.FindExtension(exts, url); e != nil {
		return e.ValueDateTime
	}
	return ""
}

// GetConcept returns the valueCodeableConcept of the first extension with url.
func GetConcept(exts []fhir.Extension, url string) *fhir.CodeableConcept {
	if e := fhir.FindExtension(exts, url); e != nil {
		return e.ValueCodeableConcept
	}
	return nil
}

// GetCoding returns the valueCoding of the first extension with url.
func GetCoding(exts []fhir.Extension, url string) *fhir.Coding {
	if e := fhir.FindExtension(exts, url); e != nil {
		return e.ValueCoding
	}
	return nil
}

// GetReference returns the valueReference of the first extension with url.
func GetReference(exts []fhir.Extension, url string) *fhir.Reference {
	if e := fhir.FindExtension(exts, url); e != nil {
		return e.ValueReference
	}
	return nil
}

// GetQuantity returns the valueQuantity of the first extension with url.
func GetQuantity(exts []fhir.Extension, url string) *fhir.Quantity {
	if e := fhir.FindExtension(exts, url); e != nil {
		return e.ValueQuantity
	}
	return nil
}

// Sub returns the nested extensions of the first extension with url.
func Sub(exts []fhir.Extension, url string) []fhir.Extension {
	if e := fhir.FindExtension(exts, url); e != nil {
		return e.Extension
	}
	return nil
}
