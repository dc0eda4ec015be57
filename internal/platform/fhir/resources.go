package fhir

// Patient is the FHIR R4 Patient resource (demographic subset).
type Patient struct {
	DomainResource
	Identifier           []Identifier           `json:"identifier,omitempty"`
	Active               *bool                  `json:"active,omitempty"`
	Name                 []HumanName            `json:"name,omitempty"`
	Telecom              []ContactPoint         `json:"telecom,omitempty"`
	Gender               string                 `json:"gender,omitempty"`
	BirthDate            string                 `json:"birthDate,omitempty"`
	DeceasedBoolean      *bool                  `json:"deceasedBoolean,omitempty"`
	DeceasedDateTime     string                 `json:"deceasedDateTime,omitempty"`
	Address              []Address              `json:"address,omitempty"`
	MaritalStatus        *CodeableConcept       `json:"maritalStatus,omitempty"`
	Communication        []PatientCommunication `json:"communication,omitempty"`
	GeneralPractitioner  []Reference            `json:"generalPractitioner,omitempty"`
	ManagingOrganization *Reference             `json:"managingOrganization,omitempty"`
}

type PatientCommunication struct {
	Language  CodeableConcept `json:"language"`
	Preferred *bool           `json:"preferred,omitempty"`
}

// AdministrativeGender codes.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

type Practitioner struct {
	DomainResource
	Identifier    []Identifier                `json:"identifier,omitempty"`
	Active        *bool                       `json:"active,omitempty"`
	Name          []HumanName                 `json:"name,omitempty"`
	Telecom       []ContactPoint              `json:"telecom,omitempty"`
	Address       []Address                   `json:"address,omitempty"`
	Qualification []PractitionerQualification `json:"qualification,omitempty"`
}

type PractitionerQualification struct {
	Code   CodeableConcept `json:"code"`
	Issuer *Reference      `json:"issuer,omitempty"`
}

type Organization struct {
	DomainResource
	Identifier []Identifier      `json:"identifier,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	Type       []CodeableConcept `json:"type,omitempty"`
	Name       string            `json:"name,omitempty"`
	Telecom    []ContactPoint    `json:"telecom,omitempty"`
	Address    []Address         `json:"address,omitempty"`
}

type Observation struct {
	DomainResource
	Identifier           []Identifier                `json:"identifier,omitempty"`
	Status               string                      `json:"status"`
	Category             []CodeableConcept           `json:"category,omitempty"`
	Code                 CodeableConcept             `json:"code"`
	Subject              *Reference                  `json:"subject,omitempty"`
	EffectiveDateTime    string                      `json:"effectiveDateTime,omitempty"`
	EffectivePeriod      *Period                     `json:"effectivePeriod,omitempty"`
	Issued               string                      `json:"issued,omitempty"`
	Performer            []Reference                 `json:"performer,omitempty"`
	ValueQuantity        *Quantity                   `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *CodeableConcept            `json:"valueCodeableConcept,omitempty"`
	ValueString          string                      `json:"valueString,omitempty"`
	ValueBoolean         *bool                       `json:"valueBoolean,omitempty"`
	ValueInteger         *int                        `json:"valueInteger,omitempty"`
	ValueRange           *Range                      `json:"valueRange,omitempty"`
	DataAbsentReason     *CodeableConcept            `json:"dataAbsentReason,omitempty"`
	Interpretation       []CodeableConcept           `json:"interpretation,omitempty"`
	Note                 []Annotation                `json:"note,omitempty"`
	BodySite             *CodeableConcept            `json:"bodySite,omitempty"`
	Method               *CodeableConcept            `json:"method,omitempty"`
	Specimen             *Reference                  `json:"specimen,omitempty"`
	ReferenceRange       []ObservationReferenceRange `json:"referenceRange,omitempty"`
	HasMember            []Reference                 `json:"hasMember,omitempty"`
	DerivedFrom          []Reference                 `json:"derivedFrom,omitempty"`
	Component            []ObservationComponent      `json:"component,omitempty"`
}

type ObservationReferenceRange struct {
	Low       *Quantity         `json:"low,omitempty"`
	High      *Quantity         `json:"high,omitempty"`
	Type      *CodeableConcept  `json:"type,omitempty"`
	AppliesTo []CodeableConcept `json:"appliesTo,omitempty"`
	Text      string            `json:"text,omitempty"`
}

type ObservationComponent struct {
	Extension            []Extension                 `json:"extension,omitempty"`
	Code                 CodeableConcept             `json:"code"`
	ValueQuantity        *Quantity                   `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *CodeableConcept            `json:"valueCodeableConcept,omitempty"`
	ValueString          string                      `json:"valueString,omitempty"`
	ValueInteger         *int                        `json:"valueInteger,omitempty"`
	Interpretation       []CodeableConcept           `json:"interpretation,omitempty"`
	ReferenceRange       []ObservationReferenceRange `json:"referenceRange,omitempty"`
}

// Observation status codes.
const (
	ObservationRegistered  = "registered"
	ObservationPreliminary = "preliminary"
	ObservationFinal       = "final"
	ObservationAmended     = "amended"
	ObservationCancelled   = "cancelled"
	ObservationUnknown     = "unknown"
)

type Condition struct {
	DomainResource
	Identifier         []Identifier      `json:"identifier,omitempty"`
	ClinicalStatus     *CodeableConcept  `json:"clinicalStatus,omitempty"`
	VerificationStatus *CodeableConcept  `json:"verificationStatus,omitempty"`
	Category           []CodeableConcept `json:"category,omitempty"`
	Severity           *CodeableConcept  `json:"severity,omitempty"`
	Code               *CodeableConcept  `json:"code,omitempty"`
	BodySite           []CodeableConcept `json:"bodySite,omitempty"`
	Subject            *Reference        `json:"subject,omitempty"`
	OnsetDateTime      string            `json:"onsetDateTime,omitempty"`
	OnsetString        string            `json:"onsetString,omitempty"`
	AbatementDateTime  string            `json:"abatementDateTime,omitempty"`
	AbatementString    string            `json:"abatementString,omitempty"`
	RecordedDate       string            `json:"recordedDate,omitempty"`
	Note               []Annotation      `json:"note,omitempty"`
}

type AllergyIntolerance struct {
	DomainResource
	Identifier         []Identifier                 `json:"identifier,omitempty"`
	ClinicalStatus     *CodeableConcept             `json:"clinicalStatus,omitempty"`
	VerificationStatus *CodeableConcept             `json:"verificationStatus,omitempty"`
	Type               string                       `json:"type,omitempty"`
	Category           []string                     `json:"category,omitempty"`
	Criticality        string                       `json:"criticality,omitempty"`
	Code               *CodeableConcept             `json:"code,omitempty"`
	Patient            *Reference                   `json:"patient,omitempty"`
	OnsetDateTime      string                       `json:"onsetDateTime,omitempty"`
	OnsetString        string                       `json:"onsetString,omitempty"`
	RecordedDate       string                       `json:"recordedDate,omitempty"`
	Asserter           *Reference                   `json:"asserter,omitempty"`
	Note               []Annotation                 `json:"note,omitempty"`
	Reaction           []AllergyIntoleranceReaction `json:"reaction,omitempty"`
}

type AllergyIntoleranceReaction struct {
	Substance     *CodeableConcept  `json:"substance,omitempty"`
	Manifestation []CodeableConcept `json:"manifestation"`
	Description   string            `json:"description,omitempty"`
	Onset         string            `json:"onset,omitempty"`
	Severity      string            `json:"severity,omitempty"`
}

// AllergyIntolerance categories.
const (
	AllergyCategoryFood        = "food"
	AllergyCategoryMedication  = "medication"
	AllergyCategoryEnvironment = "environment"
	AllergyCategoryBiologic    = "biologic"
)

type Medication struct {
	DomainResource
	Code   *CodeableConcept `json:"code,omitempty"`
	Status string           `json:"status,omitempty"`
	Form   *CodeableConcept `json:"form,omitempty"`
}

type MedicationStatement struct {
	DomainResource
	Identifier                []Identifier      `json:"identifier,omitempty"`
	BasedOn                   []Reference       `json:"basedOn,omitempty"`
	Status                    string            `json:"status"`
	MedicationCodeableConcept *CodeableConcept  `json:"medicationCodeableConcept,omitempty"`
	MedicationReference       *Reference        `json:"medicationReference,omitempty"`
	Subject                   *Reference        `json:"subject,omitempty"`
	EffectiveDateTime         string            `json:"effectiveDateTime,omitempty"`
	EffectivePeriod           *Period           `json:"effectivePeriod,omitempty"`
	DateAsserted              string            `json:"dateAsserted,omitempty"`
	ReasonCode                []CodeableConcept `json:"reasonCode,omitempty"`
	Note                      []Annotation      `json:"note,omitempty"`
	Dosage                    []Dosage          `json:"dosage,omitempty"`
}

// MedicationStatement status codes.
const (
	MedicationStatementActive    = "active"
	MedicationStatementCompleted = "completed"
	MedicationStatementUnknown   = "unknown"
)

type MedicationRequest struct {
	DomainResource
	Identifier                []Identifier                   `json:"identifier,omitempty"`
	Status                    string                         `json:"status"`
	Intent                    string                         `json:"intent"`
	MedicationCodeableConcept *CodeableConcept               `json:"medicationCodeableConcept,omitempty"`
	MedicationReference       *Reference                     `json:"medicationReference,omitempty"`
	Subject                   *Reference                     `json:"subject,omitempty"`
	AuthoredOn                string                         `json:"authoredOn,omitempty"`
	Requester                 *Reference                     `json:"requester,omitempty"`
	DosageInstruction         []Dosage                       `json:"dosageInstruction,omitempty"`
	DispenseRequest           *MedicationRequestDispense     `json:"dispenseRequest,omitempty"`
	Substitution              *MedicationRequestSubstitution `json:"substitution,omitempty"`
}

// MedicationRequest status and intent codes.
const (
	MedicationRequestActive    = "active"
	MedicationRequestCompleted = "completed"
	MedicationRequestOrder     = "order"
)

type MedicationRequestDispense struct {
	ValidityPeriod         *Period   `json:"validityPeriod,omitempty"`
	NumberOfRepeatsAllowed *int      `json:"numberOfRepeatsAllowed,omitempty"`
	Quantity               *Quantity `json:"quantity,omitempty"`
	ExpectedSupplyDuration *Quantity `json:"expectedSupplyDuration,omitempty"`
}

type MedicationRequestSubstitution struct {
	AllowedBoolean         *bool            `json:"allowedBoolean,omitempty"`
	AllowedCodeableConcept *CodeableConcept `json:"allowedCodeableConcept,omitempty"`
	Reason                 *CodeableConcept `json:"reason,omitempty"`
}

type Procedure struct {
	DomainResource
	Identifier        []Identifier         `json:"identifier,omitempty"`
	Status            string               `json:"status"`
	Code              *CodeableConcept     `json:"code,omitempty"`
	Subject           *Reference           `json:"subject,omitempty"`
	PerformedDateTime string               `json:"performedDateTime,omitempty"`
	PerformedString   string               `json:"performedString,omitempty"`
	Performer         []ProcedurePerformer `json:"performer,omitempty"`
	BodySite          []CodeableConcept    `json:"bodySite,omitempty"`
	Note              []Annotation         `json:"note,omitempty"`
}

// EventStatus codes shared by Procedure and Immunization.
const (
	EventCompleted = "completed"
	EventNotDone   = "not-done"
)

type ProcedurePerformer struct {
	Function *CodeableConcept `json:"function,omitempty"`
	Actor    Reference        `json:"actor"`
}

type Immunization struct {
	DomainResource
	Identifier         []Identifier                  `json:"identifier,omitempty"`
	Status             string                        `json:"status"`
	VaccineCode        CodeableConcept               `json:"vaccineCode"`
	Patient            *Reference                    `json:"patient,omitempty"`
	OccurrenceDateTime string                        `json:"occurrenceDateTime,omitempty"`
	OccurrenceString   string                        `json:"occurrenceString,omitempty"`
	Manufacturer       *Reference                    `json:"manufacturer,omitempty"`
	LotNumber          string                        `json:"lotNumber,omitempty"`
	ExpirationDate     string                        `json:"expirationDate,omitempty"`
	Site               *CodeableConcept              `json:"site,omitempty"`
	Route              *CodeableConcept              `json:"route,omitempty"`
	Performer          []ImmunizationPerformer       `json:"performer,omitempty"`
	Note               []Annotation                  `json:"note,omitempty"`
	ProtocolApplied    []ImmunizationProtocolApplied `json:"protocolApplied,omitempty"`
}

type ImmunizationPerformer struct {
	Function *CodeableConcept `json:"function,omitempty"`
	Actor    Reference        `json:"actor"`
}

type ImmunizationProtocolApplied struct {
	Series           string `json:"series,omitempty"`
	DoseNumberString string `json:"doseNumberString,omitempty"`
}

type DiagnosticReport struct {
	DomainResource
	Identifier        []Identifier      `json:"identifier,omitempty"`
	Status            string            `json:"status"`
	Category          []CodeableConcept `json:"category,omitempty"`
	Code              CodeableConcept   `json:"code"`
	Subject           *Reference        `json:"subject,omitempty"`
	EffectiveDateTime string            `json:"effectiveDateTime,omitempty"`
	Issued            string            `json:"issued,omitempty"`
	Performer         []Reference       `json:"performer,omitempty"`
	Result            []Reference       `json:"result,omitempty"`
	Conclusion        string            `json:"conclusion,omitempty"`
}

// DiagnosticReport status codes.
const (
	ReportPartial = "partial"
	ReportFinal   = "final"
)

type DocumentReference struct {
	DomainResource
	Identifier  []Identifier               `json:"identifier,omitempty"`
	Status      string                     `json:"status"`
	Type        *CodeableConcept           `json:"type,omitempty"`
	Subject     *Reference                 `json:"subject,omitempty"`
	Date        string                     `json:"date,omitempty"`
	Description string                     `json:"description,omitempty"`
	Content     []DocumentReferenceContent `json:"content"`
}

// DocumentReference status codes.
const (
	DocumentCurrent    = "current"
	DocumentSuperseded = "superseded"
)

type DocumentReferenceContent struct {
	Attachment Attachment `json:"attachment"`
	Format     *Coding    `json:"format,omitempty"`
}

func NewPatient() *Patient {
	return &Patient{DomainResource: DomainResource{ResourceType: "Patient"}}
}

func NewPractitioner() *Practitioner {
	return &Practitioner{DomainResource: DomainResource{ResourceType: "Practitioner"}}
}

func NewOrganization() *Organization {
	return &Organization{DomainResource: DomainResource{ResourceType: "Organization"}}
}

func NewObservation() *Observation {
	return &Observation{DomainResource: DomainResource{ResourceType: "Observation"}}
}

func NewCondition() *Condition {
	return &Condition{DomainResource: DomainResource{ResourceType: "Condition"}}
}

func NewAllergyIntolerance() *AllergyIntolerance {
	return &AllergyIntolerance{DomainResource: DomainResource{ResourceType: "AllergyIntolerance"}}
}

func NewMedication() *Medication {
	return &Medication{DomainResource: DomainResource{ResourceType: "Medication"}}
}

func NewMedicationStatement() *MedicationStatement {
	return &MedicationStatement{DomainResource: DomainResource{ResourceType: "MedicationStatement"}}
}

func NewMedicationRequest() *MedicationRequest {
	return &MedicationRequest{DomainResource: DomainResource{ResourceType: "MedicationRequest"}}
}

func NewProcedure() *Procedure {
	return &Procedure{DomainResource: DomainResource{ResourceType: "Procedure"}}
}

func NewImmunization() *Immunization {
	return &Immunization{DomainResource: DomainResource{ResourceType: "Immunization"}}
}

func NewDiagnosticReport() *DiagnosticReport {
	return &DiagnosticReport{DomainResource: DomainResource{ResourceType: "DiagnosticReport"}}
}

func NewDocumentReference() *DocumentReference {
	return &DocumentReference{DomainResource: DomainResource{ResourceType: "DocumentReference"}}
}
