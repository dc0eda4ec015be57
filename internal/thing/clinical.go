package thing

// Allergy records an allergic reaction or sensitivity.
type Allergy struct {
	Item
	Name              CodableValue         `json:"name"`
	Reaction          *CodableValue        `json:"reaction,omitempty"`
	FirstObserved     *ApproximateDateTime `json:"first-observed,omitempty"`
	AllergenType      *CodableValue        `json:"allergen-type,omitempty"`
	AllergenCode      *CodableValue        `json:"allergen-code,omitempty"`
	TreatmentProvider *Person              `json:"treatment-provider,omitempty"`
	Treatment         *CodableValue        `json:"treatment,omitempty"`
	IsNegated         *bool                `json:"is-negated,omitempty"`
}

func (*Allergy) TypeID() string   { return AllergyTypeID }
func (*Allergy) TypeName() string { return "allergy" }

// Condition records a medical condition or problem.
type Condition struct {
	Item
	Name       CodableValue         `json:"name"`
	OnsetDate  *ApproximateDateTime `json:"onset-date,omitempty"`
	Status     *CodableValue        `json:"status,omitempty"`
	StopDate   *ApproximateDateTime `json:"stop-date,omitempty"`
	StopReason string               `json:"stop-reason,omitempty"`
}

func (*Condition) TypeID() string   { return ConditionTypeID }
func (*Condition) TypeName() string { return "condition" }

// Prescription records how a medication was prescribed.
type Prescription struct {
	PrescribedBy     *Person              `json:"prescribed-by"`
	DatePrescribed   *ApproximateDateTime `json:"date-prescribed,omitempty"`
	AmountPrescribed *GeneralMeasurement  `json:"amount-prescribed,omitempty"`
	Substitution     *CodableValue        `json:"substitution,omitempty"`
	Refills          *int                 `json:"refills,omitempty"`
	DaysSupply       *int                 `json:"days-supply,omitempty"`
	Expiration       *Date                `json:"prescription-expiration,omitempty"`
	Instructions     *CodableValue        `json:"instructions,omitempty"`
}

// Medication records a medication the person takes or took.
type Medication struct {
	Item
	Name             CodableValue         `json:"name"`
	GenericName      *CodableValue        `json:"generic-name,omitempty"`
	Dose             *GeneralMeasurement  `json:"dose,omitempty"`
	Strength         *GeneralMeasurement  `json:"strength,omitempty"`
	Frequency        *GeneralMeasurement  `json:"frequency,omitempty"`
	Route            *CodableValue        `json:"route,omitempty"`
	Indication       *CodableValue        `json:"indication,omitempty"`
	DateStarted      *ApproximateDateTime `json:"date-started,omitempty"`
	DateDiscontinued *ApproximateDateTime `json:"date-discontinued,omitempty"`
	Prescribed       *CodableValue        `json:"prescribed,omitempty"`
	Prescription     *Prescription        `json:"prescription,omitempty"`
}

func (*Medication) TypeID() string   { return MedicationTypeID }
func (*Medication) TypeName() string { return "medication" }

// Procedure records a medical procedure.
type Procedure struct {
	Item
	When              *ApproximateDateTime `json:"when,omitempty"`
	Name              CodableValue         `json:"name"`
	AnatomicLocation  *CodableValue        `json:"anatomic-location,omitempty"`
	PrimaryProvider   *Person              `json:"primary-provider,omitempty"`
	SecondaryProvider *Person              `json:"secondary-provider,omitempty"`
}

func (*Procedure) TypeID() string   { return ProcedureTypeID }
func (*Procedure) TypeName() string { return "procedure" }

// Immunization records a vaccine administration.
type Immunization struct {
	Item
	Name               CodableValue         `json:"name"`
	AdministrationDate *ApproximateDateTime `json:"administration-date,omitempty"`
	Administrator      *Person              `json:"administrator,omitempty"`
	Manufacturer       *CodableValue        `json:"manufacturer,omitempty"`
	Lot                string               `json:"lot,omitempty"`
	Route              *CodableValue        `json:"route,omitempty"`
	ExpirationDate     *ApproximateDate     `json:"expiration-date,omitempty"`
	Sequence           string               `json:"sequence,omitempty"`
	AnatomicSurface    *CodableValue        `json:"anatomic-surface,omitempty"`
	AdverseEvent       string               `json:"adverse-event,omitempty"`
	Consent            string               `json:"consent,omitempty"`
}

func (*Immunization) TypeID() string   { return ImmunizationTypeID }
func (*Immunization) TypeName() string { return "immunization" }
