package fhirmodels

// Common FHIR code systems and value set constants used by the mappers.

// Code system URIs.
const (
	SystemLOINC                     = "http://loinc.org"
	SystemSNOMED                    = "http://snomed.info/sct"
	SystemUCUM                      = "http://unitsofmeasure.org"
	SystemObservationCategory       = "http://terminology.hl7.org/CodeSystem/observation-category"
	SystemObservationInterpretation = "http://terminology.hl7.org/CodeSystem/v3-ObservationInterpretation"
	SystemConditionClinical         = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	SystemAllergyClinical           = "http://terminology.hl7.org/CodeSystem/allergyintolerance-clinical"
	SystemPerformerFunction         = "http://terminology.hl7.org/CodeSystem/v3-ParticipationType"
	SystemDataAbsentReason          = "http://terminology.hl7.org/CodeSystem/data-absent-reason"
	SystemSSN                       = "http://hl7.org/fhir/sid/us-ssn"
	SystemHealthVaultThingType      = "https://healthvault.com/fhir/stu3/ValueSet/wc/thing-type"
)

// LOINC codes for the vital sign observations.
const (
	LOINCBodyWeight         = "29463-7"
	LOINCBodyHeight         = "8302-2"
	LOINCBloodPressurePanel = "85354-9"
	LOINCSystolic           = "8480-6"
	LOINCDiastolic          = "8462-4"
	LOINCHeartRate          = "8867-4"
	LOINCBloodGlucose       = "15074-8"
	LOINCVitalSignsPanel    = "85353-1"
	LOINCDistance           = "55430-3"
	LOINCDuration           = "55411-3"
)

// ObservationCategory codes.
const (
	ObsCategoryVitalSigns = "vital-signs"
	ObsCategoryLaboratory = "laboratory"
	ObsCategoryActivity   = "activity"
)

// ObservationInterpretation codes.
const (
	InterpretationCriticalLow  = "LL"
	InterpretationLow          = "L"
	InterpretationNormal       = "N"
	InterpretationHigh         = "H"
	InterpretationCriticalHigh = "HH"
)

// ConditionClinicalStatus codes.
const (
	ConditionActive     = "active"
	ConditionRecurrence = "recurrence"
	ConditionRelapse    = "relapse"
	ConditionInactive   = "inactive"
	ConditionRemission  = "remission"
	ConditionResolved   = "resolved"
)

// AllergyIntoleranceClinicalStatus codes.
const (
	AllergyActive   = "active"
	AllergyInactive = "inactive"
	AllergyResolved = "resolved"
)

// ParticipationType codes used as procedure performer functions.
const (
	ParticipantPrimary   = "PPRF"
	ParticipantSecondary = "SPRF"
)

// AdministrativeGender codes.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)
