package transform

import (
	"context"
	"errors"

	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

// ErrNilInput is returned by ToFhir and ToHealthVault for a nil argument.
var ErrNilInput = errors.New("nil input")

// resource drops the concrete type so a failed mapper never yields a typed
// nil inside the interface.
func resource[R fhir.Resource](r R, err error) (fhir.Resource, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

func item[T thing.Thing](th T, err error) (thing.Thing, error) {
	if err != nil {
		return nil, err
	}
	return th, nil
}

// toFhir and fromFhir reject typed nil pointers before calling the mapper.
func toFhir[T any, R fhir.Resource](v *T, f func(*T) (R, error)) (fhir.Resource, error) {
	if v == nil {
		return nil, ErrNilInput
	}
	return resource(f(v))
}

func fromFhir[R any, T thing.Thing](r *R, f func(*R) (T, error)) (thing.Thing, error) {
	if r == nil {
		return nil, ErrNilInput
	}
	return item(f(r))
}

// ToFhir maps any supported item to its FHIR resource.
func (t *Transformer) ToFhir(ctx context.Context, th thing.Thing) (fhir.Resource, error) {
	switch v := th.(type) {
	case nil:
		return nil, ErrNilInput
	case *thing.Allergy:
		return toFhir(v, t.AllergyToFhir)
	case *thing.Condition:
		return toFhir(v, t.ConditionToFhir)
	case *thing.Medication:
		return toFhir(v, t.MedicationToFhir)
	case *thing.Procedure:
		return toFhir(v, t.ProcedureToFhir)
	case *thing.Immunization:
		return toFhir(v, t.ImmunizationToFhir)
	case *thing.Exercise:
		return toFhir(v, t.ExerciseToFhir)
	case *thing.Weight:
		return toFhir(v, t.WeightToFhir)
	case *thing.Height:
		return toFhir(v, t.HeightToFhir)
	case *thing.BloodPressure:
		return toFhir(v, t.BloodPressureToFhir)
	case *thing.BloodGlucose:
		return toFhir(v, t.BloodGlucoseToFhir)
	case *thing.HeartRate:
		return toFhir(v, t.HeartRateToFhir)
	case *thing.VitalSigns:
		return toFhir(v, t.VitalSignsToFhir)
	case *thing.LabTestResults:
		return toFhir(v, t.LabTestResultsToFhir)
	case *thing.File:
		if v == nil {
			return nil, ErrNilInput
		}
		return resource(t.FileToFhir(ctx, v))
	case *thing.Personal:
		return toFhir(v, t.PersonalToFhir)
	case *thing.Basic:
		return toFhir(v, t.BasicToFhir)
	case *thing.Contact:
		return toFhir(v, t.ContactToFhir)
	default:
		return nil, notImplemented("item type %s", th.TypeName())
	}
}

// ToHealthVault maps a FHIR resource back to an item. Observations and
// Patients map to several item types: the thing-type extension written by
// ToFhir decides, and without it the observation code or patient content is
// used.
func (t *Transformer) ToHealthVault(ctx context.Context, res fhir.Resource) (thing.Thing, error) {
	switch r := res.(type) {
	case nil:
		return nil, ErrNilInput
	case *fhir.AllergyIntolerance:
		return fromFhir(r, t.AllergyToHealthVault)
	case *fhir.Condition:
		return fromFhir(r, t.ConditionToHealthVault)
	case *fhir.MedicationStatement:
		return fromFhir(r, t.MedicationToHealthVault)
	case *fhir.Procedure:
		return fromFhir(r, t.ProcedureToHealthVault)
	case *fhir.Immunization:
		return fromFhir(r, t.ImmunizationToHealthVault)
	case *fhir.DiagnosticReport:
		return fromFhir(r, t.LabTestResultsToHealthVault)
	case *fhir.DocumentReference:
		if r == nil {
			return nil, ErrNilInput
		}
		return item(t.FileToHealthVault(ctx, r))
	case *fhir.Observation:
		if r == nil {
			return nil, ErrNilInput
		}
		return t.observationToHealthVault(r)
	case *fhir.Patient:
		if r == nil {
			return nil, ErrNilInput
		}
		return t.patientToHealthVault(r)
	default:
		return nil, notImplemented("resource type %s", res.GetResourceType())
	}
}

var observationCodes = map[string]string{
	fhirmodels.LOINCBodyWeight:         thing.WeightTypeID,
	fhirmodels.LOINCBodyHeight:         thing.HeightTypeID,
	fhirmodels.LOINCBloodPressurePanel: thing.BloodPressureTypeID,
	fhirmodels.LOINCBloodGlucose:       thing.BloodGlucoseTypeID,
	fhirmodels.LOINCHeartRate:          thing.HeartRateTypeID,
	fhirmodels.LOINCVitalSignsPanel:    thing.VitalSignsTypeID,
}

func observationType(obs *fhir.Observation) string {
	if id := thingTypeOf(&obs.DomainResource); id != "" {
		return id
	}
	for _, c := range obs.Code.Coding {
		if c.System != fhirmodels.SystemLOINC {
			continue
		}
		if id, ok := observationCodes[c.Code]; ok {
			return id
		}
	}
	for i := range obs.Category {
		if obs.Category[i].HasCode(fhirmodels.SystemObservationCategory, fhirmodels.ObsCategoryActivity) {
			return thing.ExerciseTypeID
		}
	}
	return ""
}

func (t *Transformer) observationToHealthVault(obs *fhir.Observation) (thing.Thing, error) {
	switch observationType(obs) {
	case thing.WeightTypeID:
		return item(t.WeightToHealthVault(obs))
	case thing.HeightTypeID:
		return item(t.HeightToHealthVault(obs))
	case thing.BloodPressureTypeID:
		return item(t.BloodPressureToHealthVault(obs))
	case thing.BloodGlucoseTypeID:
		return item(t.BloodGlucoseToHealthVault(obs))
	case thing.HeartRateTypeID:
		return item(t.HeartRateToHealthVault(obs))
	case thing.VitalSignsTypeID:
		return item(t.VitalSignsToHealthVault(obs))
	case thing.ExerciseTypeID:
		return item(t.ExerciseToHealthVault(obs))
	default:
		return nil, notImplemented("observation with code %q", obs.Code.FirstCode())
	}
}

func patientType(pat *fhir.Patient) string {
	if id := thingTypeOf(&pat.DomainResource); id != "" {
		return id
	}
	switch {
	case len(pat.Name) > 0 || pat.BirthDate != "":
		return thing.PersonalTypeID
	case pat.Gender != "" || len(pat.Communication) > 0:
		return thing.BasicTypeID
	default:
		return thing.ContactTypeID
	}
}

func (t *Transformer) patientToHealthVault(pat *fhir.Patient) (thing.Thing, error) {
	switch id := patientType(pat); id {
	case thing.PersonalTypeID:
		return item(t.PersonalToHealthVault(pat))
	case thing.BasicTypeID:
		return item(t.BasicToHealthVault(pat))
	case thing.ContactTypeID:
		return item(t.ContactToHealthVault(pat))
	default:
		return nil, notImplemented("patient recorded as item type %s", id)
	}
}
