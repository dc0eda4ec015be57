package transform

import (
	"math"

	"github.com/ehr/hvfhir/internal/mapping/approx"
	"github.com/ehr/hvfhir/internal/mapping/contain"
	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/mapping/units"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

// MedicationToFhir maps a medication to a MedicationStatement. The drug is a
// contained Medication; a prescription becomes a contained MedicationRequest
// referenced from basedOn.
func (t *Transformer) MedicationToFhir(m *thing.Medication) (*fhir.MedicationStatement, error) {
	if m.Name.IsEmpty() {
		return nil, unrepresentable("medication name is required")
	}
	for field, d := range map[string]*thing.ApproximateDateTime{"started": m.DateStarted, "discontinued": m.DateDiscontinued} {
		if err := d.Validate(); err != nil {
			return nil, unrepresentable("medication date %s: %v", field, err)
		}
	}

	ms := fhir.NewMedicationStatement()
	t.itemToFhir(m, &ms.DomainResource)

	med := fhir.NewMedication()
	code := t.vocab.ToCodeableConcept(m.Name)
	med.Code = &code
	if cc := t.vocab.Concept(m.GenericName); cc != nil {
		med.AddExtension(extension.Concept(extension.MedicationGenericName, *cc))
	}
	medRef := contain.Attach(ms, med, t.newID)
	medRef.Display = m.Name.String()
	ms.MedicationReference = &medRef

	if d := t.dosageToFhir(m); !isEmptyDosage(d) {
		ms.Dosage = []fhir.Dosage{d}
	}
	ms.ReasonCode = concepts(t.vocab.Concept(m.Indication))

	start, startText := approx.ToChoice(m.DateStarted)
	end, endText := approx.ToChoice(m.DateDiscontinued)
	if start != "" || end != "" {
		ms.EffectivePeriod = &fhir.Period{Start: start, End: end}
	}
	if startText != "" {
		ms.AddExtension(extension.String(extension.MedicationStartedText, startText))
	}
	if endText != "" {
		ms.AddExtension(extension.String(extension.MedicationStoppedText, endText))
	}
	ms.Status = fhir.MedicationStatementActive
	if m.DateDiscontinued != nil {
		ms.Status = fhir.MedicationStatementCompleted
	}
	if cc := t.vocab.Concept(m.Prescribed); cc != nil {
		ms.AddExtension(extension.Concept(extension.MedicationPrescribed, *cc))
	}

	if m.Prescription != nil {
		req := fhir.NewMedicationRequest()
		if err := t.prescriptionToFhir(ms, req, m.Prescription); err != nil {
			return nil, err
		}
		req.MedicationReference = &fhir.Reference{Reference: medRef.Reference, Display: medRef.Display}
		ms.BasedOn = []fhir.Reference{contain.Attach(ms, req, t.newID)}
	}
	return ms, nil
}

// dosageToFhir builds the single dosage entry. The first structured dose is
// the dose quantity; strength and frequency keep their full measurement in
// extensions.
func (t *Transformer) dosageToFhir(m *thing.Medication) fhir.Dosage {
	d := fhir.Dosage{Route: t.vocab.Concept(m.Route)}
	if m.Dose != nil {
		d.Text = m.Dose.Display
		if len(m.Dose.Structured) > 0 {
			q := t.structuredToFhir(m.Dose.Structured[0])
			d.DoseAndRate = []fhir.DosageDoseAndRate{{DoseQuantity: &q}}
		}
		if len(m.Dose.Structured) > 1 {
			d.Extension = append(d.Extension, t.measurementToFhir(extension.MedicationDose, m.Dose))
		}
	}
	if m.Strength != nil {
		d.Extension = append(d.Extension, t.measurementToFhir(extension.MedicationStrength, m.Strength))
	}
	if m.Frequency != nil {
		d.Timing = &fhir.Timing{Code: &fhir.CodeableConcept{Text: m.Frequency.Display}}
		d.Extension = append(d.Extension, t.measurementToFhir(extension.MedicationFrequency, m.Frequency))
	}
	return d
}

func isEmptyDosage(d fhir.Dosage) bool {
	return d.Text == "" && d.Route == nil && d.Timing == nil && len(d.DoseAndRate) == 0 && len(d.Extension) == 0
}

// MedicationToHealthVault is the inverse of MedicationToFhir.
func (t *Transformer) MedicationToHealthVault(ms *fhir.MedicationStatement) (*thing.Medication, error) {
	med, found := contain.Resolve(ms, ms.MedicationReference, t.medicationPlaceholder)
	var name *fhir.CodeableConcept
	switch {
	case found && !med.Code.IsEmpty():
		name = med.Code
	case !ms.MedicationCodeableConcept.IsEmpty():
		name = ms.MedicationCodeableConcept
	default:
		return nil, unrepresentable("medication statement has no medication")
	}

	m := &thing.Medication{Name: t.vocab.FromCodeableConcept(*name)}
	t.itemFromFhir(&ms.DomainResource, &m.Item)
	if found {
		m.GenericName = t.vocab.Codable(extension.GetConcept(med.Extension, extension.MedicationGenericName))
	}

	if len(ms.Dosage) > 0 {
		d := ms.Dosage[0]
		dose, err := t.doseFromFhir(d)
		if err != nil {
			return nil, err
		}
		m.Dose = dose
		m.Route = t.vocab.Codable(d.Route)
		m.Strength = t.measurementFromFhir(d.Extension, extension.MedicationStrength)
		m.Frequency = t.measurementFromFhir(d.Extension, extension.MedicationFrequency)
		if m.Frequency == nil && d.Timing != nil && d.Timing.Code != nil && d.Timing.Code.Text != "" {
			m.Frequency = &thing.GeneralMeasurement{Display: d.Timing.Code.Text}
		}
	}
	m.Indication = t.vocab.Codable(firstConcept(ms.ReasonCode))

	var period fhir.Period
	if ms.EffectivePeriod != nil {
		period = *ms.EffectivePeriod
	}
	var err error
	if m.DateStarted, err = approx.FromChoice(period.Start, extension.GetString(ms.Extension, extension.MedicationStartedText)); err != nil {
		return nil, unrepresentable("medication start: %v", err)
	}
	if m.DateDiscontinued, err = approx.FromChoice(period.End, extension.GetString(ms.Extension, extension.MedicationStoppedText)); err != nil {
		return nil, unrepresentable("medication end: %v", err)
	}
	m.Prescribed = t.vocab.Codable(extension.GetConcept(ms.Extension, extension.MedicationPrescribed))

	if len(ms.BasedOn) > 0 {
		if req, ok := contain.Find(ms, &ms.BasedOn[0]).(*fhir.MedicationRequest); ok {
			p, err := t.prescriptionFromFhir(ms, req)
			if err != nil {
				return nil, err
			}
			m.Prescription = p
		}
	}
	return m, nil
}

func (t *Transformer) doseFromFhir(d fhir.Dosage) (*thing.GeneralMeasurement, error) {
	if g := t.measurementFromFhir(d.Extension, extension.MedicationDose); g != nil {
		return g, nil
	}
	if len(d.DoseAndRate) > 0 {
		dr := d.DoseAndRate[0]
		if dr.DoseRange != nil {
			return nil, notImplemented("dose expressed as a range")
		}
		if dr.DoseQuantity != nil {
			return &thing.GeneralMeasurement{
				Display:    d.Text,
				Structured: []thing.StructuredMeasurement{t.structuredFromFhir(*dr.DoseQuantity)},
			}, nil
		}
	}
	if d.Text != "" {
		return &thing.GeneralMeasurement{Display: d.Text}, nil
	}
	return nil, nil
}

func (t *Transformer) medicationPlaceholder(display string) *fhir.Medication {
	t.log.Debug().Str("display", display).Msg("medication reference not contained, using display")
	med := fhir.NewMedication()
	med.Code = &fhir.CodeableConcept{Text: display}
	return med
}

// PrescriptionToFhir maps a prescription to a stand-alone MedicationRequest
// with its prescriber contained in it.
func (t *Transformer) PrescriptionToFhir(p *thing.Prescription) (*fhir.MedicationRequest, error) {
	req := fhir.NewMedicationRequest()
	if err := t.prescriptionToFhir(req, req, p); err != nil {
		return nil, err
	}
	return req, nil
}

// prescriptionToFhir fills req, containing the prescriber in parent.
func (t *Transformer) prescriptionToFhir(parent fhir.Resource, req *fhir.MedicationRequest, p *thing.Prescription) error {
	if p.PrescribedBy == nil {
		return unrepresentable("prescription has no prescriber")
	}
	if err := p.DatePrescribed.Validate(); err != nil {
		return unrepresentable("date prescribed: %v", err)
	}
	if p.Expiration != nil {
		if err := p.Expiration.Validate(); err != nil {
			return unrepresentable("prescription expiration: %v", err)
		}
	}

	req.Status = fhir.MedicationRequestActive
	req.Intent = fhir.MedicationRequestOrder
	req.Requester = t.attachPerson(parent, p.PrescribedBy)
	authored, text := approx.ToChoice(p.DatePrescribed)
	req.AuthoredOn = authored
	if text != "" {
		req.AddExtension(extension.String(extension.PrescriptionDateText, text))
	}

	dispense := fhir.MedicationRequestDispense{}
	if p.Refills != nil {
		dispense.NumberOfRepeatsAllowed = intPtr(*p.Refills)
	}
	if p.AmountPrescribed != nil {
		if len(p.AmountPrescribed.Structured) > 0 {
			q := t.structuredToFhir(p.AmountPrescribed.Structured[0])
			dispense.Quantity = &q
		}
		req.AddExtension(t.measurementToFhir(extension.PrescriptionAmount, p.AmountPrescribed))
	}
	if p.DaysSupply != nil {
		dispense.ExpectedSupplyDuration = ucum(float64(*p.DaysSupply), "days", "d")
	}
	if p.Expiration != nil {
		dispense.ValidityPeriod = &fhir.Period{End: approx.DateToFhir(*p.Expiration)}
	}
	if dispense != (fhir.MedicationRequestDispense{}) {
		req.DispenseRequest = &dispense
	}

	if cc := t.vocab.Concept(p.Substitution); cc != nil {
		req.Substitution = &fhir.MedicationRequestSubstitution{AllowedCodeableConcept: cc}
	}
	if !p.Instructions.IsEmpty() {
		req.DosageInstruction = []fhir.Dosage{{
			Text:                  p.Instructions.Text,
			AdditionalInstruction: concepts(t.vocab.Concept(p.Instructions)),
		}}
	}
	return nil
}

// PrescriptionToHealthVault is the inverse of PrescriptionToFhir. A request
// without a requester cannot be represented.
func (t *Transformer) PrescriptionToHealthVault(req *fhir.MedicationRequest) (*thing.Prescription, error) {
	return t.prescriptionFromFhir(req, req)
}

func (t *Transformer) prescriptionFromFhir(parent fhir.Resource, req *fhir.MedicationRequest) (*thing.Prescription, error) {
	by := t.resolvePerson(parent, req.Requester)
	if by == nil {
		return nil, unrepresentable("medication request has no requester")
	}
	p := &thing.Prescription{PrescribedBy: by}

	var err error
	if p.DatePrescribed, err = approx.FromChoice(req.AuthoredOn, extension.GetString(req.Extension, extension.PrescriptionDateText)); err != nil {
		return nil, unrepresentable("authored on: %v", err)
	}
	p.AmountPrescribed = t.measurementFromFhir(req.Extension, extension.PrescriptionAmount)

	if dr := req.DispenseRequest; dr != nil {
		if p.AmountPrescribed == nil && dr.Quantity != nil {
			p.AmountPrescribed = &thing.GeneralMeasurement{
				Structured: []thing.StructuredMeasurement{t.structuredFromFhir(*dr.Quantity)},
			}
		}
		if dr.NumberOfRepeatsAllowed != nil {
			p.Refills = intPtr(*dr.NumberOfRepeatsAllowed)
		}
		if dr.ExpectedSupplyDuration != nil {
			days, err := t.convert(dr.ExpectedSupplyDuration, units.Duration, "d", "expected supply duration")
			if err != nil {
				return nil, err
			}
			p.DaysSupply = intPtr(int(math.Round(days)))
		}
		if dr.ValidityPeriod != nil && dr.ValidityPeriod.End != "" {
			if p.Expiration, err = approx.DateFromFhir(dr.ValidityPeriod.End); err != nil {
				return nil, unrepresentable("prescription expiration: %v", err)
			}
		}
	}
	if req.Substitution != nil {
		p.Substitution = t.vocab.Codable(req.Substitution.AllowedCodeableConcept)
	}
	if len(req.DosageInstruction) > 0 {
		di := req.DosageInstruction[0]
		p.Instructions = t.vocab.Codable(firstConcept(di.AdditionalInstruction))
		if p.Instructions == nil && di.Text != "" {
			p.Instructions = &thing.CodableValue{Text: di.Text}
		}
	}
	return p, nil
}
