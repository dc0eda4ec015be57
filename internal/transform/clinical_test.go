package transform

import (
	"strings"
	"testing"

	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

// ---------------------------------------------------------------------------
// Address, name, contact
// ---------------------------------------------------------------------------

func TestAddressToFhir_IsPrimary(t *testing.T) {
	a := thing.Address{
		Street:     []string{"1 Main St", "Apt 4"},
		City:       "Redmond",
		State:      "WA",
		PostalCode: "98052",
		Country:    "US",
		County:     "King",
		IsPrimary:  boolPtr(true),
	}
	out := AddressToFhir(a)
	if len(out.Line) != 2 || out.Line[1] != "Apt 4" {
		t.Errorf("expected two lines, got %v", out.Line)
	}
	if out.District != "King" {
		t.Errorf("expected county as district, got %q", out.District)
	}
	primary := extension.GetBool(out.Extension, extension.AddressIsPrimary)
	if primary == nil || !*primary {
		t.Fatal("expected is-primary extension true")
	}

	back := AddressToHealthVault(out)
	if back.IsPrimary == nil || !*back.IsPrimary {
		t.Error("expected IsPrimary to survive")
	}
	if back.County != "King" || len(back.Street) != 2 {
		t.Errorf("unexpected address %+v", back)
	}
}

func TestAddressToFhir_IsPrimaryUnset(t *testing.T) {
	out := AddressToFhir(thing.Address{City: "Seattle"})
	if len(out.Extension) != 0 {
		t.Errorf("expected no extensions, got %d", len(out.Extension))
	}
	if AddressToHealthVault(out).IsPrimary != nil {
		t.Error("expected IsPrimary to stay nil")
	}
}

func TestName_RoundTrip(t *testing.T) {
	n := thing.Name{
		Full:   "Dr. Jane Q Public Jr",
		Title:  &thing.CodableValue{Text: "Dr."},
		First:  "Jane",
		Middle: "Q",
		Last:   "Public",
		Suffix: &thing.CodableValue{Text: "Jr"},
	}
	h := NameToFhir(n)
	if len(h.Given) != 2 || h.Family != "Public" {
		t.Fatalf("unexpected human name %+v", h)
	}
	back := NameToHealthVault(h)
	if back.First != "Jane" || back.Middle != "Q" || back.Title.Text != "Dr." || back.Suffix.Text != "Jr" {
		t.Errorf("unexpected name %+v", back)
	}
}

func TestNameToHealthVault_RebuildsFull(t *testing.T) {
	n := NameToHealthVault(fhir.HumanName{Family: "Smith", Given: []string{"Ann", "Marie", "Lou"}})
	if n.Full != "Ann Marie Lou Smith" {
		t.Errorf("expected rebuilt full name, got %q", n.Full)
	}
	if n.Middle != "Marie Lou" {
		t.Errorf("expected joined middle names, got %q", n.Middle)
	}
}

func TestContactInfo_RoundTrip(t *testing.T) {
	in := &thing.ContactInfo{
		Phones: []thing.Phone{{Number: "555-0100", IsPrimary: boolPtr(true), Description: "cell"}},
		Emails: []thing.Email{{Address: "a@example.com"}},
	}
	telecom, addrs := ContactInfoToFhir(in)
	if len(telecom) != 2 || len(addrs) != 0 {
		t.Fatalf("expected 2 telecom entries, got %d", len(telecom))
	}
	if telecom[0].System != fhir.ContactSystemPhone || telecom[0].Rank != 1 {
		t.Errorf("expected ranked phone, got %+v", telecom[0])
	}
	if telecom[1].System != fhir.ContactSystemEmail || telecom[1].Rank != 0 {
		t.Errorf("expected unranked email, got %+v", telecom[1])
	}

	back := ContactInfoToHealthVault(telecom, addrs)
	if len(back.Phones) != 1 || back.Phones[0].Description != "cell" || !*back.Phones[0].IsPrimary {
		t.Errorf("unexpected phones %+v", back.Phones)
	}
	if len(back.Emails) != 1 || back.Emails[0].IsPrimary != nil {
		t.Errorf("unexpected emails %+v", back.Emails)
	}
	if ContactInfoToHealthVault(nil, nil) != nil {
		t.Error("expected nil for empty contact info")
	}
}

// ---------------------------------------------------------------------------
// Allergy
// ---------------------------------------------------------------------------

func TestAllergyToFhir_ClinicalStatus(t *testing.T) {
	tests := []struct {
		name    string
		negated *bool
		want    string
		back    bool
	}{
		{"negated", boolPtr(true), fhirmodels.AllergyResolved, true},
		{"not negated", boolPtr(false), fhirmodels.AllergyActive, false},
		{"unset", nil, fhirmodels.AllergyActive, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTransformer()
			ai, err := tr.AllergyToFhir(&thing.Allergy{Name: snomed("91936005", "Penicillin"), IsNegated: tt.negated})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ai.ClinicalStatus.FirstCode(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			back, err := tr.AllergyToHealthVault(ai)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if back.IsNegated == nil || *back.IsNegated != tt.back {
				t.Errorf("expected IsNegated %v, got %v", tt.back, back.IsNegated)
			}
		})
	}
}

func TestAllergyToFhir_Details(t *testing.T) {
	tr := newTransformer()
	a := &thing.Allergy{
		Name:              snomed("91936005", "Penicillin"),
		Reaction:          &thing.CodableValue{Text: "Hives"},
		FirstObserved:     &thing.ApproximateDateTime{Date: &thing.ApproximateDate{Year: 2004}},
		AllergenType:      &thing.CodableValue{Text: "medication"},
		Treatment:         &thing.CodableValue{Text: "Antihistamine"},
		TreatmentProvider: &thing.Person{Name: thing.Name{Full: "Dr Who", Last: "Who"}},
	}
	ai, err := tr.AllergyToFhir(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai.OnsetDateTime != "2004" {
		t.Errorf("expected year onset, got %q", ai.OnsetDateTime)
	}
	if len(ai.Category) != 1 || ai.Category[0] != "medication" {
		t.Errorf("expected medication category, got %v", ai.Category)
	}
	if len(ai.Contained) != 1 || ai.Asserter == nil || ai.Asserter.Reference != "#practitioner-1" {
		t.Fatalf("expected contained asserter, got %+v", ai.Asserter)
	}

	back, err := tr.AllergyToHealthVault(ai)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.TreatmentProvider == nil || back.TreatmentProvider.Name.Full != "Dr Who" {
		t.Errorf("expected treatment provider, got %+v", back.TreatmentProvider)
	}
	if back.FirstObserved.Date.Year != 2004 || back.FirstObserved.Date.Month != nil {
		t.Errorf("expected year-only onset, got %+v", back.FirstObserved.Date)
	}
	if back.Reaction.Text != "Hives" || back.Treatment.Text != "Antihistamine" {
		t.Errorf("unexpected reaction/treatment %+v %+v", back.Reaction, back.Treatment)
	}
}

func TestAllergyToFhir_MissingName(t *testing.T) {
	_, err := newTransformer().AllergyToFhir(&thing.Allergy{})
	assertErrorIs(t, err, ErrUnrepresentable)
}

func TestAllergyToFhir_TimeWithoutFullDate(t *testing.T) {
	a := &thing.Allergy{
		Name: thing.CodableValue{Text: "Peanut"},
		FirstObserved: &thing.ApproximateDateTime{
			Date: &thing.ApproximateDate{Year: 2010},
			Time: &thing.ApproximateTime{Hour: 8},
		},
	}
	_, err := newTransformer().AllergyToFhir(a)
	assertErrorIs(t, err, ErrUnrepresentable)
}

func TestAllergyToHealthVault_ExternalAsserter(t *testing.T) {
	ai := fhir.NewAllergyIntolerance()
	ai.Code = &fhir.CodeableConcept{Text: "Latex"}
	ai.Asserter = &fhir.Reference{Reference: "Practitioner/123", Display: "Nurse Joy"}

	back, err := newTransformer().AllergyToHealthVault(ai)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.TreatmentProvider == nil || back.TreatmentProvider.Name.Full != "Nurse Joy" {
		t.Errorf("expected placeholder provider, got %+v", back.TreatmentProvider)
	}
	if back.IsNegated != nil {
		t.Error("expected IsNegated nil without clinical status")
	}
}

// ---------------------------------------------------------------------------
// Condition
// ---------------------------------------------------------------------------

func TestConditionToFhir_Status(t *testing.T) {
	tr := newTransformer()
	c := &thing.Condition{
		Name:       snomed("195967001", "Asthma"),
		OnsetDate:  day(2001, 3, 4),
		StopDate:   &thing.ApproximateDateTime{Description: "childhood"},
		Status:     &thing.CodableValue{Text: "Resolved"},
		StopReason: "outgrown",
	}
	fc, err := tr.ConditionToFhir(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fc.ClinicalStatus.HasCode(fhirmodels.SystemConditionClinical, fhirmodels.ConditionResolved) {
		t.Errorf("expected resolved clinical status, got %+v", fc.ClinicalStatus)
	}
	if fc.OnsetDateTime != "2001-03-04" || fc.AbatementString != "childhood" {
		t.Errorf("unexpected onset/abatement %q %q", fc.OnsetDateTime, fc.AbatementString)
	}

	back, err := tr.ConditionToHealthVault(fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Status.Text != "Resolved" || back.StopReason != "outgrown" {
		t.Errorf("unexpected status/reason %+v %q", back.Status, back.StopReason)
	}
	if back.StopDate.Description != "childhood" || back.StopDate.Date != nil {
		t.Errorf("expected descriptive stop date, got %+v", back.StopDate)
	}
	if len(back.Name.Codes) != 1 || back.Name.Codes[0].VocabularyName != "SNOMED-CT" {
		t.Errorf("expected SNOMED code to survive, got %+v", back.Name.Codes)
	}
}

func TestConditionToFhir_UnknownStatus(t *testing.T) {
	fc, err := newTransformer().ConditionToFhir(&thing.Condition{
		Name:   thing.CodableValue{Text: "Migraine"},
		Status: &thing.CodableValue{Text: "sometimes"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.ClinicalStatus != nil {
		t.Errorf("expected no clinical status, got %+v", fc.ClinicalStatus)
	}
	if extension.GetConcept(fc.Extension, extension.ConditionStatus) == nil {
		t.Error("expected status extension")
	}
}

func TestConditionToHealthVault_MissingCode(t *testing.T) {
	_, err := newTransformer().ConditionToHealthVault(fhir.NewCondition())
	assertErrorIs(t, err, ErrUnrepresentable)
}

// ---------------------------------------------------------------------------
// Medication and prescription
// ---------------------------------------------------------------------------

func sampleMedication() *thing.Medication {
	mg := thing.CodableValue{Text: "mg", Codes: []thing.CodedValue{{Value: "mg", Family: "wc", VocabularyName: "ucum"}}}
	return &thing.Medication{
		Name:        thing.CodableValue{Text: "Lisinopril", Codes: []thing.CodedValue{{Value: "29046", Family: "RxNorm", VocabularyName: "RxNorm Active Medicines"}}},
		GenericName: &thing.CodableValue{Text: "lisinopril"},
		Dose: &thing.GeneralMeasurement{
			Display:    "10 mg",
			Structured: []thing.StructuredMeasurement{{Value: 10, Units: mg}},
		},
		Frequency:   &thing.GeneralMeasurement{Display: "once daily"},
		Route:       &thing.CodableValue{Text: "oral"},
		Indication:  &thing.CodableValue{Text: "hypertension"},
		DateStarted: day(2020, 1, 15),
		Prescription: &thing.Prescription{
			PrescribedBy:   &thing.Person{Name: thing.Name{Full: "Dr Grey", Last: "Grey"}},
			DatePrescribed: day(2020, 1, 14),
			Refills:        intPtr(3),
			DaysSupply:     intPtr(30),
			Expiration:     &thing.Date{Year: 2021, Month: 1, Day: 14},
			Instructions:   &thing.CodableValue{Text: "take with food"},
		},
	}
}

func TestMedicationToFhir_Contained(t *testing.T) {
	tr := newTransformer()
	ms, err := tr.MedicationToFhir(sampleMedication())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// medication, prescriber, request
	if len(ms.Contained) != 3 {
		t.Fatalf("expected 3 contained resources, got %d", len(ms.Contained))
	}
	if ms.MedicationReference == nil || !strings.HasPrefix(ms.MedicationReference.Reference, "#medication-") {
		t.Errorf("expected contained medication reference, got %+v", ms.MedicationReference)
	}
	if ms.Status != fhir.MedicationStatementActive {
		t.Errorf("expected active, got %s", ms.Status)
	}
	if ms.EffectivePeriod == nil || ms.EffectivePeriod.Start != "2020-01-15" {
		t.Errorf("unexpected effective period %+v", ms.EffectivePeriod)
	}
	d := ms.Dosage[0]
	if d.Text != "10 mg" || d.DoseAndRate[0].DoseQuantity.Code != "mg" {
		t.Errorf("unexpected dosage %+v", d)
	}
	if d.DoseAndRate[0].DoseQuantity.System != fhirmodels.SystemUCUM {
		t.Errorf("expected UCUM dose system, got %q", d.DoseAndRate[0].DoseQuantity.System)
	}
	if len(ms.BasedOn) != 1 {
		t.Fatalf("expected prescription in basedOn")
	}
	req, ok := ms.Contained[2].(*fhir.MedicationRequest)
	if !ok {
		t.Fatalf("expected contained MedicationRequest, got %T", ms.Contained[2])
	}
	if req.DispenseRequest.ExpectedSupplyDuration.Code != "d" || *req.DispenseRequest.NumberOfRepeatsAllowed != 3 {
		t.Errorf("unexpected dispense request %+v", req.DispenseRequest)
	}
}

func TestMedication_RoundTrip(t *testing.T) {
	tr := newTransformer()
	ms, err := tr.MedicationToFhir(sampleMedication())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := tr.MedicationToHealthVault(ms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Name.Text != "Lisinopril" || back.Name.Codes[0].Family != "RxNorm" {
		t.Errorf("unexpected name %+v", back.Name)
	}
	if back.GenericName.Text != "lisinopril" {
		t.Errorf("unexpected generic name %+v", back.GenericName)
	}
	if back.Dose.Display != "10 mg" || back.Dose.Structured[0].Value != 10 {
		t.Errorf("unexpected dose %+v", back.Dose)
	}
	if back.Frequency.Display != "once daily" || back.Route.Text != "oral" {
		t.Errorf("unexpected frequency/route %+v %+v", back.Frequency, back.Route)
	}
	if back.DateDiscontinued != nil {
		t.Error("expected no discontinued date")
	}

	p := back.Prescription
	if p == nil || p.PrescribedBy.Name.Full != "Dr Grey" {
		t.Fatalf("expected prescriber, got %+v", p)
	}
	if *p.DaysSupply != 30 || *p.Refills != 3 {
		t.Errorf("unexpected supply/refills %d %d", *p.DaysSupply, *p.Refills)
	}
	if *p.Expiration != (thing.Date{Year: 2021, Month: 1, Day: 14}) {
		t.Errorf("unexpected expiration %+v", p.Expiration)
	}
	if p.Instructions.Text != "take with food" {
		t.Errorf("unexpected instructions %+v", p.Instructions)
	}
}

func TestMedicationToFhir_Discontinued(t *testing.T) {
	m := sampleMedication()
	m.Prescription = nil
	m.DateDiscontinued = day(2021, 6, 1)
	ms, err := newTransformer().MedicationToFhir(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.Status != fhir.MedicationStatementCompleted {
		t.Errorf("expected completed, got %s", ms.Status)
	}
	if ms.EffectivePeriod.End != "2021-06-01" {
		t.Errorf("unexpected end %q", ms.EffectivePeriod.End)
	}
}

func TestMedication_DescriptiveDates(t *testing.T) {
	tr := newTransformer()
	m := sampleMedication()
	m.DateStarted = &thing.ApproximateDateTime{Description: "childhood"}
	m.DateDiscontinued = &thing.ApproximateDateTime{Description: "after surgery"}
	m.Prescription.DatePrescribed = &thing.ApproximateDateTime{Description: "last spring"}

	ms, err := tr.MedicationToFhir(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.EffectivePeriod != nil {
		t.Errorf("expected no effective period, got %+v", ms.EffectivePeriod)
	}
	if got := extension.GetString(ms.Extension, extension.MedicationStartedText); got != "childhood" {
		t.Errorf("unexpected start text %q", got)
	}

	back, err := tr.MedicationToHealthVault(ms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.DateStarted == nil || back.DateStarted.Description != "childhood" || back.DateStarted.Date != nil {
		t.Errorf("unexpected date started %+v", back.DateStarted)
	}
	if back.DateDiscontinued == nil || back.DateDiscontinued.Description != "after surgery" {
		t.Errorf("unexpected date discontinued %+v", back.DateDiscontinued)
	}
	if back.Prescription == nil || back.Prescription.DatePrescribed == nil ||
		back.Prescription.DatePrescribed.Description != "last spring" {
		t.Errorf("unexpected prescription %+v", back.Prescription)
	}
}

func TestPrescription_DescriptiveDate(t *testing.T) {
	tr := newTransformer()
	req, err := tr.PrescriptionToFhir(&thing.Prescription{
		PrescribedBy:   &thing.Person{Name: thing.Name{Full: "Dr A"}},
		DatePrescribed: &thing.ApproximateDateTime{Description: "at the last visit"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.AuthoredOn != "" {
		t.Errorf("expected no authoredOn, got %q", req.AuthoredOn)
	}
	p, err := tr.PrescriptionToHealthVault(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DatePrescribed == nil || p.DatePrescribed.Description != "at the last visit" {
		t.Errorf("unexpected date prescribed %+v", p.DatePrescribed)
	}
}

func TestMedicationToFhir_DateOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *thing.Medication)
	}{
		{"start month 13", func(m *thing.Medication) {
			m.DateStarted = &thing.ApproximateDateTime{Date: &thing.ApproximateDate{Year: 2017, Month: intPtr(13)}}
		}},
		{"discontinued day 0", func(m *thing.Medication) { m.DateDiscontinued = day(2017, 3, 0) }},
		{"prescribed hour 25", func(m *thing.Medication) {
			m.Prescription.DatePrescribed = day(2020, 1, 14)
			m.Prescription.DatePrescribed.Time = &thing.ApproximateTime{Hour: 25}
		}},
		{"expiration feb 30", func(m *thing.Medication) {
			m.Prescription.Expiration = &thing.Date{Year: 2021, Month: 2, Day: 30}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sampleMedication()
			tt.mutate(m)
			_, err := newTransformer().MedicationToFhir(m)
			assertErrorIs(t, err, ErrUnrepresentable)
			if !strings.Contains(err.Error(), thing.ErrDateOutOfRange.Error()) {
				t.Errorf("expected out of range error, got %v", err)
			}
		})
	}
}

func TestMedicationToFhir_PrescriptionWithoutPrescriber(t *testing.T) {
	m := sampleMedication()
	m.Prescription.PrescribedBy = nil
	_, err := newTransformer().MedicationToFhir(m)
	assertErrorIs(t, err, ErrUnrepresentable)
}

func TestMedicationToHealthVault_DoseRange(t *testing.T) {
	ms := fhir.NewMedicationStatement()
	ms.MedicationCodeableConcept = &fhir.CodeableConcept{Text: "Ibuprofen"}
	ms.Dosage = []fhir.Dosage{{DoseAndRate: []fhir.DosageDoseAndRate{{
		DoseRange: &fhir.Range{Low: &fhir.Quantity{Value: floatPtr(200)}, High: &fhir.Quantity{Value: floatPtr(400)}},
	}}}}
	_, err := newTransformer().MedicationToHealthVault(ms)
	assertErrorIs(t, err, ErrNotImplemented)
}

func TestMedicationToHealthVault_MultipleStructuredDoses(t *testing.T) {
	tr := newTransformer()
	m := sampleMedication()
	m.Dose.Structured = append(m.Dose.Structured, thing.StructuredMeasurement{Value: 1, Units: thing.CodableValue{Text: "tablet"}})
	ms, err := tr.MedicationToFhir(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := tr.MedicationToHealthVault(ms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(back.Dose.Structured) != 2 || back.Dose.Structured[1].Units.Text != "tablet" {
		t.Errorf("expected both structured doses, got %+v", back.Dose.Structured)
	}
}

func TestPrescriptionToHealthVault_NoRequester(t *testing.T) {
	_, err := newTransformer().PrescriptionToHealthVault(fhir.NewMedicationRequest())
	assertErrorIs(t, err, ErrUnrepresentable)
}

func TestPrescriptionToHealthVault_SupplyInHours(t *testing.T) {
	tr := newTransformer()
	req, err := tr.PrescriptionToFhir(&thing.Prescription{PrescribedBy: &thing.Person{Name: thing.Name{Full: "Dr A"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.DispenseRequest = &fhir.MedicationRequestDispense{
		ExpectedSupplyDuration: &fhir.Quantity{Value: floatPtr(48), Unit: "hours", Code: "h"},
	}
	p, err := tr.PrescriptionToHealthVault(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DaysSupply == nil || *p.DaysSupply != 2 {
		t.Errorf("expected 2 days supply, got %v", p.DaysSupply)
	}
}

// ---------------------------------------------------------------------------
// Procedure and immunization
// ---------------------------------------------------------------------------

func TestProcedure_Performers(t *testing.T) {
	tr := newTransformer()
	p := &thing.Procedure{
		Name:              snomed("80146002", "Appendectomy"),
		When:              day(2015, 7, 1),
		AnatomicLocation:  &thing.CodableValue{Text: "abdomen"},
		PrimaryProvider:   &thing.Person{Name: thing.Name{Full: "Dr Primary"}},
		SecondaryProvider: &thing.Person{Name: thing.Name{Full: "Dr Second"}},
	}
	fp, err := tr.ProcedureToFhir(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fp.Performer) != 2 || len(fp.Contained) != 2 {
		t.Fatalf("expected 2 contained performers, got %d/%d", len(fp.Performer), len(fp.Contained))
	}
	if !fp.Performer[1].Function.HasCode(fhirmodels.SystemPerformerFunction, fhirmodels.ParticipantSecondary) {
		t.Errorf("expected secondary function, got %+v", fp.Performer[1].Function)
	}

	// swap order to check the function code wins over position
	fp.Performer[0], fp.Performer[1] = fp.Performer[1], fp.Performer[0]
	back, err := tr.ProcedureToHealthVault(fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.PrimaryProvider.Name.Full != "Dr Primary" || back.SecondaryProvider.Name.Full != "Dr Second" {
		t.Errorf("unexpected providers %+v %+v", back.PrimaryProvider, back.SecondaryProvider)
	}
	if back.When.Date.Year != 2015 || back.AnatomicLocation.Text != "abdomen" {
		t.Errorf("unexpected when/location %+v %+v", back.When, back.AnatomicLocation)
	}
}

func TestProcedureToHealthVault_UntaggedPerformers(t *testing.T) {
	fp := fhir.NewProcedure()
	fp.Code = &fhir.CodeableConcept{Text: "Biopsy"}
	fp.Performer = []fhir.ProcedurePerformer{
		{Actor: fhir.Reference{Display: "First"}},
		{Actor: fhir.Reference{Display: "Second"}},
	}
	back, err := newTransformer().ProcedureToHealthVault(fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.PrimaryProvider.Name.Full != "First" || back.SecondaryProvider.Name.Full != "Second" {
		t.Errorf("expected positional providers, got %+v %+v", back.PrimaryProvider, back.SecondaryProvider)
	}
}

func TestImmunization_RoundTrip(t *testing.T) {
	tr := newTransformer()
	im := &thing.Immunization{
		Name:               thing.CodableValue{Text: "Influenza", Codes: []thing.CodedValue{{Value: "141", Family: "HL7", VocabularyName: "vaccines-cvx"}}},
		AdministrationDate: day(2019, 10, 2),
		Administrator:      &thing.Person{Name: thing.Name{Full: "Nurse Ratched"}},
		Manufacturer:       &thing.CodableValue{Text: "Acme Vaccines"},
		Lot:                "L123",
		ExpirationDate:     &thing.ApproximateDate{Year: 2020, Month: intPtr(6)},
		Sequence:           "1 of 1",
		AdverseEvent:       "sore arm",
	}
	fi, err := tr.ImmunizationToFhir(im)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fi.VaccineCode.Coding[0].System != "http://hl7.org/fhir/sid/cvx" {
		t.Errorf("expected CVX system, got %q", fi.VaccineCode.Coding[0].System)
	}
	if fi.ExpirationDate != "2020-06" {
		t.Errorf("expected month expiration, got %q", fi.ExpirationDate)
	}
	if fi.Manufacturer == nil || fi.Manufacturer.Display != "Acme Vaccines" {
		t.Errorf("unexpected manufacturer %+v", fi.Manufacturer)
	}

	back, err := tr.ImmunizationToHealthVault(fi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Manufacturer.Text != "Acme Vaccines" || back.Administrator.Name.Full != "Nurse Ratched" {
		t.Errorf("unexpected manufacturer/administrator %+v %+v", back.Manufacturer, back.Administrator)
	}
	if back.ExpirationDate.Month == nil || *back.ExpirationDate.Month != 6 || back.ExpirationDate.Day != nil {
		t.Errorf("unexpected expiration %+v", back.ExpirationDate)
	}
	if back.Lot != "L123" || back.Sequence != "1 of 1" || back.AdverseEvent != "sore arm" {
		t.Errorf("unexpected details %+v", back)
	}
}

func TestImmunizationToFhir_ExpirationOutOfRange(t *testing.T) {
	im := &thing.Immunization{
		Name:           thing.CodableValue{Text: "Influenza"},
		ExpirationDate: &thing.ApproximateDate{Year: 2017, Month: intPtr(13)},
	}
	_, err := newTransformer().ImmunizationToFhir(im)
	assertErrorIs(t, err, ErrUnrepresentable)
}
