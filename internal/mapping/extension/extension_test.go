package extension

import (
	"testing"

	"github.com/ehr/hvfhir/internal/platform/fhir"
)

func TestURL(t *testing.T) {
	if AddressIsPrimary != "https://healthvault.com/fhir/stu3/StructureDefinition/address-is-primary" {
		t.Errorf("unexpected url %q", AddressIsPrimary)
	}
}

func TestGetters(t *testing.T) {
	exts := []fhir.Extension{
		String(Description, "home"),
		Bool(IsPrimary, true),
		Int(BirthYear, 1975),
		Decimal(ExerciseTitle, 1.5),
		Code(ThingState, "deleted"),
		DateTime(BirthTime, "1975-04-01T08:30:00Z"),
		Concept(BloodType, fhir.CodeableConcept{Text: "A+"}),
		Complex(RelatedItem, String(RelatedItemID, "abc")),
	}

	if GetString(exts, Description) != "home" {
		t.Error("expected description")
	}
	if b := GetBool(exts, IsPrimary); b == nil || !*b {
		t.Error("expected is-primary true")
	}
	if i := GetInt(exts, BirthYear); i == nil || *i != 1975 {
		t.Error("expected birth year")
	}
	if d := GetDecimal(exts, ExerciseTitle); d == nil || *d != 1.5 {
		t.Error("expected decimal")
	}
	if GetCode(exts, ThingState) != "deleted" {
		t.Error("expected code")
	}
	if GetDateTime(exts, BirthTime) == "" {
		t.Error("expected dateTime")
	}
	if cc := GetConcept(exts, BloodType); cc == nil || cc.Text != "A+" {
		t.Error("expected concept")
	}
	if GetString(Sub(exts, RelatedItem), RelatedItemID) != "abc" {
		t.Error("expected nested item id")
	}
}

func TestGetters_Absent(t *testing.T) {
	if GetBool(nil, IsPrimary) != nil {
		t.Error("absent bool must be nil, not false")
	}
	if GetInt(nil, BirthYear) != nil || GetQuantity(nil, MedicationDose) != nil {
		t.Error("absent values must be nil")
	}
}

func TestBool_Independent(t *testing.T) {
	a := Bool(IsPrimary, true)
	b := Bool(IsPrimary, false)
	if *a.ValueBoolean == *b.ValueBoolean {
		t.Error("extensions must not share storage")
	}
}
