// Package thing defines the source health-record item model. Each concrete
// item type ("Thing") embeds Item for its key, lifecycle state and common
// metadata, and adds its concept-specific fields.
package thing

import "time"

// Thing is the closed set of item types this module can transform.
type Thing interface {
	TypeID() string
	TypeName() string
	Base() *Item
	isThing()
}

// State is the lifecycle state of an item.
type State string

const (
	StateActive  State = "active"
	StateDeleted State = "deleted"
)

// Flags are item-level bit flags.
type Flags uint32

const (
	FlagPersonal      Flags = 1 << 0
	FlagDownVersioned Flags = 1 << 1
	FlagUpVersioned   Flags = 1 << 2
)

// Key identifies a specific version of an item.
type Key struct {
	ID           string `json:"thing-id"`
	VersionStamp string `json:"version-stamp,omitempty"`
}

// RelatedItem links one item to another.
type RelatedItem struct {
	ItemID           string `json:"thing-id,omitempty"`
	VersionStamp     string `json:"version-stamp,omitempty"`
	ClientID         string `json:"client-thing-id,omitempty"`
	RelationshipType string `json:"relationship-type,omitempty"`
}

// CommonData is the metadata every item may carry.
type CommonData struct {
	Note         string        `json:"note,omitempty"`
	Source       string        `json:"source,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	ClientID     string        `json:"client-thing-id,omitempty"`
	RelatedItems []RelatedItem `json:"related-thing,omitempty"`
}

// Item carries the fields shared by every Thing.
type Item struct {
	Key           *Key       `json:"key,omitempty"`
	State         State      `json:"state,omitempty"`
	Flags         Flags      `json:"flags,omitempty"`
	EffectiveDate *time.Time `json:"eff-date,omitempty"`
	Common        CommonData `json:"common"`
}

func (i *Item) Base() *Item { return i }
func (i *Item) isThing()    {}

// Item type identifiers.
const (
	AllergyTypeID        = "52bf9104-2c5e-4f1f-a66d-552ebcc53df7"
	ConditionTypeID      = "7ea7a1f9-880b-4bd4-b593-f5660f20eda8"
	MedicationTypeID     = "30cafccc-047d-4288-94ef-643571f7919d"
	ProcedureTypeID      = "df4db479-a1ba-42a2-8714-2b083b88150f"
	ImmunizationTypeID   = "cd3587b5-b6e1-4565-ab3b-1c3ad45eb04f"
	ExerciseTypeID       = "85a21ddb-db20-4c65-8d30-33c899ccf612"
	WeightTypeID         = "3d34d87e-7fc1-4153-800f-f56592cb0d17"
	HeightTypeID         = "40750a6a-89b2-455c-bd8d-b420a4cb500b"
	BloodPressureTypeID  = "ca3c57f4-f4c1-4e15-be67-0a3caf5414ed"
	BloodGlucoseTypeID   = "879e7c04-4e8a-4707-9ad3-b054df467ce4"
	HeartRateTypeID      = "b81eb4a6-6eac-4292-ae93-3872d6870994"
	VitalSignsTypeID     = "73822612-c15f-4b49-9e65-6af369e55c65"
	LabTestResultsTypeID = "5800eab5-a8c2-482a-a4d6-f1db25ae08c3"
	FileTypeID           = "bd0403c5-4ae2-4b0e-a8db-1888678e4528"
	PersonalTypeID       = "92ba621e-66b3-4a01-bd73-74844aed4f5b"
	BasicTypeID          = "3b3e6b16-eb69-483c-8d7e-dfe116ae6092"
	ContactTypeID        = "162dd12d-9859-4a66-b75f-96760d67072b"
)
