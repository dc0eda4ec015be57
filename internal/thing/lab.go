package thing

// TestResultRangeValue bounds a reference range.
type TestResultRangeValue struct {
	Minimum *float64 `json:"minimum-range,omitempty"`
	Maximum *float64 `json:"maximum-range,omitempty"`
}

// TestResultRange is a reference range for a lab result.
type TestResultRange struct {
	Type  CodableValue          `json:"type"`
	Text  CodableValue          `json:"text"`
	Value *TestResultRangeValue `json:"value,omitempty"`
}

// LabResultValue is the measured value of a lab result.
type LabResultValue struct {
	Measurement GeneralMeasurement `json:"measurement"`
	Ranges      []TestResultRange  `json:"ranges,omitempty"`
	Flags       []CodableValue     `json:"flag,omitempty"`
}

// LabTestResultDetails is a single lab result within a group.
type LabTestResultDetails struct {
	When             *ApproximateDateTime `json:"when,omitempty"`
	Name             string               `json:"name,omitempty"`
	Substance        *CodableValue        `json:"substance,omitempty"`
	CollectionMethod *CodableValue        `json:"collection-method,omitempty"`
	ClinicalCode     *CodableValue        `json:"clinical-code,omitempty"`
	Value            *LabResultValue      `json:"value,omitempty"`
	Status           *CodableValue        `json:"status,omitempty"`
	Note             string               `json:"note,omitempty"`
}

// LabTestResultGroup is a named group of results, possibly nested.
type LabTestResultGroup struct {
	GroupName      CodableValue           `json:"group-name"`
	LaboratoryName *Organization          `json:"laboratory-name,omitempty"`
	Status         *CodableValue          `json:"status,omitempty"`
	SubGroups      []LabTestResultGroup   `json:"sub-groups,omitempty"`
	Results        []LabTestResultDetails `json:"results,omitempty"`
}

// LabTestResults is a set of lab results from one order.
type LabTestResults struct {
	Item
	When      *ApproximateDateTime `json:"when,omitempty"`
	Groups    []LabTestResultGroup `json:"lab-group"`
	OrderedBy *Organization        `json:"ordered-by,omitempty"`
}

func (*LabTestResults) TypeID() string   { return LabTestResultsTypeID }
func (*LabTestResults) TypeName() string { return "lab-test-results" }
