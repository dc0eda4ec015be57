package thing

// Weight is a body weight measurement.
type Weight struct {
	Item
	When  DateTime    `json:"when"`
	Value WeightValue `json:"value"`
}

func (*Weight) TypeID() string   { return WeightTypeID }
func (*Weight) TypeName() string { return "weight" }

// Height is a body height measurement.
type Height struct {
	Item
	When  DateTime `json:"when"`
	Value Length   `json:"value"`
}

func (*Height) TypeID() string   { return HeightTypeID }
func (*Height) TypeName() string { return "height" }

// BloodPressure is a systolic/diastolic reading with optional pulse.
type BloodPressure struct {
	Item
	When                       DateTime `json:"when"`
	Systolic                   int      `json:"systolic"`
	Diastolic                  int      `json:"diastolic"`
	Pulse                      *int     `json:"pulse,omitempty"`
	IrregularHeartbeatDetected *bool    `json:"irregular-heartbeat,omitempty"`
}

func (*BloodPressure) TypeID() string   { return BloodPressureTypeID }
func (*BloodPressure) TypeName() string { return "blood-pressure" }

// Normalcy rates a reading against the expected range.
type Normalcy int

const (
	NormalcyUnknown Normalcy = iota
	NormalcyWellBelowNormal
	NormalcyBelowNormal
	NormalcyNormal
	NormalcyAboveNormal
	NormalcyWellAboveNormal
)

// BloodGlucoseValue is a glucose concentration in mmol/L.
type BloodGlucoseValue struct {
	MillimolesPerLiter float64       `json:"mmolPerL"`
	Display            *DisplayValue `json:"display,omitempty"`
}

// BloodGlucose is a blood glucose reading.
type BloodGlucose struct {
	Item
	When                        DateTime          `json:"when"`
	Value                       BloodGlucoseValue `json:"value"`
	MeasurementType             CodableValue      `json:"glucose-measurement-type"`
	OutsideOperatingTemperature *bool             `json:"outside-operating-temp,omitempty"`
	IsControlTest               *bool             `json:"is-control-test,omitempty"`
	ReadingNormalcy             *Normalcy         `json:"normalcy,omitempty"`
	MeasurementContext          *CodableValue     `json:"measurement-context,omitempty"`
}

func (*BloodGlucose) TypeID() string   { return BloodGlucoseTypeID }
func (*BloodGlucose) TypeName() string { return "blood-glucose" }

// HeartRate is a pulse reading in beats per minute.
type HeartRate struct {
	Item
	When                  DateTime      `json:"when"`
	Value                 int           `json:"value"`
	MeasurementMethod     *CodableValue `json:"measurement-method,omitempty"`
	MeasurementConditions *CodableValue `json:"measurement-conditions,omitempty"`
	MeasurementFlags      *CodableValue `json:"measurement-flags,omitempty"`
}

func (*HeartRate) TypeID() string   { return HeartRateTypeID }
func (*HeartRate) TypeName() string { return "heart-rate" }

// VitalSignsResult is a single vital sign within a VitalSigns panel.
type VitalSignsResult struct {
	Title            CodableValue  `json:"title"`
	Value            *float64      `json:"value,omitempty"`
	Unit             *CodableValue `json:"unit,omitempty"`
	ReferenceMinimum *float64      `json:"reference-minimum,omitempty"`
	ReferenceMaximum *float64      `json:"reference-maximum,omitempty"`
	TextValue        string        `json:"text-value,omitempty"`
	Flag             *CodableValue `json:"flag,omitempty"`
}

// VitalSigns is a panel of vital sign results taken together.
type VitalSigns struct {
	Item
	When     DateTime           `json:"when"`
	Results  []VitalSignsResult `json:"vital-signs-results,omitempty"`
	Site     string             `json:"site,omitempty"`
	Position string             `json:"position,omitempty"`
}

func (*VitalSigns) TypeID() string   { return VitalSignsTypeID }
func (*VitalSigns) TypeName() string { return "vital-signs" }

// ExerciseDetail is a named measurement recorded during exercise.
type ExerciseDetail struct {
	Name  CodedValue            `json:"name"`
	Value StructuredMeasurement `json:"value"`
}

// ExerciseSegment is one part of an exercise session.
type ExerciseSegment struct {
	Activity CodableValue              `json:"activity"`
	Title    string                    `json:"title,omitempty"`
	Distance *Length                   `json:"distance,omitempty"`
	Duration *float64                  `json:"duration,omitempty"`
	Offset   *float64                  `json:"offset,omitempty"`
	Details  map[string]ExerciseDetail `json:"detail,omitempty"`
}

// Exercise is an exercise session. Duration and Offset are in minutes.
type Exercise struct {
	Item
	When     ApproximateDateTime       `json:"when"`
	Activity CodableValue              `json:"activity"`
	Title    string                    `json:"title,omitempty"`
	Distance *Length                   `json:"distance,omitempty"`
	Duration *float64                  `json:"duration,omitempty"`
	Details  map[string]ExerciseDetail `json:"detail,omitempty"`
	Segments []ExerciseSegment         `json:"segment,omitempty"`
}

func (*Exercise) TypeID() string   { return ExerciseTypeID }
func (*Exercise) TypeName() string { return "exercise" }
