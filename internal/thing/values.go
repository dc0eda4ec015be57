package thing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrIncompleteDate is returned when a time of day is recorded against a
// date that is not fully specified.
var ErrIncompleteDate = errors.New("time requires a full date")

// ErrDateOutOfRange is returned when a date or time component lies outside
// its calendar or clock range.
var ErrDateOutOfRange = errors.New("date component out of range")

// ApproximateDate is a date whose month and day are optional.
type ApproximateDate struct {
	Year  int  `json:"y"`
	Month *int `json:"m,omitempty"`
	Day   *int `json:"d,omitempty"`
}

// ApproximateTime is a time of day whose second and millisecond are optional.
type ApproximateTime struct {
	Hour        int  `json:"h"`
	Minute      int  `json:"m"`
	Second      *int `json:"s,omitempty"`
	Millisecond *int `json:"f,omitempty"`
}

// ApproximateDateTime is either a partial-precision structured date/time or
// a free-text Description when no structured value was recorded.
type ApproximateDateTime struct {
	Date        *ApproximateDate `json:"structured,omitempty"`
	Time        *ApproximateTime `json:"time,omitempty"`
	Description string           `json:"descriptive,omitempty"`
}

// IsStructured reports whether a structured date is present.
func (a *ApproximateDateTime) IsStructured() bool {
	return a != nil && a.Date != nil
}

// Validate enforces that a time of day is only recorded against a full date
// and that every recorded component is in range.
func (a *ApproximateDateTime) Validate() error {
	if a == nil {
		return nil
	}
	if err := a.Date.Validate(); err != nil {
		return err
	}
	if a.Time == nil {
		return nil
	}
	if a.Date == nil || a.Date.Month == nil || a.Date.Day == nil {
		return ErrIncompleteDate
	}
	return a.Time.Validate()
}

// Validate checks the year, month and day ranges. A day needs a month.
func (d *ApproximateDate) Validate() error {
	if d == nil {
		return nil
	}
	if d.Year < 1 || d.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrDateOutOfRange, d.Year)
	}
	if d.Month == nil {
		if d.Day != nil {
			return fmt.Errorf("%w: day without month", ErrDateOutOfRange)
		}
		return nil
	}
	if *d.Month < 1 || *d.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrDateOutOfRange, *d.Month)
	}
	if d.Day != nil && (*d.Day < 1 || *d.Day > daysIn(d.Year, *d.Month)) {
		return fmt.Errorf("%w: day %d of %04d-%02d", ErrDateOutOfRange, *d.Day, d.Year, *d.Month)
	}
	return nil
}

// Validate checks the clock ranges. A millisecond needs a second.
func (t *ApproximateTime) Validate() error {
	if t == nil {
		return nil
	}
	switch {
	case t.Hour < 0 || t.Hour > 23:
		return fmt.Errorf("%w: hour %d", ErrDateOutOfRange, t.Hour)
	case t.Minute < 0 || t.Minute > 59:
		return fmt.Errorf("%w: minute %d", ErrDateOutOfRange, t.Minute)
	case t.Second != nil && (*t.Second < 0 || *t.Second > 59):
		return fmt.Errorf("%w: second %d", ErrDateOutOfRange, *t.Second)
	case t.Millisecond != nil && t.Second == nil:
		return fmt.Errorf("%w: millisecond without second", ErrDateOutOfRange)
	case t.Millisecond != nil && (*t.Millisecond < 0 || *t.Millisecond > 999):
		return fmt.Errorf("%w: millisecond %d", ErrDateOutOfRange, *t.Millisecond)
	}
	return nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date is a fully specified calendar date.
type Date struct {
	Year  int `json:"y"`
	Month int `json:"m"`
	Day   int `json:"d"`
}

// Validate checks that the date exists on the calendar.
func (d Date) Validate() error {
	m, day := d.Month, d.Day
	return (&ApproximateDate{Year: d.Year, Month: &m, Day: &day}).Validate()
}

// DateTime is a full date with an optional time of day.
type DateTime struct {
	Date Date             `json:"date"`
	Time *ApproximateTime `json:"time,omitempty"`
}

// Validate checks the date and the time of day.
func (dt DateTime) Validate() error {
	if err := dt.Date.Validate(); err != nil {
		return err
	}
	return dt.Time.Validate()
}

// CodedValue is a single code drawn from a named vocabulary.
type CodedValue struct {
	Value          string `json:"value"`
	VocabularyName string `json:"type,omitempty"`
	Family         string `json:"family,omitempty"`
	Version        string `json:"version,omitempty"`
}

// CodableValue is display text plus zero or more coded entries. The first
// entry is treated as primary.
type CodableValue struct {
	Text  string       `json:"text"`
	Codes []CodedValue `json:"code,omitempty"`
}

// NewCodableValue returns a CodableValue with text and a single code.
func NewCodableValue(text string, code CodedValue) *CodableValue {
	return &CodableValue{Text: text, Codes: []CodedValue{code}}
}

// IsEmpty reports whether neither text nor codes are present.
func (c *CodableValue) IsEmpty() bool {
	return c == nil || (c.Text == "" && len(c.Codes) == 0)
}

// Primary returns the first coded entry, if any.
func (c *CodableValue) Primary() (CodedValue, bool) {
	if c == nil || len(c.Codes) == 0 {
		return CodedValue{}, false
	}
	return c.Codes[0], true
}

// String returns the display text or, failing that, the first code.
func (c *CodableValue) String() string {
	if c == nil {
		return ""
	}
	if c.Text != "" {
		return c.Text
	}
	if len(c.Codes) > 0 {
		return c.Codes[0].Value
	}
	return ""
}

// DisplayValue is the value and units the user originally entered.
type DisplayValue struct {
	Value     float64 `json:"value"`
	Units     string  `json:"units,omitempty"`
	UnitsCode string  `json:"units-code,omitempty"`
	Text      string  `json:"text,omitempty"`
}

// WeightValue is a mass stored in kilograms.
type WeightValue struct {
	Kilograms float64       `json:"kg"`
	Display   *DisplayValue `json:"display,omitempty"`
}

// Length is a distance stored in meters.
type Length struct {
	Meters  float64       `json:"m"`
	Display *DisplayValue `json:"display,omitempty"`
}

// StructuredMeasurement is a numeric value with coded units.
type StructuredMeasurement struct {
	Value float64      `json:"value"`
	Units CodableValue `json:"units"`
}

// GeneralMeasurement is a free-text measurement with optional structured
// equivalents.
type GeneralMeasurement struct {
	Display    string                  `json:"display"`
	Structured []StructuredMeasurement `json:"structured,omitempty"`
}

// String renders the measurement for narratives.
func (g *GeneralMeasurement) String() string {
	if g == nil {
		return ""
	}
	if g.Display != "" {
		return g.Display
	}
	parts := make([]string, 0, len(g.Structured))
	for _, s := range g.Structured {
		parts = append(parts, fmt.Sprintf("%g %s", s.Value, s.Units.String()))
	}
	return strings.Join(parts, ", ")
}
