// Package approx reconciles partial-precision item dates with FHIR
// date/dateTime strings. Precision is derived from which fields are set on
// the item side and from the string shape on the FHIR side.
package approx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ehr/hvfhir/internal/thing"
)

// ErrInvalidDate is returned when a FHIR date string cannot be parsed or does
// not carry the precision the target field needs.
var ErrInvalidDate = errors.New("invalid date")

// Precision is the finest component recorded on a date/time.
type Precision int

const (
	PrecisionYear Precision = iota + 1
	PrecisionMonth
	PrecisionDay
	PrecisionMinute
	PrecisionSecond
	PrecisionMillisecond
)

func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	case PrecisionMinute:
		return "minute"
	case PrecisionSecond:
		return "second"
	case PrecisionMillisecond:
		return "millisecond"
	default:
		return "unknown"
	}
}

// Stamp is a fully specified instant plus the precision actually recorded.
// Components below Precision are defaulted (month/day 1, clock 0) and carry no
// meaning.
type Stamp struct {
	Time      time.Time
	Precision Precision
}

// String renders the stamp as a FHIR dateTime at its precision. Minute
// precision is written with ":00" seconds since FHIR requires them.
func (s Stamp) String() string {
	switch s.Precision {
	case PrecisionYear:
		return s.Time.Format("2006")
	case PrecisionMonth:
		return s.Time.Format("2006-01")
	case PrecisionDay:
		return s.Time.Format("2006-01-02")
	case PrecisionMinute, PrecisionSecond:
		return s.Time.Format("2006-01-02T15:04:05Z")
	case PrecisionMillisecond:
		return s.Time.Format("2006-01-02T15:04:05.000Z")
	default:
		return ""
	}
}

// ToStamp converts an approximate date/time. It returns false when no
// structured date was recorded. Components are not range checked; callers
// validate with thing.ApproximateDateTime.Validate first.
func ToStamp(a *thing.ApproximateDateTime) (Stamp, bool) {
	if !a.IsStructured() {
		return Stamp{}, false
	}
	d := a.Date
	month, day := 1, 1
	p := PrecisionYear
	if d.Month != nil {
		month = *d.Month
		p = PrecisionMonth
		if d.Day != nil {
			day = *d.Day
			p = PrecisionDay
		}
	}

	var hour, minute, sec, ms int
	if a.Time != nil && p == PrecisionDay {
		hour, minute = a.Time.Hour, a.Time.Minute
		p = PrecisionMinute
		if a.Time.Second != nil {
			sec = *a.Time.Second
			p = PrecisionSecond
			if a.Time.Millisecond != nil {
				ms = *a.Time.Millisecond
				p = PrecisionMillisecond
			}
		}
	}

	t := time.Date(d.Year, time.Month(month), day, hour, minute, sec, ms*int(time.Millisecond), time.UTC)
	return Stamp{Time: t, Precision: p}, true
}

// FromStamp converts a stamp back, leaving fields below its precision nil.
func FromStamp(s Stamp) *thing.ApproximateDateTime {
	t := s.Time
	d := &thing.ApproximateDate{Year: t.Year()}
	out := &thing.ApproximateDateTime{Date: d}
	if s.Precision >= PrecisionMonth {
		d.Month = intPtr(int(t.Month()))
	}
	if s.Precision >= PrecisionDay {
		d.Day = intPtr(t.Day())
	}
	if s.Precision >= PrecisionMinute {
		out.Time = &thing.ApproximateTime{Hour: t.Hour(), Minute: t.Minute()}
	}
	if s.Precision >= PrecisionSecond {
		out.Time.Second = intPtr(t.Second())
	}
	if s.Precision >= PrecisionMillisecond {
		out.Time.Millisecond = intPtr(t.Nanosecond() / int(time.Millisecond))
	}
	return out
}

// Parse reads a FHIR date, dateTime or instant. The wall clock is kept as
// written and any zone offset is dropped. A dateTime with whole seconds parses
// at second precision, so a minute-precision value written by String comes
// back with Second set to 0.
func Parse(s string) (Stamp, error) {
	s = strings.TrimSpace(s)
	datePart, clockPart, hasClock := strings.Cut(s, "T")

	var layout string
	var p Precision
	switch len(datePart) {
	case 4:
		layout, p = "2006", PrecisionYear
	case 7:
		layout, p = "2006-01", PrecisionMonth
	case 10:
		layout, p = "2006-01-02", PrecisionDay
	default:
		return Stamp{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	d, err := time.Parse(layout, datePart)
	if err != nil {
		return Stamp{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	if !hasClock {
		return Stamp{Time: d, Precision: p}, nil
	}
	if p != PrecisionDay {
		return Stamp{}, fmt.Errorf("%w: time on partial date %q", ErrInvalidDate, s)
	}

	clock := stripZone(clockPart)
	switch {
	case len(clock) == 5:
		layout, p = "15:04", PrecisionMinute
	case len(clock) == 8:
		layout, p = "15:04:05", PrecisionSecond
	case len(clock) > 9 && clock[8] == '.':
		layout, p = "15:04:05", PrecisionMillisecond
	default:
		return Stamp{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	c, err := time.Parse(layout, clock)
	if err != nil {
		return Stamp{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	ms := c.Nanosecond() / int(time.Millisecond)
	t := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), ms*int(time.Millisecond), time.UTC)
	return Stamp{Time: t, Precision: p}, nil
}

func stripZone(clock string) string {
	if strings.HasSuffix(clock, "Z") {
		return strings.TrimSuffix(clock, "Z")
	}
	if i := strings.IndexAny(clock, "+-"); i >= 0 {
		return clock[:i]
	}
	return clock
}

// ToChoice maps an approximate date/time onto a FHIR [x] choice: a structured
// value fills dateTime, a description-only value fills text.
func ToChoice(a *thing.ApproximateDateTime) (dateTime, text string) {
	if a == nil {
		return "", ""
	}
	if s, ok := ToStamp(a); ok {
		return s.String(), ""
	}
	return "", a.Description
}

// FromChoice is the inverse of ToChoice. The dateTime wins when both are set;
// text is never parsed.
func FromChoice(dateTime, text string) (*thing.ApproximateDateTime, error) {
	if dateTime != "" {
		s, err := Parse(dateTime)
		if err != nil {
			return nil, err
		}
		return FromStamp(s), nil
	}
	if text != "" {
		return &thing.ApproximateDateTime{Description: text}, nil
	}
	return nil, nil
}

// DateToFhir renders a full date.
func DateToFhir(d thing.Date) string {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// DateFromFhir parses a FHIR date that must be precise to the day.
func DateFromFhir(s string) (*thing.Date, error) {
	st, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if st.Precision < PrecisionDay {
		return nil, fmt.Errorf("%w: %q is not a full date", ErrInvalidDate, s)
	}
	return &thing.Date{Year: st.Time.Year(), Month: int(st.Time.Month()), Day: st.Time.Day()}, nil
}

// DateTimeToFhir renders a full date with an optional time of day.
func DateTimeToFhir(dt thing.DateTime) string {
	d := dt.Date
	s, _ := ToStamp(&thing.ApproximateDateTime{
		Date: &thing.ApproximateDate{Year: d.Year, Month: &d.Month, Day: &d.Day},
		Time: dt.Time,
	})
	return s.String()
}

// DateTimeFromFhir parses a FHIR dateTime that must be precise to the day.
func DateTimeFromFhir(s string) (*thing.DateTime, error) {
	st, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if st.Precision < PrecisionDay {
		return nil, fmt.Errorf("%w: %q is not a full date", ErrInvalidDate, s)
	}
	a := FromStamp(st)
	return &thing.DateTime{
		Date: thing.Date{Year: a.Date.Year, Month: *a.Date.Month, Day: *a.Date.Day},
		Time: a.Time,
	}, nil
}

// PartialDateToFhir renders an approximate date without a time of day.
func PartialDateToFhir(d *thing.ApproximateDate) string {
	if d == nil {
		return ""
	}
	s, _ := ToStamp(&thing.ApproximateDateTime{Date: d})
	return s.String()
}

// PartialDateFromFhir parses a FHIR date of any precision.
func PartialDateFromFhir(s string) (*thing.ApproximateDate, error) {
	st, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if st.Precision > PrecisionDay {
		st.Precision = PrecisionDay
	}
	return FromStamp(st).Date, nil
}

func intPtr(v int) *int { return &v }
