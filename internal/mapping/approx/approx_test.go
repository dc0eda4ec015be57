package approx

import (
	"errors"
	"testing"

	"github.com/ehr/hvfhir/internal/thing"
)

func ptr(v int) *int { return &v }

func TestToStamp_Precision(t *testing.T) {
	tests := []struct {
		name string
		in   *thing.ApproximateDateTime
		want Precision
		str  string
	}{
		{"year", &thing.ApproximateDateTime{Date: &thing.ApproximateDate{Year: 2017}}, PrecisionYear, "2017"},
		{"month", &thing.ApproximateDateTime{Date: &thing.ApproximateDate{Year: 2017, Month: ptr(5)}}, PrecisionMonth, "2017-05"},
		{"day", &thing.ApproximateDateTime{Date: &thing.ApproximateDate{Year: 2017, Month: ptr(5), Day: ptr(3)}}, PrecisionDay, "2017-05-03"},
		{"minute", &thing.ApproximateDateTime{
			Date: &thing.ApproximateDate{Year: 2017, Month: ptr(5), Day: ptr(3)},
			Time: &thing.ApproximateTime{Hour: 10, Minute: 20},
		}, PrecisionMinute, "2017-05-03T10:20:00Z"},
		{"second", &thing.ApproximateDateTime{
			Date: &thing.ApproximateDate{Year: 2017, Month: ptr(5), Day: ptr(3)},
			Time: &thing.ApproximateTime{Hour: 10, Minute: 20, Second: ptr(30)},
		}, PrecisionSecond, "2017-05-03T10:20:30Z"},
		{"millisecond", &thing.ApproximateDateTime{
			Date: &thing.ApproximateDate{Year: 2017, Month: ptr(5), Day: ptr(3)},
			Time: &thing.ApproximateTime{Hour: 10, Minute: 20, Second: ptr(30), Millisecond: ptr(123)},
		}, PrecisionMillisecond, "2017-05-03T10:20:30.123Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := ToStamp(tt.in)
			if !ok {
				t.Fatal("expected structured stamp")
			}
			if s.Precision != tt.want {
				t.Errorf("expected precision %s, got %s", tt.want, s.Precision)
			}
			if s.String() != tt.str {
				t.Errorf("expected %q, got %q", tt.str, s.String())
			}
		})
	}
}

func TestRoundTrip_YearOnly(t *testing.T) {
	in := &thing.ApproximateDateTime{Date: &thing.ApproximateDate{Year: 1999}}
	s, _ := ToStamp(in)
	out := FromStamp(s)
	if out.Date.Year != 1999 {
		t.Errorf("expected year 1999, got %d", out.Date.Year)
	}
	if out.Date.Month != nil || out.Date.Day != nil {
		t.Errorf("expected nil month/day, got %v/%v", out.Date.Month, out.Date.Day)
	}
	if out.Time != nil {
		t.Errorf("expected nil time, got %+v", out.Time)
	}
}

func TestRoundTrip_MonthOnly_ThroughString(t *testing.T) {
	in := &thing.ApproximateDateTime{Date: &thing.ApproximateDate{Year: 2020, Month: ptr(2)}}
	s, _ := ToStamp(in)
	parsed, err := Parse(s.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := FromStamp(parsed)
	if out.Date.Month == nil || *out.Date.Month != 2 {
		t.Fatalf("expected month 2, got %v", out.Date.Month)
	}
	if out.Date.Day != nil {
		t.Errorf("expected nil day, got %d", *out.Date.Day)
	}
}

func TestRoundTrip_Millisecond(t *testing.T) {
	in := &thing.ApproximateDateTime{
		Date: &thing.ApproximateDate{Year: 2017, Month: ptr(12), Day: ptr(31)},
		Time: &thing.ApproximateTime{Hour: 23, Minute: 59, Second: ptr(58), Millisecond: ptr(7)},
	}
	s, _ := ToStamp(in)
	parsed, err := Parse(s.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := FromStamp(parsed)
	if out.Date.Year != 2017 || *out.Date.Month != 12 || *out.Date.Day != 31 {
		t.Errorf("unexpected date %+v", out.Date)
	}
	tm := out.Time
	if tm == nil || tm.Hour != 23 || tm.Minute != 59 || *tm.Second != 58 || *tm.Millisecond != 7 {
		t.Errorf("unexpected time %+v", tm)
	}
}

func TestToStamp_MillisecondNeedsSecond(t *testing.T) {
	in := &thing.ApproximateDateTime{
		Date: &thing.ApproximateDate{Year: 2017, Month: ptr(5), Day: ptr(3)},
		Time: &thing.ApproximateTime{Hour: 10, Minute: 20, Millisecond: ptr(123)},
	}
	s, ok := ToStamp(in)
	if !ok {
		t.Fatal("expected structured stamp")
	}
	if s.Precision != PrecisionMinute {
		t.Errorf("expected minute precision, got %s", s.Precision)
	}
	if got := s.String(); got != "2017-05-03T10:20:00Z" {
		t.Errorf("unexpected string %q", got)
	}
	if !errors.Is(in.Validate(), thing.ErrDateOutOfRange) {
		t.Error("expected Validate to reject a millisecond without a second")
	}
}

func TestRoundTrip_MinuteBecomesSecond(t *testing.T) {
	in := &thing.ApproximateDateTime{
		Date: &thing.ApproximateDate{Year: 2017, Month: ptr(5), Day: ptr(3)},
		Time: &thing.ApproximateTime{Hour: 8, Minute: 15},
	}
	s, _ := ToStamp(in)
	parsed, err := Parse(s.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Precision != PrecisionSecond {
		t.Fatalf("expected second precision, got %s", parsed.Precision)
	}
	out := FromStamp(parsed)
	if out.Time.Second == nil || *out.Time.Second != 0 {
		t.Errorf("expected second 0, got %v", out.Time.Second)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Precision
	}{
		{"2017", PrecisionYear},
		{"2017-05", PrecisionMonth},
		{"2017-05-03", PrecisionDay},
		{"2017-05-03T10:20", PrecisionMinute},
		{"2017-05-03T10:20:30Z", PrecisionSecond},
		{"2017-05-03T10:20:30+05:00", PrecisionSecond},
		{"2017-05-03T10:20:30.5-07:00", PrecisionMillisecond},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Precision != tt.want {
				t.Errorf("expected %s, got %s", tt.want, s.Precision)
			}
		})
	}
}

func TestParse_KeepsWallClock(t *testing.T) {
	s, err := Parse("2017-05-03T10:20:30+05:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Time.Hour() != 10 {
		t.Errorf("expected hour 10, got %d", s.Time.Hour())
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "17", "2017-13", "2017-05T10:00:00Z", "2017-05-03T1", "yesterday"} {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Parse(%q): expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestChoice_DescriptionOnly(t *testing.T) {
	in := &thing.ApproximateDateTime{Description: "when I was a kid"}
	dt, text := ToChoice(in)
	if dt != "" {
		t.Errorf("expected no dateTime, got %q", dt)
	}
	if text != "when I was a kid" {
		t.Errorf("expected description, got %q", text)
	}
	out, err := FromChoice(dt, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Date != nil || out.Description != "when I was a kid" {
		t.Errorf("expected description-only value, got %+v", out)
	}
}

func TestFromChoice_TextNotParsed(t *testing.T) {
	out, err := FromChoice("", "2017-05-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Date != nil {
		t.Error("text must not be parsed as a date")
	}
}

func TestFromChoice_StructuredWins(t *testing.T) {
	out, err := FromChoice("2017", "sometime")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Date == nil || out.Date.Year != 2017 || out.Description != "" {
		t.Errorf("expected structured value, got %+v", out)
	}
}

func TestFromChoice_Empty(t *testing.T) {
	out, err := FromChoice("", "")
	if err != nil || out != nil {
		t.Errorf("expected nil, nil; got %+v, %v", out, err)
	}
}

func TestDateTimeFromFhir_RequiresDay(t *testing.T) {
	if _, err := DateTimeFromFhir("2017-05"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	dt, err := DateTimeFromFhir("2017-05-03T10:20:30Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dt.Date != (thing.Date{Year: 2017, Month: 5, Day: 3}) || dt.Time.Hour != 10 {
		t.Errorf("unexpected value %+v", dt)
	}
	if DateTimeToFhir(*dt) != "2017-05-03T10:20:30Z" {
		t.Errorf("unexpected rendering %q", DateTimeToFhir(*dt))
	}
}

func TestDateToFhir(t *testing.T) {
	if got := DateToFhir(thing.Date{Year: 1980, Month: 1, Day: 9}); got != "1980-01-09" {
		t.Errorf("expected 1980-01-09, got %q", got)
	}
	d, err := DateFromFhir("1980-01-09")
	if err != nil || *d != (thing.Date{Year: 1980, Month: 1, Day: 9}) {
		t.Errorf("unexpected %+v, %v", d, err)
	}
}

func TestPartialDate(t *testing.T) {
	d := &thing.ApproximateDate{Year: 2021, Month: ptr(6)}
	s := PartialDateToFhir(d)
	if s != "2021-06" {
		t.Fatalf("expected 2021-06, got %q", s)
	}
	back, err := PartialDateFromFhir(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Year != 2021 || *back.Month != 6 || back.Day != nil {
		t.Errorf("unexpected %+v", back)
	}
}
