package models

import (
	"bytes"
	"fmt"
	"iter"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TimestampLayout is how RTE formats every date, in both directions.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Timestamp is a time.Time that (un)marshals using TimestampLayout. The
// server's UTC offset is kept as parsed.
type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	ts.Time = t
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Format(TimestampLayout))
}

// Color is the Tempo colour of a day.
type Color int

const (
	Blue Color = iota + 1
	White
	Red
)

var colorNames = map[Color]string{
	Blue:  "blue",
	White: "white",
	Red:   "red",
}

var wireColors = map[string]Color{
	"BLUE":  Blue,
	"WHITE": White,
	"RED":   Red,
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

func ParseColor(s string) (Color, error) {
	if c, ok := wireColors[s]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown tempo color: %q", s)
}

// ColorFromName is the inverse of Color.String.
func ColorFromName(name string) (Color, error) {
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown tempo color name: %q", name)
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("color must be a string: %w", err)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalJSON emits the display name, which is what the HTTP API serves.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// CalendarValue is one Tempo day. RTE always reports it as a full
// midnight-to-midnight period, even though the tariff day runs 06:00 to 06:00.
type CalendarValue struct {
	StartDate   Timestamp `json:"start_date"`
	EndDate     Timestamp `json:"end_date"`
	UpdatedDate Timestamp `json:"updated_date"`
	Value       Color     `json:"value"`

	// Fallback is passed through untouched; RTE only documents it as
	// relating to a "degraded mode".
	Fallback *bool `json:"fallback,omitempty"`
}

func missingField(name string) error {
	return fmt.Errorf("missing required field %q", name)
}

func (cv *CalendarValue) UnmarshalJSON(data []byte) error {
	type plain CalendarValue
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch {
	case v.StartDate.IsZero():
		return missingField("start_date")
	case v.EndDate.IsZero():
		return missingField("end_date")
	case v.UpdatedDate.IsZero():
		return missingField("updated_date")
	case v.Value == 0:
		return missingField("value")
	}

	*cv = CalendarValue(v)
	return nil
}

// Calendar is a set of days. Values are sorted from most recent to oldest.
type Calendar struct {
	StartDate Timestamp       `json:"start_date"`
	EndDate   Timestamp       `json:"end_date"`
	Values    []CalendarValue `json:"values"`
}

func (c *Calendar) UnmarshalJSON(data []byte) error {
	type plain Calendar
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch {
	case v.StartDate.IsZero():
		return missingField("start_date")
	case v.EndDate.IsZero():
		return missingField("end_date")
	case v.Values == nil:
		return missingField("values")
	}

	*c = Calendar(v)
	return nil
}

// CalendarList accepts both encodings RTE uses for its calendars: a bare
// object when a single calendar is returned, an array otherwise.
type CalendarList []Calendar

func (cl *CalendarList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty calendars value")
	}

	switch trimmed[0] {
	case '[':
		var calendars []Calendar
		if err := json.Unmarshal(trimmed, &calendars); err != nil {
			return err
		}
		*cl = calendars
	case '{':
		var calendar Calendar
		if err := json.Unmarshal(trimmed, &calendar); err != nil {
			return err
		}
		*cl = CalendarList{calendar}
	case 'n':
		*cl = CalendarList{}
	default:
		return fmt.Errorf("expected calendars to be an object or an array, got: %.20s", trimmed)
	}
	return nil
}

// TempoCalendars is the top-level payload of the tempo_like_calendars endpoint.
type TempoCalendars struct {
	TempoLikeCalendars CalendarList `json:"tempo_like_calendars"`
}

// UnmarshalJSON requires the tempo_like_calendars key. An explicit null is
// an empty list.
func (tc *TempoCalendars) UnmarshalJSON(data []byte) error {
	var raw struct {
		TempoLikeCalendars jsoniter.RawMessage `json:"tempo_like_calendars"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.TempoLikeCalendars) == 0 {
		return missingField("tempo_like_calendars")
	}

	var calendars CalendarList
	if err := calendars.UnmarshalJSON(raw.TempoLikeCalendars); err != nil {
		return err
	}
	tc.TempoLikeCalendars = calendars
	return nil
}

// FirstDayValue is a shorthand for next-day queries: the first value of the
// first calendar, if any.
func (tc *TempoCalendars) FirstDayValue() (*CalendarValue, bool) {
	if len(tc.TempoLikeCalendars) == 0 {
		return nil, false
	}
	values := tc.TempoLikeCalendars[0].Values
	if len(values) == 0 {
		return nil, false
	}
	return &values[0], true
}

// DaysValues iterates over every day of every calendar, in the order the
// server sent them.
func (tc *TempoCalendars) DaysValues() iter.Seq[CalendarValue] {
	return func(yield func(CalendarValue) bool) {
		for _, calendar := range tc.TempoLikeCalendars {
			for _, value := range calendar.Values {
				if !yield(value) {
					return
				}
			}
		}
	}
}

// Days collects DaysValues into a slice.
func (tc *TempoCalendars) Days() []CalendarValue {
	days := make([]CalendarValue, 0)
	for day := range tc.DaysValues() {
		days = append(days, day)
	}
	return days
}
