package folio

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 day format every date is written in.
const DateFormat = "2006-01-02"

// looseDateFormat also accepts single-digit month and day on read.
const looseDateFormat = "2006-1-2"

// Date is a calendar day. Run dates, open dates and close dates all have
// day granularity; the engine never deals in finer time.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns the Date for the given year, month and day, normalized
// the way time.Date normalizes (month 13 rolls into the next year).
func NewDate(year int, month time.Month, day int) Date {
	var d Date
	d.y, d.m, d.d = time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return d
}

// Today returns the current local calendar day.
func Today() Date { return NewDate(time.Now().Date()) }

// ParseDate reads an ISO-8601 day. Single-digit month and day are
// tolerated, so "2025-7-1" parses as 2025-07-01.
func ParseDate(str string) (Date, error) {
	t, err := time.Parse(looseDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", str, DateFormat, err)
	}
	return NewDate(t.Date()), nil
}

// MustParse is ParseDate for literals; it panics on a malformed date.
func MustParse(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// midnight is the canonical time.Time for the day, midnight UTC.
func (d Date) midnight() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) String() string { return d.midnight().Format(DateFormat) }

func (d Date) IsZero() bool { return d == Date{} }

// Add returns the day i days after d (or before, for negative i).
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// Before reports whether d falls before x.
func (d Date) Before(x Date) bool { return d.midnight().Before(x.midnight()) }

// After reports whether d falls after x.
func (d Date) After(x Date) bool { return d.midnight().After(x.midnight()) }

// DaysSince returns the whole days elapsed from x to d.
func (d Date) DaysSince(x Date) int {
	return int(d.midnight().Sub(x.midnight()) / (24 * time.Hour))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
