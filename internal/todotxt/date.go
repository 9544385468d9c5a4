package todotxt

import (
	"fmt"
	"time"
)

// DateLayout is the only date layout recognized in todo.txt lines.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for year, month and day. The values are not
// normalized; use RecognizeDate to validate untrusted input.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD date, rejecting anything
// RecognizeDate would not accept.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, ok := RecognizeDate(string(text))
	if !ok {
		return fmt.Errorf("invalid date %q: want %s", text, DateLayout)
	}
	*d = parsed
	return nil
}

// RecognizeDate reports whether token is exactly a YYYY-MM-DD calendar date.
//
// The whole token must match: "2020-05-20extra" is not a date. Impossible
// dates such as "2020-13-40" or "2021-02-29" are rejected, as is year 0000.
func RecognizeDate(token string) (Date, bool) {
	if len(token) != len(DateLayout) {
		return Date{}, false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return Date{}, false
			}
			continue
		}
		if c < '0' || c > '9' {
			return Date{}, false
		}
	}

	year := digits(token[0:4])
	month := time.Month(digits(token[5:7]))
	day := digits(token[8:10])
	if year < 1 || month < time.January || month > time.December || day < 1 {
		return Date{}, false
	}
	// time.Date normalizes overflow, so a round trip exposes impossible days.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// digits converts a string already known to hold only ASCII digits.
func digits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
