package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/readlit/internal/constants"
)

const secondsPerDay = 24 * 60 * 60

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DateOf returns the calendar day t falls on in loc, formatted as YYYY-MM-DD.
func DateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// Today returns the calendar day the user is currently in. The result depends
// only on the wall clock in loc, never on the UTC day.
func Today(loc *time.Location) string {
	return DateOf(time.Now(), loc)
}

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
// The returned time is midnight UTC of that civil date.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// ValidateDate checks if the string is a valid YYYY-MM-DD date.
func ValidateDate(dateStr string) bool {
	_, err := ParseDate(dateStr)
	return err == nil
}

// dayNumber maps a civil date onto a continuous day count. UTC has no DST,
// so consecutive dates always differ by exactly one.
func dayNumber(dateStr string) (int64, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return 0, err
	}
	return t.Unix() / secondsPerDay, nil
}

// DaysBetween returns the signed number of whole days from a to b (b - a).
func DaysBetween(a, b string) (int, error) {
	da, err := dayNumber(a)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", a, err)
	}
	db, err := dayNumber(b)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", b, err)
	}
	return int(db - da), nil
}

// DaysRemaining returns the days left from today until finish, never less than 1.
// A missing or invalid finish date also yields 1.
func DaysRemaining(today, finish string) int {
	days, err := DaysBetween(today, finish)
	if err != nil {
		return 1
	}
	return max(1, days)
}

// IsLeapYear reports whether year is a leap year in the proleptic Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DayOfYear returns the 1-based ordinal of today within year. It returns 0 when
// year lies in the future and DaysInYear(year) when year lies in the past.
func DayOfYear(year int, today string) int {
	t, err := ParseDate(today)
	if err != nil {
		return 0
	}
	switch {
	case t.Year() < year:
		return 0
	case t.Year() > year:
		return DaysInYear(year)
	default:
		return t.YearDay()
	}
}

// AddDays steps a date by n calendar days.
func AddDays(dateStr string, n int) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// InYear reports whether dateStr is a valid date within year.
func InYear(dateStr string, year int) bool {
	t, err := ParseDate(dateStr)
	if err != nil {
		return false
	}
	return t.Year() == year
}

// InRange reports whether dateStr lies within [from, to]. Empty bounds are open.
// Dates compare lexically because the format is fixed-width.
func InRange(dateStr, from, to string) bool {
	if from != "" && dateStr < from {
		return false
	}
	if to != "" && dateStr > to {
		return false
	}
	return true
}
