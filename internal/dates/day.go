package dates

import (
	"time"

	"facturx/internal/format"
	"facturx/pkg/models"
)

// Day is a civil date with no time of day or location.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the civil date of t in its own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Midnight returns the civil date of t at 00:00 UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a DD/MM/YYYY date. field names the input path reported on
// failure.
func Parse(value, field string) (time.Time, error) {
	const op = "ParseDate"
	t, err := time.Parse(format.DateLayout, value)
	if err != nil {
		return time.Time{}, models.NewFieldError(op, field, value, models.ErrDateParse)
	}
	return t, nil
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// IsBusinessDay reports whether t is a weekday outside holidays.
func IsBusinessDay(t time.Time, holidays HolidaySet) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(t)
}

// AddBusinessDays offsets start by n business days. A start date that is
// not itself a business day is first rolled back to the previous business
// day, so a zero offset from a holiday yields the day before it.
func AddBusinessDays(start time.Time, n int, holidays HolidaySet) time.Time {
	d := Midnight(start)
	for !IsBusinessDay(d, holidays) {
		d = d.AddDate(0, 0, -1)
	}

	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	for n > 0 {
		d = d.AddDate(0, 0, step)
		if IsBusinessDay(d, holidays) {
			n--
		}
	}
	return d
}
