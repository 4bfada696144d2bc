package dates

import (
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/fr"

	"facturx/pkg/models"
)

// HolidaySet is a precomputed set of public holidays.
type HolidaySet map[Day]struct{}

// Contains reports whether t falls on a holiday.
func (s HolidaySet) Contains(t time.Time) bool {
	_, ok := s[DayOf(t)]
	return ok
}

// HolidayProvider returns the public holidays of a country for the given
// years.
type HolidayProvider interface {
	Holidays(country string, years ...int) (HolidaySet, error)
}

// CalendarProvider serves holidays from rickar/cal country tables.
type CalendarProvider struct {
	countries map[string][]*cal.Holiday
}

// NewCalendarProvider builds a provider over the given country tables,
// keyed by ISO 3166-1 alpha-2 code. With no argument it serves France.
func NewCalendarProvider(countries map[string][]*cal.Holiday) *CalendarProvider {
	if countries == nil {
		countries = map[string][]*cal.Holiday{"FR": fr.Holidays}
	}
	table := make(map[string][]*cal.Holiday, len(countries))
	for code, hs := range countries {
		table[strings.ToUpper(code)] = hs
	}
	return &CalendarProvider{countries: table}
}

// Holidays implements HolidayProvider.
func (p *CalendarProvider) Holidays(country string, years ...int) (HolidaySet, error) {
	const op = "Holidays"
	hs, ok := p.countries[strings.ToUpper(country)]
	if !ok {
		return nil, models.NewFieldError(op, "invoicer_info.country_code", country, models.ErrMissingPrerequisite)
	}

	set := make(HolidaySet)
	for _, year := range years {
		for _, h := range hs {
			actual, _ := h.Calc(year)
			if actual.IsZero() {
				continue
			}
			set[DayOf(actual)] = struct{}{}
		}
	}
	return set, nil
}

// StaticHolidays is a fixed holiday list, used for tests and for callers
// that supply their own calendar. It ignores the country.
type StaticHolidays []time.Time

// Holidays implements HolidayProvider.
func (s StaticHolidays) Holidays(_ string, years ...int) (HolidaySet, error) {
	set := make(HolidaySet, len(s))
	for _, t := range s {
		for _, y := range years {
			if t.Year() == y {
				set[DayOf(t)] = struct{}{}
			}
		}
	}
	return set, nil
}
