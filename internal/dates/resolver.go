// Package dates resolves billing dates, billing periods and payment due
// dates against an explicit reference instant.
package dates

import (
	"time"

	"github.com/rs/zerolog"

	"facturx/internal/logger"
	"facturx/pkg/models"
)

// Period is an inclusive billing period.
type Period struct {
	Start time.Time
	End   time.Time
}

// Resolver computes invoice dates. It holds no mutable state and may be
// shared between goroutines.
type Resolver struct {
	holidays HolidayProvider
	log      zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHolidayProvider replaces the default rickar/cal backed provider.
func WithHolidayProvider(p HolidayProvider) Option {
	return func(r *Resolver) {
		r.holidays = p
	}
}

// WithLogger sets the resolver logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// NewResolver creates a Resolver serving French holidays by default.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		holidays: NewCalendarProvider(nil),
		log:      logger.WithComponent("dates"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BillingDate returns today, the last day of the current month, or the
// explicit billing date, in that order of precedence.
func (r *Resolver) BillingDate(d models.BillingDetails, ref time.Time) (time.Time, error) {
	const op = "BillingDate"

	switch {
	case d.BillingDateIsToday:
		return Midnight(ref), nil
	case d.BillingDateIsEndOfCurrentMonth:
		return EndOfMonth(ref), nil
	case d.BillingDate != nil:
		return Parse(*d.BillingDate, "billing_details.billing_date")
	default:
		return time.Time{}, models.NewFieldError(op, "billing_details.billing_date", nil, models.ErrMissingPrerequisite)
	}
}

// BillingPeriod returns the whole current month or the explicit bounds.
func (r *Resolver) BillingPeriod(d models.BillingDetails, ref time.Time) (Period, error) {
	const op = "BillingPeriod"

	if d.BillWholeCurrentMonth {
		return Period{Start: StartOfMonth(ref), End: EndOfMonth(ref)}, nil
	}
	if d.BillingPeriodStart == nil {
		return Period{}, models.NewFieldError(op, "billing_details.billing_period_start", nil, models.ErrMissingPrerequisite)
	}
	if d.BillingPeriodEnd == nil {
		return Period{}, models.NewFieldError(op, "billing_details.billing_period_end", nil, models.ErrMissingPrerequisite)
	}

	start, err := Parse(*d.BillingPeriodStart, "billing_details.billing_period_start")
	if err != nil {
		return Period{}, err
	}
	end, err := Parse(*d.BillingPeriodEnd, "billing_details.billing_period_end")
	if err != nil {
		return Period{}, err
	}
	return Period{Start: start, End: end}, nil
}

// PaymentDate returns the explicit payment date when given, otherwise the
// billing date offset by the configured number of business or calendar
// days. Holidays of country are taken for ref's year and the next one.
func (r *Resolver) PaymentDate(d models.PaymentPeriodDetails, billing time.Time, country string, ref time.Time) (time.Time, error) {
	if d.PaymentDate != nil {
		return Parse(*d.PaymentDate, "billing_details.payment_period_details.payment_date")
	}

	if !d.BusinessDaysOnly {
		due := Midnight(billing).AddDate(0, 0, d.NumberOfDays)
		r.log.Debug().
			Int("days", d.NumberOfDays).
			Time("due", due).
			Msg("Resolved calendar-day payment date")
		return due, nil
	}

	holidays, err := r.holidays.Holidays(country, ref.Year(), ref.Year()+1)
	if err != nil {
		return time.Time{}, err
	}
	due := AddBusinessDays(billing, d.NumberOfDays, holidays)

	r.log.Debug().
		Str("country", country).
		Int("business_days", d.NumberOfDays).
		Int("holidays", len(holidays)).
		Time("due", due).
		Msg("Resolved business-day payment date")
	return due, nil
}
