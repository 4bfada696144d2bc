package invoice

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"facturx/internal/calc"
	"facturx/internal/dates"
	"facturx/internal/format"
	"facturx/internal/logger"
	"facturx/pkg/models"
)

// Engine turns validated invoice input into Facts. It is stateless and safe
// for concurrent use.
type Engine struct {
	resolver        *dates.Resolver
	defaultCountry  string
	defaultCurrency string
	log             zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver sets the date resolver.
func WithResolver(r *dates.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithDefaults sets the country and currency applied when the input
// leaves them empty.
func WithDefaults(country, currency string) Option {
	return func(e *Engine) {
		if country != "" {
			e.defaultCountry = strings.ToUpper(country)
		}
		if currency != "" {
			e.defaultCurrency = strings.ToUpper(currency)
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		defaultCountry:  models.DefaultCountryCode,
		defaultCurrency: models.DefaultCurrencyCode,
		log:             logger.WithComponent("invoice"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = dates.NewResolver(dates.WithLogger(e.log))
	}
	return e
}

// Compute resolves dates, computes amounts and derives identifiers. ref is
// the reference instant standing in for "today". Any failure aborts the
// whole computation.
func (e *Engine) Compute(input *models.InvoiceData, ref time.Time) (*Facts, error) {
	const op = "Compute"

	if input == nil {
		return nil, NewComputationError(op, models.NewFieldError(op, "invoice", nil, models.ErrMissingPrerequisite), "")
	}
	number := input.InvoiceNumber

	facts := &Facts{
		Input:         input,
		Reference:     ref,
		Country:       input.InvoicerInfo.Country(e.defaultCountry),
		ClientCountry: input.ClientInfo.Country(e.defaultCountry),
		Currency:      input.PaymentInfo.Currency(e.defaultCurrency),
	}

	var err error
	if facts.BillingDate, err = e.resolver.BillingDate(input.BillingDetails, ref); err != nil {
		return nil, NewComputationError(op, err, number)
	}
	if facts.BillingPeriod, err = e.resolver.BillingPeriod(input.BillingDetails, ref); err != nil {
		return nil, NewComputationError(op, err, number)
	}
	facts.PaymentDate, err = e.resolver.PaymentDate(input.BillingDetails.PaymentPeriodDetails, facts.BillingDate, facts.Country, ref)
	if err != nil {
		return nil, NewComputationError(op, err, number)
	}

	if facts.Lines, err = calc.ComputeLines(input.InvoicedItems, input.CollectVAT); err != nil {
		return nil, NewComputationError(op, err, number)
	}
	facts.Totals = calc.Sum(facts.Lines)

	if facts.InvoicerVATNumber, err = format.VATNumber(input.InvoicerInfo.SIREN); err != nil {
		return nil, NewComputationError(op, models.AtField(err, "invoicer_info.siren"), number)
	}
	if facts.ClientIsPro() && input.CollectVAT {
		if input.ClientInfo.SIREN == nil {
			return nil, NewComputationError(op, models.NewFieldError(op, "client_info.siren", nil, models.ErrMissingPrerequisite), number)
		}
		if facts.ClientVATNumber, err = format.VATNumber(*input.ClientInfo.SIREN); err != nil {
			return nil, NewComputationError(op, models.AtField(err, "client_info.siren"), number)
		}
	}

	e.log.Debug().
		Str("invoice_number", number).
		Int("lines", len(facts.Lines)).
		Str("total", facts.Totals.Total.StringFixed(2)).
		Str("payment_date", format.Date(facts.PaymentDate)).
		Msg("Computed invoice facts")

	return facts, nil
}

