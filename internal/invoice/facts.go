// Package invoice computes the facts shared by the template view model and
// the structured e-invoice: resolved dates, line amounts, totals and
// derived identifiers.
package invoice

import (
	"time"

	"facturx/internal/calc"
	"facturx/internal/dates"
	"facturx/pkg/models"
)

// Facts is the single computation result both output assemblers consume.
// It is built once per invoice and never mutated afterwards.
type Facts struct {
	Input     *models.InvoiceData
	Reference time.Time

	BillingDate   time.Time
	BillingPeriod dates.Period
	PaymentDate   time.Time

	Lines  []calc.Line
	Totals calc.Totals

	// InvoicerVATNumber is the spaced form "FR 44 732829320".
	InvoicerVATNumber string
	// ClientVATNumber is set only for professional clients when VAT is
	// collected.
	ClientVATNumber string

	// Country is the invoicer's country, ClientCountry the client's. Both
	// fall back to the engine default.
	Country       string
	ClientCountry string
	Currency      string
}

// CollectVAT reports whether the invoice collects VAT.
func (f *Facts) CollectVAT() bool {
	return f.Input.CollectVAT
}

// ClientIsPro reports whether the client is a professional.
func (f *Facts) ClientIsPro() bool {
	return f.Input.ClientInfo.IsPro
}

// ClientSIREN returns the client SIREN when the client is a professional
// that supplied one.
func (f *Facts) ClientSIREN() (string, bool) {
	if !f.ClientIsPro() || f.Input.ClientInfo.SIREN == nil {
		return "", false
	}
	return *f.Input.ClientInfo.SIREN, true
}
