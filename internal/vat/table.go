// Package vat maps VAT percentages to the UNCL5305 tax categories used in
// structured e-invoices.
package vat

import (
	"github.com/shopspring/decimal"

	"facturx/pkg/models"
)

// Category codes (UNCL5305).
const (
	CodeStandard = "S"
	CodeExempt   = "E"
)

// FranchiseReasonCode is the VATEX code for the French VAT franchise
// (article 293 B of the CGI).
const (
	FranchiseReasonCode = "VATEX-FR-FRANCHISE"
	FranchiseReason     = "TVA non applicable, art. 293 B du CGI"
)

// Category describes how a VAT rate is reported.
type Category struct {
	Code                string
	Rate                decimal.Decimal
	ExemptionReasonCode string
	ExemptionReason     string
}

// Exempt reports whether the category carries an exemption reason.
func (c Category) Exempt() bool {
	return c.Code == CodeExempt
}

// Table is an immutable rate lookup keyed by the rate rounded to one
// decimal ("20.0"). The zero value is empty; use France or With.
type Table struct {
	entries map[string]Category
}

// France returns the French rate table.
func France() Table {
	return Table{}.
		With(decimal.Zero, Category{
			Code:                CodeExempt,
			ExemptionReasonCode: FranchiseReasonCode,
			ExemptionReason:     FranchiseReason,
		}).
		With(decimal.RequireFromString("2.1"), Category{Code: CodeStandard}).
		With(decimal.RequireFromString("5.5"), Category{Code: CodeStandard}).
		With(decimal.NewFromInt(10), Category{Code: CodeStandard}).
		With(decimal.NewFromInt(20), Category{Code: CodeStandard})
}

// With returns a copy of the table with rate mapped to c. The receiver is
// left untouched.
func (t Table) With(rate decimal.Decimal, c Category) Table {
	entries := make(map[string]Category, len(t.entries)+1)
	for k, v := range t.entries {
		entries[k] = v
	}
	c.Rate = rate.Round(1)
	entries[Key(rate)] = c
	return Table{entries: entries}
}

// Classify returns the category of a collected VAT rate. Unknown rates are
// never mapped to a default, and rates finer than one decimal never match.
func (t Table) Classify(rate decimal.Decimal) (Category, error) {
	const op = "ClassifyRate"
	if !rate.Equal(rate.Round(1)) {
		return Category{}, models.NewFieldError(op, "vat_rate", rate.String(), models.ErrUnclassifiableRate)
	}
	c, ok := t.entries[Key(rate)]
	if !ok {
		return Category{}, models.NewFieldError(op, "vat_rate", Key(rate), models.ErrUnclassifiableRate)
	}
	return c, nil
}

// Len returns the number of known rates.
func (t Table) Len() int {
	return len(t.entries)
}

// NotCollected is the category applied to every line of an invoice that
// does not collect VAT.
func NotCollected() Category {
	return Category{Code: CodeExempt, Rate: decimal.Zero}
}

// Key normalizes a rate to its table key.
func Key(rate decimal.Decimal) string {
	return rate.StringFixed(1)
}
