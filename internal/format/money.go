package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var frenchPrinter = message.NewPrinter(language.French)

// Amount renders a monetary value with exactly two decimals and a point
// separator, as required inside the structured document: "1234.50".
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// DisplayAmount renders a monetary value for French readers, with grouped
// thousands and a comma decimal separator: "1 234,50".
func DisplayAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return frenchPrinter.Sprintf("%.2f", f)
}

// Rate renders a VAT percentage with one decimal: "20.0".
func Rate(d decimal.Decimal) string {
	return d.StringFixed(1)
}

// DisplayRate renders a VAT percentage for French readers: "20,0".
func DisplayRate(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(1), ".", ",", 1)
}

// CurrencySymbol returns the narrow symbol of an ISO 4217 code ("€" for
// EUR). Unknown codes are returned unchanged.
func CurrencySymbol(code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code
	}
	return frenchPrinter.Sprint(currency.NarrowSymbol(unit))
}
