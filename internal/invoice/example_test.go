package invoice_test

import (
	"fmt"
	"log"
	"time"

	"facturx/internal/invoice"
	"facturx/internal/invoice/invoicetest"
)

// Example computes the facts of a one-line invoice collecting 20% VAT.
func Example() {
	engine := invoice.NewEngine()

	ref := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	facts, err := engine.Compute(invoicetest.Sample(), ref)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Gross: %s\n", facts.Totals.Gross.StringFixed(2))
	fmt.Printf("VAT: %s\n", facts.Totals.VAT.StringFixed(2))
	fmt.Printf("Total: %s %s\n", facts.Totals.Total.StringFixed(2), facts.Currency)
	fmt.Printf("Due: %s\n", facts.PaymentDate.Format("02/01/2006"))
	// Output:
	// Gross: 200.00
	// VAT: 40.00
	// Total: 240.00 EUR
	// Due: 31/01/2025
}
