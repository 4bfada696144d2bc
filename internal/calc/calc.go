// Package calc computes line and invoice amounts with line-level rounding.
package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"facturx/pkg/models"
)

// Line holds the computed amounts of one invoiced item. VATRate and
// VATAmount are only meaningful when HasVAT is set.
type Line struct {
	Index     int
	Name      string
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	Gross     decimal.Decimal
	HasVAT    bool
	VATRate   decimal.Decimal
	VATAmount decimal.Decimal
	Total     decimal.Decimal
}

// Totals are sums of already-rounded line figures.
type Totals struct {
	Gross decimal.Decimal
	VAT   decimal.Decimal
	Total decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeLine computes gross, VAT and total for a single item.
func ComputeLine(index int, item models.InvoicedItem, collectVAT bool) (Line, error) {
	const op = "ComputeLine"

	price := decimal.NewFromFloat(item.Price)
	qty := decimal.NewFromFloat(item.Quantity)
	base := price.Mul(qty)

	line := Line{
		Index:    index,
		Name:     item.Name,
		Price:    price,
		Quantity: qty,
		Gross:    Round2(base),
	}
	line.Total = line.Gross

	if !collectVAT {
		return line, nil
	}
	if item.VATRate == nil {
		return Line{}, models.NewFieldError(op, fmt.Sprintf("invoiced_items[%d].vat_rate", index), nil, models.ErrMissingPrerequisite)
	}

	rate := decimal.NewFromFloat(*item.VATRate)
	line.HasVAT = true
	line.VATRate = rate
	line.VATAmount = Round2(rate.Mul(base).Div(hundred))
	line.Total = line.Gross.Add(line.VATAmount)
	return line, nil
}

// ComputeLines computes every item in order. The first failure aborts.
func ComputeLines(items []models.InvoicedItem, collectVAT bool) ([]Line, error) {
	lines := make([]Line, 0, len(items))
	for i, item := range items {
		line, err := ComputeLine(i, item, collectVAT)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Sum aggregates line figures without re-rounding.
func Sum(lines []Line) Totals {
	t := Totals{Gross: decimal.Zero, VAT: decimal.Zero}
	for _, l := range lines {
		t.Gross = t.Gross.Add(l.Gross)
		if l.HasVAT {
			t.VAT = t.VAT.Add(l.VATAmount)
		}
	}
	t.Total = t.Gross.Add(t.VAT)
	return t
}
