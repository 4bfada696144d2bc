package format

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used across invoices.
const (
	DateLayout    = "02/01/2006" // DD/MM/YYYY
	CIIDateLayout = "20060102"   // UN/CEFACT format 102
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Date renders a date as DD/MM/YYYY.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// CIIDate renders a date as YYYYMMDD.
func CIIDate(t time.Time) string {
	return t.Format(CIIDateLayout)
}

// LongDate renders a date with the French month name, upper-cased as it
// appears on the invoice header: "01 JANVIER 2025".
func LongDate(t time.Time) string {
	return strings.ToUpper(fmt.Sprintf("%02d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year()))
}
