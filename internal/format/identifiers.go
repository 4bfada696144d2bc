// Package format groups French business identifiers and renders amounts,
// rates and dates for display or for the structured e-invoice.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"facturx/pkg/models"
)

// SIREN groups a 9-digit SIREN by three: "732 829 320".
func SIREN(siren string) (string, error) {
	const op = "FormatSIREN"
	if !isDigits(siren, 9) {
		return "", models.NewFieldError(op, "siren", siren, models.ErrInvalidIdentifier)
	}
	return groupEvery(siren, 3), nil
}

// SIRET groups a 14-digit SIRET as "732 829 320 00074".
func SIRET(siret string) (string, error) {
	const op = "FormatSIRET"
	if !isDigits(siret, 14) {
		return "", models.NewFieldError(op, "siret", siret, models.ErrInvalidIdentifier)
	}
	return fmt.Sprintf("%s %s %s %s", siret[:3], siret[3:6], siret[6:9], siret[9:]), nil
}

// VATNumber derives the French intra-community VAT number from a SIREN,
// e.g. "FR 44 732829320".
func VATNumber(siren string) (string, error) {
	const op = "VATNumber"
	if !isDigits(siren, 9) {
		return "", models.NewFieldError(op, "siren", siren, models.ErrInvalidIdentifier)
	}
	n, err := strconv.ParseUint(siren, 10, 64)
	if err != nil {
		return "", models.NewFieldError(op, "siren", siren, models.ErrInvalidIdentifier)
	}
	key := (12 + 3*(n%97)) % 97
	return fmt.Sprintf("FR %02d %s", key, siren), nil
}

// GroupVATNumber regroups a compact VAT number ("FR44732829320") as
// "FR 44 732829320".
func GroupVATNumber(vat string) string {
	vat = Compact(vat)
	if len(vat) <= 4 {
		return vat
	}
	return fmt.Sprintf("%s %s %s", vat[:2], vat[2:4], vat[4:])
}

// IBAN removes existing spacing and groups the account number by four.
func IBAN(iban string) string {
	return groupEvery(Compact(iban), 4)
}

// BIC groups a BIC by four, padding 8-character codes with the "XXX"
// primary office branch code.
func BIC(bic string) string {
	bic = Compact(bic)
	if len(bic) == 8 {
		bic += "XXX"
	}
	return groupEvery(bic, 4)
}

// Compact strips every space from an identifier.
func Compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func groupEvery(s string, n int) string {
	var parts []string
	for i := 0; i < len(s); i += n {
		end := i + n
		if end > len(s) {
			end = len(s)
		}
		parts = append(parts, s[i:end])
	}
	return strings.Join(parts, " ")
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
