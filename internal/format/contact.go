package format

import (
	"fmt"
	"strings"
	"unicode"
)

// InternationalPhone converts a French national number ("06 12 34 56 78")
// to its international form using the given calling code ("+33612345678").
func InternationalPhone(phone, callingCode string) string {
	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	return callingCode + strings.TrimPrefix(digits.String(), "0")
}

// WebsiteLink renders a website as an HTML anchor opening in a new tab.
// Bare domains get an https://www. prefix; the displayed text drops the
// scheme.
func WebsiteLink(url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		if strings.HasPrefix(url, "www.") {
			url = "https://" + url
		} else {
			url = "https://www." + url
		}
	}
	display := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, url, display)
}
