package format_test

import (
	"fmt"

	"facturx/internal/format"
)

func ExampleVATNumber() {
	vat, err := format.VATNumber("732829320")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(vat)
	fmt.Println(format.Compact(vat))
	// Output:
	// FR 44 732829320
	// FR44732829320
}

func ExampleBIC() {
	fmt.Println(format.BIC("BNPAFRPP"))
	// Output: BNPA FRPP XXX
}
