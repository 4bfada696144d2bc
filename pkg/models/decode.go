package models

import (
	"encoding/json"
	"fmt"
	"io"
)

// DefaultPaymentPeriodDays applies when payment_period_details omits
// number_of_days.
const DefaultPaymentPeriodDays = 30

// UnmarshalJSON applies the default payment period before decoding.
func (p *PaymentPeriodDetails) UnmarshalJSON(data []byte) error {
	type plain PaymentPeriodDetails
	v := plain{NumberOfDays: DefaultPaymentPeriodDays}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PaymentPeriodDetails(v)
	return nil
}

// DecodeInvoiceData reads one invoice JSON document. Unknown fields are
// rejected.
func DecodeInvoiceData(r io.Reader) (*InvoiceData, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var in InvoiceData
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &in, nil
}
