package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturx/internal/invoice/invoicetest"
	"facturx/pkg/models"
)

func fields(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	verrs, ok := err.(models.ValidationErrors)
	require.True(t, ok, "unexpected error type %T", err)

	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateSample(t *testing.T) {
	assert.NoError(t, New().Validate(invoicetest.Sample()))
	assert.NoError(t, New().Validate(invoicetest.NoVAT()))
}

func TestValidateNil(t *testing.T) {
	assert.Equal(t, []string{"invoice"}, fields(t, New().Validate(nil)))
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.InvoiceData)
		want   []string
	}{
		{
			name:   "siret prefix mismatch",
			mutate: func(in *models.InvoiceData) { in.InvoicerInfo.SIRET = "55210055400013" },
			want:   []string{"invoicer_info.siret"},
		},
		{
			name:   "phone pattern",
			mutate: func(in *models.InvoiceData) { in.InvoicerInfo.PhoneNumber = "0612345678" },
			want:   []string{"invoicer_info.phone_number"},
		},
		{
			name: "non craftsman needs ape code",
			mutate: func(in *models.InvoiceData) {
				in.InvoicerInfo.IsCraftsman = false
				in.InvoicerInfo.APECode = nil
			},
			want: []string{"invoicer_info.ape_code"},
		},
		{
			name: "craftsman needs aprm and department",
			mutate: func(in *models.InvoiceData) {
				in.InvoicerInfo.APRMCode = nil
				in.InvoicerInfo.RegistrationDepartment = nil
			},
			want: []string{"invoicer_info.aprm_code", "invoicer_info.registration_department"},
		},
		{
			name:   "professional client needs siren",
			mutate: func(in *models.InvoiceData) { in.ClientInfo.SIREN = nil },
			want:   []string{"client_info.siren"},
		},
		{
			name: "bank transfer details",
			mutate: func(in *models.InvoiceData) {
				in.PaymentInfo.BIC = nil
				in.PaymentInfo.BankAddress = nil
				in.PaymentInfo.Payee = nil
			},
			want: []string{"payment_info.bic", "payment_info.bank_address", "payment_info.payee"},
		},
		{
			name: "billing date flags exclusive",
			mutate: func(in *models.InvoiceData) {
				in.BillingDetails.BillingDateIsToday = true
				in.BillingDetails.BillingDateIsEndOfCurrentMonth = true
			},
			want: []string{"billing_details.billing_date_is_today"},
		},
		{
			name: "billing dates format and presence",
			mutate: func(in *models.InvoiceData) {
				in.BillingDetails.BillingDate = nil
				in.BillingDetails.BillingPeriodEnd = nil
				in.BillingDetails.BillingPeriodStart = invoicetest.Ptr("2024-12-01")
				in.BillingDetails.PaymentPeriodDetails.PaymentDate = invoicetest.Ptr("31/02/2025")
			},
			want: []string{
				"billing_details.billing_period_start",
				"billing_details.payment_period_details.payment_date",
				"billing_details.billing_period_end",
				"billing_details.billing_date",
			},
		},
		{
			name: "item amounts",
			mutate: func(in *models.InvoiceData) {
				in.InvoicedItems = []models.InvoicedItem{
					{Name: "a", Price: 10.999, Quantity: 1, VATRate: invoicetest.Ptr(20.0)},
					{Name: "b", Price: 10, Quantity: 0, VATRate: invoicetest.Ptr(5.55)},
					{Name: "c", Price: 10, Quantity: 1},
					{Name: "d", Price: 10, Quantity: 1, VATRate: invoicetest.Ptr(120.0)},
				}
			},
			want: []string{
				"invoiced_items[0].price",
				"invoiced_items[1].quantity",
				"invoiced_items[1].vat_rate",
				"invoiced_items[2].vat_rate",
				"invoiced_items[3].vat_rate",
			},
		},
		{
			name: "discount consistency",
			mutate: func(in *models.InvoiceData) {
				in.InvoicedItems[0].Discount = &models.Discount{Type: models.DiscountPercentage}
				in.InvoicedItems = append(in.InvoicedItems, models.InvoicedItem{
					Name: "b", Price: 1, Quantity: 1, VATRate: invoicetest.Ptr(20.0),
					Discount: &models.Discount{Type: "Gift"},
				})
			},
			want: []string{"invoiced_items[0].discount.percentage", "invoiced_items[1].discount.discount_type"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := invoicetest.Sample()
			tt.mutate(in)
			assert.Equal(t, tt.want, fields(t, New().Validate(in)))
		})
	}
}

func TestValidateWithoutVATAllowsMissingRate(t *testing.T) {
	in := invoicetest.Sample()
	in.CollectVAT = false
	in.InvoicedItems[0].VATRate = nil
	assert.NoError(t, New().Validate(in))
}
