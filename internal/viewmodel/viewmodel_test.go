package viewmodel

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturx/internal/invoice"
	"facturx/internal/invoice/invoicetest"
	"facturx/pkg/models"
)

var ref = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func compute(t *testing.T, in *models.InvoiceData) *invoice.Facts {
	t.Helper()
	facts, err := invoice.NewEngine().Compute(in, ref)
	require.NoError(t, err)
	return facts
}

func normalizeSpaces(s string) string {
	return strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)
}

func TestRaw(t *testing.T) {
	td, err := Raw(compute(t, invoicetest.Sample()))
	require.NoError(t, err)

	assert.Equal(t, "732 829 320", td.InvoicerSIREN)
	assert.Equal(t, "732 829 320 00074", td.InvoicerSIRET)
	assert.Equal(t, "FR 44 732829320", td.InvoicerVATNumber)
	assert.Equal(t, "552 100 554", td.ClientSIREN)
	assert.Equal(t, "FR 96 552100554", td.ClientVATNumber)
	assert.Equal(t, "+33612345678", td.FullPhoneNumber)
	assert.Equal(t, `<a href="https://www.dupont.fr" target="_blank">www.dupont.fr</a>`, td.InvoicerWebsite)
	assert.Equal(t, "01 JANVIER 2025", td.BillingDate)
	assert.Equal(t, "01/12/2024", td.BillingPeriodStart)
	assert.Equal(t, "31/12/2024", td.BillingPeriodEnd)
	assert.Equal(t, "31/01/2025", td.PaymentDate)
	assert.Equal(t, "FR76 3000 6000 0112 3456 7890 189", td.IBAN)
	assert.Equal(t, "AGRI FRPP XXX", td.BIC)
	assert.Equal(t, "€", td.CurrencySymbol)
	assert.True(t, td.DisplayContractNumber)
	assert.True(t, td.DisplayRcPro)
	assert.False(t, td.DisplayLogo)

	require.Len(t, td.InvoicedItems, 1)
	item := td.InvoicedItems[0]
	assert.Equal(t, "100.00", item.Price)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, "200.00", item.GrossAmount)
	assert.Equal(t, "20.0", item.VATRate)
	assert.Equal(t, "40.00", item.VATAmount)
	assert.Equal(t, "240.00", item.TotalAmount)

	assert.Equal(t, "200.00", td.TotalGrossAmount)
	assert.Equal(t, "40.00", td.TotalVATAmount)
	assert.Equal(t, "240.00", td.TotalInvoiceAmount)
}

func TestDisplay(t *testing.T) {
	in := invoicetest.Sample()
	in.InvoicedItems[0].Price = 1234.5
	td, err := Display(compute(t, in))
	require.NoError(t, err)

	item := td.InvoicedItems[0]
	assert.Equal(t, "1 234,50", normalizeSpaces(item.Price))
	assert.Equal(t, "20,0", item.VATRate)
	assert.Equal(t, "2 469,00", normalizeSpaces(item.GrossAmount))
	assert.Equal(t, "493,80", item.VATAmount)
	assert.Equal(t, "2 962,80", normalizeSpaces(td.TotalInvoiceAmount))
}

func TestNoVAT(t *testing.T) {
	td, err := Raw(compute(t, invoicetest.NoVAT()))
	require.NoError(t, err)

	assert.Empty(t, td.TotalVATAmount)
	assert.Empty(t, td.ClientVATNumber)
	for _, item := range td.InvoicedItems {
		assert.Empty(t, item.VATRate)
		assert.Empty(t, item.VATAmount)
		assert.Equal(t, item.GrossAmount, item.TotalAmount)
	}
	assert.Equal(t, "237.50", td.TotalInvoiceAmount)
}

func TestOptionalBlocksAbsent(t *testing.T) {
	in := invoicetest.Sample()
	in.InvoicerInfo.TradeName = nil
	in.InvoicerInfo.Website = nil
	in.ContractNumber = nil
	in.RcProInfo = nil
	in.ClientInfo.IsPro = false
	in.PaymentInfo.IBAN = nil
	in.PaymentInfo.BIC = nil

	td, err := Raw(compute(t, in))
	require.NoError(t, err)
	assert.False(t, td.InvoicerHasTradeName)
	assert.False(t, td.InvoicerHasWebsite)
	assert.Empty(t, td.InvoicerWebsite)
	assert.False(t, td.DisplayContractNumber)
	assert.False(t, td.DisplayRcPro)
	assert.Empty(t, td.RcProName)
	assert.Empty(t, td.ClientSIREN)
	assert.Empty(t, td.IBAN)
	assert.Empty(t, td.BIC)
}

func TestIdentifierErrorPaths(t *testing.T) {
	t.Run("client siren without VAT collection", func(t *testing.T) {
		in := invoicetest.NoVAT()
		in.ClientInfo.SIREN = invoicetest.Ptr("55210")

		_, err := Raw(compute(t, in))
		assert.ErrorIs(t, err, models.ErrInvalidIdentifier)

		var fe *models.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "client_info.siren", fe.Field)
	})

	t.Run("invoicer siret", func(t *testing.T) {
		in := invoicetest.Sample()
		in.InvoicerInfo.SIRET = "7328293200007"

		_, err := Display(compute(t, in))
		var fe *models.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "invoicer_info.siret", fe.Field)
		assert.ErrorIs(t, err, models.ErrInvalidIdentifier)
	})
}

func TestTemplateKeys(t *testing.T) {
	td, err := Raw(compute(t, invoicetest.Sample()))
	require.NoError(t, err)

	data, err := json.Marshal(td)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	keys := []string{
		"invoice_number", "collect_vat", "display_logo", "logo_uri", "invoicer_name",
		"invoicer_has_trade_name", "invoicer_trade_name", "invoicer_address_line_1",
		"invoicer_postcode", "invoicer_city", "invoicer_siren", "invoicer_siret",
		"invoicer_is_craftsman", "aprm_code", "registration_dep", "ape_code",
		"invoicer_vat_number", "invoicer_email", "invoicer_phone_number", "full_phone_number",
		"invoicer_has_website", "invoicer_website", "client_name", "client_address_line_1",
		"client_postcode", "client_city", "client_is_pro", "client_siren", "client_vat_number",
		"display_contract_number", "contract_number", "billing_date", "billing_period_start",
		"billing_period_end", "invoiced_items", "total_gross_amount", "total_vat_amount",
		"total_invoice_amount", "payment_period_days", "business_days", "payment_date",
		"currency_code", "currency_symbol", "bank_transfers_accepted", "iban", "bic",
		"bank_address", "cheques_accepted", "payee", "cash_accepted", "display_rc_pro",
		"rc_pro_name", "rc_pro_address_line_1", "rc_pro_address_line_2", "rc_pro_geo_cov",
	}
	for _, k := range keys {
		assert.Contains(t, fields, k)
	}
	assert.Len(t, fields, len(keys))
}
