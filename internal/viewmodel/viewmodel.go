// Package viewmodel flattens computed invoice facts into the record
// consumed by the HTML invoice template. JSON field names are the template
// contract and must not change.
package viewmodel

import (
	"github.com/shopspring/decimal"

	"facturx/internal/format"
	"facturx/internal/invoice"
	"facturx/pkg/models"
)

const frenchCallingCode = "+33"

// Item is one invoiced line as shown on the invoice.
type Item struct {
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Quantity    float64 `json:"quantity"`
	GrossAmount string  `json:"gross_amount"`
	VATRate     string  `json:"vat_rate,omitempty"`
	VATAmount   string  `json:"vat_amount,omitempty"`
	TotalAmount string  `json:"total_amount"`
}

// TemplateData is the flat template record.
type TemplateData struct {
	InvoiceNumber string  `json:"invoice_number"`
	CollectVAT    bool    `json:"collect_vat"`
	DisplayLogo   bool    `json:"display_logo"`
	LogoURI       *string `json:"logo_uri"`

	InvoicerName         string  `json:"invoicer_name"`
	InvoicerHasTradeName bool    `json:"invoicer_has_trade_name"`
	InvoicerTradeName    *string `json:"invoicer_trade_name"`
	InvoicerAddressLine1 string  `json:"invoicer_address_line_1"`
	InvoicerPostcode     string  `json:"invoicer_postcode"`
	InvoicerCity         string  `json:"invoicer_city"`
	InvoicerSIREN        string  `json:"invoicer_siren"`
	InvoicerSIRET        string  `json:"invoicer_siret"`
	InvoicerIsCraftsman  bool    `json:"invoicer_is_craftsman"`
	APRMCode             *string `json:"aprm_code"`
	RegistrationDep      *string `json:"registration_dep"`
	APECode              *string `json:"ape_code"`
	InvoicerVATNumber    string  `json:"invoicer_vat_number"`
	InvoicerEmail        string  `json:"invoicer_email"`
	InvoicerPhoneNumber  string  `json:"invoicer_phone_number"`
	FullPhoneNumber      string  `json:"full_phone_number"`
	InvoicerHasWebsite   bool    `json:"invoicer_has_website"`
	InvoicerWebsite      string  `json:"invoicer_website"`

	ClientName         string `json:"client_name"`
	ClientAddressLine1 string `json:"client_address_line_1"`
	ClientPostcode     string `json:"client_postcode"`
	ClientCity         string `json:"client_city"`
	ClientIsPro        bool   `json:"client_is_pro"`
	ClientSIREN        string `json:"client_siren"`
	ClientVATNumber    string `json:"client_vat_number"`

	DisplayContractNumber bool    `json:"display_contract_number"`
	ContractNumber        *string `json:"contract_number"`

	BillingDate        string `json:"billing_date"`
	BillingPeriodStart string `json:"billing_period_start"`
	BillingPeriodEnd   string `json:"billing_period_end"`

	InvoicedItems      []Item `json:"invoiced_items"`
	TotalGrossAmount   string `json:"total_gross_amount"`
	TotalVATAmount     string `json:"total_vat_amount"`
	TotalInvoiceAmount string `json:"total_invoice_amount"`

	PaymentPeriodDays int    `json:"payment_period_days"`
	BusinessDays      bool   `json:"business_days"`
	PaymentDate       string `json:"payment_date"`
	CurrencyCode      string `json:"currency_code"`
	CurrencySymbol    string `json:"currency_symbol"`

	BankTransfersAccepted bool    `json:"bank_transfers_accepted"`
	IBAN                  string  `json:"iban"`
	BIC                   string  `json:"bic"`
	BankAddress           *string `json:"bank_address"`
	ChequesAccepted       bool    `json:"cheques_accepted"`
	Payee                 *string `json:"payee"`
	CashAccepted          bool    `json:"cash_accepted"`

	DisplayRcPro      bool   `json:"display_rc_pro"`
	RcProName         string `json:"rc_pro_name"`
	RcProAddressLine1 string `json:"rc_pro_address_line_1"`
	RcProAddressLine2 string `json:"rc_pro_address_line_2"`
	RcProGeoCoverage  string `json:"rc_pro_geo_cov"`
}

// numbers renders amounts and rates for one output mode.
type numbers struct {
	amount func(decimal.Decimal) string
	rate   func(decimal.Decimal) string
}

var (
	display = numbers{amount: format.DisplayAmount, rate: format.DisplayRate}
	raw     = numbers{amount: format.Amount, rate: format.Rate}
)

// Display builds the template record for human readers: grouped
// thousands, comma decimal separator.
func Display(f *invoice.Facts) (*TemplateData, error) {
	return build(f, display)
}

// Raw builds the template record with undecorated amounts ("1234.50") and
// rates ("20.0").
func Raw(f *invoice.Facts) (*TemplateData, error) {
	return build(f, raw)
}

func build(f *invoice.Facts, n numbers) (*TemplateData, error) {
	in := f.Input
	inv := in.InvoicerInfo
	client := in.ClientInfo
	pay := in.PaymentInfo
	period := in.BillingDetails.PaymentPeriodDetails

	siren, err := format.SIREN(inv.SIREN)
	if err != nil {
		return nil, models.AtField(err, "invoicer_info.siren")
	}
	siret, err := format.SIRET(inv.SIRET)
	if err != nil {
		return nil, models.AtField(err, "invoicer_info.siret")
	}

	td := &TemplateData{
		InvoiceNumber: in.InvoiceNumber,
		CollectVAT:    in.CollectVAT,
		DisplayLogo:   in.LogoURI != nil,
		LogoURI:       in.LogoURI,

		InvoicerName:         inv.Name,
		InvoicerHasTradeName: inv.TradeName != nil,
		InvoicerTradeName:    inv.TradeName,
		InvoicerAddressLine1: inv.AddressLine1,
		InvoicerPostcode:     inv.Postcode,
		InvoicerCity:         inv.City,
		InvoicerSIREN:        siren,
		InvoicerSIRET:        siret,
		InvoicerIsCraftsman:  inv.IsCraftsman,
		APRMCode:             inv.APRMCode,
		RegistrationDep:      inv.RegistrationDepartment,
		APECode:              inv.APECode,
		InvoicerVATNumber:    f.InvoicerVATNumber,
		InvoicerEmail:        inv.Email,
		InvoicerPhoneNumber:  inv.PhoneNumber,
		FullPhoneNumber:      format.InternationalPhone(inv.PhoneNumber, frenchCallingCode),
		InvoicerHasWebsite:   inv.Website != nil,

		ClientName:         client.Name,
		ClientAddressLine1: client.AddressLine1,
		ClientPostcode:     client.Postcode,
		ClientCity:         client.City,
		ClientIsPro:        f.ClientIsPro(),
		ClientVATNumber:    f.ClientVATNumber,

		DisplayContractNumber: in.ContractNumber != nil,
		ContractNumber:        in.ContractNumber,

		BillingDate:        format.LongDate(f.BillingDate),
		BillingPeriodStart: format.Date(f.BillingPeriod.Start),
		BillingPeriodEnd:   format.Date(f.BillingPeriod.End),

		TotalGrossAmount:   n.amount(f.Totals.Gross),
		TotalInvoiceAmount: n.amount(f.Totals.Total),

		PaymentPeriodDays: period.NumberOfDays,
		BusinessDays:      period.BusinessDaysOnly,
		PaymentDate:       format.Date(f.PaymentDate),
		CurrencyCode:      f.Currency,
		CurrencySymbol:    format.CurrencySymbol(f.Currency),

		BankTransfersAccepted: pay.BankTransfersAccepted,
		BankAddress:           pay.BankAddress,
		ChequesAccepted:       pay.ChequesAccepted,
		Payee:                 pay.Payee,
		CashAccepted:          pay.CashAccepted,
	}

	if inv.Website != nil {
		td.InvoicerWebsite = format.WebsiteLink(*inv.Website)
	}
	if clientSIREN, ok := f.ClientSIREN(); ok {
		if td.ClientSIREN, err = format.SIREN(clientSIREN); err != nil {
			return nil, models.AtField(err, "client_info.siren")
		}
	}
	if in.CollectVAT {
		td.TotalVATAmount = n.amount(f.Totals.VAT)
	}
	if pay.IBAN != nil {
		td.IBAN = format.IBAN(*pay.IBAN)
	}
	if pay.BIC != nil {
		td.BIC = format.BIC(*pay.BIC)
	}
	if rc := in.RcProInfo; rc != nil {
		td.DisplayRcPro = true
		td.RcProName = rc.Name
		td.RcProAddressLine1 = rc.AddressLine1
		td.RcProAddressLine2 = rc.AddressLine2
		td.RcProGeoCoverage = rc.GeographicalCoverage
	}

	td.InvoicedItems = make([]Item, 0, len(f.Lines))
	for _, l := range f.Lines {
		item := Item{
			Name:        l.Name,
			Price:       n.amount(l.Price),
			Quantity:    in.InvoicedItems[l.Index].Quantity,
			GrossAmount: n.amount(l.Gross),
			TotalAmount: n.amount(l.Total),
		}
		if l.HasVAT {
			item.VATRate = n.rate(l.VATRate)
			item.VATAmount = n.amount(l.VATAmount)
		}
		td.InvoicedItems = append(td.InvoicedItems, item)
	}

	return td, nil
}
