package models

import "strings"

// Default country and currency applied when the input leaves them empty.
const (
	DefaultCountryCode  = "FR"
	DefaultCurrencyCode = "EUR"
)

// InvoiceData is the structurally validated description of one invoice.
// It is treated as read-only by every component.
type InvoiceData struct {
	InvoiceNumber  string         `json:"invoice_number"`
	CollectVAT     bool           `json:"collect_vat"`
	InvoicerInfo   InvoicerInfo   `json:"invoicer_info"`
	LogoURI        *string        `json:"logo_uri,omitempty"`
	ClientInfo     ClientInfo     `json:"client_info"`
	PaymentInfo    PaymentInfo    `json:"payment_info"`
	RcProInfo      *RcProInfo     `json:"rc_pro_info,omitempty"`
	InvoicedItems  []InvoicedItem `json:"invoiced_items"`
	BillingDetails BillingDetails `json:"billing_details"`
	ContractNumber *string        `json:"contract_number,omitempty"`
}

// InvoicerInfo holds the invoicer's company and registration details.
type InvoicerInfo struct {
	Name                   string  `json:"name"`
	TradeName              *string `json:"trade_name,omitempty"`
	AddressLine1           string  `json:"address_line_1"`
	Postcode               string  `json:"postcode"`
	City                   string  `json:"city"`
	CountryCode            string  `json:"country_code,omitempty"` // ISO 3166-1 alpha-2, "FR" when empty
	Email                  string  `json:"email"`
	PhoneNumber            string  `json:"phone_number"`
	Website                *string `json:"website,omitempty"`
	SIREN                  string  `json:"siren"`
	SIRET                  string  `json:"siret"`
	IsCraftsman            bool    `json:"is_craftsman"`
	APECode                *string `json:"ape_code,omitempty"`
	APRMCode               *string `json:"aprm_code,omitempty"`
	RegistrationDepartment *string `json:"registration_department,omitempty"`
}

// Country returns the invoicer's upper-case country code, or def when the
// input leaves it empty.
func (i *InvoicerInfo) Country(def string) string {
	return codeOr(i.CountryCode, def)
}

// ClientInfo holds the invoiced client's details.
type ClientInfo struct {
	Name         string  `json:"name"`
	AddressLine1 string  `json:"address_line_1"`
	Postcode     string  `json:"postcode"`
	City         string  `json:"city"`
	CountryCode  string  `json:"country_code,omitempty"`
	IsPro        bool    `json:"is_pro"`
	SIREN        *string `json:"siren,omitempty"`
}

// Country returns the client's upper-case country code, or def when the
// input leaves it empty.
func (c *ClientInfo) Country(def string) string {
	return codeOr(c.CountryCode, def)
}

// DiscountType selects how a Discount is expressed.
type DiscountType string

const (
	DiscountPercentage DiscountType = "Percentage"
	DiscountAmount     DiscountType = "Amount"
)

// Discount is an optional reduction attached to an invoiced item.
type Discount struct {
	Type       DiscountType `json:"discount_type"`
	Percentage *float64     `json:"percentage,omitempty"`
	Amount     *float64     `json:"amount,omitempty"`
}

// InvoicedItem is one billed line.
type InvoicedItem struct {
	Name     string    `json:"name"`
	Price    float64   `json:"price"`    // > 0, at most 2 decimals
	Quantity float64   `json:"quantity"` // > 0
	VATRate  *float64  `json:"vat_rate,omitempty"`
	Discount *Discount `json:"discount,omitempty"`
}

// PaymentInfo lists the accepted payment channels.
type PaymentInfo struct {
	BankTransfersAccepted bool    `json:"bank_transfers_accepted"`
	IBAN                  *string `json:"iban,omitempty"`
	BIC                   *string `json:"bic,omitempty"`
	BankAddress           *string `json:"bank_address,omitempty"`
	ChequesAccepted       bool    `json:"cheques_accepted"`
	Payee                 *string `json:"payee,omitempty"`
	CashAccepted          bool    `json:"cash_accepted"`
	CurrencyCode          string  `json:"currency_code,omitempty"`
}

// Currency returns the upper-case invoice currency, or def when the input
// leaves it empty.
func (p *PaymentInfo) Currency(def string) string {
	return codeOr(p.CurrencyCode, def)
}

// PaymentPeriodDetails configures how the due date is derived.
type PaymentPeriodDetails struct {
	NumberOfDays     int     `json:"number_of_days"`
	BusinessDaysOnly bool    `json:"business_days_only"`
	PaymentDate      *string `json:"payment_date,omitempty"` // DD/MM/YYYY
}

// BillingDetails configures the billing date and the billed period.
type BillingDetails struct {
	BillWholeCurrentMonth          bool                 `json:"bill_whole_current_month"`
	BillingPeriodStart             *string              `json:"billing_period_start,omitempty"` // DD/MM/YYYY
	BillingPeriodEnd               *string              `json:"billing_period_end,omitempty"`   // DD/MM/YYYY
	BillingDateIsToday             bool                 `json:"billing_date_is_today"`
	BillingDateIsEndOfCurrentMonth bool                 `json:"billing_date_is_end_of_current_month"`
	BillingDate                    *string              `json:"billing_date,omitempty"` // DD/MM/YYYY
	PaymentPeriodDetails           PaymentPeriodDetails `json:"payment_period_details"`
}

// RcProInfo is the professional liability insurance block.
type RcProInfo struct {
	Name                 string `json:"name"`
	AddressLine1         string `json:"address_line_1"`
	AddressLine2         string `json:"address_line_2"`
	GeographicalCoverage string `json:"geographical_coverage"`
}

func codeOr(code, def string) string {
	if code == "" {
		return strings.ToUpper(def)
	}
	return strings.ToUpper(code)
}
