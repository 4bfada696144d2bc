// Package validation checks the structure of decoded invoice input before
// it reaches the computation engine.
package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"facturx/internal/format"
	"facturx/internal/logger"
	"facturx/pkg/models"
)

var (
	sirenPattern      = regexp.MustCompile(`^\d{9}$`)
	siretPattern      = regexp.MustCompile(`^\d{14}$`)
	phonePattern      = regexp.MustCompile(`^0[1-7]( \d{2}){4}$`)
	apePattern        = regexp.MustCompile(`^\d{2}\.\d{2}[A-Z]$`)
	departmentPattern = regexp.MustCompile(`^(0[1-9]|[1-8][0-9]|9[0-5]|2[AB]|97[1-6])$`)
	currencyPattern   = regexp.MustCompile(`^[A-Z]{3}$`)
	countryPattern    = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Validator collects every structural violation of an invoice.
type Validator struct {
	log zerolog.Logger
}

// New creates a Validator.
func New() *Validator {
	return &Validator{
		log: logger.WithComponent("validation"),
	}
}

// collector accumulates violations.
type collector struct {
	errs models.ValidationErrors
}

func (c *collector) add(field string, value interface{}, message string) {
	c.errs = append(c.errs, &models.ValidationError{Field: field, Value: value, Message: message})
}

func (c *collector) required(field string, v *string, message string) {
	if v == nil || *v == "" {
		c.add(field, nil, message)
	}
}

func (c *collector) match(field string, v string, re *regexp.Regexp, message string) {
	if !re.MatchString(v) {
		c.add(field, v, message)
	}
}

func (c *collector) date(field string, v *string, message string) {
	if v == nil {
		return
	}
	if _, err := time.Parse(format.DateLayout, *v); err != nil {
		c.add(field, *v, message)
	}
}

// Validate returns nil or a models.ValidationErrors listing every
// violation with its field path.
func (v *Validator) Validate(in *models.InvoiceData) error {
	if in == nil {
		return models.ValidationErrors{{Field: "invoice", Message: "invoice data must be provided"}}
	}

	c := &collector{}
	if in.InvoiceNumber == "" {
		c.add("invoice_number", nil, "the invoice number must be provided")
	}
	v.invoicer(c, &in.InvoicerInfo)
	v.client(c, &in.ClientInfo)
	v.payment(c, &in.PaymentInfo)
	v.billing(c, &in.BillingDetails)
	v.items(c, in.InvoicedItems, in.CollectVAT)

	if len(c.errs) == 0 {
		return nil
	}

	v.log.Debug().
		Str("invoice_number", in.InvoiceNumber).
		Int("violations", len(c.errs)).
		Msg("Invoice input rejected")
	return c.errs
}

func (v *Validator) invoicer(c *collector, i *models.InvoicerInfo) {
	if i.Name == "" {
		c.add("invoicer_info.name", nil, "the invoicer's name must be provided")
	}
	c.match("invoicer_info.siren", i.SIREN, sirenPattern, "the SIREN must have 9 digits")
	c.match("invoicer_info.siret", i.SIRET, siretPattern, "the SIRET must have 14 digits")
	if len(i.SIRET) >= 9 && i.SIRET[:9] != i.SIREN {
		c.add("invoicer_info.siret", i.SIRET, "the first 9 digits of the SIRET must match the SIREN")
	}
	c.match("invoicer_info.phone_number", i.PhoneNumber, phonePattern, "the phone number must look like 0X XX XX XX XX")
	if i.CountryCode != "" {
		c.match("invoicer_info.country_code", i.CountryCode, countryPattern, "the country code must be an ISO 3166-1 alpha-2 code")
	}
	if i.APECode != nil {
		c.match("invoicer_info.ape_code", *i.APECode, apePattern, "the APE code must look like 62.01Z")
	}
	if i.RegistrationDepartment != nil {
		c.match("invoicer_info.registration_department", *i.RegistrationDepartment, departmentPattern, "the registration department is not a French department code")
	}

	if i.IsCraftsman {
		c.required("invoicer_info.aprm_code", i.APRMCode, "the APRM code must be provided if the invoicer is a craftsman")
		c.required("invoicer_info.registration_department", i.RegistrationDepartment, "the registration department must be provided if the invoicer is a craftsman")
	} else {
		c.required("invoicer_info.ape_code", i.APECode, "the APE code must be provided if the invoicer is not a craftsman")
	}
}

func (v *Validator) client(c *collector, cl *models.ClientInfo) {
	if cl.Name == "" {
		c.add("client_info.name", nil, "the client's name must be provided")
	}
	if cl.SIREN != nil {
		c.match("client_info.siren", *cl.SIREN, sirenPattern, "the SIREN must have 9 digits")
	} else if cl.IsPro {
		c.add("client_info.siren", nil, "the SIREN must be provided if the client is a professional")
	}
}

func (v *Validator) payment(c *collector, p *models.PaymentInfo) {
	if p.BankTransfersAccepted {
		c.required("payment_info.iban", p.IBAN, "the payment IBAN must be provided if bank transfers are accepted")
		c.required("payment_info.bic", p.BIC, "the payment BIC must be provided if bank transfers are accepted")
		c.required("payment_info.bank_address", p.BankAddress, "the bank's address must be provided if bank transfers are accepted")
	}
	if p.ChequesAccepted {
		c.required("payment_info.payee", p.Payee, "the payee must be provided if cheques are accepted")
	}
	if p.CurrencyCode != "" {
		c.match("payment_info.currency_code", p.CurrencyCode, currencyPattern, "the currency must be an ISO 4217 code")
	}
}

func (v *Validator) billing(c *collector, b *models.BillingDetails) {
	c.date("billing_details.billing_period_start", b.BillingPeriodStart, "the billing period start date must be in the format DD/MM/YYYY")
	c.date("billing_details.billing_period_end", b.BillingPeriodEnd, "the billing period end date must be in the format DD/MM/YYYY")
	c.date("billing_details.billing_date", b.BillingDate, "the billing date must be in the format DD/MM/YYYY")
	c.date("billing_details.payment_period_details.payment_date", b.PaymentPeriodDetails.PaymentDate, "the payment date must be in the format DD/MM/YYYY")

	if !b.BillWholeCurrentMonth {
		c.required("billing_details.billing_period_start", b.BillingPeriodStart, "the start date of the billing period must be provided")
		c.required("billing_details.billing_period_end", b.BillingPeriodEnd, "the end date of the billing period must be provided")
	}
	if b.BillingDateIsToday && b.BillingDateIsEndOfCurrentMonth {
		c.add("billing_details.billing_date_is_today", true, "the billing date cannot be simultaneously today and at the end of the current month")
	}
	if !b.BillingDateIsToday && !b.BillingDateIsEndOfCurrentMonth {
		c.required("billing_details.billing_date", b.BillingDate, "the billing date must be provided")
	}
	if b.PaymentPeriodDetails.NumberOfDays < 0 {
		c.add("billing_details.payment_period_details.number_of_days", b.PaymentPeriodDetails.NumberOfDays, "the number of days must not be negative")
	}
}

func (v *Validator) items(c *collector, items []models.InvoicedItem, collectVAT bool) {
	if len(items) == 0 {
		c.add("invoiced_items", nil, "at least one invoiced item must be provided")
	}
	for i, item := range items {
		path := fmt.Sprintf("invoiced_items[%d]", i)

		if item.Name == "" {
			c.add(path+".name", nil, "the item name must be provided")
		}
		if item.Price <= 0 {
			c.add(path+".price", item.Price, "the price must be greater than 0")
		} else if decimal.NewFromFloat(item.Price).Exponent() < -2 {
			c.add(path+".price", item.Price, "the price must have at most two decimal places")
		}
		if item.Quantity <= 0 {
			c.add(path+".quantity", item.Quantity, "the quantity must be greater than 0")
		}

		switch {
		case item.VATRate == nil:
			if collectVAT {
				c.add(path+".vat_rate", nil, "the invoiced item VAT rate must be provided if the VAT is collected")
			}
		case *item.VATRate < 0 || *item.VATRate > 100:
			c.add(path+".vat_rate", *item.VATRate, "the VAT rate must be between 0 and 100")
		case decimal.NewFromFloat(*item.VATRate).Exponent() < -1:
			c.add(path+".vat_rate", *item.VATRate, "the VAT rate must have at most one decimal place")
		}

		if d := item.Discount; d != nil {
			v.discount(c, path+".discount", d)
		}
	}
}

func (v *Validator) discount(c *collector, path string, d *models.Discount) {
	switch d.Type {
	case models.DiscountPercentage:
		if d.Percentage == nil {
			c.add(path+".percentage", nil, "the percentage must be provided if the discount type is percentage")
		} else if *d.Percentage < 0 || *d.Percentage > 100 {
			c.add(path+".percentage", *d.Percentage, "the percentage must be between 0 and 100")
		}
	case models.DiscountAmount:
		if d.Amount == nil {
			c.add(path+".amount", nil, "the amount must be provided if the discount type is amount")
		} else if *d.Amount <= 0 {
			c.add(path+".amount", *d.Amount, "the amount must be greater than 0")
		}
	default:
		c.add(path+".discount_type", string(d.Type), "the discount type must be Percentage or Amount")
	}
}
