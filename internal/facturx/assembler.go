// Package facturx assembles and serializes the Cross Industry Invoice
// (CII) XML embedded in Factur-X invoices.
package facturx

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"facturx/internal/calc"
	"facturx/internal/format"
	"facturx/internal/invoice"
	"facturx/internal/logger"
	"facturx/internal/vat"
	"facturx/pkg/models"
)

// Assembler builds CII documents from computed invoice facts. It holds only
// immutable configuration.
type Assembler struct {
	table   vat.Table
	profile Profile
	log     zerolog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithProfile selects the conformance profile. Defaults to EN16931.
func WithProfile(p Profile) Option {
	return func(a *Assembler) {
		a.profile = p
	}
}

// WithLogger sets the assembler logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Assembler) {
		a.log = l
	}
}

// NewAssembler creates an Assembler classifying rates with table.
func NewAssembler(table vat.Table, opts ...Option) *Assembler {
	a := &Assembler{
		table:   table,
		profile: ProfileEN16931,
		log:     logger.WithComponent("facturx"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Profile returns the configured profile.
func (a *Assembler) Profile() Profile {
	return a.profile
}

// Build assembles the document. It either returns a complete document or
// an error, never a partial tree.
func (a *Assembler) Build(f *invoice.Facts) (*CrossIndustryInvoice, error) {
	const op = "Build"

	in := f.Input
	lines, breakdown, err := a.tradeLines(f)
	if err != nil {
		return nil, invoice.WrapComputationError(op, err, in.InvoiceNumber)
	}
	means, err := paymentMeans(in.PaymentInfo)
	if err != nil {
		return nil, invoice.WrapComputationError(op, err, in.InvoiceNumber)
	}
	seller, err := sellerParty(f)
	if err != nil {
		return nil, invoice.WrapComputationError(op, err, in.InvoiceNumber)
	}

	doc := &CrossIndustryInvoice{
		Rsm:     NamespaceRSM,
		Qdt:     NamespaceQDT,
		Ram:     NamespaceRAM,
		Xs:      NamespaceXS,
		Udt:     NamespaceUDT,
		Context: DocumentContext{GuidelineID: a.profile.GuidelineID()},
		Document: ExchangedDocument{
			ID:            in.InvoiceNumber,
			TypeCode:      TypeCodeCommercialInvoice,
			IssueDateTime: ciiDate(f.BillingDate),
		},
		Transaction: SupplyChainTradeTransaction{
			Lines: lines,
			Agreement: HeaderTradeAgreement{
				Seller: seller,
				Buyer:  buyerParty(f),
			},
			Settlement: HeaderTradeSettlement{
				Currency:     f.Currency,
				PaymentMeans: means,
				TradeTaxes:   breakdown,
				BillingPeriod: &BillingPeriod{
					Start: ciiDate(f.BillingPeriod.Start),
					End:   ciiDate(f.BillingPeriod.End),
				},
				PaymentTerms: &PaymentTerms{
					Description: paymentTermsDescription(in.BillingDetails.PaymentPeriodDetails),
					DueDate:     ciiDate(f.PaymentDate),
				},
				MonetaryTotals: HeaderMonetarySummation{
					LineTotal:     format.Amount(f.Totals.Gross),
					TaxBasisTotal: format.Amount(f.Totals.Gross),
					TaxTotal:      Amount{CurrencyID: f.Currency, Value: format.Amount(f.Totals.VAT)},
					GrandTotal:    format.Amount(f.Totals.Total),
					DuePayable:    format.Amount(f.Totals.Total),
				},
			},
		},
	}
	if in.ContractNumber != nil {
		doc.Transaction.Agreement.Contract = &ReferencedDocument{IssuerAssignedID: *in.ContractNumber}
	}

	a.log.Debug().
		Str("invoice_number", in.InvoiceNumber).
		Str("profile", string(a.profile)).
		Int("lines", len(lines)).
		Int("tax_entries", len(breakdown)).
		Msg("Assembled CII document")

	return doc, nil
}

// Marshal serializes the document with an XML declaration.
func (c *CrossIndustryInvoice) Marshal() ([]byte, error) {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal CII document: %w", err)
	}
	return append([]byte(xml.Header), output...), nil
}

// Breakdown returns the header VAT breakdown.
func (c *CrossIndustryInvoice) Breakdown() []TradeTax {
	return c.Transaction.Settlement.TradeTaxes
}

// breakdownEntry accumulates one rate of the VAT breakdown.
type breakdownEntry struct {
	category vat.Category
	basis    decimal.Decimal
	tax      decimal.Decimal
}

// tradeLines builds the line items and, in the same pass, the header VAT
// breakdown in first-seen rate order.
func (a *Assembler) tradeLines(f *invoice.Facts) ([]LineItem, []TradeTax, error) {
	var (
		items   = make([]LineItem, 0, len(f.Lines))
		entries []*breakdownEntry
		byRate  = make(map[string]*breakdownEntry)
	)

	for _, l := range f.Lines {
		category, err := a.lineCategory(f, l)
		if err != nil {
			return nil, nil, err
		}

		items = append(items, LineItem{
			LineID:         strconv.Itoa(l.Index + 1),
			ProductName:    l.Name,
			NetPrice:       format.Amount(l.Price),
			BilledQuantity: Quantity{UnitCode: UnitCodeOne, Value: l.Quantity.String()},
			Settlement: LineTradeSettlement{
				TradeTax: TradeTax{
					TypeCode:              TaxTypeCodeVAT,
					CategoryCode:          category.Code,
					RateApplicablePercent: format.Rate(category.Rate),
				},
				LineTotalAmount: format.Amount(l.Gross),
			},
		})

		if !f.CollectVAT() {
			continue
		}
		key := vat.Key(category.Rate)
		entry, ok := byRate[key]
		if !ok {
			entry = &breakdownEntry{category: category, basis: decimal.Zero, tax: decimal.Zero}
			byRate[key] = entry
			entries = append(entries, entry)
		}
		entry.basis = entry.basis.Add(l.Gross)
		entry.tax = entry.tax.Add(l.VATAmount)
	}

	if !f.CollectVAT() {
		return items, []TradeTax{{
			CalculatedAmount:      format.Amount(decimal.Zero),
			TypeCode:              TaxTypeCodeVAT,
			ExemptionReason:       vat.FranchiseReason,
			BasisAmount:           format.Amount(f.Totals.Gross),
			CategoryCode:          vat.CodeExempt,
			ExemptionReasonCode:   vat.FranchiseReasonCode,
			RateApplicablePercent: format.Rate(decimal.Zero),
		}}, nil
	}

	taxes := make([]TradeTax, 0, len(entries))
	for _, e := range entries {
		taxes = append(taxes, TradeTax{
			CalculatedAmount:      format.Amount(e.tax),
			TypeCode:              TaxTypeCodeVAT,
			ExemptionReason:       e.category.ExemptionReason,
			BasisAmount:           format.Amount(e.basis),
			CategoryCode:          e.category.Code,
			ExemptionReasonCode:   e.category.ExemptionReasonCode,
			RateApplicablePercent: format.Rate(e.category.Rate),
		})
	}
	return items, taxes, nil
}

func (a *Assembler) lineCategory(f *invoice.Facts, l calc.Line) (vat.Category, error) {
	if !f.CollectVAT() {
		return vat.NotCollected(), nil
	}
	c, err := a.table.Classify(l.VATRate)
	if err != nil {
		return vat.Category{}, models.NewFieldError("ClassifyRate", fmt.Sprintf("invoiced_items[%d].vat_rate", l.Index), l.VATRate.String(), err)
	}
	return c, nil
}

func sellerParty(f *invoice.Facts) (TradeParty, error) {
	inv := f.Input.InvoicerInfo
	if len(inv.SIRET) != 14 {
		return TradeParty{}, models.NewFieldError("SellerParty", "invoicer_info.siret", inv.SIRET, models.ErrInvalidIdentifier)
	}

	org := &LegalOrganization{ID: SchemeID{SchemeID: SchemeSIREN, Value: inv.SIREN}}
	if inv.TradeName != nil {
		org.TradingBusinessName = *inv.TradeName
	}

	return TradeParty{
		GlobalID:          &SchemeID{SchemeID: SchemeSIRET, Value: inv.SIRET},
		Name:              inv.Name,
		LegalOrganization: org,
		Address: TradeAddress{
			Postcode:  inv.Postcode,
			LineOne:   inv.AddressLine1,
			City:      inv.City,
			CountryID: f.Country,
		},
		Email:           &SchemeID{SchemeID: SchemeEmail, Value: inv.Email},
		TaxRegistration: &SchemeID{SchemeID: SchemeVAT, Value: format.Compact(f.InvoicerVATNumber)},
	}, nil
}

func buyerParty(f *invoice.Facts) TradeParty {
	client := f.Input.ClientInfo
	party := TradeParty{
		Name: client.Name,
		Address: TradeAddress{
			Postcode:  client.Postcode,
			LineOne:   client.AddressLine1,
			City:      client.City,
			CountryID: f.ClientCountry,
		},
	}
	if siren, ok := f.ClientSIREN(); ok {
		party.LegalOrganization = &LegalOrganization{ID: SchemeID{SchemeID: SchemeSIREN, Value: siren}}
	}
	if f.ClientVATNumber != "" {
		party.TaxRegistration = &SchemeID{SchemeID: SchemeVAT, Value: format.Compact(f.ClientVATNumber)}
	}
	return party
}

// paymentMeans lists accepted channels in the order cash, cheque, bank
// transfer.
func paymentMeans(p models.PaymentInfo) ([]PaymentMeans, error) {
	const op = "PaymentMeans"
	var means []PaymentMeans

	if p.CashAccepted {
		means = append(means, PaymentMeans{TypeCode: PaymentMeansCash, Information: "En espèces"})
	}
	if p.ChequesAccepted {
		if p.Payee == nil {
			return nil, models.NewFieldError(op, "payment_info.payee", nil, models.ErrMissingPrerequisite)
		}
		means = append(means, PaymentMeans{
			TypeCode:    PaymentMeansCheque,
			Information: fmt.Sprintf("Par chèque à l'ordre de %s", *p.Payee),
		})
	}
	if p.BankTransfersAccepted {
		if p.IBAN == nil {
			return nil, models.NewFieldError(op, "payment_info.iban", nil, models.ErrMissingPrerequisite)
		}
		transfer := PaymentMeans{
			TypeCode:    PaymentMeansTransfer,
			Information: "Virement SEPA",
			Account:     &CreditorAccount{IBAN: format.Compact(*p.IBAN)},
		}
		if p.BankAddress != nil {
			transfer.Account.AccountName = *p.BankAddress
		}
		if p.BIC != nil {
			transfer.Institution = &CreditorInstitution{BIC: format.Compact(*p.BIC)}
		}
		means = append(means, transfer)
	}
	return means, nil
}

func paymentTermsDescription(d models.PaymentPeriodDetails) string {
	if d.BusinessDaysOnly {
		return fmt.Sprintf("Paiement à effectuer sous %d jours ouvrés", d.NumberOfDays)
	}
	return fmt.Sprintf("Paiement à effectuer sous %d jours", d.NumberOfDays)
}
