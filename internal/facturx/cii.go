package facturx

import (
	"encoding/xml"
	"time"

	"facturx/internal/format"
)

// Namespaces of the UN/CEFACT Cross Industry Invoice D16B schema.
const (
	NamespaceRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NamespaceRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NamespaceUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
	NamespaceQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
	NamespaceXS  = "http://www.w3.org/2001/XMLSchema"
)

// Code lists.
const (
	TypeCodeCommercialInvoice = "380"
	TaxTypeCodeVAT            = "VAT"
	UnitCodeOne               = "C62"
	DateFormat102             = "102"

	SchemeSIRET = "0009"
	SchemeSIREN = "0002"
	SchemeEmail = "EM"
	SchemeVAT   = "VA"

	PaymentMeansCash     = "10"
	PaymentMeansCheque   = "20"
	PaymentMeansTransfer = "58"
)

// CrossIndustryInvoice is the rsm:CrossIndustryInvoice document root.
// Field order follows the schema sequence.
type CrossIndustryInvoice struct {
	XMLName     xml.Name                    `xml:"rsm:CrossIndustryInvoice"`
	Rsm         string                      `xml:"xmlns:rsm,attr"`
	Qdt         string                      `xml:"xmlns:qdt,attr"`
	Ram         string                      `xml:"xmlns:ram,attr"`
	Xs          string                      `xml:"xmlns:xs,attr"`
	Udt         string                      `xml:"xmlns:udt,attr"`
	Context     DocumentContext             `xml:"rsm:ExchangedDocumentContext"`
	Document    ExchangedDocument           `xml:"rsm:ExchangedDocument"`
	Transaction SupplyChainTradeTransaction `xml:"rsm:SupplyChainTradeTransaction"`
}

type DocumentContext struct {
	GuidelineID string `xml:"ram:GuidelineSpecifiedDocumentContextParameter>ram:ID"`
}

type ExchangedDocument struct {
	ID            string   `xml:"ram:ID"`
	TypeCode      string   `xml:"ram:TypeCode"`
	IssueDateTime DateTime `xml:"ram:IssueDateTime"`
}

// DateTime wraps a udt:DateTimeString.
type DateTime struct {
	DateTimeString DateTimeString `xml:"udt:DateTimeString"`
}

type DateTimeString struct {
	Format string `xml:"format,attr"`
	Value  string `xml:",chardata"`
}

type SupplyChainTradeTransaction struct {
	Lines      []LineItem            `xml:"ram:IncludedSupplyChainTradeLineItem"`
	Agreement  HeaderTradeAgreement  `xml:"ram:ApplicableHeaderTradeAgreement"`
	Delivery   HeaderTradeDelivery   `xml:"ram:ApplicableHeaderTradeDelivery"`
	Settlement HeaderTradeSettlement `xml:"ram:ApplicableHeaderTradeSettlement"`
}

type LineItem struct {
	LineID         string              `xml:"ram:AssociatedDocumentLineDocument>ram:LineID"`
	ProductName    string              `xml:"ram:SpecifiedTradeProduct>ram:Name"`
	NetPrice       string              `xml:"ram:SpecifiedLineTradeAgreement>ram:NetPriceProductTradePrice>ram:ChargeAmount"`
	BilledQuantity Quantity            `xml:"ram:SpecifiedLineTradeDelivery>ram:BilledQuantity"`
	Settlement     LineTradeSettlement `xml:"ram:SpecifiedLineTradeSettlement"`
}

type Quantity struct {
	UnitCode string `xml:"unitCode,attr"`
	Value    string `xml:",chardata"`
}

type LineTradeSettlement struct {
	TradeTax        TradeTax `xml:"ram:ApplicableTradeTax"`
	LineTotalAmount string   `xml:"ram:SpecifiedTradeSettlementLineMonetarySummation>ram:LineTotalAmount"`
}

// TradeTax is used both on lines (type, category, rate) and in the header
// breakdown, where amounts and exemption reasons are also set.
type TradeTax struct {
	CalculatedAmount      string `xml:"ram:CalculatedAmount,omitempty"`
	TypeCode              string `xml:"ram:TypeCode"`
	ExemptionReason       string `xml:"ram:ExemptionReason,omitempty"`
	BasisAmount           string `xml:"ram:BasisAmount,omitempty"`
	CategoryCode          string `xml:"ram:CategoryCode"`
	ExemptionReasonCode   string `xml:"ram:ExemptionReasonCode,omitempty"`
	RateApplicablePercent string `xml:"ram:RateApplicablePercent"`
}

type HeaderTradeAgreement struct {
	Seller   TradeParty          `xml:"ram:SellerTradeParty"`
	Buyer    TradeParty          `xml:"ram:BuyerTradeParty"`
	Contract *ReferencedDocument `xml:"ram:ContractReferencedDocument,omitempty"`
}

type ReferencedDocument struct {
	IssuerAssignedID string `xml:"ram:IssuerAssignedID"`
}

type TradeParty struct {
	GlobalID          *SchemeID          `xml:"ram:GlobalID,omitempty"`
	Name              string             `xml:"ram:Name"`
	LegalOrganization *LegalOrganization `xml:"ram:SpecifiedLegalOrganization,omitempty"`
	Address           TradeAddress       `xml:"ram:PostalTradeAddress"`
	Email             *SchemeID          `xml:"ram:URIUniversalCommunication>ram:URIID,omitempty"`
	TaxRegistration   *SchemeID          `xml:"ram:SpecifiedTaxRegistration>ram:ID,omitempty"`
}

// SchemeID is an identifier qualified by a schemeID attribute.
type SchemeID struct {
	SchemeID string `xml:"schemeID,attr"`
	Value    string `xml:",chardata"`
}

type LegalOrganization struct {
	ID                  SchemeID `xml:"ram:ID"`
	TradingBusinessName string   `xml:"ram:TradingBusinessName,omitempty"`
}

type TradeAddress struct {
	Postcode  string `xml:"ram:PostcodeCode,omitempty"`
	LineOne   string `xml:"ram:LineOne,omitempty"`
	City      string `xml:"ram:CityName,omitempty"`
	CountryID string `xml:"ram:CountryID"`
}

type HeaderTradeDelivery struct{}

type HeaderTradeSettlement struct {
	Currency       string                  `xml:"ram:InvoiceCurrencyCode"`
	PaymentMeans   []PaymentMeans          `xml:"ram:SpecifiedTradeSettlementPaymentMeans"`
	TradeTaxes     []TradeTax              `xml:"ram:ApplicableTradeTax"`
	BillingPeriod  *BillingPeriod          `xml:"ram:BillingSpecifiedPeriod,omitempty"`
	PaymentTerms   *PaymentTerms           `xml:"ram:SpecifiedTradePaymentTerms,omitempty"`
	MonetaryTotals HeaderMonetarySummation `xml:"ram:SpecifiedTradeSettlementHeaderMonetarySummation"`
}

type PaymentMeans struct {
	TypeCode    string               `xml:"ram:TypeCode"`
	Information string               `xml:"ram:Information,omitempty"`
	Account     *CreditorAccount     `xml:"ram:PayeePartyCreditorFinancialAccount,omitempty"`
	Institution *CreditorInstitution `xml:"ram:PayeeSpecifiedCreditorFinancialInstitution,omitempty"`
}

type CreditorAccount struct {
	IBAN        string `xml:"ram:IBANID"`
	AccountName string `xml:"ram:AccountName,omitempty"`
}

type CreditorInstitution struct {
	BIC string `xml:"ram:BICID"`
}

type BillingPeriod struct {
	Start DateTime `xml:"ram:StartDateTime"`
	End   DateTime `xml:"ram:EndDateTime"`
}

type PaymentTerms struct {
	Description string   `xml:"ram:Description,omitempty"`
	DueDate     DateTime `xml:"ram:DueDateDateTime"`
}

// Amount is a monetary amount with an optional currencyID attribute.
type Amount struct {
	CurrencyID string `xml:"currencyID,attr,omitempty"`
	Value      string `xml:",chardata"`
}

type HeaderMonetarySummation struct {
	LineTotal     string `xml:"ram:LineTotalAmount"`
	TaxBasisTotal string `xml:"ram:TaxBasisTotalAmount"`
	TaxTotal      Amount `xml:"ram:TaxTotalAmount"`
	GrandTotal    string `xml:"ram:GrandTotalAmount"`
	DuePayable    string `xml:"ram:DuePayableAmount"`
}

func ciiDate(t time.Time) DateTime {
	return DateTime{DateTimeString: DateTimeString{Format: DateFormat102, Value: format.CIIDate(t)}}
}
