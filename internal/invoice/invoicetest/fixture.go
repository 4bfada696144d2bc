// Package invoicetest provides invoice inputs for tests.
package invoicetest

import "facturx/pkg/models"

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Sample returns a complete invoice collecting VAT on one line
// (100.00 x 2 at 20%), billed to a professional client on 01/01/2025 with a
// 30 calendar days payment period. Each call returns a fresh value.
func Sample() *models.InvoiceData {
	return &models.InvoiceData{
		InvoiceNumber: "FA-2025-001",
		CollectVAT:    true,
		InvoicerInfo: models.InvoicerInfo{
			Name:                   "Atelier Dupont",
			TradeName:              Ptr("Dupont Menuiserie"),
			AddressLine1:           "12 rue des Lilas",
			Postcode:               "75011",
			City:                   "Paris",
			Email:                  "contact@dupont.fr",
			PhoneNumber:            "06 12 34 56 78",
			Website:                Ptr("dupont.fr"),
			SIREN:                  "732829320",
			SIRET:                  "73282932000074",
			IsCraftsman:            true,
			APECode:                Ptr("43.32A"),
			APRMCode:               Ptr("732829320RM075"),
			RegistrationDepartment: Ptr("75"),
		},
		ClientInfo: models.ClientInfo{
			Name:         "Bureau Martin SARL",
			AddressLine1: "3 avenue Foch",
			Postcode:     "69006",
			City:         "Lyon",
			IsPro:        true,
			SIREN:        Ptr("552100554"),
		},
		PaymentInfo: models.PaymentInfo{
			BankTransfersAccepted: true,
			IBAN:                  Ptr("FR76 3000 6000 0112 3456 7890 189"),
			BIC:                   Ptr("AGRIFRPP"),
			BankAddress:           Ptr("Crédit Agricole, 1 place de la Bourse, 75002 Paris"),
			ChequesAccepted:       true,
			Payee:                 Ptr("Atelier Dupont"),
			CashAccepted:          true,
		},
		RcProInfo: &models.RcProInfo{
			Name:                 "Assurances Mutuelles",
			AddressLine1:         "8 boulevard Haussmann",
			AddressLine2:         "75009 Paris",
			GeographicalCoverage: "France métropolitaine",
		},
		InvoicedItems: []models.InvoicedItem{
			{Name: "Pose de parquet", Price: 100, Quantity: 2, VATRate: Ptr(20.0)},
		},
		BillingDetails: models.BillingDetails{
			BillingPeriodStart: Ptr("01/12/2024"),
			BillingPeriodEnd:   Ptr("31/12/2024"),
			BillingDate:        Ptr("01/01/2025"),
			PaymentPeriodDetails: models.PaymentPeriodDetails{
				NumberOfDays: 30,
			},
		},
		ContractNumber: Ptr("CT-42"),
	}
}

// NoVAT returns Sample with VAT collection disabled and two lines.
func NoVAT() *models.InvoiceData {
	in := Sample()
	in.CollectVAT = false
	in.InvoicedItems = []models.InvoicedItem{
		{Name: "Pose de parquet", Price: 100, Quantity: 2},
		{Name: "Fournitures", Price: 12.5, Quantity: 3, VATRate: Ptr(20.0)},
	}
	return in
}
