package services

import (
	"context"
	"time"

	"facturx/internal/facturx"
	"facturx/internal/viewmodel"
	"facturx/pkg/models"
)

// InvoiceGenerator turns validated invoice input into the template view
// model and the Factur-X CII document.
type InvoiceGenerator interface {
	// Generate computes one invoice. ref stands in for "today" in every
	// date rule. Either a complete result or an error is returned.
	Generate(ctx context.Context, input *models.InvoiceData, ref time.Time) (*GenerationResult, error)
}

// GenerationResult holds every output of one generation.
type GenerationResult struct {
	// TemplateData is the display-formatted view model.
	TemplateData *viewmodel.TemplateData `json:"template_data"`

	// RawTemplateData carries the same fields with undecorated amounts.
	RawTemplateData *viewmodel.TemplateData `json:"raw_template_data"`

	// Document is the assembled CII tree and XML its serialization.
	Document *facturx.CrossIndustryInvoice `json:"-"`
	XML      []byte                        `json:"-"`

	// Title names the invoice, e.g. "FACTURE N°FA-1 - Client SARL".
	Title string `json:"title"`

	RequestID   string    `json:"request_id"`
	GeneratedAt time.Time `json:"generated_at"`
}
