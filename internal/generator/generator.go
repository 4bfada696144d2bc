// Package generator runs the full invoice pipeline: structural validation,
// computation, both template views and the CII document.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"facturx/internal/facturx"
	"facturx/internal/invoice"
	"facturx/internal/logger"
	"facturx/internal/validation"
	"facturx/internal/vat"
	"facturx/internal/viewmodel"
	"facturx/pkg/models"
	"facturx/pkg/services"
)

// Generator implements services.InvoiceGenerator.
type Generator struct {
	engine    *invoice.Engine
	assembler *facturx.Assembler
	validator *validation.Validator
	now       func() time.Time
	log       zerolog.Logger
}

var _ services.InvoiceGenerator = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithEngine sets the computation engine.
func WithEngine(e *invoice.Engine) Option {
	return func(g *Generator) {
		g.engine = e
	}
}

// WithAssembler sets the CII assembler.
func WithAssembler(a *facturx.Assembler) Option {
	return func(g *Generator) {
		g.assembler = a
	}
}

// WithValidator sets the structural validator. Pass nil to skip
// structural validation.
func WithValidator(v *validation.Validator) Option {
	return func(g *Generator) {
		g.validator = v
	}
}

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithLogger sets the generator logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// New creates a Generator with the French rate table and EN16931 profile
// unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		validator: validation.New(),
		now:       time.Now,
		log:       logger.WithComponent("generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.engine == nil {
		g.engine = invoice.NewEngine()
	}
	if g.assembler == nil {
		g.assembler = facturx.NewAssembler(vat.France())
	}
	return g
}

// Generate implements services.InvoiceGenerator.
func (g *Generator) Generate(ctx context.Context, input *models.InvoiceData, ref time.Time) (*services.GenerationResult, error) {
	const op = "Generate"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, invoice.ErrContextCanceled, err)
	}

	requestID := uuid.NewString()
	log := g.log.With().Str("request_id", requestID).Logger()

	number := ""
	if input != nil {
		number = input.InvoiceNumber
	}
	log.Debug().Str("invoice_number", number).Msg("Starting invoice generation")

	if g.validator != nil {
		if err := g.validator.Validate(input); err != nil {
			log.Warn().Err(err).Msg("Invoice input failed validation")
			return nil, invoice.WrapComputationError("Validate", err, number)
		}
	}

	facts, err := g.engine.Compute(input, ref)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute invoice")
		return nil, err
	}

	display, err := viewmodel.Display(facts)
	if err != nil {
		return nil, invoice.WrapComputationError("Display", err, number)
	}
	raw, err := viewmodel.Raw(facts)
	if err != nil {
		return nil, invoice.WrapComputationError("Raw", err, number)
	}

	doc, err := g.assembler.Build(facts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to assemble CII document")
		return nil, err
	}
	out, err := doc.Marshal()
	if err != nil {
		return nil, invoice.WrapComputationError("Marshal", err, number)
	}

	result := &services.GenerationResult{
		TemplateData:    display,
		RawTemplateData: raw,
		Document:        doc,
		XML:             out,
		Title:           Title(input),
		RequestID:       requestID,
		GeneratedAt:     g.now(),
	}

	log.Info().
		Str("invoice_number", number).
		Str("total", raw.TotalInvoiceAmount).
		Str("currency", facts.Currency).
		Str("profile", string(g.assembler.Profile())).
		Int("xml_bytes", len(out)).
		Msg("Invoice generated")

	return result, nil
}

// Title returns the invoice title used for document metadata and file
// names.
func Title(input *models.InvoiceData) string {
	return fmt.Sprintf("FACTURE N°%s - %s", input.InvoiceNumber, input.ClientInfo.Name)
}

// IsInputError reports whether err was caused by the invoice input rather
// than by the environment.
func IsInputError(err error) bool {
	for _, target := range []error{
		models.ErrInvalidInput,
		models.ErrMissingPrerequisite,
		models.ErrUnclassifiableRate,
		models.ErrInvalidIdentifier,
		models.ErrDateParse,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
