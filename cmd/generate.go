package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"facturx/internal/dates"
	"facturx/internal/facturx"
	"facturx/internal/facturx/xsd"
	"facturx/internal/generator"
	"facturx/internal/invoice"
	"facturx/internal/logger"
	"facturx/internal/metrics"
	"facturx/internal/vat"
	"facturx/pkg/models"
	"facturx/pkg/services"
)

var generateCmd = &cobra.Command{
	Use:   "generate [invoice.json...]",
	Short: "Compute invoices and write their template data and CII XML",
	Long: `Compute one or more invoices described as JSON and write, for each one,
the template data used to render the PDF and the Factur-X CII XML document.

Output files are named after the invoice title, "FACTURE N°{number} - {client}",
and written to the output directory as .json and .xml.

Files are processed in parallel. The first failing invoice stops the batch.

Relevant environment variables:
  FACTURX_PROFILE - CII profile (BASIC, EN16931, EXTENDED)
  FACTURX_OUTPUT_DIR - default output directory
  FACTURX_XSD_PATH - schema used by --validate
  FACTURX_DEFAULT_COUNTRY - country applied when the input has none
  FACTURX_DEFAULT_CURRENCY - currency applied when the input has none
  FACTURX_JOBS - number of invoices processed concurrently
  FACTURX_METRICS_FILE - Prometheus textfile written after each run`,
	Example: `  # Generate one invoice into ./output
  facturx generate invoice.json

  # Generate a batch with raw (unformatted) template numbers
  facturx generate invoices/*.json -o build --raw

  # Pin the reference date used for "today" and end-of-month billing
  facturx generate invoice.json --today 31/01/2025

  # Validate every generated XML against a CII schema
  facturx generate invoice.json --validate --xsd schemas/Factur-X_EN16931.xsd

  # Export run metrics for the node_exporter textfile collector
  facturx generate invoices/*.json --metrics-file /var/lib/node_exporter/facturx.prom`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

// generateOptions carries the per-run settings shared by every file.
type generateOptions struct {
	outputDir string
	raw       bool
	ref       time.Time
	profile   facturx.Profile
	schema    *schemaCheck
	metrics   *metrics.Recorder
}

// fileResult summarizes one generated invoice.
type fileResult struct {
	Input     string
	Title     string
	JSONPath  string
	XMLPath   string
	Total     string
	Currency  string
	RequestID string
}

// schemaCheck serializes access to the libxml2 schema handler.
type schemaCheck struct {
	mu        sync.Mutex
	validator *xsd.Validator
}

func (s *schemaCheck) validate(doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validator.Validate(doc)
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", "", "Output directory (default: FACTURX_OUTPUT_DIR)")
	generateCmd.Flags().Bool("raw", false, "Write raw dot-decimal numbers instead of French display formatting")
	generateCmd.Flags().String("profile", "", "Factur-X profile: BASIC, EN16931 or EXTENDED (default: FACTURX_PROFILE)")
	generateCmd.Flags().String("today", "", "Reference date as DD/MM/YYYY (default: current date)")
	generateCmd.Flags().Bool("validate", false, "Validate generated XML against the CII schema")
	generateCmd.Flags().String("xsd", "", "CII schema path (default: FACTURX_XSD_PATH)")
	generateCmd.Flags().IntP("jobs", "j", 0, "Invoices processed concurrently (default: FACTURX_JOBS)")
	generateCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file (default: FACTURX_METRICS_FILE)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("generate")

	outputDir, _ := cmd.Flags().GetString("output")
	raw, _ := cmd.Flags().GetBool("raw")
	profileName, _ := cmd.Flags().GetString("profile")
	today, _ := cmd.Flags().GetString("today")
	validate, _ := cmd.Flags().GetBool("validate")
	xsdPath, _ := cmd.Flags().GetString("xsd")
	jobs, _ := cmd.Flags().GetInt("jobs")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	if outputDir == "" {
		outputDir = appConfig.OutputDir
	}
	if xsdPath == "" {
		xsdPath = appConfig.XSDPath
	}
	if jobs < 1 {
		jobs = appConfig.Jobs
	}
	if metricsFile == "" {
		metricsFile = appConfig.MetricsFile
	}

	profile := appConfig.GetProfile()
	if profileName != "" {
		var err error
		if profile, err = facturx.ParseProfile(profileName); err != nil {
			return err
		}
	}

	ref := time.Now()
	if today != "" {
		var err error
		if ref, err = dates.Parse(today, "--today"); err != nil {
			return err
		}
	}

	opts := generateOptions{
		outputDir: outputDir,
		raw:       raw,
		ref:       ref,
		profile:   profile,
		metrics:   metrics.New(),
	}
	if validate {
		v, err := xsd.New(xsdPath)
		if err != nil {
			if errors.Is(err, xsd.ErrSchemaNotConfigured) {
				return fmt.Errorf("--validate needs a schema. Set --xsd or FACTURX_XSD_PATH")
			}
			return fmt.Errorf("failed to load CII schema: %w", err)
		}
		defer v.Free()
		opts.schema = &schemaCheck{validator: v}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	log.Info().
		Int("files", len(args)).
		Str("output", outputDir).
		Str("profile", string(profile)).
		Bool("raw", raw).
		Bool("validate", validate).
		Int("jobs", jobs).
		Msg("Starting invoice generation")

	ctx, cancel := createGenerateContext(log)
	defer cancel()

	gen := newGenerator(profile)
	results, err := generateAll(ctx, gen, args, opts, jobs)

	if metricsFile != "" {
		opts.metrics.Finished(time.Now())
		if werr := opts.metrics.WriteTextfile(metricsFile); werr != nil {
			log.Warn().Err(werr).Str("file", metricsFile).Msg("Failed to write metrics file")
		}
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		fmt.Printf("✓ %s → %s (%s %s)\n", res.Input, res.Title, res.Total, res.Currency)
	}
	if err != nil {
		return err
	}

	log.Info().
		Int("files", len(args)).
		Msg("Invoice generation completed successfully")
	return nil
}

// newGenerator wires the computation engine and the CII assembler from the
// application configuration.
func newGenerator(profile facturx.Profile) *generator.Generator {
	return generator.New(
		generator.WithEngine(invoice.NewEngine(
			invoice.WithDefaults(appConfig.DefaultCountry, appConfig.DefaultCurrency),
		)),
		generator.WithAssembler(facturx.NewAssembler(vat.France(), facturx.WithProfile(profile))),
	)
}

// generateAll processes paths with at most jobs files in flight. Results
// keep the order of paths; failed entries are nil.
func generateAll(ctx context.Context, gen services.InvoiceGenerator, paths []string, opts generateOptions, jobs int) ([]*fileResult, error) {
	results := make([]*fileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			start := time.Now()
			res, err := generateFile(gctx, gen, path, opts)
			if err != nil {
				if opts.metrics != nil {
					opts.metrics.Failed(err)
				}
				return fmt.Errorf("%s: %w", path, err)
			}
			if opts.metrics != nil {
				opts.metrics.Generated(string(opts.profile), time.Since(start))
			}
			results[i] = res
			return nil
		})
	}

	return results, g.Wait()
}

// generateFile decodes one invoice, generates it and writes both outputs.
func generateFile(ctx context.Context, gen services.InvoiceGenerator, path string, opts generateOptions) (*fileResult, error) {
	log := logger.WithFile("generate", path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("invoice file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open invoice file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close invoice file")
		}
	}()

	input, err := models.DecodeInvoiceData(f)
	if err != nil {
		return nil, handleGenerateError(err, log)
	}

	res, err := gen.Generate(ctx, input, opts.ref)
	if err != nil {
		return nil, handleGenerateError(err, log)
	}
	log = logger.WithRequestID("generate", res.RequestID).With().Str("file", path).Logger()

	if opts.schema != nil {
		if err := opts.schema.validate(res.XML); err != nil {
			return nil, handleGenerateError(err, log)
		}
		log.Debug().Msg("CII document conforms to schema")
	}

	data := res.TemplateData
	if opts.raw {
		data = res.RawTemplateData
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template data: %w", err)
	}

	base := filepath.Join(opts.outputDir, outputFileName(res.Title))
	jsonPath, xmlPath := base+".json", base+".xml"

	if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write template data: %w", err)
	}
	if err := os.WriteFile(xmlPath, res.XML, 0o644); err != nil {
		if rmErr := os.Remove(jsonPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Err(rmErr).Str("json", jsonPath).Msg("Failed to remove template data")
		}
		return nil, fmt.Errorf("failed to write CII document: %w", err)
	}

	log.Info().
		Str("json", jsonPath).
		Str("xml", xmlPath).
		Msg("Invoice written")

	return &fileResult{
		Input:     path,
		Title:     res.Title,
		JSONPath:  jsonPath,
		XMLPath:   xmlPath,
		Total:     res.TemplateData.TotalInvoiceAmount,
		Currency:  res.RawTemplateData.CurrencyCode,
		RequestID: res.RequestID,
	}, nil
}

var fileNameReplacer = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

// outputFileName turns an invoice title into a file name.
func outputFileName(title string) string {
	return fileNameReplacer.Replace(title)
}

// createGenerateContext returns a context canceled on interrupt.
func createGenerateContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling invoice generation")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleGenerateError provides user-friendly error messages for generation
// failures. The cause stays wrapped.
func handleGenerateError(err error, log zerolog.Logger) error {
	if generator.IsInputError(err) {
		log.Warn().Err(err).Msg("Invoice input rejected")
	} else {
		log.Error().Err(err).Msg("Invoice generation failed")
	}

	var fieldErr *models.FieldError
	var validationErrs models.ValidationErrors

	switch {
	case errors.Is(err, invoice.ErrContextCanceled):
		return fmt.Errorf("invoice generation was canceled: %w", err)
	case errors.As(err, &validationErrs):
		lines := make([]string, 0, len(validationErrs))
		for _, v := range validationErrs {
			lines = append(lines, "  - "+v.Error())
		}
		return fmt.Errorf("invoice input is invalid:\n%s\n%w", strings.Join(lines, "\n"), models.ErrInvalidInput)
	case errors.Is(err, models.ErrInvalidInput):
		return fmt.Errorf("invoice file is not a valid invoice JSON document: %w", err)
	case errors.Is(err, models.ErrMissingPrerequisite) && errors.As(err, &fieldErr):
		return fmt.Errorf("%s is required for this invoice: %w", fieldErr.Field, err)
	case errors.Is(err, models.ErrUnclassifiableRate):
		return fmt.Errorf("VAT rate is not one of the French rates (20, 10, 5.5, 2.1, 0): %w", err)
	case errors.Is(err, models.ErrInvalidIdentifier):
		return fmt.Errorf("SIREN must have 9 digits and SIRET 14 digits: %w", err)
	case errors.Is(err, models.ErrDateParse):
		return fmt.Errorf("dates must be written as DD/MM/YYYY: %w", err)
	case errors.Is(err, xsd.ErrInvalidDocument):
		return fmt.Errorf("generated CII document does not conform to the schema: %w", err)
	default:
		return fmt.Errorf("invoice generation failed: %w", err)
	}
}
