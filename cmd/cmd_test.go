package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturx/internal/facturx"
	"facturx/internal/facturx/xsd"
	"facturx/internal/invoice"
	"facturx/internal/invoice/invoicetest"
	"facturx/internal/metrics"
	"facturx/pkg/models"
)

var ref = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func writeInvoice(t *testing.T, dir, name string, in *models.InvoiceData) string {
	t.Helper()
	data, err := json.Marshal(in)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestGenerateAll(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	second := invoicetest.NoVAT()
	second.InvoiceNumber = "FA/2025/002"
	paths := []string{
		writeInvoice(t, in, "first.json", invoicetest.Sample()),
		writeInvoice(t, in, "second.json", second),
	}

	results, err := generateAll(context.Background(), newGenerator(facturx.ProfileEN16931), paths, generateOptions{outputDir: out, ref: ref}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, paths[0], first.Input)
	assert.Equal(t, "FACTURE N°FA-2025-001 - Bureau Martin SARL", first.Title)
	assert.Equal(t, "240,00", first.Total)
	assert.Equal(t, "EUR", first.Currency)
	assert.NotEmpty(t, first.RequestID)

	jsonData, err := os.ReadFile(first.JSONPath)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"total_invoice_amount": "240,00"`)

	xmlData, err := os.ReadFile(first.XMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(xmlData), "<ram:GrandTotalAmount>240.00</ram:GrandTotalAmount>")

	assert.Equal(t, filepath.Join(out, "FACTURE N°FA-2025-002 - Bureau Martin SARL.xml"), results[1].XMLPath)
	assert.FileExists(t, results[1].JSONPath)
}

func TestGenerateAllRaw(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	paths := []string{writeInvoice(t, in, "invoice.json", invoicetest.Sample())}

	results, err := generateAll(context.Background(), newGenerator(facturx.ProfileBasic), paths, generateOptions{outputDir: out, raw: true, ref: ref}, 1)
	require.NoError(t, err)

	jsonData, err := os.ReadFile(results[0].JSONPath)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"total_invoice_amount": "240.00"`)

	xmlData, err := os.ReadFile(results[0].XMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(xmlData), "urn:factur-x.eu:1p0:basic")
}

func TestGenerateAllErrors(t *testing.T) {
	in := t.TempDir()

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(in, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"invoice_number": 12}`), 0o644))

		_, err := generateAll(context.Background(), newGenerator(facturx.ProfileEN16931), []string{path}, generateOptions{outputDir: t.TempDir(), ref: ref}, 1)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
		assert.Contains(t, err.Error(), path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := generateAll(context.Background(), newGenerator(facturx.ProfileEN16931), []string{filepath.Join(in, "nope.json")}, generateOptions{outputDir: t.TempDir(), ref: ref}, 1)
		assert.ErrorContains(t, err, "invoice file not found")
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := writeInvoice(t, in, "ok.json", invoicetest.Sample())

		_, err := generateAll(ctx, newGenerator(facturx.ProfileEN16931), []string{path}, generateOptions{outputDir: t.TempDir(), ref: ref}, 1)
		assert.Error(t, err)
	})
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "FACTURE N°FA-2025-001 - Client", outputFileName("FACTURE N°FA/2025/001 - Client"))
	assert.Equal(t, "a-b", outputFileName(`a\b`))
}

func TestHandleGenerateError(t *testing.T) {
	log := zerolog.Nop()

	tests := []struct {
		name   string
		err    error
		target error
		msg    string
	}{
		{
			name:   "validation",
			err:    models.ValidationErrors{{Field: "client_info.name", Message: "is required"}},
			target: models.ErrInvalidInput,
			msg:    "client_info.name",
		},
		{
			name:   "missing prerequisite",
			err:    models.NewFieldError("ComputeLine", "invoiced_items[0].vat_rate", nil, models.ErrMissingPrerequisite),
			target: models.ErrMissingPrerequisite,
			msg:    "invoiced_items[0].vat_rate is required",
		},
		{
			name:   "unclassifiable",
			err:    models.NewFieldError("ClassifyRate", "vat_rate", "7.0", models.ErrUnclassifiableRate),
			target: models.ErrUnclassifiableRate,
			msg:    "French rates",
		},
		{
			name:   "date",
			err:    models.NewFieldError("ParseDate", "billing_details.billing_date", "2025-01-01", models.ErrDateParse),
			target: models.ErrDateParse,
			msg:    "DD/MM/YYYY",
		},
		{
			name:   "canceled",
			err:    invoice.ErrContextCanceled,
			target: invoice.ErrContextCanceled,
			msg:    "canceled",
		},
		{
			name:   "schema",
			err:    xsd.ErrInvalidDocument,
			target: xsd.ErrInvalidDocument,
			msg:    "does not conform",
		},
		{
			name: "other",
			err:  errors.New("disk full"),
			msg:  "invoice generation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handleGenerateError(tt.err, log)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVATNumberCommand(t *testing.T) {
	out, err := runRoot(t, "vat-number", "732 829 320")
	require.NoError(t, err)
	assert.Equal(t, "FR44732829320\nFR 44 732829320\n", out)

	_, err = runRoot(t, "vat-number", "12345")
	assert.ErrorContains(t, err, "exactly 9 digits")
}

func TestDueDateCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "calendar days",
			args: []string{"due-date", "--billing-date", "01/01/2025", "--days", "30", "--business-days=false"},
			want: "31/01/2025",
		},
		{
			name: "french business days over new year",
			args: []string{"due-date", "--billing-date", "24/12/2025", "--days", "10", "--business-days", "--country", "fr"},
			want: "09/01/2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runRoot(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestDueDateCommandUnknownCountry(t *testing.T) {
	_, err := runRoot(t, "due-date", "--billing-date", "01/01/2025", "--days", "5", "--business-days", "--country", "ZZ")
	assert.ErrorIs(t, err, models.ErrMissingPrerequisite)
}

func TestValidateCommandNeedsSchema(t *testing.T) {
	appConfig.XSDPath = ""
	_, err := runRoot(t, "validate", "invoice.xml", "--xsd", "")
	assert.ErrorContains(t, err, "no schema configured")
}

func TestGenerateAllRecordsMetrics(t *testing.T) {
	in := t.TempDir()
	broken := filepath.Join(in, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`not json`), 0o644))

	rec := metrics.New()
	opts := generateOptions{outputDir: t.TempDir(), ref: ref, profile: facturx.ProfileEN16931, metrics: rec}

	_, err := generateAll(context.Background(), newGenerator(facturx.ProfileEN16931), []string{writeInvoice(t, in, "ok.json", invoicetest.Sample())}, opts, 1)
	require.NoError(t, err)
	_, err = generateAll(context.Background(), newGenerator(facturx.ProfileEN16931), []string{broken}, opts, 1)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "facturx.prom")
	require.NoError(t, rec.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `facturx_invoices_generated_total{profile="EN16931"} 1`)
	assert.Contains(t, string(data), `facturx_invoices_failed_total{reason="invalid_input"} 1`)
}

func TestGenerateFileNoPartialOutput(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	path := writeInvoice(t, in, "invoice.json", invoicetest.Sample())

	base := filepath.Join(out, "FACTURE N°FA-2025-001 - Bureau Martin SARL")
	require.NoError(t, os.Mkdir(base+".xml", 0o755))

	res, err := generateFile(context.Background(), newGenerator(facturx.ProfileEN16931), path, generateOptions{outputDir: out, ref: ref})
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "failed to write CII document")
	assert.NoFileExists(t, base+".json")
}

func TestGenerateCommandUsesConfiguredProfile(t *testing.T) {
	saved := *appConfig
	t.Cleanup(func() { *appConfig = saved })
	appConfig.Profile = "BASIC"

	in := t.TempDir()
	out := t.TempDir()
	path := writeInvoice(t, in, "invoice.json", invoicetest.Sample())

	_, err := runRoot(t, "generate", path, "-o", out, "--today", "15/01/2025")
	require.NoError(t, err)

	xmlData, err := os.ReadFile(filepath.Join(out, "FACTURE N°FA-2025-001 - Bureau Martin SARL.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(xmlData), "urn:factur-x.eu:1p0:basic")
}
