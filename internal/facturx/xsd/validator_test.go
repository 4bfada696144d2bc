package xsd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturx/internal/facturx"
	"facturx/internal/invoice"
	"facturx/internal/invoice/invoicetest"
	"facturx/internal/vat"
)

const schema = "testdata/cii-root.xsd"

func TestMain(m *testing.M) {
	code := m.Run()
	Cleanup()
	os.Exit(code)
}

func sampleXML(t *testing.T) []byte {
	t.Helper()
	facts, err := invoice.NewEngine().Compute(invoicetest.Sample(), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	doc, err := facturx.NewAssembler(vat.France()).Build(facts)
	require.NoError(t, err)
	out, err := doc.Marshal()
	require.NoError(t, err)
	return out
}

func TestValidate(t *testing.T) {
	v, err := New(schema)
	require.NoError(t, err)
	defer v.Free()

	assert.NoError(t, v.Validate(sampleXML(t)))

	err = v.Validate([]byte(`<?xml version="1.0"?><rsm:CrossIndustryInvoice xmlns:rsm="` + facturx.NamespaceRSM + `"/>`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	err = v.Validate([]byte(`<rsm:CrossIndustryInvoice`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestValidateFile(t *testing.T) {
	v, err := New(schema)
	require.NoError(t, err)
	defer v.Free()

	path := filepath.Join(t.TempDir(), "invoice.xml")
	require.NoError(t, os.WriteFile(path, sampleXML(t), 0o644))
	assert.NoError(t, v.ValidateFile(path))

	assert.Error(t, v.ValidateFile(filepath.Join(t.TempDir(), "missing.xml")))
}

func TestNewErrors(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrSchemaNotConfigured)

	_, err = New("testdata/does-not-exist.xsd")
	assert.Error(t, err)
}
