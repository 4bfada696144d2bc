// Package xsd validates CII documents against an XML schema using libxml2.
package xsd

import (
	"errors"
	"fmt"
	"os"
	"sync"

	xsdvalidate "github.com/terminalstatic/go-xsd-validate"
)

var (
	// ErrSchemaNotConfigured is returned when no schema path is given.
	ErrSchemaNotConfigured = errors.New("XSD schema path not configured")

	// ErrInvalidDocument is returned when the document fails validation.
	ErrInvalidDocument = errors.New("document does not conform to schema")
)

var (
	initMu      sync.Mutex
	initialized bool
)

// Validator holds a parsed schema. It must be released with Free.
type Validator struct {
	handler *xsdvalidate.XsdHandler
	path    string
}

// New parses the schema at schemaPath. libxml2 is initialized on first use.
func New(schemaPath string) (*Validator, error) {
	const op = "NewValidator"

	if schemaPath == "" {
		return nil, ErrSchemaNotConfigured
	}
	if _, err := os.Stat(schemaPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := initialize(); err != nil {
		return nil, fmt.Errorf("%s: initialize libxml2: %w", op, err)
	}

	handler, err := xsdvalidate.NewXsdHandlerUrl(schemaPath, xsdvalidate.ParsErrDefault)
	if err != nil {
		return nil, fmt.Errorf("%s: parse schema %s: %w", op, schemaPath, err)
	}
	return &Validator{handler: handler, path: schemaPath}, nil
}

// Validate checks an in-memory document.
func (v *Validator) Validate(doc []byte) error {
	if err := v.handler.ValidateMem(doc, xsdvalidate.ValidErrDefault); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// ValidateFile reads and checks the document at path.
func (v *Validator) ValidateFile(path string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return v.Validate(doc)
}

// SchemaPath returns the schema location.
func (v *Validator) SchemaPath() string {
	return v.path
}

// Free releases the parsed schema.
func (v *Validator) Free() {
	if v.handler != nil {
		v.handler.Free()
		v.handler = nil
	}
}

func initialize() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initialized {
		return nil
	}
	if err := xsdvalidate.Init(); err != nil {
		return err
	}
	initialized = true
	return nil
}

// Cleanup releases libxml2 global state once every Validator has been
// freed. It is a no-op when no Validator was ever created.
func Cleanup() {
	initMu.Lock()
	defer initMu.Unlock()
	if !initialized {
		return
	}
	xsdvalidate.Cleanup()
	initialized = false
}
