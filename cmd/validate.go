package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"facturx/internal/facturx/xsd"
	"facturx/internal/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate [invoice.xml...]",
	Short: "Validate CII XML documents against an XML schema",
	Long: `Validate one or more CII XML documents against the Factur-X schema of
the chosen profile.

Required environment variables (unless --xsd is given):
  FACTURX_XSD_PATH - Path to the CII schema (.xsd)`,
	Example: `  # Validate with the configured schema
  facturx validate "output/FACTURE N°FA-2025-001 - Bureau Martin SARL.xml"

  # Validate with an explicit schema
  facturx validate invoice.xml --xsd schemas/Factur-X_EN16931.xsd`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("xsd", "", "CII schema path (default: FACTURX_XSD_PATH)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("validate")

	xsdPath, _ := cmd.Flags().GetString("xsd")
	if xsdPath == "" {
		xsdPath = appConfig.XSDPath
	}

	v, err := xsd.New(xsdPath)
	if err != nil {
		if errors.Is(err, xsd.ErrSchemaNotConfigured) {
			return fmt.Errorf("no schema configured. Set --xsd or FACTURX_XSD_PATH")
		}
		return fmt.Errorf("failed to load CII schema: %w", err)
	}
	defer v.Free()

	failed := 0
	for _, path := range args {
		if err := v.ValidateFile(path); err != nil {
			failed++
			log.Warn().Err(err).Str("file", path).Msg("Document failed schema validation")
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", path)
	}

	log.Info().
		Int("files", len(args)).
		Int("failed", failed).
		Str("schema", v.SchemaPath()).
		Msg("Schema validation completed")

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed validation: %w", failed, len(args), xsd.ErrInvalidDocument)
	}
	return nil
}
