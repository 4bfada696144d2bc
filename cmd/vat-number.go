package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"facturx/internal/format"
	"facturx/internal/logger"
	"facturx/pkg/models"
)

var vatNumberCmd = &cobra.Command{
	Use:   "vat-number [siren]",
	Short: "Derive the French intra-community VAT number from a SIREN",
	Long: `Derive the French intra-community VAT number of a company from its
9-digit SIREN. The two-digit key is (12 + 3 x (SIREN mod 97)) mod 97.

Spaces in the SIREN are ignored.`,
	Example: `  # Print the compact and grouped VAT numbers
  facturx vat-number 732829320

  # JSON output
  facturx vat-number "732 829 320" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runVATNumber,
}

// VATNumberOutput is the JSON output of the vat-number command.
type VATNumberOutput struct {
	SIREN   string `json:"siren"`
	VAT     string `json:"vat_number"`
	Grouped string `json:"vat_number_grouped"`
}

func init() {
	rootCmd.AddCommand(vatNumberCmd)

	vatNumberCmd.Flags().Bool("json", false, "Output as JSON")
}

func runVATNumber(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("vat-number")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	siren := format.Compact(args[0])
	grouped, err := format.VATNumber(siren)
	if err != nil {
		log.Error().Err(err).Str("siren", siren).Msg("Failed to derive VAT number")
		if errors.Is(err, models.ErrInvalidIdentifier) {
			return fmt.Errorf("SIREN must have exactly 9 digits, got %q", args[0])
		}
		return err
	}

	out := VATNumberOutput{
		SIREN:   siren,
		VAT:     format.Compact(grouped),
		Grouped: grouped,
	}

	if jsonOutput {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", out.VAT, out.Grouped)
	return nil
}
