package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"facturx/internal/config"
	"facturx/internal/facturx/xsd"
	"facturx/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute and read by the subcommands.
var appConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:   "facturx",
	Short: "Factur-X CLI - French invoice computation and CII e-invoice generation",
	Long: `Factur-X CLI computes French invoices from a JSON description and
produces the data needed to render them: the template view of the invoice
and a Factur-X Cross Industry Invoice (CII) XML document.

Amounts, VAT breakdowns, billing and payment dates, identifier formatting
and the legal mentions required for French invoices are all derived from
the input file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Factur-X CLI executed")

		fmt.Println("Welcome to Factur-X CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the root command with the given configuration. A nil
// configuration falls back to config.Default.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")

	if cfg != nil {
		appConfig = cfg
	}

	err := rootCmd.Execute()
	xsd.Cleanup()

	if err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
