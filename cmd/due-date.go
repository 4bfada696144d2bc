package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"facturx/internal/dates"
	"facturx/internal/format"
	"facturx/internal/logger"
	"facturx/pkg/models"
)

var dueDateCmd = &cobra.Command{
	Use:   "due-date",
	Short: "Compute an invoice payment date",
	Long: `Compute the payment date of an invoice from its billing date and
payment period, the same way the generate command does.

With --business-days, weekends and the public holidays of --country are
skipped. Holidays are taken for the billing year and the next one.`,
	Example: `  # 30 calendar days after the billing date
  facturx due-date --billing-date 01/01/2025

  # 10 French business days
  facturx due-date --billing-date 24/12/2025 --days 10 --business-days`,
	Args: cobra.NoArgs,
	RunE: runDueDate,
}

func init() {
	rootCmd.AddCommand(dueDateCmd)

	dueDateCmd.Flags().String("billing-date", "", "Billing date as DD/MM/YYYY [REQUIRED]")
	dueDateCmd.Flags().Int("days", models.DefaultPaymentPeriodDays, "Payment period in days")
	dueDateCmd.Flags().Bool("business-days", false, "Count business days only")
	dueDateCmd.Flags().String("country", "", "Holiday calendar country (default: FACTURX_DEFAULT_COUNTRY)")

	_ = dueDateCmd.MarkFlagRequired("billing-date")
}

func runDueDate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("due-date")

	billingValue, _ := cmd.Flags().GetString("billing-date")
	days, _ := cmd.Flags().GetInt("days")
	businessDays, _ := cmd.Flags().GetBool("business-days")
	country, _ := cmd.Flags().GetString("country")

	if country == "" {
		country = appConfig.DefaultCountry
	}
	country = strings.ToUpper(country)

	billing, err := dates.Parse(billingValue, "--billing-date")
	if err != nil {
		return fmt.Errorf("billing date must be written as DD/MM/YYYY: %w", err)
	}

	details := models.PaymentPeriodDetails{
		NumberOfDays:     days,
		BusinessDaysOnly: businessDays,
	}
	due, err := dates.NewResolver().PaymentDate(details, billing, country, billing)
	if err != nil {
		log.Error().Err(err).Str("country", country).Msg("Failed to compute payment date")
		return fmt.Errorf("no holiday calendar for country %q: %w", country, err)
	}

	log.Debug().
		Time("billing", billing).
		Time("due", due).
		Msg("Payment date computed")

	fmt.Fprintln(cmd.OutOrStdout(), format.Date(due))
	return nil
}
