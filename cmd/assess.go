package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"foodshare/internal/bootstrap"
	"foodshare/internal/bootstrap/logging"
	"foodshare/internal/errs"
	riskuc "foodshare/internal/usecase/risk"
)

// assessCmd is the CLI twin of the dashboard's manual risk calculator.
var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score one hypothetical listing",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		quantity, _ := cmd.Flags().GetFloat64("quantity")
		timeToExpiry, _ := cmd.Flags().GetFloat64("time-to-expiry")
		listingType, _ := cmd.Flags().GetString("listing-type")
		hasMinimum, _ := cmd.Flags().GetBool("has-min-quantity")

		assessment, err := svc.Assess(ctx, riskuc.AssessInput{
			Quantity:           quantity,
			TimeToExpiryDays:   timeToExpiry,
			ListingType:        listingType,
			HasMinimumQuantity: hasMinimum,
		})
		if err != nil {
			return errs.Wrap(err, "assess listing")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "expiry probability: %.3f\nrisk level: %s\n",
			assessment.ExpiryProbability, assessment.Level); err != nil {
			return errs.Wrap(err, "write assess output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().Float64("quantity", 0, "Listing quantity (must be > 0)")
	assessCmd.Flags().Float64("time-to-expiry", 0, "Days until expiry (must be >= 0)")
	assessCmd.Flags().String("listing-type", "", "COMMERCIAL, DONATION or NONPROFIT_ONLY")
	assessCmd.Flags().Bool("has-min-quantity", false, "Listing sets a minimum redeemable quantity")
	_ = assessCmd.MarkFlagRequired("quantity")
	_ = assessCmd.MarkFlagRequired("time-to-expiry")
	_ = assessCmd.MarkFlagRequired("listing-type")
}
