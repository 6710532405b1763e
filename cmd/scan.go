package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"foodshare/internal/bootstrap"
	"foodshare/internal/bootstrap/logging"
	"foodshare/internal/errs"
	riskuc "foodshare/internal/usecase/risk"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Score active listings and print the at-risk set",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		result, err := svc.ScanAtRisk(ctx)
		if err != nil {
			return errs.Wrap(err, "scan at-risk listings")
		}

		out := cmd.OutOrStdout()
		if result.ModelUnavailable {
			if _, err := fmt.Fprintln(out, "warning: risk model unavailable, no listings scored"); err != nil {
				return errs.Wrap(err, "write scan output")
			}
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSUPPLIER\tDAYS LEFT\tRISK\tTIER")
		for _, listing := range result.Listings {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.3f\t%s\n",
				listing.ListingID,
				listing.Title,
				listing.SupplierName,
				listing.TimeToExpiryDays,
				listing.Assessment.ExpiryProbability,
				listing.Assessment.Level,
			)
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush scan output")
		}

		if _, err := fmt.Fprintf(out, "at-risk listings: %d (high risk: %d)\n", len(result.Listings), result.HighRiskCount); err != nil {
			return errs.Wrap(err, "write scan output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
