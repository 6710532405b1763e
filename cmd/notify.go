package cmd

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"foodshare/internal/bootstrap"
	"foodshare/internal/bootstrap/logging"
	"foodshare/internal/errs"
	riskuc "foodshare/internal/usecase/risk"
)

var notifyCmd = &cobra.Command{
	Use:   "notify <listing-id>",
	Short: "Send an expiry alert to a listing's supplier",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		listingID, err := strconv.ParseUint(cmd.Flags().Arg(0), 10, 64)
		if err != nil {
			return errs.Wrapf(err, "parse listing id %q", cmd.Flags().Arg(0))
		}

		result, err := svc.NotifySupplier(ctx, listingID)
		if err != nil {
			return errs.Wrap(err, "notify supplier")
		}

		out := cmd.OutOrStdout()
		if result.Suppressed {
			_, err = fmt.Fprintf(out, "suppressed: %s\n", result.Message)
		} else {
			_, err = fmt.Fprintf(out, "sent %s: %s\n", result.EventID, result.Message)
		}
		if err != nil {
			return errs.Wrap(err, "write notify output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}
