package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"foodshare/internal/bootstrap"
	"foodshare/internal/bootstrap/logging"
	"foodshare/internal/errs"
	"foodshare/internal/httpapi"
	riskuc "foodshare/internal/usecase/risk"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the risk-scoring HTTP API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = app.Config.Server.Addr
		}

		// Fail fast when the artifact is unreadable instead of 503ing
		// every scoring request after startup.
		if _, err := app.Models.Current(ctx); err != nil {
			logging.Error(ctx, "risk model failed to load", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load risk model")
		}

		watchCtx, cancelWatch := context.WithCancel(ctx)
		defer cancelWatch()
		if app.Config.Model.Watch {
			go func() {
				if err := app.Models.Watch(watchCtx); err != nil {
					logging.Warn(watchCtx, "artifact watcher stopped", slog.Any("err", errs.Loggable(err)))
				}
			}()
		}

		server := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewRouter(svc),
			ReadHeaderTimeout: 5 * time.Second,
		}

		logging.Info(ctx, "risk api started", slog.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "risk api failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve risk api")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
