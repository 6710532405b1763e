package notify

import (
	"context"
	"errors"
	"log/slog"

	"foodshare/internal/bootstrap/logging"
	"foodshare/internal/ports"
)

// LogChannel is the fallback adapter used when no NATS URL is configured.
// Alerts land in the structured log instead of a broker.
type LogChannel struct{}

var _ ports.NotificationChannel = LogChannel{}

func NewLogChannel() LogChannel {
	return LogChannel{}
}

func (LogChannel) Publish(ctx context.Context, alert ports.ExpiryAlert) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	logging.Info(ctx, "expiry alert dispatched",
		slog.String("event_id", alert.EventID),
		slog.Uint64("listing_id", alert.ListingID),
		slog.String("listing_title", alert.ListingTitle),
		slog.Uint64("supplier_id", alert.SupplierID),
		slog.Float64("expiry_probability", alert.ExpiryProbability),
		slog.String("risk_level", alert.RiskLevel),
	)
	return nil
}
