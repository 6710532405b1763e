package risk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"foodshare/internal/bootstrap/logging"
	domainrisk "foodshare/internal/domain/risk"
	"foodshare/internal/errs"
	"foodshare/internal/ports"
)

type NotifyResult struct {
	Suppressed bool
	EventID    string
	Message    string
}

// NotifySupplier re-scores the listing and dispatches an expiry alert to
// its supplier. Repeat alerts for the same listing inside the dedup window
// are suppressed and reported as success.
func (s *Service) NotifySupplier(ctx context.Context, listingID uint64) (NotifyResult, error) {
	if ctx == nil {
		return NotifyResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return NotifyResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return NotifyResult{}, errors.New("listing repository is required")
	}
	if s.channel == nil {
		return NotifyResult{}, errors.New("notification channel is required")
	}
	if s.uow == nil {
		return NotifyResult{}, errors.New("unit of work is required")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.risk.notify"),
		slog.Uint64("listing_id", listingID),
	)

	listing, err := s.repo.GetListing(ctx, listingID)
	if err != nil {
		return NotifyResult{}, err
	}

	now := s.now()
	days := listing.ExpiresAt.Sub(now).Hours() / hoursPerDay
	if days < 0 {
		return NotifyResult{}, fmt.Errorf("%w: listing %d already expired", domainrisk.ErrInvalidInput, listingID)
	}

	model, err := s.models.Current(ctx)
	if err != nil {
		return NotifyResult{}, err
	}

	assessment, err := domainrisk.Assess(model, listingFeatures(listing, days))
	if err != nil {
		return NotifyResult{}, err
	}

	dedupKey := fmt.Sprintf("notify:listing:%d", listingID)
	if lastSent, found, err := s.lastNotifiedAt(ctx, dedupKey); err != nil {
		return NotifyResult{}, err
	} else if found && now.Sub(lastSent) < s.dedupWindow {
		logging.Info(logCtx, "expiry alert suppressed by dedup window",
			slog.Time("last_sent", lastSent),
			slog.Duration("window", s.dedupWindow),
		)
		return NotifyResult{
			Suppressed: true,
			Message:    fmt.Sprintf("supplier already notified at %s", lastSent.Format(time.RFC3339)),
		}, nil
	}

	alert := ports.ExpiryAlert{
		EventID:           uuid.NewString(),
		ListingID:         listing.ListingID,
		ListingTitle:      listing.Title,
		SupplierID:        listing.SupplierID,
		SupplierName:      listing.SupplierName,
		ExpiryProbability: assessment.ExpiryProbability,
		RiskLevel:         string(assessment.Level),
		TimeToExpiryDays:  days,
		SentAt:            now.UTC(),
	}

	// Publish before the audit write: a missed audit row can at worst cause
	// one duplicate alert later, while an audit row for an unsent alert
	// would suppress a real one.
	if err := s.channel.Publish(ctx, alert); err != nil {
		return NotifyResult{}, errs.Wrap(err, "publish expiry alert")
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.RecordNotification(txCtx, ports.NotificationRecord{
			NotificationID: alert.EventID,
			ListingID:      alert.ListingID,
			SupplierID:     alert.SupplierID,
			Probability:    alert.ExpiryProbability,
			RiskLevel:      alert.RiskLevel,
			SentAt:         alert.SentAt.Format(time.RFC3339Nano),
		}); err != nil {
			return err
		}
		return s.cache.Set(txCtx, dedupKey, alert.SentAt.Format(time.RFC3339Nano), s.dedupWindow)
	}); err != nil {
		return NotifyResult{}, errs.Wrap(err, "record notification")
	}

	logging.Info(logCtx, "expiry alert dispatched",
		slog.String("event_id", alert.EventID),
		slog.Float64("expiry_probability", alert.ExpiryProbability),
		slog.String("risk_level", alert.RiskLevel),
	)

	return NotifyResult{
		EventID: alert.EventID,
		Message: fmt.Sprintf("supplier %s notified about listing %q", listing.SupplierName, listing.Title),
	}, nil
}

func (s *Service) lastNotifiedAt(ctx context.Context, key string) (time.Time, bool, error) {
	if s.cache == nil {
		return time.Time{}, false, nil
	}

	value, found, err := s.cache.Get(ctx, key)
	if err != nil {
		return time.Time{}, false, errs.Wrap(err, "read dedup key")
	}
	if !found {
		return time.Time{}, false, nil
	}

	sentAt, parseErr := time.Parse(time.RFC3339Nano, value)
	if parseErr != nil {
		// Corrupt marker: drop it rather than blocking alerts forever.
		_ = s.cache.Delete(ctx, key)
		return time.Time{}, false, nil
	}
	return sentAt, true, nil
}
