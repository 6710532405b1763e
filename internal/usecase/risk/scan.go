package risk

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"foodshare/internal/bootstrap/logging"
	domainrisk "foodshare/internal/domain/risk"
	"foodshare/internal/errs"
	"foodshare/internal/ports"
)

const hoursPerDay = 24

// AtRiskListing is the scanner's per-listing view model, rebuilt on every
// scan because time to expiry moves continuously.
type AtRiskListing struct {
	ListingID        uint64
	Title            string
	SupplierID       uint64
	SupplierName     string
	TimeToExpiryDays float64
	Assessment       domainrisk.Assessment
}

type ScanResult struct {
	Listings      []AtRiskListing
	HighRiskCount int

	// ModelUnavailable degrades the dashboard to an empty table with a
	// warning banner instead of failing the whole page.
	ModelUnavailable bool
}

// ScanAtRisk scores every active unclaimed listing and returns the medium
// and high tiers, highest probability first, soonest expiry breaking ties.
func (s *Service) ScanAtRisk(ctx context.Context) (ScanResult, error) {
	if ctx == nil {
		return ScanResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ScanResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return ScanResult{}, errors.New("listing repository is required")
	}
	if s.models == nil {
		return ScanResult{}, errors.New("model provider is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.risk.scan"))

	model, err := s.models.Current(ctx)
	if err != nil {
		if errors.Is(err, domainrisk.ErrModelUnavailable) {
			logging.Warn(logCtx, "risk model unavailable, degrading scan to empty result", slog.Any("err", errs.Loggable(err)))
			return ScanResult{ModelUnavailable: true}, nil
		}
		return ScanResult{}, errs.Wrap(err, "resolve risk model")
	}

	listings, err := s.repo.ListActive(ctx)
	if err != nil {
		return ScanResult{}, errs.Wrap(err, "list active listings")
	}

	now := s.now()
	entries := make([]AtRiskListing, 0, len(listings))
	highRisk := 0

	for _, listing := range listings {
		days := listing.ExpiresAt.Sub(now).Hours() / hoursPerDay
		if days < 0 {
			// Already expired: terminal state, nothing left to predict.
			continue
		}

		assessment, err := domainrisk.Assess(model, listingFeatures(listing, days))
		if err != nil {
			// Partial results beat an all-or-nothing dashboard.
			logging.Warn(logCtx, "listing excluded from scan",
				slog.Uint64("listing_id", listing.ListingID),
				slog.Any("err", errs.Loggable(err)),
			)
			continue
		}

		if !assessment.Level.NeedsAttention() {
			continue
		}
		if assessment.Level == domainrisk.LevelHigh {
			highRisk++
		}

		entries = append(entries, AtRiskListing{
			ListingID:        listing.ListingID,
			Title:            listing.Title,
			SupplierID:       listing.SupplierID,
			SupplierName:     listing.SupplierName,
			TimeToExpiryDays: days,
			Assessment:       assessment,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Assessment.ExpiryProbability != entries[j].Assessment.ExpiryProbability {
			return entries[i].Assessment.ExpiryProbability > entries[j].Assessment.ExpiryProbability
		}
		if entries[i].TimeToExpiryDays != entries[j].TimeToExpiryDays {
			return entries[i].TimeToExpiryDays < entries[j].TimeToExpiryDays
		}
		return entries[i].ListingID < entries[j].ListingID
	})

	return ScanResult{
		Listings:      entries,
		HighRiskCount: highRisk,
	}, nil
}

func listingFeatures(listing ports.Listing, timeToExpiryDays float64) domainrisk.ListingFeatures {
	hasMinimum := listing.MinimumQuantity != nil && *listing.MinimumQuantity > 0

	return domainrisk.ListingFeatures{
		Quantity:           listing.Quantity,
		TimeToExpiryDays:   timeToExpiryDays,
		ListingType:        domainrisk.ListingType(listing.ListingType),
		HasMinimumQuantity: hasMinimum,
	}
}
