package risk

import (
	"context"
	"errors"

	domainrisk "foodshare/internal/domain/risk"
	"foodshare/internal/errs"
)

// AssessInput carries the manual calculator's already-typed parameters.
// String-to-type conversion happens at the transport boundary, not here.
type AssessInput struct {
	Quantity           float64
	TimeToExpiryDays   float64
	ListingType        string
	HasMinimumQuantity bool
}

// Assess scores a single hypothetical listing. Unlike the dashboard scan it
// returns every tier, including low.
func (s *Service) Assess(ctx context.Context, input AssessInput) (domainrisk.Assessment, error) {
	if ctx == nil {
		return domainrisk.Assessment{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return domainrisk.Assessment{}, errs.Wrap(err, "check context")
	}
	if s.models == nil {
		return domainrisk.Assessment{}, errors.New("model provider is required")
	}

	listingType, err := domainrisk.ParseListingType(input.ListingType)
	if err != nil {
		return domainrisk.Assessment{}, err
	}

	model, err := s.models.Current(ctx)
	if err != nil {
		return domainrisk.Assessment{}, err
	}

	return domainrisk.Assess(model, domainrisk.ListingFeatures{
		Quantity:           input.Quantity,
		TimeToExpiryDays:   input.TimeToExpiryDays,
		ListingType:        listingType,
		HasMinimumQuantity: input.HasMinimumQuantity,
	})
}
