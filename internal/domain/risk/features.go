// Package risk scores surplus-food listings for the likelihood of expiring
// unclaimed. The encoder, model and tier mapper are pure functions; the
// encoding scheme is a versioned contract with the trained model artifact.
package risk

import (
	"fmt"
	"math"
	"strings"
)

// ListingType is the claim-audience category of a listing.
type ListingType string

const (
	TypeCommercial    ListingType = "COMMERCIAL"
	TypeDonation      ListingType = "DONATION"
	TypeNonprofitOnly ListingType = "NONPROFIT_ONLY"
)

// ParseListingType normalizes a raw string into a ListingType.
func ParseListingType(raw string) (ListingType, error) {
	switch ListingType(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeCommercial:
		return TypeCommercial, nil
	case TypeDonation:
		return TypeDonation, nil
	case TypeNonprofitOnly:
		return TypeNonprofitOnly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
}

// ListingFeatures are the raw inputs of one scoring call.
type ListingFeatures struct {
	Quantity           float64
	TimeToExpiryDays   float64
	ListingType        ListingType
	HasMinimumQuantity bool
}

// EncodingVersion ties the feature layout to the model artifact. Changing
// the layout below requires retraining and bumping this together with the
// artifact's encoding field.
const EncodingVersion = "v1"

// FeatureCount is the fixed vector length produced by Encode.
const FeatureCount = 6

// FeatureVector is the numeric encoding consumed by a Model.
type FeatureVector []float64

// Encode maps listing attributes onto the v1 feature layout:
// [log1p(quantity), timeToExpiryDays, commercial, donation, nonprofitOnly,
// hasMinimumQuantity]. Deterministic, no side effects.
func Encode(f ListingFeatures) (FeatureVector, error) {
	if f.Quantity <= 0 || math.IsNaN(f.Quantity) || math.IsInf(f.Quantity, 0) {
		return nil, fmt.Errorf("%w: quantity must be > 0, got %v", ErrInvalidInput, f.Quantity)
	}
	if f.TimeToExpiryDays < 0 || math.IsNaN(f.TimeToExpiryDays) || math.IsInf(f.TimeToExpiryDays, 0) {
		return nil, fmt.Errorf("%w: time to expiry must be >= 0 days, got %v", ErrInvalidInput, f.TimeToExpiryDays)
	}

	vec := make(FeatureVector, FeatureCount)
	vec[0] = math.Log1p(f.Quantity)
	vec[1] = f.TimeToExpiryDays

	switch f.ListingType {
	case TypeCommercial:
		vec[2] = 1
	case TypeDonation:
		vec[3] = 1
	case TypeNonprofitOnly:
		vec[4] = 1
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, f.ListingType)
	}

	if f.HasMinimumQuantity {
		vec[5] = 1
	}
	return vec, nil
}
