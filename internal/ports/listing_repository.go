package ports

import (
	"context"
	"errors"
	"time"
)

var ErrListingNotFound = errors.New("listing not found")
var ErrSupplierNotFound = errors.New("supplier not found")

const (
	ListingStatusActive    = "ACTIVE"
	ListingStatusClaimed   = "CLAIMED"
	ListingStatusCompleted = "COMPLETED"
	ListingStatusExpired   = "EXPIRED"
)

// Listing is the read-only projection of a marketplace listing consumed by
// the scoring core. The surrounding CRUD application owns the full record.
type Listing struct {
	ListingID       uint64
	Title           string
	SupplierID      uint64
	SupplierName    string
	Quantity        float64
	Unit            string
	ExpiresAt       time.Time
	ListingType     string
	MinimumQuantity *float64
	Status          string
}

type Supplier struct {
	SupplierID uint64
	Name       string
	Email      string
}

type NotificationRecord struct {
	NotificationID string
	ListingID      uint64
	SupplierID     uint64
	Probability    float64
	RiskLevel      string
	SentAt         string
}

type ListingReadRepository interface {
	// ListActive returns ACTIVE listings that still have stock to claim.
	ListActive(ctx context.Context) ([]Listing, error)
	GetListing(ctx context.Context, listingID uint64) (Listing, error)
	GetSupplier(ctx context.Context, supplierID uint64) (Supplier, error)
	ListNotifications(ctx context.Context, listingID uint64, limit int) ([]NotificationRecord, error)
}

type ListingRepository interface {
	ListingReadRepository
	CreateSupplier(ctx context.Context, supplier Supplier) (Supplier, error)
	CreateListing(ctx context.Context, listing Listing) (Listing, error)
	RecordNotification(ctx context.Context, record NotificationRecord) error
}
