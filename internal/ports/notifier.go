package ports

import (
	"context"
	"time"
)

// ExpiryAlert is the structured message sent to a supplier when one of
// their listings is at risk of expiring unclaimed.
type ExpiryAlert struct {
	EventID           string    `json:"event_id"`
	ListingID         uint64    `json:"listing_id"`
	ListingTitle      string    `json:"listing_title"`
	SupplierID        uint64    `json:"supplier_id"`
	SupplierName      string    `json:"supplier_name"`
	ExpiryProbability float64   `json:"expiry_probability"`
	RiskLevel         string    `json:"risk_level"`
	TimeToExpiryDays  float64   `json:"time_to_expiry_days"`
	SentAt            time.Time `json:"sent_at"`
}

// NotificationChannel delivers an alert to the supplier. Transport
// (NATS, email, in-app) is an adapter concern; delivery retries belong to
// the adapter, the core treats Publish as fire-and-forget.
type NotificationChannel interface {
	Publish(ctx context.Context, alert ExpiryAlert) error
}
