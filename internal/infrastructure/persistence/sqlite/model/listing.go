package model

import "time"

type Listing struct {
	ListingID       uint64    `gorm:"column:listing_id;primaryKey;autoIncrement"`
	Title           string    `gorm:"column:title;type:text;not null"`
	SupplierID      uint64    `gorm:"column:supplier_id;not null;index"`
	Quantity        float64   `gorm:"column:quantity;not null"`
	Unit            string    `gorm:"column:unit;type:text;not null"`
	ExpiresAt       time.Time `gorm:"column:expires_at;not null;index"`
	ListingType     string    `gorm:"column:listing_type;type:text;not null"`
	MinimumQuantity *float64  `gorm:"column:minimum_quantity"`
	Status          string    `gorm:"column:status;type:text;not null;index"`
}

func (Listing) TableName() string {
	return "listings"
}
