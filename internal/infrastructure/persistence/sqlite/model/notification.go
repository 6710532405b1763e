package model

type Notification struct {
	NotificationID string  `gorm:"column:notification_id;type:text;primaryKey"`
	ListingID      uint64  `gorm:"column:listing_id;not null;index"`
	SupplierID     uint64  `gorm:"column:supplier_id;not null;index"`
	Probability    float64 `gorm:"column:probability;not null"`
	RiskLevel      string  `gorm:"column:risk_level;type:text;not null"`
	SentAt         string  `gorm:"column:sent_at;type:text;not null"`
}

func (Notification) TableName() string {
	return "notifications"
}
