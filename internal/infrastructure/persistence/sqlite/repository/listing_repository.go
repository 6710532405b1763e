package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"foodshare/internal/errs"
	"foodshare/internal/infrastructure/persistence/sqlite/model"
	"foodshare/internal/ports"
)

type ListingRepository struct {
	db *gorm.DB
}

var _ ports.ListingRepository = (*ListingRepository)(nil)

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *ListingRepository) ListActive(ctx context.Context) ([]ports.Listing, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Listing
	if err := db.
		Where("status = ?", ports.ListingStatusActive).
		Where("quantity > 0").
		Order("listing_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query active listings")
	}

	items := make([]ports.Listing, 0, len(rows))
	for _, row := range rows {
		listing, err := r.withSupplierName(db, row)
		if err != nil {
			return nil, err
		}
		items = append(items, listing)
	}
	return items, nil
}

func (r *ListingRepository) GetListing(ctx context.Context, listingID uint64) (ports.Listing, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Listing{}, err
	}

	var row model.Listing
	if err := db.Where("listing_id = ?", listingID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Listing{}, fmt.Errorf("%w: id %d", ports.ErrListingNotFound, listingID)
		}
		return ports.Listing{}, errs.Wrap(err, "query listing by id")
	}

	return r.withSupplierName(db, row)
}

func (r *ListingRepository) GetSupplier(ctx context.Context, supplierID uint64) (ports.Supplier, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Supplier{}, err
	}

	var row model.Supplier
	if err := db.Where("supplier_id = ?", supplierID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Supplier{}, fmt.Errorf("%w: id %d", ports.ErrSupplierNotFound, supplierID)
		}
		return ports.Supplier{}, errs.Wrap(err, "query supplier by id")
	}

	return ports.Supplier{
		SupplierID: row.SupplierID,
		Name:       row.Name,
		Email:      row.Email,
	}, nil
}

func (r *ListingRepository) ListNotifications(ctx context.Context, listingID uint64, limit int) ([]ports.NotificationRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Notification{}).
		Where("listing_id = ?", listingID).
		Order("sent_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query notifications")
	}

	records := make([]ports.NotificationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ports.NotificationRecord{
			NotificationID: row.NotificationID,
			ListingID:      row.ListingID,
			SupplierID:     row.SupplierID,
			Probability:    row.Probability,
			RiskLevel:      row.RiskLevel,
			SentAt:         row.SentAt,
		})
	}
	return records, nil
}

func (r *ListingRepository) CreateSupplier(ctx context.Context, supplier ports.Supplier) (ports.Supplier, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Supplier{}, err
	}

	row := model.Supplier{
		SupplierID: supplier.SupplierID,
		Name:       supplier.Name,
		Email:      supplier.Email,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Supplier{}, errs.Wrap(err, "create supplier")
	}

	supplier.SupplierID = row.SupplierID
	return supplier, nil
}

func (r *ListingRepository) CreateListing(ctx context.Context, listing ports.Listing) (ports.Listing, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Listing{}, err
	}

	row := model.Listing{
		ListingID:       listing.ListingID,
		Title:           listing.Title,
		SupplierID:      listing.SupplierID,
		Quantity:        listing.Quantity,
		Unit:            listing.Unit,
		ExpiresAt:       listing.ExpiresAt,
		ListingType:     listing.ListingType,
		MinimumQuantity: listing.MinimumQuantity,
		Status:          listing.Status,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Listing{}, errs.Wrap(err, "create listing")
	}

	listing.ListingID = row.ListingID
	return listing, nil
}

func (r *ListingRepository) RecordNotification(ctx context.Context, record ports.NotificationRecord) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.Notification{
		NotificationID: record.NotificationID,
		ListingID:      record.ListingID,
		SupplierID:     record.SupplierID,
		Probability:    record.Probability,
		RiskLevel:      record.RiskLevel,
		SentAt:         record.SentAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "record notification")
	}
	return nil
}

func (r *ListingRepository) withSupplierName(db *gorm.DB, row model.Listing) (ports.Listing, error) {
	var supplier model.Supplier
	name := ""
	err := db.Where("supplier_id = ?", row.SupplierID).Take(&supplier).Error
	switch {
	case err == nil:
		name = supplier.Name
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Listing without a resolvable supplier still scores; name stays empty.
	default:
		return ports.Listing{}, errs.Wrap(err, "query listing supplier")
	}

	return ports.Listing{
		ListingID:       row.ListingID,
		Title:           row.Title,
		SupplierID:      row.SupplierID,
		SupplierName:    name,
		Quantity:        row.Quantity,
		Unit:            row.Unit,
		ExpiresAt:       row.ExpiresAt,
		ListingType:     row.ListingType,
		MinimumQuantity: row.MinimumQuantity,
		Status:          row.Status,
	}, nil
}
