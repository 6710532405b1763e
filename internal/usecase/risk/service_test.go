package risk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	domainrisk "foodshare/internal/domain/risk"
	cacheinfra "foodshare/internal/infrastructure/cache"
	"foodshare/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "foodshare/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "foodshare/internal/infrastructure/persistence/sqlite/uow"
	"foodshare/internal/ports"
)

// fakeModel maps the time-to-expiry feature to a fixed probability so scan
// tests can force exact orderings.
type fakeModel struct {
	byDays map[float64]float64
}

func (fakeModel) Version() string { return "fake" }

func (m fakeModel) PredictProbability(vec domainrisk.FeatureVector) (float64, error) {
	if len(vec) != domainrisk.FeatureCount {
		return 0, domainrisk.ErrModelUnavailable
	}
	if p, ok := m.byDays[vec[1]]; ok {
		return p, nil
	}
	return 0.05, nil
}

type stubProvider struct {
	model domainrisk.Model
	err   error
}

func (p stubProvider) Current(context.Context) (domainrisk.Model, error) {
	return p.model, p.err
}

type fakeChannel struct {
	published []ports.ExpiryAlert
	failWith  error
}

func (c *fakeChannel) Publish(_ context.Context, alert ports.ExpiryAlert) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.published = append(c.published, alert)
	return nil
}

type fixture struct {
	svc     *Service
	repo    ports.ListingRepository
	channel *fakeChannel
	db      *gorm.DB
	now     time.Time
}

func setupService(t *testing.T, provider ports.ModelProvider) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Supplier{},
		&model.Listing{},
		&model.Notification{},
		&model.RiskKV{},
	); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := sqliterepo.NewListingRepository(db)
	channel := &fakeChannel{}
	svc := NewService(repo, provider, sqliteuow.NewUnitOfWork(db), cacheinfra.NewSQLiteCache(db), channel, 0)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:     svc,
		repo:    repo,
		channel: channel,
		db:      db,
		now:     now,
	}
}

func (f *fixture) seedSupplier(t *testing.T, name string) ports.Supplier {
	t.Helper()

	supplier, err := f.repo.CreateSupplier(context.Background(), ports.Supplier{
		Name:  name,
		Email: strings.ToLower(name) + "@example.org",
	})
	if err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return supplier
}

func (f *fixture) seedListing(t *testing.T, supplierID uint64, title string, quantity float64, daysToExpiry float64) ports.Listing {
	t.Helper()

	listing, err := f.repo.CreateListing(context.Background(), ports.Listing{
		Title:       title,
		SupplierID:  supplierID,
		Quantity:    quantity,
		Unit:        "kg",
		ExpiresAt:   f.now.Add(time.Duration(daysToExpiry * 24 * float64(time.Hour))),
		ListingType: string(domainrisk.TypeDonation),
		Status:      ports.ListingStatusActive,
	})
	if err != nil {
		t.Fatalf("seed listing %q: %v", title, err)
	}
	return listing
}

func TestScanOrderingAndFiltering(t *testing.T) {
	f := setupService(t, stubProvider{model: fakeModel{byDays: map[float64]float64{
		2:  0.9,
		1:  0.9,
		5:  0.4,
		10: 0.1,
	}}})
	supplier := f.seedSupplier(t, "Bakery")

	a := f.seedListing(t, supplier.SupplierID, "A", 10, 2)
	b := f.seedListing(t, supplier.SupplierID, "B", 10, 1)
	c := f.seedListing(t, supplier.SupplierID, "C", 10, 5)
	f.seedListing(t, supplier.SupplierID, "low tier", 10, 10)
	f.seedListing(t, supplier.SupplierID, "expired", 10, -1)

	result, err := f.svc.ScanAtRisk(context.Background())
	if err != nil {
		t.Fatalf("ScanAtRisk() error = %v", err)
	}
	if result.ModelUnavailable {
		t.Fatalf("ModelUnavailable = true, want false")
	}

	if len(result.Listings) != 3 {
		t.Fatalf("len(Listings) = %d, want 3 (low tier and expired excluded)", len(result.Listings))
	}
	wantOrder := []uint64{b.ListingID, a.ListingID, c.ListingID}
	for i, want := range wantOrder {
		if got := result.Listings[i].ListingID; got != want {
			t.Fatalf("Listings[%d] = listing %d, want %d", i, got, want)
		}
	}
	if result.HighRiskCount != 2 {
		t.Fatalf("HighRiskCount = %d, want 2", result.HighRiskCount)
	}
}

func TestScanRepeatable(t *testing.T) {
	f := setupService(t, stubProvider{model: fakeModel{byDays: map[float64]float64{2: 0.8, 1: 0.8}}})
	supplier := f.seedSupplier(t, "Grocer")
	f.seedListing(t, supplier.SupplierID, "first", 5, 2)
	f.seedListing(t, supplier.SupplierID, "second", 5, 1)

	first, err := f.svc.ScanAtRisk(context.Background())
	if err != nil {
		t.Fatalf("ScanAtRisk() error = %v", err)
	}
	second, err := f.svc.ScanAtRisk(context.Background())
	if err != nil {
		t.Fatalf("ScanAtRisk() error = %v", err)
	}

	if len(first.Listings) != len(second.Listings) {
		t.Fatalf("scan lengths differ: %d vs %d", len(first.Listings), len(second.Listings))
	}
	for i := range first.Listings {
		if first.Listings[i].ListingID != second.Listings[i].ListingID {
			t.Fatalf("scan order not reproducible at %d", i)
		}
	}
}

func TestScanSkipsMalformedListing(t *testing.T) {
	f := setupService(t, stubProvider{model: fakeModel{byDays: map[float64]float64{1: 0.9, 2: 0.9}}})
	supplier := f.seedSupplier(t, "Deli")
	good := f.seedListing(t, supplier.SupplierID, "good", 5, 1)

	// Zero quantity fails feature encoding; the scan must drop only this row.
	bad := f.seedListing(t, supplier.SupplierID, "bad", 1, 2)
	if err := f.db.Model(&model.Listing{}).
		Where("listing_id = ?", bad.ListingID).
		Update("quantity", 0).Error; err != nil {
		t.Fatalf("corrupt listing: %v", err)
	}

	result, err := f.svc.ScanAtRisk(context.Background())
	if err != nil {
		t.Fatalf("ScanAtRisk() error = %v", err)
	}
	if len(result.Listings) != 1 || result.Listings[0].ListingID != good.ListingID {
		t.Fatalf("Listings = %#v, want only listing %d", result.Listings, good.ListingID)
	}
}

func TestScanDegradesWhenModelUnavailable(t *testing.T) {
	f := setupService(t, stubProvider{err: domainrisk.ErrModelUnavailable})
	supplier := f.seedSupplier(t, "Farm")
	f.seedListing(t, supplier.SupplierID, "any", 5, 1)

	result, err := f.svc.ScanAtRisk(context.Background())
	if err != nil {
		t.Fatalf("ScanAtRisk() error = %v, want degraded nil", err)
	}
	if !result.ModelUnavailable {
		t.Fatalf("ModelUnavailable = false, want true")
	}
	if len(result.Listings) != 0 {
		t.Fatalf("Listings = %d entries, want 0", len(result.Listings))
	}
}

func TestAssessReturnsAllTiers(t *testing.T) {
	f := setupService(t, stubProvider{model: fakeModel{byDays: map[float64]float64{30: 0.1}}})

	assessment, err := f.svc.Assess(context.Background(), AssessInput{
		Quantity:         5,
		TimeToExpiryDays: 30,
		ListingType:      "DONATION",
	})
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if assessment.Level != domainrisk.LevelLow {
		t.Fatalf("Level = %q, want low (calculator keeps low tier)", assessment.Level)
	}
}

func TestAssessInvalidInput(t *testing.T) {
	f := setupService(t, stubProvider{model: fakeModel{}})

	if _, err := f.svc.Assess(context.Background(), AssessInput{
		Quantity:         -5,
		TimeToExpiryDays: 1,
		ListingType:      "DONATION",
	}); !errors.Is(err, domainrisk.ErrInvalidInput) {
		t.Fatalf("Assess() error = %v, want ErrInvalidInput", err)
	}

	if _, err := f.svc.Assess(context.Background(), AssessInput{
		Quantity:         5,
		TimeToExpiryDays: 1,
		ListingType:      "RETAIL",
	}); !errors.Is(err, domainrisk.ErrUnknownType) {
		t.Fatalf("Assess() error = %v, want ErrUnknownType", err)
	}
}

func TestAssessModelUnavailable(t *testing.T) {
	f := setupService(t, stubProvider{err: domainrisk.ErrModelUnavailable})

	if _, err := f.svc.Assess(context.Background(), AssessInput{
		Quantity:         5,
		TimeToExpiryDays: 1,
		ListingType:      "DONATION",
	}); !errors.Is(err, domainrisk.ErrModelUnavailable) {
		t.Fatalf("Assess() error = %v, want ErrModelUnavailable", err)
	}
}

func TestNotifySupplierDedup(t *testing.T) {
	f := setupService(t, stubProvider{model: fakeModel{byDays: map[float64]float64{2: 0.9}}})
	supplier := f.seedSupplier(t, "Cafe")
	listing := f.seedListing(t, supplier.SupplierID, "day-old bread", 12, 2)

	first, err := f.svc.NotifySupplier(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("NotifySupplier() error = %v", err)
	}
	if first.Suppressed {
		t.Fatalf("first notify suppressed")
	}
	if len(f.channel.published) != 1 {
		t.Fatalf("published = %d alerts, want 1", len(f.channel.published))
	}
	alert := f.channel.published[0]
	if alert.ListingID != listing.ListingID || alert.RiskLevel != string(domainrisk.LevelHigh) {
		t.Fatalf("alert = %#v", alert)
	}

	second, err := f.svc.NotifySupplier(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("NotifySupplier() second error = %v", err)
	}
	if !second.Suppressed {
		t.Fatalf("second notify inside window not suppressed")
	}
	if len(f.channel.published) != 1 {
		t.Fatalf("published = %d alerts after dedup, want 1", len(f.channel.published))
	}

	records, err := f.repo.ListNotifications(context.Background(), listing.ListingID, 10)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("notification records = %d, want 1", len(records))
	}

	// Outside the window the alert goes out again.
	f.svc.now = func() time.Time { return f.now.Add(25 * time.Hour) }
	third, err := f.svc.NotifySupplier(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("NotifySupplier() third error = %v", err)
	}
	if third.Suppressed {
		t.Fatalf("notify outside window suppressed")
	}
	if len(f.channel.published) != 2 {
		t.Fatalf("published = %d alerts, want 2", len(f.channel.published))
	}
}

func TestNotifyMissingListing(t *testing.T) {
	f := setupService(t, stubProvider{model: fakeModel{}})

	if _, err := f.svc.NotifySupplier(context.Background(), 9999); !errors.Is(err, ports.ErrListingNotFound) {
		t.Fatalf("NotifySupplier() error = %v, want ErrListingNotFound", err)
	}
	if len(f.channel.published) != 0 {
		t.Fatalf("published = %d alerts, want 0", len(f.channel.published))
	}
}

func TestNotifyExpiredListing(t *testing.T) {
	f := setupService(t, stubProvider{model: fakeModel{}})
	supplier := f.seedSupplier(t, "Bistro")
	listing := f.seedListing(t, supplier.SupplierID, "gone", 5, -2)

	if _, err := f.svc.NotifySupplier(context.Background(), listing.ListingID); !errors.Is(err, domainrisk.ErrInvalidInput) {
		t.Fatalf("NotifySupplier() error = %v, want ErrInvalidInput", err)
	}
}

func TestNotifyPublishFailureNotRecorded(t *testing.T) {
	f := setupService(t, stubProvider{model: fakeModel{byDays: map[float64]float64{1: 0.9}}})
	supplier := f.seedSupplier(t, "Market")
	listing := f.seedListing(t, supplier.SupplierID, "crates", 8, 1)

	f.channel.failWith = errors.New("broker down")
	if _, err := f.svc.NotifySupplier(context.Background(), listing.ListingID); err == nil {
		t.Fatalf("NotifySupplier() error = nil, want publish failure")
	}

	// A failed publish must not arm the dedup window.
	f.channel.failWith = nil
	result, err := f.svc.NotifySupplier(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("NotifySupplier() retry error = %v", err)
	}
	if result.Suppressed {
		t.Fatalf("retry after failed publish suppressed")
	}
}
