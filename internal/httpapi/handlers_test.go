package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainrisk "foodshare/internal/domain/risk"
	"foodshare/internal/ports"
	riskuc "foodshare/internal/usecase/risk"
)

type fakeService struct {
	assess     func(riskuc.AssessInput) (domainrisk.Assessment, error)
	scanResult riskuc.ScanResult
	scanErr    error
	notify     func(uint64) (riskuc.NotifyResult, error)
}

func (f *fakeService) Assess(_ context.Context, input riskuc.AssessInput) (domainrisk.Assessment, error) {
	if f.assess == nil {
		return domainrisk.Assessment{}, nil
	}
	return f.assess(input)
}

func (f *fakeService) ScanAtRisk(context.Context) (riskuc.ScanResult, error) {
	return f.scanResult, f.scanErr
}

func (f *fakeService) NotifySupplier(_ context.Context, listingID uint64) (riskuc.NotifyResult, error) {
	if f.notify == nil {
		return riskuc.NotifyResult{}, nil
	}
	return f.notify(listingID)
}

func doRequest(t *testing.T, svc RiskService, method string, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	NewRouter(svc).ServeHTTP(rec, req)
	return rec
}

func TestPredictOK(t *testing.T) {
	svc := &fakeService{assess: func(input riskuc.AssessInput) (domainrisk.Assessment, error) {
		if input.Quantity != 50 || input.TimeToExpiryDays != 0.5 || !input.HasMinimumQuantity {
			t.Fatalf("unexpected input %#v", input)
		}
		return domainrisk.Assessment{ExpiryProbability: 0.94, Level: domainrisk.LevelHigh}, nil
	}}

	rec := doRequest(t, svc, http.MethodGet,
		"/api/risk/predict?quantity=50&time_to_expiry=0.5&listing_type=DONATION&has_min_quantity=true", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp predictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ExpiryProbability != 0.94 || resp.RiskLevel != "high" {
		t.Fatalf("response = %#v", resp)
	}
}

func TestPredictMalformedQuery(t *testing.T) {
	svc := &fakeService{assess: func(riskuc.AssessInput) (domainrisk.Assessment, error) {
		t.Fatalf("service must not be reached with malformed input")
		return domainrisk.Assessment{}, nil
	}}

	cases := []string{
		"/api/risk/predict?quantity=abc&time_to_expiry=1&listing_type=DONATION",
		"/api/risk/predict?quantity=5&time_to_expiry=&listing_type=DONATION",
		"/api/risk/predict?quantity=5&time_to_expiry=1&listing_type=DONATION&has_min_quantity=banana",
	}
	for _, target := range cases {
		if rec := doRequest(t, svc, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestPredictInvalidDomainInput(t *testing.T) {
	svc := &fakeService{assess: func(riskuc.AssessInput) (domainrisk.Assessment, error) {
		return domainrisk.Assessment{}, fmt.Errorf("%w: quantity must be > 0", domainrisk.ErrInvalidInput)
	}}

	rec := doRequest(t, svc, http.MethodGet,
		"/api/risk/predict?quantity=-5&time_to_expiry=1&listing_type=DONATION", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPredictModelUnavailable(t *testing.T) {
	svc := &fakeService{assess: func(riskuc.AssessInput) (domainrisk.Assessment, error) {
		return domainrisk.Assessment{}, domainrisk.ErrModelUnavailable
	}}

	rec := doRequest(t, svc, http.MethodGet,
		"/api/risk/predict?quantity=5&time_to_expiry=1&listing_type=DONATION", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestAtRiskPayload(t *testing.T) {
	svc := &fakeService{scanResult: riskuc.ScanResult{
		Listings: []riskuc.AtRiskListing{
			{
				ListingID:        7,
				Title:            "bread",
				SupplierName:     "Bakery",
				TimeToExpiryDays: 0.5,
				Assessment:       domainrisk.Assessment{ExpiryProbability: 0.9, Level: domainrisk.LevelHigh},
			},
		},
		HighRiskCount: 1,
	}}

	rec := doRequest(t, svc, http.MethodGet, "/api/risk/at-risk", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp atRiskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Listings) != 1 || resp.HighRiskCount != 1 {
		t.Fatalf("response = %#v", resp)
	}
	entry := resp.Listings[0]
	if entry.ID != 7 || entry.Supplier != "Bakery" || entry.Risk != 0.9 || entry.RiskLevel != "high" {
		t.Fatalf("entry = %#v", entry)
	}
}

func TestAtRiskDegraded(t *testing.T) {
	svc := &fakeService{scanResult: riskuc.ScanResult{ModelUnavailable: true}}

	rec := doRequest(t, svc, http.MethodGet, "/api/risk/at-risk", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (degraded, not failed)", rec.Code)
	}

	var resp atRiskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.ModelUnavailable || len(resp.Listings) != 0 {
		t.Fatalf("response = %#v", resp)
	}
}

func TestNotifySuccess(t *testing.T) {
	svc := &fakeService{notify: func(listingID uint64) (riskuc.NotifyResult, error) {
		if listingID != 42 {
			t.Fatalf("listingID = %d", listingID)
		}
		return riskuc.NotifyResult{Message: "supplier notified"}, nil
	}}

	rec := doRequest(t, svc, http.MethodPost, "/api/risk/notify", `{"listing_id": 42}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("response = %#v", resp)
	}
}

func TestNotifyListingGone(t *testing.T) {
	svc := &fakeService{notify: func(uint64) (riskuc.NotifyResult, error) {
		return riskuc.NotifyResult{}, ports.ErrListingNotFound
	}}

	rec := doRequest(t, svc, http.MethodPost, "/api/risk/notify", `{"listing_id": 42}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "error" {
		t.Fatalf("response = %#v", resp)
	}
}

func TestNotifyBadBody(t *testing.T) {
	svc := &fakeService{}

	if rec := doRequest(t, svc, http.MethodPost, "/api/risk/notify", `{`); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if rec := doRequest(t, svc, http.MethodPost, "/api/risk/notify", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
