package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"foodshare/internal/bootstrap/logging"
	domainrisk "foodshare/internal/domain/risk"
	"foodshare/internal/errs"
	"foodshare/internal/ports"
	riskuc "foodshare/internal/usecase/risk"
)

type handler struct {
	svc RiskService
}

type predictResponse struct {
	ExpiryProbability float64 `json:"expiry_probability"`
	RiskLevel         string  `json:"risk_level"`
}

type atRiskEntry struct {
	ID               uint64  `json:"id"`
	Title            string  `json:"title"`
	Supplier         string  `json:"supplier"`
	TimeToExpiryDays float64 `json:"time_to_expiry_days"`
	RiskLevel        string  `json:"risk_level"`
	Risk             float64 `json:"risk"`
}

type atRiskResponse struct {
	Listings         []atRiskEntry `json:"listings"`
	HighRiskCount    int           `json:"high_risk_count"`
	ModelUnavailable bool          `json:"model_unavailable"`
}

type notifyRequest struct {
	ListingID uint64 `json:"listing_id"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// predict backs the manual "Risk Assessment Tool" form. Query parameters
// are converted at this boundary; nothing stringly typed reaches the encoder.
func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	quantity, err := parseFloatParam(query.Get("quantity"), "quantity")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	timeToExpiry, err := parseFloatParam(query.Get("time_to_expiry"), "time_to_expiry")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	hasMinimum, err := parseBoolParam(query.Get("has_min_quantity"), "has_min_quantity")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	assessment, err := h.svc.Assess(r.Context(), riskuc.AssessInput{
		Quantity:           quantity,
		TimeToExpiryDays:   timeToExpiry,
		ListingType:        query.Get("listing_type"),
		HasMinimumQuantity: hasMinimum,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		ExpiryProbability: assessment.ExpiryProbability,
		RiskLevel:         string(assessment.Level),
	})
}

func (h *handler) atRisk(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ScanAtRisk(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	entries := make([]atRiskEntry, 0, len(result.Listings))
	for _, listing := range result.Listings {
		entries = append(entries, atRiskEntry{
			ID:               listing.ListingID,
			Title:            listing.Title,
			Supplier:         listing.SupplierName,
			TimeToExpiryDays: listing.TimeToExpiryDays,
			RiskLevel:        string(listing.Assessment.Level),
			Risk:             listing.Assessment.ExpiryProbability,
		})
	}

	writeJSON(w, http.StatusOK, atRiskResponse{
		Listings:         entries,
		HighRiskCount:    result.HighRiskCount,
		ModelUnavailable: result.ModelUnavailable,
	})
}

func (h *handler) notify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request body: %w", err))
		return
	}
	if req.ListingID == 0 {
		writeError(w, http.StatusBadRequest, errors.New("listing_id is required"))
		return
	}

	result, err := h.svc.NotifySupplier(r.Context(), req.ListingID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	message := result.Message
	if result.Suppressed {
		message = "already notified: " + message
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: message})
}

func (h *handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domainrisk.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, ports.ErrListingNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domainrisk.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		logging.Error(r.Context(), "request failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func parseFloatParam(raw string, name string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domainrisk.ErrInvalidInput, name)
	}
	return value, nil
}

func parseBoolParam(raw string, name string) (bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(trimmed)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", domainrisk.ErrInvalidInput, name)
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, statusResponse{Status: "error", Message: err.Error()})
}
