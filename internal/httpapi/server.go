// Package httpapi exposes the scoring core over JSON endpoints consumed by
// the dashboard's risk widgets.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"foodshare/internal/bootstrap/logging"
	domainrisk "foodshare/internal/domain/risk"
	riskuc "foodshare/internal/usecase/risk"
)

// RiskService is the slice of the usecase layer the handlers need; tests
// substitute a fake.
type RiskService interface {
	Assess(ctx context.Context, input riskuc.AssessInput) (domainrisk.Assessment, error)
	ScanAtRisk(ctx context.Context) (riskuc.ScanResult, error)
	NotifySupplier(ctx context.Context, listingID uint64) (riskuc.NotifyResult, error)
}

func NewRouter(svc RiskService) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", h.health)
	r.Route("/api/risk", func(r chi.Router) {
		r.Get("/predict", h.predict)
		r.Get("/at-risk", h.atRisk)
		r.Post("/notify", h.notify)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		ctx := logging.WithAttrs(r.Context(),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.Info(ctx, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
