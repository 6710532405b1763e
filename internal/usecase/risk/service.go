// Package risk wires the scoring domain to the listing repository, model
// provider and notification channel. One Service instance serves all
// concurrent dashboard and calculator calls; the only shared state is the
// read-only model handle behind the provider.
package risk

import (
	"time"

	"foodshare/internal/ports"
)

// DefaultDedupWindow suppresses repeat supplier alerts for the same listing.
// Deliberate policy choice: the dashboard's notify button has no natural
// throttle, so at-most-once per listing per window is the safe default.
const DefaultDedupWindow = 24 * time.Hour

type Service struct {
	repo        ports.ListingRepository
	models      ports.ModelProvider
	uow         ports.UnitOfWork
	cache       ports.Cache
	channel     ports.NotificationChannel
	dedupWindow time.Duration
	now         func() time.Time
}

// NewService builds the scoring service. dedupWindow <= 0 selects the
// default 24h notification window.
func NewService(
	repo ports.ListingRepository,
	models ports.ModelProvider,
	uow ports.UnitOfWork,
	cache ports.Cache,
	channel ports.NotificationChannel,
	dedupWindow time.Duration,
) *Service {
	if dedupWindow <= 0 {
		dedupWindow = DefaultDedupWindow
	}

	return &Service{
		repo:        repo,
		models:      models,
		uow:         uow,
		cache:       cache,
		channel:     channel,
		dedupWindow: dedupWindow,
		now:         time.Now,
	}
}
