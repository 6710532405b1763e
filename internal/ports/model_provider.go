package ports

import (
	"context"

	"foodshare/internal/domain/risk"
)

// ModelProvider hands out the current immutable risk model. Implementations
// load the artifact once and may swap the handle when a retrained artifact
// replaces the file; callers never mutate the returned model.
type ModelProvider interface {
	Current(ctx context.Context) (risk.Model, error)
}
