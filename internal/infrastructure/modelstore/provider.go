package modelstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"foodshare/internal/bootstrap/logging"
	"foodshare/internal/domain/risk"
	"foodshare/internal/errs"
	"foodshare/internal/ports"
)

// FileProvider serves the risk model from a TOML artifact on disk. The
// handle is loaded lazily on first use and swapped atomically on reload;
// concurrent scoring calls only ever see a fully constructed model.
type FileProvider struct {
	path string

	mu    sync.RWMutex
	model risk.Model
}

var _ ports.ModelProvider = (*FileProvider)(nil)

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Current(ctx context.Context) (risk.Model, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	p.mu.RLock()
	model := p.model
	p.mu.RUnlock()
	if model != nil {
		return model, nil
	}

	return p.load(ctx)
}

// Reload re-reads the artifact and swaps the handle. A failing reload keeps
// the previously loaded model serving.
func (p *FileProvider) Reload(ctx context.Context) error {
	_, err := p.load(ctx)
	return err
}

func (p *FileProvider) load(ctx context.Context) (risk.Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	model, err := loadArtifact(p.path)
	if err != nil {
		if p.model != nil {
			logging.Warn(ctx, "model artifact reload failed, keeping previous model",
				slog.String("path", p.path),
				slog.String("previous_version", p.model.Version()),
				slog.Any("err", errs.Loggable(err)),
			)
			return p.model, err
		}
		return nil, err
	}

	p.model = model
	logging.Info(ctx, "risk model loaded",
		slog.String("path", p.path),
		slog.String("model_version", model.Version()),
	)
	return model, nil
}
