package modelstore

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"foodshare/internal/domain/risk"
)

// artifact is the on-disk TOML layout written by the offline training job.
type artifact struct {
	Version   string    `toml:"version"`
	Encoding  string    `toml:"encoding"`
	Intercept float64   `toml:"intercept"`
	Weights   []float64 `toml:"weights"`
}

func loadArtifact(path string) (*risk.LogisticModel, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: artifact path is empty", risk.ErrModelUnavailable)
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: artifact %q does not exist", risk.ErrModelUnavailable, trimmed)
		}
		return nil, fmt.Errorf("%w: read artifact %q: %v", risk.ErrModelUnavailable, trimmed, err)
	}

	var art artifact
	if err := toml.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("%w: parse artifact %q: %v", risk.ErrModelUnavailable, trimmed, err)
	}

	model, err := risk.NewLogisticModel(art.Version, art.Encoding, art.Intercept, art.Weights)
	if err != nil {
		return nil, err
	}
	return model, nil
}
