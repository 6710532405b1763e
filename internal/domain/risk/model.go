package risk

import (
	"fmt"
	"math"
)

// Model is a pure inference function over a pretrained artifact. Implementations
// must be immutable after construction and safe for concurrent use.
type Model interface {
	Version() string
	PredictProbability(vec FeatureVector) (float64, error)
}

// LogisticModel evaluates sigmoid(intercept + weights · vec). The offline
// training pipeline produces its coefficients; serving only evaluates them.
type LogisticModel struct {
	version   string
	intercept float64
	weights   []float64
}

// NewLogisticModel validates artifact coefficients against the current
// feature encoding before exposing them for inference.
func NewLogisticModel(version string, encoding string, intercept float64, weights []float64) (*LogisticModel, error) {
	if encoding != EncodingVersion {
		return nil, fmt.Errorf("%w: artifact encoding %q, encoder %q", ErrModelUnavailable, encoding, EncodingVersion)
	}
	if len(weights) != FeatureCount {
		return nil, fmt.Errorf("%w: artifact has %d weights, encoding %q needs %d", ErrModelUnavailable, len(weights), EncodingVersion, FeatureCount)
	}

	cloned := make([]float64, len(weights))
	copy(cloned, weights)

	return &LogisticModel{
		version:   version,
		intercept: intercept,
		weights:   cloned,
	}, nil
}

func (m *LogisticModel) Version() string { return m.version }

func (m *LogisticModel) PredictProbability(vec FeatureVector) (float64, error) {
	if len(vec) != len(m.weights) {
		return 0, fmt.Errorf("%w: feature vector length %d, model expects %d", ErrModelUnavailable, len(vec), len(m.weights))
	}

	z := m.intercept
	for i, w := range m.weights {
		z += w * vec[i]
	}

	return clampProbability(sigmoid(z)), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// clampProbability guards against numeric edge cases leaking out of [0,1].
func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
