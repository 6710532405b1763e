package risk

// Assessment is the ephemeral result of scoring one listing at one instant.
// It is never persisted: its inputs (time to expiry) change continuously.
type Assessment struct {
	ExpiryProbability float64
	Level             Level
}

// Assess runs encode -> predict -> classify for one set of listing features.
func Assess(model Model, features ListingFeatures) (Assessment, error) {
	if model == nil {
		return Assessment{}, ErrModelUnavailable
	}

	vec, err := Encode(features)
	if err != nil {
		return Assessment{}, err
	}

	probability, err := model.PredictProbability(vec)
	if err != nil {
		return Assessment{}, err
	}

	return Assessment{
		ExpiryProbability: probability,
		Level:             Classify(probability),
	}, nil
}
