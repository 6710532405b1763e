package risk

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid scoring input")
	ErrModelUnavailable = errors.New("risk model unavailable")

	// ErrUnknownType is a special case of ErrInvalidInput so callers can
	// match either.
	ErrUnknownType = fmt.Errorf("%w: unknown listing type", ErrInvalidInput)
)
