package relay

import (
	"errors"
	"fmt"
)

const (
	providerGemini     = "Gemini"
	providerElevenLabs = "ElevenLabs"
)

// Validation errors reported with a 400 by the relay endpoints.
var (
	ErrAPIKeyRequired   = errors.New("API key is required")
	ErrContentsRequired = errors.New("Contents are required")
	ErrTextRequired     = errors.New("Text is required")
)

// UpstreamError carries a non-success provider response verbatim.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %d", e.Provider, e.StatusCode)
}

// IsValidationError reports whether err is one of the missing-field errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrAPIKeyRequired) ||
		errors.Is(err, ErrContentsRequired) ||
		errors.Is(err, ErrTextRequired)
}
