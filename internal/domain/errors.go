package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the provider has no record for the requested item
	ErrNotFound = errors.New("not found")

	// ErrProviderUnavailable indicates a transport failure (unreachable, timeout)
	ErrProviderUnavailable = errors.New("provider is unreachable")

	// ErrProviderRejected indicates the provider answered with a logical error
	ErrProviderRejected = errors.New("provider rejected the request")

	// ErrMalformedResponse indicates a response body that could not be decoded
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrInvalidMediaType indicates a media type other than movie or tv
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrInvalidStatus indicates an unknown watchlist status
	ErrInvalidStatus = errors.New("invalid watchlist status")

	// ErrInvalidRating indicates a user rating outside 0-10
	ErrInvalidRating = errors.New("invalid user rating")

	// ErrInvalidCategory indicates an unknown listing category
	ErrInvalidCategory = errors.New("invalid category")
)

// ProviderError is returned by the API clients. It names the provider and carries
// either the provider's own message or the transport error text.
type ProviderError struct {
	Provider string // display name, e.g. "TMDB"
	Message  string
	Kind     error // one of the sentinels above
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API Error: %s", e.Provider, e.Message)
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is/As
func (e *ProviderError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewProviderError builds a ProviderError of the given kind
func NewProviderError(provider string, kind error, message string, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Message: message, Kind: kind, Cause: cause}
}
