package internal

import (
	"errors"
	"fmt"
	"net/http"
)

type UnsupportedProviderError struct {
	Provider ProviderKey
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("provider %q is not supported", string(e.Provider))
}

// IsUnsupportedProvider reports whether err, or any error it wraps, is an
// *UnsupportedProviderError.
func IsUnsupportedProvider(err error) bool {
	var upErr *UnsupportedProviderError
	return errors.As(err, &upErr)
}

// UpstreamHTTPError is returned when a provider answers with anything other
// than 200 OK.
type UpstreamHTTPError struct {
	Provider   ProviderKey
	Op         string
	StatusCode int
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("%s: %s: unexpected status %d %s", e.Provider, e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// TokenDecodeError means the bearer token payload could not be read.
type TokenDecodeError struct {
	Err error
}

func (e *TokenDecodeError) Error() string {
	return "decoding token: " + e.Err.Error()
}

func (e *TokenDecodeError) Unwrap() error {
	return e.Err
}
