package services

import (
	"fmt"
	"net/http"

	"github.com/desertthunder/toptracks/internal/shared"
)

// ProviderError is returned by API calls that reached the provider but did not succeed,
// or that failed on the network before a response arrived (StatusCode 0).
//
// A 401 unwraps to [shared.ErrUnauthorized]; everything else unwraps to [shared.ErrAPIRequest].
type ProviderError struct {
	Op         string
	StatusCode int
	Status     string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: status %d %s", e.Op, e.StatusCode, e.Status)
	}
}

func (e *ProviderError) Unwrap() []error {
	errs := []error{shared.ErrAPIRequest}
	if e.StatusCode == http.StatusUnauthorized {
		errs = []error{shared.ErrUnauthorized}
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// TokenExchangeError is returned when the token endpoint rejects a code or refresh token.
//
// Status carries the provider's HTTP status text; ErrorCode the OAuth2 "error" field when present.
type TokenExchangeError struct {
	Op         string
	StatusCode int
	Status     string
	ErrorCode  string
	Err        error
}

func (e *TokenExchangeError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.ErrorCode != "":
		return fmt.Sprintf("%s: status %d %s (%s)", e.Op, e.StatusCode, e.Status, e.ErrorCode)
	default:
		return fmt.Sprintf("%s: status %d %s", e.Op, e.StatusCode, e.Status)
	}
}

func (e *TokenExchangeError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrTokenExchange}
	}
	return []error{shared.ErrTokenExchange, e.Err}
}
