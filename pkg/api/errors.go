package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// HTTPError is any non-2xx final response from the backend. Body carries the
// raw response text so callers can surface the backend's own message, and the
// session layer can parse field-level errors out of JSON bodies.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: HTTP error %d", e.StatusCode)
	}
	return fmt.Sprintf("api: HTTP error %d: %s", e.StatusCode, e.Body)
}

// AuthError signals a credential rejection: bad login, failed registration,
// or an expired/invalid refresh token. Recovered by signing in again, never
// fatal.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("api: %s: authentication failed: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError is a client-side, pre-submission failure. Requests that
// fail validation are never sent to the network.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "api: validation failed: " + strings.Join(parts, "; ")
}

// newValidationError converts validator output into the field-keyed form the
// calling UI surfaces next to inputs.
func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// IsUnauthorized reports whether err is an HTTP 401 response.
func IsUnauthorized(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == 401
}
