package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a generation call failed
type ErrorKind string

const (
	ErrorKindTransport ErrorKind = "transport" // network, DNS, timeout
	ErrorKindStatus    ErrorKind = "status"    // backend answered with a non-success status
	ErrorKindEmpty     ErrorKind = "empty"     // success status but no text
)

const redacted = "[REDACTED]"

// BackendError is returned by every Provider on failure. Message never
// contains the backend credential.
type BackendError struct {
	Backend    string
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s backend %s error (status %d): %s", e.Backend, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s backend %s error: %s", e.Backend, e.Kind, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// AsBackendError extracts a *BackendError from err's chain
func AsBackendError(err error) (*BackendError, bool) {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr, true
	}
	return nil, false
}

func newBackendError(backend string, kind ErrorKind, status int, message, secret string, cause error) *BackendError {
	return &BackendError{
		Backend:    backend,
		Kind:       kind,
		StatusCode: status,
		Message:    scrubSecret(message, secret),
		Err:        cause,
	}
}

// scrubSecret removes every occurrence of secret from msg
func scrubSecret(msg, secret string) string {
	if secret == "" {
		return msg
	}
	return strings.ReplaceAll(msg, secret, redacted)
}
