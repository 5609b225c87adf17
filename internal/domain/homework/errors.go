// internal/domain/homework/errors.go
package homework

import (
	"fmt"
	"strings"
)

// TransportError is a network-level failure reaching the status endpoint:
// DNS, timeout, connection reset. Always retryable.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("endpoint unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a non-success endpoint response or an unparseable
// payload. Retryable, but logged at higher severity since it may indicate an
// invalid credential.
type ProtocolError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed endpoint response: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("endpoint returned status %d", e.StatusCode)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// SchemaError is a payload that parsed as JSON but violates the structural
// contract: required keys absent or a field of the wrong shape. Raised by
// CheckAnswer for the answer envelope and by ParseStatus for record fields.
type SchemaError struct {
	// MissingKeys lists every required key found absent, not just the first.
	MissingKeys []string
	// Reason describes a wrong-type violation when no keys are missing.
	Reason string
}

func (e *SchemaError) Error() string {
	if len(e.MissingKeys) > 0 {
		return fmt.Sprintf("missing keys: %s", strings.Join(e.MissingKeys, ", "))
	}
	return e.Reason
}

// UnknownVerdictError is a review status code with no verdict mapping. It is
// a hard failure: a new code means the API contract drifted and the verdict
// table needs an update, never a silent default.
type UnknownVerdictError struct {
	Code string
}

func (e *UnknownVerdictError) Error() string {
	return fmt.Sprintf("unknown review status %q", e.Code)
}
