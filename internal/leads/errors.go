package leads

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a required field is empty after extraction.
	ErrValidation = errors.New("missing required fields")

	// ErrInvalidBody is returned when the request body is not a JSON object.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrRateLimitExceeded is returned when the source address already reached its lead cap.
	ErrRateLimitExceeded = errors.New("too many requests from this IP address")

	// ErrConfiguration is returned when the operator channel credentials are missing.
	ErrConfiguration = errors.New("telegram credentials not configured")
)

// DeliveryError reports a failed operator notification. Persistence is skipped when it occurs.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send message: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failed count or insert. It is logged, never returned to callers.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("leads: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
