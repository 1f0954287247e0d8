// Package dataerror defines the error taxonomy of the ingestion pipeline.
package dataerror

import (
	"errors"
	"fmt"
)

// ErrMissingTimestamp is matched by every MissingTimestampError via errors.Is.
var ErrMissingTimestamp = errors.New("transaction has neither settledAt nor createdAt")

// FetchError represents a failure of the banking data source: network error,
// non-2xx status or a payload that could not be decoded.
type FetchError struct {
	Resource   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s from %s: status %d: %v", e.Resource, e.URL, e.StatusCode, e.Err)
	}
	if e.URL != "" {
		return fmt.Sprintf("fetch %s from %s: %v", e.Resource, e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MissingTimestampError is returned when a raw transaction cannot be dated.
type MissingTimestampError struct {
	TransactionID string
}

func (e *MissingTimestampError) Error() string {
	return fmt.Sprintf("transaction %s: %v", e.TransactionID, ErrMissingTimestamp)
}

// Is reports whether target is ErrMissingTimestamp.
func (e *MissingTimestampError) Is(target error) bool {
	return target == ErrMissingTimestamp
}

// ValidationError represents invalid configuration or user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
