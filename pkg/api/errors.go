package api

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse is returned when a 2xx response body is not valid JSON.
var ErrInvalidResponse = errors.New("Invalid JSON response from API")

// RequestError is a non-2xx response from the hook API. Status carries the
// HTTP status code so callers can branch on it.
type RequestError struct {
	Message string
	Status  int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("API request failed (%d): %s", e.Status, e.Message)
}

// NetworkError is a transport-level failure where no response was received.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network error during API request: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }
