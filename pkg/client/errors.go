package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation and lifecycle failures. Check with errors.Is.
var (
	// ErrInvalidCredential is returned by New for a missing or too-short key.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrInvalidConfiguration is returned by New for malformed options.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidHandler is returned when registering a nil handler.
	ErrInvalidHandler = errors.New("handler must be a non-nil function")

	// ErrClientClosed is returned by Connect after Close.
	ErrClientClosed = errors.New("client is closed")

	// ErrConnectionTimeout is returned when the transport handshake does not
	// complete within the connect timeout.
	ErrConnectionTimeout = errors.New("connection attempt timed out")

	// ErrMaxReconnectAttempts is emitted through error handlers when a
	// disconnect occurs with no reconnection attempts remaining.
	ErrMaxReconnectAttempts = errors.New("maximum reconnection attempts reached")
)

// AuthenticationError represents an authentication or authorization failure
// that should not trigger reconnection attempts.
type AuthenticationError struct {
	message string
}

func (e *AuthenticationError) Error() string {
	return e.message
}

// TransportError wraps a low-level connection failure.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// ReconnectExhaustedError is emitted when every scheduled reconnection
// attempt has failed. LastErr is the failure from the final attempt.
type ReconnectExhaustedError struct {
	LastErr  error
	Attempts int
}

func (e *ReconnectExhaustedError) Error() string {
	return fmt.Sprintf("all reconnection attempts exhausted after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *ReconnectExhaustedError) Unwrap() error { return e.LastErr }

// ParseError is emitted when an inbound message is not valid JSON. Excerpt
// holds a bounded prefix of the offending payload for diagnostics.
type ParseError struct {
	Cause   error
	Excerpt string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Message parsing failed: %v (payload: %q)", e.Cause, e.Excerpt)
}

func (e *ParseError) Unwrap() error { return e.Cause }
