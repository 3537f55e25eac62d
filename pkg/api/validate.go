package api

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrEmptyUpdate is returned when a hook update carries no fields.
var ErrEmptyUpdate = errors.New("hook update must set at least one field")

// ValidateHookURL checks that raw parses as an absolute http(s) URL.
func ValidateHookURL(raw string) error {
	if raw == "" {
		return errors.New("hook url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("hook url %q is not a valid URL: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("hook url %q must use http or https, got %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("hook url %q has no host", raw)
	}
	return nil
}

func validateRetryPolicy(p *RetryPolicy) error {
	if p == nil {
		return nil
	}
	if p.MaxAttempts < 0 {
		return fmt.Errorf("retry policy maxAttempts must be non-negative, got %d", p.MaxAttempts)
	}
	if p.BackoffMultiplier <= 0 {
		return fmt.Errorf("retry policy backoffMultiplier must be positive, got %v", p.BackoffMultiplier)
	}
	return nil
}

func validateEvents(events []string) error {
	for i, ev := range events {
		if ev == "" {
			return fmt.Errorf("event name at index %d is empty", i)
		}
	}
	return nil
}

func validateHeaders(headers map[string]string) error {
	for k := range headers {
		if k == "" {
			return errors.New("header names must be non-empty")
		}
	}
	return nil
}

// Validate checks a full hook configuration before it is sent.
func (c HookConfig) Validate() error {
	if c.Name == "" {
		return errors.New("hook name is required")
	}
	if err := ValidateHookURL(c.URL); err != nil {
		return err
	}
	if err := validateEvents(c.Events); err != nil {
		return err
	}
	if err := validateHeaders(c.Headers); err != nil {
		return err
	}
	return validateRetryPolicy(c.RetryPolicy)
}

// Validate checks a partial hook update before it is sent. An update with no
// fields set is rejected.
func (u HookUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrEmptyUpdate
	}
	if u.Name != nil && *u.Name == "" {
		return errors.New("hook name must be non-empty")
	}
	if u.URL != nil {
		if err := ValidateHookURL(*u.URL); err != nil {
			return err
		}
	}
	if err := validateEvents(u.Events); err != nil {
		return err
	}
	if err := validateHeaders(u.Headers); err != nil {
		return err
	}
	if u.Status != nil {
		switch *u.Status {
		case HookStatusActive, HookStatusPaused, HookStatusDisabled:
		default:
			return fmt.Errorf("unknown hook status %q", *u.Status)
		}
	}
	return validateRetryPolicy(u.RetryPolicy)
}
