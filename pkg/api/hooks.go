package api

import "time"

// HookStatus is the lifecycle state of a hook.
type HookStatus string

const (
	HookStatusActive   HookStatus = "active"
	HookStatusPaused   HookStatus = "paused"
	HookStatusDisabled HookStatus = "disabled"
)

// RetryPolicy controls server-side redelivery of failed webhook calls.
type RetryPolicy struct {
	MaxAttempts       int     `json:"maxAttempts"`
	BackoffMultiplier float64 `json:"backoffMultiplier"`
}

// Hook is a webhook subscription as stored by the service. The client never
// mutates a Hook; it passes configuration through and returns what it gets.
type Hook struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Events      []string          `json:"events,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	RetryPolicy *RetryPolicy      `json:"retryPolicy,omitempty"`
	Status      HookStatus        `json:"status,omitempty"`
	CreatedAt   time.Time         `json:"createdAt,omitzero"`
	UpdatedAt   time.Time         `json:"updatedAt,omitzero"`
}

// HookConfig is the full configuration for creating a hook.
type HookConfig struct {
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Events      []string          `json:"events,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	RetryPolicy *RetryPolicy      `json:"retryPolicy,omitempty"`
}

// HookUpdate is a partial hook update. Nil fields are left untouched by the
// service; an update with every field nil is rejected before any request.
type HookUpdate struct {
	Name        *string           `json:"name,omitempty"`
	URL         *string           `json:"url,omitempty"`
	Events      []string          `json:"events,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	RetryPolicy *RetryPolicy      `json:"retryPolicy,omitempty"`
	Status      *HookStatus       `json:"status,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u HookUpdate) IsEmpty() bool {
	return u.Name == nil && u.URL == nil && u.Events == nil &&
		u.Headers == nil && u.RetryPolicy == nil && u.Status == nil
}
