package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelayExponentialBounds(t *testing.T) {
	base := time.Second
	for attempt := 1; attempt <= 4; attempt++ {
		expected := base << (attempt - 1)
		lo := time.Duration(float64(expected) * 0.75)
		hi := time.Duration(float64(expected) * 1.25)
		for range 200 {
			d := retryDelay(base, attempt)
			assert.GreaterOrEqual(t, d, lo, "attempt %d", attempt)
			assert.LessOrEqual(t, d, hi, "attempt %d", attempt)
		}
	}
}

func TestRetryDelayClampAfterJitter(t *testing.T) {
	// With the minimum base, negative jitter would undercut the floor; the
	// clamp runs after the jitter, so the floor always holds.
	for range 500 {
		d := retryDelay(MinReconnectDelay, 1)
		assert.GreaterOrEqual(t, d, MinReconnectDelay)
		assert.LessOrEqual(t, d, time.Duration(float64(MinReconnectDelay)*1.25))
	}
}

func TestRetryDelayGrowsAcrossAttempts(t *testing.T) {
	// Worst-case jitter still cannot make attempt n+2 shorter than attempt n.
	base := time.Second
	for attempt := 1; attempt <= 3; attempt++ {
		shorter := retryDelay(base, attempt)
		longer := retryDelay(base, attempt+2)
		assert.Greater(t, longer, shorter)
	}
}
