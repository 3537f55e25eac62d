package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhookteam/zhook-client/pkg/api"
	"github.com/zhookteam/zhook-client/pkg/logger"
)

const testCredential = "zh_test_0123456789"

func TestNewRejectsBadCredentials(t *testing.T) {
	tests := []struct {
		name       string
		credential string
	}{
		{name: "empty", credential: ""},
		{name: "whitespace only", credential: "   \t\n  "},
		{name: "too short", credential: "short"},
		{name: "too short after trim", credential: "  abcdefg  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.credential, Options{})
			require.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "realtime endpoint with http scheme", opts: Options{RealtimeURL: "http://realtime.example.com/ws"}},
		{name: "realtime endpoint unparseable", opts: Options{RealtimeURL: "://bad"}},
		{name: "realtime endpoint without host", opts: Options{RealtimeURL: "ws://"}},
		{name: "api endpoint with ws scheme", opts: Options{APIURL: "ws://api.example.com"}},
		{name: "api endpoint unparseable", opts: Options{APIURL: "://bad"}},
		{name: "negative max reconnect attempts", opts: Options{MaxReconnectAttempts: -1}},
		{name: "reconnect delay below floor", opts: Options{ReconnectDelay: 50 * time.Millisecond}},
		{name: "unknown log level", opts: Options{LogLevel: "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testCredential, tt.opts)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c, err := New(testCredential, Options{})
	require.NoError(t, err)

	cfg := c.Config()
	assert.Equal(t, DefaultRealtimeURL, cfg.RealtimeURL)
	assert.Equal(t, api.DefaultBaseURL, cfg.APIURL)
	assert.Equal(t, DefaultMaxReconnectAttempts, cfg.MaxReconnectAttempts)
	assert.Equal(t, DefaultReconnectDelay, cfg.ReconnectDelay)
	assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel)

	assert.Equal(t, StateDisconnected, c.State())
	assert.False(t, c.IsConnected())
	assert.Empty(t, c.ClientID())
}

func TestNewHonorsExplicitOptions(t *testing.T) {
	c, err := New(testCredential, Options{
		RealtimeURL:          "ws://localhost:9100/ws",
		APIURL:               "http://localhost:9101",
		MaxReconnectAttempts: 2,
		ReconnectDelay:       250 * time.Millisecond,
		ConnectTimeout:       time.Second,
		LogLevel:             "silent",
	})
	require.NoError(t, err)

	cfg := c.Config()
	assert.Equal(t, "ws://localhost:9100/ws", cfg.RealtimeURL)
	assert.Equal(t, "http://localhost:9101", cfg.APIURL)
	assert.Equal(t, 2, cfg.MaxReconnectAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectDelay)
	assert.Equal(t, time.Second, cfg.ConnectTimeout)
	assert.Equal(t, logger.LevelSilent, cfg.LogLevel)
}

func TestNoReconnectZeroesAttempts(t *testing.T) {
	c, err := New(testCredential, Options{NoReconnect: true, MaxReconnectAttempts: 7})
	require.NoError(t, err)
	assert.Zero(t, c.Config().MaxReconnectAttempts)
}

func TestConfigSnapshotIsACopy(t *testing.T) {
	c, err := New(testCredential, Options{})
	require.NoError(t, err)

	cfg := c.Config()
	cfg.MaxReconnectAttempts = 99
	cfg.RealtimeURL = "ws://mutated.example.com"

	assert.Equal(t, DefaultMaxReconnectAttempts, c.Config().MaxReconnectAttempts)
	assert.Equal(t, DefaultRealtimeURL, c.Config().RealtimeURL)
}
