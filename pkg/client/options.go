package client

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/zhookteam/zhook-client/pkg/api"
	"github.com/zhookteam/zhook-client/pkg/logger"
)

const (
	// DefaultRealtimeURL is the production realtime event endpoint.
	DefaultRealtimeURL = "wss://realtime.zhook.dev/ws"

	// DefaultMaxReconnectAttempts bounds automatic reconnection.
	DefaultMaxReconnectAttempts = 5

	// DefaultReconnectDelay is the base delay for the first reconnection
	// attempt; later attempts back off exponentially from it.
	DefaultReconnectDelay = time.Second

	// DefaultConnectTimeout bounds a single connection attempt.
	DefaultConnectTimeout = 10 * time.Second

	// MinReconnectDelay is the floor for both the configured base delay and
	// every computed backoff delay.
	MinReconnectDelay = 100 * time.Millisecond

	minCredentialLength = 10
)

// Options holds the configuration for the client. The zero value selects
// production endpoints with default reconnection behavior.
type Options struct {
	// Logger overrides the logger built from LogLevel.
	Logger *slog.Logger

	// RealtimeURL is the ws:// or wss:// event endpoint.
	RealtimeURL string

	// APIURL is the http:// or https:// hook management endpoint.
	APIURL string

	// LogLevel is one of silent, error, warn, info, debug. Default info.
	LogLevel string

	// ReconnectDelay is the base backoff delay, at least 100ms. Default 1s.
	ReconnectDelay time.Duration

	// ConnectTimeout bounds each connection attempt. Default 10s.
	ConnectTimeout time.Duration

	// MaxReconnectAttempts bounds automatic reconnection. Default 5.
	MaxReconnectAttempts int

	// APIMaxAttempts enables transient-failure retries on hook API calls.
	// Values below 2 keep the default of one request per call.
	APIMaxAttempts int

	// NoReconnect disables automatic reconnection entirely.
	NoReconnect bool
}

// Config is an immutable snapshot of the validated client configuration.
type Config struct {
	RealtimeURL          string
	APIURL               string
	LogLevel             logger.Level
	ReconnectDelay       time.Duration
	ConnectTimeout       time.Duration
	MaxReconnectAttempts int
}

func validateCredential(credential string) error {
	trimmed := strings.TrimSpace(credential)
	if trimmed == "" {
		return fmt.Errorf("%w: credential is empty", ErrInvalidCredential)
	}
	if len(trimmed) < minCredentialLength {
		return fmt.Errorf("%w: credential must be at least %d characters", ErrInvalidCredential, minCredentialLength)
	}
	return nil
}

func validateEndpoint(raw, name string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s %q is not a valid URL: %v", ErrInvalidConfiguration, name, raw, err)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return fmt.Errorf("%w: %s %q has no host", ErrInvalidConfiguration, name, raw)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q must use scheme %s, got %q",
		ErrInvalidConfiguration, name, raw, strings.Join(schemes, " or "), u.Scheme)
}

// build validates opts and resolves defaults into an immutable Config plus
// the logger the client will use. No I/O happens here.
func (o Options) build() (Config, *slog.Logger, error) {
	cfg := Config{
		RealtimeURL:          o.RealtimeURL,
		APIURL:               o.APIURL,
		ReconnectDelay:       o.ReconnectDelay,
		ConnectTimeout:       o.ConnectTimeout,
		MaxReconnectAttempts: o.MaxReconnectAttempts,
		LogLevel:             logger.LevelInfo,
	}
	if cfg.RealtimeURL == "" {
		cfg.RealtimeURL = DefaultRealtimeURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = api.DefaultBaseURL
	}
	if err := validateEndpoint(cfg.RealtimeURL, "realtime endpoint", "ws", "wss"); err != nil {
		return Config{}, nil, err
	}
	if err := validateEndpoint(cfg.APIURL, "API endpoint", "http", "https"); err != nil {
		return Config{}, nil, err
	}

	if cfg.MaxReconnectAttempts < 0 {
		return Config{}, nil, fmt.Errorf("%w: max reconnect attempts must be non-negative, got %d",
			ErrInvalidConfiguration, cfg.MaxReconnectAttempts)
	}
	if cfg.MaxReconnectAttempts == 0 {
		cfg.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if o.NoReconnect {
		cfg.MaxReconnectAttempts = 0
	}

	switch {
	case cfg.ReconnectDelay == 0:
		cfg.ReconnectDelay = DefaultReconnectDelay
	case cfg.ReconnectDelay < MinReconnectDelay:
		return Config{}, nil, fmt.Errorf("%w: reconnect delay must be at least %s, got %s",
			ErrInvalidConfiguration, MinReconnectDelay, cfg.ReconnectDelay)
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	if o.LogLevel != "" {
		level, err := logger.ParseLevel(o.LogLevel)
		if err != nil {
			return Config{}, nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		cfg.LogLevel = level
	}

	log := o.Logger
	if log == nil {
		log = logger.New(os.Stderr, cfg.LogLevel)
	}
	return cfg, log, nil
}
