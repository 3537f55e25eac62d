package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhookteam/zhook-client/pkg/api"
)

// Client is a zhook webhook-delivery client. It is safe for concurrent use;
// handlers run sequentially on the connection's read loop.
type Client struct {
	logger     *slog.Logger
	api        *api.Client
	registry   handlerRegistry
	credential string
	cfg        Config

	mu         sync.Mutex
	state      ConnectionState
	clientID   string
	attempts   int // reconnection counter, reset on every successful connect
	gen        int // connection generation, fences callbacks from dead connections
	conn       *websocket.Conn
	retryTimer *time.Timer
}

// New creates a client for the given credential. Configuration is validated
// before any I/O; credential and option violations are reported immediately.
func New(credential string, opts Options) (*Client, error) {
	if err := validateCredential(credential); err != nil {
		return nil, err
	}
	cfg, log, err := opts.build()
	if err != nil {
		return nil, err
	}
	gateway := api.NewClient(credential, api.Options{
		BaseURL:     cfg.APIURL,
		Logger:      log,
		MaxAttempts: opts.APIMaxAttempts,
	})
	return &Client{
		logger:     log,
		api:        gateway,
		credential: credential,
		cfg:        cfg,
		state:      StateDisconnected,
	}, nil
}

// Config returns a copy of the validated configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected reports whether the realtime connection is established.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// ClientID returns the identity assigned by the service on the last
// connection confirmation, or "" while unconfirmed or disconnected.
func (c *Client) ClientID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientID
}

// CreateHook registers a new webhook subscription via the REST API. Hook
// management is independent of the realtime connection state.
func (c *Client) CreateHook(ctx context.Context, config api.HookConfig) (*api.Hook, error) {
	return c.api.CreateHook(ctx, config)
}

// Hooks lists every hook registered for this credential.
func (c *Client) Hooks(ctx context.Context) ([]api.Hook, error) {
	return c.api.Hooks(ctx)
}

// Hook fetches a single hook by ID.
func (c *Client) Hook(ctx context.Context, id string) (*api.Hook, error) {
	return c.api.Hook(ctx, id)
}

// UpdateHook applies a partial update to an existing hook. An update with no
// fields set is rejected before any request is made.
func (c *Client) UpdateHook(ctx context.Context, id string, update api.HookUpdate) (*api.Hook, error) {
	return c.api.UpdateHook(ctx, id, update)
}

// DeleteHook removes a hook.
func (c *Client) DeleteHook(ctx context.Context, id string) error {
	return c.api.DeleteHook(ctx, id)
}
