package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// closeCodeAuthRejected is the service-reserved close code for credential
// rejections, alongside the standard policy-violation code 1008.
const closeCodeAuthRejected = 4401

// Connect establishes the realtime connection. It returns nil once the
// transport handshake succeeds; the service's connection confirmation arrives
// asynchronously and is delivered to OnConnected handlers. Connect on an
// already-connected client returns nil immediately; Connect after Close
// returns ErrClientClosed without touching the network. A pending
// reconnection timer is cancelled in favor of the immediate attempt.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateClosed:
		c.mu.Unlock()
		return ErrClientClosed
	case StateConnected:
		c.mu.Unlock()
		return nil
	case StateConnecting:
		c.mu.Unlock()
		return errors.New("connection attempt already in progress")
	}
	c.cancelRetryTimerLocked()
	c.state = StateConnecting
	c.mu.Unlock()

	c.logger.Info("connecting to realtime endpoint", "url", c.cfg.RealtimeURL)
	conn, err := c.dial(ctx)
	if err != nil {
		c.mu.Lock()
		if c.state == StateConnecting {
			c.state = StateDisconnected
		}
		c.mu.Unlock()
		c.logger.Error("connection attempt failed", "error", err)
		return err
	}
	if !c.install(conn) {
		_ = conn.Close()
		return ErrClientClosed
	}
	return nil
}

// Close tears the client down. It is idempotent and terminal: pending
// reconnection timers are cancelled, the transport is detached before being
// closed so its close event is not reprocessed, and every later Connect
// fails with ErrClientClosed.
func (c *Client) Close() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	c.gen++ // fences any in-flight read loop callbacks
	c.cancelRetryTimerLocked()
	conn := c.conn
	c.conn = nil
	c.clientID = ""
	c.attempts = 0
	c.mu.Unlock()

	if conn != nil {
		deadline := time.Now().Add(time.Second)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
			c.logger.Debug("close handshake skipped", "error", err)
		}
		if err := conn.Close(); err != nil {
			c.logger.Debug("error closing transport", "error", err)
		}
	}
	c.logger.Info("client closed")
}

// dial performs one transport handshake with the configured timeout, passing
// the credential as a query parameter. Handshake rejections with 401/403 are
// authentication failures and must not be retried.
func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(c.cfg.RealtimeURL)
	if err != nil {
		// The endpoint was validated in New.
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	q := u.Query()
	q.Set("key", c.credential)
	u.RawQuery = q.Encode()

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.ConnectTimeout}
	conn, resp, err := dialer.DialContext(dialCtx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, &AuthenticationError{
				message: fmt.Sprintf("authentication rejected during handshake (%d %s)", resp.StatusCode, http.StatusText(resp.StatusCode)),
			}
		}
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, fmt.Errorf("%w after %s", ErrConnectionTimeout, c.cfg.ConnectTimeout)
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &TransportError{Cause: err}
	}
	return conn, nil
}

// install adopts a freshly dialed transport: state becomes connected, the
// reconnection counter resets, pending timers are cleared and a read loop is
// started. Returns false if the client was closed while dialing.
func (c *Client) install(conn *websocket.Conn) bool {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return false
	}
	c.cancelRetryTimerLocked()
	old := c.conn
	c.conn = conn
	c.gen++
	gen := c.gen
	c.state = StateConnected
	c.attempts = 0
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	c.logger.Info("realtime connection established")
	go c.readLoop(conn, gen)
	return true
}

// readLoop pumps inbound messages into the dispatcher until the transport
// fails, then hands the failure to close handling.
func (c *Client) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(gen, err)
			return
		}
		c.handleMessage(data)
	}
}

// handleClose reacts to a transport failure. Stale generations (a connection
// replaced by a newer one, or a closed client) are ignored entirely.
// Authentication rejections go straight to disconnected with no retry; every
// other close enters the reconnection path.
func (c *Client) handleClose(gen int, cause error) {
	c.mu.Lock()
	if c.state == StateClosed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.clientID = ""
	c.conn = nil

	if isAuthClose(cause) {
		c.state = StateDisconnected
		c.mu.Unlock()
		c.logger.Error("connection closed by server: authentication failure", "cause", cause)
		c.emitError(&AuthenticationError{
			message: fmt.Sprintf("connection closed: authentication failure: %v", cause),
		})
		return
	}

	c.state = StateReconnecting
	c.mu.Unlock()
	c.logger.Warn("realtime connection lost", "cause", cause)
	c.scheduleRetry(gen, nil)
}

// scheduleRetry is the reconnection scheduler. With no attempts remaining it
// transitions to disconnected and emits one terminal error: the plain limit
// error when invoked straight from a close, or the exhaustion error carrying
// the last dial failure when invoked from a failed retry. Otherwise it
// increments the counter and arms a timer for the next attempt.
func (c *Client) scheduleRetry(gen int, lastErr error) {
	c.mu.Lock()
	if c.state == StateClosed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	if c.attempts >= c.cfg.MaxReconnectAttempts {
		c.state = StateDisconnected
		attempts := c.attempts
		c.mu.Unlock()
		if lastErr != nil {
			c.logger.Error("reconnection attempts exhausted", "attempts", attempts, "last_error", lastErr)
			c.emitError(&ReconnectExhaustedError{Attempts: attempts, LastErr: lastErr})
		} else {
			c.logger.Error("not reconnecting: attempt limit reached", "limit", c.cfg.MaxReconnectAttempts)
			c.emitError(fmt.Errorf("%w (limit %d)", ErrMaxReconnectAttempts, c.cfg.MaxReconnectAttempts))
		}
		return
	}
	c.attempts++
	attempt := c.attempts
	delay := retryDelay(c.cfg.ReconnectDelay, attempt)
	c.retryTimer = time.AfterFunc(delay, func() { c.retryConnect(gen) })
	c.mu.Unlock()
	c.logger.Info("scheduling reconnection attempt", "attempt", attempt, "delay", delay)
}

// retryConnect runs one scheduled reconnection attempt. A failed attempt
// re-enters the scheduler directly rather than the close path, so a single
// disconnect is never counted twice.
func (c *Client) retryConnect(gen int) {
	c.mu.Lock()
	if c.state == StateClosed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	attempt := c.attempts
	c.mu.Unlock()

	c.logger.Info("reconnecting to realtime endpoint", "attempt", attempt)
	conn, err := c.dial(context.Background())
	if err != nil {
		var authErr *AuthenticationError
		if errors.As(err, &authErr) {
			c.mu.Lock()
			if c.state != StateClosed && gen == c.gen {
				c.state = StateDisconnected
			}
			c.mu.Unlock()
			c.logger.Error("reconnection rejected: authentication failure", "error", err)
			c.emitError(err)
			return
		}
		c.logger.Warn("reconnection attempt failed", "attempt", attempt, "error", err)
		c.scheduleRetry(gen, err)
		return
	}
	if !c.install(conn) {
		_ = conn.Close()
	}
}

// cancelRetryTimerLocked stops any pending reconnection timer. Callers hold
// c.mu.
func (c *Client) cancelRetryTimerLocked() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

// isAuthClose classifies a transport close as an authentication failure:
// either of the two reserved close codes, or a close reason mentioning
// "auth" or "invalid" in any case.
func isAuthClose(err error) bool {
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		return false
	}
	if closeErr.Code == websocket.ClosePolicyViolation || closeErr.Code == closeCodeAuthRejected {
		return true
	}
	reason := strings.ToLower(closeErr.Text)
	return strings.Contains(reason, "auth") || strings.Contains(reason, "invalid")
}

// retryDelay computes the backoff before reconnection attempt n (1-based):
// base doubled per attempt, perturbed by up to ±25% jitter, then clamped to
// the floor. The clamp runs after the jitter so the minimum delay holds even
// when jitter shortens a small base.
func retryDelay(base time.Duration, attempt int) time.Duration {
	d := float64(base) * math.Pow(2, float64(attempt-1))
	d += (rand.Float64()*2 - 1) * 0.25 * d
	if d < float64(MinReconnectDelay) {
		return MinReconnectDelay
	}
	return time.Duration(d)
}
