package client

import (
	"encoding/json"
	"reflect"
	"sync"
	"time"
)

// Wire message types pushed by the realtime endpoint.
const (
	msgTypeConnected = "connected"
	msgTypeEvent     = "event"
)

// payloadExcerptLimit bounds how much of a malformed payload is echoed into
// diagnostics.
const payloadExcerptLimit = 120

// Event is a webhook event received over the realtime connection.
type Event struct {
	EventID    string          `json:"eventId"`
	HookID     string          `json:"hookId"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Confirmation is the handshake acknowledgment carrying the identity the
// service assigned to this connection.
type Confirmation struct {
	ClientID string `json:"clientId"`
	Message  string `json:"message"`
}

// Handler callback types. Handlers run sequentially in registration order on
// the connection's read loop and must not block.
type (
	EventHandler   func(Event)
	ConnectHandler func(Confirmation)
	ErrorHandler   func(error)
)

// wireMessage is the superset of all inbound message shapes.
type wireMessage struct {
	Type       string          `json:"type"`
	Message    string          `json:"message"`
	ClientID   string          `json:"clientId"`
	EventID    string          `json:"eventId"`
	HookID     string          `json:"hookId"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// handlerRegistry keeps handlers per category in registration order. Multiple
// handlers per category are allowed; removal matches function identity.
type handlerRegistry struct {
	mu       sync.Mutex
	events   []EventHandler
	connects []ConnectHandler
	errors   []ErrorHandler
}

func (r *handlerRegistry) addEvent(h EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, h)
}

func (r *handlerRegistry) addConnect(h ConnectHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connects = append(r.connects, h)
}

func (r *handlerRegistry) addError(h ErrorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, h)
}

// remove drops every registered handler whose function identity matches h.
// Removing a handler that was never registered is a no-op.
func (r *handlerRegistry) remove(h any) {
	v := reflect.ValueOf(h)
	if v.Kind() != reflect.Func {
		return
	}
	target := v.Pointer()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = removeByIdentity(r.events, target)
	r.connects = removeByIdentity(r.connects, target)
	r.errors = removeByIdentity(r.errors, target)
}

func removeByIdentity[H any](handlers []H, target uintptr) []H {
	kept := handlers[:0]
	for _, h := range handlers {
		if reflect.ValueOf(h).Pointer() != target {
			kept = append(kept, h)
		}
	}
	return kept
}

func (r *handlerRegistry) eventHandlers() []EventHandler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EventHandler(nil), r.events...)
}

func (r *handlerRegistry) connectHandlers() []ConnectHandler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ConnectHandler(nil), r.connects...)
}

func (r *handlerRegistry) errorHandlers() []ErrorHandler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ErrorHandler(nil), r.errors...)
}

// OnHookCalled registers a handler for webhook events.
func (c *Client) OnHookCalled(h EventHandler) error {
	if h == nil {
		return ErrInvalidHandler
	}
	c.registry.addEvent(h)
	return nil
}

// OnConnected registers a handler for connection confirmations.
func (c *Client) OnConnected(h ConnectHandler) error {
	if h == nil {
		return ErrInvalidHandler
	}
	c.registry.addConnect(h)
	return nil
}

// OnError registers a handler for connection and message-decoding errors.
// With no error handlers registered, errors are logged at warning level and
// dropped.
func (c *Client) OnError(h ErrorHandler) error {
	if h == nil {
		return ErrInvalidHandler
	}
	c.registry.addError(h)
	return nil
}

// RemoveHandler unregisters a previously registered handler by function
// identity. Unknown handlers are ignored.
func (c *Client) RemoveHandler(h any) {
	if h == nil {
		return
	}
	c.registry.remove(h)
}

// handleMessage decodes one inbound payload and fans it out. A decode failure
// is reported once through the error channel and does not stop the pipeline.
func (c *Client) handleMessage(data []byte) {
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.emitError(&ParseError{Cause: err, Excerpt: excerpt(data)})
		return
	}

	switch msg.Type {
	case msgTypeConnected:
		c.mu.Lock()
		c.clientID = msg.ClientID
		c.mu.Unlock()
		c.logger.Info("connection confirmed by server", "client_id", msg.ClientID, "message", msg.Message)
		conf := Confirmation{ClientID: msg.ClientID, Message: msg.Message}
		for _, h := range c.registry.connectHandlers() {
			c.invoke("connected", func() { h(conf) })
		}
	case msgTypeEvent:
		ev := Event{
			EventID:    msg.EventID,
			HookID:     msg.HookID,
			ReceivedAt: msg.ReceivedAt,
			Payload:    msg.Payload,
		}
		c.logger.Debug("webhook event received", "event_id", ev.EventID, "hook_id", ev.HookID)
		for _, h := range c.registry.eventHandlers() {
			c.invoke("event", func() { h(ev) })
		}
	default:
		c.logger.Warn("ignoring message with unrecognized type", "type", msg.Type)
	}
}

// invoke runs one handler, containing panics so a faulty consumer cannot
// suppress delivery to the remaining handlers.
func (c *Client) invoke(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("handler panicked", "handler", kind, "panic", r)
		}
	}()
	fn()
}

// emitError delivers err to every error handler in registration order.
// Handler panics are contained; emission never re-enters itself.
func (c *Client) emitError(err error) {
	handlers := c.registry.errorHandlers()
	if len(handlers) == 0 {
		c.logger.Warn("dropping error: no error handlers registered", "error", err)
		return
	}
	for _, h := range handlers {
		c.invoke("error", func() { h(err) })
	}
}

func excerpt(data []byte) string {
	if len(data) > payloadExcerptLimit {
		return string(data[:payloadExcerptLimit]) + "..."
	}
	return string(data)
}
