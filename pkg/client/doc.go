// Package client provides a robust client for the zhook webhook-delivery
// service. It maintains a realtime WebSocket connection for receiving webhook
// events, with automatic reconnection using exponential backoff and jitter,
// and exposes CRUD operations for managing webhook subscriptions over the
// companion REST API.
//
// Basic usage:
//
//	c, err := client.New("zh_live_0123456789", client.Options{
//	    LogLevel: "info",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	c.OnHookCalled(func(ev client.Event) {
//	    fmt.Printf("hook %s fired event %s\n", ev.HookID, ev.EventID)
//	})
//	c.OnError(func(err error) {
//	    log.Printf("connection error: %v", err)
//	})
//
//	if err := c.Connect(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// Connection errors after the initial connect (lost connections, exhausted
// reconnection attempts, authentication rejections) are delivered through
// handlers registered with OnError, never panics or process exits.
// Authentication failures stop automatic reconnection; everything else is
// retried with exponential backoff until the configured attempt limit.
package client
