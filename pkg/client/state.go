package client

// ConnectionState is the lifecycle state of the realtime connection. Exactly
// one state holds at a time; StateClosed is terminal.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
	StateClosed       ConnectionState = "closed"
)
