package service

import "github.com/hexforge/catan/pkg/catan"

// Broadcaster sends real-time session events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastEvent(gameID string, evt catan.SessionEvent)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastEvent(string, catan.SessionEvent) {}
