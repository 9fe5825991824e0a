package websocket

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all clients connected under the owner
	Publish(ownerID string, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the owner's
// clients
func (h *Hub) Publish(ownerID string, event Event) {
	h.Broadcast(ownerID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when
// WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (NoOpPublisher) Publish(ownerID string, event Event) {}

// Ensure NoOpPublisher implements EventPublisher
var _ EventPublisher = NoOpPublisher{}
