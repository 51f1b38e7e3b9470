package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	// EventScrapeTriggered is emitted once per user whose configured local
	// trigger time matches the current minute.
	EventScrapeTriggered EventType = "scrape_triggered"
)

// TriggerPayload is the payload of a scrape trigger event. It carries only
// the user identifier; consumers must tolerate duplicate delivery.
type TriggerPayload struct {
	UserID string `json:"user_id"`
}

// Event represents a system event
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// EventService manages the pub/sub event bus between the trigger evaluator
// and the run consumer.
type EventService interface {
	// Subscribe to an event type
	Subscribe(eventType EventType, handler EventHandler) error

	// Publish an event to all subscribers asynchronously
	Publish(ctx context.Context, event Event) error

	// PublishSync publishes an event and waits for all handlers to complete
	PublishSync(ctx context.Context, event Event) error

	// Close shuts down the event service
	Close() error
}
