package domain

type EventType string

const (
	EventOrderReceived    EventType = "order_received"
	EventOrderCompleted   EventType = "order_completed"
	EventOrderFailed      EventType = "order_failed"
	EventRestockReceived  EventType = "restock_received"
	EventRestockCompleted EventType = "restock_completed"
	EventRestockFailed    EventType = "restock_failed"
)

// Event is one analytics datapoint published by the gateway.
type Event struct {
	ID          string    `json:"event_id"`
	Source      string    `json:"source"`
	Type        EventType `json:"event_type"`
	TimestampMS int64     `json:"timestamp_ms"`
	LatencyMS   int64     `json:"latency_ms"`
	Success     bool      `json:"success"`
}

func ReceivedEvent(kind OrderKind) EventType {
	if kind == OrderKindRestock {
		return EventRestockReceived
	}
	return EventOrderReceived
}

func CompletedEvent(kind OrderKind) EventType {
	if kind == OrderKindRestock {
		return EventRestockCompleted
	}
	return EventOrderCompleted
}

func FailedEvent(kind OrderKind) EventType {
	if kind == OrderKindRestock {
		return EventRestockFailed
	}
	return EventOrderFailed
}
