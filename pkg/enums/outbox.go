package enums

import "fmt"

// OutboxAggregateType names the entity an outbox event describes.
type OutboxAggregateType string

const AggregateOrder OutboxAggregateType = "order"

// IsValid reports whether some event type is published for the aggregate.
func (a OutboxAggregateType) IsValid() bool {
	for _, owner := range eventAggregates {
		if owner == a {
			return true
		}
	}
	return false
}

// OutboxEventType is the event_type column of outbox_events and the
// event_type attribute of published messages.
type OutboxEventType string

const (
	EventOrderCreated OutboxEventType = "order_created"
	EventOrderUpdated OutboxEventType = "order_updated"
	EventOrderDeleted OutboxEventType = "order_deleted"
)

// eventAggregates binds every publishable event to the aggregate it belongs to.
var eventAggregates = map[OutboxEventType]OutboxAggregateType{
	EventOrderCreated: AggregateOrder,
	EventOrderUpdated: AggregateOrder,
	EventOrderDeleted: AggregateOrder,
}

func (e OutboxEventType) IsValid() bool {
	_, ok := eventAggregates[e]
	return ok
}

// Aggregate returns the aggregate type the event is emitted for, or "" for
// unknown events.
func (e OutboxEventType) Aggregate() OutboxAggregateType {
	return eventAggregates[e]
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	event := OutboxEventType(value)
	if !event.IsValid() {
		return "", fmt.Errorf("invalid event type %q", value)
	}
	return event, nil
}
