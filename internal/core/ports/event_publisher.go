package ports

import "context"

// Event names published by the order workflow and consumed by the external
// notification/chat layer.
const (
	EventOrderCreated          = "order.created"
	EventOrderTransitioned     = "order.transitioned"
	EventOrderDeadlineExtended = "order.deadline_extended"
	EventOrderLate             = "order.late"
	EventReviewSubmitted       = "review.submitted"
)

// Event is a notification emitted after a successful state mutation.
// The payload is a flat map of string fields; consumers own its schema.
type Event struct {
	Name    string
	Payload map[string]string
}

// EventPublisher is the fire-and-forget notification transport. Publishing
// happens after the state mutation is committed; a publish failure is logged
// by the caller and never rolls back or fails the mutation.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
