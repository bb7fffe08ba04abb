package domain

import "time"

// DefaultContactEventsSubject is the NATS subject for ContactChangedEvent.
const DefaultContactEventsSubject = "contacts.changed"

// ContactAction names the mutation that produced a ContactChangedEvent.
type ContactAction string

const (
	ContactActionAdded    ContactAction = "added"
	ContactActionUpdated  ContactAction = "updated"
	ContactActionRemoved  ContactAction = "removed"
	ContactActionReplaced ContactAction = "replaced"
)

// ContactChangedEvent is published after every successful mutation.
// Email is empty for ContactActionReplaced; Count carries the new collection size.
type ContactChangedEvent struct {
	ID         string        `json:"id"`
	Action     ContactAction `json:"action"`
	Email      string        `json:"email,omitempty"`
	Count      int           `json:"count"`
	OccurredAt time.Time     `json:"occurred_at"`
}
