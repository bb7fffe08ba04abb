package domain

import (
	"context"
)

// ContactRepository owns the authoritative contact collection, keyed by email.
// Reads return copies; no caller ever holds a live reference into the collection.
type ContactRepository interface {
	Add(ctx context.Context, contact Contact) error
	Update(ctx context.Context, contact Contact) error
	Remove(ctx context.Context, email string) error
	Get(email string) (Contact, error)
	ListAll() []Contact
	ReplaceAll(ctx context.Context, contacts []Contact) error
	// Reorder applies reorder to the collection under the same lock that
	// guards mutations, persists the result and returns a copy of it.
	Reorder(ctx context.Context, reorder func([]Contact)) ([]Contact, error)
	SearchByName(query string) []Contact
}

// DocumentStore reads and writes the serialized contact collection as a whole.
type DocumentStore interface {
	// Load returns ErrDocumentNotFound when nothing has been stored yet.
	Load(ctx context.Context) ([]byte, error)
	// Save fully replaces any previously stored document.
	Save(ctx context.Context, doc []byte) error
	// Location names the document for logs, e.g. a file path.
	Location() string
}

// EventPublisher delivers contact change notifications.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
