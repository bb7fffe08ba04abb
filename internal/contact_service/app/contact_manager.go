package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// ErrInvalidSort is returned for an unknown sort field or order.
var ErrInvalidSort = errors.New("invalid sort")

// Manager is the entry point used by every caller (HTTP, CLI). It delegates to
// the repository and adds sorting, extra searches, metrics and change events.
type Manager struct {
	repo      domain.ContactRepository
	publisher domain.EventPublisher
	subject   string
	logger    *slog.Logger
}

// NewManager creates a Manager. publisher may be nil, in which case no
// events are emitted. An empty subject selects domain.DefaultContactEventsSubject.
func NewManager(repo domain.ContactRepository, publisher domain.EventPublisher, subject string, logger *slog.Logger) *Manager {
	if subject == "" {
		subject = domain.DefaultContactEventsSubject
	}
	m := &Manager{
		repo:      repo,
		publisher: publisher,
		subject:   subject,
		logger:    logger.With("component", "contact_manager"),
	}
	storedContactsGauge.Set(float64(len(repo.ListAll())))
	return m
}

// ObserveLoad records how many persisted records were dropped at startup.
func ObserveLoad(dropped int) {
	if dropped > 0 {
		droppedRecordsCounter.Add(float64(dropped))
	}
}

// AddContact stores a new contact.
func (m *Manager) AddContact(ctx context.Context, contact domain.Contact) error {
	err := m.observe("add", func() error { return m.repo.Add(ctx, contact) })
	if err == nil {
		m.publish(ctx, domain.ContactActionAdded, contact.Email)
	}
	return err
}

// UpdateContact replaces the stored contact with the same email.
func (m *Manager) UpdateContact(ctx context.Context, contact domain.Contact) error {
	err := m.observe("update", func() error { return m.repo.Update(ctx, contact) })
	if err == nil {
		m.publish(ctx, domain.ContactActionUpdated, contact.Email)
	}
	return err
}

// RemoveContact deletes the contact with the given email.
func (m *Manager) RemoveContact(ctx context.Context, email string) error {
	err := m.observe("remove", func() error { return m.repo.Remove(ctx, email) })
	if err == nil {
		m.publish(ctx, domain.ContactActionRemoved, email)
	}
	return err
}

// GetContact returns the contact with the given email or domain.ErrNotFound.
func (m *Manager) GetContact(email string) (domain.Contact, error) {
	var c domain.Contact
	err := m.observe("get", func() error {
		var err error
		c, err = m.repo.Get(email)
		return err
	})
	return c, err
}

// ListContacts returns every contact in collection order.
func (m *Manager) ListContacts() []domain.Contact {
	return m.repo.ListAll()
}

// ReplaceAll swaps the whole collection; see ContactRepository.ReplaceAll.
func (m *Manager) ReplaceAll(ctx context.Context, contacts []domain.Contact) error {
	err := m.observe("replace_all", func() error { return m.repo.ReplaceAll(ctx, contacts) })
	if err == nil {
		m.publish(ctx, domain.ContactActionReplaced, "")
	}
	return err
}

// SortContacts sorts the collection by field and order and persists the
// result. The sorted list is returned.
func (m *Manager) SortContacts(ctx context.Context, field SortField, order SortOrder) ([]domain.Contact, error) {
	field, err := ParseSortField(string(field))
	if err != nil {
		return nil, err
	}
	if order != SortAscending && order != SortDescending {
		return nil, ErrInvalidSort
	}

	var contacts []domain.Contact
	err = m.observe("sort", func() error {
		var err error
		contacts, err = m.repo.Reorder(ctx, func(c []domain.Contact) {
			sortContacts(c, field, order)
		})
		return err
	})
	if err != nil {
		return contacts, err
	}
	m.publish(ctx, domain.ContactActionReplaced, "")
	m.logger.InfoContext(ctx, "Contacts sorted", "field", field, "order", order, "count", len(contacts))
	return contacts, nil
}

// SearchByName matches first name, last name or patronymic, ignoring case.
func (m *Manager) SearchByName(query string) []domain.Contact {
	return m.repo.SearchByName(query)
}

// SearchByEmail returns contacts whose email contains query (case-sensitive).
func (m *Manager) SearchByEmail(query string) []domain.Contact {
	return m.filter(func(c domain.Contact) bool {
		return strings.Contains(c.Email, query)
	})
}

// SearchByPhone returns contacts with at least one raw number containing query.
func (m *Manager) SearchByPhone(query string) []domain.Contact {
	return m.filter(func(c domain.Contact) bool {
		for _, p := range c.Phones {
			if strings.Contains(p.Number(), query) {
				return true
			}
		}
		return false
	})
}

func (m *Manager) filter(match func(domain.Contact) bool) []domain.Contact {
	results := []domain.Contact{}
	for _, c := range m.repo.ListAll() {
		if match(c) {
			results = append(results, c)
		}
	}
	return results
}

func (m *Manager) observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	contactOperationDurationHist.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	contactOperationsCounter.WithLabelValues(operation, operationStatus(err)).Inc()
	if err == nil && operation != "get" {
		storedContactsGauge.Set(float64(len(m.repo.ListAll())))
	}
	return err
}

func operationStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateEntry):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidContact):
		return "invalid"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence_error"
	default:
		return "error"
	}
}

func (m *Manager) publish(ctx context.Context, action domain.ContactAction, email string) {
	if m.publisher == nil {
		m.logger.DebugContext(ctx, "No event publisher configured, skipping contact event", "action", action)
		return
	}

	event := domain.ContactChangedEvent{
		ID:         uuid.NewString(),
		Action:     action,
		Email:      email,
		Count:      len(m.repo.ListAll()),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to marshal contact event", "error", err, "action", action)
		eventsPublishedCounter.WithLabelValues(string(action), "error").Inc()
		return
	}
	if err := m.publisher.Publish(ctx, m.subject, payload); err != nil {
		// The mutation is already durable; a lost notification is only logged.
		m.logger.ErrorContext(ctx, "Failed to publish contact event", "error", err, "subject", m.subject, "action", action)
		eventsPublishedCounter.WithLabelValues(string(action), "error").Inc()
		return
	}
	eventsPublishedCounter.WithLabelValues(string(action), "success").Inc()
	m.logger.DebugContext(ctx, "Contact event published", "subject", m.subject, "action", action, "email", email)
}
