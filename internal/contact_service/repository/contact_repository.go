package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// LoadReport summarizes what happened to the persisted records at startup.
type LoadReport struct {
	Loaded    int
	Dropped   int
	Malformed bool
}

// Option configures a ContactRepository.
type Option func(*ContactRepository)

// WithStrictLoad makes New fail with domain.ErrDroppedRecords when any
// persisted record is invalid, instead of silently dropping it.
func WithStrictLoad(strict bool) Option {
	return func(r *ContactRepository) { r.strictLoad = strict }
}

// WithWriteThrough controls whether every mutation rewrites the document.
// When disabled, mutations only mark the collection dirty and Flush or Close
// persist it.
func WithWriteThrough(enabled bool) Option {
	return func(r *ContactRepository) { r.writeThrough = enabled }
}

// ContactRepository keeps the contact collection in memory, in insertion
// order, and mirrors it to a DocumentStore. At most one contact per email is
// held at any time. Values handed in or out are copied.
type ContactRepository struct {
	mu       sync.Mutex
	store    domain.DocumentStore
	logger   *slog.Logger
	contacts []domain.Contact
	dirty    bool
	report   LoadReport

	strictLoad   bool
	writeThrough bool
}

var _ domain.ContactRepository = (*ContactRepository)(nil)

// New loads the collection from store. A missing, empty or malformed document
// starts an empty collection; a malformed one is immediately replaced by an
// empty valid document.
func New(ctx context.Context, store domain.DocumentStore, logger *slog.Logger, opts ...Option) (*ContactRepository, error) {
	r := &ContactRepository{
		store:        store,
		logger:       logger.With("component", "contact_repository", "document", store.Location()),
		contacts:     []domain.Contact{},
		writeThrough: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ContactRepository) load(ctx context.Context) error {
	data, err := r.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			r.logger.InfoContext(ctx, "Contacts document does not exist yet, starting empty")
			return nil
		}
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		r.logger.WarnContext(ctx, "Contacts document is empty, starting empty")
		return nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.WarnContext(ctx, "Contacts document is malformed, replacing it with an empty one", "error", err)
		r.report.Malformed = true
		if err := r.flushLocked(ctx); err != nil {
			r.logger.ErrorContext(ctx, "Failed to rewrite malformed contacts document", "error", err)
		}
		return nil
	}

	loaded := make([]domain.Contact, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	dropped := 0
	for i, raw := range records {
		c, err := domain.ContactFromJSON(raw)
		c.Email = domain.CompactEmail(c.Email)
		if err == nil {
			err = c.Validate()
		}
		if err == nil {
			if _, dup := seen[c.Email]; dup {
				err = fmt.Errorf("%w: %s", domain.ErrDuplicateEntry, c.Email)
			}
		}
		if err != nil {
			dropped++
			r.logger.DebugContext(ctx, "Dropping invalid contact record", "index", i, "error", err)
			continue
		}
		seen[c.Email] = struct{}{}
		loaded = append(loaded, c)
	}

	r.report = LoadReport{Loaded: len(loaded), Dropped: dropped}
	if dropped > 0 {
		if r.strictLoad {
			r.logger.ErrorContext(ctx, "Strict load rejected contacts document", "dropped", dropped, "total", len(records))
			return fmt.Errorf("%w: %d of %d records", domain.ErrDroppedRecords, dropped, len(records))
		}
		r.logger.WarnContext(ctx, "Dropped invalid contact records during load", "dropped", dropped, "loaded", len(loaded))
	}

	r.contacts = loaded
	r.logger.InfoContext(ctx, "Contacts loaded", "count", len(loaded))
	return nil
}

// LoadReport returns the outcome of the initial load.
func (r *ContactRepository) LoadReport() LoadReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.report
}

// Add appends a valid contact whose email is not yet present. The email is
// stored in its compacted form.
func (r *ContactRepository) Add(ctx context.Context, contact domain.Contact) error {
	contact.Email = domain.CompactEmail(contact.Email)
	if err := contact.Validate(); err != nil {
		r.logger.WarnContext(ctx, "Rejected invalid contact", "email", contact.Email, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrInvalidContact, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOfLocked(contact.Email) >= 0 {
		r.logger.WarnContext(ctx, "Contact with this email already exists", "email", contact.Email)
		return domain.ErrDuplicateEntry
	}

	r.contacts = append(r.contacts, contact.Clone())
	if err := r.persistLocked(ctx); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "Contact added", "email", contact.Email)
	return nil
}

// Update replaces the contact with the same email, keeping its position.
func (r *ContactRepository) Update(ctx context.Context, contact domain.Contact) error {
	contact.Email = domain.CompactEmail(contact.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfLocked(contact.Email)
	if i < 0 {
		r.logger.WarnContext(ctx, "Contact not found for update", "email", contact.Email)
		return domain.ErrNotFound
	}
	if err := contact.Validate(); err != nil {
		r.logger.WarnContext(ctx, "Rejected invalid contact update", "email", contact.Email, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrInvalidContact, err)
	}

	r.contacts[i] = contact.Clone()
	if err := r.persistLocked(ctx); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "Contact updated", "email", contact.Email)
	return nil
}

// Remove deletes every contact with the given email.
func (r *ContactRepository) Remove(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.contacts[:0:0]
	for _, c := range r.contacts {
		if c.Email != email {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(r.contacts) {
		r.logger.WarnContext(ctx, "Contact not found for removal", "email", email)
		return domain.ErrNotFound
	}

	r.contacts = kept
	if err := r.persistLocked(ctx); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "Contact removed", "email", email)
	return nil
}

// Get returns a copy of the contact with the given email or domain.ErrNotFound.
func (r *ContactRepository) Get(email string) (domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfLocked(email)
	if i < 0 {
		return domain.Contact{}, domain.ErrNotFound
	}
	return r.contacts[i].Clone(), nil
}

// ListAll returns a copy of the collection in its current order.
func (r *ContactRepository) ListAll() []domain.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAll(r.contacts)
}

// ReplaceAll swaps in a new collection, typically a sorted ListAll result.
// Contacts are not re-validated; callers must pass valid, email-unique data.
func (r *ContactRepository) ReplaceAll(ctx context.Context, contacts []domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contacts = cloneAll(contacts)
	if err := r.persistLocked(ctx); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "All contacts replaced", "count", len(r.contacts))
	return nil
}

// Reorder lets reorder permute the collection in place while the lock is
// held, so a concurrent Add cannot be lost between reading and writing back.
// Only the order may change; reorder must not add, drop or edit contacts.
func (r *ContactRepository) Reorder(ctx context.Context, reorder func([]domain.Contact)) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	working := cloneAll(r.contacts)
	reorder(working)
	r.contacts = working
	if err := r.persistLocked(ctx); err != nil {
		return cloneAll(r.contacts), err
	}
	r.logger.InfoContext(ctx, "Contacts reordered", "count", len(r.contacts))
	return cloneAll(r.contacts), nil
}

// SearchByName matches query case-insensitively as a substring of the first
// name, last name or patronymic. Results keep collection order.
func (r *ContactRepository) SearchByName(query string) []domain.Contact {
	q := strings.ToLower(query)

	r.mu.Lock()
	defer r.mu.Unlock()

	results := []domain.Contact{}
	for _, c := range r.contacts {
		if strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(strings.ToLower(c.Patronymic), q) {
			results = append(results, c.Clone())
		}
	}
	return results
}

// Len returns the number of stored contacts.
func (r *ContactRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contacts)
}

// Flush writes the collection if it has unsaved changes.
func (r *ContactRepository) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dirty {
		return nil
	}
	return r.flushLocked(ctx)
}

// Close flushes pending changes. The repository must not be used afterwards.
func (r *ContactRepository) Close(ctx context.Context) error {
	return r.Flush(ctx)
}

func (r *ContactRepository) indexOfLocked(email string) int {
	for i := range r.contacts {
		if r.contacts[i].Email == email {
			return i
		}
	}
	return -1
}

// persistLocked applies the write policy after a mutation. On failure the
// in-memory change is kept and stays dirty.
func (r *ContactRepository) persistLocked(ctx context.Context) error {
	r.dirty = true
	if !r.writeThrough {
		return nil
	}
	return r.flushLocked(ctx)
}

func (r *ContactRepository) flushLocked(ctx context.Context) error {
	doc, err := encodeDocument(r.contacts)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrPersistence, err)
	}
	if err := r.store.Save(ctx, doc); err != nil {
		r.dirty = true
		r.logger.ErrorContext(ctx, "Failed to persist contacts", "count", len(r.contacts), "error", err)
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	r.dirty = false
	r.logger.DebugContext(ctx, "Contacts persisted", "count", len(r.contacts))
	return nil
}

// encodeDocument renders the collection as a JSON array indented by four spaces.
func encodeDocument(contacts []domain.Contact) ([]byte, error) {
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return json.MarshalIndent(contacts, "", "    ")
}

func cloneAll(contacts []domain.Contact) []domain.Contact {
	out := make([]domain.Contact, len(contacts))
	for i, c := range contacts {
		out[i] = c.Clone()
	}
	return out
}
