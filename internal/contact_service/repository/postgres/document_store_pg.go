package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// DefaultDocumentName is the row key used when none is configured.
const DefaultDocumentName = "contacts"

// DBTX is the subset of pgxpool.Pool used by the store; pgxmock pools satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createDocumentsTable = `
	CREATE TABLE IF NOT EXISTS contact_documents (
		name       TEXT PRIMARY KEY,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

// PgDocumentStore keeps the whole contact document in one JSONB row.
type PgDocumentStore struct {
	db     DBTX
	name   string
	logger *slog.Logger
}

func NewPgDocumentStore(db DBTX, name string, logger *slog.Logger) *PgDocumentStore {
	if name == "" {
		name = DefaultDocumentName
	}
	return &PgDocumentStore{db: db, name: name, logger: logger.With("component", "document_store_pg")}
}

// EnsureSchema creates the contact_documents table if it does not exist.
func (s *PgDocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createDocumentsTable); err != nil {
		s.logger.ErrorContext(ctx, "Error creating contact_documents table", "error", err)
		return fmt.Errorf("create contact_documents: %w", err)
	}
	return nil
}

func (s *PgDocumentStore) Location() string {
	return "postgres:contact_documents/" + s.name
}

func (s *PgDocumentStore) Load(ctx context.Context) ([]byte, error) {
	query := `SELECT body FROM contact_documents WHERE name = $1`

	var body []byte
	err := s.db.QueryRow(ctx, query, s.name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		s.logger.ErrorContext(ctx, "Error loading contact document", "error", err, "name", s.name)
		return nil, fmt.Errorf("load contact document %q: %w", s.name, err)
	}
	return body, nil
}

func (s *PgDocumentStore) Save(ctx context.Context, doc []byte) error {
	query := `
		INSERT INTO contact_documents (name, body, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
	tag, err := s.db.Exec(ctx, query, s.name, doc, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving contact document", "error", err, "name", s.name)
		return fmt.Errorf("save contact document %q: %w", s.name, err)
	}
	if tag.RowsAffected() != 1 {
		s.logger.WarnContext(ctx, "Unexpected rows affected saving contact document", "rows", tag.RowsAffected(), "name", s.name)
	}
	return nil
}
