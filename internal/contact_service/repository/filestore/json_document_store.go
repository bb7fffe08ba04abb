package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// DefaultFileName is used when no path is configured.
const DefaultFileName = "contacts.json"

// JSONDocumentStore keeps the contact document in a single file on disk.
// Saves go through renameio: a synced temp file in the same directory is
// renamed over the target, so readers never observe a partial document.
type JSONDocumentStore struct {
	path   string
	perm   fs.FileMode
	logger *slog.Logger
}

// NewJSONDocumentStore creates a store for path. An empty path selects DefaultFileName.
func NewJSONDocumentStore(path string, logger *slog.Logger) *JSONDocumentStore {
	if path == "" {
		path = DefaultFileName
	}
	return &JSONDocumentStore{
		path:   path,
		perm:   0o644,
		logger: logger.With("component", "json_document_store"),
	}
}

func (s *JSONDocumentStore) Location() string {
	return s.path
}

func (s *JSONDocumentStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrDocumentNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to read contacts file", "path", s.path, "error", err)
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	s.logger.DebugContext(ctx, "Contacts file read", "path", s.path, "bytes", len(data))
	return data, nil
}

func (s *JSONDocumentStore) Save(ctx context.Context, doc []byte) error {
	dir := filepath.Dir(s.path)
	if err := renameio.WriteFile(s.path, doc, s.perm, renameio.WithTempDir(dir)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to replace contacts file", "path", s.path, "error", err)
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.logger.DebugContext(ctx, "Contacts file written", "path", s.path, "bytes", len(doc))
	return nil
}
