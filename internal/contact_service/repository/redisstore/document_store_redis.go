package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// Redis key prefix for contact documents.
const documentKeyPrefix = "contacts:document:"

// DefaultDocumentName is used when no name is configured.
const DefaultDocumentName = "contacts"

// RedisDocumentStore keeps the contact document under a single Redis key.
// SET replaces the value atomically, so readers never see a partial document.
type RedisDocumentStore struct {
	client redis.UniversalClient
	key    string
	logger *slog.Logger
}

// NewRedisDocumentStore creates a store for the document called name.
func NewRedisDocumentStore(client redis.UniversalClient, name string, logger *slog.Logger) *RedisDocumentStore {
	if name == "" {
		name = DefaultDocumentName
	}
	return &RedisDocumentStore{
		client: client,
		key:    documentKeyPrefix + name,
		logger: logger.With("component", "document_store_redis"),
	}
}

func (s *RedisDocumentStore) Location() string {
	return "redis:" + s.key
}

func (s *RedisDocumentStore) Load(ctx context.Context) ([]byte, error) {
	doc, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read contacts document", "key", s.key, "error", err)
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	return doc, nil
}

func (s *RedisDocumentStore) Save(ctx context.Context, doc []byte) error {
	if err := s.client.Set(ctx, s.key, doc, 0).Err(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write contacts document", "key", s.key, "error", err)
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	s.logger.DebugContext(ctx, "Contacts document saved", "key", s.key, "bytes", len(doc))
	return nil
}

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
