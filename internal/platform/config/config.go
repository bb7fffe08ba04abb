package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store backends selectable through CONTACTS_STORE.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds all configuration for the contact service and CLI.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`

	ContactsFile         string `mapstructure:"CONTACTS_FILE"`
	ContactsStore        string `mapstructure:"CONTACTS_STORE"`
	ContactsDocumentName string `mapstructure:"CONTACTS_DOCUMENT_NAME"`
	ContactsStrictLoad   bool   `mapstructure:"CONTACTS_STRICT_LOAD"`
	ContactsWriteThrough bool   `mapstructure:"CONTACTS_WRITE_THROUGH"`

	PostgresDSN string `mapstructure:"POSTGRES_DSN"`
	RedisURL    string `mapstructure:"REDIS_URL"`

	// Empty NATSUrl disables change events.
	NATSUrl              string `mapstructure:"NATS_URL"`
	ContactEventsSubject string `mapstructure:"CONTACT_EVENTS_SUBJECT"`
	// Comma separated; empty disables the Kafka event sink.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`

	ContactServiceHTTPPort int `mapstructure:"CONTACT_SERVICE_HTTP_PORT"`
	// Zero disables the gRPC listener.
	ContactServiceGRPCPort int `mapstructure:"CONTACT_SERVICE_GRPC_PORT"`

	// Empty JWTAccessSecret disables bearer auth on the HTTP and gRPC APIs.
	JWTAccessSecret string `mapstructure:"JWT_ACCESS_SECRET"`
}

var knownKeys = map[string]interface{}{
	"LOG_LEVEL":                 "info",
	"CONTACTS_FILE":             "contacts.json",
	"CONTACTS_STORE":            StoreFile,
	"CONTACTS_DOCUMENT_NAME":    "contacts",
	"CONTACTS_STRICT_LOAD":      false,
	"CONTACTS_WRITE_THROUGH":    true,
	"POSTGRES_DSN":              "",
	"REDIS_URL":                 "",
	"NATS_URL":                  "",
	"CONTACT_EVENTS_SUBJECT":    "contacts.changed",
	"KAFKA_BROKERS":             "",
	"CONTACT_SERVICE_HTTP_PORT": 8085,
	"CONTACT_SERVICE_GRPC_PORT": 50055,
	"JWT_ACCESS_SECRET":         "",
}

// Load reads configs/config.defaults.yaml (if present), then an optional
// <serviceName>.yaml next to it, then APP_-prefixed environment variables.
func Load(serviceName string) (*Config, error) {
	return load(serviceName, defaultConfigPaths...)
}

var defaultConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
	".",
}

func load(serviceName string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("APP") // APP_LOG_LEVEL, APP_CONTACTS_FILE etc.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, def := range knownKeys {
		v.SetDefault(key, def)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read base config: %w", err)
		}
	}

	if serviceName != "" {
		v.SetConfigName(serviceName)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to merge %s config: %w", serviceName, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	c.ContactsStore = strings.ToLower(strings.TrimSpace(c.ContactsStore))
	switch c.ContactsStore {
	case StoreFile:
		if c.ContactsFile == "" {
			return errors.New("config: CONTACTS_FILE must be set for the file store")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("config: POSTGRES_DSN must be set for the postgres store")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL must be set for the redis store")
		}
	default:
		return fmt.Errorf("config: unknown CONTACTS_STORE %q", c.ContactsStore)
	}
	if c.ContactServiceHTTPPort <= 0 || c.ContactServiceHTTPPort > 65535 {
		return fmt.Errorf("config: invalid CONTACT_SERVICE_HTTP_PORT %d", c.ContactServiceHTTPPort)
	}
	if c.ContactServiceGRPCPort < 0 || c.ContactServiceGRPCPort > 65535 {
		return fmt.Errorf("config: invalid CONTACT_SERVICE_GRPC_PORT %d", c.ContactServiceGRPCPort)
	}
	if c.ContactServiceGRPCPort != 0 && c.ContactServiceGRPCPort == c.ContactServiceHTTPPort {
		return fmt.Errorf("config: CONTACT_SERVICE_GRPC_PORT and CONTACT_SERVICE_HTTP_PORT are both %d", c.ContactServiceGRPCPort)
	}
	return nil
}
