// Package cli implements contactctl, a command line front end that edits a
// contacts file directly through app.Manager.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/contact_service/domain"
	"github.com/aradsms/contactbook/internal/contact_service/repository"
	"github.com/aradsms/contactbook/internal/contact_service/repository/filestore"
	"github.com/aradsms/contactbook/internal/platform/config"
	"github.com/aradsms/contactbook/internal/platform/logger"
	"github.com/aradsms/contactbook/internal/platform/messagebroker"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type rootOptions struct {
	file       string
	logLevel   string
	output     string
	strictLoad bool
	natsURL    string
	kafka      string
	subject    string
}

// session is the state opened by PersistentPreRunE and released by
// PersistentPostRunE.
type session struct {
	opts    *rootOptions
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
	repo    *repository.ContactRepository
	nats    *messagebroker.NatsClient
	kafka   *messagebroker.KafkaProducer
	manager *app.Manager
}

// NewRootCommand builds the contactctl command tree. cfg supplies flag defaults.
func NewRootCommand(cfg *config.Config, out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}
	s := &session{opts: opts, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "contactctl",
		Short:         "Manage a JSON contact book",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["skipRepository"] == "true" {
				s.logger = logger.NewWithWriter(opts.logLevel, errOut)
				return nil
			}
			return s.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return s.close(cmd.Context())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", cfg.ContactsFile, "path of the contacts JSON file")
	flags.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")
	flags.BoolVar(&opts.strictLoad, "strict", cfg.ContactsStrictLoad, "fail instead of dropping invalid records on load")
	flags.StringVar(&opts.natsURL, "nats-url", cfg.NATSUrl, "NATS server for change events; empty disables them")
	flags.StringVar(&opts.kafka, "kafka-brokers", cfg.KafkaBrokers, "comma separated Kafka brokers for change events")
	flags.StringVar(&opts.subject, "subject", cfg.ContactEventsSubject, "NATS subject for change events")

	root.AddCommand(
		newAddCommand(s),
		newGetCommand(s),
		newListCommand(s),
		newUpdateCommand(s),
		newRemoveCommand(s),
		newSearchCommand(s),
		newSortCommand(s),
		newWatchCommand(s),
	)
	return root
}

func (s *session) open(ctx context.Context) error {
	if s.opts.output != outputText && s.opts.output != outputJSON {
		return fmt.Errorf("unknown output format %q", s.opts.output)
	}
	s.logger = logger.NewWithWriter(s.opts.logLevel, s.errOut)

	store := filestore.NewJSONDocumentStore(s.opts.file, s.logger)
	repo, err := repository.New(ctx, store, s.logger, repository.WithStrictLoad(s.opts.strictLoad))
	if err != nil {
		return fmt.Errorf("open %s: %w", store.Location(), err)
	}
	s.repo = repo
	app.ObserveLoad(repo.LoadReport().Dropped)

	var publishers []domain.EventPublisher
	if s.opts.natsURL != "" {
		nc, err := messagebroker.NewNatsClient(s.opts.natsURL, "contactctl", s.logger)
		if err != nil {
			s.logger.WarnContext(ctx, "Continuing without NATS change events", "error", err)
		} else {
			s.nats = nc
			publishers = append(publishers, nc)
		}
	}
	if s.opts.kafka != "" {
		producer, err := messagebroker.NewKafkaProducer(s.opts.kafka, "contactctl", s.logger)
		if err != nil {
			s.logger.WarnContext(ctx, "Continuing without Kafka change events", "error", err)
		} else {
			s.kafka = producer
			publishers = append(publishers, producer)
		}
	}
	s.manager = app.NewManager(repo, app.NewEventPublisher(publishers...), s.opts.subject, s.logger)
	return nil
}

func (s *session) close(ctx context.Context) error {
	if s.nats != nil {
		s.nats.Close()
		s.nats = nil
	}
	if s.kafka != nil {
		s.kafka.Close()
		s.kafka = nil
	}
	if s.repo == nil {
		return nil
	}
	err := s.repo.Close(ctx)
	s.repo = nil
	return err
}

func (s *session) printContacts(contacts []domain.Contact) error {
	if s.opts.output == outputJSON {
		return s.printJSON(contacts)
	}
	if len(contacts) == 0 {
		_, err := fmt.Fprintln(s.out, "no contacts")
		return err
	}
	for i, c := range contacts {
		if i > 0 {
			fmt.Fprintln(s.out)
		}
		if _, err := fmt.Fprintln(s.out, c.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) printContact(c domain.Contact) error {
	if s.opts.output == outputJSON {
		return s.printJSON(c)
	}
	_, err := fmt.Fprintln(s.out, c.String())
	return err
}

func (s *session) printJSON(v interface{}) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
