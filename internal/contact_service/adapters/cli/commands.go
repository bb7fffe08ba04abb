package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/contact_service/domain"
	"github.com/aradsms/contactbook/internal/platform/messagebroker"
)

// contactFlags are shared by add and update.
type contactFlags struct {
	firstName  string
	lastName   string
	patronymic string
	address    string
	birthDate  string
	email      string
	phones     []string
}

func (f *contactFlags) register(cmd *cobra.Command, withEmail bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.firstName, "first-name", "", "first name")
	fl.StringVar(&f.lastName, "last-name", "", "last name")
	fl.StringVar(&f.patronymic, "patronymic", "", "patronymic")
	fl.StringVar(&f.address, "address", "", "postal address")
	fl.StringVar(&f.birthDate, "birth-date", "", "birth date as DD.MM.YYYY")
	if withEmail {
		fl.StringVar(&f.email, "email", "", "email address, the unique key")
	}
	fl.StringArrayVar(&f.phones, "phone", nil, "phone as NUMBER or TYPE:NUMBER (work, home, mobile); repeatable")
}

// parsePhoneFlag accepts "+79123456789" or "work:+79123456789".
func parsePhoneFlag(v string) (domain.PhoneNumber, error) {
	number := v
	phoneType := domain.PhoneTypeMobile
	if prefix, rest, found := strings.Cut(v, ":"); found {
		t, err := domain.ParsePhoneType(prefix)
		if err != nil {
			return domain.PhoneNumber{}, err
		}
		phoneType, number = t, rest
	}
	return domain.NewPhoneNumber(strings.TrimSpace(number), phoneType), nil
}

func parsePhoneFlags(values []string) ([]domain.PhoneNumber, error) {
	phones := make([]domain.PhoneNumber, 0, len(values))
	for _, v := range values {
		p, err := parsePhoneFlag(v)
		if err != nil {
			return nil, err
		}
		phones = append(phones, p)
	}
	return phones, nil
}

// apply writes every flag the user actually set onto c through the domain setters.
func (f *contactFlags) apply(cmd *cobra.Command, c *domain.Contact) error {
	steps := []struct {
		flag string
		set  func() error
	}{
		{"first-name", func() error { return c.SetFirstName(f.firstName) }},
		{"last-name", func() error { return c.SetLastName(f.lastName) }},
		{"patronymic", func() error { return c.SetPatronymic(f.patronymic) }},
		{"address", func() error { c.SetAddress(f.address); return nil }},
		{"birth-date", func() error { return c.SetBirthDate(f.birthDate) }},
		{"email", func() error { return c.SetEmail(f.email) }},
		{"phone", func() error {
			phones, err := parsePhoneFlags(f.phones)
			if err != nil {
				return err
			}
			return c.SetPhones(phones)
		}},
	}
	for _, step := range steps {
		if cmd.Flags().Lookup(step.flag) == nil || !cmd.Flags().Changed(step.flag) {
			continue
		}
		if err := step.set(); err != nil {
			return err
		}
	}
	return nil
}

func newAddCommand(s *session) *cobra.Command {
	f := &contactFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var c domain.Contact
			if err := f.apply(cmd, &c); err != nil {
				return err
			}
			if err := s.manager.AddContact(cmd.Context(), c); err != nil {
				return err
			}
			return s.printContact(c)
		},
	}
	f.register(cmd, true)
	for _, name := range []string{"first-name", "last-name", "email", "phone"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newGetCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get EMAIL",
		Short: "Show the contact with the given email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.manager.GetContact(args[0])
			if err != nil {
				return err
			}
			return s.printContact(c)
		},
	}
}

func newListCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every contact in stored order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.printContacts(s.manager.ListContacts())
		},
	}
}

func newUpdateCommand(s *session) *cobra.Command {
	f := &contactFlags{}
	cmd := &cobra.Command{
		Use:   "update EMAIL",
		Short: "Change fields of an existing contact; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.manager.GetContact(args[0])
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &c); err != nil {
				return err
			}
			if err := s.manager.UpdateContact(cmd.Context(), c); err != nil {
				return err
			}
			return s.printContact(c)
		},
	}
	f.register(cmd, false)
	return cmd
}

func newRemoveCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "remove EMAIL",
		Aliases: []string{"rm"},
		Short:   "Remove the contact with the given email",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.manager.RemoveContact(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return err
		},
	}
}

func newSearchCommand(s *session) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find contacts by name, email or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch by {
			case "name":
				return s.printContacts(s.manager.SearchByName(args[0]))
			case "email":
				return s.printContacts(s.manager.SearchByEmail(args[0]))
			case "phone":
				return s.printContacts(s.manager.SearchByPhone(args[0]))
			default:
				return fmt.Errorf("unknown search field %q", by)
			}
		},
	}
	cmd.Flags().StringVar(&by, "by", "name", "field to search: name, email or phone")
	return cmd
}

func newSortCommand(s *session) *cobra.Command {
	var field, order string
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Reorder the stored collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := app.ParseSortField(field)
			if err != nil {
				return err
			}
			o, err := app.ParseSortOrder(order)
			if err != nil {
				return err
			}
			sorted, err := s.manager.SortContacts(cmd.Context(), f, o)
			if err != nil {
				return err
			}
			return s.printContacts(sorted)
		},
	}
	cmd.Flags().StringVar(&field, "field", string(app.SortByLastName), "firstName, lastName, email or birthDate")
	cmd.Flags().StringVar(&order, "order", string(app.SortAscending), "asc or desc")
	return cmd
}

func newWatchCommand(s *session) *cobra.Command {
	var queueGroup string
	cmd := &cobra.Command{
		Use:         "watch",
		Short:       "Print contact change events from NATS until interrupted",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipRepository": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if s.opts.natsURL == "" {
				return errors.New("watch needs --nats-url")
			}
			ctx := cmd.Context()
			nc, err := messagebroker.NewNatsClient(s.opts.natsURL, "contactctl-watch", s.logger)
			if err != nil {
				return err
			}
			defer nc.Close()

			out := cmd.OutOrStdout()
			_, err = nc.Subscribe(ctx, s.opts.subject, queueGroup, func(msg *nats.Msg) {
				fmt.Fprintln(out, string(msg.Data))
			})
			if err != nil {
				return err
			}
			s.logger.InfoContext(ctx, "Watching contact events", "subject", s.opts.subject)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&queueGroup, "queue", "", "NATS queue group to join")
	return cmd
}
