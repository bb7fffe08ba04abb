package app

import (
	"context"
	"errors"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// FanOutPublisher delivers each event to every wrapped publisher. All
// publishers are tried; their errors are joined.
type FanOutPublisher []domain.EventPublisher

func (f FanOutPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, subject, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewEventPublisher returns nil for no publishers, the publisher itself for
// one, and a FanOutPublisher otherwise.
func NewEventPublisher(publishers ...domain.EventPublisher) domain.EventPublisher {
	switch len(publishers) {
	case 0:
		return nil
	case 1:
		return publishers[0]
	default:
		return FanOutPublisher(publishers)
	}
}
