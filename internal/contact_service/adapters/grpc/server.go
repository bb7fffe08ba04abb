package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// ContactService is the part of app.Manager served over gRPC.
type ContactService interface {
	AddContact(ctx context.Context, contact domain.Contact) error
	UpdateContact(ctx context.Context, contact domain.Contact) error
	RemoveContact(ctx context.Context, email string) error
	GetContact(email string) (domain.Contact, error)
	ListContacts() []domain.Contact
	SortContacts(ctx context.Context, field app.SortField, order app.SortOrder) ([]domain.Contact, error)
	SearchByName(query string) []domain.Contact
	SearchByEmail(query string) []domain.Contact
	SearchByPhone(query string) []domain.Contact
}

// GRPCServer implements ContactServiceServer on top of a ContactService.
type GRPCServer struct {
	service ContactService
	logger  *slog.Logger
}

var _ ContactServiceServer = (*GRPCServer)(nil)

// NewGRPCServer creates a new GRPCServer instance.
func NewGRPCServer(service ContactService, logger *slog.Logger) *GRPCServer {
	return &GRPCServer{
		service: service,
		logger:  logger.With("component", "contact_grpc_server"),
	}
}

func (s *GRPCServer) AddContact(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	contact, err := contactFromStruct(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid contact: %v", err)
	}
	if err := s.service.AddContact(ctx, contact); err != nil {
		s.logger.ErrorContext(ctx, "AddContact failed", "error", err, "email", contact.Email)
		return nil, toStatus(err, "failed to add contact")
	}
	return s.respondWithContact(contact)
}

// UpdateContact replaces the contact whose email matches req["email"].
func (s *GRPCServer) UpdateContact(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	contact, err := contactFromStruct(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid contact: %v", err)
	}
	if err := s.service.UpdateContact(ctx, contact); err != nil {
		s.logger.ErrorContext(ctx, "UpdateContact failed", "error", err, "email", contact.Email)
		return nil, toStatus(err, "failed to update contact")
	}
	return s.respondWithContact(contact)
}

func (s *GRPCServer) RemoveContact(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	email := req.GetValue()
	if email == "" {
		return nil, status.Error(codes.InvalidArgument, "email is required")
	}
	if err := s.service.RemoveContact(ctx, email); err != nil {
		s.logger.ErrorContext(ctx, "RemoveContact failed", "error", err, "email", email)
		return nil, toStatus(err, "failed to remove contact")
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) GetContact(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	email := req.GetValue()
	if email == "" {
		return nil, status.Error(codes.InvalidArgument, "email is required")
	}
	contact, err := s.service.GetContact(email)
	if err != nil {
		return nil, toStatus(err, "failed to get contact")
	}
	return s.respondWithContact(contact)
}

func (s *GRPCServer) ListContacts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	return s.respondWithContacts(ctx, s.service.ListContacts())
}

func (s *GRPCServer) SearchContacts(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	fields := req.GetFields()
	query := fields["query"].GetStringValue()

	var results []domain.Contact
	switch by := strings.ToLower(fields["by"].GetStringValue()); by {
	case "", "name":
		results = s.service.SearchByName(query)
	case "email":
		results = s.service.SearchByEmail(query)
	case "phone":
		results = s.service.SearchByPhone(query)
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown search field %q, expected name, email or phone", by)
	}
	return s.respondWithContacts(ctx, results)
}

func (s *GRPCServer) SortContacts(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	fields := req.GetFields()
	field, err := app.ParseSortField(fields["field"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	order, err := app.ParseSortOrder(fields["order"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	sorted, err := s.service.SortContacts(ctx, field, order)
	if err != nil {
		s.logger.ErrorContext(ctx, "SortContacts failed", "error", err, "field", field, "order", order)
		return nil, toStatus(err, "failed to sort contacts")
	}
	return s.respondWithContacts(ctx, sorted)
}

func (s *GRPCServer) respondWithContact(c domain.Contact) (*structpb.Struct, error) {
	out, err := contactToStruct(c)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode contact: %v", err)
	}
	return out, nil
}

func (s *GRPCServer) respondWithContacts(ctx context.Context, contacts []domain.Contact) (*structpb.ListValue, error) {
	out, err := contactsToList(contacts)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode contacts", "error", err)
		return nil, status.Errorf(codes.Internal, "failed to encode contacts: %v", err)
	}
	return out, nil
}

// toStatus maps domain and app errors to gRPC status codes.
func toStatus(err error, msg string) error {
	code := codes.Internal
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrDuplicateEntry):
		code = codes.AlreadyExists
	case errors.Is(err, domain.ErrInvalidContact),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidPhoneType),
		errors.Is(err, app.ErrInvalidSort):
		code = codes.InvalidArgument
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	}
	return status.Errorf(code, "%s: %v", msg, err)
}
