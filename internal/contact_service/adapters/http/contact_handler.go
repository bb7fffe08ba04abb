package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// ContactService is the part of app.Manager used by the HTTP API.
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

// ContactHandler handles HTTP requests for the contact collection.
type ContactHandler struct {
	service  ContactService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service ContactService, logger *slog.Logger, validate *validator.Validate) *ContactHandler {
	return &ContactHandler{
		service:  service,
		logger:   logger.With("component", "contact_http_handler"),
		validate: validate,
	}
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// mapDomainErrorToHTTPStatus converts domain and app errors to HTTP status codes.
func mapDomainErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidContact),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidPhoneType),
		errors.Is(err, app.ErrInvalidSort):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RegisterRoutes sets up the routing for contact operations.
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Post("/contacts", h.CreateContact)
	r.Get("/contacts", h.ListContacts)
	r.Get("/contacts/search", h.SearchContacts)
	r.Post("/contacts/sort", h.SortContacts)
	r.Get("/contacts/{email}", h.GetContact)
	r.Put("/contacts/{email}", h.UpdateContact)
	r.Delete("/contacts/{email}", h.DeleteContact)
}

func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO CreateContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	contact, err := toDomainContact(reqDTO.FirstName, reqDTO.LastName, reqDTO.Patronymic,
		reqDTO.Address, reqDTO.BirthDate, reqDTO.Email, reqDTO.Phones)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if err := h.service.AddContact(ctx, contact); err != nil {
		h.logger.ErrorContext(ctx, "AddContact failed", "error", err, "email", contact.Email)
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to create contact: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, contactToResponseDTO(contact))
}

func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if offset < 0 {
		offset = 0
	}

	all := h.service.ListContacts()
	page := all
	if offset >= len(page) {
		page = nil
	} else {
		page = page[offset:]
	}
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}

	respondWithJSON(w, http.StatusOK, ListContactsResponseDTO{
		Contacts:   contactsToResponseDTOs(page),
		TotalCount: len(all),
		Offset:     offset,
		Limit:      limit,
	})
}

// SearchContacts serves GET /contacts/search?q=...&by=name|email|phone.
// by defaults to name.
func (h *ContactHandler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var results []domain.Contact
	switch by := r.URL.Query().Get("by"); by {
	case "", "name":
		results = h.service.SearchByName(query)
	case "email":
		results = h.service.SearchByEmail(query)
	case "phone":
		results = h.service.SearchByPhone(query)
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown search field: "+by)
		return
	}

	respondWithJSON(w, http.StatusOK, ListContactsResponseDTO{
		Contacts:   contactsToResponseDTOs(results),
		TotalCount: len(results),
	})
}

func (h *ContactHandler) SortContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO SortRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	order, err := app.ParseSortOrder(reqDTO.Order)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sorted, err := h.service.SortContacts(ctx, app.SortField(reqDTO.Field), order)
	if err != nil {
		h.logger.ErrorContext(ctx, "SortContacts failed", "error", err, "field", reqDTO.Field, "order", order)
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to sort contacts: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, ListContactsResponseDTO{
		Contacts:   contactsToResponseDTOs(sorted),
		TotalCount: len(sorted),
	})
}

func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	contact, err := h.service.GetContact(email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.logger.ErrorContext(ctx, "GetContact failed", "error", err, "email", email)
		}
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to get contact: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, contactToResponseDTO(contact))
}

func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	var reqDTO UpdateContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	contact, err := toDomainContact(reqDTO.FirstName, reqDTO.LastName, reqDTO.Patronymic,
		reqDTO.Address, reqDTO.BirthDate, email, reqDTO.Phones)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if err := h.service.UpdateContact(ctx, contact); err != nil {
		h.logger.ErrorContext(ctx, "UpdateContact failed", "error", err, "email", email)
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to update contact: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, contactToResponseDTO(contact))
}

func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveContact(ctx, email); err != nil {
		h.logger.ErrorContext(ctx, "RemoveContact failed", "error", err, "email", email)
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to delete contact: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// emailParam returns the decoded {email} segment. chi matches against
// URL.RawPath when it is set, so only then is the segment still escaped.
func emailParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := chi.URLParam(r, "email")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(email)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid email in URL")
			return "", false
		}
		email = unescaped
	}
	if email == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid email in URL")
		return "", false
	}
	return email, true
}
