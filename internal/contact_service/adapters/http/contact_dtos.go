package http

import "github.com/aradsms/contactbook/internal/contact_service/domain"

// PhoneDTO is one phone entry in a request body. Type defaults to mobile.
type PhoneDTO struct {
	Number string `json:"number" validate:"required,max=32"`
	Type   string `json:"type,omitempty" validate:"omitempty,oneof=work home mobile"`
}

// CreateContactRequestDTO is the body of POST /contacts.
type CreateContactRequestDTO struct {
	FirstName  string     `json:"firstName" validate:"required,max=100"`
	LastName   string     `json:"lastName" validate:"required,max=100"`
	Patronymic string     `json:"patronymic,omitempty" validate:"max=100"`
	Address    string     `json:"address,omitempty" validate:"max=500"`
	BirthDate  string     `json:"birthDate,omitempty" validate:"omitempty,len=10"`
	Email      string     `json:"email" validate:"required,max=254"`
	Phones     []PhoneDTO `json:"phones" validate:"required,min=1,dive"`
}

// UpdateContactRequestDTO is the body of PUT /contacts/{email}. The email in
// the path identifies the record and cannot be changed.
type UpdateContactRequestDTO struct {
	FirstName  string     `json:"firstName" validate:"required,max=100"`
	LastName   string     `json:"lastName" validate:"required,max=100"`
	Patronymic string     `json:"patronymic,omitempty" validate:"max=100"`
	Address    string     `json:"address,omitempty" validate:"max=500"`
	BirthDate  string     `json:"birthDate,omitempty" validate:"omitempty,len=10"`
	Phones     []PhoneDTO `json:"phones" validate:"required,min=1,dive"`
}

// SortRequestDTO is the body of POST /contacts/sort.
type SortRequestDTO struct {
	Field string `json:"field" validate:"required,oneof=firstName lastName email birthDate"`
	Order string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// PhoneResponseDTO describes a stored phone number.
type PhoneResponseDTO struct {
	Number     string `json:"number"`
	Type       string `json:"type"`
	Normalized string `json:"normalized"`
}

// ContactResponseDTO describes a stored contact.
type ContactResponseDTO struct {
	FirstName  string             `json:"firstName"`
	LastName   string             `json:"lastName"`
	Patronymic string             `json:"patronymic,omitempty"`
	Address    string             `json:"address,omitempty"`
	BirthDate  string             `json:"birthDate,omitempty"`
	Email      string             `json:"email"`
	Phones     []PhoneResponseDTO `json:"phones"`
}

// ListContactsResponseDTO wraps a page of contacts.
type ListContactsResponseDTO struct {
	Contacts   []ContactResponseDTO `json:"contacts"`
	TotalCount int                  `json:"total_count"`
	Offset     int                  `json:"offset"`
	Limit      int                  `json:"limit"`
}

func contactToResponseDTO(c domain.Contact) ContactResponseDTO {
	phones := make([]PhoneResponseDTO, len(c.Phones))
	for i, p := range c.Phones {
		phones[i] = PhoneResponseDTO{
			Number:     p.Number(),
			Type:       p.Type().String(),
			Normalized: p.Normalized(),
		}
	}
	return ContactResponseDTO{
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Patronymic: c.Patronymic,
		Address:    c.Address,
		BirthDate:  c.BirthDate,
		Email:      c.Email,
		Phones:     phones,
	}
}

func contactsToResponseDTOs(contacts []domain.Contact) []ContactResponseDTO {
	out := make([]ContactResponseDTO, len(contacts))
	for i, c := range contacts {
		out[i] = contactToResponseDTO(c)
	}
	return out
}

// toDomainContact builds a contact through the domain setters so input is
// trimmed and each field is checked with a precise error.
func toDomainContact(firstName, lastName, patronymic, address, birthDate, email string, phoneDTOs []PhoneDTO) (domain.Contact, error) {
	phones := make([]domain.PhoneNumber, 0, len(phoneDTOs))
	for _, p := range phoneDTOs {
		t, err := domain.ParsePhoneType(p.Type)
		if err != nil {
			return domain.Contact{}, err
		}
		phones = append(phones, domain.NewPhoneNumber(p.Number, t))
	}
	return domain.BuildContact(firstName, lastName, patronymic, address, birthDate, email, phones)
}
