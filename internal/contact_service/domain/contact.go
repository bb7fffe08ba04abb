package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Contact is a person record identified by its email address.
// Construction performs no validation; setters validate a single field and
// Validate checks the whole record.
type Contact struct {
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	Patronymic string        `json:"patronymic"`
	Address    string        `json:"address"`
	BirthDate  string        `json:"birthDate"`
	Email      string        `json:"email"`
	Phones     []PhoneNumber `json:"phones"`
}

// NewContact creates a Contact from caller-supplied fields.
// The phone slice is copied.
func NewContact(firstName, lastName, patronymic, address, birthDate, email string, phones []PhoneNumber) Contact {
	return Contact{
		FirstName:  firstName,
		LastName:   lastName,
		Patronymic: patronymic,
		Address:    address,
		BirthDate:  birthDate,
		Email:      email,
		Phones:     clonePhones(phones),
	}
}

// BuildContact assembles a contact through the setters, so input is trimmed
// and the first invalid field is reported as a *ValidationError.
func BuildContact(firstName, lastName, patronymic, address, birthDate, email string, phones []PhoneNumber) (Contact, error) {
	var c Contact
	if err := c.SetFirstName(firstName); err != nil {
		return Contact{}, err
	}
	if err := c.SetLastName(lastName); err != nil {
		return Contact{}, err
	}
	if err := c.SetPatronymic(patronymic); err != nil {
		return Contact{}, err
	}
	c.SetAddress(address)
	if err := c.SetBirthDate(birthDate); err != nil {
		return Contact{}, err
	}
	if err := c.SetEmail(email); err != nil {
		return Contact{}, err
	}
	if err := c.SetPhones(phones); err != nil {
		return Contact{}, err
	}
	return c, nil
}

// Clone returns a deep copy that shares no state with c.
func (c Contact) Clone() Contact {
	c.Phones = clonePhones(c.Phones)
	return c
}

// IsZero reports whether every field is empty, which is what a failed decode yields.
func (c Contact) IsZero() bool {
	return c.FirstName == "" && c.LastName == "" && c.Patronymic == "" &&
		c.Address == "" && c.BirthDate == "" && c.Email == "" && len(c.Phones) == 0
}

func (c *Contact) SetFirstName(v string) error {
	v = strings.TrimSpace(v)
	if !ValidateName(v) {
		return newValidationError("firstName", v, "must start with a letter and contain only letters, digits, '-' or spaces")
	}
	c.FirstName = v
	return nil
}

func (c *Contact) SetLastName(v string) error {
	v = strings.TrimSpace(v)
	if !ValidateName(v) {
		return newValidationError("lastName", v, "must start with a letter and contain only letters, digits, '-' or spaces")
	}
	c.LastName = v
	return nil
}

// SetPatronymic accepts an empty value, which clears the field.
func (c *Contact) SetPatronymic(v string) error {
	v = strings.TrimSpace(v)
	if v != "" && !ValidateName(v) {
		return newValidationError("patronymic", v, "must start with a letter and contain only letters, digits, '-' or spaces")
	}
	c.Patronymic = v
	return nil
}

// SetAddress stores the trimmed address; addresses are not validated.
func (c *Contact) SetAddress(v string) {
	c.Address = strings.TrimSpace(v)
}

// SetBirthDate accepts an empty value, which clears the field.
func (c *Contact) SetBirthDate(v string) error {
	v = strings.TrimSpace(v)
	if v != "" && !ValidateBirthDate(v) {
		return newValidationError("birthDate", v, "must be a real DD.MM.YYYY date before today")
	}
	c.BirthDate = v
	return nil
}

// SetEmail removes all whitespace from v before validating and storing it.
func (c *Contact) SetEmail(v string) error {
	v = CompactEmail(v)
	if !ValidateEmail(v) {
		return newValidationError("email", v, "must look like name@domain.tld")
	}
	c.Email = v
	return nil
}

// SetPhones replaces the phone list. The list must be non-empty and every
// number valid; otherwise the current list is kept.
func (c *Contact) SetPhones(phones []PhoneNumber) error {
	if len(phones) == 0 {
		return newValidationError("phones", "", "at least one phone number is required")
	}
	for _, p := range phones {
		if !p.IsValid() {
			return newValidationError("phones", p.Number(), "must be +7XXXXXXXXXX or 8XXXXXXXXXX")
		}
	}
	c.Phones = clonePhones(phones)
	return nil
}

// AddPhone appends p if it is valid.
func (c *Contact) AddPhone(p PhoneNumber) error {
	if !p.IsValid() {
		return newValidationError("phone", p.Number(), "must be +7XXXXXXXXXX or 8XXXXXXXXXX")
	}
	c.Phones = append(c.Phones, p)
	return nil
}

// RemovePhone removes the phone at index.
func (c *Contact) RemovePhone(index int) error {
	if index < 0 || index >= len(c.Phones) {
		return fmt.Errorf("%w: index %d, %d phones", ErrPhoneIndexOutOfRange, index, len(c.Phones))
	}
	c.Phones = append(c.Phones[:index:index], c.Phones[index+1:]...)
	return nil
}

func (c *Contact) ClearPhones() {
	c.Phones = nil
}

func (c Contact) PhoneCount() int {
	return len(c.Phones)
}

// Validate checks the record invariants in order and returns the first
// failing rule as a *ValidationError.
func (c Contact) Validate() error {
	switch {
	case c.FirstName == "":
		return newValidationError("firstName", "", "is required")
	case c.LastName == "":
		return newValidationError("lastName", "", "is required")
	case c.Email == "":
		return newValidationError("email", "", "is required")
	case !ValidateName(c.FirstName):
		return newValidationError("firstName", c.FirstName, "is not a valid name")
	case !ValidateName(c.LastName):
		return newValidationError("lastName", c.LastName, "is not a valid name")
	case c.Patronymic != "" && !ValidateName(c.Patronymic):
		return newValidationError("patronymic", c.Patronymic, "is not a valid name")
	case !ValidateEmail(c.Email):
		return newValidationError("email", c.Email, "is not a valid email address")
	case len(c.Phones) == 0:
		return newValidationError("phones", "", "at least one phone number is required")
	}
	for _, p := range c.Phones {
		if !p.IsValid() {
			return newValidationError("phones", p.Number(), "is not a valid phone number")
		}
	}
	if c.BirthDate != "" && !ValidateBirthDate(c.BirthDate) {
		return newValidationError("birthDate", c.BirthDate, "must be a real DD.MM.YYYY date before today")
	}
	return nil
}

// IsValid reports whether Validate succeeds.
func (c Contact) IsValid() bool {
	return c.Validate() == nil
}

// Equal compares first name, last name, patronymic and email only.
func (c Contact) Equal(other Contact) bool {
	return c.FirstName == other.FirstName &&
		c.LastName == other.LastName &&
		c.Patronymic == other.Patronymic &&
		c.Email == other.Email
}

// String renders "Last First Patronymic[, birthDate: d][, email: e][, phones: n]".
func (c Contact) String() string {
	var b strings.Builder
	b.WriteString(c.LastName + " " + c.FirstName + " " + c.Patronymic)
	if c.BirthDate != "" {
		b.WriteString(", birthDate: " + c.BirthDate)
	}
	if c.Email != "" {
		b.WriteString(", email: " + c.Email)
	}
	if len(c.Phones) > 0 {
		b.WriteString(", phones: " + strconv.Itoa(len(c.Phones)))
	}
	return b.String()
}

type contactJSON struct {
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Patronymic string          `json:"patronymic"`
	Address    string          `json:"address"`
	BirthDate  string          `json:"birthDate"`
	Email      string          `json:"email"`
	Phones     json.RawMessage `json:"phones"`
}

// MarshalJSON always emits a phones array, never null.
func (c Contact) MarshalJSON() ([]byte, error) {
	phones := c.Phones
	if phones == nil {
		phones = []PhoneNumber{}
	}
	type plain Contact
	p := plain(c)
	p.Phones = phones
	return json.Marshal(p)
}

// UnmarshalJSON decodes with ContactFromJSON. On a malformed payload c is
// reset to the zero Contact and the error is returned.
func (c *Contact) UnmarshalJSON(data []byte) error {
	decoded, err := ContactFromJSON(data)
	*c = decoded
	return err
}

// ContactFromJSON decodes a contact object. A one-element array wrapping the
// object (or wrapping a JSON string holding the object) is unwrapped first.
// Missing fields become empty strings and undecodable phone entries are
// skipped. A malformed payload yields the zero Contact together with an
// ErrMalformedDocument error; callers must check validity before trusting
// the result.
func ContactFromJSON(data []byte) (Contact, error) {
	payload, err := unwrapContactPayload(data)
	if err != nil {
		return Contact{}, err
	}

	var wire contactJSON
	if err := json.Unmarshal(payload, &wire); err != nil {
		return Contact{}, fmt.Errorf("%w: contact: %v", ErrMalformedDocument, err)
	}

	c := Contact{
		FirstName:  wire.FirstName,
		LastName:   wire.LastName,
		Patronymic: wire.Patronymic,
		Address:    wire.Address,
		BirthDate:  wire.BirthDate,
		Email:      wire.Email,
	}

	var entries []json.RawMessage
	if len(wire.Phones) > 0 && json.Unmarshal(wire.Phones, &entries) == nil {
		for _, entry := range entries {
			var p PhoneNumber
			if err := json.Unmarshal(entry, &p); err != nil {
				continue
			}
			c.Phones = append(c.Phones, p)
		}
	}
	return c, nil
}

func unwrapContactPayload(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return trimmed, nil
	}

	var wrapped []json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: contact: %v", ErrMalformedDocument, err)
	}
	if len(wrapped) == 0 {
		return nil, fmt.Errorf("%w: contact: empty array", ErrMalformedDocument)
	}

	first := bytes.TrimSpace(wrapped[0])
	if len(first) > 0 && first[0] == '"' {
		var inner string
		if err := json.Unmarshal(first, &inner); err != nil {
			return nil, fmt.Errorf("%w: contact: %v", ErrMalformedDocument, err)
		}
		return []byte(inner), nil
	}
	return first, nil
}

func clonePhones(phones []PhoneNumber) []PhoneNumber {
	if phones == nil {
		return nil
	}
	out := make([]PhoneNumber, len(phones))
	copy(out, phones)
	return out
}
