package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PhoneType is the category of a phone number. The numeric values are part
// of the on-disk format and must not be reordered.
type PhoneType int

const (
	PhoneTypeWork   PhoneType = 0
	PhoneTypeHome   PhoneType = 1
	PhoneTypeMobile PhoneType = 2
)

// Valid reports whether t is one of the known categories.
func (t PhoneType) Valid() bool {
	return t >= PhoneTypeWork && t <= PhoneTypeMobile
}

func (t PhoneType) String() string {
	switch t {
	case PhoneTypeWork:
		return "work"
	case PhoneTypeHome:
		return "home"
	case PhoneTypeMobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// ParsePhoneType maps "work", "home" or "mobile" (any case) to a PhoneType.
// An empty string selects PhoneTypeMobile.
func ParsePhoneType(s string) (PhoneType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PhoneTypeMobile, nil
	case "work":
		return PhoneTypeWork, nil
	case "home":
		return PhoneTypeHome, nil
	case "mobile":
		return PhoneTypeMobile, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPhoneType, s)
	}
}

// PhoneNumber is an immutable raw phone string paired with its category.
// Construction never validates; use IsValid.
type PhoneNumber struct {
	number    string
	phoneType PhoneType
}

// NewPhoneNumber creates a PhoneNumber of the given type.
func NewPhoneNumber(number string, phoneType PhoneType) PhoneNumber {
	return PhoneNumber{number: number, phoneType: phoneType}
}

// NewMobilePhone creates a PhoneNumber with the default Mobile category.
func NewMobilePhone(number string) PhoneNumber {
	return NewPhoneNumber(number, PhoneTypeMobile)
}

func (p PhoneNumber) Number() string {
	return p.number
}

func (p PhoneNumber) Type() PhoneType {
	return p.phoneType
}

// IsValid reports whether the raw number passes ValidatePhone.
func (p PhoneNumber) IsValid() bool {
	return ValidatePhone(p.number)
}

// Normalized returns the digits of the number with a leading 8 rewritten to 7
// and a bare 10-digit national number prefixed with 7. It is used only for
// comparisons and is never persisted.
func (p PhoneNumber) Normalized() string {
	var b strings.Builder
	for _, r := range p.number {
		if isDigit(r) {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return clean
	}
	switch {
	case clean[0] == '8':
		clean = "7" + clean[1:]
	case clean[0] != '7' && len(clean) == 10:
		clean = "7" + clean
	}
	return clean
}

// Equal compares normalized forms; the category is not part of identity.
func (p PhoneNumber) Equal(other PhoneNumber) bool {
	return p.Normalized() == other.Normalized()
}

func (p PhoneNumber) String() string {
	return p.phoneType.String() + ": " + p.number
}

type phoneNumberJSON struct {
	Number *string `json:"number"`
	Type   *int    `json:"type"`
}

// MarshalJSON encodes {"number": string, "type": int}.
func (p PhoneNumber) MarshalJSON() ([]byte, error) {
	number := p.number
	phoneType := int(p.phoneType)
	return json.Marshal(phoneNumberJSON{Number: &number, Type: &phoneType})
}

// UnmarshalJSON requires both fields and rejects an unknown type ordinal.
func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	var wire phoneNumberJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: phone: %v", ErrMalformedDocument, err)
	}
	if wire.Number == nil || wire.Type == nil {
		return fmt.Errorf("%w: phone: missing number or type", ErrMalformedDocument)
	}
	phoneType := PhoneType(*wire.Type)
	if !phoneType.Valid() {
		return fmt.Errorf("%w: %d (valid values are 0 work, 1 home, 2 mobile)", ErrInvalidPhoneType, *wire.Type)
	}
	*p = NewPhoneNumber(*wire.Number, phoneType)
	return nil
}
