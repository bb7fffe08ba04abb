package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// SortField selects the contact field used by SortContacts.
type SortField string

const (
	SortByFirstName SortField = "firstName"
	SortByLastName  SortField = "lastName"
	SortByEmail     SortField = "email"
	SortByBirthDate SortField = "birthDate"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortField accepts the field names above, case-insensitively.
func ParseSortField(s string) (SortField, error) {
	for _, f := range []SortField{SortByFirstName, SortByLastName, SortByEmail, SortByBirthDate} {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown sort field %q", ErrInvalidSort, s)
}

// ParseSortOrder accepts "asc" or "desc"; empty means ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SortAscending):
		return SortAscending, nil
	case string(SortDescending):
		return SortDescending, nil
	default:
		return "", fmt.Errorf("%w: unknown sort order %q", ErrInvalidSort, s)
	}
}

func sortKey(field SortField) func(domain.Contact) string {
	switch field {
	case SortByLastName:
		return func(c domain.Contact) string { return c.LastName }
	case SortByEmail:
		return func(c domain.Contact) string { return c.Email }
	case SortByBirthDate:
		return func(c domain.Contact) string { return chronologicalDate(c.BirthDate) }
	default:
		return func(c domain.Contact) string { return c.FirstName }
	}
}

// chronologicalDate turns DD.MM.YYYY into YYYY.MM.DD so that string order
// matches date order. Other values are returned unchanged.
func chronologicalDate(d string) string {
	if len(d) != len(domain.BirthDateLayout) || d[2] != '.' || d[5] != '.' {
		return d
	}
	return d[6:10] + "." + d[3:5] + "." + d[0:2]
}

// sortContacts orders contacts in place by a byte-wise comparison of the
// chosen field; birth dates compare chronologically. Equal keys keep their relative order.
func sortContacts(contacts []domain.Contact, field SortField, order SortOrder) {
	key := sortKey(field)
	sort.SliceStable(contacts, func(i, j int) bool {
		if order == SortDescending {
			return key(contacts[i]) > key(contacts[j])
		}
		return key(contacts[i]) < key(contacts[j])
	})
}
