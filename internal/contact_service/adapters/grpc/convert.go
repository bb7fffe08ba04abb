package grpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// contactToStruct renders c with the document field names. Phone types are
// sent by name and each phone carries its normalized form.
func contactToStruct(c domain.Contact) (*structpb.Struct, error) {
	phones := make([]interface{}, len(c.Phones))
	for i, p := range c.Phones {
		phones[i] = map[string]interface{}{
			"number":     p.Number(),
			"type":       p.Type().String(),
			"normalized": p.Normalized(),
		}
	}
	return structpb.NewStruct(map[string]interface{}{
		"firstName":  c.FirstName,
		"lastName":   c.LastName,
		"patronymic": c.Patronymic,
		"address":    c.Address,
		"birthDate":  c.BirthDate,
		"email":      c.Email,
		"phones":     phones,
	})
}

func contactsToList(contacts []domain.Contact) (*structpb.ListValue, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(contacts))}
	for _, c := range contacts {
		s, err := contactToStruct(c)
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, structpb.NewStructValue(s))
	}
	return list, nil
}

// contactFromStruct builds a contact through the domain setters. A phone
// type may be given by name or by its ordinal; a missing type means mobile.
func contactFromStruct(s *structpb.Struct) (domain.Contact, error) {
	fields := s.GetFields()
	str := func(key string) string { return fields[key].GetStringValue() }

	var phones []domain.PhoneNumber
	for i, v := range fields["phones"].GetListValue().GetValues() {
		entry := v.GetStructValue()
		if entry == nil {
			return domain.Contact{}, fmt.Errorf("%w: phones[%d] is not an object", domain.ErrValidation, i)
		}
		phoneType, err := phoneTypeFromValue(entry.GetFields()["type"])
		if err != nil {
			return domain.Contact{}, err
		}
		phones = append(phones, domain.NewPhoneNumber(entry.GetFields()["number"].GetStringValue(), phoneType))
	}

	return domain.BuildContact(str("firstName"), str("lastName"), str("patronymic"),
		str("address"), str("birthDate"), str("email"), phones)
}

func phoneTypeFromValue(v *structpb.Value) (domain.PhoneType, error) {
	switch kind := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return domain.PhoneTypeMobile, nil
	case *structpb.Value_StringValue:
		return domain.ParsePhoneType(kind.StringValue)
	case *structpb.Value_NumberValue:
		t := domain.PhoneType(int(kind.NumberValue))
		if float64(t) != kind.NumberValue || !t.Valid() {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidPhoneType, kind.NumberValue)
		}
		return t, nil
	default:
		return 0, fmt.Errorf("%w: unsupported type value", domain.ErrInvalidPhoneType)
	}
}
