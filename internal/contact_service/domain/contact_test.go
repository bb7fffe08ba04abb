package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() Contact {
	return NewContact("Ivan", "Petrov", "Sergeevich", "Moscow, Tverskaya 1", "15.03.1990", "ivan@example.com",
		[]PhoneNumber{NewMobilePhone("+79123456789"), NewPhoneNumber("8 (495) 123-45-67", PhoneTypeWork)})
}

func TestContact_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, validContact().Validate())
		assert.True(t, validContact().IsValid())
	})

	t.Run("OptionalFieldsMayBeEmpty", func(t *testing.T) {
		c := validContact()
		c.Patronymic = ""
		c.BirthDate = ""
		c.Address = ""
		assert.NoError(t, c.Validate())
	})

	tests := []struct {
		name   string
		mutate func(c *Contact)
		field  string
	}{
		{"MissingFirstName", func(c *Contact) { c.FirstName = "" }, "firstName"},
		{"MissingLastName", func(c *Contact) { c.LastName = "" }, "lastName"},
		{"MissingEmail", func(c *Contact) { c.Email = "" }, "email"},
		{"BadFirstName", func(c *Contact) { c.FirstName = "-Ivan" }, "firstName"},
		{"BadLastName", func(c *Contact) { c.LastName = "P3tr0v!" }, "lastName"},
		{"BadPatronymic", func(c *Contact) { c.Patronymic = "1x" }, "patronymic"},
		{"BadEmail", func(c *Contact) { c.Email = "ivan@" }, "email"},
		{"NoPhones", func(c *Contact) { c.Phones = nil }, "phones"},
		{"BadPhone", func(c *Contact) { c.Phones = append(c.Phones, NewMobilePhone("123")) }, "phones"},
		{"FutureBirthDate", func(c *Contact) { c.BirthDate = time.Now().AddDate(1, 0, 0).Format(BirthDateLayout) }, "birthDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContact()
			tt.mutate(&c)

			err := c.Validate()
			require.ErrorIs(t, err, ErrValidation)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.NotEmpty(t, vErr.Reason)
			assert.False(t, c.IsValid())
		})
	}
}

func TestContact_Setters(t *testing.T) {
	t.Run("TrimmedValueStored", func(t *testing.T) {
		var c Contact
		require.NoError(t, c.SetFirstName("  Ivan "))
		require.NoError(t, c.SetLastName("\tPetrov"))
		require.NoError(t, c.SetPatronymic(" Sergeevich "))
		require.NoError(t, c.SetBirthDate(" 01.01.1990 "))
		require.NoError(t, c.SetEmail(" ivan @example.com "))
		c.SetAddress("  Moscow ")

		assert.Equal(t, "Ivan", c.FirstName)
		assert.Equal(t, "Petrov", c.LastName)
		assert.Equal(t, "Sergeevich", c.Patronymic)
		assert.Equal(t, "01.01.1990", c.BirthDate)
		assert.Equal(t, "ivan@example.com", c.Email)
		assert.Equal(t, "Moscow", c.Address)
	})

	t.Run("RejectedValueLeavesFieldUnchanged", func(t *testing.T) {
		c := validContact()

		err := c.SetFirstName("-bad")
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "Ivan", c.FirstName)

		assert.Error(t, c.SetLastName(""))
		assert.Equal(t, "Petrov", c.LastName)

		assert.Error(t, c.SetEmail("not-an-email"))
		assert.Equal(t, "ivan@example.com", c.Email)

		assert.Error(t, c.SetBirthDate("31.04.2020"))
		assert.Equal(t, "15.03.1990", c.BirthDate)

		assert.Error(t, c.SetPatronymic("?"))
		assert.Equal(t, "Sergeevich", c.Patronymic)
	})

	t.Run("EmptyOptionalFieldsClear", func(t *testing.T) {
		c := validContact()
		require.NoError(t, c.SetPatronymic("  "))
		require.NoError(t, c.SetBirthDate(""))
		assert.Empty(t, c.Patronymic)
		assert.Empty(t, c.BirthDate)
	})

	t.Run("SetPhones", func(t *testing.T) {
		c := validContact()

		assert.ErrorIs(t, c.SetPhones(nil), ErrValidation)
		assert.ErrorIs(t, c.SetPhones([]PhoneNumber{NewMobilePhone("+79990000000"), NewMobilePhone("bad")}), ErrValidation)
		assert.Equal(t, 2, c.PhoneCount())

		phones := []PhoneNumber{NewMobilePhone("+79990000000")}
		require.NoError(t, c.SetPhones(phones))
		phones[0] = NewMobilePhone("mutated")
		assert.Equal(t, "+79990000000", c.Phones[0].Number())
	})
}

func TestBuildContact(t *testing.T) {
	phones := []PhoneNumber{NewMobilePhone("+79123456789")}

	t.Run("TrimsAndCompacts", func(t *testing.T) {
		c, err := BuildContact("  Ivan ", "Petrov", "", " Moscow ", "", " ivan @example.com", phones)
		require.NoError(t, err)
		assert.Equal(t, "Ivan", c.FirstName)
		assert.Equal(t, "Moscow", c.Address)
		assert.Equal(t, "ivan@example.com", c.Email)
		assert.True(t, c.IsValid())
	})

	t.Run("ReportsFirstInvalidField", func(t *testing.T) {
		_, err := BuildContact("Ivan", "-Petrov", "", "", "", "not-an-email", phones)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "lastName", vErr.Field)
	})

	t.Run("RequiresPhones", func(t *testing.T) {
		_, err := BuildContact("Ivan", "Petrov", "", "", "", "ivan@example.com", nil)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestContact_PhoneList(t *testing.T) {
	c := validContact()

	require.NoError(t, c.AddPhone(NewPhoneNumber("89001112233", PhoneTypeHome)))
	assert.Equal(t, 3, c.PhoneCount())

	err := c.AddPhone(NewMobilePhone("+8123"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 3, c.PhoneCount())

	require.NoError(t, c.RemovePhone(1))
	require.Len(t, c.Phones, 2)
	assert.Equal(t, "+79123456789", c.Phones[0].Number())
	assert.Equal(t, "89001112233", c.Phones[1].Number())

	assert.ErrorIs(t, c.RemovePhone(2), ErrPhoneIndexOutOfRange)
	assert.ErrorIs(t, c.RemovePhone(-1), ErrPhoneIndexOutOfRange)
	assert.Equal(t, 2, c.PhoneCount())

	c.ClearPhones()
	assert.Zero(t, c.PhoneCount())
}

func TestContact_Clone(t *testing.T) {
	original := validContact()
	clone := original.Clone()
	clone.Phones[0] = NewMobilePhone("89990000000")
	clone.FirstName = "Petr"

	assert.Equal(t, "+79123456789", original.Phones[0].Number())
	assert.Equal(t, "Ivan", original.FirstName)
}

func TestContact_Equal(t *testing.T) {
	a := validContact()
	b := validContact()
	b.Address = "elsewhere"
	b.BirthDate = ""
	b.Phones = []PhoneNumber{NewMobilePhone("89990000000")}
	assert.True(t, a.Equal(b), "address, birth date and phones are not part of equality")

	b.Patronymic = "Ivanovich"
	assert.False(t, a.Equal(b))
}

func TestContact_String(t *testing.T) {
	assert.Equal(t, "Petrov Ivan Sergeevich, birthDate: 15.03.1990, email: ivan@example.com, phones: 2", validContact().String())

	c := NewContact("Ivan", "Petrov", "", "", "", "", nil)
	assert.Equal(t, "Petrov Ivan ", c.String())
}

func TestContact_JSON(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		original := validContact()
		data, err := json.Marshal(original)
		require.NoError(t, err)

		decoded, err := ContactFromJSON(data)
		require.NoError(t, err)
		assert.True(t, original.Equal(decoded))
		assert.Equal(t, original, decoded)
	})

	t.Run("WireShape", func(t *testing.T) {
		c := NewContact("Ivan", "Petrov", "", "", "", "ivan@example.com", nil)
		data, err := json.Marshal(c)
		require.NoError(t, err)
		assert.JSONEq(t, `{"firstName":"Ivan","lastName":"Petrov","patronymic":"","address":"","birthDate":"","email":"ivan@example.com","phones":[]}`, string(data))
	})

	t.Run("UnwrapsSingleElementArray", func(t *testing.T) {
		decoded, err := ContactFromJSON([]byte(`[{"firstName":"Ivan","lastName":"Petrov","email":"ivan@example.com","phones":[{"number":"89123456789","type":2}]}]`))
		require.NoError(t, err)
		assert.Equal(t, "Ivan", decoded.FirstName)
		assert.Equal(t, "", decoded.Patronymic)
		require.Len(t, decoded.Phones, 1)
		assert.True(t, decoded.IsValid())
	})

	t.Run("UnwrapsStringInsideArray", func(t *testing.T) {
		decoded, err := ContactFromJSON([]byte(`["{\"firstName\":\"Ivan\",\"email\":\"ivan@example.com\"}"]`))
		require.NoError(t, err)
		assert.Equal(t, "Ivan", decoded.FirstName)
		assert.Equal(t, "ivan@example.com", decoded.Email)
	})

	t.Run("SkipsMalformedPhones", func(t *testing.T) {
		decoded, err := ContactFromJSON([]byte(`{"firstName":"Ivan","phones":[{"number":"89123456789","type":7},"junk",{"number":"+79123456789","type":0}]}`))
		require.NoError(t, err)
		require.Len(t, decoded.Phones, 1)
		assert.Equal(t, PhoneTypeWork, decoded.Phones[0].Type())
	})

	t.Run("MalformedYieldsZeroContact", func(t *testing.T) {
		for _, payload := range []string{`{"firstName": 5}`, `{not json`, `[]`, `"text"`} {
			decoded, err := ContactFromJSON([]byte(payload))
			assert.ErrorIs(t, err, ErrMalformedDocument, payload)
			assert.True(t, decoded.IsZero(), payload)
			assert.False(t, decoded.IsValid(), payload)
		}
	})

	t.Run("UnmarshalJSONResetsOnFailure", func(t *testing.T) {
		c := validContact()
		err := json.Unmarshal([]byte(`{"email": []}`), &c)
		assert.ErrorIs(t, err, ErrMalformedDocument)
		assert.True(t, c.IsZero())
	})
}
