package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
	"github.com/aradsms/contactbook/internal/platform/config"
)

func testConfig(file string) *config.Config {
	return &config.Config{
		LogLevel:             "error",
		ContactsFile:         file,
		ContactsStore:        config.StoreFile,
		ContactsWriteThrough: true,
		ContactEventsSubject: domain.DefaultContactEventsSubject,
	}
}

// run executes contactctl with args against file and returns stdout.
func run(t *testing.T, file string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(testConfig(file), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readDocument(t *testing.T, file string) []map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var doc []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestContactctl_Lifecycle(t *testing.T) {
	file := filepath.Join(t.TempDir(), "contacts.json")

	out, err := run(t, file, "add",
		"--first-name", "Ivan", "--last-name", "Petrov", "--email", "ivan@example.com",
		"--phone", "work:+7 912 345-67-89", "--phone", "89001112233", "--birth-date", "01.02.1990")
	require.NoError(t, err)
	assert.Contains(t, out, "Ivan")

	_, err = run(t, file, "add",
		"--first-name", "Anna", "--last-name", "Abramova", "--email", "anna@example.com", "--phone", "+79990001122")
	require.NoError(t, err)

	doc := readDocument(t, file)
	require.Len(t, doc, 2)
	assert.Equal(t, "ivan@example.com", doc[0]["email"])
	phones := doc[0]["phones"].([]interface{})
	require.Len(t, phones, 2)
	assert.Equal(t, float64(domain.PhoneTypeWork), phones[0].(map[string]interface{})["type"])
	assert.Equal(t, float64(domain.PhoneTypeMobile), phones[1].(map[string]interface{})["type"])

	out, err = run(t, file, "get", "ivan@example.com", "-o", "json")
	require.NoError(t, err)
	var got domain.Contact
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Petrov", got.LastName)
	assert.Equal(t, "01.02.1990", got.BirthDate)

	_, err = run(t, file, "update", "ivan@example.com", "--address", "Moscow", "--patronymic", "Sergeevich")
	require.NoError(t, err)
	doc = readDocument(t, file)
	assert.Equal(t, "Moscow", doc[0]["address"])
	assert.Equal(t, "Sergeevich", doc[0]["patronymic"])
	assert.Equal(t, "Ivan", doc[0]["firstName"], "unset flags keep their value")

	out, err = run(t, file, "search", "SERG")
	require.NoError(t, err)
	assert.Contains(t, out, "ivan@example.com")

	out, err = run(t, file, "search", "--by", "phone", "0001122")
	require.NoError(t, err)
	assert.Contains(t, out, "anna@example.com")
	assert.NotContains(t, out, "ivan@example.com")

	_, err = run(t, file, "sort", "--field", "lastName")
	require.NoError(t, err)
	doc = readDocument(t, file)
	assert.Equal(t, "anna@example.com", doc[0]["email"])

	out, err = run(t, file, "remove", "anna@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "removed anna@example.com")

	out, err = run(t, file, "list", "-o", "json")
	require.NoError(t, err)
	var listed []domain.Contact
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "ivan@example.com", listed[0].Email)
}

func TestContactctl_Errors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "contacts.json")
	_, err := run(t, file, "add", "--first-name", "Ivan", "--last-name", "Petrov",
		"--email", "ivan@example.com", "--phone", "+79123456789")
	require.NoError(t, err)

	_, err = run(t, file, "add", "--first-name", "Ivan", "--last-name", "Petrov",
		"--email", "ivan@example.com", "--phone", "+79123456789")
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

	_, err = run(t, file, "add", "--first-name", "Ivan", "--last-name", "Petrov",
		"--email", "other@example.com", "--phone", "fax:+79123456789")
	assert.ErrorIs(t, err, domain.ErrInvalidPhoneType)

	_, err = run(t, file, "add", "--first-name", "Ivan", "--last-name", "Petrov",
		"--email", "other@example.com", "--phone", "12345")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = run(t, file, "add", "--first-name", "Ivan", "--email", "x@example.com")
	assert.Error(t, err, "required flags are enforced")

	_, err = run(t, file, "get", "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = run(t, file, "remove", "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = run(t, file, "sort", "--field", "phones")
	assert.Error(t, err)

	_, err = run(t, file, "search", "--by", "address", "x")
	assert.Error(t, err)

	_, err = run(t, file, "list", "-o", "yaml")
	assert.Error(t, err)

	_, err = run(t, file, "watch")
	assert.Error(t, err)

	assert.Len(t, readDocument(t, file), 1)
}

func TestContactctl_LoadPolicies(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "contacts.json")
	doc := `[
    {"firstName":"Ivan","lastName":"Petrov","email":"ivan@example.com","phones":[{"number":"+79123456789","type":2}]},
    {"firstName":"","lastName":"Broken","email":"broken@example.com","phones":[]}
]`
	require.NoError(t, os.WriteFile(file, []byte(doc), 0o644))

	_, err := run(t, file, "--strict", "list")
	assert.ErrorIs(t, err, domain.ErrDroppedRecords)
	raw, _ := os.ReadFile(file)
	assert.Equal(t, doc, string(raw), "strict load leaves the document untouched")

	out, err := run(t, file, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ivan@example.com")
	assert.NotContains(t, out, "broken@example.com")

	empty := filepath.Join(dir, "missing.json")
	out, err = run(t, empty, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no contacts")
}

func TestParsePhoneFlag(t *testing.T) {
	p, err := parsePhoneFlag("home: 8 (900) 111-22-33")
	require.NoError(t, err)
	assert.Equal(t, domain.PhoneTypeHome, p.Type())
	assert.Equal(t, "8 (900) 111-22-33", p.Number())

	p, err = parsePhoneFlag("+79123456789")
	require.NoError(t, err)
	assert.Equal(t, domain.PhoneTypeMobile, p.Type())

	_, err = parsePhoneFlag("pager:+79123456789")
	assert.ErrorIs(t, err, domain.ErrInvalidPhoneType)
}
