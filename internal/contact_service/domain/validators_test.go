package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"SimpleLatin", "Ivan", true},
		{"SurroundingWhitespace", "  Ivan \t", true},
		{"Hyphenated", "Anna-Maria", true},
		{"WithSpaceAndDigit", "Louis 14", true},
		{"Cyrillic", "Иван", true},
		{"Greek", "Αλέξανδρος", true},
		{"Empty", "", false},
		{"OnlySpaces", "   ", false},
		{"LeadingHyphen", "-Ivan", false},
		{"TrailingHyphen", "Ivan-", false},
		{"LeadingDigit", "1van", false},
		{"Punctuation", "Iv@n", false},
		{"Underscore", "Ivan_Petrov", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateName(tt.input))
		})
	}
}

func TestValidateName_TrimIsIdempotent(t *testing.T) {
	inputs := []string{"Ivan", "  Ivan", "Anna-Maria  ", " -x ", "\tПётр\n", "", "  "}
	for _, in := range inputs {
		assert.Equal(t, ValidateName(in), ValidateName(strings.TrimSpace(in)), "input %q", in)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Simple", "ivan@example.com", true},
		{"PlusAndDots", "ivan.petrov+work@mail.example.org", true},
		{"EmbeddedWhitespace", " ivan @ example.com ", true},
		{"Empty", "", false},
		{"MissingAt", "ivan.example.com", false},
		{"MissingTLD", "ivan@example", false},
		{"ShortTLD", "ivan@example.c", false},
		{"NumericTLD", "ivan@example.c0m", false},
		{"EmptyLocalPart", "@example.com", false},
		{"DoubleAt", "ivan@@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.input))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"PlusSeven", "+79123456789", true},
		{"LeadingEight", "89123456789", true},
		{"Separators", "+7 (912) 345-67-89", true},
		{"EightWithSeparators", "8 912 345 67 89", true},
		{"PlusEight", "+89123456789", false},
		{"SevenWithoutPlus", "79123456789", false},
		{"TooShort", "123", false},
		{"TooLong", "891234567890", false},
		{"Letters", "8912345678a", false},
		{"Empty", "", false},
		{"OnlySeparators", " -() ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhone(tt.input))
		})
	}
}

func TestValidateBirthDateAt(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"LeapDay", "29.02.2000", true},
		{"NonLeapDay", "29.02.2001", false},
		{"CenturyNotLeap", "29.02.1900", false},
		{"ThirtyFirstOfApril", "31.04.2020", false},
		{"ThirtyFirstOfMarch", "31.03.2020", true},
		{"Yesterday", "14.06.2024", true},
		{"Today", "15.06.2024", false},
		{"Tomorrow", "16.06.2024", false},
		{"NextMonth", "01.07.2024", false},
		{"NextYear", "01.01.2025", false},
		{"MonthZero", "10.00.2000", false},
		{"MonthThirteen", "10.13.2000", false},
		{"DayZero", "00.01.2000", false},
		{"WrongSeparator", "01-01-2000", false},
		{"IsoFormat", "2000-01-01", false},
		{"NonNumeric", "ab.01.2000", false},
		{"SignedDay", "+1.01.2000", false},
		{"Empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateBirthDateAt(tt.input, now))
		})
	}
}

func TestValidateBirthDate_RelativeToNow(t *testing.T) {
	now := time.Now()
	assert.False(t, ValidateBirthDate(now.Format(BirthDateLayout)))
	assert.False(t, ValidateBirthDate(now.AddDate(0, 0, 1).Format(BirthDateLayout)))
	assert.True(t, ValidateBirthDate(now.AddDate(0, 0, -1).Format(BirthDateLayout)))
	assert.True(t, ValidateBirthDate("29.02.2000"))
}
