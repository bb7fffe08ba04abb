package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// BirthDateLayout is the only accepted birth date format (DD.MM.YYYY).
const BirthDateLayout = "02.01.2006"

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidateName checks a first name, last name or patronymic.
// Surrounding whitespace is ignored. The value must start with a letter of any
// alphabet, must not start or end with '-', and may contain only letters,
// digits, '-' and spaces.
func ValidateName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsLetter(r) && !isDigit(r) && r != '-' && r != ' ' {
			return false
		}
	}
	return true
}

// ValidateEmail checks an address of the form local@domain.tld. Embedded
// whitespace is removed before matching.
func ValidateEmail(s string) bool {
	s = CompactEmail(s)
	if s == "" {
		return false
	}
	return emailPattern.MatchString(s)
}

// ValidatePhone checks an 11-digit number written as +7XXXXXXXXXX or
// 8XXXXXXXXXX. Spaces, '-', '(' and ')' are ignored.
func ValidatePhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	hadPlus := s[0] == '+'

	var digits strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '-', '(', ')', '+':
			continue
		}
		if !isDigit(r) {
			return false
		}
		digits.WriteRune(r)
	}

	cleaned := digits.String()
	if len(cleaned) != 11 {
		return false
	}
	if hadPlus {
		return cleaned[0] == '7'
	}
	return cleaned[0] == '8'
}

// ValidateBirthDate checks a DD.MM.YYYY calendar date strictly before today
// in local time.
func ValidateBirthDate(s string) bool {
	return ValidateBirthDateAt(s, time.Now())
}

// ValidateBirthDateAt is ValidateBirthDate with an explicit reference "now".
func ValidateBirthDateAt(s string, now time.Time) bool {
	day, month, year, ok := parseBirthDate(s)
	if !ok {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > daysInMonth(month, year) {
		return false
	}

	nowYear, nowMonth, nowDay := now.Date()
	switch {
	case year != nowYear:
		return year < nowYear
	case month != int(nowMonth):
		return month < int(nowMonth)
	default:
		return day < nowDay
	}
}

func parseBirthDate(s string) (day, month, year int, ok bool) {
	if len(s) != len(BirthDateLayout) || s[2] != '.' || s[5] != '.' {
		return 0, 0, 0, false
	}
	parts := [3]string{s[0:2], s[3:5], s[6:10]}
	var values [3]int
	for i, p := range parts {
		for _, r := range p {
			if !isDigit(r) {
				return 0, 0, 0, false
			}
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, false
		}
		values[i] = v
	}
	return values[0], values[1], values[2], true
}

func daysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && year%100 != 0 || year%400 == 0
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// CompactEmail trims the address and drops every whitespace rune inside it.
// Stored emails are always in this form.
func CompactEmail(s string) string {
	return strings.Join(strings.Fields(s), "")
}
