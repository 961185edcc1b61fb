package models

import (
	"regexp"
	"strings"
)

const maxEmailLength = 100

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email is a lower-cased email address
type Email struct {
	value string
}

// NewEmail validates and normalizes an email address
func NewEmail(raw string) (Email, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return Email{}, NewValidationError(KindMissingRequiredField, "email", "is required")
	}
	if len(value) > maxEmailLength {
		return Email{}, NewValidationError(KindInvalidFormat, "email", "cannot exceed 100 characters")
	}
	if !emailPattern.MatchString(value) {
		return Email{}, NewValidationError(KindInvalidFormat, "email", "must have the form local@domain.tld")
	}
	return Email{value: value}, nil
}

// MustEmail panics on invalid input
func MustEmail(raw string) Email {
	e, err := NewEmail(raw)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Email) String() string { return e.value }

func (e Email) IsZero() bool { return e.value == "" }

func (e Email) Equals(other Email) bool { return e.value == other.value }

// Domain returns the part after the @
func (e Email) Domain() string {
	if i := strings.LastIndex(e.value, "@"); i >= 0 {
		return e.value[i+1:]
	}
	return ""
}
