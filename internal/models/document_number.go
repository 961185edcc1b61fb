package models

import (
	"regexp"
	"strings"
)

var documentNumberPattern = regexp.MustCompile(`^[0-9]{7,15}$`)

// DocumentNumber is a national identity document number
type DocumentNumber struct {
	value string
}

// NewDocumentNumber validates and normalizes a document number
func NewDocumentNumber(raw string) (DocumentNumber, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return DocumentNumber{}, NewValidationError(KindMissingRequiredField, "document_number", "is required")
	}
	if !documentNumberPattern.MatchString(value) {
		return DocumentNumber{}, NewValidationError(KindInvalidFormat, "document_number", "must contain between 7 and 15 digits")
	}
	return DocumentNumber{value: value}, nil
}

// MustDocumentNumber panics on invalid input; intended for tests and constants
func MustDocumentNumber(raw string) DocumentNumber {
	d, err := NewDocumentNumber(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func (d DocumentNumber) String() string { return d.value }

// IsZero reports whether the document number was never constructed
func (d DocumentNumber) IsZero() bool { return d.value == "" }

func (d DocumentNumber) Equals(other DocumentNumber) bool { return d.value == other.value }
