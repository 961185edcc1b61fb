package models

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneRegion is the numbering plan local phone numbers belong to
const PhoneRegion = "CO"

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Phone is a ten-digit national phone number
type Phone struct {
	value string
}

// NewPhone validates a phone number after trimming surrounding whitespace
func NewPhone(raw string) (Phone, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Phone{}, NewValidationError(KindMissingRequiredField, "phone", "is required")
	}
	if !phonePattern.MatchString(value) {
		return Phone{}, NewValidationError(KindInvalidFormat, "phone", "must contain exactly 10 digits")
	}
	if strings.Count(value, value[:1]) == len(value) {
		return Phone{}, NewValidationError(KindInvalidFormat, "phone", "cannot be a repetition of the same digit")
	}
	return Phone{value: value}, nil
}

// MustPhone panics on invalid input
func MustPhone(raw string) Phone {
	p, err := NewPhone(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Phone) String() string { return p.value }

func (p Phone) IsZero() bool { return p.value == "" }

func (p Phone) Equals(other Phone) bool { return p.value == other.value }

// IsMobile reports whether the number belongs to the mobile range
func (p Phone) IsMobile() bool { return strings.HasPrefix(p.value, "3") }

// Display formats the number as "300 123 4567"
func (p Phone) Display() string {
	if len(p.value) != 10 {
		return p.value
	}
	return p.value[:3] + " " + p.value[3:6] + " " + p.value[6:]
}

// E164 returns the international form of the number, or an empty string
// when libphonenumber does not recognize it for the region.
func (p Phone) E164() string {
	if p.IsZero() {
		return ""
	}
	num, err := phonenumbers.Parse(p.value, PhoneRegion)
	if err != nil {
		return ""
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// IsDialable reports whether libphonenumber considers the number valid for the region
func (p Phone) IsDialable() bool {
	num, err := phonenumbers.Parse(p.value, PhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(num, PhoneRegion)
}
