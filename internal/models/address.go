package models

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// AddressData is the raw form of an Address
type AddressData struct {
	Street       string `json:"street" bson:"street"`
	Number       string `json:"number" bson:"number"`
	Complement   string `json:"complement,omitempty" bson:"complement,omitempty"`
	Neighborhood string `json:"neighborhood" bson:"neighborhood"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
}

// Address is a postal address
type Address struct {
	street       string
	number       string
	complement   string
	neighborhood string
	city         string
	state        string
}

// NewAddress validates every sub-field in one pass. Complement is optional.
func NewAddress(data AddressData) (Address, error) {
	var errs ValidationErrors
	a := Address{
		street:       requiredText(&errs, "street", data.Street, 50),
		number:       requiredText(&errs, "number", data.Number, 20),
		complement:   optionalText(&errs, "complement", data.Complement, 50),
		neighborhood: requiredText(&errs, "neighborhood", data.Neighborhood, 50),
		city:         requiredText(&errs, "city", data.City, 50),
		state:        requiredText(&errs, "state", data.State, 50),
	}
	if len(errs) > 0 {
		return Address{}, errs
	}
	return a, nil
}

func (a Address) Street() string        { return a.street }
func (a Address) Number() string        { return a.number }
func (a Address) Complement() string    { return a.complement }
func (a Address) Neighborhood() string  { return a.neighborhood }
func (a Address) City() string          { return a.city }
func (a Address) State() string         { return a.state }
func (a Address) IsZero() bool          { return a == Address{} }
func (a Address) Equals(o Address) bool { return a == o }

// Line renders street, number and complement
func (a Address) Line() string {
	line := a.street + " # " + a.number
	if a.complement != "" {
		line += ", " + a.complement
	}
	return line
}

func (a Address) String() string {
	return a.Line() + ", " + a.neighborhood + ", " + a.city + ", " + a.state
}

func (a Address) ToData() AddressData {
	return AddressData{
		Street:       a.street,
		Number:       a.number,
		Complement:   a.complement,
		Neighborhood: a.neighborhood,
		City:         a.city,
		State:        a.state,
	}
}

// requiredText trims raw and records a violation when blank or longer than max runes
func requiredText(errs *ValidationErrors, field, raw string, max int) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		errs.Add(KindMissingRequiredField, field, "is required")
		return ""
	}
	if utf8.RuneCountInString(value) > max {
		errs.Add(KindInvalidFormat, field, "cannot exceed "+strconv.Itoa(max)+" characters")
	}
	return value
}

func optionalText(errs *ValidationErrors, field, raw string, max int) string {
	value := strings.TrimSpace(raw)
	if utf8.RuneCountInString(value) > max {
		errs.Add(KindInvalidFormat, field, "cannot exceed "+strconv.Itoa(max)+" characters")
	}
	return value
}

// nameText enforces the 3 to 100 character rule shared by every person name
func nameText(errs *ValidationErrors, field, raw string) string {
	value := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		errs.Add(KindMissingRequiredField, field, "is required")
	case n < 3:
		errs.Add(KindInvalidFormat, field, "must have at least 3 characters")
	case n > 100:
		errs.Add(KindInvalidFormat, field, "cannot exceed 100 characters")
	}
	return value
}
