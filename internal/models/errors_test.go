package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Is(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		sentinel error
	}{
		{KindMissingRequiredField, ErrMissingRequiredField},
		{KindInvalidFormat, ErrInvalidFormat},
		{KindInvalidEnumValue, ErrInvalidEnumValue},
		{KindRangeViolation, ErrRangeViolation},
		{KindCrossFieldViolation, ErrCrossFieldViolation},
		{KindCapacityExceeded, ErrCapacityExceeded},
		{KindDuplicateEntry, ErrDuplicateEntry},
		{KindNotFound, ErrNotFound},
		{KindUnsupportedField, ErrUnsupportedField},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := NewValidationError(tt.kind, "field", "message")
			assert.ErrorIs(t, err, tt.sentinel)
			assert.NotErrorIs(t, err, errors.New("other"))
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "phone: must contain exactly 10 digits",
		NewValidationError(KindInvalidFormat, "phone", "must contain exactly 10 digits").Error())
	assert.Equal(t, "request body is empty",
		NewValidationError(KindMissingRequiredField, "", "request body is empty").Error())
}

func TestValidationErrors_UnwrapAndIs(t *testing.T) {
	var errs ValidationErrors
	errs.Add(KindInvalidFormat, "plate", "bad plate")
	errs.Add(KindRangeViolation, "model_year", "too old")

	var err error = errs
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorIs(t, err, ErrRangeViolation)
	assert.NotErrorIs(t, err, ErrDuplicateEntry)

	wrapped := fmt.Errorf("apply step: %w", err)
	var got ValidationErrors
	require.ErrorAs(t, wrapped, &got)
	assert.Len(t, got, 2)
	assert.Contains(t, err.Error(), "plate: bad plate")
	assert.Contains(t, err.Error(), "model_year: too old")
}

func TestValidationErrors_Merge(t *testing.T) {
	var nested ValidationErrors
	nested.Add(KindMissingRequiredField, "street", "is required")
	nested.Add(KindInvalidFormat, "city", "too long")

	var errs ValidationErrors
	errs.Merge("address", nested)
	errs.Merge("emergency_contacts[0]", ValidationErrors{NewValidationError(KindInvalidFormat, "phone", "bad")})
	errs.Merge("mobile_phone", NewValidationError(KindInvalidFormat, "phone", "bad"))
	errs.Merge("other", errors.New("boom"))
	errs.Merge("ignored", nil)

	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{"address.street", "address.city", "emergency_contacts[0].phone", "mobile_phone", "other"}, fields)
	assert.Equal(t, KindInvalidFormat, errs[4].Kind)
	assert.Equal(t, "street", nested[0].Field, "merge must not mutate the source")
}

func TestValidationErrors_OrNil(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.OrNil())

	errs.Add(KindDuplicateEntry, "x", "dup")
	assert.Error(t, errs.OrNil())
	assert.True(t, errs.HasKind(KindDuplicateEntry))
	assert.False(t, errs.HasKind(KindNotFound))
}

func TestValidationErrors_RequireSkipsReportedFields(t *testing.T) {
	var errs ValidationErrors
	errs.Add(KindInvalidFormat, "address.street", "too long")

	assert.False(t, errs.require("address", true))
	assert.Len(t, errs, 1)

	assert.False(t, errs.require("phone", true))
	assert.Len(t, errs, 2)
	assert.Equal(t, KindMissingRequiredField, errs[1].Kind)

	assert.True(t, errs.require("email", false))
	assert.Len(t, errs, 2)
}

func TestEmployeeNotFound_MatchesNotFound(t *testing.T) {
	assert.ErrorIs(t, ErrEmployeeNotFound, ErrNotFound)
}
