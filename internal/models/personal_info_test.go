package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonalInfoData_Build(t *testing.T) {
	useFixedClock(t)

	info, err := validPersonalData().Build()
	require.NoError(t, err)

	assert.Equal(t, "1020304050", info.Document().String())
	assert.Equal(t, MaritalMarried, info.MaritalStatus().String())
	assert.Equal(t, "O+", info.BloodType().String())
	assert.Equal(t, 35, info.Age())
	assert.Equal(t, time.Date(1990, time.March, 21, 0, 0, 0, 0, time.UTC), info.BirthDate())
}

func TestPersonalInfo_AgeBoundary(t *testing.T) {
	useFixedClock(t)

	tests := []struct {
		name      string
		birthDate string
		wantErr   bool
	}{
		{name: "exactly 18 today", birthDate: "2007-06-15"},
		{name: "one day short of 18", birthDate: "2007-06-16", wantErr: true},
		{name: "well over 18", birthDate: "1970-01-01"},
		{name: "future birth date", birthDate: "2030-01-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validPersonalData()
			data.BirthDate = tt.birthDate
			_, err := data.Build()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrRangeViolation)
			assert.Equal(t, KindRangeViolation, kindsOf(err)["birth_date"])
		})
	}
}

func TestPersonalInfo_ReportsAllViolationsInOnePass(t *testing.T) {
	useFixedClock(t)

	data := PersonalInfoData{
		DocumentNumber: "12",
		FullName:       "Al",
		BirthDate:      "21/03/1990",
		MaritalStatus:  "ENGAGED",
	}
	_, err := data.Build()
	require.Error(t, err)

	kinds := kindsOf(err)
	assert.Equal(t, KindInvalidFormat, kinds["document_number"])
	assert.Equal(t, KindInvalidFormat, kinds["full_name"])
	assert.Equal(t, KindInvalidFormat, kinds["birth_date"])
	assert.Equal(t, KindInvalidEnumValue, kinds["marital_status"])
	assert.Equal(t, KindMissingRequiredField, kinds["blood_type"])
	assert.Equal(t, KindMissingRequiredField, kinds["birth_city"])
	assert.Equal(t, KindMissingRequiredField, kinds["birth_country"])
	assert.Equal(t, KindMissingRequiredField, kinds["id_issue_city"])
	assert.Equal(t, KindMissingRequiredField, kinds["job_title"])
	assert.Equal(t, KindMissingRequiredField, kinds["department"])
	assert.Len(t, err.(ValidationErrors), 10, "each field is reported once")
}

func TestPersonalInfo_NameLength(t *testing.T) {
	useFixedClock(t)

	data := validPersonalData()
	data.FullName = strings.Repeat("n", 101)
	_, err := data.Build()
	assert.Equal(t, KindInvalidFormat, kindsOf(err)["full_name"])

	data.FullName = "  Ana  "
	info, err := data.Build()
	require.NoError(t, err)
	assert.Equal(t, "Ana", info.FullName())
}

func TestNewPersonalInfo_TypedConstructor(t *testing.T) {
	useFixedClock(t)

	_, err := NewPersonalInfo(PersonalInfoParams{FullName: "Maria"})
	kinds := kindsOf(err)
	assert.Equal(t, KindMissingRequiredField, kinds["document_number"])
	assert.Equal(t, KindMissingRequiredField, kinds["birth_date"])
	assert.Equal(t, KindMissingRequiredField, kinds["marital_status"])
}

func TestPersonalInfo_RoundTrip(t *testing.T) {
	useFixedClock(t)

	info, err := validPersonalData().Build()
	require.NoError(t, err)

	rebuilt, err := info.ToData().Build()
	require.NoError(t, err)
	assert.Equal(t, info, rebuilt)

	projected := info.ToData()
	assert.Equal(t, "1990-03-21", projected.BirthDate)
	assert.Equal(t, "MARRIED", projected.MaritalStatus)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2020-02-29", FormatDate(d))

	d, err = ParseDate("2020-02-29T23:15:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, "2020-02-29", FormatDate(d))

	_, err = ParseDate("29/02/2020")
	assert.Error(t, err)
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24, AgeAt(birth, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 25, AgeAt(birth, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, AgeAt(birth, birth))
}
