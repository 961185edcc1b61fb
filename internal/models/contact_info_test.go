package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactInfoData_Build(t *testing.T) {
	info, err := validContactData().Build()
	require.NoError(t, err)

	assert.Equal(t, "maria.rojas@example.com", info.PersonalEmail().String())
	assert.Equal(t, "+573001234567", info.MobileE164())
	landline, ok := info.Landline()
	assert.True(t, ok)
	assert.Equal(t, "6041234567", landline.String())
	_, ok = info.CorporatePhone()
	assert.False(t, ok)
	assert.True(t, info.HasEmergencyContacts())
	require.Len(t, info.EmergencyContacts(), 1)
	assert.Equal(t, RelBrother, info.EmergencyContacts()[0].Relationship().String())
}

func TestContactInfo_RequiresEmergencyContact(t *testing.T) {
	_, err := NewContactInfo(ContactInfoParams{
		MobilePhone:   MustPhone("3001234567"),
		PersonalEmail: MustEmail("a@b.com"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must register at least one emergency contact")
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestContactInfo_CapacityAndDuplicates(t *testing.T) {
	data := validContactData()
	data.EmergencyContacts = nil
	for i := 0; i < 6; i++ {
		data.EmergencyContacts = append(data.EmergencyContacts, EmergencyContactData{
			Name:         fmt.Sprintf("Contact %d", i),
			Relationship: "MALE_FRIEND",
			Phone:        fmt.Sprintf("31000000%02d", i),
		})
	}
	_, err := data.Build()
	assert.Equal(t, KindCapacityExceeded, kindsOf(err)["emergency_contacts"])

	data.EmergencyContacts = []EmergencyContactData{
		{Name: "Carlos Rojas", Relationship: "BROTHER", Phone: "3109876543"},
		{Name: "Luisa Rojas", Relationship: "SISTER", Phone: "3109876543"},
	}
	_, err = data.Build()
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.Equal(t, KindDuplicateEntry, kindsOf(err)["emergency_contacts[1].phone"])
}

func TestContactInfo_InvalidEntriesReportedWithPath(t *testing.T) {
	data := validContactData()
	data.MobilePhone = "12345"
	data.CorporatePhone = "0000000000"
	data.EmergencyContacts = []EmergencyContactData{
		{Name: "Al", Relationship: "COWORKER", Phone: "3109876543"},
	}
	_, err := data.Build()
	kinds := kindsOf(err)
	assert.Equal(t, KindInvalidFormat, kinds["mobile_phone"])
	assert.Equal(t, KindInvalidFormat, kinds["corporate_phone"])
	assert.Equal(t, KindInvalidFormat, kinds["emergency_contacts[0].name"])
	assert.Equal(t, KindInvalidEnumValue, kinds["emergency_contacts[0].relationship"])
	_, reportedEmpty := kinds["emergency_contacts"]
	assert.False(t, reportedEmpty, "a rejected entry still counts as submitted")
}

func TestContactInfo_RoundTrip(t *testing.T) {
	info, err := validContactData().Build()
	require.NoError(t, err)

	rebuilt, err := info.ToData().Build()
	require.NoError(t, err)
	assert.Equal(t, info, rebuilt)
}

func TestContactInfo_AccessorsReturnCopies(t *testing.T) {
	info, err := validContactData().Build()
	require.NoError(t, err)

	contacts := info.EmergencyContacts()
	contacts[0] = EmergencyContact{}
	assert.Equal(t, "Carlos Rojas", info.EmergencyContacts()[0].Name())
}
