package models

import (
	"testing"
	"time"
)

// fixedToday is the clock used across the package tests
var fixedToday = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

func useFixedClock(t *testing.T) {
	t.Helper()
	original := timeNow
	timeNow = func() time.Time { return fixedToday }
	t.Cleanup(func() { timeNow = original })
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func boolPtr(b bool) *bool { return &b }

func validPersonalData() PersonalInfoData {
	return PersonalInfoData{
		DocumentNumber: "1020304050",
		FullName:       "Maria Fernanda Rojas",
		BirthDate:      "1990-03-21",
		BirthCity:      "Medellin",
		BirthCountry:   "Colombia",
		IDIssueCity:    "Medellin",
		JobTitle:       "Analyst",
		Department:     "Finance",
		MaritalStatus:  "married",
		BloodType:      "O+",
	}
}

func validContactData() ContactInfoData {
	return ContactInfoData{
		MobilePhone:   "3001234567",
		PersonalEmail: "Maria.Rojas@Example.com",
		Landline:      "6041234567",
		EmergencyContacts: []EmergencyContactData{
			{Name: "Carlos Rojas", Relationship: "BROTHER", Phone: "3109876543"},
		},
	}
}

func validHousingData() HousingInfoData {
	return HousingInfoData{
		Address: AddressData{
			Street:       "Calle 10",
			Number:       "43-21",
			Complement:   "Apto 502",
			Neighborhood: "El Poblado",
			City:         "Medellin",
			State:        "Antioquia",
		},
		HousingType:     "APARTMENT",
		AcquisitionType: "OWNED",
		Value:           floatPtr(350000000),
		AcquisitionDate: strPtr("2018-09-01"),
	}
}

func validVehicleData() VehicleInfoData {
	return VehicleInfoData{
		HasVehicle:  true,
		VehicleType: "CAR",
		Brand:       "Mazda",
		Plate:       "abc123",
		ModelYear:   2021,
		Owner:       "Maria Fernanda Rojas",
	}
}

func validAcademicData() AcademicInfoData {
	return AcademicInfoData{
		CurrentlyStudying: true,
		Studies: []StudyRecordData{
			{
				Level:          "UNDERGRADUATE",
				Degree:         "Public Accounting",
				Institution:    "Universidad de Antioquia",
				StartDate:      "2008-02-01",
				GraduationDate: strPtr("2013-06-30"),
			},
			{
				Level:       "MASTERS",
				Degree:      "Finance",
				Institution: "EAFIT",
				StartDate:   "2024-01-15",
				InProgress:  true,
			},
		},
	}
}

func validDependentData() DependentData {
	return DependentData{
		DocumentNumber: "1122334455",
		FullName:       "Sofia Rojas",
		Relationship:   "DAUGHTER",
		BirthDate:      "2015-11-02",
	}
}

func mustEmployee(t *testing.T) *Employee {
	t.Helper()
	personal, err := validPersonalData().Build()
	if err != nil {
		t.Fatalf("personal info: %v", err)
	}
	e, err := NewEmployee(personal)
	if err != nil {
		t.Fatalf("employee: %v", err)
	}
	return e
}

func kindsOf(err error) map[string]ErrorKind {
	out := map[string]ErrorKind{}
	if ve, ok := err.(ValidationErrors); ok {
		for _, e := range ve {
			out[e.Field] = e.Kind
		}
	}
	return out
}
