package services

import (
	"context"
	"testing"

	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/stretchr/testify/require"
)

const testDocument = "1020304050"

func boolPtr(b bool) *bool { return &b }

func personalData(doc string) models.PersonalInfoData {
	return models.PersonalInfoData{
		DocumentNumber: doc,
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

func contactData() models.ContactInfoData {
	return models.ContactInfoData{
		MobilePhone:   "3001234567",
		PersonalEmail: "maria.rojas@example.com",
		EmergencyContacts: []models.EmergencyContactData{
			{Name: "Carlos Rojas", Relationship: "BROTHER", Phone: "3109876543"},
		},
	}
}

func housingData() models.HousingInfoData {
	return models.HousingInfoData{
		Address: models.AddressData{
			Street:       "Calle 10",
			Number:       "43-21",
			Neighborhood: "El Poblado",
			City:         "Medellin",
			State:        "Antioquia",
		},
		HousingType:     "APARTMENT",
		AcquisitionType: "RENTED",
	}
}

func vehicleData() models.VehicleInfoData {
	return models.VehicleInfoData{
		HasVehicle:  true,
		VehicleType: "CAR",
		Brand:       "Mazda",
		Plate:       "ABC123",
		ModelYear:   2021,
		Owner:       "Maria Fernanda Rojas",
	}
}

func childData(doc string) models.DependentData {
	return models.DependentData{
		DocumentNumber: doc,
		FullName:       "Sofia Rojas",
		Relationship:   "DAUGHTER",
		BirthDate:      "2015-11-02",
	}
}

// youngParentData is valid but below the plausible age for a parent
func youngParentData() models.DependentData {
	return models.DependentData{
		DocumentNumber:    "5566778899",
		FullName:          "Jorge Rojas",
		Relationship:      "FATHER",
		BirthDate:         "2000-01-01",
		EconomicDependent: boolPtr(true),
	}
}

func newEmployee(t *testing.T, doc string) *models.Employee {
	t.Helper()
	personal, err := personalData(doc).Build()
	require.NoError(t, err)
	e, err := models.NewEmployee(personal)
	require.NoError(t, err)
	return e
}

func savedEmployee(t *testing.T, repo EmployeeRepository, doc string) *models.Employee {
	t.Helper()
	e := newEmployee(t, doc)
	require.NoError(t, repo.Save(context.Background(), e))
	return e
}

func newTestOrchestrator(repo EmployeeRepository, opts OrchestratorOptions) *UpdateOrchestrator {
	return NewUpdateOrchestrator(repo, NewLocalIdentityLocker(), opts, logging.New(nil))
}
