package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hr-portal/app-employee-data/internal/config"
	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/services"
)

// seedEmployee is one sample record and the steps applied after enrollment
type seedEmployee struct {
	personal models.PersonalInfoData
	steps    []models.StepPayload
}

func value(f float64) *float64 { return &f }

var seedEmployees = []seedEmployee{
	{
		personal: models.PersonalInfoData{
			DocumentNumber: "1020304050",
			FullName:       "Maria Fernanda Rojas",
			BirthDate:      "1990-03-21",
			BirthCity:      "Medellin",
			BirthCountry:   "Colombia",
			IDIssueCity:    "Medellin",
			JobTitle:       "Analyst",
			Department:     "Finance",
			MaritalStatus:  "MARRIED",
			BloodType:      "O+",
		},
		steps: []models.StepPayload{
			models.ContactInfoData{
				MobilePhone:   "3001234567",
				PersonalEmail: "maria.rojas@example.com",
				EmergencyContacts: []models.EmergencyContactData{
					{Name: "Carlos Rojas", Relationship: "BROTHER", Phone: "3109876543"},
				},
			},
			models.HousingInfoData{
				Address: models.AddressData{
					Street:       "Calle 10",
					Number:       "43-21",
					Neighborhood: "El Poblado",
					City:         "Medellin",
					State:        "Antioquia",
				},
				HousingType:     "APARTMENT",
				AcquisitionType: "OWNED",
				Value:           value(350000000),
			},
			models.VehicleInfoData{
				HasVehicle:  true,
				VehicleType: "CAR",
				Brand:       "Mazda",
				Plate:       "ABC123",
				ModelYear:   2021,
				Owner:       "Maria Fernanda Rojas",
			},
			models.DependentsData{Dependents: []models.DependentData{
				{DocumentNumber: "1122334455", FullName: "Sofia Rojas", Relationship: "DAUGHTER", BirthDate: "2015-11-02"},
			}},
		},
	},
	{
		personal: models.PersonalInfoData{
			DocumentNumber: "80123456",
			FullName:       "Andres Felipe Gomez",
			BirthDate:      "1985-07-09",
			BirthCity:      "Bogota",
			BirthCountry:   "Colombia",
			IDIssueCity:    "Bogota",
			JobTitle:       "Engineer",
			Department:     "Technology",
			MaritalStatus:  "SINGLE",
			BloodType:      "A+",
		},
		steps: []models.StepPayload{
			models.VehicleInfoData{HasVehicle: false},
		},
	},
}

func main() {
	fmt.Println("🌱 Seeding sample employees...")

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize MongoDB
	if err := config.InitMongoDB(); err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := services.NewMongoEmployeeRepository(config.MongoDB.Collection(config.AppConfig.EmployeeCollection), logging.Logger)
	orchestrator := services.NewUpdateOrchestrator(repo, nil, services.OrchestratorOptions{MaxRetries: 3}, logging.Logger)

	seeded := 0
	for _, s := range seedEmployees {
		e, err := orchestrator.Enroll(ctx, s.personal)
		if errors.Is(err, models.ErrEmployeeExists) {
			fmt.Printf("⚠️  %s already exists, skipping\n", s.personal.DocumentNumber)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to enroll %s: %v", s.personal.DocumentNumber, err)
		}

		progress := services.CalculateProgress(e)
		for _, payload := range s.steps {
			result, err := orchestrator.ApplyStep(ctx, s.personal.DocumentNumber, payload)
			if err != nil {
				log.Fatalf("Failed to apply %s for %s: %v", payload.Step(), s.personal.DocumentNumber, err)
			}
			progress = result.Progress
		}
		seeded++
		fmt.Printf("  ✓ [%s] %s - %d%%\n", s.personal.DocumentNumber, s.personal.FullName, progress)
	}

	fmt.Printf("\n🎉 Seeded %d of %d employees\n", seeded, len(seedEmployees))
}
