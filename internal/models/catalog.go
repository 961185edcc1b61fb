package models

// Catalog lists the permitted values of every enumeration, for form options
type Catalog struct {
	BloodTypes        []string `json:"blood_types"`
	MaritalStatuses   []string `json:"marital_statuses"`
	RelationshipKinds []string `json:"relationship_kinds"`
	VehicleTypes      []string `json:"vehicle_types"`
	HousingTypes      []string `json:"housing_types"`
	AcquisitionTypes  []string `json:"acquisition_types"`
	EducationLevels   []string `json:"education_levels"`

	InterestedPartyTypes []string `json:"interested_party_types"`
}

func NewCatalog() Catalog {
	return Catalog{
		BloodTypes:        AllowedBloodTypes(),
		MaritalStatuses:   AllowedMaritalStatuses(),
		RelationshipKinds: AllowedRelationshipKinds(),
		VehicleTypes:      AllowedVehicleTypes(),
		HousingTypes:      AllowedHousingTypes(),
		AcquisitionTypes:  AllowedAcquisitionTypes(),
		EducationLevels:   AllowedEducationLevels(),

		InterestedPartyTypes: AllowedInterestedPartyTypes(),
	}
}
