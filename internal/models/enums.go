package models

import (
	"slices"
	"strings"
)

func parseEnum(field, raw string, allowed []string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return "", NewValidationError(KindMissingRequiredField, field, "is required")
	}
	if !slices.Contains(allowed, value) {
		return "", newEnumError(field, raw, allowed)
	}
	return value, nil
}

// BloodType

var bloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// BloodType is an ABO group with Rh factor
type BloodType struct {
	value string
}

// NewBloodType accepts either ASCII '-' or the Unicode minus sign
func NewBloodType(raw string) (BloodType, error) {
	v, err := parseEnum("blood_type", strings.ReplaceAll(raw, "−", "-"), bloodTypes)
	if err != nil {
		return BloodType{}, err
	}
	return BloodType{value: v}, nil
}

func AllowedBloodTypes() []string { return slices.Clone(bloodTypes) }

func (b BloodType) String() string          { return b.value }
func (b BloodType) IsZero() bool            { return b.value == "" }
func (b BloodType) Equals(o BloodType) bool { return b.value == o.value }

// Group returns the ABO group without the Rh factor
func (b BloodType) Group() string { return strings.TrimRight(b.value, "+-") }

// Factor returns "+" or "-"
func (b BloodType) Factor() string {
	if b.value == "" {
		return ""
	}
	return b.value[len(b.value)-1:]
}

func (b BloodType) IsPositive() bool           { return b.Factor() == "+" }
func (b BloodType) IsUniversalDonor() bool     { return b.value == "O-" }
func (b BloodType) IsUniversalRecipient() bool { return b.value == "AB+" }

// MaritalStatus

const (
	MaritalSingle         = "SINGLE"
	MaritalMarried        = "MARRIED"
	MaritalCommonLawUnion = "COMMON_LAW_UNION"
	MaritalDivorced       = "DIVORCED"
	MaritalWidowed        = "WIDOWED"
	MaritalSeparated      = "SEPARATED"
)

var maritalStatuses = []string{MaritalSingle, MaritalMarried, MaritalCommonLawUnion, MaritalDivorced, MaritalWidowed, MaritalSeparated}

var maritalDescriptions = map[string]string{
	MaritalSingle:         "Single",
	MaritalMarried:        "Married",
	MaritalCommonLawUnion: "Common-law union",
	MaritalDivorced:       "Divorced",
	MaritalWidowed:        "Widowed",
	MaritalSeparated:      "Separated",
}

type MaritalStatus struct {
	value string
}

func NewMaritalStatus(raw string) (MaritalStatus, error) {
	v, err := parseEnum("marital_status", raw, maritalStatuses)
	if err != nil {
		return MaritalStatus{}, err
	}
	return MaritalStatus{value: v}, nil
}

func AllowedMaritalStatuses() []string { return slices.Clone(maritalStatuses) }

func (m MaritalStatus) String() string              { return m.value }
func (m MaritalStatus) IsZero() bool                { return m.value == "" }
func (m MaritalStatus) Equals(o MaritalStatus) bool { return m.value == o.value }
func (m MaritalStatus) Description() string         { return maritalDescriptions[m.value] }

// HasPartner reports a married or common-law status
func (m MaritalStatus) HasPartner() bool {
	return m.value == MaritalMarried || m.value == MaritalCommonLawUnion
}

// RelationshipKind

const (
	RelFather       = "FATHER"
	RelMother       = "MOTHER"
	RelBrother      = "BROTHER"
	RelSister       = "SISTER"
	RelSon          = "SON"
	RelDaughter     = "DAUGHTER"
	RelGrandfather  = "GRANDFATHER"
	RelGrandmother  = "GRANDMOTHER"
	RelUncle        = "UNCLE"
	RelAunt         = "AUNT"
	RelNephew       = "NEPHEW"
	RelNiece        = "NIECE"
	RelMaleCousin   = "MALE_COUSIN"
	RelFemaleCousin = "FEMALE_COUSIN"
	RelHusband      = "HUSBAND"
	RelWife         = "WIFE"
	RelMaleFriend   = "MALE_FRIEND"
	RelFemaleFriend = "FEMALE_FRIEND"
	RelAcquaintance = "ACQUAINTANCE"
)

var relationshipKinds = []string{
	RelFather, RelMother, RelBrother, RelSister, RelSon, RelDaughter,
	RelGrandfather, RelGrandmother, RelUncle, RelAunt, RelNephew, RelNiece,
	RelMaleCousin, RelFemaleCousin, RelHusband, RelWife,
	RelMaleFriend, RelFemaleFriend, RelAcquaintance,
}

type RelationshipKind struct {
	value string
}

func NewRelationshipKind(raw string) (RelationshipKind, error) {
	v, err := parseEnum("relationship", raw, relationshipKinds)
	if err != nil {
		return RelationshipKind{}, err
	}
	return RelationshipKind{value: v}, nil
}

func AllowedRelationshipKinds() []string { return slices.Clone(relationshipKinds) }

func (r RelationshipKind) String() string                 { return r.value }
func (r RelationshipKind) IsZero() bool                   { return r.value == "" }
func (r RelationshipKind) Equals(o RelationshipKind) bool { return r.value == o.value }

// IsFamily is false only for friends and acquaintances
func (r RelationshipKind) IsFamily() bool {
	switch r.value {
	case RelMaleFriend, RelFemaleFriend, RelAcquaintance, "":
		return false
	}
	return true
}

func (r RelationshipKind) IsSpouse() bool { return r.value == RelHusband || r.value == RelWife }
func (r RelationshipKind) IsChild() bool  { return r.value == RelSon || r.value == RelDaughter }
func (r RelationshipKind) IsParent() bool { return r.value == RelFather || r.value == RelMother }

// VehicleType

const (
	VehicleCar        = "CAR"
	VehicleMotorcycle = "MOTORCYCLE"
	VehiclePickup     = "PICKUP"
	VehicleTruck      = "TRUCK"
	VehicleBus        = "BUS"
	VehicleBicycle    = "BICYCLE"
	VehicleOther      = "OTHER"
)

var vehicleTypes = []string{VehicleCar, VehicleMotorcycle, VehiclePickup, VehicleTruck, VehicleBus, VehicleBicycle, VehicleOther}

type VehicleType struct {
	value string
}

func NewVehicleType(raw string) (VehicleType, error) {
	v, err := parseEnum("vehicle_type", raw, vehicleTypes)
	if err != nil {
		return VehicleType{}, err
	}
	return VehicleType{value: v}, nil
}

func AllowedVehicleTypes() []string { return slices.Clone(vehicleTypes) }

func (v VehicleType) String() string            { return v.value }
func (v VehicleType) IsZero() bool              { return v.value == "" }
func (v VehicleType) Equals(o VehicleType) bool { return v.value == o.value }
func (v VehicleType) IsMotorized() bool         { return v.value != "" && v.value != VehicleBicycle }

// RequiresLicense is true for every motorized type except OTHER
func (v VehicleType) RequiresLicense() bool {
	return v.IsMotorized() && v.value != VehicleOther
}

// HousingType

const (
	HousingHouse        = "HOUSE"
	HousingApartment    = "APARTMENT"
	HousingHouseWithLot = "HOUSE_WITH_LOT"
	HousingFarm         = "FARM"
	HousingRoom         = "ROOM"
	HousingOther        = "OTHER"
)

var housingTypes = []string{HousingHouse, HousingApartment, HousingHouseWithLot, HousingFarm, HousingRoom, HousingOther}

type HousingType struct {
	value string
}

func NewHousingType(raw string) (HousingType, error) {
	v, err := parseEnum("housing_type", raw, housingTypes)
	if err != nil {
		return HousingType{}, err
	}
	return HousingType{value: v}, nil
}

func AllowedHousingTypes() []string { return slices.Clone(housingTypes) }

func (h HousingType) String() string            { return h.value }
func (h HousingType) IsZero() bool              { return h.value == "" }
func (h HousingType) Equals(o HousingType) bool { return h.value == o.value }
func (h HousingType) IsHouse() bool             { return h.value == HousingHouse || h.value == HousingHouseWithLot }

// AcquisitionType

const (
	AcquisitionOwned    = "OWNED"
	AcquisitionRented   = "RENTED"
	AcquisitionFamily   = "FAMILY"
	AcquisitionBorrowed = "BORROWED"
	AcquisitionOther    = "OTHER"
)

var acquisitionTypes = []string{AcquisitionOwned, AcquisitionRented, AcquisitionFamily, AcquisitionBorrowed, AcquisitionOther}

type AcquisitionType struct {
	value string
}

func NewAcquisitionType(raw string) (AcquisitionType, error) {
	v, err := parseEnum("acquisition_type", raw, acquisitionTypes)
	if err != nil {
		return AcquisitionType{}, err
	}
	return AcquisitionType{value: v}, nil
}

func AllowedAcquisitionTypes() []string { return slices.Clone(acquisitionTypes) }

func (a AcquisitionType) String() string                { return a.value }
func (a AcquisitionType) IsZero() bool                  { return a.value == "" }
func (a AcquisitionType) Equals(o AcquisitionType) bool { return a.value == o.value }
func (a AcquisitionType) IsOwned() bool                 { return a.value == AcquisitionOwned }
func (a AcquisitionType) RequiresPayment() bool         { return a.value == AcquisitionRented }
