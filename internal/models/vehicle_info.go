package models

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinVehicleModelYear = 1960
	// vehicles up to this many years ahead of the current year are accepted
	vehicleModelYearLead = 2
	newVehicleMaxAge     = 3
)

var platePattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

// VehicleInfoData is the raw form of the vehicle step
type VehicleInfoData struct {
	HasVehicle  bool   `json:"has_vehicle" bson:"has_vehicle"`
	VehicleType string `json:"vehicle_type,omitempty" bson:"vehicle_type,omitempty"`
	Brand       string `json:"brand,omitempty" bson:"brand,omitempty"`
	Plate       string `json:"plate,omitempty" bson:"plate,omitempty"`
	ModelYear   int    `json:"model_year,omitempty" bson:"model_year,omitempty"`
	Owner       string `json:"owner,omitempty" bson:"owner,omitempty"`
}

type VehicleInfoParams struct {
	HasVehicle  bool
	VehicleType VehicleType
	Brand       string
	Plate       string
	ModelYear   int
	Owner       string
}

// VehicleInfo declares whether the employee has a vehicle and which one
type VehicleInfo struct {
	hasVehicle  bool
	vehicleType VehicleType
	brand       string
	plate       string
	modelYear   int
	owner       string
}

func NewVehicleInfo(p VehicleInfoParams) (VehicleInfo, error) {
	var errs ValidationErrors
	info := buildVehicleInfo(&errs, p)
	if len(errs) > 0 {
		return VehicleInfo{}, errs
	}
	return info, nil
}

func (d VehicleInfoData) Build() (VehicleInfo, error) {
	var errs ValidationErrors
	p := VehicleInfoParams{
		HasVehicle: d.HasVehicle,
		Brand:      d.Brand,
		Plate:      d.Plate,
		ModelYear:  d.ModelYear,
		Owner:      d.Owner,
	}
	if d.HasVehicle {
		p.VehicleType = parseValue(&errs, "vehicle_type", NewVehicleType, d.VehicleType)
	} else if strings.TrimSpace(d.VehicleType) != "" {
		errs.Add(KindCrossFieldViolation, "vehicle_type", "must be empty when the employee has no vehicle")
	}
	info := buildVehicleInfo(&errs, p)
	if len(errs) > 0 {
		return VehicleInfo{}, errs
	}
	return info, nil
}

func (VehicleInfoData) Step() Step     { return StepVehicle }
func (VehicleInfoData) isStepPayload() {}

func buildVehicleInfo(errs *ValidationErrors, p VehicleInfoParams) VehicleInfo {
	if !p.HasVehicle {
		present := map[string]bool{
			"vehicle_type": !p.VehicleType.IsZero(),
			"brand":        strings.TrimSpace(p.Brand) != "",
			"plate":        strings.TrimSpace(p.Plate) != "",
			"model_year":   p.ModelYear != 0,
			"owner":        strings.TrimSpace(p.Owner) != "",
		}
		for _, field := range []string{"vehicle_type", "brand", "plate", "model_year", "owner"} {
			if present[field] && !errs.hasField(field) {
				errs.Add(KindCrossFieldViolation, field, "must be empty when the employee has no vehicle")
			}
		}
		return VehicleInfo{}
	}

	errs.require("vehicle_type", p.VehicleType.IsZero())
	info := VehicleInfo{
		hasVehicle:  true,
		vehicleType: p.VehicleType,
		brand:       requiredText(errs, "brand", p.Brand, 50),
		plate:       strings.ToUpper(strings.TrimSpace(p.Plate)),
		modelYear:   p.ModelYear,
		owner:       requiredText(errs, "owner", p.Owner, 100),
	}

	if errs.require("plate", info.plate == "") && !platePattern.MatchString(info.plate) {
		errs.Add(KindInvalidFormat, "plate", "must be 3 letters followed by 3 digits (e.g. ABC123)")
	}

	maxYear := today().Year() + vehicleModelYearLead
	if errs.require("model_year", p.ModelYear == 0) && (p.ModelYear < MinVehicleModelYear || p.ModelYear > maxYear) {
		errs.Add(KindRangeViolation, "model_year", fmt.Sprintf("must be between %d and %d", MinVehicleModelYear, maxYear))
	}
	return info
}

func (v VehicleInfo) HasVehicle() bool         { return v.hasVehicle }
func (v VehicleInfo) VehicleType() VehicleType { return v.vehicleType }
func (v VehicleInfo) Brand() string            { return v.brand }
func (v VehicleInfo) Plate() string            { return v.plate }
func (v VehicleInfo) ModelYear() int           { return v.modelYear }
func (v VehicleInfo) Owner() string            { return v.owner }

// AgeYears is the vehicle age by model year; zero without a vehicle
func (v VehicleInfo) AgeYears() int {
	if !v.hasVehicle {
		return 0
	}
	age := today().Year() - v.modelYear
	if age < 0 {
		return 0
	}
	return age
}

func (v VehicleInfo) IsNew() bool {
	return v.hasVehicle && v.AgeYears() <= newVehicleMaxAge
}

func (v VehicleInfo) ToData() VehicleInfoData {
	return VehicleInfoData{
		HasVehicle:  v.hasVehicle,
		VehicleType: v.vehicleType.String(),
		Brand:       v.brand,
		Plate:       v.plate,
		ModelYear:   v.modelYear,
		Owner:       v.owner,
	}
}
