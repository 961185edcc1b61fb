package models

import (
	"cmp"
	"slices"
)

const (
	EducationPrimary        = "PRIMARY"
	EducationSecondary      = "SECONDARY"
	EducationTechnical      = "TECHNICAL"
	EducationTechnologist   = "TECHNOLOGIST"
	EducationUndergraduate  = "UNDERGRADUATE"
	EducationSpecialization = "SPECIALIZATION"
	EducationMasters        = "MASTERS"
	EducationDoctorate      = "DOCTORATE"
)

// educationLevels is ordered from lowest to highest
var educationLevels = []string{
	EducationPrimary,
	EducationSecondary,
	EducationTechnical,
	EducationTechnologist,
	EducationUndergraduate,
	EducationSpecialization,
	EducationMasters,
	EducationDoctorate,
}

// EducationLevel is an ordered academic level
type EducationLevel struct {
	value string
}

func NewEducationLevel(raw string) (EducationLevel, error) {
	v, err := parseEnum("education_level", raw, educationLevels)
	if err != nil {
		return EducationLevel{}, err
	}
	return EducationLevel{value: v}, nil
}

func AllowedEducationLevels() []string { return slices.Clone(educationLevels) }

func (e EducationLevel) String() string               { return e.value }
func (e EducationLevel) IsZero() bool                 { return e.value == "" }
func (e EducationLevel) Equals(o EducationLevel) bool { return e.value == o.value }

// Rank is the 1-based position in the hierarchy, 0 for the zero value
func (e EducationLevel) Rank() int {
	return slices.Index(educationLevels, e.value) + 1
}

// Compare returns -1, 0 or +1 ordering by rank
func (e EducationLevel) Compare(o EducationLevel) int {
	return cmp.Compare(e.Rank(), o.Rank())
}

func (e EducationLevel) IsBasic() bool {
	return e.value == EducationPrimary || e.value == EducationSecondary
}

func (e EducationLevel) IsTechnical() bool {
	return e.value == EducationTechnical || e.value == EducationTechnologist
}

// IsHigherEducation covers undergraduate and above
func (e EducationLevel) IsHigherEducation() bool {
	return e.Rank() >= 5
}

func (e EducationLevel) IsPostgraduate() bool {
	return e.Rank() >= 6
}
