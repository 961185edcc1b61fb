package models

import "time"

const (
	maxDependentAge = 120
	// plausibility thresholds
	maxDependentChildAge = 30
	minParentAge         = 40
	seniorAge            = 65
)

// DependentData is the raw form of a Dependent
type DependentData struct {
	DocumentNumber    string `json:"document_number,omitempty" bson:"document_number,omitempty"`
	FullName          string `json:"full_name" bson:"full_name"`
	Relationship      string `json:"relationship" bson:"relationship"`
	BirthDate         string `json:"birth_date" bson:"birth_date"`
	EconomicDependent *bool  `json:"economic_dependent,omitempty" bson:"economic_dependent,omitempty"`
}

// DependentParams holds validated inputs; a zero Document means none was declared
type DependentParams struct {
	Document          DocumentNumber
	FullName          string
	Relationship      RelationshipKind
	BirthDate         time.Time
	EconomicDependent bool
}

// Dependent is a person in the employee's care
type Dependent struct {
	document          DocumentNumber
	fullName          string
	relationship      RelationshipKind
	birthDate         time.Time
	economicDependent bool
}

func NewDependent(p DependentParams) (Dependent, error) {
	var errs ValidationErrors
	d := buildDependent(&errs, p)
	if len(errs) > 0 {
		return Dependent{}, errs
	}
	return d, nil
}

// Build converts the raw form; economic_dependent defaults to true when omitted
func (d DependentData) Build() (Dependent, error) {
	var errs ValidationErrors
	p := DependentParams{
		Document:          parseOptionalValue(&errs, "document_number", NewDocumentNumber, d.DocumentNumber),
		FullName:          d.FullName,
		Relationship:      parseValue(&errs, "relationship", NewRelationshipKind, d.Relationship),
		EconomicDependent: d.EconomicDependent == nil || *d.EconomicDependent,
	}
	p.BirthDate, _ = parseDateField(&errs, "birth_date", d.BirthDate)
	dep := buildDependent(&errs, p)
	if len(errs) > 0 {
		return Dependent{}, errs
	}
	return dep, nil
}

func buildDependent(errs *ValidationErrors, p DependentParams) Dependent {
	errs.require("relationship", p.Relationship.IsZero())
	d := Dependent{
		document:          p.Document,
		fullName:          nameText(errs, "full_name", p.FullName),
		relationship:      p.Relationship,
		birthDate:         truncateDay(p.BirthDate),
		economicDependent: p.EconomicDependent,
	}
	if errs.require("birth_date", p.BirthDate.IsZero()) {
		switch {
		case d.birthDate.After(today()):
			errs.Add(KindRangeViolation, "birth_date", "cannot be in the future")
		case d.Age() > maxDependentAge:
			errs.Add(KindRangeViolation, "birth_date", "implies an age over 120 years")
		}
	}
	return d
}

// PlausibilityWarnings reports relationship and age combinations that are
// unusual but not impossible.
func (d Dependent) PlausibilityWarnings() ValidationErrors {
	var warnings ValidationErrors
	age := d.Age()
	if d.relationship.IsChild() && age > maxDependentChildAge && d.economicDependent {
		warnings.Add(KindCrossFieldViolation, "economic_dependent", "a child older than 30 is not normally an economic dependent")
	}
	if d.relationship.IsParent() && age < minParentAge {
		warnings.Add(KindCrossFieldViolation, "birth_date", "a parent is normally at least 40 years old")
	}
	return warnings
}

func (d Dependent) Document() (DocumentNumber, bool) { return d.document, !d.document.IsZero() }
func (d Dependent) FullName() string                 { return d.fullName }
func (d Dependent) Relationship() RelationshipKind   { return d.relationship }
func (d Dependent) BirthDate() time.Time             { return d.birthDate }
func (d Dependent) EconomicDependent() bool          { return d.economicDependent }
func (d Dependent) Age() int                         { return AgeAt(d.birthDate, today()) }
func (d Dependent) IsMinor() bool                    { return d.Age() < MinimumEmployeeAge }

// NeedsSpecialCare flags minors and seniors
func (d Dependent) NeedsSpecialCare() bool {
	return d.IsMinor() || d.Age() >= seniorAge
}

func (d Dependent) ToData() DependentData {
	economic := d.economicDependent
	return DependentData{
		DocumentNumber:    d.document.String(),
		FullName:          d.fullName,
		Relationship:      d.relationship.String(),
		BirthDate:         FormatDate(d.birthDate),
		EconomicDependent: &economic,
	}
}

// DependentsData is the raw form of the dependents step
type DependentsData struct {
	Dependents []DependentData `json:"dependents"`
}

func (DependentsData) Step() Step     { return StepDependents }
func (DependentsData) isStepPayload() {}

// Build converts every dependent, collecting violations under dependents[i]
func (d DependentsData) Build() ([]Dependent, error) {
	var errs ValidationErrors
	if len(d.Dependents) == 0 {
		errs.Add(KindMissingRequiredField, "dependents", "must include at least one dependent")
	}
	out := make([]Dependent, 0, len(d.Dependents))
	for i, raw := range d.Dependents {
		dep, err := raw.Build()
		if err != nil {
			errs.Merge(indexedField("dependents", i), err)
			continue
		}
		out = append(out, dep)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
