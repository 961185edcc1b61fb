package models

import (
	"fmt"
	"slices"
	"strings"
)

// MaxConflictPersons caps the persons listed in a conflict-of-interest declaration
const MaxConflictPersons = 10

// InterestedPartyType

const (
	PartySupplier       = "SUPPLIER"
	PartyContractor     = "CONTRACTOR"
	PartyClient         = "CLIENT"
	PartyCompetitor     = "COMPETITOR"
	PartyPublicOfficial = "PUBLIC_OFFICIAL"
	PartyShareholder    = "SHAREHOLDER"
	PartyOther          = "OTHER"
)

var interestedPartyTypes = []string{
	PartySupplier, PartyContractor, PartyClient, PartyCompetitor,
	PartyPublicOfficial, PartyShareholder, PartyOther,
}

// InterestedPartyType is the role the related person plays towards the company
type InterestedPartyType struct {
	value string
}

func NewInterestedPartyType(raw string) (InterestedPartyType, error) {
	v, err := parseEnum("interested_party", raw, interestedPartyTypes)
	if err != nil {
		return InterestedPartyType{}, err
	}
	return InterestedPartyType{value: v}, nil
}

func AllowedInterestedPartyTypes() []string { return slices.Clone(interestedPartyTypes) }

func (p InterestedPartyType) String() string                    { return p.value }
func (p InterestedPartyType) IsZero() bool                      { return p.value == "" }
func (p InterestedPartyType) Equals(o InterestedPartyType) bool { return p.value == o.value }

// ConflictPersonData is the raw form of a ConflictPerson
type ConflictPersonData struct {
	FullName        string `json:"full_name" bson:"full_name"`
	Relationship    string `json:"relationship" bson:"relationship"`
	InterestedParty string `json:"interested_party" bson:"interested_party"`
}

// ConflictPerson is someone related to the employee who acts as an
// interested party of the company
type ConflictPerson struct {
	fullName        string
	relationship    RelationshipKind
	interestedParty InterestedPartyType
}

func (d ConflictPersonData) Build() (ConflictPerson, error) {
	var errs ValidationErrors
	p := ConflictPerson{
		fullName:        nameText(&errs, "full_name", d.FullName),
		relationship:    parseValue(&errs, "relationship", NewRelationshipKind, d.Relationship),
		interestedParty: parseValue(&errs, "interested_party", NewInterestedPartyType, d.InterestedParty),
	}
	if len(errs) > 0 {
		return ConflictPerson{}, errs
	}
	return p, nil
}

func (p ConflictPerson) FullName() string                     { return p.fullName }
func (p ConflictPerson) Relationship() RelationshipKind       { return p.relationship }
func (p ConflictPerson) InterestedParty() InterestedPartyType { return p.interestedParty }

func (p ConflictPerson) ToData() ConflictPersonData {
	return ConflictPersonData{
		FullName:        p.fullName,
		Relationship:    p.relationship.String(),
		InterestedParty: p.interestedParty.String(),
	}
}

// key identifies a person regardless of name casing
func (p ConflictPerson) key() string {
	return strings.ToLower(p.fullName) + "|" + p.relationship.String() + "|" + p.interestedParty.String()
}

// ConflictDeclarationData is the raw form of a ConflictDeclaration
type ConflictDeclarationData struct {
	HasConflict bool                 `json:"has_conflict" bson:"has_conflict"`
	Persons     []ConflictPersonData `json:"persons" bson:"persons"`
}

// ConflictDeclaration states whether the employee has a conflict of interest
// and with whom. It is kept beside the six steps and never counts towards
// progress.
type ConflictDeclaration struct {
	hasConflict bool
	persons     []ConflictPerson
}

func (d ConflictDeclarationData) Build() (ConflictDeclaration, error) {
	var errs ValidationErrors
	switch {
	case d.HasConflict && len(d.Persons) == 0:
		errs.Add(KindMissingRequiredField, "persons", "must list at least one person when declaring a conflict")
	case !d.HasConflict && len(d.Persons) > 0:
		errs.Add(KindCrossFieldViolation, "persons", "must be empty when no conflict is declared")
	}
	if len(d.Persons) > MaxConflictPersons {
		errs.Add(KindCapacityExceeded, "persons", fmt.Sprintf("cannot declare more than %d persons", MaxConflictPersons))
	}

	persons := make([]ConflictPerson, 0, len(d.Persons))
	seen := make(map[string]bool, len(d.Persons))
	for i, raw := range d.Persons {
		p, err := raw.Build()
		if err != nil {
			errs.Merge(indexedField("persons", i), err)
			continue
		}
		if seen[p.key()] {
			errs.Add(KindDuplicateEntry, indexedField("persons", i),
				fmt.Sprintf("%s is already declared as %s", p.fullName, p.interestedParty))
			continue
		}
		seen[p.key()] = true
		persons = append(persons, p)
	}
	if len(errs) > 0 {
		return ConflictDeclaration{}, errs
	}
	return ConflictDeclaration{hasConflict: d.HasConflict, persons: persons}, nil
}

func (c ConflictDeclaration) HasConflict() bool         { return c.hasConflict }
func (c ConflictDeclaration) Persons() []ConflictPerson { return slices.Clone(c.persons) }

func (c ConflictDeclaration) ToData() ConflictDeclarationData {
	d := ConflictDeclarationData{
		HasConflict: c.hasConflict,
		Persons:     make([]ConflictPersonData, len(c.persons)),
	}
	for i, p := range c.persons {
		d.Persons[i] = p.ToData()
	}
	return d
}

// DecodeConflictDeclaration decodes a declaration body, rejecting unknown fields
func DecodeConflictDeclaration(raw []byte) (ConflictDeclarationData, error) {
	return decodeStrict[ConflictDeclarationData](raw)
}
