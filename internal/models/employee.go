package models

import (
	"fmt"
	"slices"
	"time"
)

// MaxDependents caps the dependent list
const MaxDependents = 10

// Employee is the aggregate root of an employee's declaration.
// Sections are replaced wholesale; PersonalInfo is always present.
type Employee struct {
	document   DocumentNumber
	personal   PersonalInfo
	contact    *ContactInfo
	housing    *HousingInfo
	vehicle    *VehicleInfo
	academic   *AcademicInfo
	dependents []Dependent
	conflict   *ConflictDeclaration

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewEmployee creates an employee identified by the personal info document
func NewEmployee(personal PersonalInfo) (*Employee, error) {
	if personal.IsZero() {
		return nil, ValidationErrors{NewValidationError(KindMissingRequiredField, "personal_info", "is required")}
	}
	return &Employee{
		document: personal.Document(),
		personal: personal,
	}, nil
}

func (e *Employee) Document() DocumentNumber   { return e.document }
func (e *Employee) PersonalInfo() PersonalInfo { return e.personal }

func (e *Employee) ContactInfo() (ContactInfo, bool)   { return deref(e.contact) }
func (e *Employee) HousingInfo() (HousingInfo, bool)   { return deref(e.housing) }
func (e *Employee) VehicleInfo() (VehicleInfo, bool)   { return deref(e.vehicle) }
func (e *Employee) AcademicInfo() (AcademicInfo, bool) { return deref(e.academic) }

func (e *Employee) Dependents() []Dependent { return slices.Clone(e.dependents) }

// ConflictDeclaration is absent until the employee files one
func (e *Employee) ConflictDeclaration() (ConflictDeclaration, bool) { return deref(e.conflict) }

// HasVehicle reports a declared vehicle section with a vehicle in it
func (e *Employee) HasVehicle() bool { return e.vehicle != nil && e.vehicle.HasVehicle() }

func (e *Employee) HasDependents() bool { return len(e.dependents) > 0 }

// Version is the optimistic concurrency counter assigned by the repository
func (e *Employee) Version() int64       { return e.version }
func (e *Employee) CreatedAt() time.Time { return e.createdAt }
func (e *Employee) UpdatedAt() time.Time { return e.updatedAt }

// MarkPersisted records the version and timestamps assigned by a repository
func (e *Employee) MarkPersisted(version int64, at time.Time) {
	if e.createdAt.IsZero() {
		e.createdAt = at
	}
	e.version = version
	e.updatedAt = at
}

// SetPersonalInfo replaces the personal section. The document number is the
// identity of the aggregate and cannot change.
func (e *Employee) SetPersonalInfo(info PersonalInfo) error {
	if info.IsZero() {
		return ValidationErrors{NewValidationError(KindMissingRequiredField, "personal_info", "is required")}
	}
	if !info.Document().Equals(e.document) {
		return ValidationErrors{{
			Kind:    KindCrossFieldViolation,
			Field:   "document_number",
			Message: fmt.Sprintf("%s: expected %s", ErrIdentityMismatch, e.document),
		}}
	}
	e.personal = info
	return nil
}

func (e *Employee) SetContactInfo(info ContactInfo)   { e.contact = &info }
func (e *Employee) SetHousingInfo(info HousingInfo)   { e.housing = &info }
func (e *Employee) SetVehicleInfo(info VehicleInfo)   { e.vehicle = &info }
func (e *Employee) SetAcademicInfo(info AcademicInfo) { e.academic = &info }

// SetConflictDeclaration replaces the conflict-of-interest declaration
func (e *Employee) SetConflictDeclaration(d ConflictDeclaration) { e.conflict = &d }

// AddDependent appends a dependent. Duplicates are allowed.
func (e *Employee) AddDependent(d Dependent) error {
	if len(e.dependents) >= MaxDependents {
		return ValidationErrors{NewValidationError(KindCapacityExceeded, "dependents",
			fmt.Sprintf("cannot register more than %d dependents", MaxDependents))}
	}
	e.dependents = append(e.dependents, d)
	return nil
}

// RemoveDependent drops every dependent with the document number; absent is a no-op
func (e *Employee) RemoveDependent(doc DocumentNumber) {
	e.dependents = slices.DeleteFunc(e.dependents, func(d Dependent) bool {
		return !d.document.IsZero() && d.document.Equals(doc)
	})
}

// IsComplete requires the personal, contact and housing sections
func (e *Employee) IsComplete() bool {
	return e.contact != nil && e.housing != nil
}

// Validate lists the mandatory sections still missing
func (e *Employee) Validate() ValidationErrors {
	var errs ValidationErrors
	if e.personal.IsZero() {
		errs.Add(KindMissingRequiredField, "personal_info", "personal information is required")
	}
	if e.contact == nil {
		errs.Add(KindMissingRequiredField, "contact_info", "contact information is required")
	}
	if e.housing == nil {
		errs.Add(KindMissingRequiredField, "housing_info", "housing information is required")
	}
	return errs
}

// CompletedSteps lists the sections present, counting dependents only when non-empty
func (e *Employee) CompletedSteps() []Step {
	steps := []Step{StepPersonalInfo}
	if e.vehicle != nil {
		steps = append(steps, StepVehicle)
	}
	if e.housing != nil {
		steps = append(steps, StepHousing)
	}
	if e.contact != nil {
		steps = append(steps, StepContact)
	}
	if e.academic != nil {
		steps = append(steps, StepAcademic)
	}
	if len(e.dependents) > 0 {
		steps = append(steps, StepDependents)
	}
	return steps
}

// Clone returns an independent copy; sections are immutable so only the
// containers are duplicated.
func (e *Employee) Clone() *Employee {
	cp := *e
	cp.dependents = slices.Clone(e.dependents)
	return &cp
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// EmployeeData is the storage and transport projection of an Employee
type EmployeeData struct {
	DocumentNumber string            `json:"document_number" bson:"document_number"`
	PersonalInfo   PersonalInfoData  `json:"personal_info" bson:"personal_info"`
	ContactInfo    *ContactInfoData  `json:"contact_info,omitempty" bson:"contact_info,omitempty"`
	HousingInfo    *HousingInfoData  `json:"housing_info,omitempty" bson:"housing_info,omitempty"`
	VehicleInfo    *VehicleInfoData  `json:"vehicle_info,omitempty" bson:"vehicle_info,omitempty"`
	AcademicInfo   *AcademicInfoData `json:"academic_info,omitempty" bson:"academic_info,omitempty"`
	Dependents     []DependentData   `json:"dependents" bson:"dependents"`

	ConflictDeclaration *ConflictDeclarationData `json:"conflict_declaration,omitempty" bson:"conflict_declaration,omitempty"`

	// denormalized for indexed queries
	Complete   bool `json:"complete" bson:"complete"`
	HasVehicle bool `json:"has_vehicle" bson:"has_vehicle"`

	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (e *Employee) ToData() EmployeeData {
	d := EmployeeData{
		DocumentNumber: e.document.String(),
		PersonalInfo:   e.personal.ToData(),
		Dependents:     make([]DependentData, len(e.dependents)),
		Complete:       e.IsComplete(),
		HasVehicle:     e.HasVehicle(),
		Version:        e.version,
		CreatedAt:      e.createdAt,
		UpdatedAt:      e.updatedAt,
	}
	if e.contact != nil {
		c := e.contact.ToData()
		d.ContactInfo = &c
	}
	if e.housing != nil {
		h := e.housing.ToData()
		d.HousingInfo = &h
	}
	if e.vehicle != nil {
		v := e.vehicle.ToData()
		d.VehicleInfo = &v
	}
	if e.academic != nil {
		a := e.academic.ToData()
		d.AcademicInfo = &a
	}
	for i, dep := range e.dependents {
		d.Dependents[i] = dep.ToData()
	}
	if e.conflict != nil {
		c := e.conflict.ToData()
		d.ConflictDeclaration = &c
	}
	return d
}

// Build rehydrates an Employee, re-running every constructor
func (d EmployeeData) Build() (*Employee, error) {
	var errs ValidationErrors
	personal, err := d.PersonalInfo.Build()
	if err != nil {
		errs.Merge("personal_info", err)
		return nil, errs
	}
	e, err := NewEmployee(personal)
	if err != nil {
		return nil, err
	}
	if d.DocumentNumber != "" && d.DocumentNumber != e.document.String() {
		errs.Add(KindCrossFieldViolation, "document_number", ErrIdentityMismatch.Error())
	}
	if d.ContactInfo != nil {
		if c, err := d.ContactInfo.Build(); err != nil {
			errs.Merge("contact_info", err)
		} else {
			e.SetContactInfo(c)
		}
	}
	if d.HousingInfo != nil {
		if h, err := d.HousingInfo.Build(); err != nil {
			errs.Merge("housing_info", err)
		} else {
			e.SetHousingInfo(h)
		}
	}
	if d.VehicleInfo != nil {
		if v, err := d.VehicleInfo.Build(); err != nil {
			errs.Merge("vehicle_info", err)
		} else {
			e.SetVehicleInfo(v)
		}
	}
	if d.AcademicInfo != nil {
		if a, err := d.AcademicInfo.Build(); err != nil {
			errs.Merge("academic_info", err)
		} else {
			e.SetAcademicInfo(a)
		}
	}
	for i, raw := range d.Dependents {
		dep, err := raw.Build()
		if err != nil {
			errs.Merge(indexedField("dependents", i), err)
			continue
		}
		if err := e.AddDependent(dep); err != nil {
			errs.Merge("", err)
			break
		}
	}
	if d.ConflictDeclaration != nil {
		if c, err := d.ConflictDeclaration.Build(); err != nil {
			errs.Merge("conflict_declaration", err)
		} else {
			e.SetConflictDeclaration(c)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	e.version = d.Version
	e.createdAt = d.CreatedAt
	e.updatedAt = d.UpdatedAt
	return e, nil
}
