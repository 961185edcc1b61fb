package models

import "time"

// MinimumEmployeeAge is the youngest age accepted for an employee
const MinimumEmployeeAge = 18

// PersonalInfoData is the raw form of the personal information step
type PersonalInfoData struct {
	DocumentNumber string `json:"document_number" bson:"document_number"`
	FullName       string `json:"full_name" bson:"full_name"`
	BirthDate      string `json:"birth_date" bson:"birth_date"`
	BirthCity      string `json:"birth_city" bson:"birth_city"`
	BirthCountry   string `json:"birth_country" bson:"birth_country"`
	IDIssueCity    string `json:"id_issue_city" bson:"id_issue_city"`
	JobTitle       string `json:"job_title" bson:"job_title"`
	Department     string `json:"department" bson:"department"`
	MaritalStatus  string `json:"marital_status" bson:"marital_status"`
	BloodType      string `json:"blood_type" bson:"blood_type"`
}

// PersonalInfoParams holds validated value types plus raw fields
type PersonalInfoParams struct {
	Document      DocumentNumber
	FullName      string
	BirthDate     time.Time
	BirthCity     string
	BirthCountry  string
	IDIssueCity   string
	JobTitle      string
	Department    string
	MaritalStatus MaritalStatus
	BloodType     BloodType
}

// PersonalInfo is the mandatory identity section of an employee
type PersonalInfo struct {
	document      DocumentNumber
	fullName      string
	birthDate     time.Time
	birthCity     string
	birthCountry  string
	idIssueCity   string
	jobTitle      string
	department    string
	maritalStatus MaritalStatus
	bloodType     BloodType
}

// NewPersonalInfo checks every field and the minimum age
func NewPersonalInfo(p PersonalInfoParams) (PersonalInfo, error) {
	var errs ValidationErrors
	info := buildPersonalInfo(&errs, p)
	if len(errs) > 0 {
		return PersonalInfo{}, errs
	}
	return info, nil
}

// Build converts the raw form, reporting scalar and cross-field violations together
func (d PersonalInfoData) Build() (PersonalInfo, error) {
	var errs ValidationErrors
	p := PersonalInfoParams{
		Document:      parseValue(&errs, "document_number", NewDocumentNumber, d.DocumentNumber),
		FullName:      d.FullName,
		BirthCity:     d.BirthCity,
		BirthCountry:  d.BirthCountry,
		IDIssueCity:   d.IDIssueCity,
		JobTitle:      d.JobTitle,
		Department:    d.Department,
		MaritalStatus: parseValue(&errs, "marital_status", NewMaritalStatus, d.MaritalStatus),
		BloodType:     parseValue(&errs, "blood_type", NewBloodType, d.BloodType),
	}
	p.BirthDate, _ = parseDateField(&errs, "birth_date", d.BirthDate)
	info := buildPersonalInfo(&errs, p)
	if len(errs) > 0 {
		return PersonalInfo{}, errs
	}
	return info, nil
}

func (PersonalInfoData) Step() Step     { return StepPersonalInfo }
func (PersonalInfoData) isStepPayload() {}

func buildPersonalInfo(errs *ValidationErrors, p PersonalInfoParams) PersonalInfo {
	errs.require("document_number", p.Document.IsZero())
	errs.require("marital_status", p.MaritalStatus.IsZero())
	errs.require("blood_type", p.BloodType.IsZero())

	info := PersonalInfo{
		document:      p.Document,
		fullName:      nameText(errs, "full_name", p.FullName),
		birthDate:     truncateDay(p.BirthDate),
		birthCity:     requiredText(errs, "birth_city", p.BirthCity, 100),
		birthCountry:  requiredText(errs, "birth_country", p.BirthCountry, 100),
		idIssueCity:   requiredText(errs, "id_issue_city", p.IDIssueCity, 100),
		jobTitle:      requiredText(errs, "job_title", p.JobTitle, 100),
		department:    requiredText(errs, "department", p.Department, 100),
		maritalStatus: p.MaritalStatus,
		bloodType:     p.BloodType,
	}

	if errs.require("birth_date", p.BirthDate.IsZero()) {
		switch {
		case info.birthDate.After(today()):
			errs.Add(KindRangeViolation, "birth_date", "cannot be in the future")
		case AgeAt(info.birthDate, today()) < MinimumEmployeeAge:
			errs.Add(KindRangeViolation, "birth_date", "employee must be at least 18 years old")
		}
	}
	return info
}

func (p PersonalInfo) Document() DocumentNumber     { return p.document }
func (p PersonalInfo) FullName() string             { return p.fullName }
func (p PersonalInfo) BirthDate() time.Time         { return p.birthDate }
func (p PersonalInfo) BirthCity() string            { return p.birthCity }
func (p PersonalInfo) BirthCountry() string         { return p.birthCountry }
func (p PersonalInfo) IDIssueCity() string          { return p.idIssueCity }
func (p PersonalInfo) JobTitle() string             { return p.jobTitle }
func (p PersonalInfo) Department() string           { return p.department }
func (p PersonalInfo) MaritalStatus() MaritalStatus { return p.maritalStatus }
func (p PersonalInfo) BloodType() BloodType         { return p.bloodType }
func (p PersonalInfo) IsZero() bool                 { return p.document.IsZero() }
func (p PersonalInfo) Age() int                     { return AgeAt(p.birthDate, today()) }
func (p PersonalInfo) AgeAt(at time.Time) int       { return AgeAt(p.birthDate, at) }

// ToData projects the section back to primitive fields
func (p PersonalInfo) ToData() PersonalInfoData {
	return PersonalInfoData{
		DocumentNumber: p.document.String(),
		FullName:       p.fullName,
		BirthDate:      FormatDate(p.birthDate),
		BirthCity:      p.birthCity,
		BirthCountry:   p.birthCountry,
		IDIssueCity:    p.idIssueCity,
		JobTitle:       p.jobTitle,
		Department:     p.department,
		MaritalStatus:  p.maritalStatus.String(),
		BloodType:      p.bloodType.String(),
	}
}
