package models

import (
	"fmt"
	"strings"
	"time"
)

// MaxStudyRecords caps the study list
const MaxStudyRecords = 10

// StudyRecordData is the raw form of a StudyRecord
type StudyRecordData struct {
	Level          string  `json:"level" bson:"level"`
	Degree         string  `json:"degree" bson:"degree"`
	Institution    string  `json:"institution" bson:"institution"`
	StartDate      string  `json:"start_date" bson:"start_date"`
	GraduationDate *string `json:"graduation_date,omitempty" bson:"graduation_date,omitempty"`
	InProgress     bool    `json:"in_progress" bson:"in_progress"`
}

type StudyRecordParams struct {
	Level          EducationLevel
	Degree         string
	Institution    string
	StartDate      time.Time
	GraduationDate *time.Time
	InProgress     bool
}

// StudyRecord is one degree the employee holds or is pursuing
type StudyRecord struct {
	level          EducationLevel
	degree         string
	institution    string
	startDate      time.Time
	graduationDate *time.Time
	inProgress     bool
}

func NewStudyRecord(p StudyRecordParams) (StudyRecord, error) {
	var errs ValidationErrors
	r := buildStudyRecord(&errs, p)
	if len(errs) > 0 {
		return StudyRecord{}, errs
	}
	return r, nil
}

func (d StudyRecordData) Build() (StudyRecord, error) {
	var errs ValidationErrors
	p := StudyRecordParams{
		Level:       parseValue(&errs, "level", NewEducationLevel, d.Level),
		Degree:      d.Degree,
		Institution: d.Institution,
		InProgress:  d.InProgress,
	}
	p.StartDate, _ = parseDateField(&errs, "start_date", d.StartDate)
	p.GraduationDate, _ = parseOptionalDateField(&errs, "graduation_date", d.GraduationDate)
	r := buildStudyRecord(&errs, p)
	if len(errs) > 0 {
		return StudyRecord{}, errs
	}
	return r, nil
}

func buildStudyRecord(errs *ValidationErrors, p StudyRecordParams) StudyRecord {
	errs.require("level", p.Level.IsZero())
	r := StudyRecord{
		level:       p.Level,
		degree:      requiredText(errs, "degree", p.Degree, 100),
		institution: requiredText(errs, "institution", p.Institution, 100),
		startDate:   truncateDay(p.StartDate),
		inProgress:  p.InProgress,
	}
	if p.GraduationDate != nil {
		g := truncateDay(*p.GraduationDate)
		r.graduationDate = &g
	}

	hasStart := errs.require("start_date", p.StartDate.IsZero())
	if hasStart {
		checkNotFuture(errs, "start_date", r.startDate)
	}
	if r.graduationDate != nil {
		checkNotFuture(errs, "graduation_date", *r.graduationDate)
		if hasStart && !r.graduationDate.After(r.startDate) {
			errs.Add(KindCrossFieldViolation, "graduation_date", "must be after the start date")
		}
	}

	switch {
	case r.inProgress && r.graduationDate != nil:
		errs.Add(KindCrossFieldViolation, "graduation_date", "a study in progress cannot have a graduation date")
	case !r.inProgress && r.graduationDate == nil && !errs.hasField("graduation_date"):
		errs.Add(KindCrossFieldViolation, "graduation_date", "a completed study must have a graduation date")
	}
	return r
}

func (s StudyRecord) Level() EducationLevel { return s.level }
func (s StudyRecord) Degree() string        { return s.degree }
func (s StudyRecord) Institution() string   { return s.institution }
func (s StudyRecord) StartDate() time.Time  { return s.startDate }
func (s StudyRecord) InProgress() bool      { return s.inProgress }
func (s StudyRecord) IsCompleted() bool     { return !s.inProgress }

func (s StudyRecord) GraduationDate() (time.Time, bool) {
	if s.graduationDate == nil {
		return time.Time{}, false
	}
	return *s.graduationDate, true
}

// DurationYears counts whole years from start to graduation, or to today while in progress
func (s StudyRecord) DurationYears() int {
	end := today()
	if s.graduationDate != nil {
		end = *s.graduationDate
	}
	return AgeAt(s.startDate, end)
}

// YearsSinceGraduation reports false for studies without a graduation date
func (s StudyRecord) YearsSinceGraduation() (int, bool) {
	if s.graduationDate == nil {
		return 0, false
	}
	return AgeAt(*s.graduationDate, today()), true
}

func (s StudyRecord) ToData() StudyRecordData {
	return StudyRecordData{
		Level:          s.level.String(),
		Degree:         s.degree,
		Institution:    s.institution,
		StartDate:      FormatDate(s.startDate),
		GraduationDate: formatOptionalDate(s.graduationDate),
		InProgress:     s.inProgress,
	}
}

func (s StudyRecord) key() string {
	return strings.ToUpper(s.institution) + "\x00" + strings.ToUpper(s.degree)
}

// AcademicInfoData is the raw form of the academic step
type AcademicInfoData struct {
	CurrentlyStudying bool              `json:"currently_studying" bson:"currently_studying"`
	Studies           []StudyRecordData `json:"studies" bson:"studies"`
}

type AcademicInfoParams struct {
	CurrentlyStudying bool
	Studies           []StudyRecord
}

// AcademicInfo is the employee's education history
type AcademicInfo struct {
	currentlyStudying bool
	studies           []StudyRecord
}

func NewAcademicInfo(p AcademicInfoParams) (AcademicInfo, error) {
	var errs ValidationErrors
	info := buildAcademicInfo(&errs, p, len(p.Studies))
	if len(errs) > 0 {
		return AcademicInfo{}, errs
	}
	return info, nil
}

func (d AcademicInfoData) Build() (AcademicInfo, error) {
	var errs ValidationErrors
	p := AcademicInfoParams{CurrentlyStudying: d.CurrentlyStudying}
	for i, raw := range d.Studies {
		r, err := raw.Build()
		if err != nil {
			errs.Merge(fmt.Sprintf("studies[%d]", i), err)
			continue
		}
		p.Studies = append(p.Studies, r)
	}
	info := buildAcademicInfo(&errs, p, len(d.Studies))
	if len(errs) > 0 {
		return AcademicInfo{}, errs
	}
	return info, nil
}

func (AcademicInfoData) Step() Step     { return StepAcademic }
func (AcademicInfoData) isStepPayload() {}

func buildAcademicInfo(errs *ValidationErrors, p AcademicInfoParams, submitted int) AcademicInfo {
	if submitted > MaxStudyRecords {
		errs.Add(KindCapacityExceeded, "studies", fmt.Sprintf("cannot register more than %d studies", MaxStudyRecords))
	}
	seen := make(map[string]bool, len(p.Studies))
	for i, s := range p.Studies {
		if seen[s.key()] {
			errs.Add(KindDuplicateEntry, fmt.Sprintf("studies[%d]", i),
				fmt.Sprintf("degree %q at %q is already registered", s.degree, s.institution))
			continue
		}
		seen[s.key()] = true
	}
	return AcademicInfo{
		currentlyStudying: p.CurrentlyStudying,
		studies:           append([]StudyRecord(nil), p.Studies...),
	}
}

func (a AcademicInfo) CurrentlyStudying() bool { return a.currentlyStudying }

func (a AcademicInfo) Studies() []StudyRecord {
	return append([]StudyRecord(nil), a.studies...)
}

func (a AcademicInfo) Completed() []StudyRecord {
	var out []StudyRecord
	for _, s := range a.studies {
		if s.IsCompleted() {
			out = append(out, s)
		}
	}
	return out
}

func (a AcademicInfo) InProgress() []StudyRecord {
	var out []StudyRecord
	for _, s := range a.studies {
		if s.inProgress {
			out = append(out, s)
		}
	}
	return out
}

// HighestLevel returns the top level among completed studies
func (a AcademicInfo) HighestLevel() (EducationLevel, bool) {
	var best EducationLevel
	for _, s := range a.studies {
		if s.IsCompleted() && s.level.Compare(best) > 0 {
			best = s.level
		}
	}
	return best, !best.IsZero()
}

func (a AcademicInfo) ToData() AcademicInfoData {
	d := AcademicInfoData{
		CurrentlyStudying: a.currentlyStudying,
		Studies:           make([]StudyRecordData, len(a.studies)),
	}
	for i, s := range a.studies {
		d.Studies[i] = s.ToData()
	}
	return d
}
