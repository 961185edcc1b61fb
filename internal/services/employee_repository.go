package services

import (
	"context"
	"strings"
	"time"

	"github.com/hr-portal/app-employee-data/internal/models"
)

// EmployeeRepository is the persistence port of the employee aggregate.
//
// Update must fail with models.ErrEmployeeNotFound when the record is absent
// and with utils.OptimisticLockError when the stored version differs from the
// version carried by the employee. On success the employee is stamped with its
// new version and timestamps.
type EmployeeRepository interface {
	FindByDocument(ctx context.Context, doc models.DocumentNumber) (*models.Employee, error)
	Save(ctx context.Context, e *models.Employee) error
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, doc models.DocumentNumber) error
	FindAll(ctx context.Context) ([]*models.Employee, error)
	FindByDepartment(ctx context.Context, department string) ([]*models.Employee, error)
	FindByTitle(ctx context.Context, title string) ([]*models.Employee, error)
	FindIncomplete(ctx context.Context) ([]*models.Employee, error)
	FindWithVehicle(ctx context.Context) ([]*models.Employee, error)
	FindWithDependents(ctx context.Context) ([]*models.Employee, error)
	// FindNotUpdatedSince lists employees whose last stored change is at or before cutoff
	FindNotUpdatedSince(ctx context.Context, cutoff time.Time) ([]*models.Employee, error)
	Exists(ctx context.Context, doc models.DocumentNumber) (bool, error)
	IsDocumentUnique(ctx context.Context, doc models.DocumentNumber) (bool, error)
}

// EmployeeQuery selects employees for listing. Zero fields do not filter.
type EmployeeQuery struct {
	Department string
	Title      string
	Filter     EmployeeFilter
	// At is the instant update deadlines are measured against, now when zero
	At time.Time
	// DueWithinDays is the FilterDueSoon window, DefaultDueSoonDays when zero
	DueWithinDays int
}

// DefaultDueSoonDays is the window used when a query does not set one
const DefaultDueSoonDays = 30

// EmployeeFilter names the predefined repository filters
type EmployeeFilter string

const (
	FilterNone       EmployeeFilter = ""
	FilterIncomplete EmployeeFilter = "incomplete"
	FilterVehicle    EmployeeFilter = "vehicle"
	FilterDependents EmployeeFilter = "dependents"
	FilterOverdue    EmployeeFilter = "overdue"
	FilterDueSoon    EmployeeFilter = "due_soon"
)

// ParseEmployeeFilter accepts the filter names used by the HTTP query string
func ParseEmployeeFilter(raw string) (EmployeeFilter, bool) {
	switch f := EmployeeFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case FilterNone, FilterIncomplete, FilterVehicle, FilterDependents, FilterOverdue, FilterDueSoon:
		return f, true
	}
	return FilterNone, false
}

// FindEmployees runs q against repo. The repository call is picked by the most
// selective criterion and the remaining criteria filter the result.
func FindEmployees(ctx context.Context, repo EmployeeRepository, q EmployeeQuery) ([]*models.Employee, error) {
	q = q.withDefaults()
	var (
		employees []*models.Employee
		err       error
	)
	switch {
	case q.Department != "":
		employees, err = repo.FindByDepartment(ctx, q.Department)
	case q.Title != "":
		employees, err = repo.FindByTitle(ctx, q.Title)
	case q.Filter == FilterIncomplete:
		employees, err = repo.FindIncomplete(ctx)
	case q.Filter == FilterVehicle:
		employees, err = repo.FindWithVehicle(ctx)
	case q.Filter == FilterDependents:
		employees, err = repo.FindWithDependents(ctx)
	case q.Filter == FilterOverdue:
		employees, err = repo.FindNotUpdatedSince(ctx, q.At.AddDate(-models.UpdateIntervalYears, 0, 0))
	case q.Filter == FilterDueSoon:
		employees, err = repo.FindNotUpdatedSince(ctx, q.At.AddDate(-models.UpdateIntervalYears, 0, q.DueWithinDays))
	default:
		employees, err = repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	matched := employees[:0]
	for _, e := range employees {
		if q.matches(e) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (q EmployeeQuery) matches(e *models.Employee) bool {
	p := e.PersonalInfo()
	if q.Department != "" && p.Department() != strings.TrimSpace(q.Department) {
		return false
	}
	if q.Title != "" && p.JobTitle() != strings.TrimSpace(q.Title) {
		return false
	}
	switch q.Filter {
	case FilterIncomplete:
		return !e.IsComplete()
	case FilterVehicle:
		return e.HasVehicle()
	case FilterDependents:
		return e.HasDependents()
	case FilterOverdue:
		return e.IsOverdue(q.At)
	case FilterDueSoon:
		return e.DueWithin(q.At, q.DueWithinDays)
	}
	return true
}

func (q EmployeeQuery) withDefaults() EmployeeQuery {
	if q.At.IsZero() {
		q.At = time.Now().UTC()
	}
	if q.DueWithinDays <= 0 {
		q.DueWithinDays = DefaultDueSoonDays
	}
	return q
}
