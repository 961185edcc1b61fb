package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/utils"
)

// MemoryEmployeeRepository keeps employees in process memory. Stored values are
// clones, so callers never share state with the map.
type MemoryEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]*models.Employee
	now       func() time.Time
}

var _ EmployeeRepository = (*MemoryEmployeeRepository)(nil)

// NewMemoryEmployeeRepository creates an empty in-memory repository
func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{
		employees: make(map[string]*models.Employee),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryEmployeeRepository) FindByDocument(ctx context.Context, doc models.DocumentNumber) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[doc.String()]
	if !ok {
		return nil, models.ErrEmployeeNotFound
	}
	return e.Clone(), nil
}

func (r *MemoryEmployeeRepository) Save(ctx context.Context, e *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := e.Document().String()
	if _, ok := r.employees[key]; ok {
		return models.ErrEmployeeExists
	}
	e.MarkPersisted(1, r.now())
	r.employees[key] = e.Clone()
	return nil
}

// Update replaces the stored employee when its version matches e.Version()
func (r *MemoryEmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := e.Document().String()
	stored, ok := r.employees[key]
	if !ok {
		return models.ErrEmployeeNotFound
	}
	if stored.Version() != e.Version() {
		return utils.OptimisticLockError{
			Resource: "employees",
			Message:  fmt.Sprintf("expected version %d, but document has version %d", e.Version(), stored.Version()),
		}
	}
	e.MarkPersisted(stored.Version()+1, r.now())
	r.employees[key] = e.Clone()
	return nil
}

func (r *MemoryEmployeeRepository) Delete(ctx context.Context, doc models.DocumentNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[doc.String()]; !ok {
		return models.ErrEmployeeNotFound
	}
	delete(r.employees, doc.String())
	return nil
}

func (r *MemoryEmployeeRepository) FindAll(ctx context.Context) ([]*models.Employee, error) {
	return r.filter(func(*models.Employee) bool { return true }), nil
}

func (r *MemoryEmployeeRepository) FindByDepartment(ctx context.Context, department string) ([]*models.Employee, error) {
	return r.filter(func(e *models.Employee) bool {
		return e.PersonalInfo().Department() == strings.TrimSpace(department)
	}), nil
}

func (r *MemoryEmployeeRepository) FindByTitle(ctx context.Context, title string) ([]*models.Employee, error) {
	return r.filter(func(e *models.Employee) bool {
		return e.PersonalInfo().JobTitle() == strings.TrimSpace(title)
	}), nil
}

func (r *MemoryEmployeeRepository) FindIncomplete(ctx context.Context) ([]*models.Employee, error) {
	return r.filter(func(e *models.Employee) bool { return !e.IsComplete() }), nil
}

func (r *MemoryEmployeeRepository) FindWithVehicle(ctx context.Context) ([]*models.Employee, error) {
	return r.filter((*models.Employee).HasVehicle), nil
}

func (r *MemoryEmployeeRepository) FindWithDependents(ctx context.Context) ([]*models.Employee, error) {
	return r.filter((*models.Employee).HasDependents), nil
}

func (r *MemoryEmployeeRepository) FindNotUpdatedSince(ctx context.Context, cutoff time.Time) ([]*models.Employee, error) {
	return r.filter(func(e *models.Employee) bool { return !e.UpdatedAt().After(cutoff) }), nil
}

func (r *MemoryEmployeeRepository) Exists(ctx context.Context, doc models.DocumentNumber) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.employees[doc.String()]
	return ok, nil
}

func (r *MemoryEmployeeRepository) IsDocumentUnique(ctx context.Context, doc models.DocumentNumber) (bool, error) {
	exists, err := r.Exists(ctx, doc)
	return !exists, err
}

// filter returns clones of the matching employees ordered by document number
func (r *MemoryEmployeeRepository) filter(keep func(*models.Employee) bool) []*models.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Document().String() < out[j].Document().String()
	})
	return out
}
