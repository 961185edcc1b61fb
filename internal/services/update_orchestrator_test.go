package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/observability"
	"github.com/hr-portal/app-employee-data/internal/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrolled(t *testing.T, o *UpdateOrchestrator) *models.Employee {
	t.Helper()
	e, err := o.Enroll(context.Background(), personalData(testDocument))
	require.NoError(t, err)
	return e
}

func requireValidation(t *testing.T, err error) models.ValidationErrors {
	t.Helper()
	var errs models.ValidationErrors
	require.True(t, errors.As(err, &errs), "expected ValidationErrors, got %v", err)
	return errs
}

func fields(errs models.ValidationErrors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEmployeeRepository()
	o := newTestOrchestrator(repo, OrchestratorOptions{})

	e := enrolled(t, o)
	assert.Equal(t, testDocument, e.Document().String())
	assert.Equal(t, int64(1), e.Version())
	assert.Equal(t, 17, CalculateProgress(e))

	t.Run("duplicate document", func(t *testing.T) {
		_, err := o.Enroll(ctx, personalData(testDocument))
		assert.ErrorIs(t, err, models.ErrEmployeeExists)
	})

	t.Run("invalid personal info", func(t *testing.T) {
		data := personalData("12")
		data.BloodType = "Z"
		_, err := o.Enroll(ctx, data)
		errs := requireValidation(t, err)
		assert.Contains(t, fields(errs), "document_number")
		assert.Contains(t, fields(errs), "blood_type")
	})
}

func TestApplyStep_ProgressAndCompleteness(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})
	enrolled(t, o)

	steps := []struct {
		payload  models.StepPayload
		progress int
		complete bool
	}{
		{vehicleData(), 33, false},
		{contactData(), 50, false},
		{housingData(), 67, true},
		{models.DependentsData{Dependents: []models.DependentData{childData("1122334455")}}, 83, true},
	}
	for i, s := range steps {
		result, err := o.ApplyStep(ctx, testDocument, s.payload)
		require.NoError(t, err, "step %s", s.payload.Step())
		assert.Equal(t, s.payload.Step(), result.Step)
		assert.Equal(t, s.progress, result.Progress)
		assert.Equal(t, s.complete, result.Complete)
		assert.Equal(t, int64(i+2), result.Version)
	}

	e, err := o.GetEmployee(ctx, testDocument)
	require.NoError(t, err)
	assert.True(t, e.IsComplete())
	assert.True(t, e.HasVehicle())
	assert.Equal(t, 83, o.CalculateProgress(e))
}

func TestApplyStep_SectionsOverwrite(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})
	enrolled(t, o)

	_, err := o.ApplyStep(ctx, testDocument, vehicleData())
	require.NoError(t, err)
	_, err = o.ApplyStep(ctx, testDocument, models.VehicleInfoData{HasVehicle: false})
	require.NoError(t, err)

	e, err := o.GetEmployee(ctx, testDocument)
	require.NoError(t, err)
	info, ok := e.VehicleInfo()
	require.True(t, ok)
	assert.False(t, info.HasVehicle())
	assert.False(t, e.HasVehicle())
}

func TestApplyStep_Failures(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEmployeeRepository()
	o := newTestOrchestrator(repo, OrchestratorOptions{})
	enrolled(t, o)

	t.Run("unknown employee", func(t *testing.T) {
		_, err := o.ApplyStep(ctx, "9999999", contactData())
		assert.ErrorIs(t, err, models.ErrEmployeeNotFound)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := o.ApplyStep(ctx, "abc", contactData())
		errs := requireValidation(t, err)
		assert.Equal(t, []string{"document_number"}, fields(errs))
		assert.ErrorIs(t, err, models.ErrInvalidFormat)
	})

	t.Run("invalid section leaves record untouched", func(t *testing.T) {
		contact := contactData()
		contact.EmergencyContacts = nil
		_, err := o.ApplyStep(ctx, testDocument, contact)
		errs := requireValidation(t, err)
		assert.True(t, errs.HasKind(models.KindMissingRequiredField))

		e, err := repo.FindByDocument(ctx, models.MustDocumentNumber(testDocument))
		require.NoError(t, err)
		_, ok := e.ContactInfo()
		assert.False(t, ok)
		assert.Equal(t, int64(1), e.Version())
	})

	t.Run("personal info cannot change identity", func(t *testing.T) {
		_, err := o.ApplyStep(ctx, testDocument, personalData("5050505050"))
		errs := requireValidation(t, err)
		assert.True(t, errs.HasKind(models.KindCrossFieldViolation))
		assert.ErrorIs(t, err, models.ErrCrossFieldViolation)
	})

	t.Run("personal info update keeps identity", func(t *testing.T) {
		data := personalData(testDocument)
		data.JobTitle = "Senior Analyst"
		_, err := o.ApplyStep(ctx, testDocument, data)
		require.NoError(t, err)

		e, err := o.GetEmployee(ctx, testDocument)
		require.NoError(t, err)
		assert.Equal(t, "Senior Analyst", e.PersonalInfo().JobTitle())
	})

	t.Run("nil payload", func(t *testing.T) {
		_, err := o.ApplyStep(ctx, testDocument, nil)
		assert.ErrorIs(t, err, models.ErrUnknownStep)
	})
}

func TestApplyStep_Dependents(t *testing.T) {
	ctx := context.Background()

	t.Run("additive up to capacity", func(t *testing.T) {
		o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})
		enrolled(t, o)

		nine := make([]models.DependentData, 9)
		for i := range nine {
			nine[i] = childData("")
		}
		_, err := o.ApplyStep(ctx, testDocument, models.DependentsData{Dependents: nine})
		require.NoError(t, err)
		_, err = o.ApplyStep(ctx, testDocument, models.DependentsData{Dependents: []models.DependentData{childData("")}})
		require.NoError(t, err)

		_, err = o.ApplyStep(ctx, testDocument, models.DependentsData{Dependents: []models.DependentData{childData("")}})
		errs := requireValidation(t, err)
		assert.True(t, errs.HasKind(models.KindCapacityExceeded))

		e, err := o.GetEmployee(ctx, testDocument)
		require.NoError(t, err)
		assert.Len(t, e.Dependents(), models.MaxDependents)
	})

	t.Run("batch exceeding capacity is rejected whole", func(t *testing.T) {
		o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})
		enrolled(t, o)

		eleven := make([]models.DependentData, 11)
		for i := range eleven {
			eleven[i] = childData("")
		}
		_, err := o.ApplyStep(ctx, testDocument, models.DependentsData{Dependents: eleven})
		requireValidation(t, err)

		e, err := o.GetEmployee(ctx, testDocument)
		require.NoError(t, err)
		assert.False(t, e.HasDependents())
	})

	t.Run("plausibility warnings are soft by default", func(t *testing.T) {
		o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})
		enrolled(t, o)

		result, err := o.ApplyStep(ctx, testDocument, models.DependentsData{
			Dependents: []models.DependentData{childData("1122334455"), youngParentData()},
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, fields(result.Warnings), "dependents[1].birth_date")
	})

	t.Run("strict plausibility rejects", func(t *testing.T) {
		o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{StrictPlausibility: true})
		enrolled(t, o)

		_, err := o.ApplyStep(ctx, testDocument, models.DependentsData{
			Dependents: []models.DependentData{youngParentData()},
		})
		errs := requireValidation(t, err)
		assert.True(t, errs.HasKind(models.KindCrossFieldViolation))

		e, err := o.GetEmployee(ctx, testDocument)
		require.NoError(t, err)
		assert.False(t, e.HasDependents())
	})
}

func TestRemoveDependent(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})
	enrolled(t, o)

	_, err := o.ApplyStep(ctx, testDocument, models.DependentsData{
		Dependents: []models.DependentData{childData("1122334455"), childData(""), youngParentData()},
	})
	require.NoError(t, err)

	result, err := o.RemoveDependent(ctx, testDocument, "1122334455")
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Version)

	e, err := o.GetEmployee(ctx, testDocument)
	require.NoError(t, err)
	assert.Len(t, e.Dependents(), 2)

	t.Run("unknown dependent is a no-op", func(t *testing.T) {
		result, err := o.RemoveDependent(ctx, testDocument, "1234567")
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Version)
	})

	t.Run("malformed dependent document", func(t *testing.T) {
		_, err := o.RemoveDependent(ctx, testDocument, "x")
		errs := requireValidation(t, err)
		assert.Equal(t, []string{"dependent_document_number"}, fields(errs))
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := o.RemoveDependent(ctx, "9999999", "1122334455")
		assert.ErrorIs(t, err, models.ErrEmployeeNotFound)
	})
}

func TestApplyStep_SerializesPerIdentity(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})
	enrolled(t, o)

	const writers = models.MaxDependents
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.ApplyStep(ctx, testDocument, models.DependentsData{
				Dependents: []models.DependentData{childData("")},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	e, err := o.GetEmployee(ctx, testDocument)
	require.NoError(t, err)
	assert.Len(t, e.Dependents(), writers)
	assert.Equal(t, int64(1+writers), e.Version())
}

// conflictingRepository fails the first Update calls with a version conflict
type conflictingRepository struct {
	EmployeeRepository
	conflicts atomic.Int32
	calls     atomic.Int32
}

func (r *conflictingRepository) Update(ctx context.Context, e *models.Employee) error {
	r.calls.Add(1)
	if r.conflicts.Add(-1) >= 0 {
		return utils.OptimisticLockError{Resource: "employees", Message: "simulated"}
	}
	return r.EmployeeRepository.Update(ctx, e)
}

func TestApplyStep_RetriesVersionConflicts(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryEmployeeRepository()
	savedEmployee(t, inner, testDocument)

	t.Run("recovers", func(t *testing.T) {
		repo := &conflictingRepository{EmployeeRepository: inner}
		repo.conflicts.Store(1)
		o := newTestOrchestrator(repo, OrchestratorOptions{MaxRetries: 2})

		result, err := o.ApplyStep(ctx, testDocument, contactData())
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Version)
		assert.Equal(t, int32(2), repo.calls.Load())
	})

	t.Run("gives up", func(t *testing.T) {
		repo := &conflictingRepository{EmployeeRepository: inner}
		repo.conflicts.Store(5)
		o := newTestOrchestrator(repo, OrchestratorOptions{MaxRetries: 0})

		before := testutil.ToFloat64(observability.StepUpdates.WithLabelValues("3", "conflict"))
		_, err := o.ApplyStep(ctx, testDocument, housingData())
		assert.True(t, utils.IsOptimisticLockError(err))
		assert.Equal(t, int32(1), repo.calls.Load())
		assert.Equal(t, before+1, testutil.ToFloat64(observability.StepUpdates.WithLabelValues("3", "conflict")))
	})
}

func TestApplyStep_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})
	enrolled(t, o)

	success := observability.StepUpdates.WithLabelValues("4", "success")
	invalid := observability.StepUpdates.WithLabelValues("4", "validation_error")
	missing := observability.ValidationFailures.WithLabelValues(string(models.KindMissingRequiredField))
	beforeSuccess, beforeInvalid, beforeMissing := testutil.ToFloat64(success), testutil.ToFloat64(invalid), testutil.ToFloat64(missing)

	_, err := o.ApplyStep(ctx, testDocument, contactData())
	require.NoError(t, err)

	bad := contactData()
	bad.MobilePhone = ""
	_, err = o.ApplyStep(ctx, testDocument, bad)
	require.Error(t, err)

	assert.Equal(t, beforeSuccess+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeInvalid+1, testutil.ToFloat64(invalid))
	assert.GreaterOrEqual(t, testutil.ToFloat64(missing), beforeMissing+1)
}

func TestValidateFullUpdate(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})

	t.Run("not stored", func(t *testing.T) {
		errs, err := o.ValidateFullUpdate(ctx, newEmployee(t, "8080808"))
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, models.KindNotFound, errs[0].Kind)
	})

	enrolled(t, o)

	t.Run("missing sections", func(t *testing.T) {
		e, err := o.GetEmployee(ctx, testDocument)
		require.NoError(t, err)
		errs, err := o.ValidateFullUpdate(ctx, e)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"contact_info", "housing_info"}, fields(errs))
	})

	t.Run("complete record", func(t *testing.T) {
		_, err := o.ApplyStep(ctx, testDocument, contactData())
		require.NoError(t, err)
		_, err = o.ApplyStep(ctx, testDocument, housingData())
		require.NoError(t, err)

		e, err := o.GetEmployee(ctx, testDocument)
		require.NoError(t, err)
		errs, err := o.ValidateFullUpdate(ctx, e)
		require.NoError(t, err)
		assert.Empty(t, errs)
	})
}

func TestCalculateProgress(t *testing.T) {
	e := newEmployee(t, testDocument)
	assert.Equal(t, 17, CalculateProgress(e))

	contact, err := contactData().Build()
	require.NoError(t, err)
	e.SetContactInfo(contact)
	assert.Equal(t, 33, CalculateProgress(e))

	housing, err := housingData().Build()
	require.NoError(t, err)
	e.SetHousingInfo(housing)
	vehicle, err := vehicleData().Build()
	require.NoError(t, err)
	e.SetVehicleInfo(vehicle)
	academic, err := models.AcademicInfoData{}.Build()
	require.NoError(t, err)
	e.SetAcademicInfo(academic)
	assert.Equal(t, 83, CalculateProgress(e))

	dep, err := childData("").Build()
	require.NoError(t, err)
	require.NoError(t, e.AddDependent(dep))
	assert.Equal(t, 100, CalculateProgress(e))

	e.RemoveDependent(models.MustDocumentNumber("1122334455"))
	assert.True(t, e.HasDependents(), "dependents without a document cannot be removed by document")
}

func conflictData() models.ConflictDeclarationData {
	return models.ConflictDeclarationData{
		HasConflict: true,
		Persons: []models.ConflictPersonData{
			{FullName: "Carlos Rojas", Relationship: "BROTHER", InterestedParty: "SUPPLIER"},
		},
	}
}

func TestDeclareConflicts(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(NewMemoryEmployeeRepository(), OrchestratorOptions{})
	enrolled(t, o)

	success := observability.StepUpdates.WithLabelValues("conflict_declaration", "success")
	before := testutil.ToFloat64(success)

	e, err := o.DeclareConflicts(ctx, testDocument, conflictData())
	require.NoError(t, err)
	assert.Equal(t, int64(2), e.Version())
	assert.Equal(t, 17, CalculateProgress(e), "the declaration is not a step")
	assert.Equal(t, before+1, testutil.ToFloat64(success))

	stored, err := o.GetEmployee(ctx, testDocument)
	require.NoError(t, err)
	d, ok := stored.ConflictDeclaration()
	require.True(t, ok)
	assert.True(t, d.HasConflict())
	require.Len(t, d.Persons(), 1)
	assert.Equal(t, "SUPPLIER", d.Persons()[0].InterestedParty().String())

	t.Run("withdrawing the conflict replaces the declaration", func(t *testing.T) {
		e, err := o.DeclareConflicts(ctx, testDocument, models.ConflictDeclarationData{})
		require.NoError(t, err)
		d, ok := e.ConflictDeclaration()
		require.True(t, ok)
		assert.False(t, d.HasConflict())
		assert.Empty(t, d.Persons())
	})

	t.Run("invalid declaration leaves the record untouched", func(t *testing.T) {
		_, err := o.DeclareConflicts(ctx, testDocument, models.ConflictDeclarationData{HasConflict: true})
		errs := requireValidation(t, err)
		assert.Equal(t, []string{"conflict_declaration.persons"}, fields(errs))

		stored, err := o.GetEmployee(ctx, testDocument)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stored.Version())
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := o.DeclareConflicts(ctx, "9999999", conflictData())
		assert.ErrorIs(t, err, models.ErrEmployeeNotFound)
	})

	t.Run("later steps keep the declaration", func(t *testing.T) {
		_, err := o.DeclareConflicts(ctx, testDocument, conflictData())
		require.NoError(t, err)
		_, err = o.ApplyStep(ctx, testDocument, contactData())
		require.NoError(t, err)

		stored, err := o.GetEmployee(ctx, testDocument)
		require.NoError(t, err)
		d, ok := stored.ConflictDeclaration()
		require.True(t, ok)
		assert.True(t, d.HasConflict())
	})
}
