package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/observability"
	"github.com/hr-portal/app-employee-data/internal/utils"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// StepResult describes the employee record after a successful step
type StepResult struct {
	Document string                  `json:"document_number"`
	Step     models.Step             `json:"step"`
	StepName string                  `json:"step_name"`
	Progress int                     `json:"progress"`
	Complete bool                    `json:"complete"`
	Version  int64                   `json:"version"`
	Warnings models.ValidationErrors `json:"warnings,omitempty"`
}

// OrchestratorOptions tunes the update protocol
type OrchestratorOptions struct {
	// MaxRetries bounds the retries after a version conflict
	MaxRetries int
	// StrictPlausibility turns dependent plausibility warnings into errors
	StrictPlausibility bool
}

// UpdateOrchestrator applies step updates to employees. Each update runs under
// a per-identity lock against a clone of the stored employee and becomes
// visible only when the repository accepts it.
type UpdateOrchestrator struct {
	repo   EmployeeRepository
	locker IdentityLocker
	opts   OrchestratorOptions
	logger *logging.SafeLogger
}

// NewUpdateOrchestrator wires an orchestrator. A nil locker falls back to an
// in-process one.
func NewUpdateOrchestrator(repo EmployeeRepository, locker IdentityLocker, opts OrchestratorOptions, logger *logging.SafeLogger) *UpdateOrchestrator {
	if locker == nil {
		locker = NewLocalIdentityLocker()
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &UpdateOrchestrator{
		repo:   repo,
		locker: locker,
		opts:   opts,
		logger: logger.Named("update_orchestrator"),
	}
}

// Enroll creates an employee holding only personal information
func (o *UpdateOrchestrator) Enroll(ctx context.Context, data models.PersonalInfoData) (*models.Employee, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "employee.enroll", nil)
	defer cleanup()

	personal, err := data.Build()
	if err != nil {
		o.recordValidation(span, err)
		return nil, err
	}
	doc := personal.Document()
	masked := observability.MaskDocument(doc.String())
	utils.AddSpanAttribute(span, "employee.document", masked)

	unique, err := o.repo.IsDocumentUnique(ctx, doc)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "is_document_unique"})
		return nil, fmt.Errorf("failed to check document uniqueness: %w", err)
	}
	if !unique {
		return nil, models.ErrEmployeeExists
	}

	e, err := models.NewEmployee(personal)
	if err != nil {
		o.recordValidation(span, err)
		return nil, err
	}
	if err := o.repo.Save(ctx, e); err != nil {
		if !errors.Is(err, models.ErrEmployeeExists) {
			utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "save"})
		}
		return nil, err
	}

	o.logger.Info("employee enrolled", zap.String("document_number", masked))
	return e, nil
}

// GetEmployee looks up an employee by its raw document number
func (o *UpdateOrchestrator) GetEmployee(ctx context.Context, rawDoc string) (*models.Employee, error) {
	doc, err := parseDocument(rawDoc)
	if err != nil {
		return nil, err
	}
	return o.repo.FindByDocument(ctx, doc)
}

// ApplyStep validates payload and stores it as the matching section.
// Sections 1 to 5 are replaced; dependents are appended.
func (o *UpdateOrchestrator) ApplyStep(ctx context.Context, rawDoc string, payload models.StepPayload) (*StepResult, error) {
	if payload == nil {
		return nil, models.ErrUnknownStep
	}
	step := payload.Step()

	ctx, span, cleanup := utils.TraceOperation(ctx, "employee.apply_step", map[string]interface{}{
		"step.number": int(step),
		"step.name":   step.String(),
	})
	defer cleanup()

	e, warnings, err := o.mutate(ctx, span, rawDoc, step.String(), func(e *models.Employee) (models.ValidationErrors, error) {
		return o.apply(e, payload)
	})
	o.recordStep(step, err)
	if err != nil {
		return nil, err
	}
	result := o.result(e, step, warnings)
	observability.UpdateProgress.Observe(float64(result.Progress))
	return result, nil
}

// RemoveDependent drops the dependents with the given document number.
// Removing an unknown dependent leaves the record untouched.
func (o *UpdateOrchestrator) RemoveDependent(ctx context.Context, rawDoc, rawDependentDoc string) (*StepResult, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "employee.remove_dependent", nil)
	defer cleanup()

	dependentDoc, err := models.NewDocumentNumber(rawDependentDoc)
	if err != nil {
		var errs models.ValidationErrors
		errs.Merge("dependent_document_number", err)
		o.recordValidation(span, errs)
		return nil, errs
	}

	e, _, err := o.mutate(ctx, span, rawDoc, models.StepDependents.String(), func(e *models.Employee) (models.ValidationErrors, error) {
		before := len(e.Dependents())
		e.RemoveDependent(dependentDoc)
		if len(e.Dependents()) == before {
			return nil, errUnchanged
		}
		return nil, nil
	})
	o.recordStep(models.StepDependents, err)
	if err != nil {
		return nil, err
	}
	return o.result(e, models.StepDependents, nil), nil
}

// DeclareConflicts replaces the conflict-of-interest declaration. It is
// stored beside the steps and leaves progress unchanged.
func (o *UpdateOrchestrator) DeclareConflicts(ctx context.Context, rawDoc string, data models.ConflictDeclarationData) (*models.Employee, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "employee.declare_conflicts", map[string]interface{}{
		"conflict.has_conflict": data.HasConflict,
		"conflict.persons":      len(data.Persons),
	})
	defer cleanup()

	e, _, err := o.mutate(ctx, span, rawDoc, conflictDeclarationSection, func(e *models.Employee) (models.ValidationErrors, error) {
		declaration, err := data.Build()
		if err != nil {
			var errs models.ValidationErrors
			errs.Merge("conflict_declaration", err)
			return nil, errs
		}
		e.SetConflictDeclaration(declaration)
		return nil, nil
	})
	observability.StepUpdates.WithLabelValues(conflictDeclarationSection, stepStatus(err)).Inc()
	if err != nil {
		return nil, err
	}
	return e, nil
}

const conflictDeclarationSection = "conflict_declaration"

var errUnchanged = errors.New("unchanged")

// mutate runs change on a clone of the stored employee under the identity lock
// and persists it, retrying on version conflicts. section names the change in
// logs and spans.
func (o *UpdateOrchestrator) mutate(ctx context.Context, span trace.Span, rawDoc, section string, change func(*models.Employee) (models.ValidationErrors, error)) (*models.Employee, models.ValidationErrors, error) {
	doc, err := parseDocument(rawDoc)
	if err != nil {
		o.recordValidation(span, err)
		return nil, nil, err
	}
	masked := observability.MaskDocument(doc.String())
	utils.AddSpanAttribute(span, "employee.document", masked)

	unlock, err := o.locker.Lock(ctx, doc)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "lock"})
		return nil, nil, err
	}
	defer unlock()

	var (
		stored   *models.Employee
		warnings models.ValidationErrors
	)
	err = utils.RetryWithOptimisticLock(ctx, o.opts.MaxRetries, func() error {
		current, err := o.repo.FindByDocument(ctx, doc)
		if err != nil {
			return err
		}

		next := current.Clone()
		w, err := change(next)
		if errors.Is(err, errUnchanged) {
			stored, warnings = current, nil
			return nil
		}
		if err != nil {
			return err
		}
		if err := o.repo.Update(ctx, next); err != nil {
			return err
		}
		stored, warnings = next, w
		return nil
	})
	if err != nil {
		var verrs models.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			o.recordValidation(span, verrs)
		case errors.Is(err, models.ErrEmployeeNotFound):
			utils.AddSpanAttribute(span, "employee.found", false)
		default:
			utils.RecordErrorInSpan(span, err, map[string]interface{}{"step": section})
			o.logger.Warn("employee update failed",
				zap.String("document_number", masked),
				zap.String("step", section),
				zap.Error(err))
		}
		return nil, nil, err
	}

	o.logger.Debug("employee step applied",
		zap.String("document_number", masked),
		zap.String("step", section),
		zap.Int64("version", stored.Version()),
		zap.Int("progress", CalculateProgress(stored)))
	return stored, warnings, nil
}

// apply builds the section carried by payload and sets it on e
func (o *UpdateOrchestrator) apply(e *models.Employee, payload models.StepPayload) (models.ValidationErrors, error) {
	switch p := payload.(type) {
	case models.PersonalInfoData:
		info, err := p.Build()
		if err != nil {
			return nil, err
		}
		return nil, e.SetPersonalInfo(info)
	case models.VehicleInfoData:
		info, err := p.Build()
		if err != nil {
			return nil, err
		}
		e.SetVehicleInfo(info)
	case models.HousingInfoData:
		info, err := p.Build()
		if err != nil {
			return nil, err
		}
		e.SetHousingInfo(info)
	case models.ContactInfoData:
		info, err := p.Build()
		if err != nil {
			return nil, err
		}
		e.SetContactInfo(info)
	case models.AcademicInfoData:
		info, err := p.Build()
		if err != nil {
			return nil, err
		}
		e.SetAcademicInfo(info)
	case models.DependentsData:
		return o.addDependents(e, p)
	default:
		return nil, fmt.Errorf("%w: %T", models.ErrUnknownStep, payload)
	}
	return nil, nil
}

func (o *UpdateOrchestrator) addDependents(e *models.Employee, p models.DependentsData) (models.ValidationErrors, error) {
	dependents, err := p.Build()
	if err != nil {
		return nil, err
	}

	var warnings models.ValidationErrors
	for i, d := range dependents {
		warnings.Merge(fmt.Sprintf("dependents[%d]", i), d.PlausibilityWarnings().OrNil())
	}
	if o.opts.StrictPlausibility && len(warnings) > 0 {
		return nil, warnings
	}

	for _, d := range dependents {
		if err := e.AddDependent(d); err != nil {
			return nil, err
		}
	}
	return warnings, nil
}

// CalculateProgress see the package function of the same name
func (o *UpdateOrchestrator) CalculateProgress(e *models.Employee) int {
	return CalculateProgress(e)
}

// CalculateProgress returns the share of the six sections present, in percent
func CalculateProgress(e *models.Employee) int {
	completed := len(e.CompletedSteps())
	return int(math.Round(float64(completed) / float64(models.TotalSteps) * 100))
}

// ValidateFullUpdate checks that e is stored and carries every mandatory
// section. Repository failures are returned as error.
func (o *UpdateOrchestrator) ValidateFullUpdate(ctx context.Context, e *models.Employee) (models.ValidationErrors, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "employee.validate_full_update", nil)
	defer cleanup()

	if _, err := o.repo.FindByDocument(ctx, e.Document()); err != nil {
		if errors.Is(err, models.ErrEmployeeNotFound) {
			errs := models.ValidationErrors{models.NewValidationError(models.KindNotFound, "document_number", "employee is not registered")}
			o.recordValidation(span, errs)
			return errs, nil
		}
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "find"})
		return nil, err
	}

	errs := e.Validate()
	if contact, ok := e.ContactInfo(); ok && !contact.HasEmergencyContacts() {
		errs.Add(models.KindMissingRequiredField, "contact_info.emergency_contacts", "must register at least one emergency contact")
	}
	if len(errs) > 0 {
		o.recordValidation(span, errs)
	}
	return errs, nil
}

func (o *UpdateOrchestrator) result(e *models.Employee, step models.Step, warnings models.ValidationErrors) *StepResult {
	return &StepResult{
		Document: e.Document().String(),
		Step:     step,
		StepName: step.String(),
		Progress: CalculateProgress(e),
		Complete: e.IsComplete(),
		Version:  e.Version(),
		Warnings: warnings,
	}
}

func (o *UpdateOrchestrator) recordValidation(span trace.Span, err error) {
	var errs models.ValidationErrors
	if !errors.As(err, &errs) {
		errs.Merge("", err)
	}
	for _, e := range errs {
		observability.ValidationFailures.WithLabelValues(string(e.Kind)).Inc()
	}
	utils.AddSpanAttribute(span, "validation.error_count", len(errs))
}

func (o *UpdateOrchestrator) recordStep(step models.Step, err error) {
	observability.StepUpdates.WithLabelValues(strconv.Itoa(int(step)), stepStatus(err)).Inc()
}

func stepStatus(err error) string {
	var verrs models.ValidationErrors
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &verrs):
		return "validation_error"
	case errors.Is(err, models.ErrEmployeeNotFound):
		return "not_found"
	case utils.IsOptimisticLockError(err), errors.Is(err, ErrIdentityLocked):
		return "conflict"
	}
	return "error"
}

// parseDocument turns a raw identity into a DocumentNumber, reporting
// failures as ValidationErrors
func parseDocument(raw string) (models.DocumentNumber, error) {
	doc, err := models.NewDocumentNumber(raw)
	if err != nil {
		var errs models.ValidationErrors
		errs.Merge("document_number", err)
		return models.DocumentNumber{}, errs
	}
	return doc, nil
}
