package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/observability"
	"github.com/hr-portal/app-employee-data/internal/services"
	"github.com/hr-portal/app-employee-data/internal/utils"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string                   `json:"error"`
	Details []models.ValidationError `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// EmployeeResponse is the projection of a stored employee
type EmployeeResponse struct {
	Employee       models.EmployeeData   `json:"employee"`
	Progress       int                   `json:"progress"`
	Complete       bool                  `json:"complete"`
	CompletedSteps []string              `json:"completed_steps"`
	UpdateControl  UpdateControlResponse `json:"update_control"`
}

// UpdateControlResponse is the annual update state of an employee
type UpdateControlResponse struct {
	Status          models.UpdateStatus `json:"status"`
	NeedsUpdate     bool                `json:"needs_update"`
	NextUpdateDue   *time.Time          `json:"next_update_due,omitempty"`
	DaysUntilUpdate int                 `json:"days_until_update"`
}

// ProgressResponse summarizes how much of the record is filled in
type ProgressResponse struct {
	DocumentNumber string   `json:"document_number"`
	Progress       int      `json:"progress"`
	Complete       bool     `json:"complete"`
	CompletedSteps []string `json:"completed_steps"`
	PendingSteps   []string `json:"pending_steps"`
}

// ValidationResponse is the result of a full-update validation
type ValidationResponse struct {
	DocumentNumber string                   `json:"document_number"`
	Valid          bool                     `json:"valid"`
	Errors         []models.ValidationError `json:"errors"`
}

// EmployeeListResponse lists employees matching a query
type EmployeeListResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	Total     int                `json:"total"`
}

func newEmployeeResponse(e *models.Employee) EmployeeResponse {
	return EmployeeResponse{
		Employee:       e.ToData(),
		Progress:       services.CalculateProgress(e),
		Complete:       e.IsComplete(),
		CompletedSteps: stepNames(e.CompletedSteps()),
		UpdateControl:  newUpdateControlResponse(e, time.Now().UTC()),
	}
}

func newUpdateControlResponse(e *models.Employee, at time.Time) UpdateControlResponse {
	resp := UpdateControlResponse{
		Status:          e.UpdateStatus(at),
		NeedsUpdate:     e.NeedsUpdate(at),
		DaysUntilUpdate: e.DaysUntilUpdate(at),
	}
	if due := e.NextUpdateDue(); !due.IsZero() {
		resp.NextUpdateDue = &due
	}
	return resp
}

func newProgressResponse(e *models.Employee) ProgressResponse {
	completed := e.CompletedSteps()
	pending := make([]models.Step, 0, models.TotalSteps-len(completed))
	for _, s := range models.AllSteps() {
		if !containsStep(completed, s) {
			pending = append(pending, s)
		}
	}
	return ProgressResponse{
		DocumentNumber: e.Document().String(),
		Progress:       services.CalculateProgress(e),
		Complete:       e.IsComplete(),
		CompletedSteps: stepNames(completed),
		PendingSteps:   stepNames(pending),
	}
}

func containsStep(steps []models.Step, s models.Step) bool {
	for _, c := range steps {
		if c == s {
			return true
		}
	}
	return false
}

func stepNames(steps []models.Step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.String()
	}
	return names
}

func validationDetails(errs models.ValidationErrors) []models.ValidationError {
	details := make([]models.ValidationError, len(errs))
	for i, e := range errs {
		details[i] = *e
	}
	return details
}

// statusFor maps domain and repository errors to HTTP status codes
func statusFor(err error) int {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrEmployeeExists),
		errors.Is(err, services.ErrIdentityLocked),
		utils.IsOptimisticLockError(err):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnknownStep):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes err with the status mapped by statusFor. Internal
// errors are logged and hidden from the client.
func respondError(c *gin.Context, span trace.Span, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		resp = ErrorResponse{Error: "validation failed", Details: validationDetails(verrs)}
	case status == http.StatusConflict && !errors.Is(err, models.ErrEmployeeExists):
		resp.Error = "employee was modified concurrently, retry the request"
	case status == http.StatusInternalServerError:
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"http.status": status})
		observability.Logger().Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		resp.Error = "internal server error"
	}
	utils.AddSpanAttribute(span, "http.status_code", status)
	c.JSON(status, resp)
}
