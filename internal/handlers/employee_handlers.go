package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/observability"
	"github.com/hr-portal/app-employee-data/internal/services"
	"github.com/hr-portal/app-employee-data/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// EmployeeHandlers exposes the employee declaration workflow over HTTP
type EmployeeHandlers struct {
	orchestrator *services.UpdateOrchestrator
	repo         services.EmployeeRepository
	logger       *logging.SafeLogger
}

// NewEmployeeHandlers creates a new employee handlers instance
func NewEmployeeHandlers(orchestrator *services.UpdateOrchestrator, repo services.EmployeeRepository, logger *logging.SafeLogger) *EmployeeHandlers {
	return &EmployeeHandlers{
		orchestrator: orchestrator,
		repo:         repo,
		logger:       logger.Named("employee_handlers"),
	}
}

// RegisterRoutes mounts the employee routes on group
func (h *EmployeeHandlers) RegisterRoutes(group *gin.RouterGroup) {
	employees := group.Group("/employees")
	employees.POST("", h.Enroll)
	employees.GET("", h.ListEmployees)
	employees.GET("/:document", h.GetEmployee)
	employees.PUT("/:document/steps/:step", h.ApplyStep)
	employees.DELETE("/:document/dependents/:dependent", h.RemoveDependent)
	employees.GET("/:document/progress", h.GetProgress)
	employees.POST("/:document/validate", h.ValidateEmployee)
	employees.PUT("/:document/conflict-declaration", h.DeclareConflicts)

	group.GET("/update-control/statistics", h.GetUpdateStatistics)
}

// Enroll godoc
// @Summary Enroll an employee
// @Description Creates an employee record holding only personal information.
// @Tags employees
// @Accept json
// @Produce json
// @Param data body models.PersonalInfoData true "Personal information"
// @Success 201 {object} EmployeeResponse "Employee created"
// @Failure 400 {object} ErrorResponse "Malformed body"
// @Failure 409 {object} ErrorResponse "Employee already exists"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /employees [post]
func (h *EmployeeHandlers) Enroll(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "Enroll")
	defer span.End()

	span.SetAttributes(
		attribute.String("operation", "enroll_employee"),
		attribute.String("service", "employee"),
	)

	_, parseSpan := utils.TraceInputParsing(ctx, "personal_info")
	raw, err := c.GetRawData()
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	payload, err := models.DecodeStepPayload(models.StepPersonalInfo, raw)
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		respondDecodeError(c, err)
		return
	}
	parseSpan.End()

	e, err := h.orchestrator.Enroll(ctx, payload.(models.PersonalInfoData))
	if err != nil {
		respondError(c, span, err)
		return
	}

	_, responseSpan := utils.TraceResponseSerialization(ctx, "created")
	c.JSON(http.StatusCreated, newEmployeeResponse(e))
	responseSpan.End()

	h.logger.Debug("Enroll completed",
		zap.String("document_number", observability.MaskDocument(e.Document().String())),
		zap.Duration("total_duration", time.Since(startTime)))
}

// GetEmployee godoc
// @Summary Get an employee
// @Description Returns the stored employee record with its progress and completeness.
// @Tags employees
// @Produce json
// @Param document path string true "Employee document number"
// @Success 200 {object} EmployeeResponse "Employee found"
// @Failure 404 {object} ErrorResponse "Employee not found"
// @Failure 422 {object} ErrorResponse "Malformed document number"
// @Router /employees/{document} [get]
func (h *EmployeeHandlers) GetEmployee(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetEmployee")
	defer span.End()

	doc := c.Param("document")
	span.SetAttributes(
		attribute.String("employee.document", observability.MaskDocument(doc)),
		attribute.String("operation", "get_employee"),
	)

	e, err := h.orchestrator.GetEmployee(ctx, doc)
	if err != nil {
		respondError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, newEmployeeResponse(e))
}

// ApplyStep godoc
// @Summary Update one step of the employee record
// @Description Validates the body as the section for step and stores it. Steps are 1 personal_info, 2 vehicle, 3 housing, 4 contact, 5 academic and 6 dependents; names are accepted too. Dependents are appended, other sections are replaced.
// @Tags employees
// @Accept json
// @Produce json
// @Param document path string true "Employee document number"
// @Param step path string true "Step number or name"
// @Param data body object true "Section payload"
// @Success 200 {object} services.StepResult "Step applied"
// @Failure 400 {object} ErrorResponse "Unknown step or malformed body"
// @Failure 404 {object} ErrorResponse "Employee not found"
// @Failure 409 {object} ErrorResponse "Concurrent modification"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /employees/{document}/steps/{step} [put]
func (h *EmployeeHandlers) ApplyStep(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ApplyStep")
	defer span.End()

	doc := c.Param("document")
	masked := observability.MaskDocument(doc)
	span.SetAttributes(
		attribute.String("employee.document", masked),
		attribute.String("operation", "apply_step"),
	)

	_, stepSpan := utils.TraceInputValidation(ctx, "step", "step")
	step, err := models.ParseStep(c.Param("step"))
	if err != nil {
		utils.RecordErrorInSpan(stepSpan, err, map[string]interface{}{"step_param": c.Param("step")})
		stepSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	utils.AddSpanAttribute(stepSpan, "step", step.String())
	stepSpan.End()

	_, parseSpan := utils.TraceInputParsing(ctx, "step_payload")
	raw, err := c.GetRawData()
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	payload, err := models.DecodeStepPayload(step, raw)
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		respondDecodeError(c, err)
		return
	}
	parseSpan.End()

	result, err := h.orchestrator.ApplyStep(ctx, doc, payload)
	if err != nil {
		respondError(c, span, err)
		return
	}

	_, responseSpan := utils.TraceResponseSerialization(ctx, "success")
	c.JSON(http.StatusOK, result)
	responseSpan.End()

	h.logger.Debug("ApplyStep completed",
		zap.String("document_number", masked),
		zap.String("step", step.String()),
		zap.Int("progress", result.Progress),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("total_duration", time.Since(startTime)))
}

// RemoveDependent godoc
// @Summary Remove a dependent
// @Description Removes the dependents registered with the given document number. Unknown dependents are ignored.
// @Tags employees
// @Produce json
// @Param document path string true "Employee document number"
// @Param dependent path string true "Dependent document number"
// @Success 200 {object} services.StepResult "Dependent removed"
// @Failure 404 {object} ErrorResponse "Employee not found"
// @Failure 409 {object} ErrorResponse "Concurrent modification"
// @Failure 422 {object} ErrorResponse "Malformed document number"
// @Router /employees/{document}/dependents/{dependent} [delete]
func (h *EmployeeHandlers) RemoveDependent(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "RemoveDependent")
	defer span.End()

	doc := c.Param("document")
	span.SetAttributes(
		attribute.String("employee.document", observability.MaskDocument(doc)),
		attribute.String("operation", "remove_dependent"),
	)

	result, err := h.orchestrator.RemoveDependent(ctx, doc, c.Param("dependent"))
	if err != nil {
		respondError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProgress godoc
// @Summary Get completion progress
// @Description Returns the percentage of the six sections filled in and which steps are pending.
// @Tags employees
// @Produce json
// @Param document path string true "Employee document number"
// @Success 200 {object} ProgressResponse "Progress"
// @Failure 404 {object} ErrorResponse "Employee not found"
// @Router /employees/{document}/progress [get]
func (h *EmployeeHandlers) GetProgress(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetProgress")
	defer span.End()

	e, err := h.orchestrator.GetEmployee(ctx, c.Param("document"))
	if err != nil {
		respondError(c, span, err)
		return
	}

	_, logicSpan := utils.TraceBusinessLogic(ctx, "calculate_progress")
	resp := newProgressResponse(e)
	utils.AddSpanAttribute(logicSpan, "progress", resp.Progress)
	logicSpan.End()

	c.JSON(http.StatusOK, resp)
}

// ValidateEmployee godoc
// @Summary Validate a full update
// @Description Checks that the stored record has every mandatory section and at least one emergency contact.
// @Tags employees
// @Produce json
// @Param document path string true "Employee document number"
// @Success 200 {object} ValidationResponse "Validation result"
// @Failure 404 {object} ErrorResponse "Employee not found"
// @Router /employees/{document}/validate [post]
func (h *EmployeeHandlers) ValidateEmployee(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ValidateEmployee")
	defer span.End()

	e, err := h.orchestrator.GetEmployee(ctx, c.Param("document"))
	if err != nil {
		respondError(c, span, err)
		return
	}

	errs, err := h.orchestrator.ValidateFullUpdate(ctx, e)
	if err != nil {
		respondError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, ValidationResponse{
		DocumentNumber: e.Document().String(),
		Valid:          len(errs) == 0,
		Errors:         validationDetails(errs),
	})
}

// ListEmployees godoc
// @Summary List employees
// @Description Lists employees, optionally narrowed by department, job title and a predefined filter.
// @Tags employees
// @Produce json
// @Param department query string false "Exact department name"
// @Param title query string false "Exact job title"
// @Param filter query string false "incomplete, vehicle, dependents, overdue or due_soon"
// @Param due_within query int false "Days ahead due_soon looks at, 30 by default"
// @Success 200 {object} EmployeeListResponse "Matching employees"
// @Failure 400 {object} ErrorResponse "Unknown filter or bad window"
// @Router /employees [get]
func (h *EmployeeHandlers) ListEmployees(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListEmployees")
	defer span.End()

	_, filterSpan := utils.TraceInputParsing(ctx, "filter_parameters")
	filter, ok := services.ParseEmployeeFilter(c.Query("filter"))
	if !ok {
		filterSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "filter must be one of incomplete, vehicle, dependents, overdue, due_soon"})
		return
	}
	days, ok := parseDueWithin(c.Query("due_within"))
	if !ok {
		filterSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errDueWithin})
		return
	}
	query := services.EmployeeQuery{
		Department:    c.Query("department"),
		Title:         c.Query("title"),
		Filter:        filter,
		DueWithinDays: days,
	}
	utils.AddSpanAttribute(filterSpan, "filter", string(filter))
	filterSpan.End()

	employees, err := services.FindEmployees(ctx, h.repo, query)
	if err != nil {
		respondError(c, span, err)
		return
	}

	resp := EmployeeListResponse{Employees: make([]EmployeeResponse, len(employees)), Total: len(employees)}
	for i, e := range employees {
		resp.Employees[i] = newEmployeeResponse(e)
	}
	utils.AddSpanAttribute(span, "results_count", resp.Total)
	c.JSON(http.StatusOK, resp)
}

// DeclareConflicts godoc
// @Summary Declare conflicts of interest
// @Description Replaces the conflict-of-interest declaration. Persons are required when a conflict is declared and forbidden otherwise. The declaration does not count towards progress.
// @Tags employees
// @Accept json
// @Produce json
// @Param document path string true "Employee document number"
// @Param data body models.ConflictDeclarationData true "Conflict-of-interest declaration"
// @Success 200 {object} EmployeeResponse "Declaration stored"
// @Failure 400 {object} ErrorResponse "Malformed body"
// @Failure 404 {object} ErrorResponse "Employee not found"
// @Failure 409 {object} ErrorResponse "Concurrent modification"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /employees/{document}/conflict-declaration [put]
func (h *EmployeeHandlers) DeclareConflicts(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DeclareConflicts")
	defer span.End()

	doc := c.Param("document")
	span.SetAttributes(
		attribute.String("employee.document", observability.MaskDocument(doc)),
		attribute.String("operation", "declare_conflicts"),
	)

	_, parseSpan := utils.TraceInputParsing(ctx, "conflict_declaration")
	raw, err := c.GetRawData()
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	data, err := models.DecodeConflictDeclaration(raw)
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		respondDecodeError(c, err)
		return
	}
	parseSpan.End()

	e, err := h.orchestrator.DeclareConflicts(ctx, doc, data)
	if err != nil {
		respondError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, newEmployeeResponse(e))
}

// GetUpdateStatistics godoc
// @Summary Annual update statistics
// @Description Counts employees by annual update state. Records not updated for a year are overdue; due_soon counts those whose renewal falls within due_within days.
// @Tags update-control
// @Produce json
// @Param due_within query int false "Days ahead due_soon looks at, 30 by default"
// @Success 200 {object} services.UpdateStatistics "Statistics"
// @Failure 400 {object} ErrorResponse "Bad window"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /update-control/statistics [get]
func (h *EmployeeHandlers) GetUpdateStatistics(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetUpdateStatistics")
	defer span.End()

	days, ok := parseDueWithin(c.Query("due_within"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errDueWithin})
		return
	}

	stats, err := services.ComputeUpdateStatistics(ctx, h.repo, time.Now().UTC(), days)
	if err != nil {
		respondError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

const (
	maxDueWithinDays = 365
	errDueWithin     = "due_within must be a whole number of days between 1 and 365"
)

// parseDueWithin reads the due_within window; empty selects the default
func parseDueWithin(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxDueWithinDays {
		return 0, false
	}
	return days, true
}

// respondDecodeError rejects a body that does not decode into the step payload
func respondDecodeError(c *gin.Context, err error) {
	var resp ErrorResponse
	resp.Error = "malformed request body"
	if verrs, ok := err.(models.ValidationErrors); ok {
		resp.Details = validationDetails(verrs)
	}
	c.JSON(http.StatusBadRequest, resp)
}
