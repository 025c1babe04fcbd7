package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/pagination"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/validator"
)

// ReportHandler handles the moderation pipeline endpoints
type ReportHandler struct {
	reportService *services.ReportService
	cfg           *config.Config
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, cfg *config.Config) *ReportHandler {
	return &ReportHandler{reportService: reportService, cfg: cfg}
}

// Create files a report against a user, service or demand
// @Summary Create report
// @Description File a report; exactly one target field should be set
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /reports [post]
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("report_type_id").Integer("report_type_id").Min("report_type_id", 1)
	v.Required("reason").MinLength("reason", 10).MaxLength("reason", 200)
	v.MaxLength("description", 2000)
	v.In("priority", models.ReportPriorityLow, models.ReportPriorityMedium, models.ReportPriorityHigh)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	typeID, _ := bodyInt(body, "report_type_id")
	input := &services.CreateReportInput{
		ReportTypeID:      uint(typeID),
		ReportedUserID:    bodyUintPtr(body, "reported_user_id"),
		ReportedServiceID: bodyUintPtr(body, "reported_service_id"),
		ReportedDemandID:  bodyUintPtr(body, "reported_demand_id"),
		Reason:            bodyString(body, "reason"),
		Description:       bodyString(body, "description"),
		Evidence:          bodyString(body, "evidence"),
		Priority:          bodyString(body, "priority"),
	}

	report, err := h.reportService.Create(c.UserContext(), actorID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoReportTarget):
			return response.BadRequest(c, "A report target is required")
		case errors.Is(err, services.ErrReportTypeNotFound):
			return response.BadRequest(c, "Report type not found or inactive")
		case errors.Is(err, services.ErrTargetNotFound):
			return response.NotFound(c, "Reported entity not found")
		case errors.Is(err, services.ErrSelfReport):
			return response.BadRequest(c, "You cannot report yourself or your own content")
		case errors.Is(err, services.ErrTypeNotApplicable):
			return response.BadRequest(c, "Report type does not apply to this entity")
		case errors.Is(err, services.ErrDuplicateReport):
			return response.BadRequest(c, "You already have an open report against this entity")
		default:
			return response.InternalServerError(c, "Failed to create report")
		}
	}

	return response.Created(c, "Report submitted successfully", report.ToResponse(false))
}

// List lists reports. Users see their own; admins see everything.
// @Summary List reports
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.PaginatedResponse
// @Router /reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.Pagination.MaxPerPage)
	admin := isAdmin(c)

	input := &services.ListReportsInput{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Offset:   params.Offset,
		Limit:    params.PerPage,
	}
	if typeID := c.QueryInt("report_type_id"); typeID > 0 {
		input.TypeID = uint(typeID)
	}
	if !admin {
		input.ReporterID = actorID(c)
	}

	reports, total, err := h.reportService.List(c.UserContext(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reports")
	}

	items := make([]interface{}, 0, len(reports))
	for _, r := range reports {
		items = append(items, r.ToResponse(admin))
	}

	return response.Paginated(c, items, params, total)
}

// Get returns one report (admin or the reporter)
// @Summary Get report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid report ID")
	}

	report, err := h.reportService.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return response.NotFound(c, "Report not found")
		}
		return response.InternalServerError(c, "Failed to get report")
	}

	admin := isAdmin(c)
	if !admin && report.ReporterID != actorID(c) {
		return response.Forbidden(c, "You can only view your own reports")
	}

	return response.Success(c, "Report retrieved successfully", report.ToResponse(admin))
}

// UpdateStatus moves a report through the moderation flow (admin)
// @Summary Update report status
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /reports/{id}/status [patch]
func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid report ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("status").In("status", models.ReportStatuses...)
	v.MaxLength("admin_note", 2000)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	report, err := h.reportService.UpdateStatus(c.UserContext(), id, actorID(c),
		bodyString(body, "status"), bodyString(body, "admin_note"), requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			return response.NotFound(c, "Report not found")
		case errors.Is(err, services.ErrInvalidReportStatus):
			return response.BadRequest(c, "Invalid report status")
		default:
			return response.InternalServerError(c, "Failed to update report status")
		}
	}

	return response.Success(c, "Report status updated successfully", report.ToResponse(true))
}

// Resolve closes a report and applies the resolution side effect (admin)
// @Summary Resolve report
// @Description Close a report; punitive resolutions suspend/ban the user or remove the content
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /reports/{id}/resolve [post]
func (h *ReportHandler) Resolve(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid report ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("resolution_type").In("resolution_type", models.ResolutionTypes...)
	v.MaxLength("admin_note", 2000)
	v.MaxLength("internal_notes", 2000)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.ResolveInput{
		ResolutionType: bodyString(body, "resolution_type"),
		AdminNote:      bodyString(body, "admin_note"),
		InternalNotes:  bodyString(body, "internal_notes"),
	}

	report, err := h.reportService.Resolve(c.UserContext(), id, actorID(c), input, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			return response.NotFound(c, "Report not found")
		case errors.Is(err, services.ErrInvalidResolution):
			return response.BadRequest(c, "Invalid resolution type")
		default:
			return response.InternalServerError(c, "Failed to resolve report")
		}
	}

	return response.Success(c, "Report resolved successfully", report.ToResponse(true))
}
