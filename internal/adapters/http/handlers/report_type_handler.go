package handlers

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/validator"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify builds a URL-safe slug from a display name
func slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// ReportTypeHandler handles report type catalog endpoints. The catalog is
// small and static enough that the handler talks to the repository
// directly.
type ReportTypeHandler struct {
	reportTypeRepo *repositories.ReportTypeRepository
	auditService   *services.AuditService
}

// NewReportTypeHandler creates a new report type handler
func NewReportTypeHandler(reportTypeRepo *repositories.ReportTypeRepository, auditService *services.AuditService) *ReportTypeHandler {
	return &ReportTypeHandler{
		reportTypeRepo: reportTypeRepo,
		auditService:   auditService,
	}
}

// List lists report types. Public callers see active ones, optionally
// filtered by the entity they want to report.
// @Summary List report types
// @Tags ReportTypes
// @Produce json
// @Success 200 {object} response.Response
// @Router /report-types [get]
func (h *ReportTypeHandler) List(c *fiber.Ctx) error {
	activeOnly := true
	if c.Query("all") == "true" && isAdmin(c) {
		activeOnly = false
	}

	types, err := h.reportTypeRepo.List(c.UserContext(), activeOnly, c.Query("entity_type"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list report types")
	}

	return response.Success(c, "Report types retrieved successfully", types)
}

// Create creates a report type (admin)
// @Summary Create report type
// @Tags ReportTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /report-types [post]
func (h *ReportTypeHandler) Create(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("name").MinLength("name", 2).MaxLength("name", 100)
	v.MaxLength("description", 500)
	v.In("entity_type", models.ReportEntityAll, models.ReportEntityUser, models.ReportEntityService, models.ReportEntityDemand)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	slug := bodyString(body, "slug")
	if slug == "" {
		slug = slugify(bodyString(body, "name"))
	}
	if exists, _ := h.reportTypeRepo.ExistsBySlug(c.UserContext(), slug, 0); exists {
		return response.Conflict(c, "Report type slug already exists")
	}

	entityType := bodyString(body, "entity_type")
	if entityType == "" {
		entityType = models.ReportEntityAll
	}

	rt := &models.ReportType{
		Name:        bodyString(body, "name"),
		Slug:        slug,
		Description: bodyString(body, "description"),
		EntityType:  entityType,
		IsActive:    true,
	}
	if order, ok := bodyInt(body, "display_order"); ok {
		rt.DisplayOrder = order
	}

	if err := h.reportTypeRepo.Create(c.UserContext(), rt); err != nil {
		return response.InternalServerError(c, "Failed to create report type")
	}

	h.auditService.Record(c.UserContext(), actorID(c), "report_type.create", "report_type", rt.ID, fiber.Map{
		"name": rt.Name,
		"slug": rt.Slug,
	}, requestMeta(c))

	return response.Created(c, "Report type created successfully", rt)
}

// Update updates a report type (admin)
// @Summary Update report type
// @Tags ReportTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /report-types/{id} [put]
func (h *ReportTypeHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid report type ID")
	}

	rt, err := h.reportTypeRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Report type not found")
		}
		return response.InternalServerError(c, "Failed to get report type")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.MinLength("name", 2)
	v.MaxLength("name", 100)
	v.MaxLength("description", 500)
	v.In("entity_type", models.ReportEntityAll, models.ReportEntityUser, models.ReportEntityService, models.ReportEntityDemand)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	if name := bodyStringPtr(body, "name"); name != nil {
		rt.Name = *name
	}
	if slug := bodyStringPtr(body, "slug"); slug != nil && *slug != rt.Slug {
		if exists, _ := h.reportTypeRepo.ExistsBySlug(c.UserContext(), *slug, id); exists {
			return response.Conflict(c, "Report type slug already exists")
		}
		rt.Slug = *slug
	}
	if desc := bodyStringPtr(body, "description"); desc != nil {
		rt.Description = *desc
	}
	if entityType := bodyStringPtr(body, "entity_type"); entityType != nil {
		rt.EntityType = *entityType
	}
	if active := bodyBoolPtr(body, "is_active"); active != nil {
		rt.IsActive = *active
	}
	if order, ok := bodyInt(body, "display_order"); ok {
		rt.DisplayOrder = order
	}

	if err := h.reportTypeRepo.Update(c.UserContext(), rt); err != nil {
		return response.InternalServerError(c, "Failed to update report type")
	}

	h.auditService.Record(c.UserContext(), actorID(c), "report_type.update", "report_type", rt.ID, nil, requestMeta(c))

	return response.Success(c, "Report type updated successfully", rt)
}

// Delete removes a report type (admin). Types still referenced by
// reports cannot be deleted.
// @Summary Delete report type
// @Tags ReportTypes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /report-types/{id} [delete]
func (h *ReportTypeHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid report type ID")
	}

	if _, err := h.reportTypeRepo.GetByID(c.UserContext(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Report type not found")
		}
		return response.InternalServerError(c, "Failed to get report type")
	}

	refs, err := h.reportTypeRepo.CountReferences(c.UserContext(), id)
	if err != nil {
		return response.InternalServerError(c, "Failed to check report type references")
	}
	if refs > 0 {
		return response.BadRequest(c, "Report type is still referenced by reports")
	}

	if err := h.reportTypeRepo.Delete(c.UserContext(), id); err != nil {
		return response.InternalServerError(c, "Failed to delete report type")
	}

	h.auditService.Record(c.UserContext(), actorID(c), "report_type.delete", "report_type", id, nil, requestMeta(c))

	return response.Success(c, "Report type deleted successfully", nil)
}
