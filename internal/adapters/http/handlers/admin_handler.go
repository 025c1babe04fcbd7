package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/pagination"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/validator"
)

// AdminHandler handles admin account management, the audit trail and the
// dashboard stats endpoint.
type AdminHandler struct {
	adminService    *services.AdminService
	activityLogRepo *repositories.ActivityLogRepository
	cfg             *config.Config
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, activityLogRepo *repositories.ActivityLogRepository, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		activityLogRepo: activityLogRepo,
		cfg:             cfg,
	}
}

// List lists admin accounts
// @Summary List admins
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.PaginatedResponse
// @Failure 403 {object} response.Response
// @Router /admins [get]
func (h *AdminHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.Pagination.MaxPerPage)

	admins, total, err := h.adminService.ListAdmins(c.UserContext(), params.Offset, params.PerPage)
	if err != nil {
		return response.InternalServerError(c, "Failed to list admins")
	}

	items := make([]interface{}, 0, len(admins))
	for _, a := range admins {
		items = append(items, a.ToResponse())
	}

	return response.Paginated(c, items, params, total)
}

// Get returns one admin account
// @Summary Get admin
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admins/{id} [get]
func (h *AdminHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid admin ID")
	}

	admin, err := h.adminService.GetAdminByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			return response.NotFound(c, "Admin not found")
		}
		return response.InternalServerError(c, "Failed to get admin")
	}

	return response.Success(c, "Admin retrieved successfully", admin.ToResponse())
}

// Create creates a new admin account (super admin)
// @Summary Create admin
// @Tags Admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admins [post]
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("username").MinLength("username", 3).MaxLength("username", 50)
	v.Required("email").Email("email")
	v.Required("password").MinLength("password", 8)
	v.Required("role").In("role", models.AdminRoleSuperAdmin, models.AdminRoleAdmin, models.AdminRoleModerator)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.CreateAdminInput{
		Username: bodyString(body, "username"),
		Email:    bodyString(body, "email"),
		Password: bodyString(body, "password"),
		FullName: bodyString(body, "full_name"),
		Role:     bodyString(body, "role"),
	}

	admin, err := h.adminService.CreateAdmin(c.UserContext(), actorID(c), input, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameAlreadyExists):
			return response.Conflict(c, "Username already exists")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return response.Conflict(c, "Email already exists")
		case errors.Is(err, services.ErrInvalidAdminRole):
			return response.BadRequest(c, "Invalid admin role")
		default:
			return response.InternalServerError(c, "Failed to create admin")
		}
	}

	return response.Created(c, "Admin created successfully", admin.ToResponse())
}

// Update updates an admin account (super admin)
// @Summary Update admin
// @Tags Admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admins/{id} [put]
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid admin ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Email("email")
	v.In("role", models.AdminRoleSuperAdmin, models.AdminRoleAdmin, models.AdminRoleModerator)
	v.In("status", models.AdminStatusActive, models.AdminStatusInactive)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.UpdateAdminInput{
		Email:    bodyStringPtr(body, "email"),
		FullName: bodyStringPtr(body, "full_name"),
		Role:     bodyStringPtr(body, "role"),
		Status:   bodyStringPtr(body, "status"),
	}

	admin, err := h.adminService.UpdateAdmin(c.UserContext(), id, actorID(c), input, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			return response.NotFound(c, "Admin not found")
		case errors.Is(err, services.ErrCannotDemoteSelf):
			return response.BadRequest(c, "You cannot change your own role")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return response.Conflict(c, "Email already exists")
		case errors.Is(err, services.ErrInvalidAdminRole), errors.Is(err, services.ErrInvalidAdminStatus):
			return response.BadRequest(c, "Invalid admin role or status")
		default:
			return response.InternalServerError(c, "Failed to update admin")
		}
	}

	return response.Success(c, "Admin updated successfully", admin.ToResponse())
}

// Delete removes an admin account (super admin)
// @Summary Delete admin
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admins/{id} [delete]
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid admin ID")
	}

	if err := h.adminService.DeleteAdmin(c.UserContext(), id, actorID(c), requestMeta(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			return response.NotFound(c, "Admin not found")
		case errors.Is(err, services.ErrCannotDeleteSelf):
			return response.BadRequest(c, "You cannot delete your own account")
		default:
			return response.InternalServerError(c, "Failed to delete admin")
		}
	}

	return response.Success(c, "Admin deleted successfully", nil)
}

// ActivityLog lists the admin audit trail
// @Summary List admin activity log
// @Description List audit trail entries with admin, entity and date filters
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.PaginatedResponse
// @Failure 403 {object} response.Response
// @Router /admins/activity-log [get]
func (h *AdminHandler) ActivityLog(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.Pagination.MaxPerPage)

	filter := repositories.ActivityLogFilter{
		EntityType: c.Query("entity_type"),
	}
	if adminID := c.QueryInt("admin_id"); adminID > 0 {
		filter.AdminID = uint(adminID)
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.DateTo = &end
		}
	}

	entries, total, err := h.activityLogRepo.List(c.UserContext(), filter, params.Offset, params.PerPage)
	if err != nil {
		return response.InternalServerError(c, "Failed to list activity log")
	}

	return response.Paginated(c, entries, params, total)
}

// Stats returns dashboard counters
// @Summary Get dashboard stats
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admins/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.GetStats(c.UserContext())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats")
	}
	return response.Success(c, "Stats retrieved successfully", stats)
}
