package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/pagination"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/validator"
)

// DemandHandler handles demand endpoints
type DemandHandler struct {
	marketplace *services.MarketplaceService
	cfg         *config.Config
}

// NewDemandHandler creates a new demand handler
func NewDemandHandler(marketplace *services.MarketplaceService, cfg *config.Config) *DemandHandler {
	return &DemandHandler{marketplace: marketplace, cfg: cfg}
}

// List lists demands
// @Summary List demands
// @Description List demands with category, urgency and search filters
// @Tags Demands
// @Produce json
// @Success 200 {object} response.PaginatedResponse
// @Router /demands [get]
func (h *DemandHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.Pagination.MaxPerPage)

	input := &services.ListDemandsInput{
		Search:  strings.TrimSpace(c.Query("search")),
		Status:  c.Query("status"),
		Urgency: c.Query("urgency"),
		Offset:  params.Offset,
		Limit:   params.PerPage,
	}
	if userID := c.QueryInt("user_id"); userID > 0 {
		input.UserID = uint(userID)
	}
	if categoryID := c.QueryInt("category_id"); categoryID > 0 {
		input.CategoryID = uint(categoryID)
	}

	// Admins browse every status. Owners may browse their own demands in
	// any state; everyone else only sees open ones.
	if !isAdmin(c) {
		if caller := actorID(c); caller == 0 || input.UserID != caller {
			input.Status = models.DemandStatusOpen
		}
	}

	items, total, err := h.marketplace.ListDemands(c.UserContext(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list demands")
	}

	return response.Paginated(c, items, params, total)
}

// Get returns one demand
// @Summary Get demand
// @Tags Demands
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /demands/{id} [get]
func (h *DemandHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid demand ID")
	}

	demand, err := h.marketplace.GetDemandByID(c.UserContext(), id, isAdmin(c))
	if err != nil {
		if errors.Is(err, services.ErrDemandNotFound) {
			return response.NotFound(c, "Demand not found")
		}
		return response.InternalServerError(c, "Failed to get demand")
	}

	return response.Success(c, "Demand retrieved successfully", demand)
}

// Create creates a new demand
// @Summary Create demand
// @Tags Demands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /demands [post]
func (h *DemandHandler) Create(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("title").MinLength("title", 5).MaxLength("title", 200)
	v.Required("description").MinLength("description", 10)
	v.Required("budget").Integer("budget").Min("budget", 0)
	v.In("urgency", models.DemandUrgencyLow, models.DemandUrgencyMedium, models.DemandUrgencyHigh)
	v.Date("deadline", time.RFC3339)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	budget, _ := bodyInt(body, "budget")
	input := &services.CreateDemandInput{
		CategoryID:  bodyUintPtr(body, "category_id"),
		Title:       bodyString(body, "title"),
		Description: bodyString(body, "description"),
		Budget:      budget,
		Urgency:     bodyString(body, "urgency"),
		Location:    bodyString(body, "location"),
		Tags:        bodyString(body, "tags"),
	}
	if raw := bodyString(body, "deadline"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			input.Deadline = &t
		}
	}

	demand, err := h.marketplace.CreateDemand(c.UserContext(), actorID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryUnavailable):
			return response.BadRequest(c, "Category not found or inactive")
		case errors.Is(err, services.ErrInvalidUrgency):
			return response.BadRequest(c, "Invalid urgency")
		default:
			return response.InternalServerError(c, "Failed to create demand")
		}
	}

	return response.Created(c, "Demand created successfully", demand)
}

// Update updates a demand (owner only)
// @Summary Update demand
// @Tags Demands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /demands/{id} [put]
func (h *DemandHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid demand ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.MinLength("title", 5)
	v.MaxLength("title", 200)
	v.MinLength("description", 10)
	v.Integer("budget")
	v.Min("budget", 0)
	v.In("urgency", models.DemandUrgencyLow, models.DemandUrgencyMedium, models.DemandUrgencyHigh)
	v.Date("deadline", time.RFC3339)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.UpdateDemandInput{
		CategoryID:  bodyUintPtr(body, "category_id"),
		Title:       bodyStringPtr(body, "title"),
		Description: bodyStringPtr(body, "description"),
		Budget:      bodyIntPtr(body, "budget"),
		Urgency:     bodyStringPtr(body, "urgency"),
		Location:    bodyStringPtr(body, "location"),
		Tags:        bodyStringPtr(body, "tags"),
	}
	if raw := bodyString(body, "deadline"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			input.Deadline = &t
		}
	}

	demand, err := h.marketplace.UpdateDemand(c.UserContext(), id, actorID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDemandNotFound):
			return response.NotFound(c, "Demand not found")
		case errors.Is(err, services.ErrNotOwner):
			return response.Forbidden(c, "You can only update your own demands")
		case errors.Is(err, services.ErrCategoryUnavailable):
			return response.BadRequest(c, "Category not found or inactive")
		case errors.Is(err, services.ErrInvalidUrgency):
			return response.BadRequest(c, "Invalid urgency")
		default:
			return response.InternalServerError(c, "Failed to update demand")
		}
	}

	return response.Success(c, "Demand updated successfully", demand)
}

// Delete soft-deletes a demand (owner only)
// @Summary Delete demand
// @Tags Demands
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /demands/{id} [delete]
func (h *DemandHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid demand ID")
	}

	if err := h.marketplace.DeleteDemand(c.UserContext(), id, actorID(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrDemandNotFound):
			return response.NotFound(c, "Demand not found")
		case errors.Is(err, services.ErrNotOwner):
			return response.Forbidden(c, "You can only delete your own demands")
		default:
			return response.InternalServerError(c, "Failed to delete demand")
		}
	}

	return response.Success(c, "Demand deleted successfully", nil)
}

// SetStatus updates a demand's status (owner or admin)
// @Summary Set demand status
// @Tags Demands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /demands/{id}/status [patch]
func (h *DemandHandler) SetStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid demand ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("status").In("status", models.DemandStatuses...)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	demand, err := h.marketplace.SetDemandStatus(c.UserContext(), id, actorID(c), isAdmin(c), bodyString(body, "status"), requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDemandNotFound):
			return response.NotFound(c, "Demand not found")
		case errors.Is(err, services.ErrNotOwner):
			return response.Forbidden(c, "You can only update your own demands")
		case errors.Is(err, services.ErrStatusNotAllowed):
			return response.Forbidden(c, "This status can only be set by moderators")
		case errors.Is(err, services.ErrInvalidListingStatus):
			return response.BadRequest(c, "Invalid demand status")
		default:
			return response.InternalServerError(c, "Failed to update demand status")
		}
	}

	return response.Success(c, "Demand status updated successfully", demand)
}
