package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/pagination"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/validator"
)

// ServiceHandler handles service listing endpoints
type ServiceHandler struct {
	marketplace *services.MarketplaceService
	cfg         *config.Config
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(marketplace *services.MarketplaceService, cfg *config.Config) *ServiceHandler {
	return &ServiceHandler{marketplace: marketplace, cfg: cfg}
}

// List lists service listings
// @Summary List services
// @Description List service listings with category, price and search filters
// @Tags Services
// @Produce json
// @Success 200 {object} response.PaginatedResponse
// @Router /services [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.Pagination.MaxPerPage)

	input := &services.ListServicesInput{
		Search: strings.TrimSpace(c.Query("search")),
		Status: c.Query("status"),
		Offset: params.Offset,
		Limit:  params.PerPage,
	}
	if userID := c.QueryInt("user_id"); userID > 0 {
		input.UserID = uint(userID)
	}
	if categoryID := c.QueryInt("category_id"); categoryID > 0 {
		input.CategoryID = uint(categoryID)
	}
	if min := c.QueryInt("min_price", -1); min >= 0 {
		input.MinPrice = &min
	}
	if max := c.QueryInt("max_price", -1); max >= 0 {
		input.MaxPrice = &max
	}
	if featured := c.Query("featured"); featured != "" {
		f := featured == "true" || featured == "1"
		input.Featured = &f
	}

	// Admins browse every status. Owners may browse their own listings in
	// any state; everyone else only sees active ones.
	if !isAdmin(c) {
		if caller := actorID(c); caller == 0 || input.UserID != caller {
			input.Status = models.ServiceStatusActive
		}
	}

	items, total, err := h.marketplace.ListServices(c.UserContext(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list services")
	}

	return response.Paginated(c, items, params, total)
}

// Get returns one service listing and counts the view
// @Summary Get service
// @Tags Services
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /services/{id} [get]
func (h *ServiceHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid service ID")
	}

	service, err := h.marketplace.GetServiceByID(c.UserContext(), id, true, isAdmin(c))
	if err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			return response.NotFound(c, "Service not found")
		}
		return response.InternalServerError(c, "Failed to get service")
	}

	return response.Success(c, "Service retrieved successfully", service)
}

// Create creates a new service listing
// @Summary Create service
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /services [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("title").MinLength("title", 5).MaxLength("title", 200)
	v.Required("description").MinLength("description", 10)
	v.Required("price").Integer("price").Min("price", 0)
	v.Integer("category_id").Min("category_id", 1)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	price, _ := bodyInt(body, "price")
	input := &services.CreateServiceInput{
		CategoryID:  bodyUintPtr(body, "category_id"),
		Title:       bodyString(body, "title"),
		Description: bodyString(body, "description"),
		Price:       price,
	}

	service, err := h.marketplace.CreateService(c.UserContext(), actorID(c), input)
	if err != nil {
		if errors.Is(err, services.ErrCategoryUnavailable) {
			return response.BadRequest(c, "Category not found or inactive")
		}
		return response.InternalServerError(c, "Failed to create service")
	}

	return response.Created(c, "Service created successfully", service)
}

// Update updates a service listing (owner only)
// @Summary Update service
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /services/{id} [put]
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid service ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.MinLength("title", 5)
	v.MaxLength("title", 200)
	v.MinLength("description", 10)
	v.Integer("price")
	v.Min("price", 0)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.UpdateServiceInput{
		CategoryID:  bodyUintPtr(body, "category_id"),
		Title:       bodyStringPtr(body, "title"),
		Description: bodyStringPtr(body, "description"),
		Price:       bodyIntPtr(body, "price"),
	}

	service, err := h.marketplace.UpdateService(c.UserContext(), id, actorID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrServiceNotFound):
			return response.NotFound(c, "Service not found")
		case errors.Is(err, services.ErrNotOwner):
			return response.Forbidden(c, "You can only update your own services")
		case errors.Is(err, services.ErrCategoryUnavailable):
			return response.BadRequest(c, "Category not found or inactive")
		default:
			return response.InternalServerError(c, "Failed to update service")
		}
	}

	return response.Success(c, "Service updated successfully", service)
}

// Delete soft-deletes a service listing (owner only)
// @Summary Delete service
// @Tags Services
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /services/{id} [delete]
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid service ID")
	}

	if err := h.marketplace.DeleteService(c.UserContext(), id, actorID(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrServiceNotFound):
			return response.NotFound(c, "Service not found")
		case errors.Is(err, services.ErrNotOwner):
			return response.Forbidden(c, "You can only delete your own services")
		default:
			return response.InternalServerError(c, "Failed to delete service")
		}
	}

	return response.Success(c, "Service deleted successfully", nil)
}

// SetStatus updates a service's status (admin)
// @Summary Set service status
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /services/{id}/status [patch]
func (h *ServiceHandler) SetStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid service ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("status").In("status", models.ServiceStatuses...)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	service, err := h.marketplace.SetServiceStatus(c.UserContext(), id, actorID(c), bodyString(body, "status"), requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrServiceNotFound):
			return response.NotFound(c, "Service not found")
		case errors.Is(err, services.ErrInvalidListingStatus):
			return response.BadRequest(c, "Invalid service status")
		default:
			return response.InternalServerError(c, "Failed to update service status")
		}
	}

	return response.Success(c, "Service status updated successfully", service)
}

// SetFeatured toggles a service's featured flag (admin)
// @Summary Set service featured flag
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /services/{id}/featured [patch]
func (h *ServiceHandler) SetFeatured(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid service ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	featured := bodyBoolPtr(body, "featured")
	if featured == nil {
		return response.ValidationFailed(c, map[string]string{"featured": "featured is required"})
	}

	service, err := h.marketplace.SetServiceFeatured(c.UserContext(), id, actorID(c), *featured, requestMeta(c))
	if err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			return response.NotFound(c, "Service not found")
		}
		return response.InternalServerError(c, "Failed to update featured flag")
	}

	return response.Success(c, "Service featured flag updated successfully", service)
}
