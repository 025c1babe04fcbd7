package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/core/services"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/validator"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List lists categories. Public callers see active ones; admins may pass
// ?all=true for the full set.
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} response.Response
// @Router /categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	activeOnly := true
	if c.Query("all") == "true" && isAdmin(c) {
		activeOnly = false
	}

	categories, err := h.categoryService.List(c.UserContext(), activeOnly)
	if err != nil {
		return response.InternalServerError(c, "Failed to list categories")
	}

	return response.Success(c, "Categories retrieved successfully", categories)
}

// Get returns one category
// @Summary Get category
// @Tags Categories
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /categories/{id} [get]
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid category ID")
	}

	category, err := h.categoryService.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			return response.NotFound(c, "Category not found")
		}
		return response.InternalServerError(c, "Failed to get category")
	}

	return response.Success(c, "Category retrieved successfully", category)
}

// Create creates a category (admin)
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("name").MinLength("name", 2).MaxLength("name", 100)
	v.MaxLength("description", 500)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.CreateCategoryInput{
		Name:        bodyString(body, "name"),
		Description: bodyString(body, "description"),
		Icon:        bodyString(body, "icon"),
	}

	category, err := h.categoryService.Create(c.UserContext(), actorID(c), input, requestMeta(c))
	if err != nil {
		if errors.Is(err, services.ErrCategoryNameTaken) {
			return response.Conflict(c, "Category name already exists")
		}
		return response.InternalServerError(c, "Failed to create category")
	}

	return response.Created(c, "Category created successfully", category)
}

// Update updates a category (admin)
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid category ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.MinLength("name", 2)
	v.MaxLength("name", 100)
	v.MaxLength("description", 500)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.UpdateCategoryInput{
		Name:        bodyStringPtr(body, "name"),
		Description: bodyStringPtr(body, "description"),
		Icon:        bodyStringPtr(body, "icon"),
		IsActive:    bodyBoolPtr(body, "is_active"),
	}

	category, err := h.categoryService.Update(c.UserContext(), id, actorID(c), input, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			return response.NotFound(c, "Category not found")
		case errors.Is(err, services.ErrCategoryNameTaken):
			return response.Conflict(c, "Category name already exists")
		default:
			return response.InternalServerError(c, "Failed to update category")
		}
	}

	return response.Success(c, "Category updated successfully", category)
}

// Delete removes a category (admin). Categories still referenced by
// services or demands cannot be deleted.
// @Summary Delete category
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid category ID")
	}

	if err := h.categoryService.Delete(c.UserContext(), id, actorID(c), requestMeta(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			return response.NotFound(c, "Category not found")
		case errors.Is(err, services.ErrCategoryReferenced):
			return response.BadRequest(c, "Category is still referenced by services or demands")
		default:
			return response.InternalServerError(c, "Failed to delete category")
		}
	}

	return response.Success(c, "Category deleted successfully", nil)
}
