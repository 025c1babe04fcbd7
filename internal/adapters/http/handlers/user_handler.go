package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/pagination"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/storage"
	"skillswap/internal/pkg/validator"
)

// UserHandler handles user management and self-service profile endpoints
type UserHandler struct {
	userService *services.UserService
	store       *storage.ObjectStore
	cfg         *config.Config
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, store *storage.ObjectStore, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		store:       store,
		cfg:         cfg,
	}
}

// List lists users (admin)
// @Summary List users
// @Description List users with search and status filters
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.PaginatedResponse
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.Pagination.MaxPerPage)

	input := &services.ListUsersInput{
		Search: strings.TrimSpace(c.Query("search")),
		Status: c.Query("status"),
		Offset: params.Offset,
		Limit:  params.PerPage,
	}
	if verified := c.Query("verified"); verified != "" {
		v := verified == "true" || verified == "1"
		input.Verified = &v
	}

	users, total, err := h.userService.ListUsers(c.UserContext(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	items := make([]interface{}, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}

	return response.Paginated(c, items, params, total)
}

// Get returns one user. Admins get the full record; everyone else gets
// the public profile.
// @Summary Get user
// @Description Get a user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	if isAdmin(c) || actorID(c) == user.ID {
		return response.Success(c, "User retrieved successfully", user.ToResponse())
	}
	return response.Success(c, "User retrieved successfully", user.ToPublicProfile())
}

// Update updates a user account (admin)
// @Summary Update user
// @Description Update a user's account fields as an admin
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Email("email")
	v.MaxLength("full_name", 100)
	v.In("status", "active", "suspended", "banned")
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.UpdateUserByAdminInput{
		Email:      bodyStringPtr(body, "email"),
		FullName:   bodyStringPtr(body, "full_name"),
		Status:     bodyStringPtr(body, "status"),
		IsActive:   bodyBoolPtr(body, "is_active"),
		IsVerified: bodyBoolPtr(body, "is_verified"),
	}

	user, err := h.userService.UpdateUserByAdmin(c.UserContext(), id, actorID(c), input, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return response.Conflict(c, "Email already exists")
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, "Invalid user status")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", user.ToResponse())
}

// Delete removes a user account (admin)
// @Summary Delete user
// @Description Soft-delete a user account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(c.UserContext(), id, actorID(c), requestMeta(c)); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.Success(c, "User deleted successfully", nil)
}

// AdjustBalance applies a signed coin delta to a user's balance (admin)
// @Summary Adjust user balance
// @Description Apply a signed coin delta to a user's balance with an audit reason
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /users/{id}/balance [post]
func (h *UserHandler) AdjustBalance(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("delta").Integer("delta")
	v.Required("reason").MinLength("reason", 3).MaxLength("reason", 255)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	delta, _ := bodyInt(body, "delta")
	input := &services.AdjustBalanceInput{
		Delta:  delta,
		Reason: bodyString(body, "reason"),
	}

	user, err := h.userService.AdjustBalance(c.UserContext(), id, actorID(c), input, requestMeta(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to adjust balance")
	}

	return response.Success(c, "Balance adjusted successfully", fiber.Map{
		"user":    user.ToResponse(),
		"balance": user.Coins,
	})
}

// UpdateProfile updates the caller's own profile
// @Summary Update own profile
// @Description Update the authenticated user's profile fields
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Email("email")
	v.MaxLength("full_name", 100)
	v.MaxLength("bio", 1000)
	v.MaxLength("skills", 500)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.UpdateProfileInput{
		Email:    bodyStringPtr(body, "email"),
		FullName: bodyStringPtr(body, "full_name"),
		Phone:    bodyStringPtr(body, "phone"),
		Bio:      bodyStringPtr(body, "bio"),
		Skills:   bodyStringPtr(body, "skills"),
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), actorID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return response.Conflict(c, "Email already exists")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated successfully", user.ToResponse())
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Description Change the authenticated user's password
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /profile/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("old_password")
	v.Required("new_password").MinLength("new_password", 8)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	err = h.userService.ChangePassword(c.UserContext(), actorID(c),
		bodyString(body, "old_password"), bodyString(body, "new_password"))
	if err != nil {
		if errors.Is(err, services.ErrOldPasswordWrong) {
			return response.BadRequest(c, "Old password is incorrect")
		}
		return response.InternalServerError(c, "Failed to change password")
	}

	return response.Success(c, "Password changed successfully", nil)
}

// UploadProfileImage stores a new profile image in object storage
// @Summary Upload profile image
// @Description Upload the authenticated user's profile image (multipart form, field "image")
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile/image [post]
func (h *UserHandler) UploadProfileImage(c *fiber.Ctx) error {
	if h.store == nil {
		return response.ServiceUnavailable(c, "Object storage is not configured")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "Image file is required")
	}
	if fileHeader.Size > 5<<20 {
		return response.BadRequest(c, "Image must be 5MB or smaller")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return response.BadRequest(c, "Image must be jpg, png or webp")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read image")
	}
	defer file.Close()

	key := fmt.Sprintf("profiles/%d/%s%s", actorID(c), uuid.New().String(), ext)
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.store.Put(c.UserContext(), key, file, fileHeader.Size, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to store image")
	}

	user, err := h.userService.SetProfileImage(c.UserContext(), actorID(c), url)
	if err != nil {
		return response.InternalServerError(c, "Failed to update profile image")
	}

	return response.Success(c, "Profile image updated successfully", fiber.Map{
		"profile_image": user.ProfileImage,
	})
}
