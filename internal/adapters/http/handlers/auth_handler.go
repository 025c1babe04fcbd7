package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/jwt"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/validator"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cfg:         cfg,
	}
}

// Register handles user registration
// @Summary Register new user
// @Description Register a new user account; the welcome coin bonus is applied on creation
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("username").MinLength("username", 3).MaxLength("username", 50)
	v.Required("email").Email("email")
	v.Required("password").MinLength("password", 8)
	v.MaxLength("full_name", 100)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	input := &services.RegisterInput{
		Username: bodyString(body, "username"),
		Email:    bodyString(body, "email"),
		Password: bodyString(body, "password"),
		FullName: bodyString(body, "full_name"),
		Phone:    bodyString(body, "phone"),
	}

	user, tokens, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameAlreadyExists):
			return response.Conflict(c, "Username already exists")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return response.Conflict(c, "Email already exists")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	h.setAuthCookies(c, tokens)

	return response.Created(c, "User registered successfully", fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user":          user.ToResponse(),
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate a user and return a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	return h.login(c, false)
}

// AdminLogin handles admin login
// @Summary Login admin
// @Description Authenticate an admin and return a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	return h.login(c, true)
}

func (h *AuthHandler) login(c *fiber.Ctx, admin bool) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("username")
	v.Required("password")
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	username := bodyString(body, "username")
	plain := bodyString(body, "password")

	var principal interface{}
	var tokens *services.TokenPair
	if admin {
		adminAcct, pair, err := h.authService.LoginAdmin(c.UserContext(), username, plain)
		if err != nil {
			return h.loginError(c, err)
		}
		principal, tokens = adminAcct.ToResponse(), pair
	} else {
		user, pair, err := h.authService.LoginUser(c.UserContext(), username, plain)
		if err != nil {
			return h.loginError(c, err)
		}
		principal, tokens = user.ToResponse(), pair
	}

	h.setAuthCookies(c, tokens)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"account":       principal,
	})
}

func (h *AuthHandler) loginError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid username or password")
	case errors.Is(err, services.ErrAccountInactive):
		return response.Unauthorized(c, "Account is not active")
	default:
		return response.InternalServerError(c, "Failed to login")
	}
}

// Refresh handles token rotation
// @Summary Refresh access token
// @Description Exchange a valid refresh token for a fresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := h.refreshTokenFrom(c)
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token required")
	}

	tokens, err := h.authService.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		if errors.Is(err, services.ErrRefreshTokenInvalid) {
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token invalid or expired, please login again")
		}
		return response.InternalServerError(c, "Failed to refresh token")
	}

	h.setAuthCookies(c, tokens)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Logout revokes the presented refresh token
// @Summary Logout
// @Description Revoke the current refresh token and clear auth cookies
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshToken := h.refreshTokenFrom(c); refreshToken != "" {
		_ = h.authService.Logout(c.UserContext(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// LogoutAll revokes every session of the caller
// @Summary Logout from all devices
// @Description Revoke all refresh tokens held by the current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	actorType, _ := c.Locals("actorType").(string)
	if err := h.authService.LogoutAll(c.UserContext(), actorType, actorID(c)); err != nil {
		return response.InternalServerError(c, "Failed to logout from all devices")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out from all devices", nil)
}

// ForgotPassword issues a one-time password reset code
// @Summary Request password reset
// @Description Issue a one-time reset code for the account email
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("email").Email("email")
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	// The reset code travels out of band; unknown emails get the same
	// answer so accounts cannot be enumerated.
	code, err := h.authService.ForgotPassword(c.UserContext(), bodyString(body, "email"))
	if err != nil {
		return response.InternalServerError(c, "Failed to process reset request")
	}

	data := fiber.Map{}
	if h.cfg.IsDev() && code != "" {
		data["reset_code"] = code
	}

	return response.Success(c, "If the email exists, a reset code has been sent", data)
}

// ResetPassword verifies a reset code and sets a new password
// @Summary Reset password
// @Description Verify the one-time code and set a new password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("email").Email("email")
	v.Required("code")
	v.Required("password").MinLength("password", 8)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	err = h.authService.ResetPassword(c.UserContext(),
		bodyString(body, "email"), bodyString(body, "code"), bodyString(body, "password"))
	if err != nil {
		if errors.Is(err, services.ErrResetCodeInvalid) {
			return response.BadRequest(c, "Reset code is invalid or expired")
		}
		return response.InternalServerError(c, "Failed to reset password")
	}

	return response.Success(c, "Password reset successfully", nil)
}

// Me returns the current account
// @Summary Get current account
// @Description Get the currently authenticated account's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	if isAdmin(c) {
		return response.Success(c, "Account retrieved successfully", fiber.Map{
			"id":       actorID(c),
			"username": c.Locals("username"),
			"role":     c.Locals("role"),
			"type":     jwt.ActorAdmin,
		})
	}

	user, err := h.userService.GetUserByID(c.UserContext(), actorID(c))
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "Account retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
		"type": jwt.ActorUser,
	})
}

func (h *AuthHandler) refreshTokenFrom(c *fiber.Ctx) string {
	if body, err := parseBody(c); err == nil {
		if token := bodyString(body, "refresh_token"); token != "" {
			return token
		}
	}
	return c.Cookies("refresh_token")
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, tokens *services.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    tokens.AccessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    tokens.RefreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.IsProd(),
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}
}
