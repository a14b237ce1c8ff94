package handlers

import (
	"log"

	"github.com/calldesk-crm/calldesk/app/dto"
	businessflow "github.com/calldesk-crm/calldesk/business_flow"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	AdminLogin(c fiber.Ctx) error
	GenerateCaptcha(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	baseHandler
	loginFlow businessflow.LoginFlow
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(loginFlow businessflow.LoginFlow) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(),
		loginFlow:   loginFlow,
	}
}

// Login handles operator authentication
// @Summary Operator Login
// @Description Authenticate a back-office user with login and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := h.clientMetadata(c)

	result, err := h.loginFlow.Login(h.createRequestContext(c, "/api/v1/auth/login"), &req, metadata)
	if err != nil {
		if resp := h.loginErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// AdminLogin handles admin authentication with a rotate captcha
// @Summary Admin Login
// @Description Authenticate an admin user; requires a solved rotate captcha
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin login credentials with captcha"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid captcha"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 403 {object} dto.APIResponse "Admin role required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := h.clientMetadata(c)

	result, err := h.loginFlow.AdminLogin(h.createRequestContext(c, "/api/v1/auth/admin/login"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidCaptcha(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid captcha", dto.ErrorInvalidCaptcha, nil)
		}
		if businessflow.IsAdminRoleRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Admin role is required", "ADMIN_ROLE_REQUIRED", nil)
		}
		if resp := h.loginErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Admin login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// GenerateCaptcha issues a rotate captcha challenge for admin login
// @Summary Generate Captcha
// @Description Generate a rotate captcha challenge used by the admin login
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CaptchaResponse} "Captcha generated"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/captcha [get]
func (h *AuthHandler) GenerateCaptcha(c fiber.Ctx) error {
	result, err := h.loginFlow.GenerateCaptcha(h.createRequestContext(c, "/api/v1/auth/captcha"))
	if err != nil {
		log.Println("Captcha generation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate captcha", "CAPTCHA_GENERATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Captcha generated successfully", result)
}

// loginErrorResponse maps shared authentication errors; credential
// failures intentionally share one message to avoid login enumeration.
func (h *AuthHandler) loginErrorResponse(c fiber.Ctx, err error) error {
	if businessflow.IsUserNotFound(err) || businessflow.IsIncorrectPassword(err) {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid login or password", dto.ErrorIncorrectPassword, nil)
	}
	if businessflow.IsAccountInactive(err) {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", dto.ErrorAccountInactive, nil)
	}
	return nil
}
