// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/app/services"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate is the middleware function that validates JWT tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, errResp := m.validateRequest(c)
		if errResp != nil {
			return errResp
		}

		// Store user information in context for downstream handlers
		c.Locals("user_id", claims.UserID)
		c.Locals("user_role", claims.Role)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// AdminAuthenticate validates JWT tokens and additionally requires the admin role
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, errResp := m.validateRequest(c)
		if errResp != nil {
			return errResp
		}

		if claims.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Admin role is required",
				Error:   dto.ErrorDetail{Code: "ADMIN_ROLE_REQUIRED"},
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_role", claims.Role)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// validateRequest extracts and validates the bearer token. It returns
// claims on success or a ready-to-return error response.
func (m *AuthMiddleware) validateRequest(c fiber.Ctx) (*services.TokenClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Authorization header is required",
			Error: dto.ErrorDetail{
				Code: "MISSING_AUTHORIZATION_HEADER",
			},
		})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid authorization header format. Expected 'Bearer <token>'",
			Error: dto.ErrorDetail{
				Code: "INVALID_AUTHORIZATION_FORMAT",
			},
		})
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Access token is required",
			Error: dto.ErrorDetail{
				Code: "MISSING_ACCESS_TOKEN",
			},
		})
	}

	claims, err := m.tokenService.ValidateToken(token)
	if err != nil {
		var errorCode string
		var message string

		if errors.Is(err, services.ErrTokenExpired) {
			errorCode = "TOKEN_EXPIRED"
			message = "Access token has expired"
		} else if errors.Is(err, services.ErrTokenInvalid) {
			errorCode = "TOKEN_INVALID"
			message = "Invalid access token"
		} else {
			errorCode = "TOKEN_VALIDATION_FAILED"
			message = "Token validation failed"
		}

		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: message,
			Error: dto.ErrorDetail{
				Code: errorCode,
			},
		})
	}

	if claims.TokenType != "access" {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid access token",
			Error:   dto.ErrorDetail{Code: "TOKEN_INVALID"},
		})
	}

	return claims, nil
}

// GetUserIDFromContext extracts the authenticated user ID from the request context
func GetUserIDFromContext(c fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("user_id").(uint)
	return userID, ok
}

// GetUserRoleFromContext extracts the authenticated user role from the request context
func GetUserRoleFromContext(c fiber.Ctx) (string, bool) {
	role, ok := c.Locals("user_role").(string)
	return role, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}
