package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authz "github.com/yigit/edupath/internal/app/auth"
	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/auth"
	"github.com/yigit/edupath/internal/pkg/i18n"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextRoleType = "roleType"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth middleware for JWT token validation.
// The websocket endpoint cannot send headers from a browser, so a `token`
// query parameter is accepted as well.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := LangFrom(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			authHeader = c.Query("token")
		}

		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, i18n.T(lang, i18n.KeyErrorUnauthorized))
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, i18n.T(lang, i18n.KeyErrorUnauthorized))
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			message := i18n.T(lang, i18n.KeyErrorUnauthorized)
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				message = i18n.T(lang, i18n.KeyErrorTokenExpired)
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(errorCode, message)))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoleType, claims.RoleType)

		// An explicit ?lang= beats the stored preference
		if !c.GetBool(contextLangExplicit) {
			if preferred, ok := i18n.Parse(claims.Language); ok {
				c.Set(ContextLang, preferred)
			}
		}

		c.Next()
	}
}

// RoleRequired middleware to check if user has one of the required roles
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := LangFrom(c)

		role, exists := c.Get(ContextRoleType)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, i18n.T(lang, i18n.KeyErrorUnauthorized))
			errorDetail = errorDetail.WithDetails("User role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		roleStr, _ := role.(string)
		for _, required := range roles {
			if models.RoleType(roleStr) == required {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, i18n.T(lang, i18n.KeyErrorForbidden))
		errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// StaffRequired lets admins and agents through
func (m *AuthMiddleware) StaffRequired() gin.HandlerFunc {
	return m.RoleRequired(models.RoleAdmin, models.RoleAgent)
}

// GetUserID returns the authenticated user ID
func GetUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok && id > 0
}

// ActorFrom builds the service-level caller from the request context
func ActorFrom(c *gin.Context) (authz.Actor, error) {
	userID, ok := GetUserID(c)
	if !ok {
		return authz.Actor{}, apperrors.ErrTokenInvalid
	}
	return authz.Actor{
		UserID: userID,
		Role:   models.RoleType(c.GetString(ContextRoleType)),
		Lang:   LangFrom(c),
	}, nil
}
