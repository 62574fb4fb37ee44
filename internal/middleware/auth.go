// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"bridgex_waitlist/internal/auth"
	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthMiddleware requires a valid, unrevoked access token.
func AuthMiddleware(tokenService shared.TokenService, blocklist auth.TokenBlocklistService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		claims, err := tokenService.ValidateAccessToken(tokenString)
		if err != nil {
			logger.Debug("Token validation failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		revoked, err := blocklist.IsBlocklisted(c.Request.Context(), claims.ID)
		if err != nil {
			logger.Error("Blocklist lookup failed", zap.Error(err))
			common.RespondWithError(c, common.ErrInternalServer)
			return
		}
		if revoked {
			logger.Debug("Revoked token presented", zap.String("jti", claims.ID))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Token has been revoked."))
			return
		}

		c.Set(common.UserIDKey, claims.UserID)
		c.Set(common.UserEmailKey, claims.Email)
		c.Set(common.UserRoleKey, claims.Role)
		c.Set(common.UserClaimsKey, claims)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader(common.AuthorizationHeader))
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.AuthorizationTypeBearer) {
		return "", false
	}
	return parts[1], true
}

// GetUserIDFromContext returns the authenticated admin's ID, or uuid.Nil.
func GetUserIDFromContext(c *gin.Context) uuid.UUID {
	val, exists := c.Get(common.UserIDKey)
	if !exists {
		return uuid.Nil
	}
	userID, _ := val.(uuid.UUID)
	return userID
}

// GetUserRoleFromContext returns the authenticated admin's role, or "".
func GetUserRoleFromContext(c *gin.Context) string {
	return c.GetString(common.UserRoleKey)
}

// GetUserClaimsFromContext returns the claims of the access token, or nil.
func GetUserClaimsFromContext(c *gin.Context) *shared.Claims {
	val, exists := c.Get(common.UserClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := val.(*shared.Claims)
	return claims
}

// RoleAuthMiddleware requires the authenticated user to hold one of allowedRoles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
