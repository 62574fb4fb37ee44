// File: internal/common/context_keys.go
package common

const (
	AuthorizationHeader     = "Authorization"
	AuthorizationTypeBearer = "Bearer"

	// Gin context keys set by the auth middleware.
	UserIDKey     = "userID"
	UserEmailKey  = "userEmail"
	UserRoleKey   = "userRole"
	UserClaimsKey = "userClaims"

	// LoggerKey holds the request-scoped *zap.Logger.
	LoggerKey = "logger"
)

// RoleAdmin is the only role that may manage the waitlist.
const RoleAdmin = "admin"
