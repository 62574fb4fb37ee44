// File: internal/shared/admin_response.go
package shared

import (
	"time"

	"github.com/google/uuid"
)

// AdminResponse is the public view of an admin account.
type AdminResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
