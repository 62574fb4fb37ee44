// File: internal/admin/model.go
package admin

import (
	"time"

	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/shared"

	"github.com/google/uuid"
)

// Admin is an account allowed to manage the waitlist.
type Admin struct {
	common.BaseModel
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         string     `gorm:"type:varchar(50);not null;default:'admin'"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// TableName specifies the table name for the Admin model.
func (Admin) TableName() string {
	return "admins"
}

func (a *Admin) GetID() uuid.UUID { return a.ID }
func (a *Admin) GetEmail() string { return a.Email }
func (a *Admin) GetRole() string  { return a.Role }

// ToAdminResponse strips the password hash.
func ToAdminResponse(a *Admin) shared.AdminResponse {
	return shared.AdminResponse{
		ID:          a.ID,
		Email:       a.Email,
		Role:        a.Role,
		LastLoginAt: a.LastLoginAt,
	}
}

// SignInRequest is the body of POST /admin/signin.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse is returned bare, without the success envelope.
type SignInResponse struct {
	Token        string               `json:"token"`
	RefreshToken string               `json:"refreshToken"`
	User         shared.AdminResponse `json:"user"`
}

// RefreshRequest is the body of POST /admin/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshResponse is returned bare, without the success envelope.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest is the optional body of POST /admin/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}
