// File: internal/admin/handler.go
package admin

import (
	"errors"
	"net/http"

	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the admin authentication endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new admin handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("AdminHandler")}
}

// RegisterRoutes mounts /admin under router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	adminGroup := router.Group("/admin")
	{
		adminGroup.POST("/signin", h.signIn)
		adminGroup.POST("/refresh", h.refresh)

		authenticated := adminGroup.Group("", authMW)
		{
			authenticated.POST("/logout", h.logout)
			authenticated.GET("/profile", h.profile)
		}
	}
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Debug("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body must be valid JSON."))
		return false
	}
	return true
}

func (h *Handler) signIn(c *gin.Context) {
	var req SignInRequest
	if !h.bindJSON(c, &req) {
		return
	}

	admin, pair, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, SignInResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         ToAdminResponse(admin),
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var req RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, RefreshResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handler) logout(c *gin.Context) {
	var req LogoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body must be valid JSON."))
			return
		}
	}

	if err := h.service.Logout(c.Request.Context(), middleware.GetUserClaimsFromContext(c), req.RefreshToken); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Logged out successfully.", nil)
}

func (h *Handler) profile(c *gin.Context) {
	adminID := middleware.GetUserIDFromContext(c)
	if adminID == uuid.Nil {
		h.logger.Error("Admin ID not found in context", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	admin, err := h.service.GetByID(c.Request.Context(), adminID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", ToAdminResponse(admin))
}
