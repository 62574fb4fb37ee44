// File: internal/contact/handler.go
package contact

import (
	"errors"
	"net/http"
	"strings"

	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/waitlist"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the waitlist contact endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new contact handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("ContactHandler")}
}

// RegisterRoutes mounts the public signup routes and the admin-only management routes.
// signupMW guards POST /contacts, typically with a rate limiter.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW, signupMW gin.HandlerFunc) {
	router.POST("/contacts", signupMW, h.create)
	router.GET("/get-contacts", h.listAll)

	admin := router.Group("/contacts", authMW, adminMW)
	{
		admin.GET("", h.search)
		admin.GET("/stats", h.stats)
		admin.GET("/:id", h.get)
		admin.PUT("/:id", h.update)
		admin.DELETE("/:id", h.delete)
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

func (h *Handler) contactID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid contact ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) create(c *gin.Context) {
	var req CreateContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contact, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "You have joined the waitlist.", contact.ToRecord())
}

// listAll returns every contact as a bare array, oldest first.
func (h *Handler) listAll(c *gin.Context) {
	contacts, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToRecords(contacts))
}

func (h *Handler) search(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	q := SearchQuery{
		Search:      strings.TrimSpace(c.Query("search")),
		ServiceType: waitlist.ServiceType(c.Query("service_type")),
		Page:        page,
		PageSize:    pageSize,
	}

	contacts, pagination, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Contacts retrieved successfully.", ToRecords(contacts), pagination)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Waitlist statistics retrieved successfully.", stats)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := h.contactID(c)
	if !ok {
		return
	}
	contact, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Contact retrieved successfully.", contact.ToRecord())
}

func (h *Handler) update(c *gin.Context) {
	id, ok := h.contactID(c)
	if !ok {
		return
	}
	var req UpdateContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contact, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Contact updated successfully.", contact.ToRecord())
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := h.contactID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
