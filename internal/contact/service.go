// File: internal/contact/service.go
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/waitlist"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for waitlist contact business logic.
type Service interface {
	Create(ctx context.Context, req CreateContactRequest) (*Contact, error)
	ListAll(ctx context.Context) ([]Contact, error)
	Search(ctx context.Context, q SearchQuery) ([]Contact, *common.Pagination, error)
	Stats(ctx context.Context) (*waitlist.Stats, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (*Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo            Repository
	logger          *zap.Logger
	defaultLocation string
	now             func() time.Time
}

// NewService creates a new contact service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	location := strings.TrimSpace(cfg.DefaultLocation)
	if location == "" {
		location = waitlist.DefaultLocation
	}
	return &ServiceImplementation{
		repo:            repo,
		logger:          logger.Named("ContactService"),
		defaultLocation: location,
		now:             time.Now,
	}
}

// Create stores a new signup. Exactly one of email and phone must be real.
func (s *ServiceImplementation) Create(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	contact := &Contact{
		Email:       req.Email,
		Phone:       req.Phone,
		Location:    req.Location,
		ServiceType: req.ServiceType,
	}
	if err := s.prepare(ctx, contact); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		if errors.Is(err, common.ErrConflict) {
			s.logger.Warn("Concurrent duplicate signup rejected", zap.Error(err))
			return nil, err
		}
		s.logger.Error("Failed to create contact", zap.Error(err))
		return nil, fmt.Errorf("create contact: %w", err)
	}
	s.logger.Info("Contact joined the waitlist",
		zap.String("contactID", contact.ID.String()),
		zap.String("serviceType", string(contact.ServiceType)),
		zap.String("location", contact.LocationSlug))
	return contact, nil
}

func (s *ServiceImplementation) ListAll(ctx context.Context) ([]Contact, error) {
	contacts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ServiceImplementation) Search(ctx context.Context, q SearchQuery) ([]Contact, *common.Pagination, error) {
	if q.Page <= 0 {
		q.Page = common.DefaultPage
	}
	if q.PageSize <= 0 {
		q.PageSize = common.DefaultPageSize
	}
	if q.PageSize > common.MaxPageSize {
		q.PageSize = common.MaxPageSize
	}
	if q.ServiceType != "" && !q.ServiceType.Valid() {
		return nil, nil, common.NewValidationAPIError(map[string]string{
			"service_type": "The service_type filter must be serviceUser or serviceProvider.",
		})
	}

	contacts, total, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("search contacts: %w", err)
	}
	return contacts, common.NewPagination(total, q.Page, q.PageSize), nil
}

// Stats summarises every contact as of now.
func (s *ServiceImplementation) Stats(ctx context.Context) (*waitlist.Stats, error) {
	contacts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts for stats: %w", err)
	}
	stats := waitlist.ComputeStats(ToRecords(contacts), s.now())
	return &stats, nil
}

func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return s.repo.FindByID(ctx, id)
}

// Update merges req into the stored contact and validates the result as a whole.
func (s *ServiceImplementation) Update(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (*Contact, error) {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Location != nil {
		contact.Location = *req.Location
	}
	if req.ServiceType != nil {
		contact.ServiceType = *req.ServiceType
	}
	if err := s.prepare(ctx, contact); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, err
	}
	s.logger.Info("Contact updated", zap.String("contactID", id.String()))
	return contact, nil
}

func (s *ServiceImplementation) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Contact removed from the waitlist", zap.String("contactID", id.String()))
	return nil
}

// prepare normalises c in place, validates it and checks the real contact is not taken.
func (s *ServiceImplementation) prepare(ctx context.Context, c *Contact) error {
	c.Email = normalizeEmail(c.Email)
	c.Phone = normalizePhone(c.Phone)
	c.Location = strings.TrimSpace(c.Location)
	if c.Location == "" {
		c.Location = s.defaultLocation
	}
	c.LocationSlug = waitlist.LocationSlug(c.Location)

	if details := validateContact(c); len(details) > 0 {
		return common.NewValidationAPIError(details)
	}

	if c.Email != waitlist.BlankEmail {
		taken, err := s.repo.ExistsByEmail(ctx, c.Email, c.ID)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return common.ErrConflict.WithDetails("This email is already on the waitlist.")
		}
	}
	if c.Phone != waitlist.BlankPhone {
		taken, err := s.repo.ExistsByPhone(ctx, c.Phone, c.ID)
		if err != nil {
			return fmt.Errorf("check phone: %w", err)
		}
		if taken {
			return common.ErrConflict.WithDetails("This phone number is already on the waitlist.")
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || email == waitlist.BlankEmail {
		return waitlist.BlankEmail
	}
	return strings.ToLower(email)
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || phone == waitlist.BlankPhone {
		return waitlist.BlankPhone
	}
	return waitlist.SanitizePhone(phone)
}

func validateContact(c *Contact) map[string]string {
	details := make(map[string]string)
	realEmail := c.Email != waitlist.BlankEmail
	realPhone := c.Phone != waitlist.BlankPhone

	switch {
	case realEmail && realPhone:
		details["contact"] = "Provide either an email or a phone number, not both."
	case !realEmail && !realPhone:
		details["contact"] = "An email or a phone number is required."
	case realEmail && !waitlist.IsValidEmail(c.Email):
		details["email"] = "Please enter a valid email address."
	case realPhone && !waitlist.IsValidPhone(c.Phone):
		details["phone"] = fmt.Sprintf("Please enter a valid phone number with at least %d digits.", waitlist.MinPhoneDigits)
	}
	if !c.ServiceType.Valid() {
		details["servicestype"] = "The servicestype field must be serviceUser or serviceProvider."
	}
	return details
}
