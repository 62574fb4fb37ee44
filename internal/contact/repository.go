// File: internal/contact/repository.go
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/waitlist"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for contact data operations.
type Repository interface {
	Create(ctx context.Context, contact *Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListAll returns every contact, oldest first.
	ListAll(ctx context.Context) ([]Contact, error)
	Search(ctx context.Context, q SearchQuery) ([]Contact, int64, error)
	// ExistsByEmail reports whether another contact (not exclude) uses email.
	ExistsByEmail(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
	ExistsByPhone(ctx context.Context, phone string, exclude uuid.UUID) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM contact repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// EnsureUniqueIndexes creates partial unique indexes over real emails and phones.
// Placeholders are excluded so any number of contacts may carry them.
func EnsureUniqueIndexes(ctx context.Context, db *gorm.DB) error {
	stmts := []string{
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_real_email ON contacts (email) WHERE email <> '%s'", waitlist.BlankEmail),
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_real_phone ON contacts (phone) WHERE phone <> '%s'", waitlist.BlankPhone),
	}
	for _, stmt := range stmts {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("create contact unique index: %w", err)
		}
	}
	return nil
}

func (r *gormRepository) Create(ctx context.Context, contact *Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		if isUniqueViolation(err) {
			return duplicateContact(err)
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	var contact Contact
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Contact not found.")
		}
		return nil, err
	}
	return &contact, nil
}

func (r *gormRepository) Update(ctx context.Context, contact *Contact) error {
	res := r.db.WithContext(ctx).Model(contact).Select("email", "phone", "location", "location_slug", "service_type", "updated_at").Updates(contact)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return duplicateContact(res.Error)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Contact not found.")
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Contact not found.")
	}
	return nil
}

func (r *gormRepository) ListAll(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&contacts).Error
	return contacts, err
}

func (r *gormRepository) Search(ctx context.Context, q SearchQuery) ([]Contact, int64, error) {
	query := r.db.WithContext(ctx).Model(&Contact{})

	if term := strings.TrimSpace(q.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		query = query.Where(
			"(phone <> ? AND LOWER(phone) LIKE ? ESCAPE '\\') OR (phone = ? AND LOWER(email) LIKE ? ESCAPE '\\')",
			waitlist.BlankPhone, pattern, waitlist.BlankPhone, pattern,
		)
	}
	if q.ServiceType != "" {
		query = query.Where("service_type = ?", q.ServiceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []Contact
	err := query.Order("created_at ASC").Order("id ASC").
		Offset(common.Offset(q.Page, q.PageSize)).
		Limit(q.PageSize).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *gormRepository) ExistsByEmail(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	return r.exists(ctx, "email = ?", email, exclude)
}

func (r *gormRepository) ExistsByPhone(ctx context.Context, phone string, exclude uuid.UUID) (bool, error) {
	return r.exists(ctx, "phone = ?", phone, exclude)
}

func (r *gormRepository) exists(ctx context.Context, cond string, value string, exclude uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&Contact{}).Where(cond, value)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// isUniqueViolation recognises unique constraint errors from both PostgreSQL and SQLite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique_violation")
}

// duplicateContact maps a unique violation to the conflict the service reports
// from its own pre-check.
func duplicateContact(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "phone") {
		return common.ErrConflict.WithDetails("This phone number is already on the waitlist.")
	}
	return common.ErrConflict.WithDetails("This email is already on the waitlist.")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
