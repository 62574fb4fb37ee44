// File: internal/contact/model.go
package contact

import (
	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/waitlist"
)

// Contact is a waitlist signup. Exactly one of Email and Phone holds a real value;
// the other holds its placeholder.
type Contact struct {
	common.BaseModel
	Email        string               `gorm:"type:varchar(255);not null;index"`
	Phone        string               `gorm:"type:varchar(32);not null;index"`
	Location     string               `gorm:"type:varchar(255);not null"`
	LocationSlug string               `gorm:"type:varchar(255);not null;index"`
	ServiceType  waitlist.ServiceType `gorm:"column:service_type;type:varchar(32);not null;index"`
}

// TableName specifies the table name for the Contact model.
func (Contact) TableName() string {
	return "contacts"
}

// ToRecord converts c to its wire shape.
func (c *Contact) ToRecord() waitlist.Record {
	return waitlist.Record{
		ID:          c.ID.String(),
		Email:       c.Email,
		Phone:       c.Phone,
		Location:    c.Location,
		ServiceType: c.ServiceType,
		CreatedAt:   c.CreatedAt,
	}
}

// ToRecords converts contacts in order.
func ToRecords(contacts []Contact) []waitlist.Record {
	records := make([]waitlist.Record, len(contacts))
	for i := range contacts {
		records[i] = contacts[i].ToRecord()
	}
	return records
}

// CreateContactRequest is the body of POST /contacts.
type CreateContactRequest struct {
	Email       string               `json:"email" binding:"max=255"`
	Phone       string               `json:"phone" binding:"max=32"`
	Location    string               `json:"location" binding:"max=255"`
	ServiceType waitlist.ServiceType `json:"servicestype" binding:"required,oneof=serviceUser serviceProvider"`
}

// UpdateContactRequest is the body of PUT /contacts/:id. Omitted fields are kept.
type UpdateContactRequest struct {
	Email       *string               `json:"email" binding:"omitempty,max=255"`
	Phone       *string               `json:"phone" binding:"omitempty,max=32"`
	Location    *string               `json:"location" binding:"omitempty,max=255"`
	ServiceType *waitlist.ServiceType `json:"servicestype" binding:"omitempty,oneof=serviceUser serviceProvider"`
}

// SearchQuery selects a page of contacts.
type SearchQuery struct {
	// Search matches the primary contact, case-insensitively.
	Search      string
	ServiceType waitlist.ServiceType
	Page        int
	PageSize    int
}
