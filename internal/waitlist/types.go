// File: internal/waitlist/types.go
package waitlist

import (
	"strings"
	"time"
)

// ServiceType is the waitlist segment a contact signed up for.
type ServiceType string

const (
	ServiceUser     ServiceType = "serviceUser"
	ServiceProvider ServiceType = "serviceProvider"
)

// Valid reports whether t is one of the known service types.
func (t ServiceType) Valid() bool {
	return t == ServiceUser || t == ServiceProvider
}

// User types as chosen on the signup form and in list filters.
const (
	UserTypeUser     = "user"
	UserTypeProvider = "provider"
	UserTypeAll      = "all"
)

// ServiceTypeForUserType maps a form user type to the stored service type.
// Anything other than "user" is treated as a provider.
func ServiceTypeForUserType(userType string) ServiceType {
	if userType == UserTypeUser {
		return ServiceUser
	}
	return ServiceProvider
}

// Placeholder values stored when a contact only gave one of email or phone.
// They must round-trip through storage unchanged.
const (
	BlankPhone = "----------"
	BlankEmail = "---------@gmail.com"

	// NotAvailable replaces a placeholder wherever a contact value is displayed.
	NotAvailable = "N/A"
)

// DefaultLocation is used when a signup does not carry a location.
const DefaultLocation = "Nigeria"

// Record is the wire shape of a waitlist contact.
type Record struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Location    string      `json:"location"`
	ServiceType ServiceType `json:"servicestype"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Entry is a Record with its primary contact resolved.
type Entry struct {
	Record
	// Contact is the phone number unless it is the placeholder, otherwise the email.
	Contact string `json:"contact"`
}

// NewEntry resolves the primary contact of r.
func NewEntry(r Record) Entry {
	contact := r.Phone
	if r.Phone == BlankPhone {
		contact = r.Email
	}
	return Entry{Record: r, Contact: contact}
}

// NewEntries resolves every record in order.
func NewEntries(records []Record) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = NewEntry(r)
	}
	return entries
}

// HasPhone reports whether the record carries a real phone number.
func (r Record) HasPhone() bool {
	return strings.TrimSpace(r.Phone) != "" && r.Phone != BlankPhone
}

// HasEmail reports whether the record carries a real email address.
func (r Record) HasEmail() bool {
	return strings.TrimSpace(r.Email) != "" && r.Email != BlankEmail
}

// IsPlaceholder reports whether v is one of the stored placeholders.
func IsPlaceholder(v string) bool {
	return v == BlankPhone || v == BlankEmail
}

// Display returns v, or NotAvailable for empty values and placeholders.
func Display(v string) string {
	if strings.TrimSpace(v) == "" || IsPlaceholder(v) {
		return NotAvailable
	}
	return v
}

// DisplayContact is the contact to show for e.
func (e Entry) DisplayContact() string { return Display(e.Contact) }

// DisplayEmail is the email to show for e.
func (e Entry) DisplayEmail() string { return Display(e.Email) }

// DisplayPhone is the phone number to show for e.
func (e Entry) DisplayPhone() string { return Display(e.Phone) }

// UpdateRequest carries administrative changes to a contact. Nil fields are left untouched.
type UpdateRequest struct {
	Email       *string      `json:"email,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Location    *string      `json:"location,omitempty"`
	ServiceType *ServiceType `json:"servicestype,omitempty"`
}
