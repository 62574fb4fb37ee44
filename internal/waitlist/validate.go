// File: internal/waitlist/validate.go
package waitlist

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MinPhoneDigits is the shortest phone number accepted on signup.
const MinPhoneDigits = 11

var validate = validator.New()

// Form field names used in validation errors.
const (
	FieldUserType = "userType"
	FieldContact  = "contact"
)

// ValidationError is a signup problem to be shown next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Submission is the signup form as entered by a visitor.
type Submission struct {
	Email    string
	Phone    string
	UserType string
	Location string
}

// SanitizePhone keeps digits and a single leading '+'.
func SanitizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CountDigits returns the number of decimal digits in s.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// IsValidEmail reports whether email is a syntactically valid address.
func IsValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// IsValidPhone reports whether phone has enough digits to be reachable.
func IsValidPhone(phone string) bool {
	return CountDigits(phone) >= MinPhoneDigits
}

// Validate checks the submission the way the signup form does and returns the
// first problem found.
func (s Submission) Validate() error {
	if s.UserType != UserTypeUser && s.UserType != UserTypeProvider {
		return &ValidationError{Field: FieldUserType, Message: "Please select whether you are a Service User or Service Provider."}
	}

	email := strings.TrimSpace(s.Email)
	if email == "" {
		phone := SanitizePhone(s.Phone)
		if phone == "" {
			return &ValidationError{Field: FieldContact, Message: "Please enter your phone number or email."}
		}
		if !IsValidPhone(phone) {
			return &ValidationError{Field: FieldContact, Message: fmt.Sprintf("Please enter a valid phone number with at least %d digits.", MinPhoneDigits)}
		}
		return nil
	}

	if !IsValidEmail(email) {
		return &ValidationError{Field: FieldContact, Message: "Please enter a valid email address."}
	}
	return nil
}

// Contact is the value the visitor will be reached on; email wins when both are set.
func (s Submission) Contact() string {
	if email := strings.TrimSpace(s.Email); email != "" {
		return email
	}
	return SanitizePhone(s.Phone)
}

// CreateRequest is the body of a waitlist signup.
type CreateRequest struct {
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Location    string      `json:"location"`
	ServiceType ServiceType `json:"servicestype"`
}

// ToCreateRequest fills the missing half of the contact with its placeholder.
// Call Validate first.
func (s Submission) ToCreateRequest() CreateRequest {
	contact := s.Contact()
	req := CreateRequest{
		Email:       BlankEmail,
		Phone:       BlankPhone,
		Location:    strings.TrimSpace(s.Location),
		ServiceType: ServiceTypeForUserType(s.UserType),
	}
	if strings.Contains(contact, "@") {
		req.Email = contact
	} else {
		req.Phone = contact
	}
	if req.Location == "" {
		req.Location = DefaultLocation
	}
	return req
}
