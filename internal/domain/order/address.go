package order

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Recipient name length bounds and the required phone shape. These used to
// live as schema validators in the storage layer; they are enforced here so
// every persisted order satisfies them regardless of storage technology.
const (
	minNameLen = 5
	maxNameLen = 30
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidationError reports the first violated shipping address field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Address is the shipping destination for an order. Street and City are
// optional; Name, Phone, and Wilaya are mandatory.
type Address struct {
	Street string
	City   string
	Name   string
	Phone  string
	Wilaya string
}

// Validate checks the mandatory fields and their shape, returning a
// *ValidationError for the first violation found.
func (a Address) Validate() error {
	if a.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if n := utf8.RuneCountInString(a.Name); n < minNameLen || n > maxNameLen {
		return &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must be between %d and %d characters", minNameLen, maxNameLen),
		}
	}
	if a.Phone == "" {
		return &ValidationError{Field: "phone", Message: "phone is required"}
	}
	if !phonePattern.MatchString(a.Phone) {
		return &ValidationError{
			Field:   "phone",
			Message: fmt.Sprintf("%s is not a valid 10-digit phone number", a.Phone),
		}
	}
	if a.Wilaya == "" {
		return &ValidationError{Field: "wilaya", Message: "wilaya is required"}
	}
	return nil
}
