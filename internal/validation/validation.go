package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrValidation is matched by every FieldErrors value through errors.Is
var ErrValidation = errors.New("validation failed")

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// FieldErrors collects per-field validation messages
type FieldErrors map[string]string

// Add records err under field, keeping the first message per field
func (e FieldErrors) Add(field string, err error) {
	if err == nil {
		return
	}
	if _, exists := e[field]; !exists {
		e[field] = err.Error()
	}
}

// Error implements error with a stable, sorted summary
func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets callers test with errors.Is(err, ErrValidation)
func (e FieldErrors) Is(target error) bool {
	return target == ErrValidation
}

// OrNil returns nil when no field failed
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidateRequired checks that a field is not blank
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength checks the minimum rune length of a trimmed string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < minLength {
		return fmt.Errorf("%s must be at least %d characters long", fieldName, minLength)
	}
	return nil
}

// ValidateMaxLength checks the maximum rune length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return fmt.Errorf("%s must be at most %d characters long", fieldName, maxLength)
	}
	return nil
}

// ValidateUUID checks that a string is a valid UUID
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidateURL checks for an absolute http(s) URL
func ValidateURL(value, fieldName string) error {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New(fieldName + " must be a valid http(s) URL")
	}
	return nil
}

// ValidateHexColor checks a #rgb or #rrggbb color
func ValidateHexColor(value, fieldName string) error {
	if !hexColorPattern.MatchString(value) {
		return errors.New(fieldName + " must be a hex color like #C21E56")
	}
	return nil
}

// RSVPValidation holds the intake form rules
type RSVPValidation struct{}

// ValidateGuestName checks the name of the primary guest
func (v RSVPValidation) ValidateGuestName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 2, "name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 150, "name")
}

// ValidatePhone checks the contact phone number
func (v RSVPValidation) ValidatePhone(phone string) error {
	if err := ValidateRequired(phone, "phone"); err != nil {
		return err
	}
	if err := ValidateMinLength(phone, 10, "phone"); err != nil {
		return err
	}
	return ValidateMaxLength(phone, 30, "phone")
}

// ValidateCompanionName checks one companion sub-form entry
func (v RSVPValidation) ValidateCompanionName(name string) error {
	if err := ValidateRequired(name, "companion name"); err != nil {
		return err
	}
	return ValidateMinLength(name, 2, "companion name")
}

// ValidateMessage checks the optional free-text message
func (v RSVPValidation) ValidateMessage(message string) error {
	return ValidateMaxLength(message, 2000, "message")
}

// GiftValidation holds the gift catalog rules
type GiftValidation struct{}

// ValidateGiftName checks a gift name
func (v GiftValidation) ValidateGiftName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	return ValidateMinLength(name, 2, "name")
}

// ValidatePrice checks that a price is not negative
func (v GiftValidation) ValidatePrice(price float64) error {
	if price < 0 {
		return errors.New("price must be zero or positive")
	}
	return nil
}

// InviteeValidation holds the directory rules
type InviteeValidation struct{}

// ValidateGuestLimit checks the party-size limit
func (v InviteeValidation) ValidateGuestLimit(limit int) error {
	if limit < 1 {
		return errors.New("guest limit must be at least 1")
	}
	return nil
}
