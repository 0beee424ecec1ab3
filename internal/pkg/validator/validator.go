package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates (ISO-8601, no time part).
const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidUUID accepts the canonical 36 character form only.
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, dateStr)
	return date, err == nil
}

// IsNegative reports whether an optional amount is set and below zero.
func IsNegative(d *decimal.Decimal) bool {
	return d != nil && d.IsNegative()
}

// ExceedsPlaces reports whether an optional amount is set and carries more
// significant fractional digits than places. Trailing zeros do not count.
func ExceedsPlaces(d *decimal.Decimal, places int32) bool {
	return d != nil && !d.Equal(d.Truncate(places))
}

// RequiredDate validates a mandatory YYYY-MM-DD field and appends to errs on failure.
func RequiredDate(errs *ValidationErrors, field, value string) time.Time {
	if IsEmpty(value) {
		*errs = append(*errs, ValidationError{Field: field, Message: field + " is required"})
		return time.Time{}
	}
	date, ok := IsValidDate(value)
	if !ok {
		*errs = append(*errs, ValidationError{Field: field, Message: field + " must be a date in YYYY-MM-DD format"})
	}
	return date
}

// OptionalDate validates a YYYY-MM-DD field that may be omitted. A present
// but blank value is invalid.
func OptionalDate(errs *ValidationErrors, field string, value *string) *time.Time {
	if value == nil {
		return nil
	}
	date, ok := IsValidDate(*value)
	if !ok {
		*errs = append(*errs, ValidationError{Field: field, Message: field + " must be a date in YYYY-MM-DD format"})
		return nil
	}
	return &date
}
