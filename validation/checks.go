package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Checks collects field errors for rules struct tags cannot express, such
// as constraints spanning several fields.
type Checks struct {
	errs []FieldError
}

// Add records a failed rule.
func (c *Checks) Add(field, message string) *Checks {
	c.errs = append(c.errs, FieldError{Field: field, Message: message})
	return c
}

// Errors returns the recorded failures.
func (c *Checks) Errors() []FieldError {
	return c.errs
}

// Err returns an INVALID_INPUT AppError for the recorded failures, or nil.
func (c *Checks) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return fieldsError(c.errs)
}

// Required checks that a string is not blank.
func (c *Checks) Required(field, value string) *Checks {
	if strings.TrimSpace(value) == "" {
		c.Add(field, "is required")
	}
	return c
}

// UUID checks that a non-empty string is a valid, non-nil UUID.
func (c *Checks) UUID(field, value string) *Checks {
	if value == "" {
		return c
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return c.Add(field, "must be a valid UUID")
	}
	if parsed == uuid.Nil {
		c.Add(field, "must not be empty")
	}
	return c
}

// MaxLength checks that a string is at most maxLen bytes.
func (c *Checks) MaxLength(field, value string, maxLen int) *Checks {
	if len(value) > maxLen {
		c.Add(field, fmt.Sprintf("must be %d characters or less", maxLen))
	}
	return c
}

// Range checks that a number lies within [minVal, maxVal].
func (c *Checks) Range(field string, value, minVal, maxVal int) *Checks {
	if value < minVal || value > maxVal {
		c.Add(field, fmt.Sprintf("must be between %d and %d", minVal, maxVal))
	}
	return c
}

// Pattern checks that a non-empty string matches pattern.
func (c *Checks) Pattern(field, value, pattern string) *Checks {
	if value == "" {
		return c
	}
	matched, err := regexp.MatchString(pattern, value)
	if err != nil || !matched {
		c.Add(field, "does not match required format")
	}
	return c
}

// OneOf checks that a non-empty string is one of allowed.
func (c *Checks) OneOf(field, value string, allowed []string) *Checks {
	if value == "" || slices.Contains(allowed, value) {
		return c
	}
	return c.Add(field, "must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message for field unless condition holds.
func (c *Checks) Custom(condition bool, field, message string) *Checks {
	if !condition {
		c.Add(field, message)
	}
	return c
}
