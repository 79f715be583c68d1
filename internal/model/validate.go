package model

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidatePortfolio checks a Portfolio for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the document is valid.
// Empty collections are allowed; the walkthrough renders them as empty views.
func ValidatePortfolio(p *Portfolio) error {
	var ve ValidationError
	if p == nil {
		ve.Errors = append(ve.Errors, FieldError{Field: "portfolio", Message: "is required"})
		return &ve
	}

	if strings.TrimSpace(p.Name) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(p.Name)) > 200 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 200 characters or fewer"})
	}

	for i, e := range p.Experience {
		if strings.TrimSpace(e.Company) == "" {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("experience[%d].company", i),
				Message: "is required",
			})
		}
	}
	for i, e := range p.Education {
		if strings.TrimSpace(e.University) == "" {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("education[%d].university", i),
				Message: "is required",
			})
		}
	}
	for i, pr := range p.Project {
		if strings.TrimSpace(pr.Name) == "" {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("project[%d].name", i),
				Message: "is required",
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateRecord checks the code, view accounting and document of a record.
func ValidateRecord(r *PortfolioRecord) error {
	var ve ValidationError
	if !IsValidCode(r.Code) {
		ve.Errors = append(ve.Errors, FieldError{Field: "code", Message: "must be exactly 6 alphanumeric characters"})
	}
	if r.ViewLimit < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "view_limit",
			Message: fmt.Sprintf("must not be negative, got %d", r.ViewLimit),
		})
	}
	if err := ValidatePortfolio(r.Portfolio); err != nil {
		var pe *ValidationError
		if errors.As(err, &pe) {
			ve.Errors = append(ve.Errors, pe.Errors...)
		}
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}
