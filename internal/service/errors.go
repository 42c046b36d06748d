package service

import (
	"errors"
	"strings"

	"github.com/personal-blog-api/internal/validation"
)

var (
	// ErrNotFound is returned when an id or slug does not resolve to a visible record
	ErrNotFound = errors.New("not found")
	// ErrSlugTaken is returned when a post slug is already used by another post
	ErrSlugTaken = errors.New("slug has already been taken")
	// ErrEmailTaken is returned when an admin email is already registered
	ErrEmailTaken = errors.New("email has already been taken")
	// ErrUnauthorized is returned for bad credentials or an invalid session token
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries field-keyed messages for malformed input
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields.Fields() {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError returns nil when errs is empty
func newValidationError(errs validation.Errors) error {
	if errs.Empty() {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// fieldError builds a single-field ValidationError
func fieldError(field, message string) *ValidationError {
	errs := validation.Errors{}
	errs.Add(field, message)
	return &ValidationError{Fields: errs}
}
